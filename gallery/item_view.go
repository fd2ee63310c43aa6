package gallery

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	activitySize     = 32
	progressMaxWidth = 240
	// zoomStepFactor is the scale change of one ctrl+scroll notch.
	zoomStepFactor = 1.25
)

// itemGestures receives the gestures recognised by an itemView.
type itemGestures interface {
	singleTap(pos fyne.Position)
	doubleTap(pos fyne.Position)
	longPress(pos fyne.Position)
	panChanged(translation, velocity fyne.Delta)
	panEnded(translation, velocity fyne.Delta)
}

// itemView shows one image and behaves like a zoomable scroll view. The swipe offset is
// applied on top of the zoom layout and follows the scroll convention.
type itemView struct {
	widget.BaseWidget

	image    *canvas.Image
	activity *widget.Activity
	progress *widget.ProgressBar

	// content is the pixel size of the shown image, zero while there is none.
	content fyne.Size

	zoomScale float32
	maxZoom   float32
	scroll    fyne.Position
	swipe     fyne.Position
	// override places the image freely while it flies back to its source.
	override *Rect
	alpha    float32

	onOffsetChanged func(fyne.Position)
	gestures        itemGestures

	tracker     velocityTracker
	dragging    bool
	translation fyne.Delta
	accDY       float32
}

func newItemView(gestures itemGestures) *itemView {
	v := &itemView{
		image:     canvas.NewImageFromImage(nil),
		activity:  widget.NewActivity(),
		progress:  widget.NewProgressBar(),
		zoomScale: 1,
		maxZoom:   1,
		alpha:     1,
		gestures:  gestures,
	}
	v.image.FillMode = canvas.ImageFillContain
	v.image.ScaleMode = canvas.ImageScaleSmooth
	v.progress.Max = 1
	v.progress.Hide()
	v.activity.Start()
	v.tracker.now = time.Now
	v.ExtendBaseWidget(v)
	return v
}

func (v *itemView) CreateRenderer() fyne.WidgetRenderer {
	return &itemViewRenderer{v: v}
}

// setImage shows img. A nil image clears the view.
func (v *itemView) setImage(img image.Image) {
	v.image.Image = img
	v.content = imageSize(img)
	v.relayout()
}

func (v *itemView) stopActivity() {
	v.activity.Stop()
	v.activity.Hide()
	v.progress.Hide()
}

func (v *itemView) showProgress() {
	v.activity.Stop()
	v.activity.Hide()
	v.progress.Show()
}

func (v *itemView) setProgress(p float64) {
	v.progress.SetValue(p)
}

// setAlpha fades the image, 0 is fully transparent.
func (v *itemView) setAlpha(a float32) {
	v.alpha = clamp32(a, 0, 1)
	v.image.Translucency = float64(1 - v.alpha)
	canvas.Refresh(v.image)
}

func (v *itemView) ContentOffset() fyne.Position {
	return v.swipe
}

func (v *itemView) SetContentOffset(p fyne.Position) {
	v.swipe = p
	v.relayout()
	if v.onOffsetChanged != nil {
		v.onOffsetChanged(p)
	}
}

// fitSize is the size of the image at zoom scale 1.
func (v *itemView) fitSize() fyne.Size {
	fit, ok := AspectFitSize(v.content, v.Size())
	if !ok {
		return fyne.Size{}
	}
	return fit
}

// imageFrame is the rectangle the image occupies in view coordinates.
func (v *itemView) imageFrame() Rect {
	return v.frameFor(v.Size())
}

func (v *itemView) frameFor(size fyne.Size) Rect {
	if v.override != nil {
		return *v.override
	}
	fit, ok := AspectFitSize(v.content, size)
	if !ok {
		return Rect{Position: fyne.NewPos(size.Width/2, size.Height/2)}
	}

	shown := fyne.NewSize(fit.Width*v.zoomScale, fit.Height*v.zoomScale)
	pos := fyne.NewPos(-v.scroll.X, -v.scroll.Y)
	if shown.Width <= size.Width {
		pos.X = (size.Width - shown.Width) / 2
	}
	if shown.Height <= size.Height {
		pos.Y = (size.Height - shown.Height) / 2
	}
	return NewRect(pos.Subtract(v.swipe), shown)
}

func (v *itemView) setOverride(r *Rect) {
	v.override = r
	v.relayout()
}

func (v *itemView) layoutContent(size fyne.Size) {
	frame := v.frameFor(size)
	v.image.Move(frame.Position)
	v.image.Resize(frame.Size)

	v.activity.Resize(fyne.NewSize(activitySize, activitySize))
	v.activity.Move(fyne.NewPos((size.Width-activitySize)/2, (size.Height-activitySize)/2))

	w := min32(progressMaxWidth, size.Width*0.6)
	h := v.progress.MinSize().Height
	v.progress.Resize(fyne.NewSize(w, h))
	v.progress.Move(fyne.NewPos((size.Width-w)/2, (size.Height-h)/2))
}

func (v *itemView) relayout() {
	v.layoutContent(v.Size())
	canvas.Refresh(v.image)
}

func (v *itemView) zoomed() bool {
	return v.zoomScale > 1
}

// maxScroll is the largest scroll offset for the current zoom.
func (v *itemView) maxScroll(scale float32) fyne.Position {
	fit, size := v.fitSize(), v.Size()
	return fyne.NewPos(
		max32(0, fit.Width*scale-size.Width),
		max32(0, fit.Height*scale-size.Height),
	)
}

func (v *itemView) clampScroll(p fyne.Position, scale float32) fyne.Position {
	m := v.maxScroll(scale)
	return fyne.NewPos(clamp32(p.X, 0, m.X), clamp32(p.Y, 0, m.Y))
}

func (v *itemView) setZoom(scale float32, scroll fyne.Position) {
	v.zoomScale = clamp32(scale, 1, v.maxZoom)
	v.scroll = v.clampScroll(scroll, v.zoomScale)
	v.relayout()
}

// zoomTarget returns the scale and scroll offset that zoom to scale around pos in view
// coordinates, with pos kept under the pointer.
func (v *itemView) zoomTarget(pos fyne.Position, scale float32) (float32, fyne.Position) {
	scale = clamp32(scale, 1, v.maxZoom)
	frame := v.imageFrame()
	if frame.Empty() {
		return v.zoomScale, v.scroll
	}

	content := fyne.NewPos((pos.X-frame.Position.X)/v.zoomScale, (pos.Y-frame.Position.Y)/v.zoomScale)
	scroll := fyne.NewPos(content.X*scale-pos.X, content.Y*scale-pos.Y)
	return scale, v.clampScroll(scroll, scale)
}

// zoomRectTarget returns the scale and scroll offset that show the zoom rectangle for a
// double tap at pos.
func (v *itemView) zoomRectTarget(pos fyne.Position, scale float32) (float32, fyne.Position) {
	frame := v.imageFrame()
	center := fyne.NewPos((pos.X-frame.Position.X)/v.zoomScale, (pos.Y-frame.Position.Y)/v.zoomScale)
	r := ZoomRect(v.Size(), v.fitSize(), scale, center)
	scroll := fyne.NewPos(r.Position.X*scale, r.Position.Y*scale)
	return scale, v.clampScroll(scroll, scale)
}

func (v *itemView) resetZoom() {
	v.zoomScale = 1
	v.scroll = fyne.Position{}
	v.relayout()
}

func (v *itemView) panBy(d fyne.Delta) {
	if !v.zoomed() {
		return
	}
	v.scroll = v.clampScroll(fyne.NewPos(v.scroll.X-d.DX, v.scroll.Y-d.DY), v.zoomScale)
	v.relayout()
}

func (v *itemView) Tapped(e *fyne.PointEvent) {
	if v.gestures != nil {
		v.gestures.singleTap(e.Position)
	}
}

func (v *itemView) DoubleTapped(e *fyne.PointEvent) {
	if v.gestures != nil {
		v.gestures.doubleTap(e.Position)
	}
}

// TappedSecondary is a long press on touch devices and a right click on desktop.
func (v *itemView) TappedSecondary(e *fyne.PointEvent) {
	if v.gestures != nil {
		v.gestures.longPress(e.Position)
	}
}

func (v *itemView) Dragged(e *fyne.DragEvent) {
	if !v.dragging {
		v.dragging = true
		v.translation = fyne.Delta{}
		v.tracker.reset()
	}
	v.translation = fyne.NewDelta(v.translation.DX+e.Dragged.DX, v.translation.DY+e.Dragged.DY)
	v.tracker.add(e.AbsolutePosition)

	velocity := v.tracker.velocity()
	if velocity.IsZero() {
		// The first sample has no history, its delta still tells the direction.
		velocity = e.Dragged
	}
	if v.gestures != nil {
		v.gestures.panChanged(v.translation, velocity)
	}
}

func (v *itemView) DragEnd() {
	if !v.dragging {
		return
	}
	v.dragging = false
	velocity := v.tracker.velocity()
	if v.gestures != nil {
		v.gestures.panEnded(v.translation, velocity)
	}
	v.translation = fyne.Delta{}
}

func (v *itemView) Scrolled(e *fyne.ScrollEvent) {
	if isBad(e.Scrolled.DX) || isBad(e.Scrolled.DY) {
		return
	}
	if !isZoomModifierActive() {
		v.panBy(e.Scrolled)
		return
	}
	v.zoomSteps(v.accumulateNotches(e.Scrolled.DY), e.Position)
}

// accumulateNotches turns scroll deltas into whole wheel notches. DY is about 40 per notch
// on a mouse wheel, touchpads deliver it in small pieces.
func (v *itemView) accumulateNotches(dy float32) int {
	const notch = float32(40)

	v.accDY += dy
	var steps int
	for v.accDY >= notch {
		steps++
		v.accDY -= notch
	}
	for v.accDY <= -notch {
		steps--
		v.accDY += notch
	}
	return steps
}

func (v *itemView) zoomSteps(steps int, at fyne.Position) {
	if steps == 0 || v.content.IsZero() {
		return
	}
	scale := v.zoomScale
	for range abs(steps) {
		if steps > 0 {
			scale *= zoomStepFactor
		} else {
			scale /= zoomStepFactor
		}
	}
	v.setZoom(v.zoomTarget(at, scale))
}

func isZoomModifierActive() bool {
	app := fyne.CurrentApp()
	if app == nil {
		return false
	}
	d, ok := app.Driver().(desktop.Driver)
	if !ok {
		return false
	}

	mods := d.CurrentKeyModifiers()
	return mods&fyne.KeyModifierControl != 0 || mods&fyne.KeyModifierShortcutDefault != 0
}

var (
	_ fyne.Tappable          = (*itemView)(nil)
	_ fyne.DoubleTappable    = (*itemView)(nil)
	_ fyne.SecondaryTappable = (*itemView)(nil)
	_ fyne.Draggable         = (*itemView)(nil)
	_ fyne.Scrollable        = (*itemView)(nil)
	_ offsetSurface          = (*itemView)(nil)
)

type itemViewRenderer struct {
	v *itemView
}

func (r *itemViewRenderer) Layout(size fyne.Size) {
	r.v.layoutContent(size)
}

func (r *itemViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *itemViewRenderer) Refresh() {
	r.v.layoutContent(r.v.Size())
	canvas.Refresh(r.v.image)
	r.v.progress.Refresh()
}

func (r *itemViewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.v.image, r.v.activity, r.v.progress}
}

func (r *itemViewRenderer) Destroy() {}

// velocityWindow is how far back pointer samples count towards the release velocity.
const velocityWindow = 100 * time.Millisecond

type velocitySample struct {
	at  time.Time
	pos fyne.Position
}

type velocityTracker struct {
	now     func() time.Time
	samples []velocitySample
}

func (t *velocityTracker) reset() {
	t.samples = t.samples[:0]
}

func (t *velocityTracker) add(pos fyne.Position) {
	now := t.now()
	t.samples = append(t.samples, velocitySample{at: now, pos: pos})
	t.trim(now)
}

func (t *velocityTracker) trim(now time.Time) {
	cut := 0
	for cut < len(t.samples)-1 && now.Sub(t.samples[cut].at) > velocityWindow {
		cut++
	}
	t.samples = t.samples[cut:]
}

// velocity is the pointer velocity in points per second over the recent samples.
func (t *velocityTracker) velocity() fyne.Delta {
	if len(t.samples) < 2 {
		return fyne.Delta{}
	}
	first, last := t.samples[0], t.samples[len(t.samples)-1]
	if t.now().Sub(last.at) > velocityWindow {
		return fyne.Delta{}
	}
	dt := float32(last.at.Sub(first.at).Seconds())
	if dt <= 0 {
		return fyne.Delta{}
	}
	return fyne.NewDelta((last.pos.X-first.pos.X)/dt, (last.pos.Y-first.pos.Y)/dt)
}

func imageSize(img image.Image) fyne.Size {
	if img == nil {
		return fyne.Size{}
	}
	b := img.Bounds()
	return fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
