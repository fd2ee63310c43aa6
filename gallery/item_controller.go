package gallery

import (
	"context"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"go.uber.org/atomic"
)

// ItemState is the lifecycle state of one item.
type ItemState int

const (
	ItemAwaitingImage ItemState = iota
	ItemIdle
	ItemPresenting
	ItemDismissing
	ItemSwiping
	ItemDismissed
)

func (s ItemState) String() string {
	switch s {
	case ItemAwaitingImage:
		return "awaiting-image"
	case ItemIdle:
		return "idle"
	case ItemPresenting:
		return "presenting"
	case ItemDismissing:
		return "dismissing"
	case ItemSwiping:
		return "swiping"
	case ItemDismissed:
		return "dismissed"
	}
	return "unknown"
}

type panKind int

const (
	panNone panKind = iota
	panSwipe
	panPage
	panZoom
	panIgnored
)

// itemController owns the view of one item: fetching its image, zooming, swiping it away
// and the displacement animations.
type itemController struct {
	index   int
	count   int
	initial bool

	item      Item
	opts      *Options
	animator  Animator
	dispatch  func(func())
	delegate  itemControllerDelegate
	displaced DisplacedViewSource
	log       *slog.Logger

	view      *itemView
	box       *fyne.Container
	transient *canvas.Image
	size      fyne.Size

	state       ItemState
	isAnimating bool
	image       image.Image

	fetchStarted bool
	cancel       context.CancelFunc
	evicted      *atomic.Bool

	swipe           *swipeToDismissTransition
	pan             panKind
	axis            Orientation
	lastTranslation fyne.Delta
}

type itemControllerConfig struct {
	index     int
	count     int
	initial   bool
	item      Item
	opts      *Options
	animator  Animator
	dispatch  func(func())
	delegate  itemControllerDelegate
	displaced DisplacedViewSource
	thumbnail image.Image
	log       *slog.Logger
}

func newItemController(cfg itemControllerConfig) *itemController {
	c := &itemController{
		index:     cfg.index,
		count:     cfg.count,
		initial:   cfg.initial,
		item:      cfg.item,
		opts:      cfg.opts,
		animator:  cfg.animator,
		dispatch:  cfg.dispatch,
		delegate:  cfg.delegate,
		displaced: cfg.displaced,
		log:       cfg.log,
		evicted:   atomic.NewBool(false),
	}
	if c.log == nil {
		c.log = Logger()
	}
	c.log = c.log.With("index", c.index)
	if c.dispatch == nil {
		c.dispatch = fyne.Do
	}

	c.view = newItemView(c)
	c.view.onOffsetChanged = c.offsetChanged
	c.box = container.NewWithoutLayout(c.view)
	c.swipe = newSwipeToDismissTransition(c.animator)

	if cfg.thumbnail != nil {
		c.view.setImage(cfg.thumbnail)
	}
	if c.item.reportsProgress() {
		c.view.showProgress()
	}
	// The initial item stays hidden until its entrance animation reveals it.
	if c.initial {
		c.view.Hide()
	}
	return c
}

// object is the canvas object the pager places.
func (c *itemController) object() fyne.CanvasObject {
	return c.box
}

func (c *itemController) State() ItemState {
	return c.state
}

// layout sizes the controller to the viewport.
func (c *itemController) layout(size fyne.Size) {
	c.size = size
	c.box.Resize(size)
	c.view.Move(fyne.NewPos(0, 0))
	c.view.Resize(size)
	c.updateZoomLimit()
	c.view.relayout()
}

func (c *itemController) updateZoomLimit() {
	fill := AspectFillZoomScale(c.size, c.view.fitSize())
	c.view.maxZoom = max32(c.opts.MaximumZoomScale, fill)
}

// fetchImage starts the fetch of the item image. Only the first call has an effect.
func (c *itemController) fetchImage() {
	if c.fetchStarted {
		return
	}
	c.fetchStarted = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	evicted := c.evicted

	progress := func(p float64) {
		c.dispatch(func() {
			if evicted.Load() {
				return
			}
			c.view.setProgress(p)
		})
	}

	go func() {
		img, err := c.item.fetch(ctx, progress)
		if err == nil && img == nil {
			err = ErrNoImage
		}
		c.dispatch(func() {
			if evicted.Load() {
				c.log.Debug("dropping fetch result of evicted item")
				return
			}
			if err != nil {
				c.log.Warn("fetch failed", "error", err)
				c.delegate.itemDidFailToFetch(c, &FetchError{Index: c.index, Err: err})
				return
			}
			c.setImage(img)
		})
	}()
}

func (c *itemController) setImage(img image.Image) {
	c.image = img
	c.view.stopActivity()
	c.view.setImage(img)
	c.updateZoomLimit()
	if c.state == ItemAwaitingImage {
		c.state = ItemIdle
	}
}

// restingState is the state an animation returns to.
func (c *itemController) restingState() ItemState {
	if c.image == nil {
		return ItemAwaitingImage
	}
	return ItemIdle
}

func (c *itemController) displacementTarget(content fyne.Size) Rect {
	center := fyne.NewPos(c.size.Width/2, c.size.Height/2)
	fit, ok := AspectFitSize(content, c.size)
	if !ok {
		return NewRect(center, fyne.Size{})
	}
	return NewRect(fyne.NewPos(center.X-fit.Width/2, center.Y-fit.Height/2), fit)
}

func (c *itemController) displacementCurve() fyne.AnimationCurve {
	if c.opts.DisplacementStyle.Bounce > 0 {
		return SpringCurve(c.opts.DisplacementStyle.damping(), 1)
	}
	return curveFor(c.opts.DisplacementTimingCurve)
}

// presentItem runs the entrance animation. animations runs first so the caller can start
// animations in lockstep. completion runs exactly once; while another animation is in
// flight the call is ignored.
func (c *itemController) presentItem(animations, completion func()) {
	if c.isAnimating {
		return
	}
	c.isAnimating = true
	c.state = ItemPresenting

	if animations != nil {
		animations()
	}

	finish := func() {
		c.isAnimating = false
		c.state = c.restingState()
		if completion != nil {
			completion()
		}
	}

	var dv DisplaceableView
	if c.displaced != nil {
		dv = c.displaced.DisplacedView(c.index)
	}
	if dv == nil || dv.Image() == nil {
		c.fadeIn(finish)
		return
	}

	img := dv.Image()
	wasVisible := dv.Visible()
	from := dv.Frame()
	to := c.displacementTarget(imageSize(img))

	t := canvas.NewImageFromImage(img)
	t.FillMode = dv.FillMode()
	t.Move(from.Position)
	t.Resize(from.Size)
	c.transient = t
	c.box.Add(t)

	if !c.opts.DisplacementKeepOriginalInPlace {
		dv.Hide()
	}

	c.animator.Start(&Animation{
		Duration: c.opts.DisplacementDuration.D(),
		Curve:    c.displacementCurve(),
		Tick: func(p float32) {
			t.Move(lerpPos(from.Position, to.Position, p))
			t.Resize(lerpSize(from.Size, to.Size, p))
		},
		Done: func() {
			if c.image == nil {
				c.view.setImage(img)
			}
			c.view.setAlpha(1)
			c.view.Show()
			restoreVisibility(dv, wasVisible)

			c.box.Remove(t)
			c.transient = nil
			finish()
		},
	})
}

func (c *itemController) fadeIn(done func()) {
	c.view.setAlpha(0)
	c.view.Show()
	c.animator.Start(&Animation{
		Duration: c.opts.ItemFadeDuration.D(),
		Curve:    fyne.AnimationLinear,
		Tick:     c.view.setAlpha,
		Done:     done,
	})
}

// visibleDisplacedView returns the displacement source for this item when enough of it is
// on screen to fly back to.
func (c *itemController) visibleDisplacedView() DisplaceableView {
	if c.displaced == nil {
		return nil
	}
	dv := c.displaced.DisplacedView(c.index)
	if dv == nil {
		return nil
	}

	margin := c.opts.DisplacementInsetMargin
	valid := NewRect(fyne.NewPos(0, 0), c.size).Inset(margin, margin)
	if !dv.Frame().Intersects(valid) {
		return nil
	}
	return dv
}

// dismissItem runs the exit animation, the reverse of presentItem. It is ignored while
// a swipe owns the item.
func (c *itemController) dismissItem(animations, completion func()) {
	if c.isAnimating || c.state == ItemSwiping || c.state == ItemDismissed {
		return
	}
	c.isAnimating = true
	c.state = ItemDismissing

	if animations != nil {
		animations()
	}

	finish := func() {
		c.isAnimating = false
		c.state = ItemDismissed
		if completion != nil {
			completion()
		}
	}

	dv := c.visibleDisplacedView()
	if dv == nil {
		c.animator.Start(&Animation{
			Duration: c.opts.ItemFadeDuration.D(),
			Curve:    fyne.AnimationLinear,
			Tick: func(p float32) {
				c.view.setAlpha(1 - p)
			},
			Done: finish,
		})
		return
	}

	wasVisible := dv.Visible()
	if !c.opts.DisplacementKeepOriginalInPlace {
		dv.Hide()
	}

	from := c.view.imageFrame()
	to := dv.Frame()
	c.view.image.FillMode = dv.FillMode()

	c.animator.Start(&Animation{
		Duration: c.opts.ReverseDisplacementDuration.D(),
		Curve:    fyne.AnimationLinear,
		Tick: func(p float32) {
			r := NewRect(lerpPos(from.Position, to.Position, p), lerpSize(from.Size, to.Size, p))
			c.view.setOverride(&r)
		},
		Done: func() {
			restoreVisibility(dv, wasVisible)
			finish()
		},
	})
}

// holdForDismiss stops the item from starting gestures ahead of a dismissal.
func (c *itemController) holdForDismiss() {
	if c.state == ItemSwiping || c.state == ItemDismissed {
		return
	}
	c.state = ItemDismissing
}

// swiping reports whether a swipe is in progress, including its release animation.
func (c *itemController) swiping() bool {
	return c.state == ItemSwiping
}

func restoreVisibility(dv DisplaceableView, visible bool) {
	if visible {
		dv.Show()
		return
	}
	dv.Hide()
}

// teardown releases the controller once it leaves the retention window. A fetch still in
// flight is cancelled and its result dropped.
func (c *itemController) teardown() {
	c.evicted.Store(true)
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *itemController) evictedFlag() bool {
	return c.evicted.Load()
}

func (c *itemController) willAppear() {
	c.delegate.itemWillAppear(c)
}

func (c *itemController) didAppear() {
	c.delegate.itemDidAppear(c)
}

func (c *itemController) willDisappear() {
	c.view.resetZoom()
	c.delegate.itemWillDisappear(c)
}

func (c *itemController) singleTap(fyne.Position) {
	c.delegate.itemDidSingleTap(c)
}

func (c *itemController) longPress(fyne.Position) {
	if !c.opts.ExportByLongPress || c.image == nil {
		return
	}
	c.delegate.itemDidLongPress(c, c.image)
}

// doubleTap toggles between scale 1 and the scale that fills the viewport, zooming around
// the tapped point. Taps outside the image are ignored.
func (c *itemController) doubleTap(pos fyne.Position) {
	if c.isAnimating || c.state == ItemSwiping || c.state == ItemDismissing || c.view.content.IsZero() {
		return
	}
	frame := c.view.imageFrame()
	if pos.Y < frame.Position.Y || pos.Y > frame.Max().Y {
		return
	}

	fromScale, fromScroll := c.view.zoomScale, c.view.scroll
	fill := min32(AspectFillZoomScale(c.size, c.view.fitSize()), c.opts.DoubleTapZoomScale)

	var toScale float32 = 1
	toScroll := fyne.Position{}
	if fromScale == 1 && fromScale < fill {
		toScale, toScroll = c.view.zoomRectTarget(pos, fill)
	}

	c.isAnimating = true
	c.animator.Start(&Animation{
		Duration: c.opts.DoubleTapToZoomDuration.D(),
		Curve:    fyne.AnimationEaseOut,
		Tick: func(p float32) {
			c.view.zoomScale = lerp32(fromScale, toScale, p)
			c.view.scroll = lerpPos(fromScroll, toScroll, p)
			c.view.relayout()
		},
		Done: func() {
			c.view.setZoom(toScale, toScroll)
			c.isAnimating = false
		},
	})
}

func (c *itemController) panChanged(translation, velocity fyne.Delta) {
	if c.pan == panNone {
		c.pan = c.classifyPan(velocity)
		c.lastTranslation = fyne.Delta{}
		if c.pan == panSwipe {
			c.axis = ClassifyOrientation(velocity)
			c.state = ItemSwiping
			c.swipe.begin(c.view)
		}
	}

	switch c.pan {
	case panSwipe:
		c.swipe.update(clampSwipeOffset(c.axis, c.index, c.count, translation))
	case panPage:
		c.delegate.itemDidDragPage(c, translation.DX)
	case panZoom:
		c.view.panBy(fyne.NewDelta(translation.DX-c.lastTranslation.DX, translation.DY-c.lastTranslation.DY))
	}
	c.lastTranslation = translation
}

func (c *itemController) classifyPan(velocity fyne.Delta) panKind {
	switch {
	case c.isAnimating:
		return panIgnored
	case c.state == ItemSwiping, c.state == ItemDismissing, c.state == ItemDismissed:
		return panIgnored
	}
	if c.view.zoomed() {
		return panZoom
	}
	if c.opts.SwipeToDismissMode != SwipeToDismissNever &&
		shouldBeginSwipe(c.opts.SwipeToDismissMode, velocity, c.index, c.count) {
		return panSwipe
	}
	if ClassifyOrientation(velocity) == OrientationHorizontal {
		return panPage
	}
	return panIgnored
}

func (c *itemController) panEnded(translation, velocity fyne.Delta) {
	kind := c.pan
	c.pan = panNone
	c.lastTranslation = fyne.Delta{}

	switch kind {
	case panSwipe:
		c.endSwipe(translation, velocity)
	case panPage:
		c.delegate.itemDidEndPageDrag(c, velocity.DX)
	}
}

func (c *itemController) endSwipe(translation, velocity fyne.Delta) {
	axis := c.axis
	offset := clampSwipeOffset(axis, c.index, c.count, translation)
	d := decideSwipe(axis, c.index, c.count, velocity, c.opts.SwipeToDismissThresholdVelocity, c.size, c.view.fitSize())

	c.isAnimating = true
	if !d.commit {
		c.swipe.cancel(func() {
			c.isAnimating = false
			c.axis = OrientationNone
			c.state = c.restingState()
		})
		return
	}

	touch, v := -offset.Y, velocity.DY
	if axis == OrientationHorizontal {
		touch, v = -offset.X, velocity.DX
	}
	c.log.Debug("swipe to dismiss", "direction", d.direction, "velocity", v)
	c.swipe.complete(axis, touch, d.target, v, func() {
		c.isAnimating = false
		c.axis = OrientationNone
		c.state = ItemDismissed
		c.delegate.itemDidFinishSwipeToDismiss(c)
	})
}

// offsetChanged reports the swipe progress whenever the surface moves.
func (c *itemController) offsetChanged(offset fyne.Position) {
	if c.axis == OrientationNone {
		return
	}
	c.delegate.itemDidSwipeToDismiss(c, swipeRatio(c.axis, offset, c.size, c.view.fitSize()))
}
