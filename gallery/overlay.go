package gallery

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// frostColor stands in for a light blur effect, fyne has no backdrop filter.
var frostColor = color.NRGBA{R: 0xf2, G: 0xf2, B: 0xf7, A: 0xff}

// overlay is the dimming background behind the items. It has a frost layer and a colour
// layer that fade independently.
type overlay struct {
	opts     *Options
	animator Animator

	blur  *canvas.Rectangle
	color *canvas.Rectangle
	box   *fyne.Container

	blurAlpha  float32
	colorAlpha float32
}

func newOverlay(opts *Options, animator Animator) *overlay {
	o := &overlay{
		opts:     opts,
		animator: animator,
		blur:     canvas.NewRectangle(color.Transparent),
		color:    canvas.NewRectangle(color.Transparent),
	}
	o.box = container.NewWithoutLayout(o.blur, o.color)
	o.setBlurAlpha(0)
	o.setColorAlpha(0)
	return o
}

// object is the canvas object to insert behind the items.
func (o *overlay) object() fyne.CanvasObject {
	return o.box
}

// layout covers the viewport inflated by half its size on every side.
func (o *overlay) layout(viewport fyne.Size) {
	frame := NewRect(fyne.NewPos(0, 0), viewport).Inset(-viewport.Width/2, -viewport.Height/2)
	for _, r := range []*canvas.Rectangle{o.blur, o.color} {
		r.Move(frame.Position)
		r.Resize(frame.Size)
	}
	o.box.Resize(viewport)
}

func (o *overlay) present() {
	o.fade(o.setBlurAlpha, o.blurAlpha, o.opts.OverlayBlurOpacity, o.opts.BlurPresentDuration, o.opts.BlurPresentDelay)
	o.fade(o.setColorAlpha, o.colorAlpha, o.opts.OverlayColorOpacity, o.opts.ColorPresentDuration, o.opts.ColorPresentDelay)
}

func (o *overlay) dismiss() {
	o.fade(o.setBlurAlpha, o.blurAlpha, 0, o.opts.BlurDismissDuration, o.opts.BlurDismissDelay)
	o.fade(o.setColorAlpha, o.colorAlpha, 0, o.opts.ColorDismissDuration, o.opts.ColorDismissDelay)
}

// setRatio fades both layers to 1-ratio of their presented opacity without animation.
func (o *overlay) setRatio(ratio float32) {
	f := clamp32(1-ratio, 0, 1)
	o.setBlurAlpha(o.opts.OverlayBlurOpacity * f)
	o.setColorAlpha(o.opts.OverlayColorOpacity * f)
}

func (o *overlay) fade(set func(float32), from, to float32, d, delay Duration) {
	o.animator.Start(&Animation{
		Duration: d.D(),
		Delay:    delay.D(),
		Curve:    fyne.AnimationLinear,
		Tick: func(p float32) {
			set(lerp32(from, to, p))
		},
	})
}

func (o *overlay) setBlurAlpha(a float32) {
	o.blurAlpha = a
	o.blur.FillColor = withAlpha(frostColor, a)
	o.blur.Refresh()
}

func (o *overlay) setColorAlpha(a float32) {
	o.colorAlpha = a
	o.color.FillColor = withAlpha(o.opts.OverlayColor, a)
	o.color.Refresh()
}

func withAlpha(c color.NRGBA, a float32) color.NRGBA {
	c.A = uint8(clamp32(a, 0, 1) * float32(c.A))
	return c
}
