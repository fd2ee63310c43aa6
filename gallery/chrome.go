package gallery

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// AlphaSetter is implemented by header and footer views that can fade. Views without it
// are hidden once their alpha reaches 0.
type AlphaSetter interface {
	SetAlpha(alpha float32)
}

// Chrome is a header or footer shown above the items.
type Chrome struct {
	Object fyne.CanvasObject
	// Height of the bar; 0 uses the object's minimum height.
	Height float32
}

type chromeView struct {
	chrome Chrome
	alpha  float32
}

func newChromeView(c *Chrome) *chromeView {
	if c == nil || c.Object == nil {
		return nil
	}
	v := &chromeView{chrome: *c}
	v.setAlpha(0)
	return v
}

func (v *chromeView) height() float32 {
	if v.chrome.Height > 0 {
		return v.chrome.Height
	}
	return v.chrome.Object.MinSize().Height
}

func (v *chromeView) setAlpha(a float32) {
	if v == nil {
		return
	}
	v.alpha = clamp32(a, 0, 1)
	if s, ok := v.chrome.Object.(AlphaSetter); ok {
		s.SetAlpha(v.alpha)
	}
	if v.alpha <= 0 {
		v.chrome.Object.Hide()
		return
	}
	v.chrome.Object.Show()
}

// counterHeader is the default header: the position in the sequence and a close button.
type counterHeader struct {
	widget.BaseWidget

	background *canvas.Rectangle
	counter    *canvas.Text
	close      *widget.Button
	alpha      float32
}

func newCounterHeader(onClose func()) *counterHeader {
	h := &counterHeader{
		background: canvas.NewRectangle(color.NRGBA{A: 0x80}),
		counter:    canvas.NewText("", color.White),
		close:      widget.NewButtonWithIcon("", theme.CancelIcon(), onClose),
		alpha:      1,
	}
	h.counter.TextStyle = fyne.TextStyle{Bold: true}
	h.close.Importance = widget.LowImportance
	h.ExtendBaseWidget(h)
	return h
}

func (h *counterHeader) setPosition(index, count int) {
	h.counter.Text = lang.X("gallery.counter", "{{.Current}} / {{.Total}}", map[string]any{
		"Current": index + 1,
		"Total":   count,
	})
	h.counter.Refresh()
}

func (h *counterHeader) SetAlpha(a float32) {
	h.alpha = a
	h.background.FillColor = color.NRGBA{A: uint8(0x80 * a)}
	h.counter.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(0xff * a)}
	// Buttons cannot fade.
	if a < 0.5 {
		h.close.Hide()
	} else {
		h.close.Show()
	}
	h.background.Refresh()
	h.counter.Refresh()
}

func (h *counterHeader) CreateRenderer() fyne.WidgetRenderer {
	bar := container.NewHBox(layout.NewSpacer(), h.counter, layout.NewSpacer(), h.close)
	return widget.NewSimpleRenderer(container.NewStack(h.background, container.NewPadded(bar)))
}
