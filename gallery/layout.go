package gallery

import (
	"time"

	"fyne.io/fyne/v2"
)

// resizeLayout lays out the session root and reports real size changes of the root or the
// host canvas, coalesced so a window drag does not flood the callback.
type resizeLayout struct {
	arrange  func(size fyne.Size)
	onResize func()

	externalSize     func() fyne.Size
	lastSize         fyne.Size
	lastExternalSize fyne.Size
	lastFired        time.Time
	timer            *time.Timer
}

func (r *resizeLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	if r.arrange != nil {
		r.arrange(size)
	}
	if r.onResize == nil {
		return
	}

	internalChanged := abs32(size.Width-r.lastSize.Width) >= 0.5 || abs32(size.Height-r.lastSize.Height) >= 0.5
	if internalChanged {
		r.lastSize = size
	}

	externalChanged := false
	if r.externalSize != nil {
		external := r.externalSize()
		externalChanged = abs32(external.Width-r.lastExternalSize.Width) >= 0.5 || abs32(external.Height-r.lastExternalSize.Height) >= 0.5
		if externalChanged {
			r.lastExternalSize = external
		}
	}

	// Layouts also run for reasons other than a resize.
	if !internalChanged && !externalChanged {
		return
	}
	r.scheduleResize()
}

func (r *resizeLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *resizeLayout) scheduleResize() {
	// The callback may change the UI, so it never runs inside Layout.
	const minInterval = 60 * time.Millisecond

	now := time.Now()
	elapsed := now.Sub(r.lastFired)
	if elapsed >= minInterval {
		r.lastFired = now
		fyne.Do(r.onResize)
		return
	}

	delay := minInterval - elapsed
	if r.timer == nil {
		r.timer = time.AfterFunc(delay, func() {
			fyne.Do(func() {
				r.timer = nil
				r.lastFired = time.Now()
				if r.onResize != nil {
					r.onResize()
				}
			})
		})
		return
	}
	r.timer.Reset(delay)
}

func (r *resizeLayout) stop() {
	r.onResize = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
