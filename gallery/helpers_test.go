package gallery

import (
	"image"
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// manualAnimator queues animations until the test completes them.
type manualAnimator struct {
	pending []*Animation
	started int
}

func (m *manualAnimator) Start(a *Animation) {
	m.started++
	m.pending = append(m.pending, a)
}

func (m *manualAnimator) Stop(a *Animation) {
	for i, p := range m.pending {
		if p == a {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// completeAll finishes every queued animation, including the ones started by completions.
func (m *manualAnimator) completeAll(t *testing.T) {
	t.Helper()
	for i := 0; len(m.pending) > 0; i++ {
		if i > 1000 {
			t.Fatal("animations keep scheduling each other")
		}
		a := m.pending[0]
		m.pending = m.pending[1:]
		finish(a)
	}
}

// queueDispatch holds fetch results until the test runs them on its own goroutine.
type queueDispatch struct {
	ch chan func()
}

func newQueueDispatch() *queueDispatch {
	return &queueDispatch{ch: make(chan func(), 64)}
}

func (q *queueDispatch) dispatch(f func()) {
	q.ch <- f
}

func (q *queueDispatch) runNext(t *testing.T) {
	t.Helper()
	select {
	case f := <-q.ch:
		f()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a dispatched result")
	}
}

type recordingDelegate struct {
	launches int
	landed   []int
	closes   int
	swipes   int
	failures []*FetchError
}

func (r *recordingDelegate) GalleryDidLaunch(*Session) {
	r.launches++
}
func (r *recordingDelegate) GalleryDidLandOnPage(_ *Session, i int) {
	r.landed = append(r.landed, i)
}
func (r *recordingDelegate) GalleryDidClose(*Session) {
	r.closes++
}
func (r *recordingDelegate) GalleryDidSwipeToDismiss(*Session) {
	r.swipes++
}
func (r *recordingDelegate) GalleryDidFailToFetch(_ *Session, err *FetchError) {
	r.failures = append(r.failures, err)
}

// controllerEvents records what an item controller reports upwards.
type controllerEvents struct {
	ratios    []float32
	finished  int
	taps      int
	exported  []image.Image
	appeared  int
	failures  []error
	pageDrags []float32
	pageEnds  []float32
}

func (e *controllerEvents) itemDidSwipeToDismiss(_ *itemController, ratio float32) {
	e.ratios = append(e.ratios, ratio)
}
func (e *controllerEvents) itemDidFinishSwipeToDismiss(*itemController) {
	e.finished++
}
func (e *controllerEvents) itemDidSingleTap(*itemController) {
	e.taps++
}
func (e *controllerEvents) itemDidLongPress(_ *itemController, img image.Image) {
	e.exported = append(e.exported, img)
}
func (e *controllerEvents) itemWillAppear(*itemController) {}
func (e *controllerEvents) itemDidAppear(*itemController) {
	e.appeared++
}
func (e *controllerEvents) itemWillDisappear(*itemController) {}
func (e *controllerEvents) itemDidFailToFetch(_ *itemController, err error) {
	e.failures = append(e.failures, err)
}
func (e *controllerEvents) itemDidDragPage(_ *itemController, dx float32) {
	e.pageDrags = append(e.pageDrags, dx)
}
func (e *controllerEvents) itemDidEndPageDrag(_ *itemController, v float32) {
	e.pageEnds = append(e.pageEnds, v)
}

// fakeDisplaced is a thumbnail in the host window.
type fakeDisplaced struct {
	img     image.Image
	frame   Rect
	visible bool
	shows   int
	hides   int
}

func (f *fakeDisplaced) Image() image.Image {
	return f.img
}
func (f *fakeDisplaced) Frame() Rect {
	return f.frame
}
func (f *fakeDisplaced) FillMode() canvas.ImageFill {
	return canvas.ImageFillContain
}
func (f *fakeDisplaced) Visible() bool {
	return f.visible
}
func (f *fakeDisplaced) Show() {
	f.visible = true
	f.shows++
}
func (f *fakeDisplaced) Hide() {
	f.visible = false
	f.hides++
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xcc, G: 0x44, B: 0x22, A: 0xff})
		}
	}
	return img
}

func staticItems(n int) Items {
	items := make(Items, n)
	for i := range items {
		items[i] = StaticImage(solidImage(40, 20))
	}
	return items
}

var testViewport = fyne.NewSize(400, 800)

func approx(a, b float32) bool {
	return abs32(a-b) < 0.001
}
