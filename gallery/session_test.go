package gallery

import (
	"context"
	"errors"
	"image"
	"reflect"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

type sessionHarness struct {
	s        *Session
	win      fyne.Window
	anim     *manualAnimator
	delegate *recordingDelegate
	dispatch *queueDispatch
}

func newSessionHarness(t *testing.T, source ItemSource, configure func(*Host, *Options)) *sessionHarness {
	t.Helper()
	h := &sessionHarness{
		anim:     &manualAnimator{},
		delegate: &recordingDelegate{},
		dispatch: newQueueDispatch(),
	}
	h.win = test.NewWindow(widget.NewLabel("host"))
	h.win.Resize(testViewport)
	t.Cleanup(h.win.Close)

	host := Host{
		Window:   h.win,
		Delegate: h.delegate,
		Animator: h.anim,
		dispatch: h.dispatch.dispatch,
	}
	opts := DefaultOptions()
	if configure != nil {
		configure(&host, &opts)
	}

	s, err := NewSession(host, source, opts, 0)
	if err != nil {
		t.Fatalf("expected a session, got %v", err)
	}
	h.s = s
	return h
}

func (h *sessionHarness) launch(t *testing.T) {
	t.Helper()
	h.s.Launch()
	h.anim.completeAll(t)
	if h.s.State() != Presented {
		t.Fatalf("expected presented after launch, got %v", h.s.State())
	}
}

func (h *sessionHarness) overlayShown() bool {
	return h.win.Canvas().Overlays().Top() == h.s.root
}

func TestNewSession_Errors(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	win := test.NewWindow(widget.NewLabel("host"))
	defer win.Close()

	if _, err := NewSession(Host{}, staticItems(1), DefaultOptions(), 0); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("expected ErrNoWindow, got %v", err)
	}
	if _, err := NewSession(Host{Window: win}, Items{}, DefaultOptions(), 0); !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
	if _, err := NewSession(Host{Window: win}, staticItems(2), DefaultOptions(), 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := NewSession(Host{Window: win}, Items{nil}, DefaultOptions(), 0); !errors.Is(err, ErrItemUnavailable) {
		t.Fatalf("expected ErrItemUnavailable, got %v", err)
	}

	opts := DefaultOptions()
	opts.MaximumZoomScale = 0
	var optErr *OptionError
	if _, err := NewSession(Host{Window: win}, staticItems(1), opts, 0); !errors.As(err, &optErr) {
		t.Fatalf("expected an OptionError, got %v", err)
	}
}

func TestSession_LaunchWithoutDisplacement(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	if h.s.State() != NotPresented {
		t.Fatalf("expected not presented before launch, got %v", h.s.State())
	}

	h.s.Launch()
	if h.s.State() != Presenting {
		t.Fatalf("expected presenting, got %v", h.s.State())
	}
	if h.s.pager.current.transient != nil {
		t.Fatal("expected a fade without a displacement source")
	}
	if !h.overlayShown() {
		t.Fatal("expected the gallery on the window overlay stack")
	}
	if !h.win.FullScreen() {
		t.Fatal("expected the window to go full screen")
	}

	h.anim.completeAll(t)
	h.s.Launch()
	h.anim.completeAll(t)

	if h.s.State() != Presented {
		t.Fatalf("expected presented, got %v", h.s.State())
	}
	if h.delegate.launches != 1 {
		t.Fatalf("expected exactly one launch notification, got %d", h.delegate.launches)
	}
	if !reflect.DeepEqual(h.delegate.landed, []int{0}) {
		t.Fatalf("expected landing on 0 once, got %v", h.delegate.landed)
	}
	if h.s.CurrentIndex() != 0 {
		t.Fatalf("expected index 0, got %d", h.s.CurrentIndex())
	}
	if got := h.s.header.alpha; got != 1 {
		t.Fatalf("expected the header faded in, got %v", got)
	}
	if got := h.s.coord.retainedIndices(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("expected [0 1] retained, got %v", got)
	}
}

func TestSession_SwipeToDismiss(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.launch(t)

	c := h.s.pager.current
	c.panChanged(fyne.NewDelta(0, -20), fyne.NewDelta(0, -600))

	// Without an image the item leaves the screen after half the viewport height.
	ratio := 20 / (c.size.Height / 2)
	if got := h.s.header.alpha; !approx(got, 1-6*ratio) {
		t.Fatalf("expected header alpha %v, got %v", 1-6*ratio, got)
	}
	if got := h.s.overlay.colorAlpha; !approx(got, 1-ratio) {
		t.Fatalf("expected overlay alpha %v, got %v", 1-ratio, got)
	}

	c.panEnded(fyne.NewDelta(0, -100), fyne.NewDelta(0, -600))
	h.anim.completeAll(t)

	if h.s.State() != Dismissed {
		t.Fatalf("expected dismissed, got %v", h.s.State())
	}
	if h.delegate.swipes != 1 {
		t.Fatalf("expected one swipe notification, got %d", h.delegate.swipes)
	}
	if h.delegate.closes != 0 {
		t.Fatalf("expected no close notification, got %d", h.delegate.closes)
	}
	if h.overlayShown() {
		t.Fatal("expected the gallery removed from the window")
	}
	if h.win.FullScreen() {
		t.Fatal("expected full screen to be restored")
	}
	if len(h.s.coord.retainedIndices()) != 0 {
		t.Fatal("expected every controller torn down")
	}
}

func TestSession_SlowSwipeCancels(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.launch(t)

	c := h.s.pager.current
	c.panChanged(fyne.NewDelta(0, 10), fyne.NewDelta(0, 500))
	c.panEnded(fyne.NewDelta(0, 40), fyne.NewDelta(0, 500))
	h.anim.completeAll(t)

	if h.s.State() != Presented {
		t.Fatalf("expected still presented, got %v", h.s.State())
	}
	if got := h.s.header.alpha; got != 1 {
		t.Fatalf("expected header back at 1, got %v", got)
	}
}

func TestSession_Close(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.s.Launch()
	h.s.Close()
	if h.s.State() != Presenting {
		t.Fatalf("expected close during launch to be ignored, got %v", h.s.State())
	}
	h.anim.completeAll(t)

	h.s.Close()
	if h.s.State() != Dismissing {
		t.Fatalf("expected dismissing, got %v", h.s.State())
	}
	h.s.Close()
	h.anim.completeAll(t)

	if h.s.State() != Dismissed {
		t.Fatalf("expected dismissed, got %v", h.s.State())
	}
	if h.delegate.closes != 1 {
		t.Fatalf("expected one close notification, got %d", h.delegate.closes)
	}
	if h.s.header.alpha != 0 {
		t.Fatalf("expected the header faded out, got %v", h.s.header.alpha)
	}
	if h.overlayShown() {
		t.Fatal("expected the gallery removed from the window")
	}
}

func TestSession_KeyboardAndHookRestore(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	forwarded := 0
	h.win.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) { forwarded++ })
	h.launch(t)

	key := func(name fyne.KeyName) {
		h.win.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: name})
	}

	key(fyne.KeyA)
	if forwarded != 1 {
		t.Fatalf("expected unhandled keys forwarded to the host, got %d", forwarded)
	}

	key(fyne.KeyLeft)
	if len(h.anim.pending) != 0 {
		t.Fatal("expected no paging before the first item")
	}

	key(fyne.KeyRight)
	h.anim.completeAll(t)
	if h.s.CurrentIndex() != 1 {
		t.Fatalf("expected index 1 after right, got %d", h.s.CurrentIndex())
	}
	if !reflect.DeepEqual(h.delegate.landed, []int{0, 1}) {
		t.Fatalf("expected landings [0 1], got %v", h.delegate.landed)
	}
	if got := h.s.coord.retainedIndices(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("expected [0 1 2] retained, got %v", got)
	}

	key(fyne.KeyEscape)
	h.anim.completeAll(t)
	if h.s.State() != Dismissed {
		t.Fatalf("expected escape to close, got %v", h.s.State())
	}

	key(fyne.KeyA)
	if forwarded != 2 {
		t.Fatalf("expected the host key handler restored, got %d calls", forwarded)
	}
}

func TestSession_PageTo(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.launch(t)

	if err := h.s.PageTo(9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := h.s.PageTo(3); err != nil {
		t.Fatalf("expected paging to 3, got %v", err)
	}
	if h.s.CurrentIndex() != 3 {
		t.Fatalf("expected index 3, got %d", h.s.CurrentIndex())
	}
	if got := h.s.coord.retainedIndices(); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("expected [2 3] retained, got %v", got)
	}
}

func TestSession_CircularPagingWraps(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), func(_ *Host, o *Options) {
		o.CircularPaging = true
	})
	h.launch(t)

	if !h.s.pager.page(-1) {
		t.Fatal("expected to page back from the first item")
	}
	h.anim.completeAll(t)
	if h.s.CurrentIndex() != 3 {
		t.Fatalf("expected to wrap to 3, got %d", h.s.CurrentIndex())
	}
}

func TestSession_SingleTapTogglesHeader(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(2), nil)
	h.launch(t)

	h.s.pager.current.singleTap(fyne.NewPos(10, 10))
	h.anim.completeAll(t)
	if h.s.header.alpha != 0 || h.s.counter.Visible() {
		t.Fatal("expected the header hidden after a tap")
	}

	h.s.pager.current.singleTap(fyne.NewPos(10, 10))
	h.anim.completeAll(t)
	if h.s.header.alpha != 1 || !h.s.counter.Visible() {
		t.Fatal("expected the header back after a second tap")
	}
}

func TestSession_LongPressUsesExporter(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	var exported []int
	h := newSessionHarness(t, staticItems(2), func(host *Host, _ *Options) {
		host.Exporter = ExporterFunc(func(_ fyne.Window, index int, _ image.Image) {
			exported = append(exported, index)
		})
	})
	h.launch(t)

	c := h.s.pager.current
	c.setImage(solidImage(40, 20))
	c.longPress(fyne.NewPos(10, 10))
	if !reflect.DeepEqual(exported, []int{0}) {
		t.Fatalf("expected export of item 0, got %v", exported)
	}
}

func TestSession_FetchFailureNotified(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	boom := errors.New("offline")
	source := Items{ImageItem(func(context.Context) (image.Image, error) {
		return nil, boom
	})}
	h := newSessionHarness(t, source, nil)
	h.dispatch.runNext(t)

	if len(h.delegate.failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(h.delegate.failures))
	}
	if f := h.delegate.failures[0]; f.Index != 0 || !errors.Is(f, boom) {
		t.Fatalf("expected failure of item 0 wrapping the cause, got %v", f)
	}
}

func TestSession_RotateCompensatesPortraitHosts(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(2), func(host *Host, _ *Options) {
		host.PortraitOnly = true
	})
	h.launch(t)
	canvasSize := h.win.Canvas().Size()

	h.s.Rotate(DeviceLandscapeLeft)
	h.anim.completeAll(t)
	if h.s.bounds != InvertedSize(canvasSize) {
		t.Fatalf("expected landscape bounds %v, got %v", InvertedSize(canvasSize), h.s.bounds)
	}

	h.s.Rotate(DeviceFlat)
	if len(h.anim.pending) != 0 || h.s.bounds != InvertedSize(canvasSize) {
		t.Fatal("expected a flat device to be ignored")
	}

	h.s.Rotate(DevicePortrait)
	h.anim.completeAll(t)
	if h.s.bounds != canvasSize {
		t.Fatalf("expected portrait bounds %v, got %v", canvasSize, h.s.bounds)
	}
}

func TestSession_RotateIgnoredForRotatingHosts(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(2), nil)
	h.launch(t)
	before := h.s.bounds

	h.s.Rotate(DeviceLandscapeRight)
	if len(h.anim.pending) != 0 || h.s.bounds != before {
		t.Fatal("expected hosts that rotate themselves to keep their bounds")
	}
}

func TestSession_DisplacedLaunchAndClose(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	dv := &fakeDisplaced{
		img:     solidImage(40, 20),
		frame:   NewRect(fyne.NewPos(100, 100), fyne.NewSize(80, 40)),
		visible: true,
	}
	h := newSessionHarness(t, staticItems(3), func(host *Host, _ *Options) {
		host.Displaced = displacedAt(dv)
	})

	h.s.Launch()
	if h.s.pager.current.transient == nil {
		t.Fatal("expected the item to grow out of the thumbnail")
	}
	h.anim.completeAll(t)
	if !dv.visible {
		t.Fatal("expected the thumbnail visible again after launch")
	}

	h.s.Close()
	h.anim.completeAll(t)
	if h.s.State() != Dismissed || !dv.visible {
		t.Fatal("expected a dismissed gallery with the thumbnail restored")
	}
	if h.delegate.closes != 1 {
		t.Fatalf("expected one close notification, got %d", h.delegate.closes)
	}
}

func TestSession_CloseIgnoredWhileSwiping(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.launch(t)
	key := func(name fyne.KeyName) {
		h.win.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: name})
	}

	c := h.s.pager.current
	c.panChanged(fyne.NewDelta(0, -20), fyne.NewDelta(0, -600))
	c.panEnded(fyne.NewDelta(0, -100), fyne.NewDelta(0, -600))
	if len(h.anim.pending) != 1 {
		t.Fatalf("expected only the swipe animation, got %d", len(h.anim.pending))
	}

	h.s.Close()
	key(fyne.KeyEscape)
	key(fyne.KeyRight)
	if err := h.s.PageTo(2); err != nil {
		t.Fatalf("expected PageTo to be a no-op, got %v", err)
	}
	if h.s.State() != Presented || len(h.anim.pending) != 1 {
		t.Fatalf("expected the swipe to keep the session, got %v with %d animations", h.s.State(), len(h.anim.pending))
	}
	if h.s.CurrentIndex() != 0 {
		t.Fatalf("expected to stay on 0, got %d", h.s.CurrentIndex())
	}

	h.anim.completeAll(t)
	if h.s.State() != Dismissed {
		t.Fatalf("expected dismissed, got %v", h.s.State())
	}
	if h.delegate.swipes != 1 || h.delegate.closes != 0 {
		t.Fatalf("expected only a swipe notification, got swipes=%d closes=%d", h.delegate.swipes, h.delegate.closes)
	}
}

func TestSession_SwipeIgnoredWhileClosing(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.launch(t)

	h.s.Close()
	c := h.s.pager.current
	c.panChanged(fyne.NewDelta(0, -20), fyne.NewDelta(0, -600))
	if c.swiping() {
		t.Fatal("expected no swipe once closing")
	}
	c.panEnded(fyne.NewDelta(0, -100), fyne.NewDelta(0, -600))
	h.anim.completeAll(t)

	if h.delegate.closes != 1 || h.delegate.swipes != 0 {
		t.Fatalf("expected only a close notification, got closes=%d swipes=%d", h.delegate.closes, h.delegate.swipes)
	}
}

func TestSession_StaleSwipeFinishIgnored(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	h := newSessionHarness(t, staticItems(4), nil)
	h.launch(t)

	h.s.itemDidFinishSwipeToDismiss(h.s.coord.controllerAt(1))
	if h.s.State() != Presented || h.delegate.swipes != 0 {
		t.Fatalf("expected a neighbour's swipe to be ignored, got %v", h.s.State())
	}
}
