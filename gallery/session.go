package gallery

import (
	"errors"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/google/uuid"
)

// SessionState is the presentation state of a Session.
type SessionState int

const (
	NotPresented SessionState = iota
	Presenting
	Presented
	Dismissing
	Dismissed
)

func (s SessionState) String() string {
	switch s {
	case NotPresented:
		return "not-presented"
	case Presenting:
		return "presenting"
	case Presented:
		return "presented"
	case Dismissing:
		return "dismissing"
	case Dismissed:
		return "dismissed"
	}
	return "unknown"
}

// DeviceOrientation is the physical orientation reported by the host.
type DeviceOrientation int

const (
	DevicePortrait DeviceOrientation = iota
	DevicePortraitUpsideDown
	DeviceLandscapeLeft
	DeviceLandscapeRight
	// DeviceFlat is face up or face down, it never changes the layout.
	DeviceFlat
)

func (o DeviceOrientation) landscape() bool {
	return o == DeviceLandscapeLeft || o == DeviceLandscapeRight
}

// Host is everything a session needs from the application showing it.
type Host struct {
	Window fyne.Window
	// Displaced provides the thumbnails items grow out of. Optional.
	Displaced DisplacedViewSource
	Delegate  Delegate
	// Exporter handles long presses. The default saves a PNG.
	Exporter Exporter

	// Header replaces the default counter header.
	Header *Chrome
	Footer *Chrome
	// NoDefaultHeader removes the counter header when Header is nil.
	NoDefaultHeader bool

	// PortraitOnly tells that the host does not follow device rotation itself.
	PortraitOnly bool

	// Animator runs the animations, nil uses fyne's animation runner.
	Animator Animator

	// dispatch delivers fetch results on the UI goroutine.
	dispatch func(func())
}

// Session is one presentation of a gallery over a host window.
type Session struct {
	id       uuid.UUID
	host     Host
	opts     Options
	source   ItemSource
	log      *slog.Logger
	animator Animator
	dispatch func(func())
	delegate Delegate
	exporter Exporter

	overlay *overlay
	coord   *pagingCoordinator
	pager   *pager
	header  *chromeView
	footer  *chromeView
	counter *counterHeader
	resize  *resizeLayout
	root    *fyne.Container

	state        SessionState
	isAnimating  bool
	launched     bool
	currentIndex int
	headerHidden bool
	footerHidden bool

	wasFullScreen      bool
	originalOnTypedKey func(*fyne.KeyEvent)

	orientation    DeviceOrientation
	bounds         fyne.Size
	rotationFrom   fyne.Size
	rotationT      float32
	lastCanvasSize fyne.Size
}

// NewSession prepares a gallery for source starting at startIndex. Nothing is shown until
// Launch is called.
func NewSession(host Host, source ItemSource, opts Options, startIndex int) (*Session, error) {
	if host.Window == nil {
		return nil, ErrNoWindow
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if source == nil || source.NumberOfItems() <= 0 {
		return nil, ErrNoItems
	}
	if startIndex < 0 || startIndex >= source.NumberOfItems() {
		return nil, ErrIndexOutOfRange
	}
	if item, ok := source.Item(startIndex); !ok || item == nil {
		return nil, ErrItemUnavailable
	}

	s := &Session{
		id:           uuid.New(),
		host:         host,
		opts:         opts,
		source:       source,
		animator:     host.Animator,
		dispatch:     host.dispatch,
		delegate:     host.Delegate,
		exporter:     host.Exporter,
		currentIndex: startIndex,
		headerHidden: opts.HideHeaderOnLaunch,
		footerHidden: opts.HideFooterOnLaunch,
		rotationT:    1,
	}
	s.log = Logger().With("session_id", s.id.String())
	if s.animator == nil {
		s.animator = NewAnimator()
	}
	if s.dispatch == nil {
		s.dispatch = fyne.Do
	}
	if s.delegate == nil {
		s.delegate = DelegateFuncs{}
	}
	if s.exporter == nil {
		s.exporter = NewPNGExporter()
	}

	s.overlay = newOverlay(&s.opts, s.animator)
	s.coord = newPagingCoordinator(source, opts.CircularPaging, s.buildController)
	s.pager = newPager(&s.opts, s.animator, s.coord)
	s.buildChrome()

	s.resize = &resizeLayout{
		arrange:  s.arrange,
		onResize: s.didResize,
		externalSize: func() fyne.Size {
			if c := s.host.Window.Canvas(); c != nil {
				return c.Size()
			}
			return fyne.Size{}
		},
	}
	objects := []fyne.CanvasObject{s.overlay.object(), s.pager.object()}
	if s.header != nil {
		objects = append(objects, s.header.chrome.Object)
	}
	if s.footer != nil {
		objects = append(objects, s.footer.chrome.Object)
	}
	s.root = container.New(s.resize, objects...)

	initial := s.coord.createController(startIndex, true)
	if initial == nil {
		return nil, ErrItemUnavailable
	}
	s.pager.show(initial)
	s.updateCounter()
	return s, nil
}

func (s *Session) buildController(index int, item Item, initial bool) *itemController {
	var thumb image.Image
	if ts, ok := s.source.(ThumbnailSource); ok {
		thumb = ts.Thumbnail(index)
	}
	return newItemController(itemControllerConfig{
		index:     index,
		count:     s.source.NumberOfItems(),
		initial:   initial,
		item:      item,
		opts:      &s.opts,
		animator:  s.animator,
		dispatch:  s.dispatch,
		delegate:  s,
		displaced: s.host.Displaced,
		thumbnail: thumb,
		log:       s.log,
	})
}

func (s *Session) buildChrome() {
	header := s.host.Header
	if header == nil && !s.host.NoDefaultHeader {
		s.counter = newCounterHeader(s.Close)
		header = &Chrome{Object: s.counter}
	}
	s.header = newChromeView(header)
	s.footer = newChromeView(s.host.Footer)
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) State() SessionState {
	return s.state
}

// CurrentIndex is the index of the item on screen.
func (s *Session) CurrentIndex() int {
	return s.currentIndex
}

// Options returns the configuration the session runs with.
func (s *Session) Options() Options {
	return s.opts
}

// Launch shows the gallery. Only the first call has an effect.
func (s *Session) Launch() {
	if s.launched {
		return
	}
	s.launched = true
	s.state = Presenting

	win := s.host.Window
	if s.opts.StatusBarHidden {
		s.wasFullScreen = win.FullScreen()
		win.SetFullScreen(true)
	}

	c := win.Canvas()
	s.originalOnTypedKey = c.OnTypedKey()
	c.SetOnTypedKey(s.typedKey)

	c.Overlays().Add(s.root)
	s.root.Move(fyne.NewPos(0, 0))
	s.root.Resize(c.Size())
	s.arrange(c.Size())

	current := s.pager.current
	current.willAppear()
	current.didAppear()

	s.isAnimating = true
	s.log.Debug("launching", "index", current.index)
	current.presentItem(s.overlay.present, func() {
		if !s.headerHidden {
			s.fadeChrome(s.header, 1, s.opts.HeaderFadeDuration)
		}
		if !s.footerHidden {
			s.fadeChrome(s.footer, 1, s.opts.FooterFadeDuration)
		}
		s.isAnimating = false
		s.state = Presented
		s.log.Info("gallery launched", "index", s.currentIndex)
		s.delegate.GalleryDidLaunch(s)
	})
}

// Close fades out the chrome and dismisses the current item. Calls while the gallery is
// not fully presented, while paging or while the current item is being swiped are ignored.
func (s *Session) Close() {
	if s.state != Presented || s.isAnimating || s.pager.isAnimating || s.pager.current.swiping() {
		return
	}
	s.isAnimating = true
	s.state = Dismissing
	s.pager.current.holdForDismiss()

	headerFrom, footerFrom := chromeAlpha(s.header), chromeAlpha(s.footer)
	s.animator.Start(&Animation{
		Duration: s.opts.DecorationViewsCloseDuration.D(),
		Curve:    fyne.AnimationLinear,
		Tick: func(p float32) {
			s.header.setAlpha(lerp32(headerFrom, 0, p))
			s.footer.setAlpha(lerp32(footerFrom, 0, p))
		},
		Done: func() {
			s.pager.current.dismissItem(s.overlay.dismiss, func() {
				s.finish()
				s.log.Info("gallery closed", "index", s.currentIndex)
				s.delegate.GalleryDidClose(s)
			})
		},
	})
}

// PageTo shows index without animation.
func (s *Session) PageTo(index int) error {
	if index < 0 || index >= s.source.NumberOfItems() {
		return ErrIndexOutOfRange
	}
	if s.state != Presented || index == s.currentIndex || s.pager.current.swiping() {
		return nil
	}
	if !s.pager.jump(index) {
		if _, ok := s.source.Item(index); !ok {
			return ErrItemUnavailable
		}
	}
	return nil
}

// finish removes the gallery and gives the host window back.
func (s *Session) finish() {
	s.state = Dismissed
	s.isAnimating = false
	s.resize.stop()
	s.coord.teardownAll()

	win := s.host.Window
	c := win.Canvas()
	c.Overlays().Remove(s.root)
	c.SetOnTypedKey(s.originalOnTypedKey)
	if s.opts.StatusBarHidden && !s.wasFullScreen {
		win.SetFullScreen(false)
	}
}

func (s *Session) typedKey(ev *fyne.KeyEvent) {
	if ev == nil || s.state != Presented {
		if s.originalOnTypedKey != nil {
			s.originalOnTypedKey(ev)
		}
		return
	}

	switch ev.Name {
	case fyne.KeyLeft, fyne.KeyRight, fyne.KeyEscape:
		if s.pager.current.swiping() {
			return
		}
	}

	switch ev.Name {
	case fyne.KeyLeft:
		s.pager.page(-1)
	case fyne.KeyRight:
		s.pager.page(1)
	case fyne.KeyEscape:
		s.Close()
	default:
		if s.originalOnTypedKey != nil {
			s.originalOnTypedKey(ev)
		}
	}
}

func chromeAlpha(v *chromeView) float32 {
	if v == nil {
		return 0
	}
	return v.alpha
}

func (s *Session) fadeChrome(v *chromeView, to float32, d Duration) {
	if v == nil {
		return
	}
	from := v.alpha
	s.animator.Start(&Animation{
		Duration: d.D(),
		Curve:    fyne.AnimationLinear,
		Tick: func(p float32) {
			v.setAlpha(lerp32(from, to, p))
		},
	})
}

func (s *Session) updateCounter() {
	if s.counter != nil {
		s.counter.setPosition(s.currentIndex, s.source.NumberOfItems())
	}
}

// compensating reports whether the content is laid out in rotated bounds because the
// host itself stays in portrait.
func (s *Session) compensating() bool {
	return s.host.PortraitOnly && s.opts.RotationMode == RotationAlways && s.orientation.landscape()
}

func (s *Session) targetBounds(canvas fyne.Size) fyne.Size {
	if s.compensating() {
		return InvertedSize(canvas)
	}
	return canvas
}

// arrange lays out the gallery for a root of the given size.
func (s *Session) arrange(size fyne.Size) {
	s.lastCanvasSize = size
	s.bounds = lerpSize(s.rotationFrom, s.targetBounds(size), s.rotationT)

	origin := fyne.NewPos((size.Width-s.bounds.Width)/2, (size.Height-s.bounds.Height)/2)

	s.overlay.layout(s.bounds)
	s.overlay.object().Move(origin)

	s.pager.layout(s.bounds)
	s.pager.object().Move(origin)

	if s.header != nil {
		h := s.header.height()
		s.header.chrome.Object.Move(origin)
		s.header.chrome.Object.Resize(fyne.NewSize(s.bounds.Width, h))
	}
	if s.footer != nil {
		h := s.footer.height()
		s.footer.chrome.Object.Move(fyne.NewPos(origin.X, origin.Y+s.bounds.Height-h))
		s.footer.chrome.Object.Resize(fyne.NewSize(s.bounds.Width, h))
	}
}

// didResize follows canvas orientation flips of hosts that rotate themselves.
func (s *Session) didResize() {
	size := s.lastCanvasSize
	if s.host.PortraitOnly || !validSize(size) {
		return
	}
	if size.Width > size.Height {
		if !s.orientation.landscape() {
			s.orientation = DeviceLandscapeLeft
			s.log.Debug("canvas turned landscape")
		}
	} else if s.orientation.landscape() {
		s.orientation = DevicePortrait
		s.log.Debug("canvas turned portrait")
	}
}

// Rotate tells the session about a device rotation. Hosts that stay in portrait get the
// content turned into landscape bounds when the rotation mode allows it.
func (s *Session) Rotate(o DeviceOrientation) {
	if o == DeviceFlat || !s.host.PortraitOnly || s.isAnimating {
		return
	}
	if o == s.orientation {
		return
	}

	s.isAnimating = true
	s.rotationFrom = s.bounds
	s.orientation = o
	s.rotationT = 0

	s.animator.Start(&Animation{
		Duration: s.opts.RotationDuration.D(),
		Curve:    fyne.AnimationLinear,
		Tick: func(p float32) {
			s.rotationT = p
			s.arrange(s.lastCanvasSize)
		},
		Done: func() {
			s.rotationT = 1
			s.arrange(s.lastCanvasSize)
			s.isAnimating = false
		},
	})
}

func (s *Session) itemDidSwipeToDismiss(c *itemController, ratio float32) {
	if c != s.pager.current {
		return
	}
	alpha := 1 - ratio*6
	if !s.headerHidden {
		s.header.setAlpha(alpha)
	}
	if !s.footerHidden {
		s.footer.setAlpha(alpha)
	}
	s.overlay.setRatio(ratio)
}

func (s *Session) itemDidFinishSwipeToDismiss(c *itemController) {
	if s.state != Presented || c != s.pager.current {
		return
	}
	s.log.Info("gallery swiped away", "index", c.index)
	s.finish()
	s.delegate.GalleryDidSwipeToDismiss(s)
}

func (s *Session) itemDidSingleTap(*itemController) {
	if s.state != Presented {
		return
	}
	if s.opts.ToggleHeaderBySingleTap {
		s.headerHidden = !s.headerHidden
		s.fadeChrome(s.header, visibleAlpha(s.headerHidden), s.opts.HeaderFadeDuration)
	}
	if s.opts.ToggleFooterBySingleTap {
		s.footerHidden = !s.footerHidden
		s.fadeChrome(s.footer, visibleAlpha(s.footerHidden), s.opts.FooterFadeDuration)
	}
}

func visibleAlpha(hidden bool) float32 {
	if hidden {
		return 0
	}
	return 1
}

func (s *Session) itemDidLongPress(c *itemController, img image.Image) {
	s.log.Debug("export requested", "index", c.index)
	s.exporter.Export(s.host.Window, c.index, img)
}

func (s *Session) itemWillAppear(c *itemController) {
	s.log.Debug("item will appear", "index", c.index)
}

func (s *Session) itemDidAppear(c *itemController) {
	s.currentIndex = c.index
	s.updateCounter()
	s.delegate.GalleryDidLandOnPage(s, c.index)
}

func (s *Session) itemWillDisappear(c *itemController) {
	s.log.Debug("item will disappear", "index", c.index)
}

func (s *Session) itemDidFailToFetch(c *itemController, err error) {
	observer, ok := s.delegate.(FetchFailureObserver)
	if !ok {
		return
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		fetchErr = &FetchError{Index: c.index, Err: err}
	}
	observer.GalleryDidFailToFetch(s, fetchErr)
}

func (s *Session) itemDidDragPage(c *itemController, dx float32) {
	if c == s.pager.current && s.state == Presented {
		s.pager.drag(dx)
	}
}

func (s *Session) itemDidEndPageDrag(c *itemController, velocityX float32) {
	if c == s.pager.current {
		s.pager.endDrag(velocityX)
	}
}
