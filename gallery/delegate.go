package gallery

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// DisplaceableView is an on screen view the gallery can grow out of and shrink back into.
type DisplaceableView interface {
	// Image is the picture currently shown, nil when there is none yet.
	Image() image.Image
	// Frame is the view's rectangle in window canvas coordinates.
	Frame() Rect
	FillMode() canvas.ImageFill
	Visible() bool
	Show()
	Hide()
}

// DisplacedViewSource looks up the displacement source for an index. It is asked again on
// every present and dismiss because the view may have moved in the meantime.
type DisplacedViewSource interface {
	DisplacedView(index int) DisplaceableView
}

// DisplacedViewFunc adapts a function to DisplacedViewSource.
type DisplacedViewFunc func(index int) DisplaceableView

func (f DisplacedViewFunc) DisplacedView(index int) DisplaceableView {
	return f(index)
}

type displaceableImage struct {
	img *canvas.Image
}

// NewDisplaceableImage adapts a canvas image shown in the host window.
func NewDisplaceableImage(img *canvas.Image) DisplaceableView {
	return &displaceableImage{img: img}
}

func (d *displaceableImage) Image() image.Image {
	return d.img.Image
}

func (d *displaceableImage) Frame() Rect {
	app := fyne.CurrentApp()
	if app == nil {
		return NewRect(d.img.Position(), d.img.Size())
	}
	pos := app.Driver().AbsolutePositionForObject(d.img)
	return NewRect(pos, d.img.Size())
}

func (d *displaceableImage) FillMode() canvas.ImageFill {
	return d.img.FillMode
}

func (d *displaceableImage) Visible() bool {
	return d.img.Visible()
}

func (d *displaceableImage) Show() {
	d.img.Show()
}

func (d *displaceableImage) Hide() {
	d.img.Hide()
}

// Delegate receives the notifications of a session. All methods run on the UI goroutine.
type Delegate interface {
	GalleryDidLaunch(s *Session)
	GalleryDidLandOnPage(s *Session, index int)
	GalleryDidClose(s *Session)
	GalleryDidSwipeToDismiss(s *Session)
}

// FetchFailureObserver is optionally implemented by a Delegate to learn about items whose
// image could not be fetched.
type FetchFailureObserver interface {
	GalleryDidFailToFetch(s *Session, err *FetchError)
}

// DelegateFuncs implements Delegate with optional callbacks.
type DelegateFuncs struct {
	OnLaunch         func(s *Session)
	OnLandOnPage     func(s *Session, index int)
	OnClose          func(s *Session)
	OnSwipeToDismiss func(s *Session)
	OnFetchFailure   func(s *Session, err *FetchError)
}

func (d DelegateFuncs) GalleryDidLaunch(s *Session) {
	if d.OnLaunch != nil {
		d.OnLaunch(s)
	}
}

func (d DelegateFuncs) GalleryDidLandOnPage(s *Session, index int) {
	if d.OnLandOnPage != nil {
		d.OnLandOnPage(s, index)
	}
}

func (d DelegateFuncs) GalleryDidClose(s *Session) {
	if d.OnClose != nil {
		d.OnClose(s)
	}
}

func (d DelegateFuncs) GalleryDidSwipeToDismiss(s *Session) {
	if d.OnSwipeToDismiss != nil {
		d.OnSwipeToDismiss(s)
	}
}

func (d DelegateFuncs) GalleryDidFailToFetch(s *Session, err *FetchError) {
	if d.OnFetchFailure != nil {
		d.OnFetchFailure(s, err)
	}
}

// Exporter handles the long press action for a resolved image.
type Exporter interface {
	Export(win fyne.Window, index int, img image.Image)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(win fyne.Window, index int, img image.Image)

func (f ExporterFunc) Export(win fyne.Window, index int, img image.Image) {
	f(win, index, img)
}

// itemControllerDelegate is how an item controller reports upwards. The session implements it.
type itemControllerDelegate interface {
	itemDidSwipeToDismiss(c *itemController, ratio float32)
	itemDidFinishSwipeToDismiss(c *itemController)
	itemDidSingleTap(c *itemController)
	itemDidLongPress(c *itemController, img image.Image)
	itemWillAppear(c *itemController)
	itemDidAppear(c *itemController)
	itemWillDisappear(c *itemController)
	itemDidFailToFetch(c *itemController, err error)

	// Horizontal pans that do not dismiss page instead.
	itemDidDragPage(c *itemController, dx float32)
	itemDidEndPageDrag(c *itemController, velocityX float32)
}
