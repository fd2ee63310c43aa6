package main

import (
	"image"
	"log/slog"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xgallery/gallery"
)

const thumbSize = 128

type viewer struct {
	src    *gallery.FileSource
	cover  *gallery.DirectorySource
	opts   gallery.Options
	log    *slog.Logger
	win    fyne.Window
	thumbs []*thumb
	status *widget.Label

	session *gallery.Session
}

func newViewer(src *gallery.FileSource, cover *gallery.DirectorySource, opts gallery.Options) *viewer {
	return &viewer{
		src:   src,
		cover: cover,
		opts:  opts,
		log:   gallery.Logger().With("component", "viewer"),
	}
}

func (v *viewer) run(start int) {
	a := app.NewWithID("io.github.alexballas.xgallery")
	v.win = a.NewWindow("xgallery")
	v.status = widget.NewLabel("")

	grid := container.NewGridWrap(fyne.NewSize(thumbSize, thumbSize))
	for i := 0; i < v.src.NumberOfItems(); i++ {
		t := newThumb(i, v.open)
		v.thumbs = append(v.thumbs, t)
		grid.Add(t)
		v.loadThumb(t)
	}

	var top fyne.CanvasObject = v.status
	if v.cover != nil {
		if img := v.cover.Cover(); img != nil {
			img.SetMinSize(fyne.NewSize(0, thumbSize))
			top = container.NewVBox(img, v.status)
		}
	}
	v.win.SetContent(container.NewBorder(top, nil, nil, nil, container.NewVScroll(grid)))
	v.win.Resize(fyne.NewSize(900, 640))
	v.setStatus(-1)

	if start >= 0 {
		a.Lifecycle().SetOnStarted(func() {
			v.open(start)
		})
	}
	v.win.ShowAndRun()
}

func (v *viewer) loadThumb(t *thumb) {
	v.src.LoadThumbnail(t.index, func(img image.Image, err error) {
		if err != nil {
			v.log.Warn("thumbnail failed", "path", v.src.Path(t.index), "error", err)
			return
		}
		t.setImage(img)
	})
}

func (v *viewer) setStatus(index int) {
	if index < 0 {
		v.status.SetText(filepath.Dir(v.src.Path(0)))
		return
	}
	v.status.SetText(filepath.Base(v.src.Path(index)))
}

// open launches the gallery at index. While a gallery is showing taps are ignored.
func (v *viewer) open(index int) {
	if v.session != nil && v.session.State() != gallery.Dismissed {
		return
	}

	host := gallery.Host{
		Window: v.win,
		Displaced: gallery.DisplacedViewFunc(func(i int) gallery.DisplaceableView {
			if i < 0 || i >= len(v.thumbs) {
				return nil
			}
			return gallery.NewDisplaceableImage(v.thumbs[i].image)
		}),
		Delegate: gallery.DelegateFuncs{
			OnLaunch: func(s *gallery.Session) {
				v.log.Info("gallery open", "session_id", s.ID(), "index", s.CurrentIndex())
			},
			OnLandOnPage: func(_ *gallery.Session, i int) {
				v.setStatus(i)
			},
			OnClose: func(*gallery.Session) {
				v.setStatus(-1)
			},
			OnSwipeToDismiss: func(*gallery.Session) {
				v.setStatus(-1)
			},
			OnFetchFailure: func(_ *gallery.Session, err *gallery.FetchError) {
				v.log.Error("image failed", "path", v.src.Path(err.Index), "error", err.Err)
			},
		},
	}

	s, err := gallery.NewSession(host, v.src, v.opts, index)
	if err != nil {
		v.log.Error("cannot open gallery", "index", index, "error", err)
		return
	}
	v.session = s
	s.Launch()
}

// thumb is one tappable preview in the grid.
type thumb struct {
	widget.BaseWidget

	index  int
	image  *canvas.Image
	onOpen func(int)
}

func newThumb(index int, onOpen func(int)) *thumb {
	t := &thumb{
		index:  index,
		image:  canvas.NewImageFromImage(nil),
		onOpen: onOpen,
	}
	t.image.FillMode = canvas.ImageFillContain
	t.image.ScaleMode = canvas.ImageScaleFastest
	t.ExtendBaseWidget(t)
	return t
}

func (t *thumb) setImage(img image.Image) {
	t.image.Image = img
	t.image.Refresh()
}

func (t *thumb) Tapped(*fyne.PointEvent) {
	if t.onOpen != nil {
		t.onOpen(t.index)
	}
}

func (t *thumb) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.image)
}
