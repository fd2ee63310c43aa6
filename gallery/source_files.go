package gallery

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/storage"

	"github.com/FyshOS/fancyfs"
)

const (
	// ThumbnailEdge is the longer side of previews produced by FileSource.
	ThumbnailEdge = 256
	// DefaultMaxEdge bounds the decoded size of full images.
	DefaultMaxEdge = 4096
)

// FileSource is an ItemSource over image files on disk. Full images and thumbnails are
// decoded on a shared worker pool.
type FileSource struct {
	paths []string
	queue *decodeQueue

	// MaxEdge bounds the size of the decoded full image, 0 keeps the original size.
	MaxEdge int
}

// NewFileSource returns a source for paths, in the given order.
func NewFileSource(paths ...string) *FileSource {
	return &FileSource{
		paths:   append([]string(nil), paths...),
		queue:   defaultDecodeQueue(),
		MaxEdge: DefaultMaxEdge,
	}
}

func (s *FileSource) NumberOfItems() int {
	return len(s.paths)
}

func (s *FileSource) Item(index int) (Item, bool) {
	if index < 0 || index >= len(s.paths) {
		return nil, false
	}
	path := s.paths[index]
	maxEdge := s.MaxEdge
	return ImageItem(func(ctx context.Context) (image.Image, error) {
		return s.queue.decode(ctx, path, maxEdge)
	}), true
}

// Path returns the file behind index.
func (s *FileSource) Path(index int) string {
	if index < 0 || index >= len(s.paths) {
		return ""
	}
	return s.paths[index]
}

// Thumbnail returns the preview for index when it is already decoded. Otherwise it
// queues the preview and returns nil.
func (s *FileSource) Thumbnail(index int) image.Image {
	path := s.Path(index)
	if path == "" {
		return nil
	}
	if img := s.queue.cached(path, ThumbnailEdge); img != nil {
		return img
	}
	s.queue.load(context.Background(), path, ThumbnailEdge, func(image.Image, error) {})
	return nil
}

// LoadThumbnail decodes the preview for index and calls done on the UI goroutine.
func (s *FileSource) LoadThumbnail(index int, done func(image.Image, error)) {
	path := s.Path(index)
	if path == "" {
		done(nil, ErrIndexOutOfRange)
		return
	}
	s.queue.load(context.Background(), path, ThumbnailEdge, func(img image.Image, err error) {
		fyne.Do(func() { done(img, err) })
	})
}

// DirectorySource is a FileSource over the supported images of one folder.
type DirectorySource struct {
	*FileSource
	dir string
}

// NewDirectorySource lists the images in dir sorted by name. Sub folders are skipped.
func NewDirectorySource(dir string) (*DirectorySource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !isSupportedImage(strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, ErrNoItems
	}

	return &DirectorySource{FileSource: NewFileSource(paths...), dir: dir}, nil
}

// Dir returns the listed folder.
func (s *DirectorySource) Dir() string {
	return s.dir
}

// Cover returns the folder background image configured through fancyfs metadata, or nil
// when the folder has none.
func (s *DirectorySource) Cover() *canvas.Image {
	details, err := fancyfs.DetailsForFolder(storage.NewFileURI(s.dir))
	if err != nil || details == nil {
		return nil
	}

	var img *canvas.Image
	switch {
	case details.BackgroundResource != nil:
		img = canvas.NewImageFromResource(details.BackgroundResource)
	case details.BackgroundURI != nil:
		img = canvas.NewImageFromFile(details.BackgroundURI.Path())
	default:
		return nil
	}
	img.FillMode = details.BackgroundFill
	return img
}
