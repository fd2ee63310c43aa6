package gallery

import (
	"context"
	"image"
)

// FetchFunc resolves the image of an item. It is called at most once per controller and
// may block, it runs off the UI goroutine.
type FetchFunc func(ctx context.Context) (image.Image, error)

// ProgressFetchFunc is a FetchFunc that reports progress in [0, 1] while it runs.
type ProgressFetchFunc func(ctx context.Context, progress func(float64)) (image.Image, error)

// Item is one entry of a gallery. The set of item kinds is closed, use ImageItem or
// ProgressImageItem to create one.
type Item interface {
	fetch(ctx context.Context, progress func(float64)) (image.Image, error)
	reportsProgress() bool
}

type imageItem struct {
	f FetchFunc
}

// ImageItem returns an item resolved by f.
func ImageItem(f FetchFunc) Item {
	return imageItem{f: f}
}

func (i imageItem) fetch(ctx context.Context, _ func(float64)) (image.Image, error) {
	if i.f == nil {
		return nil, ErrNoImage
	}
	return i.f(ctx)
}

func (imageItem) reportsProgress() bool {
	return false
}

type progressImageItem struct {
	f ProgressFetchFunc
}

// ProgressImageItem returns an item resolved by f that shows a progress bar while loading.
func ProgressImageItem(f ProgressFetchFunc) Item {
	return progressImageItem{f: f}
}

func (i progressImageItem) fetch(ctx context.Context, progress func(float64)) (image.Image, error) {
	if i.f == nil {
		return nil, ErrNoImage
	}
	return i.f(ctx, progress)
}

func (progressImageItem) reportsProgress() bool {
	return true
}

// StaticImage is an item for an already decoded image.
func StaticImage(img image.Image) Item {
	return ImageItem(func(context.Context) (image.Image, error) {
		if img == nil {
			return nil, ErrNoImage
		}
		return img, nil
	})
}

// ItemSource provides the items of a gallery.
type ItemSource interface {
	NumberOfItems() int
	// Item returns false when there is no item for index.
	Item(index int) (Item, bool)
}

// ThumbnailSource is implemented by item sources that can show a preview while the full
// image of an item is still loading.
type ThumbnailSource interface {
	Thumbnail(index int) image.Image
}

// Items is an ItemSource backed by a slice.
type Items []Item

func (s Items) NumberOfItems() int {
	return len(s)
}

func (s Items) Item(index int) (Item, bool) {
	if index < 0 || index >= len(s) || s[index] == nil {
		return nil, false
	}
	return s[index], true
}
