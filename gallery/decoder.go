package gallery

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	decodeWorkers    = 4
	decodeQueueLimit = 100
)

// ErrDecodeDropped is returned for requests pushed out of a full decode queue.
var ErrDecodeDropped = errors.New("gallery: decode request dropped")

type decodeRequest struct {
	ctx     context.Context
	path    string
	maxEdge int
	done    func(image.Image, error)
}

// decodeQueue decodes image files on a small worker pool. Requests are served newest
// first so the images the user looks at right now win over stale ones. Only previews up
// to ThumbnailEdge are kept in memory; full images belong to the item that fetched them.
type decodeQueue struct {
	cache    sync.Map // map[string]image.Image, previews only
	requests []decodeRequest
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	limit    int
}

var (
	sharedQueue     *decodeQueue
	sharedQueueOnce sync.Once
)

func defaultDecodeQueue() *decodeQueue {
	sharedQueueOnce.Do(func() {
		sharedQueue = newDecodeQueue(decodeWorkers, decodeQueueLimit)
	})
	return sharedQueue
}

func newDecodeQueue(workers, limit int) *decodeQueue {
	q := &decodeQueue{
		requests: make([]decodeRequest, 0, limit),
		limit:    limit,
	}
	q.reqCond = sync.NewCond(&q.reqLock)
	for range workers {
		go q.worker()
	}
	return q
}

func cacheKey(path string, maxEdge int) string {
	return fmt.Sprintf("%s@%d", path, maxEdge)
}

// cached returns a decoded image from memory, nil when it was never decoded.
func (q *decodeQueue) cached(path string, maxEdge int) image.Image {
	if img, ok := q.cache.Load(cacheKey(path, maxEdge)); ok {
		return img.(image.Image)
	}
	return nil
}

// load queues path for decoding and calls done from a worker goroutine. A maxEdge above 0
// downscales the result so that neither side exceeds it.
func (q *decodeQueue) load(ctx context.Context, path string, maxEdge int, done func(image.Image, error)) {
	if img := q.cached(path, maxEdge); img != nil {
		done(img, nil)
		return
	}
	if !isSupportedImage(strings.ToLower(filepath.Ext(path))) {
		done(nil, fmt.Errorf("%s: %w", path, image.ErrFormat))
		return
	}

	var dropped *decodeRequest
	q.reqLock.Lock()
	// A full queue drops the oldest request.
	if len(q.requests) >= q.limit {
		first := q.requests[0]
		dropped = &first
		q.requests = q.requests[1:]
	}
	q.requests = append(q.requests, decodeRequest{ctx: ctx, path: path, maxEdge: maxEdge, done: done})
	q.reqCond.Signal()
	q.reqLock.Unlock()

	if dropped != nil {
		dropped.done(nil, ErrDecodeDropped)
	}
}

// decode blocks until path is decoded or ctx is done.
func (q *decodeQueue) decode(ctx context.Context, path string, maxEdge int) (image.Image, error) {
	type result struct {
		img image.Image
		err error
	}
	ch := make(chan result, 1)
	q.load(ctx, path, maxEdge, func(img image.Image, err error) {
		ch <- result{img: img, err: err}
	})

	select {
	case r := <-ch:
		return r.img, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *decodeQueue) worker() {
	for {
		q.reqLock.Lock()
		for len(q.requests) == 0 {
			q.reqCond.Wait()
		}
		// Pop the newest request.
		lastIdx := len(q.requests) - 1
		req := q.requests[lastIdx]
		q.requests = q.requests[:lastIdx]
		q.reqLock.Unlock()

		if err := req.ctx.Err(); err != nil {
			req.done(nil, err)
			continue
		}
		if img := q.cached(req.path, req.maxEdge); img != nil {
			req.done(img, nil)
			continue
		}

		img, err := loadImage(req.path)
		if err != nil {
			req.done(nil, err)
			continue
		}
		img = downscale(img, req.maxEdge)
		if cacheable(req.maxEdge) {
			q.cache.Store(cacheKey(req.path, req.maxEdge), img)
		}
		req.done(img, nil)
	}
}

func cacheable(maxEdge int) bool {
	return maxEdge > 0 && maxEdge <= ThumbnailEdge
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// downscale shrinks img so that its longer side is maxEdge. Smaller images and a maxEdge of
// 0 return img unchanged.
func downscale(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || w == 0 || h == 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}

	fit, ok := AspectFitSize(imageSize(img), fyne.NewSize(float32(maxEdge), float32(maxEdge)))
	if !ok {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(fit.Width)), max(1, int(fit.Height))))
	// ApproxBiLinear is fast enough for interactive use.
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func isSupportedImage(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}
