package gallery

import (
	"math"

	"fyne.io/fyne/v2"
)

// Direction is the dominant direction of a 2-D movement.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

// Orientation collapses a Direction onto its axis.
type Orientation int

const (
	OrientationNone Orientation = iota
	OrientationHorizontal
	OrientationVertical
)

// Rect is an axis aligned rectangle in gallery coordinates.
type Rect struct {
	Position fyne.Position
	Size     fyne.Size
}

// NewRect returns the rectangle at pos with the given size.
func NewRect(pos fyne.Position, size fyne.Size) Rect {
	return Rect{Position: pos, Size: size}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() fyne.Position {
	return fyne.NewPos(r.Position.X+r.Size.Width/2, r.Position.Y+r.Size.Height/2)
}

// Max returns the bottom right corner.
func (r Rect) Max() fyne.Position {
	return r.Position.Add(r.Size)
}

// Inset shrinks the rectangle by dx on the left and right and dy on top and bottom.
// Negative values grow it.
func (r Rect) Inset(dx, dy float32) Rect {
	w := r.Size.Width - 2*dx
	h := r.Size.Height - 2*dy
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{
		Position: fyne.NewPos(r.Position.X+dx, r.Position.Y+dy),
		Size:     fyne.NewSize(w, h),
	}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Size.Width <= 0 || r.Size.Height <= 0
}

// Intersects reports whether r and o overlap with a non-zero area.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	rMax, oMax := r.Max(), o.Max()
	return r.Position.X < oMax.X && o.Position.X < rMax.X &&
		r.Position.Y < oMax.Y && o.Position.Y < rMax.Y
}

func validSize(s fyne.Size) bool {
	return s.Width > 0 && s.Height > 0 && !isBad(s.Width) && !isBad(s.Height)
}

func isBad(v float32) bool {
	return math.IsNaN(float64(v)) || math.IsInf(float64(v), 0)
}

// AspectFitSize returns the largest size with the aspect ratio of content that fits in bounds.
// ok is false when either size is degenerate, in which case the caller should skip layout.
func AspectFitSize(content, bounds fyne.Size) (fyne.Size, bool) {
	if !validSize(content) || !validSize(bounds) {
		return fyne.Size{}, false
	}

	scale := min32(bounds.Width/content.Width, bounds.Height/content.Height)
	return fyne.NewSize(content.Width*scale, content.Height*scale), true
}

// AspectFillZoomScale returns the factor by which content has to be scaled to cover bounds.
// Degenerate sizes yield 1.
func AspectFillZoomScale(bounds, content fyne.Size) float32 {
	if !validSize(content) || !validSize(bounds) {
		return 1
	}
	return max32(bounds.Width/content.Width, bounds.Height/content.Height)
}

// ZoomRect returns the rectangle, in content coordinates, that becomes visible in a viewport
// when content is zoomed to scale around center. The rectangle is kept inside the content.
func ZoomRect(viewport, content fyne.Size, scale float32, center fyne.Position) Rect {
	if scale <= 0 || isBad(scale) {
		scale = 1
	}
	size := fyne.NewSize(viewport.Width/scale, viewport.Height/scale)
	origin := fyne.NewPos(
		clampAxis(center.X-size.Width/2, size.Width, content.Width),
		clampAxis(center.Y-size.Height/2, size.Height, content.Height),
	)
	return Rect{Position: origin, Size: size}
}

// clampAxis keeps [v, v+extent] inside [0, limit]; when extent exceeds limit the span is centred.
func clampAxis(v, extent, limit float32) float32 {
	if extent >= limit {
		return (limit - extent) / 2
	}
	if v < 0 {
		return 0
	}
	if v+extent > limit {
		return limit - extent
	}
	return v
}

// ContentCenter is the centre of content laid out in bounds, pinned to the content middle
// along any axis where content is larger than bounds.
func ContentCenter(bounds, content fyne.Size) fyne.Position {
	x := max32(bounds.Width, content.Width) / 2
	y := max32(bounds.Height, content.Height) / 2
	return fyne.NewPos(x, y)
}

// InvertedSize swaps width and height.
func InvertedSize(s fyne.Size) fyne.Size {
	return fyne.NewSize(s.Height, s.Width)
}

// ClassifyDirection returns the dominant direction of d.
// The axis with the larger magnitude wins and equal magnitudes resolve to the vertical axis.
// Only the zero vector maps to DirectionNone.
func ClassifyDirection(d fyne.Delta) Direction {
	if d.DX == 0 && d.DY == 0 {
		return DirectionNone
	}

	if abs32(d.DX) > abs32(d.DY) {
		if d.DX > 0 {
			return DirectionRight
		}
		return DirectionLeft
	}
	if d.DY > 0 {
		return DirectionDown
	}
	return DirectionUp
}

// ClassifyOrientation collapses the direction of d onto its axis.
func ClassifyOrientation(d fyne.Delta) Orientation {
	switch ClassifyDirection(d) {
	case DirectionLeft, DirectionRight:
		return OrientationHorizontal
	case DirectionUp, DirectionDown:
		return OrientationVertical
	default:
		return OrientationNone
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp32(from, to, t float32) float32 {
	return from + (to-from)*t
}

func lerpPos(from, to fyne.Position, t float32) fyne.Position {
	return fyne.NewPos(lerp32(from.X, to.X, t), lerp32(from.Y, to.Y, t))
}

func lerpSize(from, to fyne.Size, t float32) fyne.Size {
	return fyne.NewSize(lerp32(from.Width, to.Width, t), lerp32(from.Height, to.Height, t))
}
