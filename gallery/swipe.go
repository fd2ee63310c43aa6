package gallery

import (
	"time"

	"fyne.io/fyne/v2"
)

// swipeCancelDuration is how long a cancelled swipe takes to spring back.
const swipeCancelDuration = 200 * time.Millisecond

// swipeCompletionFactor scales the time a released swipe needs to leave the screen.
const swipeCompletionFactor = 0.65

// offsetSurface is the scrollable content a swipe moves. Offsets follow the scroll
// convention: a positive offset moves the content left or up.
type offsetSurface interface {
	ContentOffset() fyne.Position
	SetContentOffset(fyne.Position)
}

type swipeState int

const (
	swipeIdle swipeState = iota
	swipeActive
	swipeCompleting
	swipeCancelling
)

// swipeToDismissTransition drives one interactive swipe from the first drag sample to either
// leaving the screen or springing back.
type swipeToDismissTransition struct {
	animator Animator
	surface  offsetSurface
	state    swipeState
}

func newSwipeToDismissTransition(animator Animator) *swipeToDismissTransition {
	return &swipeToDismissTransition{animator: animator}
}

func (s *swipeToDismissTransition) begin(surface offsetSurface) {
	s.surface = surface
	s.state = swipeActive
}

// update moves the surface without animation so the content tracks the pointer.
func (s *swipeToDismissTransition) update(offset fyne.Position) {
	if s.state != swipeActive || s.surface == nil {
		return
	}
	s.surface.SetContentOffset(offset)
}

// complete animates the content off screen. touchPoint and target are translations along
// axis, velocity is the release velocity on that axis in points per second.
func (s *swipeToDismissTransition) complete(axis Orientation, touchPoint, target, velocity float32, done func()) {
	if s.state != swipeActive || s.surface == nil {
		return
	}
	s.state = swipeCompleting

	duration, springVelocity := swipeCompletionTiming(touchPoint, target, velocity)

	from := s.surface.ContentOffset()
	to := fyne.NewPos(0, -target)
	if axis == OrientationHorizontal {
		to = fyne.NewPos(-target, 0)
	}

	// The spring velocity is in distances per second, the curve expects distances per duration.
	curve := SpringCurve(1, springVelocity*float32(duration.Seconds()))
	surface := s.surface
	s.animator.Start(&Animation{
		Duration: duration,
		Curve:    curve,
		Tick: func(p float32) {
			surface.SetContentOffset(lerpPos(from, to, p))
		},
		Done: func() {
			s.state = swipeIdle
			s.surface = nil
			if done != nil {
				done()
			}
		},
	})
}

// cancel springs the content back to rest.
func (s *swipeToDismissTransition) cancel(done func()) {
	if s.state != swipeActive || s.surface == nil {
		return
	}
	s.state = swipeCancelling

	from := s.surface.ContentOffset()
	surface := s.surface
	s.animator.Start(&Animation{
		Duration: swipeCancelDuration,
		Curve:    fyne.AnimationLinear,
		Tick: func(p float32) {
			surface.SetContentOffset(lerpPos(from, fyne.Position{}, p))
		},
		Done: func() {
			s.state = swipeIdle
			s.surface = nil
			if done != nil {
				done()
			}
		},
	})
}

// swipeCompletionTiming returns the completion duration and spring velocity for a swipe
// released at touchPoint heading for target.
func swipeCompletionTiming(touchPoint, target, velocity float32) (time.Duration, float32) {
	distance := target - touchPoint
	if distance == 0 || velocity == 0 {
		return 0, 0
	}

	springVelocity := abs32(velocity / distance)
	seconds := swipeCompletionFactor * abs32(distance) / abs32(velocity)
	return time.Duration(float64(seconds) * float64(time.Second)), springVelocity
}

// shouldBeginSwipe decides at recognition time whether a pan may become a swipe to dismiss.
// Horizontal swipes are only possible at the ends of the sequence and only away from it.
func shouldBeginSwipe(mode SwipeToDismissMode, velocity fyne.Delta, index, count int) bool {
	orientation := ClassifyOrientation(velocity)
	if orientation == OrientationNone || !mode.allows(orientation) {
		return false
	}
	if orientation == OrientationVertical {
		return true
	}

	direction := ClassifyDirection(velocity)
	return (index == 0 && direction == DirectionRight) ||
		(index == count-1 && direction == DirectionLeft)
}

// clampSwipeOffset converts a drag translation into a surface offset. At the first and last
// item horizontal drags may only move towards the escape side.
func clampSwipeOffset(axis Orientation, index, count int, translation fyne.Delta) fyne.Position {
	if axis == OrientationVertical {
		return fyne.NewPos(0, -translation.DY)
	}

	x := -translation.DX
	if count != 1 {
		switch index {
		case 0:
			x = min32(0, x)
		case count - 1:
			x = max32(0, x)
		}
	}
	return fyne.NewPos(x, 0)
}

type swipeDecision struct {
	commit    bool
	direction Direction
	// target is the translation along the axis at which the item has left the screen.
	target float32
}

// decideSwipe maps a released swipe onto commit or cancel. Velocities equal to the
// threshold cancel.
func decideSwipe(axis Orientation, index, count int, velocity fyne.Delta, threshold float32, viewport, item fyne.Size) swipeDecision {
	switch axis {
	case OrientationVertical:
		distance := viewport.Height/2 + item.Height/2
		if velocity.DY < -threshold {
			return swipeDecision{commit: true, direction: DirectionUp, target: -distance}
		}
		if velocity.DY > threshold {
			return swipeDecision{commit: true, direction: DirectionDown, target: distance}
		}
	case OrientationHorizontal:
		distance := viewport.Width/2 + item.Width/2
		if index == 0 && velocity.DX > threshold {
			return swipeDecision{commit: true, direction: DirectionRight, target: distance}
		}
		if index == count-1 && velocity.DX < -threshold {
			return swipeDecision{commit: true, direction: DirectionLeft, target: -distance}
		}
	}
	return swipeDecision{}
}

// swipeRatio is the progress of a swipe, reaching 1 once the item is fully off screen.
func swipeRatio(axis Orientation, offset fyne.Position, viewport, item fyne.Size) float32 {
	var along, distance float32
	switch axis {
	case OrientationHorizontal:
		along, distance = offset.X, viewport.Width/2+item.Width/2
	case OrientationVertical:
		along, distance = offset.Y, viewport.Height/2+item.Height/2
	default:
		return 0
	}
	if distance <= 0 {
		return 0
	}
	return abs32(along / distance)
}
