package gallery

import (
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// Animation describes one timed transition. Tick receives the eased progress, which may
// overshoot 1 for spring curves. Done runs once, after the final tick.
type Animation struct {
	Duration time.Duration
	Delay    time.Duration
	Curve    fyne.AnimationCurve
	Tick     func(progress float32)
	Done     func()
}

// Animator runs animations on the UI goroutine.
type Animator interface {
	Start(a *Animation)
	Stop(a *Animation)
}

type fyneAnimator struct {
	mu      sync.Mutex
	running map[*Animation]*fyne.Animation
	timers  map[*Animation]*time.Timer
}

// NewAnimator returns an Animator backed by fyne's animation runner.
func NewAnimator() Animator {
	return &fyneAnimator{
		running: make(map[*Animation]*fyne.Animation),
		timers:  make(map[*Animation]*time.Timer),
	}
}

func (f *fyneAnimator) Start(a *Animation) {
	if a.Delay <= 0 {
		f.run(a)
		return
	}

	f.mu.Lock()
	f.timers[a] = time.AfterFunc(a.Delay, func() {
		fyne.Do(func() {
			f.mu.Lock()
			_, pending := f.timers[a]
			delete(f.timers, a)
			f.mu.Unlock()
			if pending {
				f.run(a)
			}
		})
	})
	f.mu.Unlock()
}

func (f *fyneAnimator) run(a *Animation) {
	if a.Duration <= 0 {
		finish(a)
		return
	}

	curve := a.Curve
	if curve == nil {
		curve = fyne.AnimationLinear
	}

	done := false
	fa := fyne.NewAnimation(a.Duration, func(p float32) {
		if done {
			return
		}
		if a.Tick != nil {
			a.Tick(curve(p))
		}
		if p >= 1 {
			done = true
			f.mu.Lock()
			delete(f.running, a)
			f.mu.Unlock()
			if a.Done != nil {
				a.Done()
			}
		}
	})
	// The curve is applied in the tick so an overshooting curve cannot end the animation early.
	fa.Curve = fyne.AnimationLinear

	f.mu.Lock()
	f.running[a] = fa
	f.mu.Unlock()
	fa.Start()
}

func (f *fyneAnimator) Stop(a *Animation) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.timers[a]; ok {
		t.Stop()
		delete(f.timers, a)
	}
	if fa, ok := f.running[a]; ok {
		fa.Stop()
		delete(f.running, a)
	}
}

func finish(a *Animation) {
	if a.Tick != nil {
		curve := a.Curve
		if curve == nil {
			curve = fyne.AnimationLinear
		}
		a.Tick(curve(1))
	}
	if a.Done != nil {
		a.Done()
	}
}

// curveFor maps a configured timing curve onto fyne's curves.
func curveFor(c TimingCurve) fyne.AnimationCurve {
	switch c {
	case CurveEaseIn:
		return fyne.AnimationEaseIn
	case CurveEaseOut:
		return fyne.AnimationEaseOut
	case CurveEaseInOut:
		return fyne.AnimationEaseInOut
	default:
		return fyne.AnimationLinear
	}
}

// springStiffness is the natural frequency of the spring in units of the animation duration.
const springStiffness = 12.0

// SpringCurve returns a damped spring easing from 0 to 1. damping is the damping ratio
// (1 is critically damped, lower values overshoot) and velocity the initial velocity in
// distances per animation duration. The curve always ends exactly at 1.
func SpringCurve(damping, velocity float32) fyne.AnimationCurve {
	zeta := float64(damping)
	if zeta <= 0 || math.IsNaN(zeta) {
		zeta = 1
	}
	v := float64(velocity)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	w := springStiffness

	return func(p float32) float32 {
		if p <= 0 {
			return 0
		}
		if p >= 1 {
			return 1
		}
		t := float64(p)

		// y is the displacement from the target: y(0) = -1, y'(0) = v.
		var y float64
		switch {
		case zeta < 1:
			wd := w * math.Sqrt(1-zeta*zeta)
			b := (v - zeta*w) / wd
			y = math.Exp(-zeta*w*t) * (-math.Cos(wd*t) + b*math.Sin(wd*t))
		case zeta == 1:
			y = (-1 + (v-w)*t) * math.Exp(-w*t)
		default:
			root := math.Sqrt(zeta*zeta - 1)
			r1 := -w * (zeta - root)
			r2 := -w * (zeta + root)
			c1 := (v + r2) / (r1 - r2)
			c2 := -1 - c1
			y = c1*math.Exp(r1*t) + c2*math.Exp(r2*t)
		}
		return float32(1 + y)
	}
}
