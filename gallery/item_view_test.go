package gallery

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

type recordedGestures struct {
	taps         []fyne.Position
	doubleTaps   int
	longPresses  int
	translations []fyne.Delta
	velocities   []fyne.Delta
	ended        int
}

func (g *recordedGestures) singleTap(pos fyne.Position) {
	g.taps = append(g.taps, pos)
}

func (g *recordedGestures) doubleTap(fyne.Position) {
	g.doubleTaps++
}

func (g *recordedGestures) longPress(fyne.Position) {
	g.longPresses++
}

func (g *recordedGestures) panChanged(translation, velocity fyne.Delta) {
	g.translations = append(g.translations, translation)
	g.velocities = append(g.velocities, velocity)
}

func (g *recordedGestures) panEnded(fyne.Delta, fyne.Delta) {
	g.ended++
}

func newSizedView(g itemGestures) *itemView {
	v := newItemView(g)
	v.Resize(testViewport)
	v.setImage(solidImage(40, 20))
	v.maxZoom = 8
	return v
}

func TestVelocityTracker(t *testing.T) {
	now := time.Unix(0, 0)
	tr := velocityTracker{now: func() time.Time { return now }}

	tr.add(fyne.NewPos(0, 0))
	if !tr.velocity().IsZero() {
		t.Fatal("expected no velocity from a single sample")
	}

	now = now.Add(50 * time.Millisecond)
	tr.add(fyne.NewPos(0, -30))
	if got := tr.velocity(); !approx(got.DY, -600) || got.DX != 0 {
		t.Fatalf("expected 0,-600, got %v", got)
	}

	// Samples older than the window no longer count.
	now = now.Add(200 * time.Millisecond)
	tr.add(fyne.NewPos(0, -31))
	if got := tr.velocity(); !got.IsZero() {
		t.Fatalf("expected velocity to reset after a pause, got %v", got)
	}

	now = now.Add(300 * time.Millisecond)
	if !tr.velocity().IsZero() {
		t.Fatal("expected a stale release to have no velocity")
	}
}

func TestItemView_FrameCentresImage(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	v := newSizedView(nil)
	frame := v.imageFrame()
	if frame.Position != fyne.NewPos(0, 300) || frame.Size != fyne.NewSize(400, 200) {
		t.Fatalf("expected the image at 0,300 sized 400x200, got %v", frame)
	}

	v.SetContentOffset(fyne.NewPos(0, 100))
	if got := v.imageFrame().Position; got != fyne.NewPos(0, 200) {
		t.Fatalf("expected the swipe offset to move the image up, got %v", got)
	}
}

func TestItemView_ScrollNotchesZoom(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	v := newSizedView(nil)
	if steps := v.accumulateNotches(15); steps != 0 {
		t.Fatalf("expected a partial notch to wait, got %d", steps)
	}
	if steps := v.accumulateNotches(30); steps != 1 {
		t.Fatalf("expected one notch, got %d", steps)
	}
	if steps := v.accumulateNotches(-80); steps != -1 {
		t.Fatalf("expected one notch back, got %d", steps)
	}

	v.zoomSteps(2, fyne.NewPos(200, 400))
	if !approx(v.zoomScale, zoomStepFactor*zoomStepFactor) {
		t.Fatalf("expected two steps of zoom, got %v", v.zoomScale)
	}

	v.zoomSteps(100, fyne.NewPos(200, 400))
	if v.zoomScale != 8 {
		t.Fatalf("expected zoom clamped to 8, got %v", v.zoomScale)
	}

	v.zoomSteps(-100, fyne.NewPos(200, 400))
	if v.zoomScale != 1 || v.scroll != (fyne.Position{}) {
		t.Fatalf("expected zoom back at 1 without scroll, got %v %v", v.zoomScale, v.scroll)
	}
}

func TestItemView_PanOnlyWhenZoomed(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	v := newSizedView(nil)
	v.panBy(fyne.NewDelta(-50, 0))
	if v.scroll != (fyne.Position{}) {
		t.Fatalf("expected no scroll at zoom 1, got %v", v.scroll)
	}

	v.setZoom(4, fyne.NewPos(600, 0))
	v.panBy(fyne.NewDelta(-50, 0))
	if v.scroll != fyne.NewPos(650, 0) {
		t.Fatalf("expected scroll 650,0, got %v", v.scroll)
	}
	v.panBy(fyne.NewDelta(-5000, -5000))
	if v.scroll != fyne.NewPos(1200, 0) {
		t.Fatalf("expected scroll clamped to 1200,0, got %v", v.scroll)
	}
}

func TestItemView_GesturesForwarded(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	g := &recordedGestures{}
	v := newSizedView(g)

	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(5, 6)})
	v.DoubleTapped(&fyne.PointEvent{})
	v.TappedSecondary(&fyne.PointEvent{})
	if len(g.taps) != 1 || g.taps[0] != fyne.NewPos(5, 6) || g.doubleTaps != 1 || g.longPresses != 1 {
		t.Fatalf("expected one of each tap, got %+v", g)
	}

	v.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(0, -4)})
	v.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(0, -6)})
	v.DragEnd()
	v.DragEnd()

	if len(g.translations) != 2 || g.translations[1] != fyne.NewDelta(0, -10) {
		t.Fatalf("expected accumulated translation 0,-10, got %v", g.translations)
	}
	if g.velocities[0] != fyne.NewDelta(0, -4) {
		t.Fatalf("expected the first sample to carry its delta, got %v", g.velocities[0])
	}
	if g.ended != 1 {
		t.Fatalf("expected one pan end, got %d", g.ended)
	}
}
