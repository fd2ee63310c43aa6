package gallery

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestAspectFitSize(t *testing.T) {
	fit, ok := AspectFitSize(fyne.NewSize(200, 100), fyne.NewSize(400, 400))
	if !ok {
		t.Fatal("expected a fit for valid sizes")
	}
	if fit != fyne.NewSize(400, 200) {
		t.Fatalf("expected 400x200, got %v", fit)
	}

	fit, _ = AspectFitSize(fyne.NewSize(100, 400), fyne.NewSize(400, 400))
	if fit != fyne.NewSize(100, 400) {
		t.Fatalf("expected 100x400, got %v", fit)
	}

	if _, ok := AspectFitSize(fyne.NewSize(0, 100), fyne.NewSize(400, 400)); ok {
		t.Fatal("expected zero width content to be rejected")
	}
	if _, ok := AspectFitSize(fyne.NewSize(100, 100), fyne.NewSize(400, 0)); ok {
		t.Fatal("expected zero height bounds to be rejected")
	}
}

func TestAspectFillZoomScale(t *testing.T) {
	if got := AspectFillZoomScale(fyne.NewSize(400, 800), fyne.NewSize(400, 200)); got != 4 {
		t.Fatalf("expected fill scale 4, got %v", got)
	}
	if got := AspectFillZoomScale(fyne.NewSize(400, 800), fyne.Size{}); got != 1 {
		t.Fatalf("expected 1 for empty content, got %v", got)
	}
}

func TestZoomRect_ClampsToContent(t *testing.T) {
	viewport := fyne.NewSize(400, 800)
	content := fyne.NewSize(400, 200)

	r := ZoomRect(viewport, content, 4, fyne.NewPos(10, 10))
	if r.Size != fyne.NewSize(100, 200) {
		t.Fatalf("expected visible size 100x200, got %v", r.Size)
	}
	if r.Position != fyne.NewPos(0, 0) {
		t.Fatalf("expected rect pinned to the top left, got %v", r.Position)
	}

	r = ZoomRect(viewport, content, 4, fyne.NewPos(390, 100))
	if r.Position.X != 300 {
		t.Fatalf("expected rect pinned to the right edge at 300, got %v", r.Position.X)
	}
}

func TestClassifyDirection(t *testing.T) {
	cases := []struct {
		d    fyne.Delta
		want Direction
	}{
		{fyne.NewDelta(0, 0), DirectionNone},
		{fyne.NewDelta(5, 1), DirectionRight},
		{fyne.NewDelta(-5, 1), DirectionLeft},
		{fyne.NewDelta(1, -5), DirectionUp},
		{fyne.NewDelta(1, 5), DirectionDown},
		{fyne.NewDelta(3, 3), DirectionDown},
		{fyne.NewDelta(-3, -3), DirectionUp},
	}
	for _, c := range cases {
		if got := ClassifyDirection(c.d); got != c.want {
			t.Fatalf("expected %v for %v, got %v", c.want, c.d, got)
		}
	}

	if got := ClassifyOrientation(fyne.NewDelta(-5, 1)); got != OrientationHorizontal {
		t.Fatalf("expected horizontal, got %v", got)
	}
	if got := ClassifyOrientation(fyne.Delta{}); got != OrientationNone {
		t.Fatalf("expected none, got %v", got)
	}
}

func TestRect(t *testing.T) {
	r := NewRect(fyne.NewPos(0, 0), fyne.NewSize(400, 800))
	inset := r.Inset(50, 50)
	if inset.Position != fyne.NewPos(50, 50) || inset.Size != fyne.NewSize(300, 700) {
		t.Fatalf("unexpected inset rect %v", inset)
	}
	if r.Center() != fyne.NewPos(200, 400) {
		t.Fatalf("expected centre 200,400, got %v", r.Center())
	}

	if !inset.Intersects(NewRect(fyne.NewPos(300, 700), fyne.NewSize(80, 80))) {
		t.Fatal("expected overlapping rects to intersect")
	}
	if inset.Intersects(NewRect(fyne.NewPos(350, 10), fyne.NewSize(40, 40))) {
		t.Fatal("expected rect in the margin not to intersect")
	}
	if inset.Intersects(NewRect(fyne.NewPos(100, 100), fyne.Size{})) {
		t.Fatal("expected an empty rect never to intersect")
	}
}

func TestInvertedSizeAndContentCenter(t *testing.T) {
	if got := InvertedSize(fyne.NewSize(400, 800)); got != fyne.NewSize(800, 400) {
		t.Fatalf("expected 800x400, got %v", got)
	}
	if got := ContentCenter(fyne.NewSize(400, 800), fyne.NewSize(1200, 200)); got != fyne.NewPos(600, 400) {
		t.Fatalf("expected 600,400, got %v", got)
	}
}
