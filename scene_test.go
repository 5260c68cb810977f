package vacmap

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewSceneStartupState(t *testing.T) {
	sc := NewScene()
	if !sc.Loading {
		t.Error("Loading = false, want true at startup")
	}
	if sc.MapImage != nil {
		t.Error("MapImage != nil at startup")
	}
	if sc.Robot != (Point{}) {
		t.Errorf("Robot = %v, want origin", sc.Robot)
	}
}

func TestSceneApply(t *testing.T) {
	sc := NewScene()
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	sc.Apply(Snapshot{
		StatusText: "cleaning",
		Robot:      Point{X: 12, Y: 7},
		ReceivedAt: ts,
	})

	if sc.Robot.X != 12 || sc.Robot.Y != 7 {
		t.Errorf("Robot = %v, want (12,7)", sc.Robot)
	}
	if sc.StatusText != "cleaning" {
		t.Errorf("StatusText = %q, want %q", sc.StatusText, "cleaning")
	}
	if !sc.LastUpdate.Equal(ts) {
		t.Errorf("LastUpdate = %v, want %v", sc.LastUpdate, ts)
	}
	if sc.Loading {
		t.Error("Loading still true after successful apply")
	}
}

func TestSceneApplyLeavesMapImageAlone(t *testing.T) {
	sc := NewScene()
	img := ebiten.NewImage(4, 4)
	sc.SetMapImage(img)

	sc.Apply(Snapshot{Robot: Point{X: 12, Y: 7}, ReceivedAt: time.Now()})
	if sc.MapImage != img {
		t.Error("Apply replaced MapImage; only SetMapImage may do that")
	}
}

func TestSceneSetMapImageWholesale(t *testing.T) {
	sc := NewScene()
	first := ebiten.NewImage(4, 4)
	second := ebiten.NewImage(8, 8)

	sc.SetMapImage(first)
	if sc.MapImage != first {
		t.Fatal("first image not set")
	}
	sc.SetMapImage(second)
	if sc.MapImage != second {
		t.Fatal("second image did not replace first")
	}
}

func TestSceneTrailExtends(t *testing.T) {
	sc := NewScene()
	sc.Apply(Snapshot{Robot: Point{X: 0, Y: 0}})
	sc.Apply(Snapshot{Robot: Point{X: 10, Y: 0}})
	sc.Apply(Snapshot{Robot: Point{X: 10, Y: 10}})

	trail := sc.Trail()
	if len(trail) != 3 {
		t.Fatalf("trail length = %d, want 3", len(trail))
	}
	if trail[2][0] != 10 || trail[2][1] != 10 {
		t.Errorf("trail tail = %v, want (10,10)", trail[2])
	}
}

func TestSceneTrailIgnoresJitter(t *testing.T) {
	sc := NewScene()
	sc.Apply(Snapshot{Robot: Point{X: 5, Y: 5}})
	sc.Apply(Snapshot{Robot: Point{X: 5.1, Y: 5.1}}) // below min spacing
	if got := len(sc.Trail()); got != 1 {
		t.Errorf("trail length = %d, want 1 (jitter ignored)", got)
	}
}

func TestSceneTrailStaysBounded(t *testing.T) {
	sc := NewScene()
	// A zig-zag path resists Douglas-Peucker simplification, forcing the
	// oldest-point drop path as well.
	for i := 0; i < 3*maxTrailPoints; i++ {
		y := 0.0
		if i%2 == 1 {
			y = 100.0
		}
		sc.Apply(Snapshot{Robot: Point{X: float64(i) * 2, Y: y}})
	}
	if got := len(sc.Trail()); got > maxTrailPoints {
		t.Errorf("trail length = %d, want <= %d", got, maxTrailPoints)
	}
}

func TestSceneTrailSimplifiesStraightRuns(t *testing.T) {
	sc := NewScene()
	// Collinear points collapse to their endpoints once the cap is hit.
	for i := 0; i <= maxTrailPoints; i++ {
		sc.Apply(Snapshot{Robot: Point{X: float64(i) * 2, Y: 0}})
	}
	if got := len(sc.Trail()); got >= maxTrailPoints {
		t.Errorf("trail length = %d, want simplified below %d", got, maxTrailPoints)
	}
}
