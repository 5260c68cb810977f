package vacmap

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestViewDefaults(t *testing.T) {
	v := NewView()
	if v.Scale != 1.0 {
		t.Errorf("Scale = %f, want 1.0", v.Scale)
	}
	if v.PanX != 0 || v.PanY != 0 {
		t.Errorf("Pan = (%f,%f), want (0,0)", v.PanX, v.PanY)
	}
}

func TestViewRoundtrip(t *testing.T) {
	v := &View{PanX: 37.5, PanY: -120.25, Scale: 1.7}

	for _, p := range []Point{
		{0, 0}, {100, 50}, {-33.3, 900.1}, {1e6, -1e6},
	} {
		s := v.ToScreen(p)
		back := v.ToMap(s)
		if !approxEqual(back.X, p.X, 1e-6) || !approxEqual(back.Y, p.Y, 1e-6) {
			t.Errorf("ToMap(ToScreen(%v)) = %v", p, back)
		}
		m := v.ToMap(p)
		fwd := v.ToScreen(m)
		if !approxEqual(fwd.X, p.X, 1e-6) || !approxEqual(fwd.Y, p.Y, 1e-6) {
			t.Errorf("ToScreen(ToMap(%v)) = %v", p, fwd)
		}
	}
}

func TestViewZoomAtAnchor(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		v := &View{
			PanX:  rng.Float64()*400 - 200,
			PanY:  rng.Float64()*400 - 200,
			Scale: MinScale + rng.Float64()*(MaxScale-MinScale),
		}
		focal := Point{X: rng.Float64() * 800, Y: rng.Float64() * 600}
		dir := 1
		if i%2 == 1 {
			dir = -1
		}

		before := v.ToMap(focal)
		v.ZoomAt(focal, dir)
		after := v.ToMap(focal)

		if !approxEqual(before.X, after.X, 1e-6) || !approxEqual(before.Y, after.Y, 1e-6) {
			t.Fatalf("anchor moved: before=%v after=%v (dir=%d)", before, after, dir)
		}
	}
}

func TestViewZoomAtAnchorAtClampBoundary(t *testing.T) {
	// Zooming out at the minimum scale changes nothing, so the anchor
	// trivially holds; the pan must not shift either.
	v := &View{PanX: 10, PanY: 20, Scale: MinScale}
	v.ZoomAt(Point{X: 400, Y: 300}, -1)
	if v.Scale != MinScale {
		t.Errorf("Scale = %f, want %f", v.Scale, MinScale)
	}
	if !approxEqual(v.PanX, 10, epsilon) || !approxEqual(v.PanY, 20, epsilon) {
		t.Errorf("pan shifted at clamp boundary: (%f,%f)", v.PanX, v.PanY)
	}
}

func TestViewZoomScaleAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	v := NewView()

	for i := 0; i < 500; i++ {
		dir := 1
		if rng.IntN(2) == 0 {
			dir = -1
		}
		v.ZoomAt(Point{X: rng.Float64() * 800, Y: rng.Float64() * 600}, dir)
		if v.Scale < MinScale || v.Scale > MaxScale {
			t.Fatalf("step %d: Scale = %f outside [%f, %f]", i, v.Scale, MinScale, MaxScale)
		}
	}
}

func TestViewZoomDirectionZeroIsNoop(t *testing.T) {
	v := &View{PanX: 5, PanY: 6, Scale: 2}
	v.ZoomAt(Point{X: 100, Y: 100}, 0)
	if v.Scale != 2 || v.PanX != 5 || v.PanY != 6 {
		t.Errorf("ZoomAt dir=0 mutated view: %+v", v)
	}
}

func TestViewPanBy(t *testing.T) {
	v := &View{PanX: 1, PanY: 2, Scale: 1.5}
	v.PanBy(10, -20)
	v.PanBy(-3, 4)
	if !approxEqual(v.PanX, 8, epsilon) || !approxEqual(v.PanY, -14, epsilon) {
		t.Errorf("Pan = (%f,%f), want (8,-14)", v.PanX, v.PanY)
	}
	if v.Scale != 1.5 {
		t.Errorf("PanBy changed scale: %f", v.Scale)
	}
}

func TestViewCenterOn(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))

	for i := 0; i < 100; i++ {
		v := &View{
			PanX:  rng.Float64()*2000 - 1000,
			PanY:  rng.Float64()*2000 - 1000,
			Scale: MinScale + rng.Float64()*(MaxScale-MinScale),
		}
		robot := Point{X: rng.Float64()*600 - 300, Y: rng.Float64()*600 - 300}
		prevScale := v.Scale

		v.CenterOn(robot, 800, 600)
		s := v.ToScreen(robot)
		if !approxEqual(s.X, 400, 1e-6) || !approxEqual(s.Y, 300, 1e-6) {
			t.Fatalf("CenterOn: robot at (%f,%f), want (400,300)", s.X, s.Y)
		}
		if v.Scale != prevScale {
			t.Fatalf("CenterOn changed scale: %f -> %f", prevScale, v.Scale)
		}
	}
}

func TestViewGlideTo(t *testing.T) {
	v := NewView()
	robot := Point{X: 100, Y: 200}
	v.GlideTo(robot, 800, 600, 1.0, ease.Linear)

	if !v.Gliding() {
		t.Fatal("Gliding() = false after GlideTo")
	}

	// Advance halfway, then to the end.
	v.Step(0.5)
	wantX := (800.0/2 - 100) / 2
	wantY := (600.0/2 - 200) / 2
	if !approxEqual(v.PanX, wantX, 1.0) || !approxEqual(v.PanY, wantY, 1.0) {
		t.Errorf("glide halfway: pan = (%f,%f), want ~(%f,%f)", v.PanX, v.PanY, wantX, wantY)
	}

	v.Step(0.5)
	s := v.ToScreen(robot)
	if !approxEqual(s.X, 400, 1.0) || !approxEqual(s.Y, 300, 1.0) {
		t.Errorf("glide end: robot at (%f,%f), want ~(400,300)", s.X, s.Y)
	}
	if v.Gliding() {
		t.Error("glide not cleared after completion")
	}
}

func TestViewManualInputCancelsGlide(t *testing.T) {
	v := NewView()
	v.GlideTo(Point{X: 50, Y: 50}, 800, 600, 1.0, ease.Linear)
	v.PanBy(1, 1)
	if v.Gliding() {
		t.Error("PanBy did not cancel glide")
	}

	v.GlideTo(Point{X: 50, Y: 50}, 800, 600, 1.0, ease.Linear)
	v.ZoomAt(Point{X: 0, Y: 0}, 1)
	if v.Gliding() {
		t.Error("ZoomAt did not cancel glide")
	}
}

func TestViewVisibleBounds(t *testing.T) {
	v := &View{PanX: -100, PanY: -50, Scale: 2}
	b := v.VisibleBounds(800, 600)
	// Top-left screen (0,0) -> map (50, 25); 800x600 screen -> 400x300 map.
	if !approxEqual(b.X, 50, epsilon) || !approxEqual(b.Y, 25, epsilon) {
		t.Errorf("bounds origin = (%f,%f), want (50,25)", b.X, b.Y)
	}
	if !approxEqual(b.Width, 400, epsilon) || !approxEqual(b.Height, 300, epsilon) {
		t.Errorf("bounds size = (%f,%f), want (400,300)", b.Width, b.Height)
	}
}

func BenchmarkViewZoomAt(b *testing.B) {
	v := NewView()
	focal := Point{X: 400, Y: 300}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.ZoomAt(focal, 1-2*(i%2))
	}
}
