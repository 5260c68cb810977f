package vacmap

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits and per-step factors. One wheel notch multiplies the scale by
// the step factor; the result is always clamped to [MinScale, MaxScale].
const (
	MinScale = 0.5
	MaxScale = 3.0

	zoomInStep  = 1.1
	zoomOutStep = 0.9
)

// glideAnim holds active glide tweens for the view's pan X and Y.
type glideAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// View maps between map-space and screen-space: screen = map*Scale + Pan.
// It is the only component that may be mutated by user input, and every draw
// and hit calculation goes through it, so the mapping stays consistent while
// state updates arrive asynchronously.
type View struct {
	// PanX and PanY are the screen-space offset of the map origin.
	PanX, PanY float64
	// Scale is the zoom factor, always within [MinScale, MaxScale].
	Scale float64

	glide *glideAnim
}

// NewView creates a View at the default pan (0,0) and scale 1.
func NewView() *View {
	return &View{Scale: 1}
}

// ToScreen converts a map-space point to screen-space.
func (v *View) ToScreen(p Point) Point {
	return Point{X: p.X*v.Scale + v.PanX, Y: p.Y*v.Scale + v.PanY}
}

// ToMap converts a screen-space point to map-space. Exact inverse of
// ToScreen for the current pan and scale.
func (v *View) ToMap(p Point) Point {
	return Point{X: (p.X - v.PanX) / v.Scale, Y: (p.Y - v.PanY) / v.Scale}
}

// ZoomAt zooms one step anchored at the given focal screen point: the map
// point under the cursor before the zoom is still under the cursor after.
// dir > 0 zooms in, dir < 0 zooms out, dir == 0 is a no-op. The scale is
// clamped before the pan is recomputed, so hitting a limit never shifts the
// view. Zooming cancels any active glide.
func (v *View) ZoomAt(focal Point, dir int) {
	if dir == 0 {
		return
	}
	step := zoomInStep
	if dir < 0 {
		step = zoomOutStep
	}
	next := clampScale(v.Scale * step)

	// pan' = focal - (focal - pan) * (scale'/scale), per axis.
	ratio := next / v.Scale
	v.PanX = focal.X - (focal.X-v.PanX)*ratio
	v.PanY = focal.Y - (focal.Y-v.PanY)*ratio
	v.Scale = next
	v.glide = nil
}

// PanBy adds a screen-space delta to the pan. There is no clamping: the map
// may be dragged fully off-screen. Panning cancels any active glide.
func (v *View) PanBy(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
	v.glide = nil
}

// CenterOn sets the pan so the given map point lands on the center of a
// viewport of the given size. Scale is preserved.
func (v *View) CenterOn(p Point, viewportW, viewportH float64) {
	v.PanX = viewportW/2 - p.X*v.Scale
	v.PanY = viewportH/2 - p.Y*v.Scale
	v.glide = nil
}

// GlideTo animates the pan toward CenterOn(p, viewportW, viewportH) over
// duration seconds. Any direct mutation (zoom, drag, center) cancels the
// glide; call Step each tick to advance it.
func (v *View) GlideTo(p Point, viewportW, viewportH float64, duration float32, easeFn ease.TweenFunc) {
	targetX := viewportW/2 - p.X*v.Scale
	targetY := viewportH/2 - p.Y*v.Scale
	v.glide = &glideAnim{
		tweenX: gween.New(float32(v.PanX), float32(targetX), duration, easeFn),
		tweenY: gween.New(float32(v.PanY), float32(targetY), duration, easeFn),
	}
}

// Gliding reports whether a glide animation is in progress.
func (v *View) Gliding() bool {
	return v.glide != nil
}

// StopGlide cancels an in-progress glide, leaving the pan where it is.
func (v *View) StopGlide() {
	v.glide = nil
}

// Step advances the glide animation, if any. Called once per tick.
func (v *View) Step(dt float32) {
	g := v.glide
	if g == nil {
		return
	}
	if !g.doneX {
		val, done := g.tweenX.Update(dt)
		v.PanX = float64(val)
		g.doneX = done
	}
	if !g.doneY {
		val, done := g.tweenY.Update(dt)
		v.PanY = float64(val)
		g.doneY = done
	}
	if g.doneX && g.doneY {
		v.glide = nil
	}
}

// VisibleBounds returns the map-space rectangle currently visible in a
// viewport of the given size.
func (v *View) VisibleBounds(viewportW, viewportH float64) Rect {
	tl := v.ToMap(Point{X: 0, Y: 0})
	br := v.ToMap(Point{X: viewportW, Y: viewportH})
	return Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
