package vacmap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Robot marker geometry, in map units. Drawn under the view transform, so
// the marker grows and shrinks with zoom like everything else on the map.
const (
	markerRadius     = 15.0
	markerOutline    = 2.0
	headingDotOffset = markerRadius + 6
	headingDotRadius = 4.0
)

// DefaultGridSpacing is the reference grid pitch in map units. The grid is
// drawn under the view transform, so its on-screen pitch is spacing*scale:
// it thickens as the user zooms in and thins as they zoom out, which is the
// scale cue the view relies on. Keep it that way.
const DefaultGridSpacing = 50.0

// Renderer draws a complete frame from a View and a Scene. It holds colors
// and toggles only — no scene state — so a frame is a pure function of its
// inputs.
type Renderer struct {
	Background color.RGBA
	GridColor  color.RGBA
	TrailColor color.RGBA
	MarkerFill color.RGBA
	MarkerEdge color.RGBA
	LabelShade color.RGBA

	GridSpacing float64
	ShowGrid    bool
	ShowTrail   bool
}

// NewRenderer creates a Renderer with the default palette.
func NewRenderer() *Renderer {
	return &Renderer{
		Background:  color.RGBA{0x16, 0x16, 0x1e, 0xff},
		GridColor:   color.RGBA{0x2e, 0x2e, 0x3a, 0xff},
		TrailColor:  color.RGBA{0x3a, 0x9e, 0x8c, 0xff},
		MarkerFill:  color.RGBA{0x4c, 0xaf, 0x50, 0xff},
		MarkerEdge:  color.RGBA{0xee, 0xee, 0xee, 0xff},
		LabelShade:  color.RGBA{0x00, 0x00, 0x00, 0x99},
		GridSpacing: DefaultGridSpacing,
		ShowGrid:    true,
		ShowTrail:   true,
	}
}

// Frame draws one complete frame and pushes the matching status readout to
// the sink, so everything the user sees — pixels and text — reflects the
// same scene snapshot.
//
// Stage order: background, map image, grid, trail, robot marker (all under
// the view transform), then the untransformed HUD.
func (r *Renderer) Frame(screen *ebiten.Image, v *View, sc *Scene, banner string, sink StatusSink) {
	w := float64(screen.Bounds().Dx())
	h := float64(screen.Bounds().Dy())

	screen.Fill(r.Background)

	if sc.MapImage != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(v.Scale, v.Scale)
		op.GeoM.Translate(v.PanX, v.PanY)
		screen.DrawImage(sc.MapImage, op)
	}

	if r.ShowGrid {
		r.drawGrid(screen, v, w, h)
	}
	if r.ShowTrail {
		r.drawTrail(screen, v, sc)
	}
	r.drawMarker(screen, v, sc.Robot)
	r.drawHUD(screen, v, sc, banner)

	sink.Status(sc.StatusText, sc.Robot, sc.LastUpdate)
	if banner != "" {
		sink.Error(banner)
	} else {
		sink.ClearError()
	}
}

// gridScreenLines returns the screen coordinates of the visible grid lines:
// vertical line Xs and horizontal line Ys. Lines sit at multiples of
// GridSpacing in map-space, so consecutive values are GridSpacing*Scale
// apart on screen.
func (r *Renderer) gridScreenLines(v *View, w, h float64) (xs, ys []float64) {
	spacing := r.GridSpacing
	if spacing <= 0 {
		spacing = DefaultGridSpacing
	}
	b := v.VisibleBounds(w, h)

	for k := math.Floor(b.X / spacing); k*spacing <= b.X+b.Width; k++ {
		xs = append(xs, v.ToScreen(Point{X: k * spacing}).X)
	}
	for k := math.Floor(b.Y / spacing); k*spacing <= b.Y+b.Height; k++ {
		ys = append(ys, v.ToScreen(Point{Y: k * spacing}).Y)
	}
	return xs, ys
}

func (r *Renderer) drawGrid(screen *ebiten.Image, v *View, w, h float64) {
	xs, ys := r.gridScreenLines(v, w, h)
	for _, x := range xs {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(h), 1, r.GridColor, false)
	}
	for _, y := range ys {
		vector.StrokeLine(screen, 0, float32(y), float32(w), float32(y), 1, r.GridColor, false)
	}
}

func (r *Renderer) drawTrail(screen *ebiten.Image, v *View, sc *Scene) {
	trail := sc.Trail()
	if len(trail) < 2 {
		return
	}
	prev := v.ToScreen(Point{X: trail[0][0], Y: trail[0][1]})
	for _, pt := range trail[1:] {
		cur := v.ToScreen(Point{X: pt[0], Y: pt[1]})
		vector.StrokeLine(screen,
			float32(prev.X), float32(prev.Y),
			float32(cur.X), float32(cur.Y),
			2, r.TrailColor, true)
		prev = cur
	}
}

func (r *Renderer) drawMarker(screen *ebiten.Image, v *View, robot Point) {
	c := v.ToScreen(robot)
	rad := markerRadius * v.Scale

	vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(rad), r.MarkerFill, true)
	vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(rad),
		float32(markerOutline*v.Scale), r.MarkerEdge, true)

	// Forward marker: a fixed-offset dot. Pose has no heading angle in the
	// state payload, so "forward" is the map's +X.
	dot := v.ToScreen(Point{X: robot.X + headingDotOffset, Y: robot.Y})
	vector.DrawFilledCircle(screen, float32(dot.X), float32(dot.Y),
		float32(headingDotRadius*v.Scale), r.MarkerEdge, true)

	label := markerLabel(robot)
	ebitenutil.DebugPrintAt(screen, label,
		int(c.X)-3*len(label), int(c.Y+rad)+4)
}

// markerLabel formats the rounded map-space coordinates shown under the
// robot marker.
func markerLabel(robot Point) string {
	return fmt.Sprintf("(%d, %d)", int(math.Round(robot.X)), int(math.Round(robot.Y)))
}

func (r *Renderer) drawHUD(screen *ebiten.Image, v *View, sc *Scene, banner string) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom: %d%%", int(math.Round(v.Scale*100))), 8, 8)
	if sc.Loading {
		ebitenutil.DebugPrintAt(screen, "loading...", 8, 24)
	}
	if banner != "" {
		ebitenutil.DebugPrintAt(screen, "! "+banner, 8, 40)
	}

	h := screen.Bounds().Dy()
	status := sc.StatusText
	if status == "" {
		status = "unknown"
	}
	line := fmt.Sprintf("%s  %s  %s", status, markerLabel(sc.Robot), hudTimestamp(sc))
	ebitenutil.DebugPrintAt(screen, line, 8, h-20)
}

func hudTimestamp(sc *Scene) string {
	if sc.LastUpdate.IsZero() {
		return "never"
	}
	return sc.LastUpdate.Format("15:04:05")
}
