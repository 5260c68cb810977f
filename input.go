package vacmap

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// clickDeadZone is the maximum total pointer travel, in screen pixels, for a
// press/release pair to still count as a click.
const clickDeadZone = 4.0

// Frame is the polled input state for a single tick. Separating polling
// from handling keeps the controller a pure state machine.
type Frame struct {
	CursorX, CursorY float64
	WheelY           float64
	Primary          bool // primary button currently held
	JustPressed      bool
	JustReleased     bool

	ToggleFollow bool
	ToggleGrid   bool
	Screenshot   bool
}

// readFrame polls Ebitengine for this tick's input.
func readFrame() Frame {
	mx, my := ebiten.CursorPosition()
	_, wheelY := ebiten.Wheel()
	return Frame{
		CursorX:      float64(mx),
		CursorY:      float64(my),
		WheelY:       wheelY,
		Primary:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		ToggleFollow: inpututil.IsKeyJustPressed(ebiten.KeyF),
		ToggleGrid:   inpututil.IsKeyJustPressed(ebiten.KeyG),
		Screenshot:   inpututil.IsKeyJustPressed(ebiten.KeyS),
	}
}

// Controller translates raw pointer and wheel input into View mutations.
//
//   - Wheel zooms anchored at the cursor.
//   - Moving with the primary button held pans by the movement delta.
//   - A click (press and release within the dead zone) recenters on the
//     robot, wherever the click landed: click to find the robot.
//   - A real drag disables follow mode; the user took the wheel.
type Controller struct {
	view *View

	follow bool

	down      bool
	pressX    float64
	pressY    float64
	lastX     float64
	lastY     float64
	travelled float64
}

// NewController creates a Controller driving the given view.
func NewController(view *View) *Controller {
	return &Controller{view: view}
}

// Follow reports whether follow mode is on.
func (c *Controller) Follow() bool { return c.follow }

// SetFollow turns follow mode on or off.
func (c *Controller) SetFollow(on bool) { c.follow = on }

// Apply feeds one tick of input through the state machine, mutating the
// view. viewportW/H are the current drawable dimensions in pixels; robot is
// the current pose (the click-to-center target). Reports whether anything
// changed that needs a redraw.
func (c *Controller) Apply(f Frame, robot Point, viewportW, viewportH float64) bool {
	changed := false

	if f.ToggleFollow {
		c.follow = !c.follow
		changed = true
	}

	if f.WheelY != 0 {
		dir := 1
		if f.WheelY < 0 {
			dir = -1
		}
		c.view.ZoomAt(Point{X: f.CursorX, Y: f.CursorY}, dir)
		changed = true
	}

	if f.JustPressed {
		c.down = true
		c.pressX, c.pressY = f.CursorX, f.CursorY
		c.lastX, c.lastY = f.CursorX, f.CursorY
		c.travelled = 0
	}

	if c.down && f.Primary {
		dx := f.CursorX - c.lastX
		dy := f.CursorY - c.lastY
		if dx != 0 || dy != 0 {
			c.view.PanBy(dx, dy)
			c.travelled += math.Hypot(dx, dy)
			if c.travelled > clickDeadZone {
				c.follow = false
			}
			c.lastX, c.lastY = f.CursorX, f.CursorY
			changed = true
		}
	}

	if f.JustReleased && c.down {
		c.down = false
		if c.travelled <= clickDeadZone {
			c.view.CenterOn(robot, viewportW, viewportH)
			changed = true
		}
	}

	return changed
}
