package vacmap

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// followGlideDuration is how long, in seconds, the view takes to glide onto
// the robot when follow mode recenters it.
const followGlideDuration = 0.4

// inboxCap bounds the widget's message inbox. The ingestion side blocks once
// it fills, which only happens if the game loop has stalled.
const inboxCap = 16

// Widget is the top-level game object: it owns the view, the scene, the
// renderer, and the controller, drains the ingestion inbox, and implements
// ebiten.Game.
//
// All scene and view mutation happens inside Update, on the game loop.
// Goroutines never touch the widget; they post Messages to Inbox().
type Widget struct {
	// ScreenshotDir is where the S key saves PNG captures. Empty means the
	// current directory.
	ScreenshotDir string

	view     *View
	scene    *Scene
	renderer *Renderer
	ctrl     *Controller
	sink     StatusSink
	log      *zap.Logger

	msgs   chan Message
	banner string
	imgGen uint64 // generation of the map image currently applied

	viewportW float64
	viewportH float64

	screenshotQueue []string

	// readInput is swapped out in tests.
	readInput func() Frame
}

// NewWidget creates a Widget with a fresh view, scene, and renderer. A nil
// sink discards status readouts; a nil logger disables logging.
func NewWidget(sink StatusSink, log *zap.Logger) *Widget {
	if sink == nil {
		sink = NopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	view := NewView()
	return &Widget{
		view:      view,
		scene:     NewScene(),
		renderer:  NewRenderer(),
		ctrl:      NewController(view),
		sink:      sink,
		log:       log,
		msgs:      make(chan Message, inboxCap),
		readInput: readFrame,
	}
}

// Inbox returns the channel the ingestion side posts Messages to.
func (w *Widget) Inbox() chan<- Message { return w.msgs }

// View returns the widget's view transform.
func (w *Widget) View() *View { return w.view }

// SceneState returns the widget's scene.
func (w *Widget) SceneState() *Scene { return w.scene }

// Renderer returns the widget's renderer for palette and toggle tweaks.
func (w *Widget) Renderer() *Renderer { return w.renderer }

// SetFollow turns follow mode on or off before the game starts.
func (w *Widget) SetFollow(on bool) { w.ctrl.SetFollow(on) }

// Update drains the inbox, handles input, and advances animations. Part of
// ebiten.Game.
func (w *Widget) Update() error {
	w.drainInbox()

	f := w.readInput()
	wasFollow := w.ctrl.Follow()
	w.ctrl.Apply(f, w.scene.Robot, w.viewportW, w.viewportH)
	if !wasFollow && w.ctrl.Follow() {
		// Follow just turned on; glide instead of waiting for the next pose.
		w.glideToRobot()
	}
	if f.ToggleGrid {
		w.renderer.ShowGrid = !w.renderer.ShowGrid
	}
	if f.Screenshot {
		w.Screenshot(w.scene.StatusText)
	}

	dt := float32(1.0 / float64(ebiten.TPS()))
	w.view.Step(dt)
	return nil
}

// drainInbox applies every pending Message. Whole snapshots apply
// atomically between frames, so a draw never sees a half-applied update.
func (w *Widget) drainInbox() {
	for {
		select {
		case m := <-w.msgs:
			w.apply(m)
		default:
			return
		}
	}
}

func (w *Widget) apply(m Message) {
	if m.snap != nil {
		w.scene.Apply(*m.snap)
		if w.ctrl.Follow() {
			w.glideToRobot()
		}
	}
	if m.img != nil {
		if m.imgGen >= w.imgGen {
			w.scene.SetMapImage(m.img)
			w.imgGen = m.imgGen
		} else {
			w.log.Debug("stale map image dropped",
				zap.Uint64("gen", m.imgGen), zap.Uint64("current", w.imgGen))
		}
	}
	if m.clearErr {
		w.banner = ""
	}
	if m.errText != "" {
		w.banner = m.errText
	}
}

func (w *Widget) glideToRobot() {
	w.view.GlideTo(w.scene.Robot, w.viewportW, w.viewportH, followGlideDuration, ease.OutQuad)
}

// Draw renders the frame and flushes queued screenshots. Part of ebiten.Game.
func (w *Widget) Draw(screen *ebiten.Image) {
	w.renderer.Frame(screen, w.view, w.scene, w.banner, w.sink)
	if w.ctrl.Follow() {
		ebitenutil.DebugPrintAt(screen, "follow", screen.Bounds().Dx()-56, 8)
	}
	w.flushScreenshots(screen)
}

// Layout reports the drawable size and records it for input and follow
// math. Resizing never touches pan or scale; the view simply shows more or
// less of the map. Part of ebiten.Game.
func (w *Widget) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.viewportW = float64(outsideWidth)
	w.viewportH = float64(outsideHeight)
	return outsideWidth, outsideHeight
}

// String describes the widget for debug logs.
func (w *Widget) String() string {
	return fmt.Sprintf("vacmap.Widget(zoom=%.2f follow=%v)", w.view.Scale, w.ctrl.Follow())
}
