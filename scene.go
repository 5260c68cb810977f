package vacmap

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Trail size management. When the breadcrumb exceeds maxTrailPoints it is
// simplified with Douglas-Peucker; if the track is too noisy for that to
// help, the oldest points are dropped instead.
const (
	maxTrailPoints  = 2048
	trailTolerance  = 1.5 // map units
	trailMinSpacing = 0.5 // ignore sub-pixel jitter between updates
)

// Snapshot is one fully decoded state update. The ingestion loop produces
// Snapshots and the widget applies each one whole, so a render never
// observes a torn update.
type Snapshot struct {
	// StatusText is the overall state string reported by the vacuum.
	StatusText string
	// Robot is the reported pose in map-space. Defaults to (0,0) when the
	// payload omits it.
	Robot Point
	// MapURL is the map image location, or "" to keep the current image.
	MapURL string
	// MapData holds inline image bytes when the payload embeds the map
	// directly instead of linking it. Takes precedence over MapURL.
	MapData []byte
	// ReceivedAt is when the update was decoded.
	ReceivedAt time.Time
}

// Scene holds the latest robot pose and map image. It is written only from
// the widget's game loop: the ingestion side posts Snapshots and decoded
// images, it never touches the Scene directly.
type Scene struct {
	// Robot is the current pose in map-space.
	Robot Point
	// MapImage is the current map, or nil before the first image loads.
	// Replaced wholesale; never partially mutated.
	MapImage *ebiten.Image
	// StatusText is the vacuum's reported state string.
	StatusText string
	// LastUpdate is when the most recent snapshot was applied.
	LastUpdate time.Time
	// Loading is true until the first successful snapshot.
	Loading bool

	trail orb.LineString
}

// NewScene creates a Scene in its startup state: no pose, no image, loading.
func NewScene() *Scene {
	return &Scene{Loading: true}
}

// Apply replaces the pose and status fields from one snapshot and extends
// the trail. The map image is not touched here: image bytes/URLs resolve
// asynchronously and commit through SetMapImage once decoded.
func (sc *Scene) Apply(s Snapshot) {
	sc.Robot = s.Robot
	sc.StatusText = s.StatusText
	sc.LastUpdate = s.ReceivedAt
	sc.Loading = false
	sc.extendTrail(s.Robot)
}

// SetMapImage replaces the map image wholesale. The previous image (or none)
// stays current until this is called, so the view never flickers to blank
// while a new map is in flight.
func (sc *Scene) SetMapImage(img *ebiten.Image) {
	sc.MapImage = img
}

// Trail returns the breadcrumb of recent robot positions in map-space,
// oldest first. The returned slice is owned by the Scene; callers must not
// mutate it.
func (sc *Scene) Trail() orb.LineString {
	return sc.trail
}

func (sc *Scene) extendTrail(p Point) {
	pt := orb.Point{p.X, p.Y}
	if n := len(sc.trail); n > 0 {
		last := sc.trail[n-1]
		dx := pt[0] - last[0]
		dy := pt[1] - last[1]
		if dx*dx+dy*dy < trailMinSpacing*trailMinSpacing {
			return
		}
	}
	sc.trail = append(sc.trail, pt)

	if len(sc.trail) > maxTrailPoints {
		sc.trail = simplify.DouglasPeucker(trailTolerance).Simplify(sc.trail.Clone()).(orb.LineString)
		if over := len(sc.trail) - maxTrailPoints; over > 0 {
			sc.trail = sc.trail[over:]
		}
	}
}
