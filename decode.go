package vacmap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// statePayload mirrors the poll endpoint's JSON shape:
//
//	{ "state": "...", "attributes": { "position": {"x":..,"y":..},
//	  "map_url": "...", "map_data": "<base64>", ... } }
//
// Every attribute is optional; unknown attributes are ignored.
type statePayload struct {
	State      string `json:"state"`
	Attributes struct {
		Position *struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"position"`
		MapURL  string `json:"map_url"`
		MapData string `json:"map_data"`
	} `json:"attributes"`
}

// DecodeState decodes one raw state payload into a Snapshot, defaulting each
// field independently: a missing position becomes (0,0) and a missing map
// leaves the previous image in place (empty MapURL and nil MapData). Inline
// map_data that is not valid base64 is treated as absent rather than failing
// the whole update. Only unparseable JSON is an error.
func DecodeState(raw []byte, now time.Time) (Snapshot, error) {
	var p statePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Snapshot{}, fmt.Errorf("decode state: %w", err)
	}

	s := Snapshot{
		StatusText: p.State,
		MapURL:     p.Attributes.MapURL,
		ReceivedAt: now,
	}
	if pos := p.Attributes.Position; pos != nil {
		s.Robot = Point{X: pos.X, Y: pos.Y}
	}
	if p.Attributes.MapData != "" {
		if data, err := base64.StdEncoding.DecodeString(p.Attributes.MapData); err == nil {
			s.MapData = data
		}
	}
	return s, nil
}
