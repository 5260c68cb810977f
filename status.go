package vacmap

import (
	"time"

	"go.uber.org/zap"
)

// StatusSink receives the out-of-band status readout: the injected
// equivalent of the timestamp/status/position/error slots a hosting page
// would own. The renderer drives it once per frame from the same scene
// snapshot it draws, so everything a user sees describes one moment.
//
// Implementations must tolerate being called every frame with unchanged
// values.
type StatusSink interface {
	// Status reports the current state text, robot pose, and update time.
	Status(text string, pos Point, ts time.Time)
	// Error shows a banner message.
	Error(msg string)
	// ClearError removes the banner.
	ClearError()
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Status(string, Point, time.Time) {}
func (NopSink) Error(string)                    {}
func (NopSink) ClearError()                     {}

// LogSink writes status changes to a zap logger. Repeated identical values
// are suppressed so per-frame calls don't flood the log.
type LogSink struct {
	log *zap.Logger

	lastText string
	lastPos  Point
	lastTS   time.Time
	lastErr  string
}

// NewLogSink creates a LogSink. A nil logger falls back to zap.NewNop.
func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Status(text string, pos Point, ts time.Time) {
	if text == s.lastText && pos == s.lastPos && ts.Equal(s.lastTS) {
		return
	}
	s.lastText = text
	s.lastPos = pos
	s.lastTS = ts
	s.log.Info("state",
		zap.String("status", text),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Time("updated", ts),
	)
}

func (s *LogSink) Error(msg string) {
	if msg == s.lastErr {
		return
	}
	s.lastErr = msg
	s.log.Warn("ingestion error", zap.String("error", msg))
}

func (s *LogSink) ClearError() {
	if s.lastErr == "" {
		return
	}
	s.lastErr = ""
	s.log.Info("ingestion recovered")
}
