package vacmap

import (
	"context"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// DefaultPollInterval is the fixed delay between ingestion cycles, measured
// from completion of the previous attempt. Slow responses therefore stretch
// the effective period; cycles are never skipped or backed off.
const DefaultPollInterval = 500 * time.Millisecond

// Message is one unit of asynchronously produced scene input, posted to the
// widget's inbox by the ingestion side and applied whole on the game loop.
type Message struct {
	snap     *Snapshot
	img      *ebiten.Image
	imgGen   uint64
	errText  string
	clearErr bool
}

// Poller runs the state ingestion loop: one fetch-decode-post cycle per
// fixed delay, forever. Failures surface as banner messages and never stop
// the loop. Map images resolve on their own goroutines; each started load
// carries a generation number so a superseded load that finishes late is
// dropped instead of overwriting a newer map.
type Poller struct {
	// Interval is the fixed delay between cycles. Zero means
	// DefaultPollInterval.
	Interval time.Duration
	// Client performs map image fetches. Nil means http.DefaultClient.
	Client *http.Client

	source Source
	out    chan<- Message
	log    *zap.Logger
	now    func() time.Time

	lastMapURL string
	nextGen    uint64
}

// NewPoller creates a Poller that feeds the given inbox. A nil logger
// disables logging.
func NewPoller(source Source, out chan<- Message, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		Interval: DefaultPollInterval,
		source:   source,
		out:      out,
		log:      log,
		now:      time.Now,
	}
}

// Run executes cycles until the context is done. The first cycle fires
// immediately; each subsequent cycle fires one interval after the previous
// one completed.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for {
		if ctx.Err() != nil {
			return
		}
		p.cycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// cycle performs one fetch-decode-post pass. Every failure mode lands here:
// it is reported and swallowed so the next cycle fires regardless.
func (p *Poller) cycle(ctx context.Context) {
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("state fetch failed", zap.Error(err))
		p.post(ctx, Message{errText: err.Error()})
		return
	}

	snap, err := DecodeState(raw, p.now())
	if err != nil {
		p.log.Warn("state decode failed", zap.Error(err))
		p.post(ctx, Message{errText: err.Error()})
		return
	}

	p.post(ctx, Message{snap: &snap, clearErr: true})
	p.resolveMap(ctx, snap)
}

// resolveMap commits an inline map immediately or starts an async load when
// the map URL changed. An unchanged URL does nothing: the current image
// stays authoritative.
func (p *Poller) resolveMap(ctx context.Context, snap Snapshot) {
	if snap.MapData != nil {
		gen := p.bumpGen()
		img, err := decodeMapImage(snap.MapData)
		if err != nil {
			p.log.Warn("inline map decode failed", zap.Error(err))
			p.post(ctx, Message{errText: err.Error()})
			return
		}
		p.post(ctx, Message{img: img, imgGen: gen})
		return
	}

	if snap.MapURL == "" || snap.MapURL == p.lastMapURL {
		return
	}
	p.lastMapURL = snap.MapURL

	gen := p.bumpGen()
	url := snap.MapURL
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	go func() {
		data, err := fetchMapImage(ctx, client, url)
		if err == nil {
			var img *ebiten.Image
			img, err = decodeMapImage(data)
			if err == nil {
				p.post(ctx, Message{img: img, imgGen: gen})
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("map image load failed", zap.String("url", url), zap.Error(err))
		p.post(ctx, Message{errText: err.Error()})
	}()
}

func (p *Poller) bumpGen() uint64 {
	p.nextGen++
	return p.nextGen
}

func (p *Poller) post(ctx context.Context, m Message) {
	select {
	case p.out <- m:
	case <-ctx.Done():
	}
}
