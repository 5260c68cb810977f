// Vacmap renders a robot vacuum's live map: pose, trail, and floor plan,
// polled from an HTTP endpoint or pushed over WebSocket or MQTT.
//
// Usage:
//
//	vacmap -endpoint http://vac.local/api/state
//	vacmap -config vacmap.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/driftlock/vacmap"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		endpoint   = flag.String("endpoint", "", "state endpoint URL (overrides config)")
		transport  = flag.String("transport", "", "http, ws, or mqtt (overrides config)")
		follow     = flag.Bool("follow", false, "start with follow mode on")
		debug      = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath, *endpoint, *transport, *follow)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := newSource(cfg)
	if err != nil {
		logger.Fatal("source", zap.Error(err))
	}
	defer src.Close()

	widget := vacmap.NewWidget(vacmap.NewLogSink(logger), logger)
	widget.SetFollow(cfg.Follow)
	widget.ScreenshotDir = cfg.ScreenshotDir
	widget.Renderer().GridSpacing = cfg.Grid.Spacing
	widget.Renderer().ShowGrid = cfg.ShowGrid()

	poller := vacmap.NewPoller(src, widget.Inbox(), logger)
	poller.Interval = cfg.PollInterval.Std()
	go poller.Run(ctx)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("starting",
		zap.String("transport", cfg.Transport),
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("poll_interval", cfg.PollInterval.Std()),
	)
	if err := ebiten.RunGame(&game{Widget: widget, ctx: ctx}); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}

// game wraps the widget so SIGINT/SIGTERM close the window cleanly.
type game struct {
	*vacmap.Widget
	ctx context.Context
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return g.Widget.Update()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

// loadConfig merges the config file, if any, with CLI overrides. Running
// with only -endpoint and no file is the common case.
func loadConfig(path, endpoint, transport string, follow bool) (vacmap.Config, error) {
	cfg := vacmap.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = vacmap.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if transport != "" {
		cfg.Transport = transport
	}
	if follow {
		cfg.Follow = true
	}
	if path == "" && cfg.Endpoint == "" && cfg.Transport != "mqtt" {
		return cfg, fmt.Errorf("no state endpoint: pass -endpoint or -config")
	}
	return cfg, nil
}

func newSource(cfg vacmap.Config) (vacmap.Source, error) {
	switch cfg.Transport {
	case "", "http":
		return vacmap.NewHTTPSource(cfg.Endpoint, nil), nil
	case "ws":
		return vacmap.NewWSSource(cfg.Endpoint, nil), nil
	case "mqtt":
		return vacmap.NewMQTTSource(
			cfg.MQTT.Broker, cfg.MQTT.Topic, cfg.MQTT.ClientID,
			cfg.MQTT.Username, cfg.MQTT.Password)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
