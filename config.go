package vacmap

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full viewer configuration, loaded from a YAML file.
type Config struct {
	// Endpoint is the state URL: an HTTP(S) URL for polling, a ws(s) URL
	// for a push stream. Unused for the mqtt transport.
	Endpoint string `yaml:"endpoint"`
	// Transport selects the state source: "http", "ws", or "mqtt".
	// Empty means http.
	Transport string `yaml:"transport"`
	// PollInterval is the fixed delay between ingestion cycles. Zero means
	// 500ms.
	PollInterval Duration `yaml:"poll_interval"`

	MQTT   MQTTConfig   `yaml:"mqtt"`
	Window WindowConfig `yaml:"window"`
	Grid   GridConfig   `yaml:"grid"`

	// Follow starts the viewer with follow mode on.
	Follow bool `yaml:"follow"`
	// ScreenshotDir is where the S key writes PNG captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// Duration wraps time.Duration so YAML accepts Go duration strings like
// "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("poll_interval: want a duration string like \"500ms\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("poll_interval: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MQTTConfig configures the mqtt transport.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WindowConfig sizes and titles the viewer window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// GridConfig controls the background grid.
type GridConfig struct {
	Spacing float64 `yaml:"spacing"`
	Show    *bool   `yaml:"show"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Transport:    "http",
		PollInterval: Duration(DefaultPollInterval),
		MQTT:         MQTTConfig{ClientID: "vacmap"},
		Window:       WindowConfig{Width: 800, Height: 600, Title: "vacmap"},
		Grid:         GridConfig{Spacing: DefaultGridSpacing},
	}
}

// LoadConfig reads and validates a YAML config file, applying defaults for
// anything left unset.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Transport {
	case "", "http", "ws":
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for the %s transport", orHTTP(c.Transport))
		}
	case "mqtt":
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required")
		}
		if c.MQTT.Topic == "" {
			return fmt.Errorf("mqtt.topic is required")
		}
	default:
		return fmt.Errorf("unknown transport %q (want http, ws, or mqtt)", c.Transport)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Transport == "" {
		c.Transport = "http"
	}
	if c.PollInterval == 0 {
		c.PollInterval = Duration(DefaultPollInterval)
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "vacmap"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 800
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 600
	}
	if c.Window.Title == "" {
		c.Window.Title = "vacmap"
	}
	if c.Grid.Spacing <= 0 {
		c.Grid.Spacing = DefaultGridSpacing
	}
}

// ShowGrid reports the configured grid visibility, defaulting to on.
func (c *Config) ShowGrid() bool {
	return c.Grid.Show == nil || *c.Grid.Show
}

func orHTTP(transport string) string {
	if transport == "" {
		return "http"
	}
	return transport
}
