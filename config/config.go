// Package config loads the area, sensor layout and per-channel algorithm
// choice from a gcfg file, with environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/joho/godotenv"
	"gopkg.in/gcfg.v1"

	"github.com/flywave/go-heatgrid"
	"github.com/flywave/go-heatgrid/roster"
)

type AreaConfig struct {
	Width, Height float64
	// Accuracy is the heat-map cell size in grid units.
	Accuracy float64
}

type EngineConfig struct {
	Workers     int
	LogLevel    string
	MetricsFile string
}

type SensorConfig struct {
	X, Y float64
}

type ChannelConfig struct {
	Algorithm string
	Model     string
	Power     int
}

type Config struct {
	Area    AreaConfig
	Engine  EngineConfig
	Sensor  map[string]*SensorConfig
	Channel map[string]*ChannelConfig
}

func Default() *Config {
	return &Config{
		Area:   AreaConfig{Width: 500, Height: 500, Accuracy: 10},
		Engine: EngineConfig{LogLevel: "info"},
	}
}

// Load reads the file named by path, or by HEATGRID_CONFIG when path is
// empty, over the defaults. Without either only the defaults and the
// environment apply.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if path == "" {
		path = getEnv("HEATGRID_CONFIG", "")
	}

	cfg := Default()
	if path != "" {
		if err := gcfg.ReadFileInto(cfg, path); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads a configuration from text over the defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, err
	}
	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Engine.Workers = getEnvAsInt("HEATGRID_WORKERS", c.Engine.Workers)
	c.Engine.LogLevel = getEnv("HEATGRID_LOG_LEVEL", c.Engine.LogLevel)
	c.Engine.MetricsFile = getEnv("HEATGRID_METRICS_FILE", c.Engine.MetricsFile)
}

// CheckInit validates the configuration and fills in channel defaults.
func (c *Config) CheckInit() error {
	if err := c.GridSpec().Validate(); err != nil {
		return fmt.Errorf("area: %w", err)
	}
	if c.Area.Width == 0 || c.Area.Height == 0 {
		return fmt.Errorf("area must have a positive width and height, got %gx%g", c.Area.Width, c.Area.Height)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine workers must not be negative, got %d", c.Engine.Workers)
	}
	if _, err := parseLevel(c.Engine.LogLevel); err != nil {
		return err
	}

	for name, s := range c.Sensor {
		if s.X < 0 || s.X > c.Area.Width || s.Y < 0 || s.Y > c.Area.Height {
			return fmt.Errorf(
				"sensor '%s' at (%g, %g) lies outside the %gx%g area",
				name, s.X, s.Y, c.Area.Width, c.Area.Height,
			)
		}
	}

	if c.Channel == nil {
		c.Channel = map[string]*ChannelConfig{}
	}
	for name := range c.Channel {
		if _, err := roster.ParseChannel(name); err != nil {
			return err
		}
	}
	for _, ch := range roster.Channels {
		cc, ok := c.Channel[string(ch)]
		if !ok {
			cc = &ChannelConfig{}
			c.Channel[string(ch)] = cc
		}
		cc.setDefaults()
		if _, err := cc.algorithm(); err != nil {
			return fmt.Errorf("channel '%s': %w", ch, err)
		}
	}
	return nil
}

func (cc *ChannelConfig) setDefaults() {
	if cc.Algorithm == "" {
		cc.Algorithm = "kriging"
	}
	if cc.Model == "" {
		cc.Model = string(heatgrid.Exponential)
	}
	if cc.Power == 0 {
		cc.Power = int(heatgrid.Triple)
	}
}

func (cc *ChannelConfig) algorithm() (heatgrid.Algorithm, error) {
	return heatgrid.ParseAlgorithm(cc.Algorithm, cc.Model, cc.Power)
}

func (c *Config) GridSpec() heatgrid.GridSpec {
	return heatgrid.GridSpec{Width: c.Area.Width, Height: c.Area.Height, CellSize: c.Area.Accuracy}
}

func (c *Config) AreaRect() vec2d.Rect {
	return c.GridSpec().Area()
}

func (c *Config) Algorithm(ch roster.Channel) (heatgrid.Algorithm, error) {
	cc, ok := c.Channel[string(ch)]
	if !ok {
		return nil, fmt.Errorf("no configuration for channel '%s'", ch)
	}
	return cc.algorithm()
}

// Sensors returns the configured sensors ordered by name, without readings.
func (c *Config) Sensors() []roster.Sensor {
	ret := make([]roster.Sensor, 0, len(c.Sensor))
	for name, s := range c.Sensor {
		ret = append(ret, roster.Sensor{Name: name, Position: vec2d.T{s.X, s.Y}})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Engine.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
