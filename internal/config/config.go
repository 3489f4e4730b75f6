package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             int     `envconfig:"PORT" default:"8080"`
	BaseURL          string  `envconfig:"BASE_URL" default:"http://localhost:8080"`
	CanvasSize       int     `envconfig:"CANVAS_SIZE" default:"380"`
	CanvasPadding    float64 `envconfig:"CANVAS_PADDING" default:"20"`
	GridSize         int     `envconfig:"GRID_SIZE" default:"14"`
	ShapesPerDay     int     `envconfig:"SHAPES_PER_DAY" default:"3"`
	AttemptsPerShape int     `envconfig:"ATTEMPTS_PER_SHAPE" default:"2"`
	Timezone         string  `envconfig:"TIMEZONE" default:"UTC"`
	LogLevel         string  `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins   string  `envconfig:"ALLOWED_ORIGINS" default:"localhost:8080"`
	SubtractHoles    bool    `envconfig:"SUBTRACT_HOLES" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.CanvasSize <= 0 {
		return fmt.Errorf("CANVAS_SIZE must be positive, got %d", c.CanvasSize)
	}
	if c.CanvasPadding < 0 || 2*c.CanvasPadding >= float64(c.CanvasSize) {
		return fmt.Errorf("CANVAS_PADDING %v does not fit a %d canvas", c.CanvasPadding, c.CanvasSize)
	}
	if c.ShapesPerDay <= 0 || c.AttemptsPerShape <= 0 {
		return fmt.Errorf("SHAPES_PER_DAY and ATTEMPTS_PER_SHAPE must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location is the timezone that decides when a new daily puzzle starts.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Level parses LOG_LEVEL.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// Origins splits ALLOWED_ORIGINS into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
