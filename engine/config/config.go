// Package config reads host settings from PANLAB_* environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/hubastard/panlab/engine/core"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment.
type Config struct {
	Width    int        `envconfig:"PANLAB_WIDTH" default:"1280"`
	Height   int        `envconfig:"PANLAB_HEIGHT" default:"720"`
	Title    string     `envconfig:"PANLAB_TITLE" default:"panlab"`
	VSync    bool       `envconfig:"PANLAB_VSYNC" default:"true"`
	LogLevel slog.Level `envconfig:"PANLAB_LOG_LEVEL" default:"info"`
	// Profile is where a speedscope capture is written on exit when built
	// with -tags profile. Empty disables the dump.
	Profile string `envconfig:"PANLAB_PROFILE"`
}

// Load reads the environment and validates the window size.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("config: window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// Engine returns the run loop's view of the config.
func (c Config) Engine() core.Config {
	return core.Config{Title: c.Title, Width: c.Width, Height: c.Height, VSync: c.VSync}
}
