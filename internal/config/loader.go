package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NEBULA_CONFIG is set
//  3. env (prefix NEBULA_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("NEBULA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: NEBULA_ADDR, NEBULA_CAMERA_ID, ...
	// Map env keys like NEBULA_CAMERA_ID -> camera_id (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("NEBULA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "nebula_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.IdleFPS <= 0 || c.ActiveFPS <= 0 {
		return errors.New("idle_fps and active_fps must be positive")
	}
	if c.ActiveFPS < c.IdleFPS {
		return errors.New("active_fps must be at least idle_fps")
	}
	if c.GrabThreshold <= 0 || c.GrabThreshold >= 1 {
		return errors.New("grab_threshold must be in (0, 1)")
	}
	if c.ZoomSmoothing <= 0 || c.ZoomSmoothing > 1 {
		return errors.New("zoom_smoothing must be in (0, 1]")
	}
	return nil
}
