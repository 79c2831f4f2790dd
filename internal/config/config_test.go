package config

import (
	"os"
	"path/filepath"
	"testing"
)

var nebulaEnvVars = []string{
	"NEBULA_CONFIG",
	"NEBULA_ADDR",
	"NEBULA_CAMERA_ID",
	"NEBULA_MIRROR_CAMERA",
	"NEBULA_MOTION_THRESHOLD",
	"NEBULA_IDLE_FPS",
	"NEBULA_ACTIVE_FPS",
	"NEBULA_DB_PATH",
	"NEBULA_GRAB_THRESHOLD",
	"NEBULA_ZOOM_SMOOTHING",
	"NEBULA_CAMERA_ORBIT_STRENGTH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range nebulaEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Addr != ":8421" {
		t.Errorf("Addr: got %q, want %q", cfg.Addr, ":8421")
	}
	if cfg.CameraID != 0 {
		t.Errorf("CameraID: got %d, want 0", cfg.CameraID)
	}
	if !cfg.MirrorCamera {
		t.Error("MirrorCamera should default to true")
	}
	if cfg.IdleFPS != 5 || cfg.ActiveFPS != 15 {
		t.Errorf("FPS defaults: got idle=%d active=%d, want 5/15", cfg.IdleFPS, cfg.ActiveFPS)
	}
	if cfg.GrabThreshold != 0.12 {
		t.Errorf("GrabThreshold: got %f, want 0.12", cfg.GrabThreshold)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEBULA_ADDR", ":9000")
	t.Setenv("NEBULA_CAMERA_ID", "2")
	t.Setenv("NEBULA_GRAB_THRESHOLD", "0.2")
	t.Setenv("NEBULA_MIRROR_CAMERA", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("Addr: got %q, want %q", cfg.Addr, ":9000")
	}
	if cfg.CameraID != 2 {
		t.Errorf("CameraID: got %d, want 2", cfg.CameraID)
	}
	if cfg.GrabThreshold != 0.2 {
		t.Errorf("GrabThreshold: got %f, want 0.2", cfg.GrabThreshold)
	}
	if cfg.MirrorCamera {
		t.Error("MirrorCamera should be overridden to false")
	}
	// Untouched fields keep their defaults.
	if cfg.ActiveFPS != 15 {
		t.Errorf("ActiveFPS: got %d, want default 15", cfg.ActiveFPS)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	yamlContent := `
addr: ":7777"
idle_fps: 2
active_fps: 20
zoom_smoothing: 0.4
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("NEBULA_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Addr != ":7777" {
		t.Errorf("Addr: got %q, want %q", cfg.Addr, ":7777")
	}
	if cfg.IdleFPS != 2 || cfg.ActiveFPS != 20 {
		t.Errorf("FPS: got idle=%d active=%d, want 2/20", cfg.IdleFPS, cfg.ActiveFPS)
	}
	if cfg.ZoomSmoothing != 0.4 {
		t.Errorf("ZoomSmoothing: got %f, want 0.4", cfg.ZoomSmoothing)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)

	yamlContent := `
addr: ":7777"
idle_fps: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("NEBULA_CONFIG", path)
	t.Setenv("NEBULA_ADDR", ":8888")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Addr != ":8888" {
		t.Errorf("env should override file: got %q, want %q", cfg.Addr, ":8888")
	}
	if cfg.IdleFPS != 2 {
		t.Errorf("IdleFPS should come from file: got %d, want 2", cfg.IdleFPS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEBULA_CONFIG", "/non/existent/config.yaml")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"empty addr", "NEBULA_ADDR", ""},
		{"zero active fps", "NEBULA_ACTIVE_FPS", "0"},
		{"grab threshold too high", "NEBULA_GRAB_THRESHOLD", "1.5"},
		{"grab threshold zero", "NEBULA_GRAB_THRESHOLD", "0"},
		{"zoom smoothing out of range", "NEBULA_ZOOM_SMOOTHING", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected validation error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_Tuning(t *testing.T) {
	cfg := New()
	cfg.GrabThreshold = 0.3
	cfg.TrailFade = 0.5

	tuning := cfg.Tuning()
	if tuning.GrabThreshold != 0.3 {
		t.Errorf("GrabThreshold: got %f, want 0.3", tuning.GrabThreshold)
	}
	if tuning.TrailFade != 0.5 {
		t.Errorf("TrailFade: got %f, want 0.5", tuning.TrailFade)
	}
	if tuning.InfluenceRadius != 6.0 {
		t.Errorf("InfluenceRadius: got %f, want default 6.0", tuning.InfluenceRadius)
	}
}
