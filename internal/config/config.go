// Package config defines daemon configuration and its loading order.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// pointed at by NEBULA_CONFIG, then NEBULA_-prefixed environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/ayusman/nebula/internal/control"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8421".
	Addr string `koanf:"addr"`

	// CameraID selects the webcam device index.
	CameraID int `koanf:"camera_id"`

	// MirrorCamera flips frames horizontally so the feed behaves like a
	// mirror. Hand handedness labels are reported for the mirrored frame.
	MirrorCamera bool `koanf:"mirror_camera"`

	// MotionThreshold is the mean absolute frame difference above which
	// the pipeline switches to the active detection rate.
	MotionThreshold float64 `koanf:"motion_threshold"`

	// IdleFPS and ActiveFPS bound the detection rate.
	IdleFPS   int `koanf:"idle_fps"`
	ActiveFPS int `koanf:"active_fps"`

	// DBPath locates the sqlite database file.
	DBPath string `koanf:"db_path"`

	// StaticDir optionally overrides the embedded viewer assets.
	StaticDir string `koanf:"static_dir"`

	// Control-feel tuning. Each field mirrors a slider in the viewer.
	GrabThreshold       float64 `koanf:"grab_threshold"`
	PalmFacingThreshold float64 `koanf:"palm_facing_threshold"`
	InfluenceRadius     float64 `koanf:"influence_radius"`
	RotationStrength    float64 `koanf:"rotation_strength"`
	PushPullStrength    float64 `koanf:"push_pull_strength"`
	CameraOrbitStrength float64 `koanf:"camera_orbit_strength"`
	CameraZoomStrength  float64 `koanf:"camera_zoom_strength"`
	ZoomSmoothing       float64 `koanf:"zoom_smoothing"`
	TrailFade           float64 `koanf:"trail_fade"`
}

// New returns a Config populated with defaults.
func New() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	t := control.DefaultTuning()
	return &Config{
		Addr:            ":8421",
		CameraID:        0,
		MirrorCamera:    true,
		MotionThreshold: 4.0,
		IdleFPS:         5,
		ActiveFPS:       15,
		DBPath:          filepath.Join(home, ".nebula", "nebula.db"),

		GrabThreshold:       t.GrabThreshold,
		PalmFacingThreshold: t.PalmFacingThreshold,
		InfluenceRadius:     t.InfluenceRadius,
		RotationStrength:    t.RotationStrength,
		PushPullStrength:    t.PushPullStrength,
		CameraOrbitStrength: t.CameraOrbitStrength,
		CameraZoomStrength:  t.CameraZoomStrength,
		ZoomSmoothing:       t.ZoomSmoothing,
		TrailFade:           t.TrailFade,
	}
}

// Tuning collects the control-feel fields into a control.Tuning.
func (c *Config) Tuning() control.Tuning {
	return control.Tuning{
		GrabThreshold:       c.GrabThreshold,
		PalmFacingThreshold: c.PalmFacingThreshold,
		InfluenceRadius:     c.InfluenceRadius,
		RotationStrength:    c.RotationStrength,
		PushPullStrength:    c.PushPullStrength,
		CameraOrbitStrength: c.CameraOrbitStrength,
		CameraZoomStrength:  c.CameraZoomStrength,
		ZoomSmoothing:       c.ZoomSmoothing,
		TrailFade:           c.TrailFade,
	}
}
