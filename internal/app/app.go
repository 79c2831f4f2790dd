// Package app wires the capture, detection, and control layers into the
// Nebula tracking daemon.
package app

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/ayusman/nebula/internal/capture"
	"github.com/ayusman/nebula/internal/control"
	"github.com/ayusman/nebula/internal/detector"
	"github.com/ayusman/nebula/internal/gesture"
	"github.com/ayusman/nebula/internal/store"
)

// Pipeline timing defaults.
const (
	// DefaultIdleFPS is the frame rate when no motion is detected.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate during active tracking.
	DefaultActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without motion before
	// switching back to the idle rate.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MirrorCamera bool
	MotionThresh float64
	IdleFPS      int
	ActiveFPS    int
	Tuning       control.Tuning
}

// App orchestrates the tracking pipeline: camera frames in, camera pose
// and scene transform out.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier
	session    *control.Session
	recorder   *Recorder
	enabled    bool
	onState    func(control.State)
	mu         sync.RWMutex
	stopCh     chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID, config.MirrorCamera),
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: gesture.NewClassifier(gesture.Config{PalmFacingThreshold: config.Tuning.PalmFacingThreshold}),
		session:    control.NewSession(config.Tuning),
		enabled:    false,
		stopCh:     nil,
	}

	if config.Store != nil {
		a.recorder = NewRecorder(config.Store.Recordings())

		// A tuning applied in a previous run wins over the config file.
		if raw, err := config.Store.Settings().Get(store.SettingActiveTuning); err == nil {
			var saved control.Tuning
			if err := json.Unmarshal([]byte(raw), &saved); err == nil {
				a.classifier = gesture.NewClassifier(gesture.Config{PalmFacingThreshold: saved.PalmFacingThreshold})
				a.session = control.NewSession(saved)
			}
		}
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables hand tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnStateChange sets a callback invoked with the new grab state on every
// grab and release transition. Used by the tray to keep its state line
// current.
func (a *App) OnStateChange(fn func(control.State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onState = fn
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetTuning swaps the control tuning at runtime. The classifier is rebuilt
// because the palm facing threshold is baked into it. The tuning is also
// persisted so the next run starts with the same control feel.
func (a *App) SetTuning(t control.Tuning) {
	a.mu.Lock()
	a.classifier = gesture.NewClassifier(gesture.Config{PalmFacingThreshold: t.PalmFacingThreshold})
	a.mu.Unlock()

	a.session.SetTuning(t)

	if a.config.Store != nil {
		raw, err := json.Marshal(t)
		if err == nil {
			err = a.config.Store.Settings().Set(store.SettingActiveTuning, string(raw))
		}
		if err != nil {
			log.Printf("Error persisting tuning: %v", err)
		}
	}
}

// Tuning returns the active control tuning.
func (a *App) Tuning() control.Tuning {
	return a.session.Tuning()
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(a.config.IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	if a.recorder != nil {
		if err := a.recorder.Stop(); err != nil {
			log.Printf("Error stopping recorder: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// Advance steps the ambient scene animation by dt seconds. The broadcast
// tick drives this between detections so the galaxy keeps drifting.
func (a *App) Advance(dt float64) {
	a.session.Advance(dt)
}

// Snapshot returns the current render state.
func (a *App) Snapshot(now time.Time) control.Snapshot {
	return a.session.Snapshot(now)
}

// Session returns the control session.
func (a *App) Session() *control.Session {
	return a.session
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Recorder returns the landmark recorder, or nil when no store is attached.
func (a *App) Recorder() *Recorder {
	return a.recorder
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

func (a *App) classify(hand *detector.HandLandmarks) gesture.Output {
	a.mu.RLock()
	c := a.classifier
	a.mu.RUnlock()
	return c.Classify(hand)
}
