package control

import (
	"sync"
	"time"

	"github.com/ayusman/nebula/internal/detector"
	"github.com/ayusman/nebula/internal/gesture"
	"github.com/ayusman/nebula/internal/scene"
)

// State is the grab state of the session.
type State int

const (
	// StateIdle means no hand is holding the scene.
	StateIdle State = iota
	// StateControlling means a grabbed hand is driving camera and scene.
	StateControlling
)

// String returns the lowercase state name.
func (s State) String() string {
	if s == StateControlling {
		return "controlling"
	}
	return "idle"
}

// Transition reports a state change produced by one observed frame.
type Transition int

const (
	// TransitionNone means the state did not change this frame.
	TransitionNone Transition = iota
	// TransitionGrab marks the idle-to-controlling edge.
	TransitionGrab
	// TransitionRelease marks the controlling-to-idle edge.
	TransitionRelease
)

// Session constants.
const (
	// SmoothingAlpha is the exponential smoothing weight for the hand
	// position. It runs on every valid frame, grabbed or not, so a new
	// grab starts from an already jitter-reduced anchor.
	SmoothingAlpha = 0.14

	// HandPlaneDepth is the fixed virtual depth, in world units in front
	// of the camera, at which the 2D palm position is placed.
	HandPlaneDepth = 18.0

	// StaleAfter is how long without a detection before the session
	// reports the feed as stale.
	StaleAfter = time.Second
)

// Session is the per-process interaction state: one hand, one camera, one
// galaxy. The detection pipeline and the broadcast tick run on separate
// goroutines, so all state lives behind one mutex; each entry point is a
// single short critical section.
type Session struct {
	mu     sync.Mutex
	tuning Tuning
	mapper *Mapper
	camera *scene.OrbitCamera
	galaxy *scene.Galaxy

	state State

	// Continuously smoothed hand position; never reset once seeded.
	smoothedHandPos scene.Vec3
	hasSmoothed     bool

	// Previous-frame references for motion and zoom deltas.
	lastHandPos   scene.Vec3
	lastHandScale float64
	hasScale      bool

	// anchor is the smoothed position captured at grab onset. The mapper
	// works frame-to-frame, but the anchor stays available for
	// drag-relative extensions.
	anchor scene.Vec3

	currentHandScale float64
	lastGrabStrength float64
	lastPalmFacing   bool
	lastDetection    time.Time
	lastFrame        time.Time
}

// NewSession creates an idle session with a fresh camera and galaxy.
func NewSession(t Tuning) *Session {
	return &Session{
		tuning: t,
		mapper: NewMapper(t),
		camera: scene.NewOrbitCamera(),
		galaxy: scene.NewGalaxy(),
	}
}

// SetTuning swaps the control tuning at runtime.
func (s *Session) SetTuning(t Tuning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuning = t
	s.mapper.SetTuning(t)
}

// Tuning returns the active tuning.
func (s *Session) Tuning() Tuning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tuning
}

// State returns the current grab state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Observe consumes one classifier frame. palm is the palm-center landmark
// in normalized frame coordinates; now is the frame timestamp. It returns
// the transition this frame produced, if any.
//
// An invalid frame is a hard cutoff: a hand the gate rejected cannot keep
// control, regardless of hysteresis.
func (s *Session) Observe(out gesture.Output, palm detector.Point3D, now time.Time) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !out.Valid {
		s.lastFrame = now
		return s.dropControl()
	}

	s.lastDetection = now
	s.lastGrabStrength = out.GrabStrength
	s.lastPalmFacing = out.PalmFacing
	s.currentHandScale = out.HandScale

	// Position tracking runs on every valid frame regardless of state.
	world := s.camera.Unproject(palm.X, palm.Y, HandPlaneDepth)
	if !s.hasSmoothed {
		s.smoothedHandPos = world
		s.hasSmoothed = true
	} else {
		s.smoothedHandPos = ExpSmooth(s.smoothedHandPos, world, SmoothingAlpha)
	}

	transition := TransitionNone

	switch s.state {
	case StateIdle:
		if out.GrabStrength > s.tuning.GrabThreshold && out.PalmFacing {
			// Grab onset: the just-grabbed position becomes the
			// zero-delta reference so the first controlled frame
			// cannot produce a motion spike.
			s.state = StateControlling
			s.anchor = s.smoothedHandPos
			s.lastHandPos = s.smoothedHandPos
			s.lastHandScale = out.HandScale
			s.hasScale = true
			transition = TransitionGrab
		} else {
			// Keep the delta baselines fresh so the next grab starts
			// clean.
			s.lastHandPos = s.smoothedHandPos
			s.lastHandScale = out.HandScale
			s.hasScale = true
		}

	case StateControlling:
		if out.GrabStrength > s.tuning.ReleaseThreshold() && out.PalmFacing {
			s.mapper.Apply(s.camera, s.galaxy,
				s.smoothedHandPos, s.lastHandPos,
				s.currentHandScale, s.lastHandScale, s.hasScale)
			s.lastHandPos = s.smoothedHandPos
			s.lastHandScale = s.currentHandScale
		} else {
			s.state = StateIdle
			s.lastHandPos = s.smoothedHandPos
			s.lastHandScale = out.HandScale
			transition = TransitionRelease
		}
	}

	s.lastFrame = now
	return transition
}

// NoDetection records a frame with no hand. Absent detection forces Idle
// immediately; there is no hysteresis on the way out.
func (s *Session) NoDetection(now time.Time) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFrame = now
	return s.dropControl()
}

func (s *Session) dropControl() Transition {
	if s.state == StateControlling {
		s.state = StateIdle
		return TransitionRelease
	}
	return TransitionNone
}

// Advance runs the ambient scene animation for dt seconds. Called from the
// broadcast tick, not the detection pipeline.
func (s *Session) Advance(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.galaxy.Advance(dt)
}

// Snapshot is the render-ready view of the session published to clients.
type Snapshot struct {
	Controlling  bool    `json:"controlling"`
	GrabStrength float64 `json:"grabStrength"`
	PalmFacing   bool    `json:"palmFacing"`
	HandScale    float64 `json:"handScale"`

	CameraPosition scene.Vec3 `json:"cameraPosition"`
	CameraTarget   scene.Vec3 `json:"cameraTarget"`
	ViewMatrix     scene.Mat4 `json:"viewMatrix"`
	Theta          float64    `json:"theta"`
	Phi            float64    `json:"phi"`
	Radius         float64    `json:"radius"`

	RotationY   float64 `json:"rotationY"`
	TiltX       float64 `json:"tiltX"`
	WobblePhase float64 `json:"wobblePhase"`
	DriftClock  float64 `json:"driftClock"`
	TrailFade   float64 `json:"trailFade"`

	// Hand proximity effects run in the renderer; it needs the smoothed
	// hand position and the particle-interaction gains.
	HandPosition     scene.Vec3 `json:"handPosition"`
	InfluenceRadius  float64    `json:"influenceRadius"`
	PushPullStrength float64    `json:"pushPullStrength"`

	LastDetection time.Time `json:"lastDetection"`
	TrackingStale bool      `json:"trackingStale"`
}

// Snapshot captures the current view state. The stale flag is relative to
// now so a silent detection feed degrades to a sustained idle view: a feed
// that dies mid-grab cannot keep control, so a stale snapshot reports Idle
// and zero grab strength while holding the last camera pose.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := s.lastDetection.IsZero() || now.Sub(s.lastDetection) > StaleAfter
	if stale {
		s.dropControl()
	}

	grab := s.lastGrabStrength
	facing := s.lastPalmFacing
	if stale {
		grab = 0
		facing = false
	}

	return Snapshot{
		Controlling:  s.state == StateControlling,
		GrabStrength: grab,
		PalmFacing:   facing,
		HandScale:    s.currentHandScale,

		CameraPosition: s.camera.Position(),
		CameraTarget:   s.camera.Target,
		ViewMatrix:     s.camera.ViewMatrix(),
		Theta:          s.camera.Theta,
		Phi:            s.camera.Phi,
		Radius:         s.camera.Radius,

		RotationY:   s.galaxy.RotationY,
		TiltX:       s.galaxy.EffectiveTilt(),
		WobblePhase: s.galaxy.WobblePhase,
		DriftClock:  s.galaxy.DriftClock,
		TrailFade:   s.tuning.TrailFade,

		HandPosition:     s.smoothedHandPos,
		InfluenceRadius:  s.tuning.InfluenceRadius,
		PushPullStrength: s.tuning.PushPullStrength,

		LastDetection: s.lastDetection,
		TrackingStale: stale,
	}
}
