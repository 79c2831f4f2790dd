package control

import "github.com/ayusman/nebula/internal/scene"

// Per-frame mapping constants. These shape the control feel on top of the
// designer-tunable strengths and are not part of the config surface.
const (
	// motionDamping suppresses overreaction to quick hand twitches.
	motionDamping = 0.65

	// thetaGain and phiGain weight the horizontal and vertical motion
	// components of the orbit response.
	thetaGain = 0.85
	phiGain   = 0.8

	// phiSmoothing low-passes the polar angle so it eases into the pole
	// clamps instead of snapping.
	phiSmoothing = 0.8

	// scaleDeltaLimit hard-clamps the per-frame hand-scale change; spikes
	// beyond it are tracking noise, not zoom intent.
	scaleDeltaLimit = 0.02

	// sceneYawGain and sceneTiltGain weight the scene group's reaction.
	sceneYawGain  = 0.3
	sceneTiltGain = 0.2
)

// Mapper converts one frame of hand motion into camera orbit, zoom, and
// scene rotation. It owns no state; everything it mutates lives in the
// camera and galaxy it is handed.
type Mapper struct {
	tuning Tuning
}

// NewMapper creates a Mapper with the given tuning.
func NewMapper(t Tuning) *Mapper {
	return &Mapper{tuning: t}
}

// SetTuning replaces the mapper's tuning.
func (m *Mapper) SetTuning(t Tuning) {
	m.tuning = t
}

// Apply advances the camera and galaxy from one frame of hand movement.
// cur and last are the smoothed hand positions for this frame and the
// previous one; curScale and lastScale the hand-scale samples. hasScale
// is false when no previous scale sample exists, in which case the zoom
// channel is skipped for this frame.
func (m *Mapper) Apply(cam *scene.OrbitCamera, g *scene.Galaxy, cur, last scene.Vec3, curScale, lastScale float64, hasScale bool) {
	delta := cur.Sub(last).Scale(motionDamping)

	// Horizontal motion orbits the azimuth directly.
	cam.Theta += -delta.X * m.tuning.CameraOrbitStrength * thetaGain

	// Vertical motion eases the polar angle toward a clamped target.
	targetPhi := scene.Clamp(cam.Phi+delta.Y*m.tuning.CameraOrbitStrength*phiGain, scene.MinPhi, scene.MaxPhi)
	cam.Phi = LowPass(cam.Phi, targetPhi, phiSmoothing)

	// Zoom: clamped scale delta -> clamped target radius -> low-passed
	// radius. The two-stage chain absorbs both per-frame noise and
	// overshoot.
	scaleDelta := 0.0
	if hasScale {
		scaleDelta = scene.Clamp(curScale-lastScale, -scaleDeltaLimit, scaleDeltaLimit)
	}
	cam.TargetRadius = scene.Clamp(cam.TargetRadius-scaleDelta*m.tuning.CameraZoomStrength, scene.MinRadius, scene.MaxRadius)
	cam.Radius = LowPass(cam.Radius, cam.TargetRadius, m.tuning.ZoomSmoothing)

	// Scene reaction, independent of the camera move.
	g.Nudge(
		-delta.X*m.tuning.RotationStrength*sceneYawGain,
		delta.Y*m.tuning.RotationStrength*sceneTiltGain,
	)
}
