package control

// Tuning is the designer-facing control surface. Every field is a plain
// multiplier or threshold; none is derived from another.
type Tuning struct {
	// GrabThreshold is the grab strength above which an idle hand takes
	// control. The release bar sits at 70% of this value (hysteresis).
	GrabThreshold float64 `json:"grabThreshold"`

	// PalmFacingThreshold is the palm-normal tolerance in radians,
	// consumed by the classifier.
	PalmFacingThreshold float64 `json:"palmFacingThreshold"`

	// InfluenceRadius is the hand-proximity particle effect radius,
	// applied by the renderer.
	InfluenceRadius float64 `json:"influenceRadius"`

	// RotationStrength scales the scene group's reaction to hand motion.
	RotationStrength float64 `json:"rotationStrength"`

	// PushPullStrength scales depth-driven particle push/pull in the
	// renderer.
	PushPullStrength float64 `json:"pushPullStrength"`

	// CameraOrbitStrength scales hand motion into orbit angle change.
	CameraOrbitStrength float64 `json:"cameraOrbitStrength"`

	// CameraZoomStrength scales hand-scale change into zoom distance.
	CameraZoomStrength float64 `json:"cameraZoomStrength"`

	// ZoomSmoothing is the per-frame low-pass factor pulling the camera
	// radius toward its target.
	ZoomSmoothing float64 `json:"zoomSmoothing"`

	// TrailFade is forwarded to the renderer for particle trail decay.
	TrailFade float64 `json:"trailFade"`
}

// releaseRatio sets the release bar relative to GrabThreshold. The gap is
// the hysteresis band that stops flicker at the grab boundary.
const releaseRatio = 0.7

// DefaultTuning returns the shipped control feel.
func DefaultTuning() Tuning {
	return Tuning{
		GrabThreshold:       0.12,
		PalmFacingThreshold: 0.35,
		InfluenceRadius:     6.0,
		RotationStrength:    1.1,
		PushPullStrength:    4.0,
		CameraOrbitStrength: 2.4,
		CameraZoomStrength:  8.5,
		ZoomSmoothing:       0.22,
		TrailFade:           0.92,
	}
}

// ReleaseThreshold is the grab strength below which control is released.
func (t Tuning) ReleaseThreshold() float64 {
	return t.GrabThreshold * releaseRatio
}
