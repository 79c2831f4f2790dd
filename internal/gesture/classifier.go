// Package gesture derives per-frame control signals from hand landmarks.
package gesture

import (
	"math"

	"github.com/ayusman/nebula/internal/detector"
)

// Shape gate bounds in normalized frame space. A detection whose landmark
// bounding box falls outside these limits is rejected before any further
// geometric work: too small means far away or degenerate, too large means
// the detection is probably not an isolated hand (faces trip this), and
// the aspect band rejects smears and partial detections.
// These values are empirically tuned; treat as exact.
const (
	MinBoxSize = 0.08
	MaxBoxSize = 0.55
	MinAspect  = 0.6
	MaxAspect  = 3.2
)

// Grab-strength mapping constants. The mean wrist-to-fingertip distance d
// is mapped to strength by 1 - clamp((d-GrabDistFloor)/GrabDistRange, 0, 1).
const (
	GrabDistFloor = 0.08
	GrabDistRange = 0.22
)

// DefaultPalmFacingThreshold is the angular tolerance, in radians, between
// the palm normal and the camera forward direction.
const DefaultPalmFacingThreshold = 0.35

// Output carries the per-frame signals derived from one landmark set.
// It has no cross-frame state; Valid=false means the shape gate rejected
// the detection and the other fields are zero.
type Output struct {
	// GrabStrength estimates how closed the hand is, in [0,1].
	GrabStrength float64 `json:"grabStrength"`

	// PalmFacing reports whether the palm normal points at the camera
	// within the configured tolerance.
	PalmFacing bool `json:"palmFacing"`

	// HandScale is the index-to-pinky knuckle span, a depth proxy whose
	// frame-to-frame delta drives zoom. Absolute value is meaningless.
	HandScale float64 `json:"handScale"`

	// Valid reports whether the detection passed the shape gate.
	Valid bool `json:"valid"`
}

// Config holds the tunable classifier parameters.
type Config struct {
	// PalmFacingThreshold is the palm-normal tolerance in radians.
	PalmFacingThreshold float64
}

// Classifier turns one landmark set into an Output. It is a pure function
// of its input and is safe for concurrent use.
type Classifier struct {
	cosPalmThreshold float64
}

// NewClassifier creates a Classifier. A zero or negative threshold falls
// back to DefaultPalmFacingThreshold.
func NewClassifier(cfg Config) *Classifier {
	threshold := cfg.PalmFacingThreshold
	if threshold <= 0 {
		threshold = DefaultPalmFacingThreshold
	}
	return &Classifier{
		cosPalmThreshold: math.Cos(threshold),
	}
}

// Classify derives the control signals for one detected hand.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Output {
	if hand == nil || !shapeValid(hand) {
		return Output{}
	}

	return Output{
		GrabStrength: grabStrength(hand),
		PalmFacing:   c.palmFacing(hand),
		HandScale:    handScale(hand),
		Valid:        true,
	}
}

// shapeValid applies the bounding-box gate.
func shapeValid(hand *detector.HandLandmarks) bool {
	w, h := hand.Bounds()
	if w < MinBoxSize || w > MaxBoxSize {
		return false
	}
	if h < MinBoxSize || h > MaxBoxSize {
		return false
	}

	aspect := h / w
	return aspect >= MinAspect && aspect <= MaxAspect
}

// grabStrength maps the mean wrist-to-fingertip distance to [0,1].
// Fingers curled toward the wrist produce values near 1.
func grabStrength(hand *detector.HandLandmarks) float64 {
	wrist := hand.Points[detector.Wrist]

	var sum float64
	for _, tip := range detector.Fingertips {
		sum += detector.Dist(wrist, hand.Points[tip])
	}
	d := sum / float64(len(detector.Fingertips))

	open := (d - GrabDistFloor) / GrabDistRange
	if open < 0 {
		open = 0
	} else if open > 1 {
		open = 1
	}
	return 1 - open
}

// palmFacing checks the palm normal against the camera forward direction
// (0,0,-1) in landmark space. The normal is the cross product of the
// wrist-to-index-knuckle and wrist-to-pinky-knuckle vectors; for a right
// hand in the mirrored selfie frame that normal points away from the
// camera, so it is negated for anything not labeled "Left".
func (c *Classifier) palmFacing(hand *detector.HandLandmarks) bool {
	wrist := hand.Points[detector.Wrist]
	toIndex := hand.Points[detector.IndexMCP].Sub(wrist)
	toPinky := hand.Points[detector.PinkyMCP].Sub(wrist)

	normal := toIndex.Cross(toPinky)
	if hand.Handedness != "Left" {
		normal = detector.Point3D{X: -normal.X, Y: -normal.Y, Z: -normal.Z}
	}

	length := normal.Length()
	if length == 0 {
		return false
	}

	// dot(normal/|normal|, (0,0,-1)) == -normal.Z/|normal|
	return -normal.Z/length > c.cosPalmThreshold
}

// handScale is the knuckle span between the index and pinky MCP joints.
func handScale(hand *detector.HandLandmarks) float64 {
	return detector.Dist(hand.Points[detector.IndexMCP], hand.Points[detector.PinkyMCP])
}
