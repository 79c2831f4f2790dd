// Package detector provides hand detection interfaces and types for gesture-driven control.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// This indexing is an external contract of the detection pipeline; if the
// upstream model is swapped the anatomical meaning of each slot must hold.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Fingertips lists the five fingertip landmark indices.
var Fingertips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D is a landmark position. X and Y are normalized to the frame
// ([0,1], origin top-left); Z is the model's relative depth estimate.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product of p and q.
func (p Point3D) Cross(q Point3D) Point3D {
	return Point3D{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

// Length returns the Euclidean norm of p.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Dist returns the Euclidean distance between two landmarks.
func Dist(a, b Point3D) float64 {
	return a.Sub(b).Length()
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PalmCenter returns the middle-finger MCP landmark, which serves as the
// palm-center reference for position tracking.
func (h *HandLandmarks) PalmCenter() Point3D {
	return h.Points[MiddleMCP]
}

// Bounds returns the width and height of the axis-aligned bounding box of
// all 21 landmarks in normalized frame space.
func (h *HandLandmarks) Bounds() (width, height float64) {
	minX, maxX := h.Points[0].X, h.Points[0].X
	minY, maxY := h.Points[0].Y, h.Points[0].Y

	for i := 1; i < NumLandmarks; i++ {
		p := h.Points[i]
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	return maxX - minX, maxY - minY
}
