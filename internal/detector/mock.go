package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to script the detection results frame by frame.
type MockDetector struct {
	hands [][]HandLandmarks
	next  int
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets a single result that Detect returns for every frame.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = [][]HandLandmarks{hands}
	m.next = 0
}

// SetSequence sets per-frame results; Detect returns them in order and
// repeats the last entry once exhausted.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.hands = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.hands) == 0 {
		return nil, nil
	}
	i := m.next
	if i >= len(m.hands) {
		i = len(m.hands) - 1
	} else {
		m.next++
	}
	return m.hands[i], nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a right hand with all fingers extended and the
// palm facing the camera, as seen in a mirrored selfie frame (thumb and
// index on the left of the pinky). Grab strength classifies near zero.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb extended out to the left
	lm.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.76, Z: 0.01}
	lm.Points[ThumbMCP] = Point3D{X: 0.41, Y: 0.71, Z: 0.01}
	lm.Points[ThumbIP] = Point3D{X: 0.38, Y: 0.66, Z: 0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.35, Y: 0.62, Z: 0.01}

	// Index finger extended upward
	lm.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.62, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.43, Y: 0.52, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.425, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.42, Y: 0.38, Z: 0.0}

	// Middle finger extended upward (longest)
	lm.Points[MiddleMCP] = Point3D{X: 0.49, Y: 0.60, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.49, Y: 0.49, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.41, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.49, Y: 0.33, Z: 0.0}

	// Ring finger extended upward
	lm.Points[RingMCP] = Point3D{X: 0.54, Y: 0.62, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.545, Y: 0.52, Z: 0.0}
	lm.Points[RingDIP] = Point3D{X: 0.55, Y: 0.44, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.55, Y: 0.37, Z: 0.0}

	// Pinky extended upward
	lm.Points[PinkyMCP] = Point3D{X: 0.56, Y: 0.64, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.57, Y: 0.56, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.575, Y: 0.50, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}

	return lm
}

// ClosedFistLandmarks returns a right hand with all fingertips curled in
// toward the wrist, palm facing the camera. Grab strength classifies near 1.
func ClosedFistLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.93,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb folded across the palm
	lm.Points[ThumbCMC] = Point3D{X: 0.46, Y: 0.77, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.41, Y: 0.72, Z: -0.01}
	lm.Points[ThumbIP] = Point3D{X: 0.43, Y: 0.73, Z: -0.02}
	lm.Points[ThumbTip] = Point3D{X: 0.45, Y: 0.75, Z: -0.02}

	// Index curled: knuckle forward, tip back near the wrist
	lm.Points[IndexMCP] = Point3D{X: 0.44, Y: 0.64, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.44, Y: 0.58, Z: -0.02}
	lm.Points[IndexDIP] = Point3D{X: 0.45, Y: 0.63, Z: -0.04}
	lm.Points[IndexTip] = Point3D{X: 0.46, Y: 0.72, Z: -0.03}

	// Middle curled
	lm.Points[MiddleMCP] = Point3D{X: 0.49, Y: 0.63, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.49, Y: 0.58, Z: -0.02}
	lm.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.62, Z: -0.04}
	lm.Points[MiddleTip] = Point3D{X: 0.49, Y: 0.71, Z: -0.03}

	// Ring curled
	lm.Points[RingMCP] = Point3D{X: 0.53, Y: 0.64, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.53, Y: 0.59, Z: -0.02}
	lm.Points[RingDIP] = Point3D{X: 0.52, Y: 0.63, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.52, Y: 0.72, Z: -0.03}

	// Pinky curled
	lm.Points[PinkyMCP] = Point3D{X: 0.56, Y: 0.66, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.56, Y: 0.61, Z: -0.02}
	lm.Points[PinkyDIP] = Point3D{X: 0.55, Y: 0.65, Z: -0.03}
	lm.Points[PinkyTip] = Point3D{X: 0.55, Y: 0.73, Z: -0.02}

	return lm
}

// BoxedHandLandmarks rescales the open-palm fixture so its bounding box is
// exactly w by h centered at (cx, cy). Used to exercise the shape gate with
// precise box dimensions.
func BoxedHandLandmarks(cx, cy, w, h float64) HandLandmarks {
	lm := OpenPalmLandmarks()

	bw, bh := lm.Bounds()
	minX, minY := lm.Points[0].X, lm.Points[0].Y
	for _, p := range lm.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
	}

	for i := range lm.Points {
		fx := (lm.Points[i].X - minX) / bw
		fy := (lm.Points[i].Y - minY) / bh
		lm.Points[i].X = cx - w/2 + fx*w
		lm.Points[i].Y = cy - h/2 + fy*h
	}

	return lm
}
