package scene

import "math"

// MaxTilt bounds the galaxy's X-axis tilt.
const MaxTilt = math.Pi / 3

// Galaxy parameters for the ambient animation the renderer plays back.
const (
	// ambientSpin is the idle Y rotation in radians per second.
	ambientSpin = 0.035
	// wobbleRate is the wobble phase advance in radians per second.
	wobbleRate = 0.5
	// wobbleAmount scales the sinusoidal tilt wobble.
	wobbleAmount = 0.02
)

// Galaxy is the transform state of the controlled scene group. The particle
// cloud itself lives in the renderer; this drives its orientation and the
// drift clock its shader samples.
type Galaxy struct {
	// RotationY is the accumulated Y rotation in radians.
	RotationY float64 `json:"rotationY"`

	// TiltX is the accumulated X tilt, clamped to [-MaxTilt, MaxTilt].
	TiltX float64 `json:"tiltX"`

	// WobblePhase drives a small sinusoidal sway layered on TiltX.
	WobblePhase float64 `json:"wobblePhase"`

	// DriftClock is the particle-drift time accumulator in seconds.
	DriftClock float64 `json:"driftClock"`
}

// NewGalaxy returns a galaxy at rest.
func NewGalaxy() *Galaxy {
	return &Galaxy{}
}

// Advance runs the ambient animation for one frame of dt seconds: slow
// idle spin, wobble phase, and the particle drift clock.
func (g *Galaxy) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	g.RotationY += ambientSpin * dt
	g.WobblePhase += wobbleRate * dt
	g.DriftClock += dt
}

// Nudge applies one frame of hand-driven rotation. The Y axis spins freely;
// the X tilt accumulates within the clamp band.
func (g *Galaxy) Nudge(dy, dTilt float64) {
	g.RotationY += dy
	g.TiltX = Clamp(g.TiltX+dTilt, -MaxTilt, MaxTilt)
}

// EffectiveTilt is the rendered X tilt: the accumulated tilt plus wobble.
func (g *Galaxy) EffectiveTilt() float64 {
	return g.TiltX + math.Sin(g.WobblePhase)*wobbleAmount
}
