// Package control turns per-frame classifier output into smoothed camera
// and scene transforms: a grab state machine with hysteresis feeding a
// motion-to-orbit mapper.
package control

import "github.com/ayusman/nebula/internal/scene"

// ExpSmooth blends prev toward sample by alpha, the recurrence
// smoothed = smoothed*(1-alpha) + sample*alpha.
func ExpSmooth(prev, sample scene.Vec3, alpha float64) scene.Vec3 {
	return prev.Lerp(sample, alpha)
}

// LowPass moves current toward target by factor, a single-pole filter
// evaluated once per frame.
func LowPass(current, target, factor float64) float64 {
	return current + (target-current)*factor
}
