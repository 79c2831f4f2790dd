package scene

import "math"

// Orbit limits. Phi is kept off the poles to prevent gimbal flip; radius
// bounds the zoom range.
const (
	MinPhi    = 0.15
	MaxPhi    = math.Pi - 0.3
	MinRadius = 10.0
	MaxRadius = 40.0
)

// Default orbit pose.
const (
	defaultPhi    = 1.1
	defaultRadius = 24.0
	defaultFOV    = 60.0
	defaultAspect = 16.0 / 9.0
)

// OrbitCamera is a camera on a sphere around a fixed look-at target.
// Theta is the azimuth, Phi the polar angle measured from +Y.
type OrbitCamera struct {
	Theta        float64
	Phi          float64
	Radius       float64
	TargetRadius float64
	Target       Vec3

	// FOV is the vertical field of view in degrees; Aspect is width/height.
	// Both must match the renderer for Unproject to land where the user's
	// hand appears on screen.
	FOV    float64
	Aspect float64
}

// NewOrbitCamera creates a camera at the default pose looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Phi:          defaultPhi,
		Radius:       defaultRadius,
		TargetRadius: defaultRadius,
		FOV:          defaultFOV,
		Aspect:       defaultAspect,
	}
}

// Position returns the camera's world position from its spherical pose.
func (c *OrbitCamera) Position() Vec3 {
	sinPhi := math.Sin(c.Phi)
	return Vec3{
		X: c.Target.X + c.Radius*sinPhi*math.Sin(c.Theta),
		Y: c.Target.Y + c.Radius*math.Cos(c.Phi),
		Z: c.Target.Z + c.Radius*sinPhi*math.Cos(c.Theta),
	}
}

// ViewMatrix returns the column-major look-at matrix for the current pose.
func (c *OrbitCamera) ViewMatrix() Mat4 {
	return LookAt(c.Position(), c.Target, Vec3{Y: 1})
}

// Unproject maps a normalized frame coordinate (x,y in [0,1], origin
// top-left) to the world point at the given depth in front of the camera.
// The fixed-depth plane stands in for the unknown true hand distance.
func (c *OrbitCamera) Unproject(nx, ny, depth float64) Vec3 {
	// Normalized frame -> NDC: x right, y up, both in [-1,1].
	ndcX := nx*2 - 1
	ndcY := -(ny*2 - 1)

	pos := c.Position()
	forward := c.Target.Sub(pos).Normalize()
	right := forward.Cross(Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)

	halfH := depth * math.Tan(c.FOV*math.Pi/360)
	halfW := halfH * c.Aspect

	return pos.
		Add(forward.Scale(depth)).
		Add(right.Scale(ndcX * halfW)).
		Add(up.Scale(ndcY * halfH))
}
