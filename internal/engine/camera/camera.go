// Package camera provides the viewer camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/hullmesh/pkg/math"
)

// OrbitCamera orbits around a center point in a Z-up world.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Elevation above the XY plane (radians)
	Yaw      float32 // Angle around Z, measured from +X (radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        512.0,
		Pitch:           0.5,
		Yaw:             0.8,
		MinDistance:     16.0,
		MaxDistance:     16384.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := gomath.Cos(float64(c.Pitch))
	offset := math.Vec3{
		X: float32(cp * gomath.Cos(float64(c.Yaw))),
		Y: float32(cp * gomath.Sin(float64(c.Yaw))),
		Z: float32(gomath.Sin(float64(c.Pitch))),
	}
	return c.Center.MA(c.Distance, offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Z: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center point. Forward and right stay in the XY
// plane; up moves along Z.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sin, cos := gomath.Sincos(float64(c.Yaw))
	fwd := math.Vec3{X: float32(-cos), Y: float32(-sin)}
	side := math.Vec3{X: float32(-sin), Y: float32(cos)}

	c.Center = c.Center.
		MA(forward*speed, fwd).
		MA(right*speed, side).
		MA(up*speed, math.Vec3{Z: 1})
}

// FitToBounds centers the camera on a box and backs off far enough to see
// all of it.
func (c *OrbitCamera) FitToBounds(mins, maxs math.Vec3) {
	c.Center = mins.Add(maxs).Scale(0.5)

	radius := maxs.Sub(mins).Length() * 0.5
	c.Distance = max(radius*2, c.MinDistance)
	if c.MaxDistance < c.Distance*4 {
		c.MaxDistance = c.Distance * 4
	}

	c.Pitch = 0.6
	c.Yaw = 0.8
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
