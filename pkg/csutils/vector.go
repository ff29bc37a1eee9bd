package csutils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 represents a 3D position
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// QAngle holds pitch (X), yaw (Y) and roll (Z) in degrees
type QAngle = Vector3

// Vec3 converts to an mgl64 vector
func (v Vector3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// VectorFrom converts an mgl64 vector
func VectorFrom(v mgl64.Vec3) Vector3 {
	return Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Add returns v + o
func (v Vector3) Add(o Vector3) Vector3 {
	return VectorFrom(v.Vec3().Add(o.Vec3()))
}

// IsZero reports whether all components are zero
func (v Vector3) IsZero() bool {
	return v == Vector3{}
}

func (v Vector3) array() [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func vectorFrom32(x, y, z float32) Vector3 {
	return Vector3{X: float64(x), Y: float64(y), Z: float64(z)}
}

// AngleVectors returns the forward, right and up unit vectors for the
// given view angles, using the engine's conventions.
func AngleVectors(angles QAngle) (forward, right, up mgl64.Vec3) {
	sp, cp := math.Sincos(mgl64.DegToRad(angles.X))
	sy, cy := math.Sincos(mgl64.DegToRad(angles.Y))
	sr, cr := math.Sincos(mgl64.DegToRad(angles.Z))

	forward = mgl64.Vec3{cp * cy, cp * sy, -sp}
	right = mgl64.Vec3{
		-sr*sp*cy + cr*sy,
		-sr*sp*sy - cr*cy,
		-sr * cp,
	}
	up = mgl64.Vec3{
		cr*sp*cy + sr*sy,
		cr*sp*sy - sr*cy,
		cr * cp,
	}
	return forward, right, up
}
