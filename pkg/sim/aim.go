package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxPitch keeps the view off the poles.
const MaxPitch = 89.0

// Aim is a first-person view direction in degrees. Yaw 0 looks down +X.
type Aim struct {
	Yaw   float64
	Pitch float64
}

// Front returns the unit view vector.
func (a Aim) Front() mgl64.Vec3 {
	yaw := mgl64.DegToRad(a.Yaw)
	pitch := mgl64.DegToRad(a.Pitch)
	return mgl64.Vec3{
		math.Cos(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw) * math.Cos(pitch),
	}.Normalize()
}

// Turn applies a yaw/pitch delta and clamps pitch.
func (a Aim) Turn(dyaw, dpitch float64) Aim {
	a.Yaw += dyaw
	a.Pitch = mgl64.Clamp(a.Pitch+dpitch, -MaxPitch, MaxPitch)
	return a
}

// AimFrom returns the aim that looks from eye at target.
func AimFrom(eye, target mgl64.Vec3) Aim {
	d := target.Sub(eye)
	if d.Len() == 0 {
		return Aim{}
	}
	d = d.Normalize()
	return Aim{
		Yaw:   mgl64.RadToDeg(math.Atan2(d.Z(), d.X())),
		Pitch: mgl64.Clamp(mgl64.RadToDeg(math.Asin(d.Y())), -MaxPitch, MaxPitch),
	}
}
