package interp

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Planar and spatial vectors are the x/image float64 vector types.
type (
	Vec2 = f64.Vec2
	Vec3 = f64.Vec3
	Vec4 = f64.Vec4
)

// Quaternion is a rotation. Components follow the (x, y, z, w) convention.
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion is the zero rotation.
var IdentityQuaternion = Quaternion{W: 1}

// AxisAngle returns the rotation of angle radians around axis.
func AxisAngle(axis Vec3, angle float64) Quaternion {
	l := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if l == 0 {
		return IdentityQuaternion
	}
	s := math.Sin(angle/2) / l
	return Quaternion{X: axis[0] * s, Y: axis[1] * s, Z: axis[2] * s, W: math.Cos(angle / 2)}
}

func (q Quaternion) dot(o Quaternion) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

func (q Quaternion) scale(s float64) Quaternion {
	return Quaternion{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

func (q Quaternion) add(o Quaternion) Quaternion {
	return Quaternion{q.X + o.X, q.Y + o.Y, q.Z + o.Z, q.W + o.W}
}

// Normalized returns q scaled to unit length.
func (q Quaternion) Normalized() Quaternion {
	l := math.Sqrt(q.dot(q))
	if l == 0 {
		return IdentityQuaternion
	}
	return q.scale(1 / l)
}

// Polar is a planar angular coordinate. Theta is in radians.
type Polar struct {
	Radius, Theta float64
}

// Spherical is a spatial angular coordinate. Theta is the polar angle and Phi
// the azimuth, both in radians.
type Spherical struct {
	Radius, Theta, Phi float64
}

// RGBA is a color with channels in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// HSVA is a color in hue/saturation/value space. H is in degrees [0,360),
// the other channels in [0,1].
type HSVA struct {
	H, S, V, A float64
}
