package interp

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

type float interface {
	~float32 | ~float64
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Float blends floating point scalars.
func Float[T float](a, b T, t float64) T {
	return T(lerp(float64(a), float64(b), t))
}

// Integer blends integer scalars, rounding to the nearest representable value.
// Overshooting curves saturate at the type's bounds instead of wrapping.
func Integer[T integer](a, b T, t float64) T {
	v := math.Round(lerp(float64(a), float64(b), t))
	lo, hi, top := limits[T]()
	switch {
	case math.IsNaN(v):
		return a
	case v <= lo:
		return T(lo)
	case v >= hi:
		return top
	}
	return T(v)
}

// limits returns the range of T. hi is a float64 upper bound that may round
// up past top for 64-bit types, so values at or above it map to top.
func limits[T integer]() (lo, hi float64, top T) {
	bits := 0
	for v := T(1); v != 0; v <<= 1 {
		bits++
	}
	if ^T(0) < 0 {
		top = T(1)<<(bits-1) - 1
		return -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1) - 1, top
	}
	return 0, math.Ldexp(1, bits) - 1, ^T(0)
}

func LerpVec2(a, b Vec2, t float64) Vec2 {
	return Vec2{lerp(a[0], b[0], t), lerp(a[1], b[1], t)}
}

func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}

func LerpVec4(a, b Vec4, t float64) Vec4 {
	return Vec4{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t), lerp(a[3], b[3], t)}
}

// Slerp rotates along the shortest arc from a to b. The endpoints are
// returned as given, so a key lands exactly on its target.
func Slerp(a, b Quaternion, t float64) Quaternion {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	a, b = a.Normalized(), b.Normalized()
	cos := a.dot(b)
	if cos < 0 {
		b = b.scale(-1)
		cos = -cos
	}
	// nearly parallel, fall back to normalized lerp
	if cos > 0.9995 {
		return a.scale(1 - t).add(b.scale(t)).Normalized()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return a.scale(wa).add(b.scale(wb))
}

func LerpPolar(a, b Polar, t float64) Polar {
	return Polar{Radius: lerp(a.Radius, b.Radius, t), Theta: lerp(a.Theta, b.Theta, t)}
}

func LerpSpherical(a, b Spherical, t float64) Spherical {
	return Spherical{
		Radius: lerp(a.Radius, b.Radius, t),
		Theta:  lerp(a.Theta, b.Theta, t),
		Phi:    lerp(a.Phi, b.Phi, t),
	}
}

// MixRGBA mixes in RGB space; alpha is blended linearly.
func MixRGBA(a, b RGBA, t float64) RGBA {
	c := colorful.Color{R: a.R, G: a.G, B: a.B}.BlendRgb(colorful.Color{R: b.R, G: b.G, B: b.B}, t)
	return RGBA{R: c.R, G: c.G, B: c.B, A: lerp(a.A, b.A, t)}
}

// MixHSVA mixes in HSV space. Hue travels the short way around the wheel
// and is kept in [0,360); saturation, value and alpha blend linearly.
func MixHSVA(a, b HSVA, t float64) HSVA {
	if t >= 1 {
		return b
	}
	delta := math.Mod(b.H-a.H, 360)
	switch {
	case delta > 180:
		delta -= 360
	case delta < -180:
		delta += 360
	}
	h := math.Mod(a.H+delta*t, 360)
	if h < 0 {
		h += 360
	}
	return HSVA{H: h, S: lerp(a.S, b.S, t), V: lerp(a.V, b.V, t), A: lerp(a.A, b.A, t)}
}

// MixColor blends colorful colors in CIE L*a*b*.
func MixColor(a, b colorful.Color, t float64) colorful.Color {
	return a.BlendLab(b, t)
}

func newBuiltinRegistry() *Registry {
	r := NewRegistry()

	Register(r, Func[float64](Float[float64]))
	Register(r, Func[float32](Float[float32]))

	Register(r, Func[int](Integer[int]))
	Register(r, Func[int8](Integer[int8]))
	Register(r, Func[int16](Integer[int16]))
	Register(r, Func[int32](Integer[int32]))
	Register(r, Func[int64](Integer[int64]))
	Register(r, Func[uint](Integer[uint]))
	Register(r, Func[uint8](Integer[uint8]))
	Register(r, Func[uint16](Integer[uint16]))
	Register(r, Func[uint32](Integer[uint32]))
	Register(r, Func[uint64](Integer[uint64]))

	Register(r, Func[Vec2](LerpVec2))
	Register(r, Func[Vec3](LerpVec3))
	Register(r, Func[Vec4](LerpVec4))

	Register(r, Func[Quaternion](Slerp))

	Register(r, Func[Polar](LerpPolar))
	Register(r, Func[Spherical](LerpSpherical))

	Register(r, Func[RGBA](MixRGBA))
	Register(r, Func[HSVA](MixHSVA))
	Register(r, Func[colorful.Color](MixColor))

	return r
}
