package easing

import (
	"math"

	"golang.org/x/image/math/f64"
)

const (
	newtonIterations = 8
	newtonEpsilon    = 1e-12
	bisectEpsilon    = 1e-12
	bisectIterations = 64
)

// Bezier is a unit cubic bezier running from (0,0) through P1 and P2 to (1,1).
// X must be non-decreasing along the curve for Ease to be well defined, which
// holds for every preset in this package.
type Bezier struct {
	P1, P2 f64.Vec2

	// polynomial coefficients for x(u) and y(u)
	ax, bx, cx float64
	ay, by, cy float64
}

// NewBezier precomputes the polynomial form of the curve with control points
// (cx0, cy0) and (cx1, cy1).
func NewBezier(cx0, cy0, cx1, cy1 float64) Bezier {
	b := Bezier{
		P1: f64.Vec2{cx0, cy0},
		P2: f64.Vec2{cx1, cy1},
	}
	b.cx = 3 * cx0
	b.bx = 3*(cx1-cx0) - b.cx
	b.ax = 1 - b.cx - b.bx

	b.cy = 3 * cy0
	b.by = 3*(cy1-cy0) - b.cy
	b.ay = 1 - b.cy - b.by
	return b
}

func (b Bezier) sampleX(u float64) float64 {
	return ((b.ax*u+b.bx)*u + b.cx) * u
}

func (b Bezier) sampleY(u float64) float64 {
	return ((b.ay*u+b.by)*u + b.cy) * u
}

func (b Bezier) sampleDX(u float64) float64 {
	return (3*b.ax*u+2*b.bx)*u + b.cx
}

// solveX finds u in [0,1] with x(u) == x. Newton-Raphson first, bisection
// when the derivative vanishes or Newton leaves the unit interval.
func (b Bezier) solveX(x float64) float64 {
	u := x
	for i := 0; i < newtonIterations; i++ {
		dx := b.sampleX(u) - x
		if math.Abs(dx) < newtonEpsilon {
			return u
		}
		d := b.sampleDX(u)
		if math.Abs(d) < 1e-9 {
			break
		}
		next := u - dx/d
		if next < 0 || next > 1 {
			break
		}
		u = next
	}

	lo, hi := 0.0, 1.0
	u = x
	for i := 0; i < bisectIterations; i++ {
		v := b.sampleX(u)
		if math.Abs(v-x) < bisectEpsilon {
			return u
		}
		if v < x {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}

// Ease treats t as the x coordinate and returns the matching y. The ends are
// pinned so Ease(0) == 0 and Ease(1) == 1 exactly.
func (b Bezier) Ease(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return b.sampleY(b.solveX(t))
}

// Func returns the curve as an easing function.
func (b Bezier) Func() Func {
	return b.Ease
}
