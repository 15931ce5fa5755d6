// Package easing maps normalized progress to eased progress. Named curves are
// unit cubic beziers with the usual CSS/UI preset coefficients; "back" curves
// overshoot [0,1] on purpose.
package easing

// Func maps progress in [0,1] to eased progress. Implementations must be pure.
type Func func(t float64) float64

// NoEase is the identity curve.
func NoEase(t float64) float64 { return t }

var (
	InSine    = NewBezier(0.47, 0.0, 0.745, 0.715).Func()
	OutSine   = NewBezier(0.39, 0.575, 0.565, 1.0).Func()
	InOutSine = NewBezier(0.445, 0.05, 0.55, 0.95).Func()

	InQuad    = NewBezier(0.55, 0.085, 0.68, 0.53).Func()
	OutQuad   = NewBezier(0.25, 0.46, 0.45, 0.94).Func()
	InOutQuad = NewBezier(0.455, 0.03, 0.515, 0.995).Func()

	InCubic    = NewBezier(0.55, 0.055, 0.675, 0.19).Func()
	OutCubic   = NewBezier(0.215, 0.61, 0.355, 1.0).Func()
	InOutCubic = NewBezier(0.645, 0.045, 0.355, 1.0).Func()

	InQuint    = NewBezier(0.755, 0.05, 0.855, 0.06).Func()
	OutQuint   = NewBezier(0.23, 1.0, 0.32, 1.0).Func()
	InOutQuint = NewBezier(0.86, 0.0, 0.07, 1.0).Func()

	InCirc    = NewBezier(0.6, 0.04, 0.98, 0.335).Func()
	OutCirc   = NewBezier(0.075, 0.82, 0.165, 1.0).Func()
	InOutCirc = NewBezier(0.785, 0.135, 0.15, 0.86).Func()

	InQuart    = NewBezier(0.895, 0.03, 0.685, 0.22).Func()
	OutQuart   = NewBezier(0.165, 0.84, 0.44, 1.0).Func()
	InOutQuart = NewBezier(0.77, 0.0, 0.175, 1.0).Func()

	InExpo    = NewBezier(0.95, 0.05, 0.795, 0.035).Func()
	OutExpo   = NewBezier(0.19, 1.0, 0.22, 1.0).Func()
	InOutExpo = NewBezier(1.0, 0.0, 0.0, 1.0).Func()

	InBack    = NewBezier(0.6, -0.28, 0.735, 0.045).Func()
	OutBack   = NewBezier(0.175, 0.885, 0.3, 1.275).Func()
	InOutBack = NewBezier(0.68, -0.55, 0.265, 1.55).Func()
)

// CSS timing-function keywords.
var (
	Ease      = NewBezier(0.25, 0.1, 0.25, 1.0).Func()
	EaseIn    = NewBezier(0.42, 0.0, 1.0, 1.0).Func()
	EaseOut   = NewBezier(0.0, 0.0, 0.58, 1.0).Func()
	EaseInOut = NewBezier(0.42, 0.0, 0.58, 1.0).Func()
	Linear    = NewBezier(0.0, 0.0, 1.0, 1.0).Func()
)
