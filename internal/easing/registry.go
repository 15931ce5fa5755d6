package easing

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCurve is returned by ByName for names not in the library.
var ErrUnknownCurve = errors.New("unknown easing curve")

var curves = map[string]Func{
	"noEase": NoEase,

	"inSine":    InSine,
	"outSine":   OutSine,
	"inOutSine": InOutSine,

	"inQuad":    InQuad,
	"outQuad":   OutQuad,
	"inOutQuad": InOutQuad,

	"inCubic":    InCubic,
	"outCubic":   OutCubic,
	"inOutCubic": InOutCubic,

	"inQuint":    InQuint,
	"outQuint":   OutQuint,
	"inOutQuint": InOutQuint,

	"inCirc":    InCirc,
	"outCirc":   OutCirc,
	"inOutCirc": InOutCirc,

	"inQuart":    InQuart,
	"outQuart":   OutQuart,
	"inOutQuart": InOutQuart,

	"inExpo":    InExpo,
	"outExpo":   OutExpo,
	"inOutExpo": InOutExpo,

	"inBack":    InBack,
	"outBack":   OutBack,
	"inOutBack": InOutBack,

	"ease":      Ease,
	"easeIn":    EaseIn,
	"easeOut":   EaseOut,
	"easeInOut": EaseInOut,
	"linear":    Linear,
}

// ByName returns the named curve. The empty name selects NoEase.
func ByName(name string) (Func, error) {
	if name == "" {
		return NoEase, nil
	}
	f, ok := curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return f, nil
}

// Evaluate applies the named curve at t.
func Evaluate(name string, t float64) (float64, error) {
	f, err := ByName(name)
	if err != nil {
		return 0, err
	}
	return f(t), nil
}

// Names lists every registered curve, sorted.
func Names() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
