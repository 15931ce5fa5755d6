package storyboard

import (
	"fmt"
	"time"

	"github.com/ivlev/numate/internal/easing"
	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/subject"
)

// TargetKind tells how a key's end value is found.
type TargetKind int

const (
	// TargetValue is a constant captured when the key is authored.
	TargetValue TargetKind = iota
	// TargetLinked reads another subject when the key activates.
	TargetLinked
	// TargetComputed calls a function when the key activates.
	TargetComputed
)

func (k TargetKind) String() string {
	switch k {
	case TargetValue:
		return "value"
	case TargetLinked:
		return "linked"
	case TargetComputed:
		return "computed"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target describes a key's end value. The set of implementations is closed:
// use Value, Linked, Computed or ComputedErr.
type Target[T any] interface {
	Kind() TargetKind
	resolve() (T, error)
}

type valueTarget[T any] struct{ v T }

func (valueTarget[T]) Kind() TargetKind      { return TargetValue }
func (t valueTarget[T]) resolve() (T, error) { return t.v, nil }

type linkedTarget[T any] struct{ s subject.Subject[T] }

func (linkedTarget[T]) Kind() TargetKind { return TargetLinked }

func (t linkedTarget[T]) resolve() (T, error) {
	return snapshot(t.s)
}

// snapshot reads s, surfacing read errors from subjects that can fail.
func snapshot[T any](s subject.Subject[T]) (T, error) {
	if f, ok := s.(subject.Fallible[T]); ok {
		return f.TryGet()
	}
	return s.Get(), nil
}

type computedTarget[T any] struct{ f func() (T, error) }

func (computedTarget[T]) Kind() TargetKind      { return TargetComputed }
func (t computedTarget[T]) resolve() (T, error) { return t.f() }

// Value targets a constant.
func Value[T any](v T) Target[T] {
	return valueTarget[T]{v: v}
}

// Linked targets whatever s holds when the key activates.
func Linked[T any](s subject.Subject[T]) Target[T] {
	return linkedTarget[T]{s: s}
}

// Computed targets the result of f, called once when the key activates.
func Computed[T any](f func() T) Target[T] {
	return computedTarget[T]{f: func() (T, error) { return f(), nil }}
}

// ComputedErr is Computed for functions that can fail. A failure leaves the
// key due; it is retried on the next tick.
func ComputedErr[T any](f func() (T, error)) Target[T] {
	return computedTarget[T]{f: f}
}

// State is a key's position in its lifecycle.
type State int

const (
	Pending State = iota
	Active
	Finished
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Key is one scheduled interpolation of a subject toward a target.
type Key[T any] struct {
	subject  subject.Subject[T]
	target   Target[T]
	lerp     interp.Func[T]
	start    time.Time
	duration time.Duration
	easer    easing.Func
	complete func()

	due      bool
	started  bool
	finished bool

	// nil until the key starts, then fixed
	startValue  *T
	targetValue *T
}

// Eased sets the easing curve. A nil curve restores NoEase.
func (k *Key[T]) Eased(f easing.Func) *Key[T] {
	if f == nil {
		f = easing.NoEase
	}
	k.easer = f
	return k
}

// During replaces the duration given to Add. Like Add it rejects negative
// durations; it has no effect once the key has started.
func (k *Key[T]) During(d time.Duration) (*Key[T], error) {
	if d < 0 {
		return k, fmt.Errorf("storyboard: %w: %v", ErrNegativeDuration, d)
	}
	if !k.started {
		k.duration = d
	}
	return k, nil
}

// Then registers a callback run once, synchronously, when the key finishes.
func (k *Key[T]) Then(f func()) *Key[T] {
	k.complete = f
	return k
}

func (k *Key[T]) Start() time.Time        { return k.start }
func (k *Key[T]) Duration() time.Duration { return k.duration }

// End is the time the key reaches full progress.
func (k *Key[T]) End() time.Time {
	return k.start.Add(k.duration)
}

// Kind reports how the key's target is resolved.
func (k *Key[T]) Kind() TargetKind { return k.target.Kind() }

func (k *Key[T]) Started() bool  { return k.started }
func (k *Key[T]) Finished() bool { return k.finished }

func (k *Key[T]) State() State {
	switch {
	case k.finished:
		return Finished
	case k.started || k.due:
		return Active
	default:
		return Pending
	}
}

// StartValue returns the subject value snapshotted at activation.
func (k *Key[T]) StartValue() (T, bool) {
	if k.startValue == nil {
		var zero T
		return zero, false
	}
	return *k.startValue, true
}

// TargetValue returns the end value resolved at activation.
func (k *Key[T]) TargetValue() (T, bool) {
	if k.targetValue == nil {
		var zero T
		return zero, false
	}
	return *k.targetValue, true
}

// progress is the raw, uneased completion at cursor, clamped to [0,1].
func (k *Key[T]) progress(cursor time.Time) float64 {
	if k.duration <= 0 {
		return 1
	}
	raw := float64(cursor.Sub(k.start)) / float64(k.duration)
	switch {
	case raw < 0:
		return 0
	case raw > 1:
		return 1
	}
	return raw
}

func (k *Key[T]) isDue(cursor time.Time) bool {
	if k.finished {
		return false
	}
	return k.started || k.due || !cursor.Before(k.start)
}

func (k *Key[T]) isFinished() bool { return k.finished }

func (k *Key[T]) step(cursor time.Time) (activated, completed bool, err error) {
	if k.finished {
		return false, false, nil
	}
	if !k.started {
		k.due = true
		from, err := snapshot(k.subject)
		if err != nil {
			return false, false, fmt.Errorf("%w (start value): %w", ErrResolve, err)
		}
		to, err := k.target.resolve()
		if err != nil {
			return false, false, fmt.Errorf("%w (%s target): %w", ErrResolve, k.target.Kind(), err)
		}
		k.startValue, k.targetValue = &from, &to
		k.started = true
		activated = true
	}

	raw := k.progress(cursor)
	k.subject.Set(k.lerp(*k.startValue, *k.targetValue, k.easer(raw)))

	if raw >= 1 {
		k.finished = true
		completed = true
		if k.complete != nil {
			k.complete()
		}
	}
	return activated, completed, nil
}
