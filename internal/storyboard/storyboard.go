// Package storyboard schedules keyed interpolations against a shared clock.
//
// A storyboard is authored first and ticked afterwards:
//
//	sb := storyboard.New(clock.System)
//	storyboard.Add(sb, subject.Ref(&cam.Zoom), storyboard.Value(2.0), 2*time.Second)
//	sb.Complete()
//	storyboard.Add(sb, subject.Ref(&cam.Zoom), storyboard.Value(1.0), time.Second)
//
//	for !sb.Finished() {
//		if err := sb.Update(); err != nil { ... }
//	}
//
// A Storyboard is not safe for concurrent use. Exactly one task may call
// Update, and the subjects it animates belong to that task while it runs.
package storyboard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ivlev/numate/internal/clock"
	"github.com/ivlev/numate/internal/easing"
	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/subject"
)

var (
	// ErrNegativeDuration rejects keys authored with a duration below zero.
	ErrNegativeDuration = errors.New("negative key duration")
	// ErrResolve wraps a target that failed to resolve at activation.
	ErrResolve = errors.New("resolve key target")
)

// track is the type-erased view of a Key the update loop works with.
type track interface {
	isDue(cursor time.Time) bool
	isFinished() bool
	step(cursor time.Time) (activated, completed bool, err error)
	End() time.Time
	Kind() TargetKind
}

// Storyboard is an ordered set of keys advanced together, one tick per Update.
type Storyboard struct {
	clock    clock.Func
	registry *interp.Registry
	logger   *slog.Logger

	keys       []track
	cursor     time.Time
	finished   bool
	onFinished func()
}

// Option configures a Storyboard.
type Option func(*Storyboard)

// WithRegistry selects the interpolation rules keys are checked against.
func WithRegistry(r *interp.Registry) Option {
	return func(sb *Storyboard) { sb.registry = r }
}

// WithLogger enables debug logging of key and board transitions.
func WithLogger(l *slog.Logger) Option {
	return func(sb *Storyboard) { sb.logger = l }
}

// New returns an empty storyboard whose cursor starts at c().
func New(c clock.Func, opts ...Option) *Storyboard {
	if c == nil {
		c = clock.System
	}
	sb := &Storyboard{
		clock:    c,
		registry: interp.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(sb)
	}
	sb.cursor = sb.clock()
	return sb
}

// Add authors a key that moves s toward target over d, starting at the
// current cursor. Unsupported value types and negative durations are
// rejected here, before anything ticks.
func Add[T any](sb *Storyboard, s subject.Subject[T], target Target[T], d time.Duration) (*Key[T], error) {
	if s == nil {
		return nil, errors.New("storyboard: nil subject")
	}
	if target == nil {
		return nil, errors.New("storyboard: nil target")
	}
	if d < 0 {
		return nil, fmt.Errorf("storyboard: %w: %v", ErrNegativeDuration, d)
	}
	lerp, err := interp.Lookup[T](sb.registry)
	if err != nil {
		return nil, fmt.Errorf("storyboard: %w", err)
	}

	k := &Key[T]{
		subject:  s,
		target:   target,
		lerp:     lerp,
		start:    sb.cursor,
		duration: d,
		easer:    easing.NoEase,
	}
	sb.keys = append(sb.keys, k)
	return k, nil
}

// Now moves the cursor to the clock's current time.
func (sb *Storyboard) Now() {
	sb.cursor = sb.clock()
}

// Complete moves the cursor to the end of the most recently added key, so
// the next key starts when it finishes.
func (sb *Storyboard) Complete() {
	if len(sb.keys) == 0 {
		return
	}
	sb.cursor = sb.keys[len(sb.keys)-1].End()
}

// Delay moves the cursor forward by d.
func (sb *Storyboard) Delay(d time.Duration) {
	if d > 0 {
		sb.cursor = sb.cursor.Add(d)
	}
}

// OnFinished registers a callback run once, on the tick the last key finishes.
func (sb *Storyboard) OnFinished(f func()) {
	sb.onFinished = f
}

// Cursor is the last sampled clock value, or the authoring position before
// the first Update.
func (sb *Storyboard) Cursor() time.Time { return sb.cursor }

// Len is the number of keys.
func (sb *Storyboard) Len() int { return len(sb.keys) }

// Finished reports whether every key has finished. An empty storyboard is
// finished from the start.
func (sb *Storyboard) Finished() bool {
	return sb.finished || len(sb.keys) == 0
}

// End is the latest time any key reaches full progress.
func (sb *Storyboard) End() time.Time {
	var end time.Time
	for i, k := range sb.keys {
		if e := k.End(); i == 0 || e.After(end) {
			end = e
		}
	}
	return end
}

// Update samples the clock and advances every due key in authoring order.
//
// A key whose target fails to resolve does not stop the tick: the remaining
// keys are still processed, and the failures are returned joined. The failing
// key stays due and is retried on the next call. Values written by keys that
// already finished are kept.
func (sb *Storyboard) Update() error {
	if sb.finished {
		return nil
	}
	sb.cursor = sb.clock()

	var errs []error
	for i, k := range sb.keys {
		if !k.isDue(sb.cursor) {
			continue
		}
		activated, completed, err := k.step(sb.cursor)
		if err != nil {
			errs = append(errs, fmt.Errorf("key %d: %w", i, err))
			continue
		}
		if activated {
			sb.logger.Debug("key activated", "key", i, "target", k.Kind())
		}
		if completed {
			sb.logger.Debug("key finished", "key", i)
		}
	}

	if sb.allFinished() {
		sb.finished = true
		if len(sb.keys) > 0 {
			sb.cursor = sb.End()
		}
		sb.logger.Debug("storyboard finished", "keys", len(sb.keys))
		if sb.onFinished != nil {
			sb.onFinished()
		}
	}
	return errors.Join(errs...)
}

func (sb *Storyboard) allFinished() bool {
	for _, k := range sb.keys {
		if !k.isFinished() {
			return false
		}
	}
	return true
}
