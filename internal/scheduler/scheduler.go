// Package scheduler provides the suspension point between storyboard ticks.
package scheduler

import (
	"context"
	"runtime"
	"time"
)

// DefaultInterval is the pause between ticks when no frame driver exists.
const DefaultInterval = 25 * time.Millisecond

// Scheduler suspends a ticking task until its next tick. Yield returns the
// context error once ctx is cancelled; a cancelled task stops there.
type Scheduler interface {
	Yield(ctx context.Context) error
}

// Interval sleeps a fixed duration between ticks.
type Interval struct {
	d time.Duration
}

// NewInterval returns an Interval of d, or DefaultInterval when d <= 0.
func NewInterval(d time.Duration) *Interval {
	if d <= 0 {
		d = DefaultInterval
	}
	return &Interval{d: d}
}

// Every reports the pause between ticks.
func (i *Interval) Every() time.Duration { return i.d }

func (i *Interval) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(i.d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Frames ticks once per signal from an external per-frame driver. A closed
// channel ends every task waiting on it.
type Frames struct {
	c <-chan struct{}
}

// NewFrames wraps a frame signal channel.
func NewFrames(c <-chan struct{}) *Frames {
	return &Frames{c: c}
}

func (f *Frames) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-f.c:
		if !ok {
			return context.Canceled
		}
		return nil
	}
}

// Immediate hands the processor to other goroutines and returns at once.
type Immediate struct{}

func (Immediate) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return ctx.Err()
}
