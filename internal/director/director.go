// Package director runs storyboards as cancellable ticking tasks.
//
// A Director owns one background task. Every storyboard launched through it
// ticks in a task that belongs to the same group, so Cancel stops all of them
// at their next suspension point. Launching after a Cancel transparently
// starts a fresh background task.
package director

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/numate/internal/clock"
	"github.com/ivlev/numate/internal/interp"
	"github.com/ivlev/numate/internal/scheduler"
	"github.com/ivlev/numate/internal/storyboard"
)

// BuildFunc authors the keys of a fresh storyboard.
type BuildFunc func(sb *storyboard.Storyboard) error

// ErrorPolicy decides what a ticking task does with a failed Update. A nil
// return keeps ticking; anything else stops the task and is reported by Wait.
type ErrorPolicy func(sb *storyboard.Storyboard, err error) error

// StopOnError ends the ticking task on the first failed Update.
func StopOnError(_ *storyboard.Storyboard, err error) error {
	return err
}

// Director is a restartable, cancellable group of ticking storyboards.
type Director struct {
	parent   context.Context
	sched    scheduler.Scheduler
	clock    clock.Func
	registry *interp.Registry
	logger   *slog.Logger
	policy   ErrorPolicy
	onTick   func(sb *storyboard.Storyboard)

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	group    *errgroup.Group
	launches int
}

// Option configures a Director.
type Option func(*Director)

// WithClock sets the clock storyboards sample. Defaults to the wall clock.
func WithClock(c clock.Func) Option {
	return func(d *Director) { d.clock = c }
}

// WithRegistry sets the interpolation rules storyboards are built with.
func WithRegistry(r *interp.Registry) Option {
	return func(d *Director) { d.registry = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Director) { d.logger = l }
}

// WithErrorPolicy replaces the default policy, which logs and keeps ticking.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(d *Director) { d.policy = p }
}

// OnTick registers a hook run on the ticking task after every Update. It is
// the place to read animated values without extra locking.
func OnTick(f func(sb *storyboard.Storyboard)) Option {
	return func(d *Director) { d.onTick = f }
}

// New creates a Director whose tasks are children of parent and start its
// background task.
func New(parent context.Context, sched scheduler.Scheduler, opts ...Option) *Director {
	if parent == nil {
		parent = context.Background()
	}
	if sched == nil {
		sched = scheduler.NewInterval(scheduler.DefaultInterval)
	}
	d := &Director{
		parent:   parent,
		sched:    sched,
		clock:    clock.System,
		registry: interp.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.policy == nil {
		d.policy = d.logAndContinue
	}

	d.mu.Lock()
	d.launch()
	d.mu.Unlock()
	return d
}

// launch starts a background task in a new group. d.mu must be held.
func (d *Director) launch() {
	ctx, cancel := context.WithCancel(d.parent)
	g := new(errgroup.Group)
	g.Go(func() error {
		// parked until cancelled; keeps the group alive between storyboards
		<-ctx.Done()
		return nil
	})
	d.ctx, d.cancel, d.group = ctx, cancel, g
	d.launches++
}

// Storyboard builds a storyboard and ticks it on a new task until it
// finishes. With loop set, each finished storyboard is replaced by a fresh
// one from build, so every iteration resolves its keys anew; this goes on
// until the Director is cancelled. The first storyboard is returned; it
// belongs to the ticking task from then on and must only be touched from
// OnTick or from callbacks registered by build.
func (d *Director) Storyboard(loop bool, build BuildFunc) (*storyboard.Storyboard, error) {
	if build == nil {
		return nil, errors.New("director: nil build func")
	}

	sb, err := d.build(build)
	if err != nil {
		return nil, err
	}

	// the task joins the group under mu so that a concurrent Cancel and Wait
	// either sees it or forces a fresh group
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx.Err() != nil {
		d.launch()
		d.logger.Debug("background task relaunched", "launches", d.launches)
	}
	ctx := d.ctx
	d.group.Go(func() error {
		return d.run(ctx, sb, loop, build)
	})
	return sb, nil
}

// Cancel stops the background task and every ticking task launched under
// it. A task in the middle of an Update finishes that Update first; after
// Cancel followed by Wait no Update runs.
func (d *Director) Cancel() {
	d.mu.Lock()
	d.cancel()
	d.mu.Unlock()
}

// Cancelled reports whether the current background task has stopped.
func (d *Director) Cancelled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctx.Err() != nil
}

// Wait blocks until the current group has stopped, which happens only after
// Cancel (or cancellation of the parent context), and returns the first
// error a ticking task stopped with.
func (d *Director) Wait() error {
	d.mu.Lock()
	g := d.group
	d.mu.Unlock()
	return g.Wait()
}

func (d *Director) build(build BuildFunc) (*storyboard.Storyboard, error) {
	sb := storyboard.New(d.clock,
		storyboard.WithRegistry(d.registry),
		storyboard.WithLogger(d.logger),
	)
	if err := build(sb); err != nil {
		return nil, fmt.Errorf("director: build storyboard: %w", err)
	}
	return sb, nil
}

func (d *Director) run(ctx context.Context, sb *storyboard.Storyboard, loop bool, build BuildFunc) error {
	iteration := 1
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := sb.Update(); err != nil {
			if perr := d.policy(sb, err); perr != nil {
				return perr
			}
		}
		if d.onTick != nil {
			d.onTick(sb)
		}

		if sb.Finished() {
			if !loop {
				return nil
			}
			next, err := d.build(build)
			if err != nil {
				return err
			}
			iteration++
			d.logger.Debug("storyboard rebuilt", "iteration", iteration)
			sb = next
		}

		// cancellation is a normal way for a ticking task to end
		if err := d.sched.Yield(ctx); err != nil {
			return nil
		}
	}
}

func (d *Director) logAndContinue(_ *storyboard.Storyboard, err error) error {
	d.logger.Warn("storyboard update failed", "error", err)
	return nil
}
