// Package subject abstracts a readable and writable value slot. A subject
// grants access to storage it does not own; the storage must outlive every
// key that animates it.
package subject

import "sync"

// Subject is a place a value can be read from and written to.
type Subject[T any] interface {
	Get() T
	Set(v T)
}

// Fallible is implemented by subjects whose reads can fail. Linked targets
// use TryGet when it is available.
type Fallible[T any] interface {
	TryGet() (T, error)
}

// Ref binds a subject to a variable or struct field.
func Ref[T any](p *T) Subject[T] {
	return ref[T]{p: p}
}

type ref[T any] struct {
	p *T
}

func (r ref[T]) Get() T  { return *r.p }
func (r ref[T]) Set(v T) { *r.p = v }

// Func binds a subject to an arbitrary getter and setter pair. A nil setter
// makes writes a no-op, which is useful for read-only link sources.
func Func[T any](get func() T, set func(T)) Subject[T] {
	return funcs[T]{get: get, set: set}
}

type funcs[T any] struct {
	get func() T
	set func(T)
}

func (f funcs[T]) Get() T { return f.get() }

func (f funcs[T]) Set(v T) {
	if f.set != nil {
		f.set(v)
	}
}

// Checked binds a subject whose reads can fail. Get returns the zero value
// on error; storyboards read it through TryGet so the error surfaces.
func Checked[T any](get func() (T, error), set func(T)) Subject[T] {
	return checked[T]{get: get, set: set}
}

type checked[T any] struct {
	get func() (T, error)
	set func(T)
}

func (c checked[T]) TryGet() (T, error) { return c.get() }

func (c checked[T]) Get() T {
	v, _ := c.get()
	return v
}

func (c checked[T]) Set(v T) {
	if c.set != nil {
		c.set(v)
	}
}

// Guarded is a mutex-protected slot. The ticking task writes it while other
// goroutines read it, so it is the subject to use when a value is observed
// outside the task that animates it.
type Guarded[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewGuarded returns a slot holding v.
func NewGuarded[T any](v T) *Guarded[T] {
	return &Guarded[T]{v: v}
}

func (g *Guarded[T]) Get() T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.v
}

func (g *Guarded[T]) Set(v T) {
	g.mu.Lock()
	g.v = v
	g.mu.Unlock()
}
