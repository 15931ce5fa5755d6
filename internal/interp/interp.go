// Package interp blends two values of the same type. Each supported Go type
// has one registered rule; keys pick their rule once, when they are authored.
package interp

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrUnsupportedType is returned when no rule is registered for a type.
var ErrUnsupportedType = errors.New("no interpolation rule for type")

// Func blends a toward b by t. t is eased progress, so it may leave [0,1].
type Func[T any] func(a, b T, t float64) T

// Registry maps a value type to its interpolation rule.
type Registry struct {
	mu    sync.RWMutex
	rules map[reflect.Type]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[reflect.Type]any)}
}

var defaultRegistry = newBuiltinRegistry()

// Default returns the registry holding the built-in rules.
func Default() *Registry {
	return defaultRegistry
}

// Register installs fn as the rule for T, replacing any earlier rule.
func Register[T any](r *Registry, fn Func[T]) {
	r.mu.Lock()
	r.rules[reflect.TypeOf((*T)(nil)).Elem()] = fn
	r.mu.Unlock()
}

// Lookup returns the rule registered for T.
func Lookup[T any](r *Registry) (Func[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	r.mu.RLock()
	rule, ok := r.rules[typ]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnsupportedType, typ)
	}
	return rule.(Func[T]), nil
}

// For looks T up in the default registry.
func For[T any]() (Func[T], error) {
	return Lookup[T](defaultRegistry)
}

// Supports reports whether the registry has a rule for typ.
func (r *Registry) Supports(typ reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rules[typ]
	return ok
}
