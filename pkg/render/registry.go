package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicate indicates an attempt to register a type twice.
	ErrDuplicate = errors.New("duplicate descriptor")
	// ErrSealed indicates an attempt to change a sealed registry.
	ErrSealed = errors.New("registry is sealed")
	// ErrInvalid indicates an empty type or an incomplete descriptor.
	ErrInvalid = errors.New("invalid descriptor")
)

// Registry maps node types to descriptors. It is safe for concurrent use.
//
// A registry is normally filled at startup and then sealed; the engine only
// reads from it.
type Registry struct {
	mu           sync.RWMutex
	descs        map[string]*Descriptor
	fallback     *Descriptor
	allowReplace bool
	sealed       atomic.Bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// AllowReplace permits registering a type that is already registered, which
// replaces the old descriptor.
func AllowReplace() RegistryOption { return func(r *Registry) { r.allowReplace = true } }

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{descs: make(map[string]*Descriptor)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates typ with d.
func (r *Registry) Register(typ string, d *Descriptor) error {
	if r.Sealed() {
		return ErrSealed
	}
	if typ == "" || d == nil || !d.valid() {
		return fmt.Errorf("%w: type %q", ErrInvalid, typ)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descs[typ]; exists && !r.allowReplace {
		return fmt.Errorf("%w: type %q", ErrDuplicate, typ)
	}
	r.descs[typ] = d
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(typ string, d *Descriptor) {
	if err := r.Register(typ, d); err != nil {
		panic(err)
	}
}

// SetFallback sets the descriptor used for types that are not registered. A
// nil d removes the fallback.
func (r *Registry) SetFallback(d *Descriptor) error {
	if r.Sealed() {
		return ErrSealed
	}
	if d != nil && !d.valid() {
		return fmt.Errorf("%w: fallback", ErrInvalid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = d
	return nil
}

// Lookup returns the descriptor registered for typ.
func (r *Registry) Lookup(typ string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descs[typ]
	return d, ok
}

// Resolve is like Lookup, but falls back to the fallback descriptor.
func (r *Registry) Resolve(typ string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.descs[typ]; ok {
		return d, true
	}
	return r.fallback, r.fallback != nil
}

// Types returns the registered types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.descs))
	for typ := range r.descs {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Seal prevents further changes. It reports whether this call sealed the
// registry.
func (r *Registry) Seal() bool { return !r.sealed.Swap(true) }

// Sealed reports whether the registry is sealed.
func (r *Registry) Sealed() bool { return r.sealed.Load() }
