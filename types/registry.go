package types

import "sync"

// Registry holds registered Types and the converter graph between them.
// Grounded on core/decorators/registry.go and core/types/registry.go in
// the teacher pack: a map-backed registry behind an RWMutex with
// Register/Get pairs.
type Registry struct {
	mu         sync.RWMutex
	types      map[string]*Type
	converters map[converterKey]Converter
}

type converterKey struct{ from, to string }

// Converter converts a value of type `from` into one of type `to`.
type Converter func(value interface{}) (interface{}, bool)

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		types:      make(map[string]*Type),
		converters: make(map[converterKey]Converter),
	}
}

// Register adds or replaces a Type by its Class identity.
func (r *Registry) Register(t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Class] = t
}

// Type looks up a registered type by class.
func (r *Registry) Type(class string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[class]
	return t, ok
}

// All returns every registered type, for literal-parse fan-out.
func (r *Registry) All() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out
}

// ByName finds the registered type whose singular or plural
// pattern-placeholder spelling matches name.
func (r *Registry) ByName(name string) (t *Type, plural bool, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, candidate := range r.types {
		if p, matched := candidate.Matches(name); matched {
			return candidate, p, true
		}
	}
	return nil, false, false
}

// RegisterConverter registers a from->to conversion function.
func (r *Registry) RegisterConverter(from, to string, fn Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[converterKey{from, to}] = fn
}

// ConverterExists reports whether a converter from->to is registered.
// Identity conversion always exists.
func (r *Registry) ConverterExists(from, to string) bool {
	if from == to {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.converters[converterKey{from, to}]
	return ok
}

// Convert converts value from type `from` to type `to`, using the
// identity function when from == to.
func (r *Registry) Convert(value interface{}, from, to string) (interface{}, bool) {
	if from == to {
		return value, true
	}
	r.mu.RLock()
	fn, ok := r.converters[converterKey{from, to}]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return fn(value)
}

// Assignable reports whether a value of type `from` may be used where
// `to` is expected: identity, or a registered converter exists.
//
// spec.md §4.4 also speaks of a type being "a subtype of" the expected
// type; this engine has no separate class hierarchy mechanism (none is
// specified anywhere in spec.md beyond the converter graph), so subtyping
// and convertibility are treated as the same relation here — see
// DESIGN.md.
func (r *Registry) Assignable(from, to string) bool {
	return r.ConverterExists(from, to)
}
