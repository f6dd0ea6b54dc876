package syntax

import (
	"fmt"
	"sync"
)

// ParsingDisallowedError is raised by an INIT_VALIDATORS callback to veto
// an instantiation (spec.md §4.3, §7): a terminal per-instantiation
// failure, not a panic — the dispatcher logs an EXCEPTION-kind diagnostic
// and moves on to the next candidate.
type ParsingDisallowedError struct {
	Reason string
}

func (e *ParsingDisallowedError) Error() string { return e.Reason }

// Validator is one of the process-wide INIT_VALIDATORS callbacks
// (spec.md §4.3) run on every syntax-element instantiation, before
// Init is called.
type Validator func(kind Kind, info *Info, instance Instance) error

// Registry is the process-wide catalog of registered syntax kinds
// (spec.md §2.4, §4.3): grounded on the teacher's map+mutex registry
// idiom (core/decorators/registry.go, runtime/decorators/registry.go),
// extended here with priority ordering and a recency list per kind.
type Registry struct {
	mu         sync.RWMutex
	byKind     map[Kind][]*Info
	byTag      map[Kind]map[string]*Info
	recency    map[Kind]*recencyList
	validators []Validator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{
		byKind:  make(map[Kind][]*Info),
		byTag:   make(map[Kind]map[string]*Info),
		recency: make(map[Kind]*recencyList),
	}
	for _, k := range []Kind{KindExpression, KindEffect, KindSection, KindEvent, KindComparator} {
		r.byTag[k] = make(map[string]*Info)
		r.recency[k] = newRecencyList()
	}
	return r
}

// AddValidator registers a process-wide INIT_VALIDATORS callback.
func (r *Registry) AddValidator(v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators = append(r.validators, v)
}

// Register adds info under kind. Insertion order follows spec.md §4.3:
// a new entry is placed behind every existing entry of strictly higher
// priority, and ahead of the first entry whose priority is strictly lower
// than its own — which, read together with "stable within equal
// priority", means new entries join the back of their own priority's
// run rather than displacing earlier same-priority registrations.
func (r *Registry) Register(kind Kind, info *Info) error {
	if info.Schema != "" {
		if err := ValidateDataBag(info.DataBag, info.Schema); err != nil {
			return fmt.Errorf("syntax: registering %q: %w", info.ClassTag, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTag[kind][info.ClassTag]; exists {
		return fmt.Errorf("syntax: %s %q already registered", kind, info.ClassTag)
	}

	list := r.byKind[kind]
	idx := len(list)
	for i, existing := range list {
		if existing.Priority < info.Priority {
			idx = i
			break
		}
	}
	list = append(list, nil)
	copy(list[idx+1:], list[idx:])
	list[idx] = info
	r.byKind[kind] = list
	r.byTag[kind][info.ClassTag] = info
	return nil
}

// All returns every Info registered under kind, in registry (priority)
// order.
func (r *Registry) All(kind Kind) []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Info, len(r.byKind[kind]))
	copy(out, r.byKind[kind])
	return out
}

// ByTag looks up a single registered Info by its class tag.
func (r *Registry) ByTag(kind Kind, tag string) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byTag[kind][tag]
	return info, ok
}

// Candidates returns the dispatch order for kind: the recency list
// (most-recently-matched first), followed by the registry's remaining
// entries in priority order (spec.md §4.3's "recency-then-remainder").
func (r *Registry) Candidates(kind Kind) []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec := r.recency[kind]
	out := rec.ordered()
	for _, info := range r.byKind[kind] {
		if !rec.has(info) {
			out = append(out, info)
		}
	}
	return out
}

// Acknowledge moves info to the front of kind's recency list, per
// spec.md §4.3's "on every successful match, the matched info is moved
// to the front".
func (r *Registry) Acknowledge(kind Kind, info *Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recency[kind].acknowledge(info)
}

// Instantiate builds a fresh instance from info's factory and runs every
// registered validator against it, returning *ParsingDisallowedError if
// any vetoes (spec.md §4.3, §7).
func (r *Registry) Instantiate(kind Kind, info *Info) (Instance, error) {
	instance := info.Factory()
	r.mu.RLock()
	validators := r.validators
	r.mu.RUnlock()
	for _, v := range validators {
		if err := v(kind, info, instance); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
