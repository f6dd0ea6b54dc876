package loader

import (
	"sync"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/internal/invariant"
	"github.com/chaossafti/skript/syntax"
)

// Registry is the process-wide, concurrent script registry (spec.md §3,
// §5): Scripts are keyed by path, `get`/`insert-if-absent`/`remove`
// shaped. Distinct paths may load in parallel; for the same path, the
// loser of a race observes the winner's loaded script unchanged.
type Registry struct {
	mapMu   sync.Mutex
	scripts map[string]*Script
	loadMu  map[string]*sync.Mutex

	eventBus syntax.EventBus
}

// NewRegistry creates an empty script registry. eventBus is used by
// Unload to dispatch the `on_unload` notification; it may be nil.
func NewRegistry(eventBus syntax.EventBus) *Registry {
	return &Registry{
		scripts:  make(map[string]*Script),
		loadMu:   make(map[string]*sync.Mutex),
		eventBus: eventBus,
	}
}

func (r *Registry) lockFor(path string) *sync.Mutex {
	r.mapMu.Lock()
	defer r.mapMu.Unlock()
	m, ok := r.loadMu[path]
	if !ok {
		m = &sync.Mutex{}
		r.loadMu[path] = m
	}
	return m
}

// GetOrLoad implements spec.md §4.8's get_or_load_script: returns the
// existing loaded Script at path if one is registered, otherwise loads
// it fresh.
func (r *Registry) GetOrLoad(path string, opts Options) (*ScriptLoadResult, error) {
	if existing, ok := r.alreadyLoaded(path); ok {
		return &ScriptLoadResult{Log: diag.NewLog(existing.Name), Script: existing}, nil
	}

	lock := r.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if existing, ok := r.alreadyLoaded(path); ok {
		return &ScriptLoadResult{Log: diag.NewLog(existing.Name), Script: existing}, nil
	}

	r.mapMu.Lock()
	script, ok := r.scripts[path]
	if !ok {
		script = NewScript(path)
		r.scripts[path] = script
	}
	r.mapMu.Unlock()

	return loadScript(script, opts)
}

func (r *Registry) alreadyLoaded(path string) (*Script, bool) {
	r.mapMu.Lock()
	defer r.mapMu.Unlock()
	sc, ok := r.scripts[path]
	if ok && sc.Loaded {
		return sc, true
	}
	return nil, false
}

// Unload unloads script, if loaded, firing on_unload on each of its
// triggers.
func (r *Registry) Unload(script *Script) {
	if !script.Loaded {
		return
	}
	unloadScript(script, r.eventBus)
}

// Reload implements spec.md §4.8's reload: unload (if loaded), then
// load_script again with a fresh diagnostic log. The Script identity is
// preserved — only its Triggers/Loaded fields change.
func (r *Registry) Reload(script *Script, opts Options) (*ScriptLoadResult, error) {
	lock := r.lockFor(script.Path)
	lock.Lock()
	defer lock.Unlock()

	if script.Loaded {
		unloadScript(script, r.eventBus)
	}
	return loadScript(script, opts)
}

// Remove drops script from the registry without unloading it — callers
// must Unload first if the script is currently loaded.
func (r *Registry) Remove(path string) {
	r.mapMu.Lock()
	defer r.mapMu.Unlock()
	if sc, ok := r.scripts[path]; ok {
		invariant.Precondition(!sc.Loaded, "script %s removed from registry while still loaded", path)
	}
	delete(r.scripts, path)
}
