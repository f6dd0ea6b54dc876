// Package engine assembles the registries and dispatcher from packages
// syntax, types, parse, and loader into the single facade spec.md §2
// describes: register syntax/types once at startup, then load, reload,
// and watch script files.
package engine

import (
	"log/slog"

	"github.com/chaossafti/skript/internal/invariant"
	"github.com/chaossafti/skript/loader"
	"github.com/chaossafti/skript/parse"
	"github.com/chaossafti/skript/syntax"
	"github.com/chaossafti/skript/types"
)

// Engine owns one process's worth of syntax/type registrations and
// loaded scripts. Registration is expected once at startup, before any
// script is loaded (spec.md §5).
type Engine struct {
	Syntax   *syntax.Registry
	Types    *types.Registry
	Parser   *parse.Parser
	Scripts  *loader.Registry
	EventBus syntax.EventBus
	Logger   *slog.Logger

	addon loader.TriggerHandler
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithEventBus wires the external event bus triggers register with.
func WithEventBus(bus syntax.EventBus) Option {
	return func(e *Engine) { e.EventBus = bus }
}

// WithVariables wires the Variables collaborator (spec.md §6) that
// recognizes `{name}` references during expression parsing.
func WithVariables(vars parse.VariableResolver) Option {
	return func(e *Engine) { e.Parser.Variables = vars }
}

// WithAddon wires the deprecated-but-preserved addon.handle_trigger hook
// (spec.md §9).
func WithAddon(addon loader.TriggerHandler) Option {
	return func(e *Engine) { e.addon = addon }
}

// WithLogger sets the structured logger used by the file watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.Logger = logger }
}

// New creates an Engine with fresh, empty syntax and type registries.
func New(opts ...Option) *Engine {
	syn := syntax.NewRegistry()
	typeReg := types.NewRegistry()
	e := &Engine{
		Syntax: syn,
		Types:  typeReg,
		Parser: parse.NewParser(syn, typeReg, nil),
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Scripts = loader.NewRegistry(e.EventBus)
	return e
}

// loadOptions snapshots the engine's current collaborators into the
// loader.Options bundle each load/reload call needs.
func (e *Engine) loadOptions() loader.Options {
	invariant.Precondition(e.Parser != nil, "engine has no parser")
	return loader.Options{Parser: e.Parser, EventBus: e.EventBus, Addon: e.addon}
}

// Load implements get_or_load_script (spec.md §4.8).
func (e *Engine) Load(path string) (*loader.ScriptLoadResult, error) {
	return e.Scripts.GetOrLoad(path, e.loadOptions())
}

// Reload re-parses path's script in place, preserving its Script
// identity (spec.md §4.8, §8 property S6).
func (e *Engine) Reload(script *loader.Script) (*loader.ScriptLoadResult, error) {
	return e.Scripts.Reload(script, e.loadOptions())
}

// Unload unloads script, firing on_unload on each of its triggers.
func (e *Engine) Unload(script *loader.Script) {
	e.Scripts.Unload(script)
}

// Watch opens a filesystem watcher over dir that reloads scripts as
// their files change. The caller is responsible for calling Run (in its
// own goroutine) and Close.
func (e *Engine) Watch(dir string) (*loader.Watcher, error) {
	w, err := loader.NewWatcher(e.Scripts, e.loadOptions(), e.Logger)
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
