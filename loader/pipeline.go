package loader

import (
	"os"
	"sort"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/elements"
	"github.com/chaossafti/skript/parse"
	"github.com/chaossafti/skript/syntax"
)

// TriggerHandler is spec.md §9's deprecated-but-preserved addon hook,
// dispatched alongside event-bus registration during finalize.
type TriggerHandler interface {
	HandleTrigger(t *parse.Trigger)
}

// Unloadable lets an event instance observe its trigger being unloaded
// (spec.md §4.8's "invoke an on_unload hook on each trigger").
type Unloadable interface {
	OnUnload()
}

// Options bundles load_script's external collaborators (spec.md §4.8,
// §6): the expression/effect/section/trigger dispatcher, the event bus
// triggers register with, and the optional legacy addon hook.
type Options struct {
	Parser   *parse.Parser
	EventBus syntax.EventBus
	Addon    TriggerHandler
}

// ScriptLoadResult is load_script's return value: the diagnostic log
// produced during this load attempt, paired with the Script it either
// loaded or failed to load.
type ScriptLoadResult struct {
	Log    *diag.Log
	Script *Script
}

// loadScript implements spec.md §4.8 steps 1-8.
func loadScript(script *Script, opts Options) (*ScriptLoadResult, error) {
	log := diag.NewLog(script.Name)
	result := &ScriptLoadResult{Log: log, Script: script}

	data, err := os.ReadFile(script.Path)
	if err != nil {
		return result, err
	}

	root := elements.Parse(string(data), log)

	var unloaded []*parse.UnloadedTrigger
	for _, child := range root.Children {
		if child.Kind == elements.Void {
			continue
		}
		if child.Kind != elements.Section && !child.IsBlock() {
			diag.Structuref(log, child.Line, "Can't have code outside of a trigger")
			continue
		}
		// A top-level `else`/`else if` can never have a preceding `if` to
		// attach to (that's only possible inside a section body, via
		// LoadItems) — it's always a stray clause here.
		if kind, ok := parse.ConditionalHeaderKind(child.Text); ok && kind != parse.ConditionalIf {
			msg := parse.ErrStrayElse
			if kind == parse.ConditionalElseIf {
				msg = parse.ErrStrayElseIf
			}
			diag.Structuref(log, child.Line, msg)
			continue
		}
		ut, ok := opts.Parser.ParseTrigger(child, log)
		if !ok {
			continue
		}
		unloaded = append(unloaded, ut)
	}

	sort.SliceStable(unloaded, func(i, j int) bool {
		return unloaded[i].Event.LoadingPriority > unloaded[j].Event.LoadingPriority
	})

	finalized := make([]*parse.Trigger, 0, len(unloaded))
	for _, ut := range unloaded {
		trigger, err := ut.LoadBody(opts.Parser, log)
		if err != nil {
			diag.Exceptionf(log, ut.Section.Line, "%s", err.Error())
			continue
		}
		if opts.Addon != nil {
			opts.Addon.HandleTrigger(trigger)
		}
		if opts.EventBus != nil && trigger.Instance != nil {
			trigger.Instance.Register(trigger, opts.EventBus)
		}
		finalized = append(finalized, trigger)
	}

	script.Load(finalized)
	return result, nil
}

func unloadScript(script *Script, eventBus syntax.EventBus) {
	script.Unload(func(t *parse.Trigger) {
		if u, ok := t.Instance.(Unloadable); ok {
			u.OnUnload()
		}
		if eventBus != nil {
			eventBus.Call("on_unload", t)
		}
	})
}
