// Package loader implements spec.md §4.8's script loader lifecycle: the
// process-wide script registry, load/unload/reload, and the priority-
// sorted trigger finalization pipeline that ties the file element tree
// (package elements) to the expression/effect/section/trigger dispatcher
// (package parse).
package loader

import (
	"path/filepath"
	"strings"

	"github.com/chaossafti/skript/internal/invariant"
	"github.com/chaossafti/skript/parse"
)

// Script is identified by its absolute path (spec.md §3). Name is
// derived by stripping one extension from the file name. A Script is
// created unloaded (Triggers nil); Load installs a trigger set, Unload
// clears it. Invariant: Loaded ⇔ Triggers present.
type Script struct {
	Path string
	Name string

	Triggers []*parse.Trigger
	Loaded   bool
}

// NewScript creates an unloaded Script for path.
func NewScript(path string) *Script {
	return &Script{Path: path, Name: deriveName(path)}
}

func deriveName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// Load installs triggers and flips the script to loaded. Calling Load on
// an already-loaded script is a programmer error (spec.md §3).
func (s *Script) Load(triggers []*parse.Trigger) {
	invariant.Precondition(!s.Loaded, "script %s is already loaded", s.Path)
	s.Triggers = triggers
	s.Loaded = true
}

// Unload fires onUnload for each trigger, then clears the trigger set
// and flips the script back to unloaded. Calling Unload on an unloaded
// script is a programmer error (spec.md §3).
func (s *Script) Unload(onUnload func(*parse.Trigger)) {
	invariant.Precondition(s.Loaded, "script %s is not loaded", s.Path)
	if onUnload != nil {
		for _, t := range s.Triggers {
			onUnload(t)
		}
	}
	s.Triggers = nil
	s.Loaded = false
}
