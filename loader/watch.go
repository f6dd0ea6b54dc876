package loader

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads scripts in a directory as their source files change on
// disk, debouncing by content hash so a metadata-only event (touch,
// chmod) doesn't trigger a spurious reload. Only files of scripts already
// in the registry are reloaded; other files are ignored.
type Watcher struct {
	registry *Registry
	opts     Options
	fsw      *fsnotify.Watcher
	logger   *slog.Logger

	hashes map[string][32]byte
}

// NewWatcher opens an fsnotify watcher with nothing watched yet; call Add
// for each directory (watches are non-recursive).
func NewWatcher(registry *Registry, opts Options, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{registry: registry, opts: opts, fsw: fsw, logger: logger, hashes: make(map[string][32]byte)}, nil
}

// Add begins watching dir for script file changes.
func (w *Watcher) Add(dir string) error {
	return w.fsw.Add(dir)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run processes filesystem events until the watcher is closed. It's meant
// to be run in its own goroutine.
func (w *Watcher) Run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return
	}
	path := filepath.Clean(ev.Name)

	hash, err := ContentHash(path)
	if err != nil {
		w.logger.Warn("skipping reload, can't read script", "path", path, "error", err)
		return
	}
	if prev, ok := w.hashes[path]; ok && prev == hash {
		return
	}
	w.hashes[path] = hash

	w.registry.mapMu.Lock()
	script, ok := w.registry.scripts[path]
	w.registry.mapMu.Unlock()
	if !ok {
		return
	}

	result, err := w.registry.Reload(script, w.opts)
	if err != nil {
		w.logger.Error("reload failed", "path", path, "error", err)
		return
	}
	if result.Log.HasErrors() {
		w.logger.Warn("reload completed with diagnostics", "path", path, "records", len(result.Log.Records()))
	} else {
		w.logger.Info("reloaded script", "path", path)
	}
}
