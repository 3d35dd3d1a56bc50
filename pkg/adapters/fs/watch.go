package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/jot/pkg/core"
)

// Pattern returns the glob matching note files, e.g. "*.json".
func (r *Repository) Pattern() string {
	return "*" + r.config.Extension
}

// Watch starts observing the notes directory and returns a channel of change
// events for entries whose base name matches pattern.
//
// Delivery is best-effort: rapid writes may be coalesced, events may be
// reordered relative to the operations that caused them, and bursts may be
// lost by the OS notification queue. The channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = r.Pattern()
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %q", pattern)
	}

	events := make(chan core.Event, r.config.EventBuffer)
	w := newWatchWorker(r, pattern, events)
	w.onExit = func() { close(events) }

	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

// shouldIgnore filters out names the watcher must not report.
func (r *Repository) shouldIgnore(name, pattern string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return true
	}
	matched, err := doublestar.Match(pattern, name)
	return err != nil || !matched
}

// knownNames lists the note files currently present so that an atomic
// overwrite (which the OS reports as a create) can be told apart from a new note.
func (r *Repository) knownNames(pattern string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan notes directory: %w", err)
	}
	known := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() || r.shouldIgnore(e.Name(), pattern) {
			continue
		}
		known[e.Name()] = struct{}{}
	}
	return known, nil
}

func (r *Repository) eventName(path string) string {
	return filepath.Base(path)
}
