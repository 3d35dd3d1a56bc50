package activity

import "github.com/aretw0/introspection"

// WatcherState exposes the watcher for observability.
type WatcherState struct {
	Running  bool   `json:"running"`
	LogPath  string `json:"log_path"`
	Pattern  string `json:"pattern,omitempty"`
	Appended uint64 `json:"appended"`
	Failed   uint64 `json:"failed"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	return WatcherState{
		Running:  w.Running(),
		LogPath:  w.config.LogPath,
		Pattern:  w.config.Pattern,
		Appended: w.appended.Load(),
		Failed:   w.failed.Load(),
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "activity-watcher"
}

var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)
