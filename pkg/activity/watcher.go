package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
)

// DefaultLogName is the activity log file name inside the notes directory.
const DefaultLogName = "activity.log"

// ErrAlreadyRunning is returned by Start on a running watcher.
var ErrAlreadyRunning = errors.New("activity watcher already running")

// Config holds the configuration for a Watcher.
type Config struct {
	// LogPath is where lines are appended.
	LogPath string
	// TimeLayout formats entry timestamps. Defaults to DefaultTimeLayout.
	TimeLayout string
	// Pattern selects watched names. Defaults to the source's own pattern.
	Pattern string
	Logger  *slog.Logger
	// ErrorHandler is told about every swallowed append failure.
	ErrorHandler func(error)
	// OpenSink overrides how the log is opened. Defaults to OpenFileLog.
	OpenSink func(path string) (Sink, error)
}

// Watcher appends one line to the activity log per observed note change.
// It is Stopped until Start and may be restarted after Stop.
type Watcher struct {
	source core.Watchable
	config Config

	mu      sync.Mutex
	running bool
	sink    Sink
	cancel  context.CancelFunc
	done    chan struct{}

	appended atomic.Uint64
	failed   atomic.Uint64
}

// NewWatcher creates a stopped watcher over source.
func NewWatcher(source core.Watchable, config Config) *Watcher {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.TimeLayout == "" {
		config.TimeLayout = DefaultTimeLayout
	}
	if config.OpenSink == nil {
		config.OpenSink = func(path string) (Sink, error) {
			return OpenFileLog(path)
		}
	}
	return &Watcher{source: source, config: config}
}

// Start opens the log and begins consuming change events in the background.
// Only startup failures are returned; everything after that is best-effort.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}
	if w.config.LogPath == "" {
		return errors.New("activity log path is empty")
	}

	sink, err := w.config.OpenSink(w.config.LogPath)
	if err != nil {
		return err
	}

	pattern := w.config.Pattern
	if pattern == "" {
		pattern = w.source.Pattern()
	}

	runCtx, cancel := context.WithCancel(ctx)
	events, err := w.source.Watch(runCtx, pattern)
	if err != nil {
		cancel()
		_ = sink.Close()
		return fmt.Errorf("failed to watch notes: %w", err)
	}

	done := make(chan struct{})
	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(done)
		// Drain until the source closes the channel so events buffered
		// before shutdown still reach the log.
		for e := range events {
			w.record(sink, e)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.config.Logger.Error("activity consumer failed", "error", err)
	}))

	w.running = true
	w.sink = sink
	w.cancel = cancel
	w.done = done

	w.config.Logger.Debug("activity watcher started", "log", w.config.LogPath, "pattern", pattern)
	return nil
}

// Stop unsubscribes from the source, waits for the consumer to finish (or ctx
// to expire) and then closes the log. Stopping a stopped watcher is a no-op.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	cancel, done, sink := w.cancel, w.done, w.sink
	w.running = false
	w.sink = nil
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	cancel()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close activity log: %w", cerr)
	}

	w.config.Logger.Debug("activity watcher stopped", "appended", w.appended.Load(), "failed", w.failed.Load())
	return err
}

// Running reports whether the watcher is between Start and Stop.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// OnEvent appends e to the current log. It never fails: when the watcher is
// stopped or the append errors, the entry is dropped and counted.
func (w *Watcher) OnEvent(e core.Event) {
	w.mu.Lock()
	sink := w.sink
	w.mu.Unlock()

	w.record(sink, e)
}

func (w *Watcher) record(sink Sink, e core.Event) {
	if sink == nil {
		w.fail(errClosed)
		return
	}
	line := EntryFromEvent(e).Format(w.config.TimeLayout)
	if err := sink.Append(line); err != nil {
		w.fail(err)
		return
	}
	w.appended.Add(1)
}

func (w *Watcher) fail(err error) {
	w.failed.Add(1)
	w.config.Logger.Debug("activity entry dropped", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}
