package fs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/jot/pkg/core"
)

type watchWorker struct {
	*worker.BaseWorker
	repo      *Repository
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
	// onExit runs after the event loop and debouncer have fully stopped.
	onExit func()

	// Owned by the event loop goroutine.
	known         map[string]struct{}
	pendingRename string
	renameTimer   *time.Timer
}

func newWatchWorker(repo *Repository, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		repo:       repo,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	known, err := w.repo.knownNames(w.pattern)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(w.repo.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.repo.Path, err)
	}

	w.known = known
	w.watcher = watcher
	w.debouncer = newDebouncer(w.repo.config.Debounce)
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	if err := w.StartFunc(runCtx, w.run); err != nil {
		cancel()
		_ = watcher.Close()
		w.repo.setWatcherActive(false)
		return err
	}
	return nil
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// processFilesystemEvent maps a raw fsnotify event onto a note event.
// Returns false if the event was ignored.
//
// Mapping:
//   - Create on a name already present -> Modified (atomic overwrite).
//   - Create right after a Rename -> Renamed (old -> new).
//   - Create otherwise -> Created.
//   - Write -> Modified (debounced).
//   - Remove -> Deleted.
//   - Rename -> held until the destination shows up or the window expires.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	w.repo.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	name := w.repo.eventName(event.Name)
	if w.repo.shouldIgnore(name, w.pattern) {
		return false
	}

	switch {
	case event.Has(fsnotify.Create):
		if w.pendingRename != "" {
			oldName := w.takePendingRename()
			delete(w.known, oldName)
			w.known[name] = struct{}{}
			w.sendEvent(ctx, core.Event{Type: core.EventRenamed, Name: name, OldName: oldName})
			return true
		}
		eType := core.EventCreated
		if _, ok := w.known[name]; ok {
			eType = core.EventModified
		}
		w.known[name] = struct{}{}
		w.sendEvent(ctx, core.Event{Type: eType, Name: name})

	case event.Has(fsnotify.Remove):
		delete(w.known, name)
		w.sendEvent(ctx, core.Event{Type: core.EventDeleted, Name: name})

	case event.Has(fsnotify.Rename):
		if w.pendingRename != "" {
			w.flushPendingRename(ctx)
		}
		w.pendingRename = name
		w.renameTimer = time.NewTimer(w.repo.config.RenameWindow)

	case event.Has(fsnotify.Write):
		w.known[name] = struct{}{}
		w.sendEvent(ctx, core.Event{Type: core.EventModified, Name: name})

	default:
		return false
	}

	return true
}

func (w *watchWorker) takePendingRename() string {
	name := w.pendingRename
	w.pendingRename = ""
	if w.renameTimer != nil {
		w.renameTimer.Stop()
		w.renameTimer = nil
	}
	return name
}

// flushPendingRename reports a rename whose destination never appeared in
// the watched directory: from the notes' point of view the file is gone.
func (w *watchWorker) flushPendingRename(ctx context.Context) {
	name := w.takePendingRename()
	delete(w.known, name)
	w.sendEvent(ctx, core.Event{Type: core.EventDeleted, Name: name})
}

func (w *watchWorker) renameExpired() <-chan time.Time {
	if w.renameTimer == nil {
		return nil
	}
	return w.renameTimer.C
}

// sendEvent enqueues an event via the debouncer, protecting against channel closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			// Recover from panic if channel was closed (worker stopping)
			_ = recover()
		}()
		// A free slot always wins over shutdown so decided events are kept.
		select {
		case w.events <- e:
			w.repo.recordEvent(e.Timestamp)
			return
		default:
		}
		select {
		case w.events <- e:
			w.repo.recordEvent(e.Timestamp)
		case <-ctx.Done():
		}
	})
}

// handleWatcherError processes errors from the fsnotify watcher.
func (w *watchWorker) handleWatcherError(err error) (shouldContinue bool) {
	w.repo.config.Logger.Error("fsnotify error", "error", err)
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
	}
	return true
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.repo.config.Logger
	defer func() {
		if w.onExit != nil {
			w.onExit()
		}
	}()
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			// Full stack only when debugging.
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Stop accepting new events and wait for in-flight sends before onExit
	// closes the events channel.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

// mainEventLoop is the core select loop that processes filesystem and watcher events.
func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case <-w.renameExpired():
			w.renameTimer = nil
			if w.pendingRename != "" {
				w.flushPendingRename(ctx)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
