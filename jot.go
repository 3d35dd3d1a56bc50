package jot

import (
	"log/slog"
	"time"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/activity"
	"github.com/aretw0/jot/pkg/core"
)

// --- Types ---

// Note is a public alias for the note model.
type Note = core.Note

// Event is a public alias for a note change event.
type Event = core.Event

// Service is a public alias for the note service.
type Service = core.Service

// Watcher is a public alias for the activity watcher.
type Watcher = activity.Watcher

// --- Errors ---

var (
	ErrNotFound     = core.ErrNotFound
	ErrConflict     = core.ErrConflict
	ErrParse        = core.ErrParse
	ErrInvalidTitle = core.ErrInvalidTitle
	ErrReadOnly     = core.ErrReadOnly
)

// --- Configuration ---

// Option defines a functional option for configuring jot.
type Option = platform.Option

// WithLogger sets the logger for the store and the watcher.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithExtension sets the note file extension (".json", ".yaml" or ".yml").
func WithExtension(ext string) Option {
	return platform.WithExtension(ext)
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write with ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrictCreate makes creating an existing title fail with ErrConflict.
func WithStrictCreate(strict bool) Option {
	return platform.WithStrictCreate(strict)
}

// WithStrict makes note decoding reject unknown fields.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithEventBuffer sets the capacity of the watch event channel.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithDebounce sets the per-note write coalescing window.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithLogFile sets the activity log name or absolute path.
func WithLogFile(name string) Option {
	return platform.WithLogFile(name)
}

// WithTimeLayout sets the timestamp layout of activity log lines.
func WithTimeLayout(layout string) Option {
	return platform.WithTimeLayout(layout)
}

// WithWatcherErrorHandler registers a callback for watcher runtime errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a note service over the directory at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// NewWatcher creates a stopped activity watcher for svc. Pass the same
// options used for New so the log lands next to the notes.
func NewWatcher(svc *core.Service, opts ...Option) (*activity.Watcher, error) {
	return platform.NewWatcher(svc, opts...)
}

// LogPath returns the activity log location for svc.
func LogPath(svc *core.Service, opts ...Option) (string, error) {
	return platform.LogPath(svc, opts...)
}

// --- Safety & Utils ---

// DefaultDir returns the default notes directory (~/Documents/NotesData).
func DefaultDir() (string, error) {
	return platform.DefaultDir()
}

// ResolveNotesPath determines the actual notes directory based on safety rules.
func ResolveNotesPath(userPath string, forceTemp bool) string {
	return platform.ResolveNotesPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding a .jot.yaml file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
