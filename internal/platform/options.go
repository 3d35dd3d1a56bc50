package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// options holds the internal configuration for a jot store.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	extension    string
	mustExist    bool
	readOnly     bool
	strictCreate bool
	strict       bool
	forceTemp    bool
	devSafety    bool
	eventBuffer  int
	debounce     time.Duration
	logFile      string
	timeLayout   string
	errorHandler func(error)
}

// Option defines a functional option for configuring jot.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the store and the watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithExtension sets the note file extension (".json", ".yaml" or ".yml").
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Create, Delete and Rename return core.ErrReadOnly.
// 2. The notes directory is never created.
// 3. Dev safety is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithStrictCreate makes creating an existing title fail with core.ErrConflict
// instead of overwriting it.
func WithStrictCreate(strict bool) Option {
	return func(o *options) {
		o.strictCreate = strict
	}
}

// WithStrict makes the note decoders reject unknown fields.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) notes outside the system temp directory are redirected into it.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithEventBuffer sets the capacity of the watch event channel.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithDebounce sets the window used to coalesce writes to the same note.
// Zero means default (50ms); a negative value disables coalescing.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithLogFile sets the activity log location. A bare name is placed in the
// notes directory. Defaults to "activity.log".
func WithLogFile(name string) Option {
	return func(o *options) {
		o.logFile = name
	}
}

// WithTimeLayout sets the timestamp layout of activity log lines.
func WithTimeLayout(layout string) Option {
	return func(o *options) {
		o.timeLayout = layout
	}
}

// WithWatcherErrorHandler registers a callback for runtime failures of the
// file watcher and for dropped activity log lines. These are otherwise only
// logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
