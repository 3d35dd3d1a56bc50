package core

import (
	"context"
	"iter"
)

// Repository defines the contract for storing and retrieving notes.
// Every call goes to the backing storage; implementations keep no copy of
// note state between calls.
type Repository interface {
	// Create persists a new note. Whether an existing title is overwritten
	// is an implementation policy.
	Create(ctx context.Context, n Note) error

	// Read retrieves a note by its title.
	Read(ctx context.Context, title string) (Note, error)

	// List lazily enumerates stored notes. A non-nil error paired with an
	// item is a per-note diagnostic and carries the offending File;
	// enumeration continues after it. An error with an empty File means
	// enumeration itself failed and nothing more will be yielded.
	List(ctx context.Context) iter.Seq2[NoteInfo, error]

	// Delete removes a note by its title.
	Delete(ctx context.Context, title string) error

	// Rename moves a note to a new title, keeping its creation time.
	Rename(ctx context.Context, oldTitle, newTitle string) error

	// Initialize ensures the underlying storage is ready (e.g., create directories).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that can stream change events.
type Watchable interface {
	// Watch emits events for storage entries matching pattern until ctx is done.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)

	// Pattern returns the glob matching the repository's note files.
	Pattern() string
}
