package fs

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

const (
	// DefaultExtension is the note file extension used when none is configured.
	DefaultExtension = ".json"
	// DefaultEventBuffer is the capacity of the channel returned by Watch.
	DefaultEventBuffer = 100
	// DefaultDebounce coalesces bursts of writes to the same note.
	DefaultDebounce = 50 * time.Millisecond
	// DefaultRenameWindow bounds how long a rename waits for its destination.
	DefaultRenameWindow = 100 * time.Millisecond
)

// Repository implements core.Repository using one file per note.
type Repository struct {
	Path       string
	config     Config
	serializer Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path string
	// Extension of note files, with or without the leading dot. Defaults to ".json".
	Extension string
	MustExist bool
	ReadOnly  bool
	// StrictCreate makes Create fail with core.ErrConflict instead of overwriting.
	StrictCreate bool
	// Strict makes the default serializers reject unknown fields.
	Strict bool
	// Serializer overrides the one selected by Extension.
	Serializer Serializer
	Logger     *slog.Logger
	// ErrorHandler receives watcher runtime errors.
	ErrorHandler func(error)
	// EventBuffer is the capacity of the Watch channel. Zero means DefaultEventBuffer.
	EventBuffer int
	// Debounce coalesces Modified events per file. Zero means DefaultDebounce, negative disables.
	Debounce time.Duration
	// RenameWindow pairs a rename with its destination. Zero means DefaultRenameWindow.
	RenameWindow time.Duration
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	config.Extension = normalizeExtension(config.Extension)
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultEventBuffer
	}
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounce
	}
	if config.RenameWindow <= 0 {
		config.RenameWindow = DefaultRenameWindow
	}

	serializer := config.Serializer
	if serializer == nil {
		var ok bool
		serializer, ok = DefaultSerializers(config.Strict)[config.Extension]
		if !ok {
			serializer = NewJSONSerializer(config.Strict)
		}
	}

	return &Repository{
		Path:       config.Path,
		config:     config,
		serializer: serializer,
	}
}

func normalizeExtension(ext string) string {
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// Extension returns the note file extension, including the leading dot.
func (r *Repository) Extension() string {
	return r.config.Extension
}

// Initialize performs the necessary setup for the repository (mkdir).
func (r *Repository) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("notes path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat notes path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("notes path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}
	return nil
}

func (r *Repository) fileName(title string) string {
	return title + r.config.Extension
}

func (r *Repository) notePath(title string) string {
	return filepath.Join(r.Path, r.fileName(title))
}

// isNoteFile reports whether a directory entry name looks like a note file.
// Dot files (.jot.yaml, temp files) are never notes.
func (r *Repository) isNoteFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return len(name) > len(r.config.Extension) && strings.HasSuffix(name, r.config.Extension)
}

// Create persists a note to the filesystem.
//
// Workflow:
//  1. Validate the title (it becomes a file name verbatim).
//  2. Serialize with the configured format.
//  3. Write atomically: temp file, then rename over the target. In strict
//     mode the temp file is linked instead so an existing note is never replaced.
func (r *Repository) Create(ctx context.Context, n core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateTitle(n.Title); err != nil {
		return err
	}

	data, err := r.serializer.Serialize(n)
	if err != nil {
		return fmt.Errorf("failed to serialize note: %w", err)
	}

	if err := writeFileAtomic(r.notePath(n.Title), data, 0644, r.config.StrictCreate); err != nil {
		if r.config.StrictCreate && errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", core.ErrConflict, n.Title)
		}
		return fmt.Errorf("failed to write note: %w", err)
	}

	r.config.Logger.Debug("note saved", "title", n.Title)
	return nil
}

// Read retrieves a note from the filesystem.
func (r *Repository) Read(ctx context.Context, title string) (core.Note, error) {
	if err := ctx.Err(); err != nil {
		return core.Note{}, err
	}
	if err := core.ValidateTitle(title); err != nil {
		return core.Note{}, err
	}

	n, err := r.readFile(r.notePath(title))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, title)
		}
		return core.Note{}, err
	}
	return n, nil
}

// readFile opens and parses a single note file. Open errors are returned
// as-is; decoding failures are wrapped in a *core.ParseError.
func (r *Repository) readFile(fullPath string) (core.Note, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return core.Note{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to stat note: %w", err)
	}
	if info.IsDir() {
		return core.Note{}, fmt.Errorf("%s: %w", fullPath, os.ErrNotExist)
	}

	n, err := r.serializer.Parse(f)
	if err != nil {
		return core.Note{}, &core.ParseError{File: filepath.Base(fullPath), Err: err}
	}
	return n, nil
}

// List lazily enumerates note files sorted by file name.
//
// Strategy:
//  1. Read the directory listing once (names only).
//  2. For each note file, parse it only when the consumer asks for the next item.
//  3. A file that fails to parse is yielded with its error and the walk continues.
//  4. Files deleted between listing and parsing are skipped silently.
func (r *Repository) List(ctx context.Context) iter.Seq2[core.NoteInfo, error] {
	return func(yield func(core.NoteInfo, error) bool) {
		entries, err := os.ReadDir(r.Path)
		if err != nil {
			yield(core.NoteInfo{}, fmt.Errorf("failed to read notes directory: %w", err))
			return
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				yield(core.NoteInfo{}, err)
				return
			}
			if entry.IsDir() || !r.isNoteFile(entry.Name()) {
				continue
			}

			info := core.NoteInfo{File: entry.Name()}
			n, err := r.readFile(filepath.Join(r.Path, entry.Name()))
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				r.config.Logger.Debug("skipping unreadable note", "file", entry.Name(), "error", err)
				if !yield(info, err) {
					return
				}
				continue
			}

			info.Title = n.Title
			info.CreatedAt = n.CreatedAt
			if !yield(info, nil) {
				return
			}
		}
	}
}

// Delete removes a note.
func (r *Repository) Delete(ctx context.Context, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateTitle(title); err != nil {
		return err
	}

	fullPath := r.notePath(title)
	if info, err := os.Lstat(fullPath); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", core.ErrNotFound, title)
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, title)
		}
		return fmt.Errorf("failed to remove note: %w", err)
	}

	r.config.Logger.Debug("note deleted", "title", title)
	return nil
}

// Rename moves a note file to a new title and rewrites its title field.
//
// Workflow:
//  1. Parse the source; missing -> ErrNotFound, corrupt -> ParseError. Nothing moves yet.
//  2. Refuse if the destination exists (ErrConflict). Case-only renames on
//     case-insensitive filesystems resolve to the same file and are allowed.
//  3. Move the file, then rewrite it atomically with the new title.
//     If the rewrite fails the move is undone.
func (r *Repository) Rename(ctx context.Context, oldTitle, newTitle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateTitle(oldTitle); err != nil {
		return err
	}
	if err := core.ValidateTitle(newTitle); err != nil {
		return err
	}

	oldPath := r.notePath(oldTitle)
	newPath := r.notePath(newTitle)

	n, err := r.readFile(oldPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, oldTitle)
		}
		return err
	}
	if oldTitle == newTitle {
		return nil
	}

	if newInfo, err := os.Lstat(newPath); err == nil {
		oldInfo, statErr := os.Lstat(oldPath)
		if statErr != nil || !os.SameFile(oldInfo, newInfo) {
			return fmt.Errorf("%w: %s", core.ErrConflict, newTitle)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat target note: %w", err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to move note: %w", err)
	}

	n.Title = newTitle
	data, err := r.serializer.Serialize(n)
	if err == nil {
		err = writeFileAtomic(newPath, data, 0644, false)
	}
	if err != nil {
		if rbErr := os.Rename(newPath, oldPath); rbErr != nil {
			r.config.Logger.Error("failed to roll back rename", "from", newTitle, "to", oldTitle, "error", rbErr)
		}
		return fmt.Errorf("failed to rewrite renamed note: %w", err)
	}

	r.config.Logger.Debug("note renamed", "from", oldTitle, "to", newTitle)
	return nil
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
