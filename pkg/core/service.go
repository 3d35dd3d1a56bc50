package core

import (
	"context"
	"errors"
	"iter"
	"time"
)

// Service handles the business logic for notes.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Repository returns the underlying storage adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// CreateNote stamps a new note with the current time and stores it.
func (s *Service) CreateNote(ctx context.Context, title, content string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return s.repo.Create(ctx, Note{
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	})
}

// ReadNote retrieves a note.
func (s *Service) ReadNote(ctx context.Context, title string) (Note, error) {
	if err := ValidateTitle(title); err != nil {
		return Note{}, err
	}
	return s.repo.Read(ctx, title)
}

// Notes exposes the lazy listing of the repository.
func (s *Service) Notes(ctx context.Context) iter.Seq2[NoteInfo, error] {
	return s.repo.List(ctx)
}

// ListNotes drains the listing, separating parseable notes from per-note
// diagnostics. The returned error is only set when enumeration itself failed.
func (s *Service) ListNotes(ctx context.Context) ([]NoteInfo, []error, error) {
	var (
		notes  []NoteInfo
		issues []error
	)
	for info, err := range s.repo.List(ctx) {
		if err != nil {
			if info.File == "" {
				return notes, issues, err
			}
			issues = append(issues, err)
			continue
		}
		notes = append(notes, info)
	}
	return notes, issues, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, title string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return s.repo.Delete(ctx, title)
}

// RenameNote moves a note to a new title.
func (s *Service) RenameNote(ctx context.Context, oldTitle, newTitle string) error {
	if err := ValidateTitle(oldTitle); err != nil {
		return err
	}
	if err := ValidateTitle(newTitle); err != nil {
		return err
	}
	return s.repo.Rename(ctx, oldTitle, newTitle)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	if pattern == "" {
		pattern = w.Pattern()
	}
	return w.Watch(ctx, pattern)
}
