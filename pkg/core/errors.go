package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound     = errors.New("note not found")
	ErrConflict     = errors.New("note already exists")
	ErrParse        = errors.New("note is not valid")
	ErrInvalidTitle = errors.New("invalid note title")
	ErrReadOnly     = errors.New("repository is in read-only mode")
)

// ParseError reports a note file whose content could not be decoded.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
