package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/jot"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

// describe turns a store error into one line a person can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, jot.ErrNotFound):
		return fmt.Sprintf("no such note (%v)", err)
	case errors.Is(err, jot.ErrConflict):
		return fmt.Sprintf("a note with that title already exists (%v)", err)
	case errors.Is(err, jot.ErrInvalidTitle):
		return fmt.Sprintf("titles cannot contain path separators or reserved characters (%v)", err)
	case errors.Is(err, jot.ErrParse):
		return fmt.Sprintf("note file is corrupt (%v)", err)
	case errors.Is(err, jot.ErrReadOnly):
		return "notes directory is opened read-only"
	default:
		return err.Error()
	}
}
