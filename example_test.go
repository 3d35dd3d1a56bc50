package jot_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/jot"
)

// Example_basic creates, renames and lists notes.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "jot-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := jot.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	if err := svc.CreateNote(ctx, "Groceries", "milk, eggs"); err != nil {
		log.Fatal(err)
	}
	if err := svc.RenameNote(ctx, "Groceries", "Shopping"); err != nil {
		log.Fatal(err)
	}

	for info, err := range svc.Notes(ctx) {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(info.Title)
	}

	n, err := svc.ReadNote(ctx, "Shopping")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(n.Content)
	// Output:
	// Shopping
	// milk, eggs
}

// Example_errors shows how failures map to sentinel errors.
func Example_errors() {
	tmpDir, err := os.MkdirTemp("", "jot-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := jot.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	_, err = svc.ReadNote(ctx, "missing")
	fmt.Println(errors.Is(err, jot.ErrNotFound))

	_ = svc.CreateNote(ctx, "a", "1")
	_ = svc.CreateNote(ctx, "b", "2")
	fmt.Println(errors.Is(svc.RenameNote(ctx, "a", "b"), jot.ErrConflict))

	fmt.Println(errors.Is(svc.CreateNote(ctx, "../escape", "x"), jot.ErrInvalidTitle))
	// Output:
	// true
	// true
	// true
}
