// Package jot is the composition root of a small single-user note store.
//
// Every note is one file named after its title in a notes directory
// (JSON by default, YAML on request). An optional activity watcher observes
// that directory and appends a human-readable line to an audit log for every
// change it sees, whether jot or another program made it.
//
// Usage:
//
//	svc, err := jot.New("./notes", jot.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	w, err := jot.NewWatcher(svc)
//	if err != nil {
//		return err
//	}
//	if err := w.Start(ctx); err != nil {
//		return err
//	}
//	defer w.Stop(context.Background())
//
//	err = svc.CreateNote(ctx, "Groceries", "milk, eggs")
//
// The store and the watcher never call each other: the watcher learns about
// changes from file system notifications only, so logging is best-effort and
// can never fail a note operation.
package jot
