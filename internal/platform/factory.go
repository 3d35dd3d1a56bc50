package platform

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/jot/pkg/activity"
	"github.com/aretw0/jot/pkg/adapters/fs"
	"github.com/aretw0/jot/pkg/core"
)

// New creates a note service over the directory at uri.
//
//	svc, err := jot.New("./notes", jot.WithExtension(".yaml"))
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}
	return core.NewService(repo), nil
}

// Init resolves and prepares the notes directory and returns the repository.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := buildOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	repo := initFS(uri, o)
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS handles path resolution and configuration of the filesystem adapter.
func initFS(path string, o *options) *fs.Repository {
	// Read-only is inherently safe, so it always uses the real path.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveNotesPath(path, useTemp)

	if o.logger != nil && resolvedPath != filepath.Clean(path) && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		Extension:    o.extension,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		StrictCreate: o.strictCreate,
		Strict:       o.strict,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
		EventBuffer:  o.eventBuffer,
		Debounce:     o.debounce,
	})
}

// NewWatcher creates a stopped activity watcher for the service's notes.
// The service's repository must support watching.
func NewWatcher(svc *core.Service, opts ...Option) (*activity.Watcher, error) {
	o := buildOptions(opts)

	source, ok := svc.Repository().(core.Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}

	logPath, err := resolveLogPath(svc.Repository(), o.logFile)
	if err != nil {
		return nil, err
	}

	return activity.NewWatcher(source, activity.Config{
		LogPath:      logPath,
		TimeLayout:   o.timeLayout,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	}), nil
}

// LogPath returns where the activity log of the service lives.
func LogPath(svc *core.Service, opts ...Option) (string, error) {
	return resolveLogPath(svc.Repository(), buildOptions(opts).logFile)
}

func resolveLogPath(repo core.Repository, logFile string) (string, error) {
	if logFile == "" {
		logFile = activity.DefaultLogName
	}

	fsRepo, isFS := repo.(*fs.Repository)
	if isFS && strings.HasSuffix(logFile, fsRepo.Extension()) {
		return "", fmt.Errorf("activity log %q must not use the note extension %s", logFile, fsRepo.Extension())
	}

	if filepath.IsAbs(logFile) {
		return logFile, nil
	}
	if !isFS {
		return "", fmt.Errorf("activity log %q must be an absolute path for this repository", logFile)
	}
	return filepath.Join(fsRepo.Path, logFile), nil
}
