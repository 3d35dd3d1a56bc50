package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/internal/config"
	"github.com/aretw0/jot/internal/platform"
)

// app holds global flags shared by every subcommand.
type app struct {
	verbose  bool
	dir      string
	readOnly bool
	envFile  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "jot",
		Short: "A tiny note store with an activity log",
		Long: `jot keeps one file per note in a directory and, while "jot watch" runs,
appends a line to an activity log for every change made to that directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			slog.SetDefault(logger)

			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}
			return config.LoadEnv(files...)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&a.dir, "dir", "d", "", "Notes directory (default $JOT_DIR or ~/Documents/NotesData)")
	rootCmd.PersistentFlags().BoolVar(&a.readOnly, "read-only", false, "Refuse every write")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load environment from this file instead of ./.env")

	rootCmd.AddCommand(
		newCreateCmd(a),
		newListCmd(a),
		newReadCmd(a),
		newDeleteCmd(a),
		newRenameCmd(a),
		newWatchCmd(a),
		newLogCmd(a),
	)
	return rootCmd
}

// options resolves the notes directory and turns its .jot.yaml into options.
func (a *app) options() (string, []jot.Option, error) {
	cwd, _ := os.Getwd()
	dir, err := platform.ResolveDir(a.dir, cwd)
	if err != nil {
		return "", nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return "", nil, err
	}

	opts := []jot.Option{
		jot.WithLogger(slog.Default()),
		jot.WithReadOnly(a.readOnly || cfg.ReadOnly),
		jot.WithStrictCreate(cfg.StrictCreate),
	}
	if cfg.Extension != "" {
		opts = append(opts, jot.WithExtension(cfg.Extension))
	}
	if cfg.LogFile != "" {
		opts = append(opts, jot.WithLogFile(cfg.LogFile))
	}
	if cfg.TimeLayout != "" {
		opts = append(opts, jot.WithTimeLayout(cfg.TimeLayout))
	}
	if cfg.Debounce != 0 {
		opts = append(opts, jot.WithDebounce(time.Duration(cfg.Debounce)))
	}
	if cfg.EventBuffer > 0 {
		opts = append(opts, jot.WithEventBuffer(cfg.EventBuffer))
	}
	return dir, opts, nil
}

func (a *app) open() (*jot.Service, []jot.Option, error) {
	dir, opts, err := a.options()
	if err != nil {
		return nil, nil, err
	}
	svc, err := jot.New(dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, opts, nil
}
