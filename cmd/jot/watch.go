package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/activity"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Append every change in the notes directory to the activity log",
		Long: `Watch runs in the foreground until interrupted. Changes made by any program,
not just jot, are recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, opts, err := a.open()
			if err != nil {
				return err
			}

			w, err := jot.NewWatcher(svc, opts...)
			if err != nil {
				return err
			}
			logPath, err := jot.LogPath(svc, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching notes, logging to %s. Press Ctrl+C to stop.\n", logPath)

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := w.Stop(stopCtx); err != nil {
				return fmt.Errorf("failed to stop watcher: %w", err)
			}

			state := w.State().(activity.WatcherState)
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped. %d entries written, %d dropped.\n", state.Appended, state.Failed)
			return nil
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the most recent activity log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, opts, err := a.open()
			if err != nil {
				return err
			}
			logPath, err := jot.LogPath(svc, opts...)
			if err != nil {
				return err
			}

			entries, err := activity.Tail(logPath, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity recorded.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of entries to show (0 for all)")
	return cmd
}
