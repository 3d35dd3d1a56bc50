package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <title> [content]",
		Short: "Create a note, replacing any note with the same title",
		Long:  `Create a note. Content is taken from the second argument or, when omitted, read from stdin.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]

			var content string
			if len(args) == 2 {
				content = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read content: %w", err)
				}
				content = strings.TrimRight(string(data), "\r\n")
			}

			svc, _, err := a.open()
			if err != nil {
				return err
			}
			if err := svc.CreateNote(cmd.Context(), title, content); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' saved.\n", title)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open()
			if err != nil {
				return err
			}

			notes, issues, err := svc.ListNotes(cmd.Context())
			if err != nil {
				return err
			}
			for _, issue := range issues {
				slog.Warn("skipping unreadable note", "error", issue)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(notes)
			}

			if len(notes) == 0 {
				fmt.Fprintln(out, "No notes found.")
				return nil
			}
			for _, n := range notes {
				fmt.Fprintf(out, "%s\t%s\n", n.Title, n.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newReadCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "read <title>",
		Short: "Print a note",
		Long:  `Read a note by its title. Outputs the content by default, or the whole note as JSON with --json.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open()
			if err != nil {
				return err
			}

			note, err := svc.ReadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(note)
			}

			fmt.Fprintln(out, note.Content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open()
			if err != nil {
				return err
			}
			if err := svc.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' deleted.\n", args[0])
			return nil
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a note",
		Long:  `Rename a note. Fails if a note with the new title already exists.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := a.open()
			if err != nil {
				return err
			}
			if err := svc.RenameNote(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' renamed to '%s'.\n", args[0], args[1])
			return nil
		},
	}
}
