package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/report"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

func newHistoryCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved analyses",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved analyses, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					records := s.ws.History().List()
					out := cmd.OutOrStdout()
					if len(records) == 0 {
						fmt.Fprintln(out, "No saved analyses.")
						return nil
					}
					for _, r := range records {
						fmt.Fprintf(out, "%s  %s  média %.1f\n", r.ID, r.FormattedDate, r.AverageScore)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print one saved analysis",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					r, ok := s.ws.History().Get(args[0])
					if !ok {
						return workspace.ErrRecordNotFound
					}
					printRecord(cmd.OutOrStdout(), r)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a saved analysis",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					if !s.ws.History().Remove(args[0]) {
						fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete.")
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "restore <id>",
			Short: "Make a saved analysis the active wheel",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					if err := s.ws.Restore(args[0]); err != nil {
						return err
					}
					printWheel(cmd.OutOrStdout(), s.ws.Manager().View())
					return nil
				})
			},
		},
	)
	return cmd
}

func printRecord(w io.Writer, r models.AnalysisRecord) {
	fmt.Fprintf(w, "%s (%s)\n", r.FormattedDate, r.ID)
	for _, c := range report.Categories(r) {
		fmt.Fprintf(w, "  %-32s %2d\n", c, r.Scores[c])
	}
	fmt.Fprintf(w, "Média: %.1f\n", r.AverageScore)
	if r.UserNotes != "" {
		fmt.Fprintf(w, "Notas: %s\n", r.UserNotes)
	}
	fmt.Fprintf(w, "\n%s\n", report.CleanMarkdown(r.AIResponse))
	for _, g := range r.SmartGoals {
		fmt.Fprintf(w, "  %s: %s\n", g.Area, g.Goal)
	}
}
