package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/roda-da-vida/internal/report"
	"github.com/benvon/roda-da-vida/internal/workspace"
)

func newExportCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a saved analysis as a PDF report (premium)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				if !s.ws.Gate().IsPremium() {
					return fmt.Errorf("PDF export is a premium feature: roda premium grant")
				}
				r, ok := s.ws.History().Get(args[0])
				if !ok {
					return workspace.ErrRecordNotFound
				}
				path := out
				if path == "" {
					path = report.FileName(r)
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				if err := report.Export(f, r); err != nil {
					_ = f.Close()
					return fmt.Errorf("export: %w", err)
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (default roda-da-vida-<date>.pdf)")
	return cmd
}
