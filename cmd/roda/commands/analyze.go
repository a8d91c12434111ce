package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benvon/roda-da-vida/internal/report"
	"github.com/benvon/roda-da-vida/internal/services/ai"
	"github.com/benvon/roda-da-vida/internal/services/analysis"
)

func (e *env) textGenerator(s *session) ai.TextGenerator {
	if e.generator != nil {
		return e.generator
	}
	cfg := s.cfg
	gen, err := ai.DefaultRegistry().GetProvider(cfg.AIProvider, ai.ProviderConfig{
		APIKey:    cfg.AIKey(),
		Model:     cfg.AIModel,
		BaseURL:   cfg.AIBaseURL,
		Logger:    s.log,
		DebugMode: e.debug,
	})
	if err != nil {
		s.log.Warn("ai_provider_unavailable_using_offline_mode")
		gen, _ = ai.DefaultRegistry().GetProvider("static", ai.ProviderConfig{})
	}
	return gen
}

func newAnalyzeCmd(e *env) *cobra.Command {
	var goals bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Ask the AI coach about the active wheel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			ws := s.ws
			out := cmd.OutOrStdout()

			ws.Lock()
			if ws.Gate().NeedsEmail() {
				ws.Unlock()
				return fmt.Errorf("capture an email first: roda email <address>")
			}
			if goals && !ws.Gate().IsPremium() {
				ws.Unlock()
				return fmt.Errorf("SMART goals are a premium feature: roda premium grant")
			}
			run, err := ws.BeginRun()
			ws.Unlock()
			if err != nil {
				return fmt.Errorf("finish the custom wheel setup first")
			}

			orch := analysis.NewOrchestrator(e.textGenerator(s), s.log, nil)
			ctx := ai.WithClientID(cmd.Context(), ws.ID())
			res := orch.Narrative(ctx, ws, run)
			if res.Dropped {
				return fmt.Errorf("analysis was cancelled")
			}
			fmt.Fprintln(out, report.CleanMarkdown(res.Text))
			if res.Fallback {
				fmt.Fprintln(out)
				fmt.Fprintln(out, res.Prompt)
				return nil
			}
			fmt.Fprintf(out, "\nSaved as %s\n", res.Record.ID)

			if !goals {
				return nil
			}
			list, err := orch.SmartGoals(ctx, ws, run)
			if err != nil {
				return fmt.Errorf("%s: %w", analysis.GoalsErrorText, err)
			}
			fmt.Fprintln(out, "\nMetas SMART:")
			for _, g := range list {
				fmt.Fprintf(out, "  %s: %s\n", g.Area, g.Goal)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&goals, "goals", false, "Also generate SMART goals (premium)")
	return cmd
}
