package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"

	"github.com/benvon/roda-da-vida/internal/database"
	"github.com/benvon/roda-da-vida/internal/models"
)

// newRatelimitCmd creates the ratelimit configuration command with list and set subcommands.
func newRatelimitCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Manage the AI route rate limit",
		Long:  "List or update the rate limit (e.g. 5-S, 20-M). Stored in the database; the server reloads it every minute.",
	}
	cmd.AddCommand(newRatelimitListCmd(e))
	cmd.AddCommand(newRatelimitSetCmd(e))
	return cmd
}

func (e *env) ratelimitRepo(s *session) (*database.RatelimitConfigRepository, error) {
	if s.backend.DB == nil {
		return nil, fmt.Errorf("rate limit configuration needs a sqlite or postgres storage driver")
	}
	return database.NewRatelimitConfigRepository(s.backend.DB), nil
}

func newRatelimitListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List current rate limit configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				repo, err := e.ratelimitRepo(s)
				if err != nil {
					return err
				}
				c, err := repo.Get(cmd.Context())
				if err != nil {
					return fmt.Errorf("get ratelimit config: %w", err)
				}
				out := cmd.OutOrStdout()
				if c == nil {
					fmt.Fprintf(out, "No rate limit configuration in database; the server uses %s. Use 'ratelimit set' to add one.\n", s.cfg.RateLimit)
					return nil
				}
				fmt.Fprintln(out, "Rate limit configuration:")
				fmt.Fprintf(out, "  Rate: %s\n", c.Rate)
				return nil
			})
		},
	}
}

func newRatelimitSetCmd(e *env) *cobra.Command {
	var rate string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set rate limit configuration",
		Long:  "Update rate limit (e.g. 5-S, 20-M, 1000-H). Stored in database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rate = strings.TrimSpace(rate)
			if rate == "" {
				return fmt.Errorf("--rate is required (e.g. 5-S, 20-M)")
			}
			if _, err := limiter.NewRateFromFormatted(rate); err != nil {
				return fmt.Errorf("invalid rate %q: %w", rate, err)
			}
			return e.withSession(cmd, func(s *session) error {
				repo, err := e.ratelimitRepo(s)
				if err != nil {
					return err
				}
				if err := repo.Set(cmd.Context(), &models.RatelimitConfig{Rate: rate}); err != nil {
					return fmt.Errorf("set ratelimit config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rate limit configuration updated.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "Rate (e.g. 5-S, 20-M, 1000-H) (required)")
	return cmd
}
