package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benvon/roda-da-vida/internal/services/entitlement"
)

func newPremiumCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Inspect or grant premium features",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Print the email and premium flags",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					g := s.ws.Gate()
					email := g.Email()
					if email == "" {
						email = "(none)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Email: %s\nPremium: %t\n", email, g.IsPremium())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "grant",
			Short: "Unlock SMART goals and PDF export without payment",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					s.ws.Gate().GrantPremium()
					fmt.Fprintln(cmd.OutOrStdout(), "Premium granted.")
					return nil
				})
			},
		},
	)
	return cmd
}

func newEmailCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "email <address>",
		Short: "Capture the email required before the first analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				if err := s.ws.Gate().CaptureEmail(args[0]); err != nil {
					if errors.Is(err, entitlement.ErrInvalidEmail) {
						return errors.New(entitlement.InvalidEmailText)
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Email saved.")
				return nil
			})
		},
	}
}
