package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/validation"
	"github.com/benvon/roda-da-vida/internal/wheel"
)

func newSetupCmd(e *env) *cobra.Command {
	var (
		count int
		names string
	)
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Build a custom wheel",
		Long:  "Replace the custom wheel with new areas. Every area starts at 5 and the notes are cleared.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []string
			if names != "" {
				for _, n := range strings.Split(names, ",") {
					list = append(list, validation.StripControl(n))
				}
				if !cmd.Flags().Changed("count") {
					count = len(list)
				}
			}
			if list != nil && len(list) != count {
				return fmt.Errorf("--names has %d entries but --count is %d", len(list), count)
			}

			return e.withSession(cmd, func(s *session) error {
				m := s.ws.Manager()
				m.SwitchMode(models.ModeCustom)
				if !m.View().SettingUp {
					if err := m.EditCustomAreas(); err != nil {
						return err
					}
				}
				if err := m.SetSetupCount(count); err != nil {
					m.CancelSetup()
					return err
				}
				if err := m.ContinueSetup(); err != nil {
					m.CancelSetup()
					return err
				}
				if list != nil {
					if err := m.SetSetupNames(list); err != nil {
						m.CancelSetup()
						return err
					}
				}
				if _, err := m.FinishSetup(); err != nil {
					m.CancelSetup()
					return err
				}
				printWheel(cmd.OutOrStdout(), m.View())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", wheel.DefaultCustomCount, fmt.Sprintf("Number of areas (%d-%d)", wheel.MinCustomCategories, wheel.MaxCustomCategories))
	cmd.Flags().StringVar(&names, "names", "", "Comma separated area names (default Área 1..N)")
	return cmd
}
