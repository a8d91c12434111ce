package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/wheel"
)

func newWheelCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wheel",
		Short: "Show and edit the active wheel",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the active wheel",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					printWheel(cmd.OutOrStdout(), s.ws.Manager().View())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "score <category> <value>",
			Short: "Set the score of one area (0-10)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					m := s.ws.Manager()
					if !m.SetScore(args[0], args[1]) {
						if m.View().SettingUp {
							return fmt.Errorf("custom wheel setup in progress")
						}
						return fmt.Errorf("unknown category %q", args[0])
					}
					printWheel(cmd.OutOrStdout(), m.View())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "notes <text>",
			Short: "Replace the notes of the active wheel",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return e.withSession(cmd, func(s *session) error {
					if !s.ws.Manager().SetNotes(strings.Join(args, " ")) {
						return fmt.Errorf("custom wheel setup in progress")
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Notes updated.")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "mode <standard|custom>",
			Short:     "Switch between the standard and custom wheel",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(models.ModeStandard), string(models.ModeCustom)},
			RunE: func(cmd *cobra.Command, args []string) error {
				mode := models.Mode(args[0])
				if !mode.Valid() {
					return fmt.Errorf("mode must be standard or custom")
				}
				return e.withSession(cmd, func(s *session) error {
					s.ws.Manager().SwitchMode(mode)
					v := s.ws.Manager().View()
					if v.SettingUp {
						fmt.Fprintln(cmd.OutOrStdout(), "No custom wheel yet. Run 'roda setup' to create one.")
						return nil
					}
					printWheel(cmd.OutOrStdout(), v)
					return nil
				})
			},
		},
	)
	return cmd
}

func printWheel(w io.Writer, v wheel.View) {
	fmt.Fprintf(w, "Mode: %s\n", v.Mode)
	if v.SettingUp {
		fmt.Fprintf(w, "Setup in progress (%s)\n", v.Setup.Name())
		return
	}
	for _, c := range v.Categories {
		score := v.Scores[c]
		fmt.Fprintf(w, "  %-32s %2d  %s\n", c, score, wheel.ScoreBand(score))
	}
	if len(v.Categories) > 0 {
		fmt.Fprintf(w, "Average: %.1f\n", wheel.AverageScore(v.Categories, v.Scores))
	}
	if v.Notes != "" {
		fmt.Fprintf(w, "Notes: %s\n", v.Notes)
	}
}
