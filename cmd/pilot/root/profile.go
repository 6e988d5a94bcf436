package root

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"pilot/internal/models"
	"pilot/internal/ui"
	"strings"
)

func newOnboardCmd() *cobra.Command {
	var name string
	var theme string

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Finish first-run setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.CompleteOnboarding(cmd.Context(), optional(strings.TrimSpace(name)), strings.TrimSpace(theme))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Welcome aboard"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Theme", p.SelectedTheme))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "What Pilot should call you")
	cmd.Flags().StringVar(&theme, "theme", "", "Colour theme")
	return cmd
}

func newTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <free|premium|pro|elite>",
		Short: "Set the subscription tier",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("tier is required")
			}
			_, err := models.ParseSubscriptionTier(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, _ := models.ParseSubscriptionTier(args[0])
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.SetSubscriptionTier(cmd.Context(), tier)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Tier", p.SubscriptionTier.DisplayName()))
			return nil
		},
	}
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme <name>",
		Short: "Change the colour theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.UpdateTheme(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Theme", p.SelectedTheme))
			return nil
		},
	}
}
