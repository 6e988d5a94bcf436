package root

import (
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"pilot/internal/ui"
)

func newInsightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Reflect on the past week (Premium)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			insight, err := svc.WeeklyInsight(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSparkle, "Your week"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Panel.Render(insight))
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every entry as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if output == "" || output == "-" {
				return svc.ExportEntries(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err != nil {
				return err
			}
			if err := svc.ExportEntries(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Good.Render(ui.IconDone+" Exported to "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "File to write, - for stdout")
	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every entry, chat, and the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("This erases all local data. Re-run with --yes to confirm."))
				return nil
			}
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.ResetAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" All data erased"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
