package root

import (
	"fmt"
	"github.com/spf13/cobra"
	"pilot/internal/quota"
	"pilot/internal/ui"
)

func newVoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Show this month's voice check-in allowance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			allowance, err := svc.VoiceAllowance(cmd.Context())
			if err != nil {
				return err
			}
			printVoice(cmd, allowance)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "checkin",
		Short: "Use one voice check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			allowance, err := svc.UseVoiceCheckIn(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconMic+" Check-in recorded"))
			printVoice(cmd, allowance)
			return nil
		},
	})
	return cmd
}

func printVoice(cmd *cobra.Command, a quota.VoiceAllowance) {
	fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Voice", ui.Remaining(a.Remaining, a.Limit)))
	fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Used this month", a.Used))
}
