package root

import (
	"fmt"
	"github.com/spf13/cobra"
	"pilot/internal/quota"
	"pilot/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's task, streak, and remaining allowances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			stats, err := svc.Stats(ctx)
			if err != nil {
				return err
			}
			voice, err := svc.VoiceAllowance(ctx)
			if err != nil {
				return err
			}
			state := svc.Snapshot()
			p := state.Profile
			out := cmd.OutOrStdout()

			greeting := "Status"
			if p.UserName != nil {
				greeting = "Hi, " + *p.UserName
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBook, greeting))
			fmt.Fprintln(out, ui.LabelValue("Tier", p.SubscriptionTier.DisplayName()))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Today"))
			if state.TodayEntry == nil {
				fmt.Fprintln(out, ui.Muted.Render("No task yet. Run `pilot generate <mood>`."))
			} else {
				fmt.Fprintf(out, "- %s %s\n", state.TodayEntry.Task, ui.CompletedText(state.TodayEntry.Completed))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconFire+" Streak"))
			fmt.Fprintln(out, ui.LabelValue("Current", stats.CurrentStreak))
			fmt.Fprintln(out, ui.LabelValue("Longest", stats.LongestStreak))
			fmt.Fprintln(out, ui.LabelValue("Completed", fmt.Sprintf("%d of %d (%d%%)", stats.CompletedEntries, stats.TotalEntries, stats.CompletionRate)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Allowances"))
			if quota.IsEntitled(p.SubscriptionTier) {
				fmt.Fprintln(out, ui.LabelValue("Tasks", ui.Remaining(quota.Unlimited, quota.Unlimited)))
				fmt.Fprintln(out, ui.LabelValue("Chat", ui.Remaining(quota.Unlimited, quota.Unlimited)))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Chat credits", p.ChatCredits))
			}
			fmt.Fprintln(out, ui.LabelValue("Voice", ui.Remaining(voice.Remaining, voice.Limit)))
			return nil
		},
	}
}
