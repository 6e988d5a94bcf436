package root

import (
	"fmt"
	"github.com/spf13/cobra"
	"pilot/internal/ui"
)

func newCompleteCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a day's task as done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.CompleteTask(cmd.Context(), dateOrToday(date))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" "+result.Entry.Task))
			fmt.Fprintln(out, ui.LabelValue("Current streak", result.Streak.CurrentStreak))
			fmt.Fprintln(out, ui.LabelValue("Longest streak", result.Streak.LongestStreak))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to complete (YYYY-MM-DD, default today)")
	return cmd
}
