package root

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"pilot/internal/models"
	"pilot/internal/quota"
	"pilot/internal/ui"
	"strings"
)

func newChatCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Talk about a day's task (uses a chat credit on the free tier)",
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("message is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			thread, err := svc.SendChatMessage(cmd.Context(), dateOrToday(date), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if n := len(thread.Messages); n > 0 && thread.Messages[n-1].Role == models.RoleAssistant {
				fmt.Fprintln(out, ui.H2.Render(ui.IconChat+" Pilot"))
				fmt.Fprintln(out, thread.Messages[n-1].Content)
			}
			p := svc.Snapshot().Profile
			if !quota.IsEntitled(p.SubscriptionTier) {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("%d chat credits left", p.ChatCredits)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the conversation is about (YYYY-MM-DD, default today)")
	return cmd
}
