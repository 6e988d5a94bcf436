package root

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"pilot/internal/models"
	"pilot/internal/ui"
	"strings"
)

func newGenerateCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "generate <mood>",
		Short: "Log today's mood and get a task (" + moodList() + ")",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("mood is required")
			}
			_, err := models.ParseMood(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, _ := models.ParseMood(args[0])
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			entry, err := svc.GenerateDailyTask(cmd.Context(), mood, optional(strings.TrimSpace(note)))
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Optional note about how you feel")
	return cmd
}

func newRegenerateCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Replace a day's task with a new one (Premium)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openSession(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			entry, err := svc.RegenerateTask(cmd.Context(), dateOrToday(date))
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to regenerate (YYYY-MM-DD, default today)")
	return cmd
}

func printEntry(out io.Writer, entry models.Entry) {
	title := fmt.Sprintf("%s (%s)", entry.Date, entry.Mood.DisplayName())
	body := []string{ui.H2.Render(entry.Task), "", entry.Reflection}
	if entry.Insight != nil {
		body = append(body, "", ui.Muted.Render(*entry.Insight))
	}
	if entry.Emotion != nil {
		body = append(body, "", ui.LabelValue("Detected", *entry.Emotion))
	}
	fmt.Fprintln(out, ui.Heading(ui.IconSparkle, title))
	fmt.Fprintln(out, ui.Panel.Render(strings.Join(body, "\n")))
	if v := entry.CurrentVersion(); v > 1 {
		fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("version %d", v)))
	}
}

func moodList() string {
	names := make([]string, 0, len(models.Moods))
	for _, m := range models.Moods {
		names = append(names, m.String())
	}
	return strings.Join(names, "|")
}
