package root

import (
	"fmt"
	"io"
	"pilot/internal/di"
	"pilot/internal/models"
	"pilot/internal/services"
	"pilot/internal/structures"
	"pilot/internal/ui"
	"time"
)

// openSession builds the full dependency graph on defaults when no config file exists.
// Milestones reached during the command are printed to out.
func openSession(out io.Writer) (services.SessionServiceInterface, func(), error) {
	app, err := di.InitApp(&structures.CliFlags{
		ConfigPath:         configPath,
		DebugMode:          debugMode,
		AllowMissingConfig: true,
	})
	if err != nil {
		return nil, nil, err
	}
	svc := app.Session()
	svc.SetMilestoneNotifier(func(_ int, message string) {
		fmt.Fprintln(out, ui.Gold.Render(message))
	})
	return svc, app.Close, nil
}

func errorText(err error) string {
	return models.UserMessage(err)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dateOrToday(date string) string {
	if date == "" {
		return models.DateKey(time.Now())
	}
	return date
}
