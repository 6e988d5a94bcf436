package root

import (
	"github.com/spf13/cobra"
	"pilot/internal/di"
	"pilot/internal/structures"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := di.InitApp(&structures.CliFlags{
				ConfigPath: configPath,
				DebugMode:  debugMode,
			})
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
}
