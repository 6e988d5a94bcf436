package root

import (
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"pilot/internal/ui"
)

const Version = "0.1.0"

var (
	configPath string
	debugMode  bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pilot",
		Short:         "Pilot, a local-first mood journal with one small task a day",
		Long:          "Pilot records how you feel, suggests one small task for the day, and tracks your streak on this machine.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config.yml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Mirror logs to stderr")

	rootCmd.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newCompleteCmd(),
		newRegenerateCmd(),
		newChatCmd(),
		newStatusCmd(),
		newOnboardCmd(),
		newTierCmd(),
		newThemeCmd(),
		newVoiceCmd(),
		newInsightCmd(),
		newExportCmd(),
		newResetCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+errorText(err)))
		os.Exit(1)
	}
}
