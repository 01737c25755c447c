package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the interactive library when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "games-launcher",
	Short: "A game library launcher for the terminal",
	Long: `games-launcher keeps a JSON library of configured games and lets you
browse it, launch games, fetch per-game news, and download and extract
update archives.`,
	Run: func(_ *cobra.Command, _ []string) {
		runGUI()
	},
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
