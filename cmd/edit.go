package cmd

import (
	"fmt"
	"os"

	"games-launcher/launcher"

	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Opens the library document in your editor",
	Long: `Opens games.json in the configured text editor (GAMES_EDITOR, then
EDITOR, then the platform default opener). There is no in-app editor;
the document is the interface.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg, store, _ := bootstrap(".")

		if err := launcher.OpenInEditor(cfg.Editor, store.Path()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
