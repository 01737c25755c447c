package cmd

import (
	"fmt"
	"os"

	"games-launcher/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Launches a game from the library",
	Long: `Starts the game's executable as a detached process with its
configured working directory. The launcher does not wait on the game.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, store, _ := bootstrap(".")
		records := mustLoadLibrary(store)

		record, ok := findRecord(records, args[0])
		if !ok {
			logger.Log.Fatalw("Unknown game id", zap.String("game_id", args[0]))
		}

		pid, err := runRecordLaunch(record)
		if err != nil {
			fmt.Fprintln(os.Stderr, failureMessage(record.ID, err))
			os.Exit(1)
		}

		if pid > 0 {
			fmt.Printf("Launched %s (pid %d)\n", record.DisplayName(), pid)
		} else {
			fmt.Printf("Opened %s\n", record.DisplayName())
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
