package cmd

import (
	"fmt"

	"games-launcher/db"
	"games-launcher/logger"
	"games-launcher/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const historyLimit = 20

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Shows recent update and launch events",
	Long: `Prints the most recent entries from the history ledger, optionally
filtered to one game id.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		bootstrap(".")

		gameID := ""
		if len(args) == 1 {
			gameID = args[0]
		}
		printHistory(gameID)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func printHistory(gameID string) {
	var updates []db.UpdateEvent
	query := db.DB.Order("created_at DESC").Limit(historyLimit)
	if gameID != "" {
		query = query.Where("game_id = ?", gameID)
	}
	if err := query.Find(&updates).Error; err != nil {
		logger.Log.Fatalw("Failed to query update history", zap.Error(err))
	}

	var launches []db.LaunchEvent
	query = db.DB.Order("created_at DESC").Limit(historyLimit)
	if gameID != "" {
		query = query.Where("game_id = ?", gameID)
	}
	if err := query.Find(&launches).Error; err != nil {
		logger.Log.Fatalw("Failed to query launch history", zap.Error(err))
	}

	if len(updates) == 0 && len(launches) == 0 {
		fmt.Println("No history yet.")
		return
	}

	if len(updates) > 0 {
		fmt.Println(ui.TitleStyle.Render("Updates"))
		for _, e := range updates {
			line := fmt.Sprintf(" %s  %-20s %-8s %d files  %s",
				e.CreatedAt.Format("2006-01-02 15:04"), e.GameID, e.Status, e.Files, e.URL)
			if e.Status == db.StatusFailed {
				line = ui.StatusError.Render(line)
			}
			fmt.Println(line)
		}
	}

	if len(launches) > 0 {
		fmt.Println(ui.TitleStyle.Render("Launches"))
		for _, e := range launches {
			fmt.Printf(" %s  %-20s pid %-8d %s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), e.GameID, e.PID, e.Path)
		}
	}
}
