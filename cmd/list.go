package cmd

import (
	"fmt"

	"games-launcher/library"
	"games-launcher/ui"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the game library",
	Run: func(_ *cobra.Command, _ []string) {
		_, store, _ := bootstrap(".")
		records := mustLoadLibrary(store)

		if len(records) == 0 {
			fmt.Println("Library is empty. Add a game with: games-launcher add <executable>")
			return
		}

		fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("%-20s %-30s %-8s %s", "ID", "Name", "Update", "Executable")))
		for _, record := range records {
			fmt.Println(renderListRow(record))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func renderListRow(record library.GameRecord) string {
	update := "-"
	if record.HasUpdate() {
		update = "yes"
	}
	return fmt.Sprintf(" %-20s %-30s %-8s %s",
		truncate(record.ID, 20),
		truncate(record.DisplayName(), 30),
		update,
		record.GamePath,
	)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
