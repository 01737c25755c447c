package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"games-launcher/library"

	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <executable>",
	Short: "Adds a game to the library",
	Long: `Synthesizes a minimal library record from an executable path. The id
is derived from the filename; every other field starts empty and can be
filled in with the edit command.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, store, _ := bootstrap(".")

		record, err := addGame(store, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, failureMessage(filepath.Base(args[0]), err))
			os.Exit(1)
		}
		fmt.Printf("Added %s (id %s)\n", record.DisplayName(), record.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

// addGame builds the minimal record for an executable and persists it.
func addGame(store *library.Store, executablePath string) (library.GameRecord, error) {
	records, err := store.Load()
	if err != nil {
		// A missing document is fine here; Add bootstraps it.
		records = nil
	}

	record := newRecordForExecutable(records, executablePath)
	if _, err := store.Add(record); err != nil {
		return library.GameRecord{}, err
	}
	return record, nil
}

// newRecordForExecutable synthesizes the minimal GameRecord for an
// executable path: derived id, filename stem as the title, the
// executable's directory as the working directory.
func newRecordForExecutable(records []library.GameRecord, executablePath string) library.GameRecord {
	stem := filepath.Base(executablePath)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	return library.GameRecord{
		ID:       library.DeriveID(records, executablePath),
		Name:     stem,
		GamePath: executablePath,
		WorkDir:  filepath.Dir(executablePath),
	}
}
