package cmd

import (
	"fmt"
	"sync"
	"sync/atomic"

	"games-launcher/fetcher"
	"games-launcher/library"
	"games-launcher/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Downloads and extracts update archives",
	Long: `Fetches the update archive for one game, or for every game in the
library that has an update descriptor. Each update downloads the archive
to its configured destination and unpacks it into the target directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, store, client := bootstrap(".")
		records := mustLoadLibrary(store)

		if len(args) == 1 {
			record, ok := findRecord(records, args[0])
			if !ok {
				logger.Log.Fatalw("Unknown game id", zap.String("game_id", args[0]))
			}
			if !record.HasUpdate() {
				logger.Log.Fatalw("Game has no update descriptor", zap.String("game_id", record.ID))
			}
			records = []library.GameRecord{record}
		}

		runUpdates(func(rec library.GameRecord) (*fetcher.ApplyResult, error) {
			return runRecordUpdate(client, rec)
		}, records)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

// runUpdates fetches every record's update concurrently, one goroutine per
// record. Destinations are disjoint by configuration, so the updates share
// no state beyond the counters.
func runUpdates(update func(library.GameRecord) (*fetcher.ApplyResult, error), records []library.GameRecord) {
	var appliedCount atomic.Int64
	var failedCount atomic.Int64
	var skippedCount atomic.Int64
	var wg sync.WaitGroup

	for _, record := range records {
		if !record.HasUpdate() {
			skippedCount.Add(1)
			continue
		}

		wg.Add(1)
		go func(rec library.GameRecord) {
			defer wg.Done()

			result, err := update(rec)
			if err != nil {
				failedCount.Add(1)
				fmt.Println(failureMessage(rec.ID, err))
				return
			}

			appliedCount.Add(1)
			fmt.Printf("%s: update applied, %d files extracted to %s\n",
				rec.ID, len(result.Extracted), rec.Update.ExtractTo)
		}(record)
	}

	wg.Wait()

	logger.Log.Infof("Finished. Applied %d updates, %d failed, %d without update descriptors.",
		appliedCount.Load(), failedCount.Load(), skippedCount.Load())
}
