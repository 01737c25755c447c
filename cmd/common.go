package cmd

import (
	"errors"
	"fmt"

	"games-launcher/config"
	"games-launcher/db"
	"games-launcher/fetcher"
	"games-launcher/launcher"
	"games-launcher/library"
	"games-launcher/logger"

	"go.uber.org/zap"
)

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) (config.Config, *library.Store, *fetcher.Client) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
	}

	db.InitDatabase(cfg.DatabasePath)
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	store := library.NewStore(cfg.LibraryPath)
	client := fetcher.NewClient(cfg)

	return cfg, store, client
}

// mustLoadLibrary loads the record collection or exits. A document the
// launcher cannot parse is fatal to startup; the error carries the parse
// location.
func mustLoadLibrary(store *library.Store) []library.GameRecord {
	records, err := store.Load()
	if err != nil {
		logger.Log.Fatalw("Failed to load library document",
			zap.String("path", store.Path()),
			zap.Error(err),
		)
	}
	return records
}

// findRecord locates a record by id.
func findRecord(records []library.GameRecord, id string) (library.GameRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return library.GameRecord{}, false
}

// failureMessage turns one of the typed operation errors into the inline
// message shown at the presentation boundary, naming the record and the
// step that failed. None of these terminate the application.
func failureMessage(id string, err error) string {
	var (
		downloadErr *fetcher.DownloadError
		corruptErr  *fetcher.CorruptArchiveError
		extractErr  *fetcher.ExtractError
		launchErr   *launcher.LaunchError
		dupErr      *library.DuplicateIDError
		missErr     *library.NotFoundError
		loadErr     *library.LoadError
	)

	switch {
	case errors.As(err, &downloadErr):
		return fmt.Sprintf("%s: download failed: %v", id, downloadErr.Err)
	case errors.As(err, &corruptErr):
		return fmt.Sprintf("%s: downloaded file is not a valid archive", id)
	case errors.As(err, &extractErr):
		return fmt.Sprintf("%s: extraction failed on %q: %v", id, extractErr.Entry, extractErr.Err)
	case errors.As(err, &launchErr):
		return fmt.Sprintf("%s: launch failed: %v", id, launchErr.Err)
	case errors.As(err, &dupErr):
		return fmt.Sprintf("id %q is already in the library", dupErr.ID)
	case errors.As(err, &missErr):
		return fmt.Sprintf("id %q is not in the library", missErr.ID)
	case errors.As(err, &loadErr):
		return fmt.Sprintf("library document unreadable: %v", err)
	default:
		return fmt.Sprintf("%s: %v", id, err)
	}
}

// runRecordUpdate performs fetch-and-apply for one record and writes the
// outcome to the history ledger. Only filesystem state changes; the
// library document is never mutated by an update.
func runRecordUpdate(client *fetcher.Client, record library.GameRecord) (*fetcher.ApplyResult, error) {
	opLogger := logger.Log.With(
		zap.String("game_id", record.ID),
		zap.String("game_title", record.DisplayName()),
	)

	if !record.HasUpdate() {
		return nil, fmt.Errorf("record %q has no update descriptor", record.ID)
	}
	spec := *record.Update

	opLogger.Infow("Fetching update",
		zap.String("url", spec.URL),
		zap.String("dest", spec.Dest),
	)

	result, err := client.FetchAndApply(opLogger, spec)

	event := db.UpdateEvent{
		GameID:    record.ID,
		URL:       spec.URL,
		Dest:      spec.Dest,
		ExtractTo: spec.ExtractTo,
	}
	if err != nil {
		event.Status = db.StatusFailed
		event.Detail = err.Error()
		opLogger.Errorw("Update failed", zap.Error(err))
	} else {
		event.Status = db.StatusApplied
		event.Files = len(result.Extracted)
	}
	if db.DB != nil {
		if dbErr := db.DB.Create(&event).Error; dbErr != nil {
			opLogger.Warnw("Failed to record update event", zap.Error(dbErr))
		}
	}

	return result, err
}

// runRecordLaunch starts a record's game detached and records the launch.
func runRecordLaunch(record library.GameRecord) (int, error) {
	opLogger := logger.Log.With(
		zap.String("game_id", record.ID),
		zap.String("game_title", record.DisplayName()),
	)

	pid, err := launcher.Launch(record)
	if err != nil {
		opLogger.Errorw("Launch failed", zap.Error(err))
		return 0, err
	}

	opLogger.Infow("Launched", zap.String("path", record.GamePath), zap.Int("pid", pid))
	if db.DB != nil {
		event := db.LaunchEvent{GameID: record.ID, Path: record.GamePath, PID: pid}
		if dbErr := db.DB.Create(&event).Error; dbErr != nil {
			opLogger.Warnw("Failed to record launch event", zap.Error(dbErr))
		}
	}
	return pid, nil
}
