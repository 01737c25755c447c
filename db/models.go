package db

import "gorm.io/gorm"

// Update outcomes recorded in the ledger.
const (
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// UpdateEvent records one fetch-and-apply attempt for a game.
type UpdateEvent struct {
	gorm.Model
	GameID    string `gorm:"index"` // Library record id
	URL       string // Archive source
	Dest      string // Where the archive was written
	ExtractTo string // Directory the archive was unpacked into
	Files     int    // Number of files extracted
	Status    string // applied or failed
	Detail    string // Failure reason, empty on success
}

// LaunchEvent records one game launch.
type LaunchEvent struct {
	gorm.Model
	GameID string `gorm:"index"` // Library record id
	Path   string // Executable or protocol URL
	PID    int    // Child pid, 0 for protocol launches
}
