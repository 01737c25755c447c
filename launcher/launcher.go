package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"games-launcher/library"
)

// LaunchError reports a game that could not be started: missing
// executable, or the OS refusing to spawn the process.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

var protocolPrefixes = []string{"http://", "https://", "steam://", "epic://"}

// IsProtocolPath reports whether a game_path is a URL-style target handed
// to the platform opener instead of being spawned directly.
func IsProtocolPath(path string) bool {
	for _, prefix := range protocolPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Launch starts the record's executable as a detached process: the
// launcher neither waits on it nor tracks its lifetime. The working
// directory comes from the record, falling back to the executable's own
// directory. Protocol-style paths are opened by the platform instead.
// Returns the child pid, or 0 for protocol launches.
func Launch(record library.GameRecord) (int, error) {
	path := record.GamePath
	if path == "" {
		return 0, &LaunchError{Path: path, Err: fmt.Errorf("record has no game_path")}
	}

	if IsProtocolPath(path) {
		if err := openWithPlatform(path); err != nil {
			return 0, &LaunchError{Path: path, Err: err}
		}
		return 0, nil
	}

	if _, err := os.Stat(path); err != nil {
		return 0, &LaunchError{Path: path, Err: err}
	}

	cmd := exec.Command(path, record.Args...)
	cmd.Dir = record.WorkingDir()

	if err := cmd.Start(); err != nil {
		return 0, &LaunchError{Path: path, Err: err}
	}

	pid := cmd.Process.Pid
	// Release the handle; the game's lifetime is not ours to manage.
	if err := cmd.Process.Release(); err != nil {
		return pid, nil
	}
	return pid, nil
}
