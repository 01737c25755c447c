package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenInEditor opens the given file with the configured editor. With no
// editor configured the platform's default opener takes over.
func OpenInEditor(editor, path string) error {
	if editor != "" {
		cmd := exec.Command(editor, path)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start editor %q: %w", editor, err)
		}
		_ = cmd.Process.Release()
		return nil
	}
	return openWithPlatform(path)
}

// openWithPlatform hands a path or URL to the OS default handler.
func openWithPlatform(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %q: %w", target, err)
	}
	_ = cmd.Process.Release()
	return nil
}
