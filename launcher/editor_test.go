package launcher

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestOpenInEditor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script editor stand-in")
	}

	t.Run("spawns the configured editor with the document path", func(t *testing.T) {
		dir := t.TempDir()
		marker := filepath.Join(dir, "opened.txt")
		editor := filepath.Join(dir, "editor.sh")
		script := "#!/bin/sh\necho \"$1\" > " + marker + "\n"
		if err := os.WriteFile(editor, []byte(script), 0755); err != nil {
			t.Fatal(err)
		}

		document := filepath.Join(dir, "games.json")
		if err := OpenInEditor(editor, document); err != nil {
			t.Fatalf("OpenInEditor failed: %v", err)
		}

		for i := 0; i < 50; i++ {
			if _, err := os.Stat(marker); err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		payload, err := os.ReadFile(marker)
		if err != nil {
			t.Fatalf("editor was never invoked: %v", err)
		}
		if strings.TrimSpace(string(payload)) != document {
			t.Errorf("editor received %q, want %q", strings.TrimSpace(string(payload)), document)
		}
	})

	t.Run("missing editor binary", func(t *testing.T) {
		err := OpenInEditor(filepath.Join(t.TempDir(), "no-such-editor"), "games.json")
		if err == nil {
			t.Error("expected an error for a missing editor binary")
		}
	})
}
