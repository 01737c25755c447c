package fetcher

import (
	"archive/zip"
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"games-launcher/config"
	"games-launcher/library"

	"go.uber.org/zap"
)

func testClient() *Client {
	return NewClient(config.Config{UserAgent: "games-launcher-test"})
}

func noplog() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// buildZip builds an in-memory ZIP with the given entry names and bodies.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(body)); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish zip: %v", err)
	}
	return buf.Bytes()
}

func serveBytes(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAndApply(t *testing.T) {
	t.Run("downloads and extracts a remote zip", func(t *testing.T) {
		archive := buildZip(t, map[string]string{
			"bin/game.exe": "binary payload",
			"readme.txt":   "hello",
		})
		srv := serveBytes(t, archive)

		tmp := t.TempDir()
		spec := library.UpdateSpec{
			URL:       srv.URL + "/file.zip?download=token123",
			Dest:      filepath.Join(tmp, "u.zip"),
			ExtractTo: filepath.Join(tmp, "game"),
		}

		result, err := testClient().FetchAndApply(noplog(), spec)
		if err != nil {
			t.Fatalf("FetchAndApply failed: %v", err)
		}
		if len(result.Extracted) != 2 {
			t.Errorf("extracted %d files, want 2", len(result.Extracted))
		}

		payload, err := os.ReadFile(filepath.Join(tmp, "game", "bin", "game.exe"))
		if err != nil {
			t.Fatalf("extracted file missing: %v", err)
		}
		if string(payload) != "binary payload" {
			t.Errorf("extracted content = %q, want %q", payload, "binary payload")
		}
	})

	t.Run("follows redirects", func(t *testing.T) {
		archive := buildZip(t, map[string]string{"a.txt": "a"})
		final := serveBytes(t, archive)
		redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, final.URL, http.StatusFound)
		}))
		t.Cleanup(redirect.Close)

		tmp := t.TempDir()
		spec := library.UpdateSpec{
			URL:       redirect.URL + "/dl",
			Dest:      filepath.Join(tmp, "u.zip"),
			ExtractTo: filepath.Join(tmp, "out"),
		}

		if _, err := testClient().FetchAndApply(noplog(), spec); err != nil {
			t.Fatalf("FetchAndApply through redirect failed: %v", err)
		}
	})

	t.Run("non-success status is a download error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		t.Cleanup(srv.Close)

		tmp := t.TempDir()
		spec := library.UpdateSpec{
			URL:       srv.URL + "/file.zip",
			Dest:      filepath.Join(tmp, "u.zip"),
			ExtractTo: filepath.Join(tmp, "out"),
		}

		_, err := testClient().FetchAndApply(noplog(), spec)
		var downloadErr *DownloadError
		if !errors.As(err, &downloadErr) {
			t.Fatalf("error = %T, want *DownloadError", err)
		}
	})

	t.Run("garbage payload is a corrupt archive", func(t *testing.T) {
		srv := serveBytes(t, []byte("this is not a zip file"))

		tmp := t.TempDir()
		spec := library.UpdateSpec{
			URL:       srv.URL + "/file.zip",
			Dest:      filepath.Join(tmp, "u.zip"),
			ExtractTo: filepath.Join(tmp, "out"),
		}

		_, err := testClient().FetchAndApply(noplog(), spec)
		var corruptErr *CorruptArchiveError
		if !errors.As(err, &corruptErr) {
			t.Fatalf("error = %T, want *CorruptArchiveError", err)
		}
	})

	t.Run("download without extract target keeps the file", func(t *testing.T) {
		srv := serveBytes(t, []byte("plain file"))

		tmp := t.TempDir()
		spec := library.UpdateSpec{
			URL:  srv.URL + "/patch.bin",
			Dest: filepath.Join(tmp, "patch.bin"),
		}

		result, err := testClient().FetchAndApply(noplog(), spec)
		if err != nil {
			t.Fatalf("FetchAndApply failed: %v", err)
		}
		if result.Archive != spec.Dest {
			t.Errorf("Archive = %s, want %s", result.Archive, spec.Dest)
		}
		if _, err := os.Stat(spec.Dest); err != nil {
			t.Errorf("downloaded file missing: %v", err)
		}
	})
}

func TestFetchAndApplyRetry(t *testing.T) {
	// First fetch delivers a broken archive, the retry a good one. The
	// same spec must succeed on the second attempt: dest is overwritten
	// from scratch, nothing resumes.
	archive := buildZip(t, map[string]string{"bin/game.exe": "v2"})
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.Write(archive[:len(archive)/2]) // truncated zip
			return
		}
		w.Write(archive)
	}))
	t.Cleanup(srv.Close)

	tmp := t.TempDir()
	spec := library.UpdateSpec{
		URL:       srv.URL + "/file.zip",
		Dest:      filepath.Join(tmp, "u.zip"),
		ExtractTo: filepath.Join(tmp, "game"),
	}
	client := testClient()

	if _, err := client.FetchAndApply(noplog(), spec); err == nil {
		t.Fatal("first fetch should fail on the truncated archive")
	}

	result, err := client.FetchAndApply(noplog(), spec)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(result.Extracted) != 1 {
		t.Fatalf("retry extracted %d files, want 1", len(result.Extracted))
	}
	payload, err := os.ReadFile(filepath.Join(tmp, "game", "bin", "game.exe"))
	if err != nil || string(payload) != "v2" {
		t.Errorf("retry produced %q (%v), want complete v2 payload", payload, err)
	}
}

func TestExtractRejectsTraversal(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent traversal", "../../evil"},
		{"nested traversal", "ok/../../../evil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := buildZip(t, map[string]string{tt.entry: "payload"})
			srv := serveBytes(t, archive)

			base := t.TempDir()
			extractTo := filepath.Join(base, "inner", "target")
			spec := library.UpdateSpec{
				URL:       srv.URL + "/file.zip",
				Dest:      filepath.Join(base, "u.zip"),
				ExtractTo: extractTo,
			}

			_, err := testClient().FetchAndApply(noplog(), spec)
			var extractErr *ExtractError
			if !errors.As(err, &extractErr) {
				t.Fatalf("error = %T, want *ExtractError", err)
			}
			if !strings.Contains(extractErr.Entry, "evil") {
				t.Errorf("ExtractError.Entry = %q, should name the rejected entry", extractErr.Entry)
			}
			if _, statErr := os.Stat(filepath.Join(base, "evil")); !os.IsNotExist(statErr) {
				t.Error("traversal entry was written outside extract_to")
			}
		})
	}
}

func TestExtractOverwritesExistingFiles(t *testing.T) {
	archive := buildZip(t, map[string]string{"data.txt": "new"})
	srv := serveBytes(t, archive)

	tmp := t.TempDir()
	extractTo := filepath.Join(tmp, "game")
	if err := os.MkdirAll(extractTo, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(extractTo, "data.txt"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	spec := library.UpdateSpec{
		URL:       srv.URL + "/file.zip",
		Dest:      filepath.Join(tmp, "u.zip"),
		ExtractTo: extractTo,
	}
	if _, err := testClient().FetchAndApply(noplog(), spec); err != nil {
		t.Fatalf("FetchAndApply failed: %v", err)
	}

	payload, err := os.ReadFile(filepath.Join(extractTo, "data.txt"))
	if err != nil || string(payload) != "new" {
		t.Errorf("existing file not overwritten: %q (%v)", payload, err)
	}
}

func TestFetchNews(t *testing.T) {
	t.Run("returns body text", func(t *testing.T) {
		srv := serveBytes(t, []byte("# Patch notes\n\nFixed everything."))
		text, err := testClient().FetchNews(srv.URL)
		if err != nil {
			t.Fatalf("FetchNews failed: %v", err)
		}
		if !strings.HasPrefix(text, "# Patch notes") {
			t.Errorf("news text = %q", text)
		}
	})

	t.Run("truncates to the configured limit", func(t *testing.T) {
		srv := serveBytes(t, bytes.Repeat([]byte("n"), 500))
		client := NewClient(config.Config{UserAgent: "t", NewsLimit: 100})
		text, err := client.FetchNews(srv.URL)
		if err != nil {
			t.Fatalf("FetchNews failed: %v", err)
		}
		if len(text) != 100 {
			t.Errorf("news length = %d, want 100", len(text))
		}
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		if _, err := testClient().FetchNews(srv.URL); err == nil {
			t.Error("expected an error for a 500 response")
		}
	})
}

func TestIsSevenZip(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/tmp/update.7z", true},
		{"/tmp/UPDATE.7Z", true},
		{"/tmp/update.zip", false},
		{"/tmp/update", false},
	}
	for _, tt := range tests {
		if IsSevenZip(tt.path) != tt.expected {
			t.Errorf("IsSevenZip(%q) = %v, want %v", tt.path, !tt.expected, tt.expected)
		}
	}
}
