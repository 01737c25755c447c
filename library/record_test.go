package library

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestDeriveID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		path     string
		expected string
	}{
		{"simple executable", nil, "/games/doom/Doom.exe", "doom"},
		{"spaces become underscores", nil, "/games/My Cool Game.exe", "my_cool_game"},
		{"no extension", nil, "/usr/games/nethack", "nethack"},
		{"collision gets a suffix", []string{"doom"}, "/games/doom/Doom.exe", "doom_1"},
		{"second collision", []string{"doom", "doom_1"}, "/games/doom/Doom.exe", "doom_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []GameRecord
			for _, id := range tt.existing {
				records = append(records, GameRecord{ID: id})
			}
			result := DeriveID(records, tt.path)
			if result != tt.expected {
				t.Errorf("DeriveID(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestWorkingDir(t *testing.T) {
	t.Run("configured directory wins", func(t *testing.T) {
		r := GameRecord{GamePath: "/games/doom/doom.exe", WorkDir: "/games/doom/data"}
		if r.WorkingDir() != "/games/doom/data" {
			t.Errorf("WorkingDir() = %s, want /games/doom/data", r.WorkingDir())
		}
	})

	t.Run("falls back to the executable directory", func(t *testing.T) {
		r := GameRecord{GamePath: filepath.Join("/games", "doom", "doom.exe")}
		if r.WorkingDir() != filepath.Join("/games", "doom") {
			t.Errorf("WorkingDir() = %s, want the executable's directory", r.WorkingDir())
		}
	})
}

func TestHasUpdate(t *testing.T) {
	tests := []struct {
		name     string
		update   *UpdateSpec
		expected bool
	}{
		{"no update block", nil, false},
		{"empty url", &UpdateSpec{Dest: "/tmp/u.zip"}, false},
		{"empty dest", &UpdateSpec{URL: "https://host/file.zip"}, false},
		{"complete spec", &UpdateSpec{URL: "https://host/file.zip", Dest: "/tmp/u.zip", ExtractTo: "/games/g"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := GameRecord{Update: tt.update}
			if r.HasUpdate() != tt.expected {
				t.Errorf("HasUpdate() = %v, want %v", r.HasUpdate(), tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	r := GameRecord{ID: "doom"}
	if r.DisplayName() != "doom" {
		t.Errorf("DisplayName() = %s, want the id fallback", r.DisplayName())
	}
	r.Name = "Doom"
	if r.DisplayName() != "Doom" {
		t.Errorf("DisplayName() = %s, want Doom", r.DisplayName())
	}
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	input := []byte(`{"id":"g","name":"G","game_path":"/bin/g","work_dir":"/games","save_slots":3,"publisher":"acme"}`)

	var record GameRecord
	if err := json.Unmarshal(input, &record); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(record.Extra) != 2 {
		t.Fatalf("Extra holds %d keys, want 2", len(record.Extra))
	}

	out, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}
	if string(decoded["save_slots"]) != "3" {
		t.Errorf("save_slots = %s, want 3", decoded["save_slots"])
	}
	if string(decoded["publisher"]) != `"acme"` {
		t.Errorf("publisher = %s, want \"acme\"", decoded["publisher"])
	}
	if string(decoded["id"]) != `"g"` {
		t.Errorf("id = %s, want \"g\"", decoded["id"])
	}
}
