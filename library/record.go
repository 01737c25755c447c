package library

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// UpdateSpec describes where a game's update archive comes from and where
// it lands. Records without one have no update mechanism.
type UpdateSpec struct {
	URL       string `json:"url"`
	Dest      string `json:"dest"`
	ExtractTo string `json:"extract_to"`
}

// GameRecord is one entry in the library document. Keys the launcher does
// not know about are kept in Extra so a save never drops them.
type GameRecord struct {
	ID       string
	Name     string
	GamePath string
	WorkDir  string
	Args     []string
	Icon     string
	Cover    string
	NewsURL  string
	Update   *UpdateSpec

	Extra map[string]json.RawMessage
}

// gameRecordWire carries the known fields of the document format.
type gameRecordWire struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	GamePath string      `json:"game_path"`
	WorkDir  string      `json:"work_dir"`
	Args     []string    `json:"args,omitempty"`
	Icon     string      `json:"icon,omitempty"`
	Cover    string      `json:"cover,omitempty"`
	NewsURL  string      `json:"news_url,omitempty"`
	Update   *UpdateSpec `json:"update,omitempty"`
}

var knownRecordKeys = map[string]bool{
	"id": true, "name": true, "game_path": true, "work_dir": true,
	"args": true, "icon": true, "cover": true, "news_url": true,
	"update": true,
}

func (r *GameRecord) UnmarshalJSON(data []byte) error {
	var wire gameRecordWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = GameRecord{
		ID:       wire.ID,
		Name:     wire.Name,
		GamePath: wire.GamePath,
		WorkDir:  wire.WorkDir,
		Args:     wire.Args,
		Icon:     wire.Icon,
		Cover:    wire.Cover,
		NewsURL:  wire.NewsURL,
		Update:   wire.Update,
	}
	for key, value := range raw {
		if knownRecordKeys[key] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[key] = value
	}
	return nil
}

func (r GameRecord) MarshalJSON() ([]byte, error) {
	wire := gameRecordWire{
		ID:       r.ID,
		Name:     r.Name,
		GamePath: r.GamePath,
		WorkDir:  r.WorkDir,
		Args:     r.Args,
		Icon:     r.Icon,
		Cover:    r.Cover,
		NewsURL:  r.NewsURL,
		Update:   r.Update,
	}
	known, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range r.Extra {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// DisplayName returns the record's title, falling back to its id.
func (r GameRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// WorkingDir returns the configured working directory, falling back to the
// executable's directory.
func (r GameRecord) WorkingDir() string {
	if r.WorkDir != "" {
		return r.WorkDir
	}
	return filepath.Dir(r.GamePath)
}

// HasUpdate reports whether the record carries a usable update descriptor.
func (r GameRecord) HasUpdate() bool {
	return r.Update != nil && r.Update.URL != "" && r.Update.Dest != ""
}

// DeriveID builds a library id from an executable path: the filename stem,
// lowercased with spaces collapsed to underscores, suffixed with _N until
// it is unique among the given records.
func DeriveID(records []GameRecord, executablePath string) string {
	stem := filepath.Base(executablePath)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	base := strings.ReplaceAll(strings.ToLower(stem), " ", "_")
	if base == "" {
		base = "game"
	}

	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.ID] = true
	}

	id := base
	for n := 1; taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}
