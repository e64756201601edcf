// Package store persists shaded's runtime state between sessions.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/shade/internal/dimmer"
)

// StateDir returns the path to the shade state directory.
// Uses XDG_STATE_HOME or defaults to ~/.local/state/shade.
func StateDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "shade"), nil
}

// StateFilePath returns the path to the state file.
func StateFilePath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}

// State is what shaded remembers across restarts.
// This is persisted to ~/.local/state/shade/state.json
type State struct {
	Brightness float64 `json:"brightness"`
	UpdatedAt  int64   `json:"updated_at,omitempty"` // Unix timestamp

	// Version for compatibility
	SchemaVersion int `json:"schema_version"`
}

const (
	// CurrentSchemaVersion is the current version of the state schema.
	CurrentSchemaVersion = 1
)

// stateFileMutex protects concurrent access to the state file.
var stateFileMutex sync.RWMutex

// DefaultState returns a new State with default values.
func DefaultState() *State {
	return &State{
		Brightness:    dimmer.DefaultBrightness,
		SchemaVersion: CurrentSchemaVersion,
	}
}

// LoadState loads the state from path. A missing or corrupted file, or one
// without a brightness, yields a state holding fallback.
func LoadState(path string, fallback float64) (*State, error) {
	stateFileMutex.RLock()
	defer stateFileMutex.RUnlock()

	fresh := DefaultState()
	fresh.Brightness = dimmer.Clamp(fallback)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fresh, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fresh, nil
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	if state.Brightness == 0 {
		state.Brightness = fresh.Brightness
	}
	state.Brightness = dimmer.Clamp(state.Brightness)

	return &state, nil
}

// SaveState writes the state to path.
func SaveState(path string, state *State) error {
	stateFileMutex.Lock()
	defer stateFileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// SetBrightness records a new brightness.
func (s *State) SetBrightness(b float64) {
	s.Brightness = dimmer.Clamp(b)
	s.UpdatedAt = time.Now().Unix()
}
