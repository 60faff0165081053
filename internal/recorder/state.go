// Package recorder keeps a puzzle session alive across CLI invocations by
// journaling its moves and replaying them on the next run.
package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/SeamusWaldron/cubeanim/internal/storage"
)

// Active is the session a database resumes by default.
type Active struct {
	SessionID string    `json:"session_id"`
	Since     time.Time `json:"since"`
}

// StateFile remembers the active session of each database, keyed by the
// database's absolute path, so switching --db never resumes a session id
// that belongs to another file.
type StateFile struct {
	path   string
	active map[string]Active
}

type stateDoc struct {
	Active map[string]Active `json:"active"`
}

// NewStateFile loads the state at path. A missing file is an empty state.
func NewStateFile(path string) (*StateFile, error) {
	sf := &StateFile{path: path, active: map[string]Active{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return sf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	for db, a := range doc.Active {
		if a.SessionID != "" {
			sf.active[db] = a
		}
	}
	return sf, nil
}

// NewDefaultStateFile loads state.json from the data directory.
func NewDefaultStateFile() (*StateFile, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return nil, err
	}
	return NewStateFile(filepath.Join(dir, "state.json"))
}

// Path returns the state file path.
func (sf *StateFile) Path() string {
	return sf.path
}

// Active returns the active session of the database at dbPath.
func (sf *StateFile) Active(dbPath string) (Active, bool) {
	a, ok := sf.active[dbPath]
	return a, ok
}

// SetActive makes sessionID the active session of dbPath and saves.
func (sf *StateFile) SetActive(dbPath, sessionID string) error {
	sf.active[dbPath] = Active{SessionID: sessionID, Since: time.Now().UTC()}
	return sf.save()
}

// ClearActive forgets the active session of dbPath and saves.
func (sf *StateFile) ClearActive(dbPath string) error {
	if _, ok := sf.active[dbPath]; !ok {
		return nil
	}
	delete(sf.active, dbPath)
	return sf.save()
}

// save writes to a temporary file and renames it over the old one, so a
// crash mid-write never leaves a truncated state file.
func (sf *StateFile) save() error {
	data, err := json.MarshalIndent(stateDoc{Active: sf.active}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(sf.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(sf.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), sf.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
