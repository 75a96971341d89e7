package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// FileName is the task list file inside the data directory.
	FileName = "tasks.json"
	fileMode = 0o600
)

// Store persists the full ordered task list as one JSON document.
// Saves overwrite the whole file; there is no incremental update.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store backed by <dataDir>/tasks.json.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, FileName)}
}

// Path returns the absolute path of the task list file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the task list. A missing file is an empty list.
func (s *Store) Load() ([]*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path) //nolint:gosec // path from trusted data dir
	if err != nil {
		if os.IsNotExist(err) {
			return []*Task{}, nil
		}
		return nil, fmt.Errorf("reading task list: %w", err)
	}

	var tasks []*Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	return tasks, nil
}

// Save overwrites the task list. The write goes to a temp file that is
// renamed into place so readers never see a truncated list.
func (s *Store) Save(tasks []*Task) error {
	if tasks == nil {
		tasks = []*Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling task list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing task list: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing task list: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting task list mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing task list: %w", err)
	}
	return nil
}

// Snapshot loads the list and returns a snapshot of the task with id.
func (s *Store) Snapshot(id string) (Snapshot, error) {
	tasks, err := s.Load()
	if err != nil {
		return Snapshot{}, err
	}
	_, t, err := Resolve(tasks, id)
	if err != nil {
		return Snapshot{}, err
	}
	return t.Snapshot(), nil
}
