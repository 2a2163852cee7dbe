package apiconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists APIConfig as a single JSON file. Concurrent writers
// are serialized but not coordinated: the last write wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored configuration merged on top of Default. A missing
// file gives the defaults. An unreadable or corrupt file is logged and also
// gives the defaults so searches keep working.
func (s *FileStore) Load() (APIConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		slog.Warn("cannot read api config, using defaults",
			slog.String("path", s.path), slog.String("error", err.Error()))

		return Default(), nil
	}

	// unmarshalling onto the defaults keeps every field the file omits,
	// including the nested hot tours settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("cannot parse api config, using defaults",
			slog.String("path", s.path), slog.String("error", err.Error()))

		return Default(), nil
	}

	return cfg, nil
}

// Save replaces the stored configuration.
func (s *FileStore) Save(cfg APIConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal api config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".api-config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}

	return nil
}
