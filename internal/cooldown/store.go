package cooldown

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemoryStore is an in-memory StateStore for tests and dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]int64)}
}

func (s *MemoryStore) Load(_ context.Context, target string) (int64, bool, error) {
	s.mu.RLock()
	ts, ok := s.data[target]
	s.mu.RUnlock()
	return ts, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, target string, unixSeconds int64) error {
	s.mu.Lock()
	s.data[target] = unixSeconds
	s.mu.Unlock()
	return nil
}

// FileStore persists per-target timestamps in a local JSON file.
type FileStore struct {
	Path string

	mu sync.Mutex
}

type fileRecord struct {
	Targets   map[string]int64 `json:"targets"`
	UpdatedAt string           `json:"updated_at"`
}

func (s *FileStore) Load(_ context.Context, target string) (int64, bool, error) {
	if s == nil || s.Path == "" {
		return 0, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return 0, false, err
	}
	ts, ok := rec.Targets[target]
	return ts, ok, nil
}

func (s *FileStore) Save(_ context.Context, target string, unixSeconds int64) error {
	if s == nil || s.Path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return err
	}
	if rec.Targets == nil {
		rec.Targets = make(map[string]int64)
	}
	rec.Targets[target] = unixSeconds
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cooldown state: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cooldown state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename cooldown state: %w", err)
	}
	return nil
}

func (s *FileStore) read() (fileRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileRecord{}, nil
		}
		return fileRecord{}, fmt.Errorf("read cooldown state: %w", err)
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fileRecord{}, fmt.Errorf("parse cooldown state: %w", err)
	}
	return rec, nil
}
