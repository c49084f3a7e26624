package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore keeps names in a JSON object on disk, e.g.
// {"Battle:抽卡道具不足": "BATTLE_DRAW_CARD_ITEM_INSUFFICIENT"}.
// Writes are buffered until Flush.
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]string
	dirty   bool
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, entries: make(map[string]string)}
}

// Load reads the file. A missing or corrupt file loads as an empty cache.
func (s *FileStore) Load(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), &entries); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Ignoring unreadable cache file")
		entries = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.entries[k] = v
	}
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

func (s *FileStore) Put(_ context.Context, key, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[key] != name {
		s.entries[key] = name
		s.dirty = true
	}
	return nil
}

// Flush writes the file atomically if anything changed.
func (s *FileStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.entries); err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}

	s.dirty = false
	log.Debug().Int("count", len(s.entries)).Str("path", s.path).Msg("Saved translation cache")
	return nil
}
