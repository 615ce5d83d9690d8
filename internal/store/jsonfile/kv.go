package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
)

// FileName is the storage file created inside the data directory.
const FileName = "storage.json"

// ErrCorrupt reports a storage file that is not a JSON object.
var ErrCorrupt = errors.New("corrupt storage file")

// KVStore implements kv.KV using a single JSON object on disk. Each key maps
// to its raw JSON value. Every write rewrites the file atomically.
type KVStore struct {
	path     string
	maxBytes int64
	mu       sync.RWMutex
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a store backed by path. A maxBytes of zero disables the
// quota check.
func NewKVStore(path string, maxBytes int64) *KVStore {
	return &KVStore{path: path, maxBytes: maxBytes}
}

// Path returns the backing file path.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) Get(_ context.Context, key string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	raw, ok := file[key]
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (s *KVStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.loadForWrite()
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	file[key] = raw
	if err := s.save(file); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.loadForWrite()
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}

	if _, ok := file[key]; !ok {
		return nil
	}

	delete(file, key)
	if err := s.save(file); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}

	_, ok := file[key]
	return ok, nil
}

func (s *KVStore) ListKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}

	keys := make([]string, 0, len(file))
	for k := range file {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// load reads the storage file from disk.
// Returns an empty map if the file doesn't exist or is empty.
func (s *KVStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	file := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", filepath.Base(s.path), ErrCorrupt, err)
	}
	return file, nil
}

// loadForWrite is load for callers about to rewrite the file. A corrupt file
// is moved aside to <name>.corrupt.<timestamp> and replaced by an empty map,
// so writes keep working after the store has been damaged.
func (s *KVStore) loadForWrite() (map[string]json.RawMessage, error) {
	file, err := s.load()
	if err == nil || !errors.Is(err, ErrCorrupt) {
		return file, err
	}

	backup := fmt.Sprintf("%s.corrupt.%s", s.path, time.Now().Format("20060102-150405.000"))
	if renameErr := os.Rename(s.path, backup); renameErr != nil && !os.IsNotExist(renameErr) {
		return nil, fmt.Errorf("back up corrupt storage file: %w", renameErr)
	}

	logger := logging.Component("jsonfile")
	logger.Warn().
		Err(err).
		Str("backup", backup).
		Msg("moved corrupt storage file aside, starting empty")
	return map[string]json.RawMessage{}, nil
}

// save writes the storage file to disk atomically.
func (s *KVStore) save(file map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return kv.ErrQuotaExceeded
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
