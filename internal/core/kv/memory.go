package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	memkv "github.com/Dharmiksheth/seamless-business-mosaic/pkg/kv"
)

// Memory is a process-local KV backed by a thread-safe map. Values are stored
// as JSON so callers observe the same encode/decode behavior as the durable
// backends.
type Memory struct {
	data *memkv.Store[string, []byte]
}

var _ KV = (*Memory)(nil)

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{data: memkv.New[string, []byte]()}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	raw, ok := m.data.Get(key)
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}
	m.data.Set(key, raw)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	_, ok := m.data.Get(key)
	return ok, nil
}

func (m *Memory) ListKeys(_ context.Context) ([]string, error) {
	keys := m.data.Keys()
	sort.Strings(keys)
	return keys, nil
}
