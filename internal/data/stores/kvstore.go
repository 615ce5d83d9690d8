package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/data/db"
)

const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db       *db.DB
	maxBytes int64
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store. A maxBytes of zero
// disables the quota check.
func NewKVStore(db *db.DB, maxBytes int64) *KVStore {
	return &KVStore{db: db, maxBytes: maxBytes}
}

// Get retrieves and deserializes a value by key.
// Returns an error wrapping kv.ErrNotFound if the key does not exist.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.db.Queries().KVGet(ctx, key)
	if err != nil {
		if IsNotFoundError(err) {
			return fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
		}
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}

	return nil
}

// Set stores a value. Writes that would push the table past the quota
// fail with kv.ErrQuotaExceeded and leave the previous value in place.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	err = s.set(ctx, key, data)
	for attempt := 1; IsBusyError(err) && attempt < busyRetries; attempt++ {
		time.Sleep(time.Duration(attempt) * busyBackoff)
		err = s.set(ctx, key, data)
	}
	return err
}

func (s *KVStore) set(ctx context.Context, key string, data []byte) error {
	now := time.Now().UnixNano()
	return s.db.WithTx(ctx, func(q *db.Queries) error {
		if s.maxBytes > 0 {
			others, err := q.KVTotalSize(ctx, key)
			if err != nil {
				return fmt.Errorf("kv set %q size: %w", key, err)
			}
			if others+int64(len(key)+len(data)) > s.maxBytes {
				return fmt.Errorf("kv set %q: %w", key, kv.ErrQuotaExceeded)
			}
		}

		if err := q.KVSet(ctx, db.KVSetParams{
			Key:       key,
			Value:     data,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("kv set %q: %w", key, err)
		}
		return nil
	})
}

// Delete removes a key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Queries().KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	count, err := s.db.Queries().KVHas(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// ListKeys returns all keys in sorted order.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.db.Queries().KVListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}

// Revision returns the last write timestamp for key, or zero when the key
// is absent. Pollers compare revisions to detect writes from other processes.
func (s *KVStore) Revision(ctx context.Context, key string) (int64, error) {
	ts, err := s.db.Queries().KVUpdatedAt(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("kv revision %q: %w", key, err)
	}
	return ts, nil
}
