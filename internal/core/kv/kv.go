// Package kv defines the local persistent key-value contract used for
// notification state, saved settings and alert bookkeeping.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is wrapped by Get when the key does not exist.
	ErrNotFound = errors.New("kv: key not found")

	// ErrQuotaExceeded is returned by Set when the write would grow the
	// backing storage beyond its configured size limit. The previous value
	// is left untouched.
	ErrQuotaExceeded = errors.New("kv: storage quota exceeded")
)

// KV is the interface for a persistent key-value store.
// Keys are strings, values are JSON-serializable.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
}
