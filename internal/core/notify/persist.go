package notify

import (
	"context"
	"fmt"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
)

// StorageKey is the fixed key the notification record is stored under.
const StorageKey = "notifications-storage"

// Persister loads and saves the whole notification record.
type Persister interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// KVPersister stores the record as a single JSON value in a kv.KV.
type KVPersister struct {
	store kv.KV
}

var _ Persister = (*KVPersister)(nil)

func NewKVPersister(store kv.KV) *KVPersister {
	return &KVPersister{store: store}
}

// Load returns an empty state when the key is absent. A malformed record is
// returned as an error alongside an empty state.
func (p *KVPersister) Load(ctx context.Context) (State, error) {
	var st State
	err := p.store.Get(ctx, StorageKey, &st)
	switch {
	case kv.IsNotFound(err):
		return emptyState(), nil
	case err != nil:
		return emptyState(), fmt.Errorf("load notifications: %w", err)
	}
	return normalize(st), nil
}

func (p *KVPersister) Save(ctx context.Context, state State) error {
	if state.Notifications == nil {
		state.Notifications = []Notification{}
	}
	if err := p.store.Set(ctx, StorageKey, state); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

func emptyState() State {
	return State{Notifications: []Notification{}}
}
