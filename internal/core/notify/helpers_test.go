package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// memPersister is an in-memory Persister that records every save.
type memPersister struct {
	mu    sync.Mutex
	state State
	saves int
	err   error
}

func (m *memPersister) Load(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return emptyState(), m.err
	}
	return m.state.Clone(), nil
}

func (m *memPersister) Save(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.state = st.Clone()
	return nil
}

func (m *memPersister) saved() (State, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), m.saves
}

var errDiskFull = errors.New("disk full")

// seqIDs returns ids "n1", "n2", ...
func seqIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("n%d", n.Add(1))
	}
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Second)
		return t
	}
}

func newTestStore(p Persister, opts ...Option) *Store {
	base := []Option{
		WithIDFunc(seqIDs()),
		WithClock(fixedClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))),
	}
	s := NewStore(p, emptyState(), append(base, opts...)...)
	return s
}

func ids(st State) []string {
	out := make([]string, len(st.Notifications))
	for i, n := range st.Notifications {
		out[i] = n.ID
	}
	return out
}
