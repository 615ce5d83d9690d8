package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
)

type drainStateMsg struct{}

// StateBuffer hands store snapshots and storage errors from arbitrary
// goroutines to the bubbletea loop. Only the newest snapshot is kept, so a
// burst of mutations costs one redraw.
type StateBuffer struct {
	mu     sync.Mutex
	state  notify.State
	dirty  bool
	errs   []error
	signal chan struct{}
}

// NewStateBuffer constructs an empty buffer.
func NewStateBuffer() *StateBuffer {
	return &StateBuffer{signal: make(chan struct{}, 1)}
}

// Push replaces the pending snapshot. It never blocks, which makes it safe
// to use as a store subscriber.
func (b *StateBuffer) Push(st notify.State) {
	b.mu.Lock()
	b.state = st
	b.dirty = true
	b.mu.Unlock()
	b.notify()
}

// PushError queues a storage error for display.
func (b *StateBuffer) PushError(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	b.errs = append(b.errs, err)
	b.mu.Unlock()
	b.notify()
}

// Drain returns the pending snapshot, if any, and queued errors.
func (b *StateBuffer) Drain() (notify.State, bool, []error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok, errs := b.state, b.dirty, b.errs
	b.state = notify.State{}
	b.dirty = false
	b.errs = nil
	return st, ok, errs
}

// WaitForSignal blocks until something is ready to drain.
func (b *StateBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainStateMsg{}
	}
}

func (b *StateBuffer) notify() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}
