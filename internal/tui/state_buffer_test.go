package tui

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
)

func TestStateBuffer_DrainEmpty(t *testing.T) {
	b := NewStateBuffer()
	_, ok, errs := b.Drain()
	assert.False(t, ok)
	assert.Nil(t, errs)
}

func TestStateBuffer_KeepsNewestSnapshot(t *testing.T) {
	b := NewStateBuffer()
	b.Push(notify.State{UnreadCount: 1})
	b.Push(notify.State{UnreadCount: 2})

	st, ok, _ := b.Drain()
	require.True(t, ok)
	assert.Equal(t, 2, st.UnreadCount)

	_, ok, _ = b.Drain()
	assert.False(t, ok)
}

func TestStateBuffer_QueuesErrors(t *testing.T) {
	b := NewStateBuffer()
	b.PushError(nil)
	b.PushError(errors.New("disk full"))

	_, ok, errs := b.Drain()
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "disk full")
}

func TestStateBuffer_WaitForSignal(t *testing.T) {
	b := NewStateBuffer()
	b.Push(notify.State{})

	_, ok := b.WaitForSignal()().(drainStateMsg)
	assert.True(t, ok)
}

func TestStateBuffer_SignalCoalesces(t *testing.T) {
	b := NewStateBuffer()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Push(notify.State{UnreadCount: i})
		}()
	}
	wg.Wait()

	assert.Len(t, b.signal, 1)
	_, ok, _ := b.Drain()
	assert.True(t, ok)
}
