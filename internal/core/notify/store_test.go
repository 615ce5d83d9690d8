package notify

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddPrependsNewest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	a, err := s.Add(ctx, Input{Title: "A", Message: "B", Type: TypeInfo})
	require.NoError(t, err)
	c, err := s.Add(ctx, Input{Title: "C", Message: "D", Type: TypeWarning})
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, []string{c.ID, a.ID}, ids(snap))
	assert.Equal(t, "D", snap.Notifications[0].Message)
	assert.Equal(t, "B", snap.Notifications[1].Message)
	assert.Equal(t, 2, snap.UnreadCount)

	assert.False(t, a.Read)
	assert.False(t, a.CreatedAt.IsZero())
	assert.True(t, c.CreatedAt.After(a.CreatedAt))
}

func TestStore_AddDefaultsType(t *testing.T) {
	s := newTestStore(&memPersister{})

	n, err := s.Add(context.Background(), Input{Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, TypeInfo, n.Type)
}

func TestStore_AddRejectsInvalidInput(t *testing.T) {
	p := &memPersister{}
	s := newTestStore(p)

	_, err := s.Add(context.Background(), Input{Title: " ", Message: "", Type: "loud"})
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, s.Snapshot().Notifications)
	_, saves := p.saved()
	assert.Zero(t, saves)
}

func TestStore_AddRetriesCollidingIDs(t *testing.T) {
	calls := 0
	s := NewStore(&memPersister{}, emptyState(), WithIDFunc(func() string {
		calls++
		if calls <= 2 {
			return "same"
		}
		return "other"
	}))

	ctx := context.Background()
	first, err := s.Add(ctx, Input{Title: "a", Message: "b"})
	require.NoError(t, err)
	second, err := s.Add(ctx, Input{Title: "c", Message: "d"})
	require.NoError(t, err)

	assert.Equal(t, "same", first.ID)
	assert.Equal(t, "other", second.ID)
}

func TestStore_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	first, _ := s.Add(ctx, Input{Title: "A", Message: "B"})
	second, _ := s.Add(ctx, Input{Title: "C", Message: "D"})

	s.MarkAsRead(ctx, first.ID)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.UnreadCount)

	got, ok := snap.Find(first.ID)
	require.True(t, ok)
	assert.True(t, got.Read)

	other, ok := snap.Find(second.ID)
	require.True(t, ok)
	assert.False(t, other.Read)
	assert.Equal(t, []string{second.ID, first.ID}, ids(snap), "read transitions never reorder")
}

func TestStore_MarkAsReadIdempotent(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)

	n, _ := s.Add(ctx, Input{Title: "A", Message: "B"})
	s.MarkAsRead(ctx, n.ID)
	once := s.Snapshot()
	_, savesOnce := p.saved()

	s.MarkAsRead(ctx, n.ID)
	assert.Equal(t, once, s.Snapshot())

	_, savesTwice := p.saved()
	assert.Equal(t, savesOnce, savesTwice, "second mark is a no-op")
}

func TestStore_MarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	for range 3 {
		_, err := s.Add(ctx, Input{Title: "t", Message: "m"})
		require.NoError(t, err)
	}

	s.MarkAllAsRead(ctx)

	snap := s.Snapshot()
	assert.Zero(t, snap.UnreadCount)
	for _, n := range snap.Notifications {
		assert.True(t, n.Read)
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	read, _ := s.Add(ctx, Input{Title: "a", Message: "a"})
	unread, _ := s.Add(ctx, Input{Title: "b", Message: "b"})
	s.MarkAsRead(ctx, read.ID)

	s.Remove(ctx, read.ID)
	assert.Equal(t, 1, s.UnreadCount(), "removing a read entry keeps the count")

	s.Remove(ctx, unread.ID)
	assert.Zero(t, s.UnreadCount())
	assert.Empty(t, s.Snapshot().Notifications)
}

func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)

	_, _ = s.Add(ctx, Input{Title: "A", Message: "B"})
	_, _ = s.Add(ctx, Input{Title: "C", Message: "D"})
	before := s.Snapshot()
	_, saves := p.saved()

	s.Remove(ctx, "does-not-exist")

	assert.Equal(t, before, s.Snapshot())
	_, after := p.saved()
	assert.Equal(t, saves, after)
}

func TestStore_ClearAllThenStaleIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&memPersister{})

	n, _ := s.Add(ctx, Input{Title: "A", Message: "B"})
	s.ClearAll(ctx)

	assert.NotPanics(t, func() {
		s.MarkAsRead(ctx, n.ID)
		s.Remove(ctx, n.ID)
	})

	snap := s.Snapshot()
	assert.Empty(t, snap.Notifications)
	assert.Zero(t, snap.UnreadCount)
}

func TestStore_UnreadInvariantRandomOps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)
	rng := rand.New(rand.NewPCG(7, 11))

	var known []string
	for range 2000 {
		switch rng.IntN(6) {
		case 0, 1:
			n, err := s.Add(ctx, Input{Title: "t", Message: "m"})
			require.NoError(t, err)
			known = append(known, n.ID)
		case 2:
			if len(known) > 0 {
				s.MarkAsRead(ctx, known[rng.IntN(len(known))])
			}
		case 3:
			if len(known) > 0 {
				s.Remove(ctx, known[rng.IntN(len(known))])
			}
		case 4:
			if rng.IntN(10) == 0 {
				s.MarkAllAsRead(ctx)
			}
		case 5:
			if rng.IntN(40) == 0 {
				s.ClearAll(ctx)
			}
		}

		snap := s.Snapshot()
		require.GreaterOrEqual(t, snap.UnreadCount, 0)
		require.Equal(t, CountUnread(snap.Notifications), snap.UnreadCount)

		for i := 1; i < len(snap.Notifications); i++ {
			require.False(t, snap.Notifications[i].CreatedAt.After(snap.Notifications[i-1].CreatedAt),
				"list must stay newest-first")
		}
	}
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p)

	a, _ := s.Add(ctx, Input{Title: "a", Message: "a"})
	_, _ = s.Add(ctx, Input{Title: "b", Message: "b"})
	s.MarkAsRead(ctx, a.ID)
	s.MarkAllAsRead(ctx)
	s.Remove(ctx, a.ID)
	s.ClearAll(ctx)

	saved, saves := p.saved()
	assert.Equal(t, 6, saves)
	assert.Empty(t, saved.Notifications)
	assert.Zero(t, saved.UnreadCount)
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{err: errDiskFull}

	var reported []error
	s := newTestStore(p, WithErrorReporter(func(err error) { reported = append(reported, err) }))

	n, err := s.Add(ctx, Input{Title: "a", Message: "b"})
	require.NoError(t, err, "persistence failures are not surfaced to the caller")

	snap := s.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, n.ID, snap.Notifications[0].ID)
	assert.Equal(t, 1, snap.UnreadCount)

	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], errDiskFull)

	// The next mutation writes the cumulative state once storage recovers.
	p.mu.Lock()
	p.err = nil
	p.mu.Unlock()

	_, err = s.Add(ctx, Input{Title: "c", Message: "d"})
	require.NoError(t, err)

	saved, _ := p.saved()
	assert.Len(t, saved.Notifications, 2)
	assert.Equal(t, 2, saved.UnreadCount)
}

func TestStore_SubscribersSeeEveryChangeInOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)

	var counts []int
	unsubscribe := s.Subscribe(func(st State) {
		counts = append(counts, len(st.Notifications))
	})

	a, _ := s.Add(ctx, Input{Title: "a", Message: "a"})
	_, _ = s.Add(ctx, Input{Title: "b", Message: "b"})
	s.Remove(ctx, a.ID)
	s.Remove(ctx, "missing")

	assert.Equal(t, []int{1, 2, 1}, counts)

	unsubscribe()
	s.ClearAll(ctx)
	assert.Len(t, counts, 3)
}

func TestStore_SubscriberSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil)

	var got State
	s.Subscribe(func(st State) { got = st })

	n, _ := s.Add(ctx, Input{Title: "a", Message: "a"})
	got.Notifications[0].Read = true

	current, ok := s.Snapshot().Find(n.ID)
	require.True(t, ok)
	assert.False(t, current.Read)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil, emptyState())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				n, err := s.Add(ctx, Input{Title: "t", Message: "m"})
				if err != nil {
					return
				}
				s.MarkAsRead(ctx, n.ID)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Notifications, 400)
	assert.Zero(t, snap.UnreadCount)
}

func TestStore_AutoReadWhenForegrounded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil, WithForeground(Always), WithAutoRead(10*time.Millisecond))
	t.Cleanup(s.Close)

	n, err := s.Add(ctx, Input{Title: "a", Message: "b"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := s.Snapshot().Find(n.ID)
		return ok && got.Read
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, s.UnreadCount())
}

func TestStore_NoAutoReadInBackground(t *testing.T) {
	ctx := context.Background()
	focus := NewFocusTracker(false)
	s := newTestStore(nil, WithForeground(focus), WithAutoRead(10*time.Millisecond))
	t.Cleanup(s.Close)

	_, err := s.Add(ctx, Input{Title: "a", Message: "b"})
	require.NoError(t, err)

	// Focusing later does not retroactively schedule a read.
	focus.SetFocused(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, s.UnreadCount())
}

func TestStore_AutoReadDisabled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil, WithForeground(Always), WithAutoRead(0))

	_, err := s.Add(ctx, Input{Title: "a", Message: "b"})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, s.UnreadCount())
}

func TestStore_AutoReadAfterRemoveIsNoop(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	s := newTestStore(p, WithForeground(Always), WithAutoRead(20*time.Millisecond))
	t.Cleanup(s.Close)

	n, _ := s.Add(ctx, Input{Title: "a", Message: "b"})
	keep, _ := s.Add(ctx, Input{Title: "c", Message: "d"})
	s.MarkAsRead(ctx, keep.ID)
	s.Remove(ctx, n.ID)
	_, saves := p.saved()

	time.Sleep(80 * time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, []string{keep.ID}, ids(snap))
	_, after := p.saved()
	assert.Equal(t, saves, after, "cancelled timers must not write")
}

func TestStore_AutoReadAfterClearAllIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil, WithForeground(Always), WithAutoRead(20*time.Millisecond))
	t.Cleanup(s.Close)

	_, _ = s.Add(ctx, Input{Title: "a", Message: "b"})
	s.ClearAll(ctx)

	var changes int
	s.Subscribe(func(State) { changes++ })

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, changes)
}

func TestStore_CloseStopsTimers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(nil, WithForeground(Always), WithAutoRead(20*time.Millisecond))

	_, _ = s.Add(ctx, Input{Title: "a", Message: "b"})
	s.Close()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, s.UnreadCount())

	// Adds after Close still work but are never auto-read.
	_, err := s.Add(ctx, Input{Title: "c", Message: "d"})
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 2, s.UnreadCount())
}
