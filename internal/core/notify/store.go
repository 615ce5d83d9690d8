package notify

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
	memkv "github.com/Dharmiksheth/seamless-business-mosaic/pkg/kv"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultAutoReadDelay  = 5 * time.Second
	DefaultPersistTimeout = 2 * time.Second

	maxIDAttempts     = 3
	maxReloadAttempts = 3
)

// Subscriber receives a snapshot after every state change. Subscribers are
// called in mutation order from the mutating goroutine and must not call
// back into the Store synchronously.
type Subscriber func(State)

// Option configures a Store.
type Option func(*Store)

// WithForeground sets the focus source consulted when scheduling auto-read.
func WithForeground(fg Foreground) Option {
	return func(s *Store) { s.fg = fg }
}

// WithAutoRead sets the auto-read delay. A delay <= 0 disables auto-read.
func WithAutoRead(delay time.Duration) Option {
	return func(s *Store) { s.autoReadDelay = delay }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithErrorReporter receives persistence failures in addition to the log.
func WithErrorReporter(fn func(error)) Option {
	return func(s *Store) { s.report = fn }
}

func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store owns the active notification list and its unread count. In-memory
// state is authoritative; every change is written through the Persister and
// write failures never roll the change back.
type Store struct {
	mu     sync.Mutex
	state  State
	gen    uint64 // bumped on every change to state
	closed bool

	dispatchMu sync.Mutex
	subsMu     sync.Mutex
	subs       map[int]Subscriber
	nextSub    int

	timers *memkv.Store[string, *time.Timer]

	persister      Persister
	fg             Foreground
	autoReadDelay  time.Duration
	persistTimeout time.Duration
	now            func() time.Time
	newID          func() string
	report         func(error)
	logger         zerolog.Logger
}

// NewStore creates a store with the given initial state. Most callers want
// Open, which loads the state from the persister first.
func NewStore(persister Persister, initial State, opts ...Option) *Store {
	s := &Store{
		state:          normalize(initial),
		subs:           make(map[int]Subscriber),
		timers:         memkv.New[string, *time.Timer](),
		persister:      persister,
		fg:             Never,
		autoReadDelay:  DefaultAutoReadDelay,
		persistTimeout: DefaultPersistTimeout,
		now:            time.Now,
		newID:          NewID,
		report:         func(error) {},
		logger:         logging.Component("notify"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the persisted record and returns a store seeded with it.
// A missing or unreadable record yields an empty store.
func Open(ctx context.Context, persister Persister, opts ...Option) *Store {
	s := NewStore(persister, emptyState(), opts...)

	st, err := persister.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding unreadable notification record")
		s.report(err)
		return s
	}

	s.state = normalize(st)
	return s
}

// NewID returns a time-ordered unique id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UnreadCount
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// Add prepends a new unread notification. When the host is foregrounded the
// notification is marked read automatically after the auto-read delay.
func (s *Store) Add(ctx context.Context, in Input) (Notification, error) {
	if in.Type == "" {
		in.Type = TypeInfo
	}
	if err := in.Validate(); err != nil {
		return Notification{}, err
	}

	var (
		created Notification
		idErr   error
	)
	s.mutate(ctx, func(st *State) bool {
		id, err := s.uniqueID(*st)
		if err != nil {
			idErr = err
			return false
		}

		created = Notification{
			ID:        id,
			Title:     in.Title,
			Message:   in.Message,
			Type:      in.Type,
			Read:      false,
			CreatedAt: s.now().UTC(),
		}
		st.Notifications = append([]Notification{created}, st.Notifications...)

		if !s.closed && s.autoReadDelay > 0 && s.fg.Foregrounded() {
			s.scheduleAutoRead(id)
		}
		return true
	})
	if idErr != nil {
		return Notification{}, idErr
	}

	return created, nil
}

// MarkAsRead marks the notification read. Unknown or already-read ids are
// ignored.
func (s *Store) MarkAsRead(ctx context.Context, id string) {
	s.mutate(ctx, func(st *State) bool {
		for i := range st.Notifications {
			if st.Notifications[i].ID != id {
				continue
			}
			s.cancelAutoRead(id)
			if st.Notifications[i].Read {
				return false
			}
			st.Notifications[i].Read = true
			return true
		}
		return false
	})
}

// MarkAllAsRead marks every notification read.
func (s *Store) MarkAllAsRead(ctx context.Context) {
	s.mutate(ctx, func(st *State) bool {
		if st.UnreadCount == 0 {
			return false
		}
		for i := range st.Notifications {
			st.Notifications[i].Read = true
		}
		s.cancelAllAutoRead()
		return true
	})
}

// Remove deletes the notification. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mutate(ctx, func(st *State) bool {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				s.cancelAutoRead(id)
				st.Notifications = append(st.Notifications[:i:i], st.Notifications[i+1:]...)
				return true
			}
		}
		return false
	})
}

// ClearAll empties the list.
func (s *Store) ClearAll(ctx context.Context) {
	s.mutate(ctx, func(st *State) bool {
		s.cancelAllAutoRead()
		if len(st.Notifications) == 0 {
			return false
		}
		st.Notifications = []Notification{}
		return true
	})
}

// Reload replaces the in-memory state with the persisted record, for use
// when another process has written it. Subscribers are only notified when
// the record differs from the current state. A load that races with a local
// change is discarded and retried, since that change already wrote a newer
// record.
func (s *Store) Reload(ctx context.Context) error {
	for range maxReloadAttempts {
		s.mu.Lock()
		gen := s.gen
		s.mu.Unlock()

		loaded, err := s.persister.Load(ctx)
		if err != nil {
			return fmt.Errorf("reload notifications: %w", err)
		}
		loaded = normalize(loaded)

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			continue
		}
		if statesEqual(s.state, loaded) {
			s.mu.Unlock()
			return nil
		}

		for _, id := range s.timers.Keys() {
			if n, ok := loaded.Find(id); !ok || n.Read {
				s.cancelAutoRead(id)
			}
		}
		s.state = loaded
		s.gen++
		snap := s.state.Clone()

		s.dispatchMu.Lock()
		s.mu.Unlock()
		s.publish(snap)
		s.dispatchMu.Unlock()

		s.logger.Debug().Int("count", len(snap.Notifications)).Msg("reloaded notifications")
		return nil
	}

	s.logger.Debug().Msg("skipped reload, notifications kept changing")
	return nil
}

// Close stops pending auto-read timers. The store remains usable but no new
// timers are scheduled.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelAllAutoRead()
}

// mutate applies fn under the state lock. When fn reports a change the
// unread count is recomputed, the record persisted and subscribers notified
// before the next mutation can publish.
func (s *Store) mutate(ctx context.Context, fn func(*State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	s.state.UnreadCount = CountUnread(s.state.Notifications)
	s.gen++
	snap := s.state.Clone()
	s.persist(ctx, snap)

	s.dispatchMu.Lock()
	s.mu.Unlock()
	s.publish(snap)
	s.dispatchMu.Unlock()
}

func (s *Store) persist(ctx context.Context, snap State) {
	if s.persister == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.persister.Save(ctx, snap); err != nil {
		s.logger.Error().Err(err).Str("key", StorageKey).Msg("failed to persist notifications")
		s.report(err)
	}
}

func (s *Store) publish(snap State) {
	s.subsMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		subs = append(subs, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(snap.Clone())
	}
}

func (s *Store) uniqueID(st State) (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if _, taken := st.Find(id); !taken && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate notification id: %d attempts collided", maxIDAttempts)
}

// scheduleAutoRead must be called with s.mu held.
func (s *Store) scheduleAutoRead(id string) {
	timer := time.AfterFunc(s.autoReadDelay, func() {
		s.fireAutoRead(id)
	})
	s.timers.Set(id, timer)
}

func (s *Store) fireAutoRead(id string) {
	s.mu.Lock()
	_, pending := s.timers.Get(id)
	closed := s.closed
	s.mu.Unlock()

	if closed || !pending {
		return
	}

	s.logger.Debug().Str("id", id).Msg("auto-read")
	s.MarkAsRead(context.Background(), id)
}

// cancelAutoRead must be called with s.mu held.
func (s *Store) cancelAutoRead(id string) {
	if timer, ok := s.timers.Take(id); ok {
		timer.Stop()
	}
}

// cancelAllAutoRead must be called with s.mu held.
func (s *Store) cancelAllAutoRead() {
	for _, timer := range s.timers.Drain() {
		timer.Stop()
	}
}

func statesEqual(a, b State) bool {
	if a.UnreadCount != b.UnreadCount || len(a.Notifications) != len(b.Notifications) {
		return false
	}
	for i := range a.Notifications {
		x, y := a.Notifications[i], b.Notifications[i]
		if x.ID != y.ID || x.Title != y.Title || x.Message != y.Message ||
			x.Type != y.Type || x.Read != y.Read || !x.CreatedAt.Equal(y.CreatedAt) {
			return false
		}
	}
	return true
}
