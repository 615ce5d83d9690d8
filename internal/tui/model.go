// Package tui implements the Bubble Tea dashboard for mosaic.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/erp"
)

type (
	refreshTickMsg time.Time
	scanDoneMsg    struct {
		count int
		err   error
	}
)

// Options tune the dashboard.
type Options struct {
	// AlertOnStart scans inventory for low stock when the program starts.
	AlertOnStart bool
	// RefreshInterval recomputes the dashboard figures; zero disables it.
	RefreshInterval time.Duration
	// Now is the clock used for relative timestamps.
	Now func() time.Time
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	app    *erp.App
	store  *notify.Store
	buffer *StateBuffer
	unsub  func()
	opts   Options

	keys      keyMap
	help      help.Model
	toasts    *ToastController
	toastView *ToastView

	state   notify.State
	seen    map[string]struct{}
	cursor  int
	summary dashboard.Summary
	status  string

	width    int
	height   int
	quitting bool
}

// New creates the model and subscribes it to the notification store.
// Call Close when the program exits.
func New(app *erp.App, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	buffer := NewStateBuffer()
	toasts := NewToastController()

	m := Model{
		ctx:       logging.WithSurface(context.Background(), logging.SurfaceTUI),
		app:       app,
		store:     app.Notifications,
		buffer:    buffer,
		opts:      opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
		toasts:    toasts,
		toastView: NewToastView(toasts),
		seen:      map[string]struct{}{},
		summary:   dashboard.Summarize(app.Catalog),
	}

	m.unsub = app.Notifications.Subscribe(buffer.Push)
	app.OnError(buffer.PushError)

	m.state = app.Notifications.Snapshot()
	for _, n := range m.state.Notifications {
		m.seen[n.ID] = struct{}{}
	}
	return m
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Init starts the store listener, the refresh timer and the startup scan.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.buffer.WaitForSignal()}
	if cmd := m.scheduleRefresh(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.opts.AlertOnStart {
		cmds = append(cmds, m.scanInventory())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.app.Focus.SetFocused(true)
		return m, nil

	case tea.BlurMsg:
		m.app.Focus.SetFocused(false)
		return m, nil

	case drainStateMsg:
		st, ok, errs := m.buffer.Drain()
		var cmd tea.Cmd
		if ok {
			cmd = m.apply(st)
		}
		for _, err := range errs {
			m.status = "storage error: " + err.Error()
		}
		return m, tea.Batch(cmd, m.buffer.WaitForSignal())

	case scanDoneMsg:
		switch {
		case msg.err != nil:
			m.status = "stock check failed: " + msg.err.Error()
		case msg.count == 0:
			m.status = "stock check: no new alerts"
		default:
			m.status = fmt.Sprintf("stock check: %d new alert(s)", msg.count)
		}
		return m, nil

	case refreshTickMsg:
		m.summary = dashboard.Summarize(m.app.Catalog)
		return m, m.scheduleRefresh()

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Notifications)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Read):
		if n, ok := m.selected(); ok {
			m.store.MarkAsRead(m.ctx, n.ID)
			return m, m.apply(m.store.Snapshot())
		}

	case key.Matches(msg, m.keys.Dismiss):
		if n, ok := m.selected(); ok {
			m.store.Remove(m.ctx, n.ID)
			return m, m.apply(m.store.Snapshot())
		}

	case key.Matches(msg, m.keys.ReadAll):
		if m.state.UnreadCount > 0 {
			m.store.MarkAllAsRead(m.ctx)
			return m, m.apply(m.store.Snapshot())
		}

	case key.Matches(msg, m.keys.ClearAll):
		if len(m.state.Notifications) > 0 {
			m.store.ClearAll(m.ctx)
			return m, m.apply(m.store.Snapshot())
		}

	case key.Matches(msg, m.keys.Rescan):
		m.status = "checking stock…"
		return m, m.scanInventory()

	case key.Matches(msg, m.keys.Close):
		m.toasts.DismissAll()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// apply adopts st, raising a toast for every unread notification the
// model has not seen before.
func (m *Model) apply(st notify.State) tea.Cmd {
	var fresh []notify.Notification
	next := make(map[string]struct{}, len(st.Notifications))
	for _, n := range st.Notifications {
		next[n.ID] = struct{}{}
		if _, ok := m.seen[n.ID]; !ok && !n.Read {
			fresh = append(fresh, n)
		}
	}
	for id := range m.seen {
		if _, ok := next[id]; !ok {
			m.toasts.Forget(id)
		}
	}

	m.seen = next
	m.state = st
	m.cursor = min(m.cursor, max(len(st.Notifications)-1, 0))

	// The list is newest first; push oldest first so the newest toast
	// lands at the bottom of the stack.
	for i := len(fresh) - 1; i >= 0; i-- {
		m.toasts.Push(fresh[i])
	}

	if m.toasts.HasToasts() && !m.toasts.Ticking() {
		m.toasts.SetTicking(true)
		return scheduleToastTick()
	}
	return nil
}

func (m Model) selected() (notify.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Notifications) {
		return notify.Notification{}, false
	}
	return m.state.Notifications[m.cursor], true
}

func (m Model) scanInventory() tea.Cmd {
	ctx, stock := m.ctx, m.app.Stock
	return func() tea.Msg {
		emitted, err := stock.Scan(ctx)
		return scanDoneMsg{count: len(emitted), err: err}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, app *erp.App, opts Options) error {
	m := New(app, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
