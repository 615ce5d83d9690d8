package notify

import "sync/atomic"

// Foreground reports whether the user is currently looking at the app.
type Foreground interface {
	Foregrounded() bool
}

// ForegroundFunc adapts a function to Foreground.
type ForegroundFunc func() bool

func (f ForegroundFunc) Foregrounded() bool { return f() }

// Always is a Foreground that is always focused.
var Always Foreground = ForegroundFunc(func() bool { return true })

// Never is a Foreground that is never focused.
var Never Foreground = ForegroundFunc(func() bool { return false })

// FocusTracker is a Foreground driven by focus events from the terminal or
// the HTTP API. The zero value is unfocused.
type FocusTracker struct {
	focused atomic.Bool
}

// NewFocusTracker returns a tracker with the given initial state.
func NewFocusTracker(focused bool) *FocusTracker {
	t := &FocusTracker{}
	t.focused.Store(focused)
	return t
}

func (t *FocusTracker) Foregrounded() bool { return t.focused.Load() }

// SetFocused records a focus or blur event.
func (t *FocusTracker) SetFocused(focused bool) { t.focused.Store(focused) }
