// Package notify holds the notification record, the store that owns the
// active list, and the factory that turns domain events into notifications.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/validate"
	"github.com/hay-kot/criterio"
)

// ErrInvalidInput is wrapped by Add when the input fails validation.
var ErrInvalidInput = errors.New("invalid notification")

// Type is the visual severity of a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Types lists every notification type.
var Types = []Type{TypeInfo, TypeSuccess, TypeWarning, TypeError}

// ParseType converts s into a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if err := validate.OneOf(Types...)(t); err != nil {
		return "", fmt.Errorf("notification type: %w", err)
	}
	return t, nil
}

// Notification is a single record in the notification centre.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input is the caller-supplied part of a notification. The store assigns
// the id, read flag and timestamp.
type Input struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    Type   `json:"type"`
}

// Validate checks every field and reports all failures at once.
func (in Input) Validate() error {
	err := criterio.ValidateStruct(
		validate.RequiredField("title", in.Title),
		validate.RequiredField("message", in.Message),
		validate.OneOfField("type", in.Type, Types...),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// State is the persisted shape of the notification centre.
type State struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s State) Clone() State {
	list := make([]Notification, len(s.Notifications))
	copy(list, s.Notifications)
	return State{Notifications: list, UnreadCount: s.UnreadCount}
}

// Find returns the notification with id.
func (s State) Find(id string) (Notification, bool) {
	for _, n := range s.Notifications {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

// CountUnread returns the number of unread notifications in list.
func CountUnread(list []Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}

// normalize drops duplicate or empty ids (keeping the first, newest
// occurrence) and recomputes the unread count from the list.
func normalize(s State) State {
	seen := make(map[string]struct{}, len(s.Notifications))
	list := make([]Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.ID == "" {
			continue
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		list = append(list, n)
	}
	return State{Notifications: list, UnreadCount: CountUnread(list)}
}
