package erp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
)

// Notifier turns domain events into notifications.
type Notifier struct {
	store *notify.Store
	log   zerolog.Logger
}

// NewNotifier creates a Notifier writing to store.
func NewNotifier(store *notify.Store) *Notifier {
	return &Notifier{
		store: store,
		log:   logging.Component("notifier"),
	}
}

// Emit records a system notification for an event on entity. details
// replaces the default message for alert and info events.
func (n *Notifier) Emit(ctx context.Context, module notify.Module, action notify.Action, entity, details string) (notify.Notification, error) {
	if _, err := notify.ParseModule(string(module)); err != nil {
		return notify.Notification{}, fmt.Errorf("%w: %w", notify.ErrInvalidInput, err)
	}
	if _, err := notify.ParseAction(string(action)); err != nil {
		return notify.Notification{}, fmt.Errorf("%w: %w", notify.ErrInvalidInput, err)
	}

	created, err := n.store.Add(ctx, notify.SystemNotification(module, action, entity, details))
	if err != nil {
		return notify.Notification{}, fmt.Errorf("emit %s %s: %w", module, action, err)
	}

	n.log.Debug().
		Str("module", string(module)).
		Str("action", string(action)).
		Str("id", created.ID).
		Msg("emitted notification")

	return created, nil
}
