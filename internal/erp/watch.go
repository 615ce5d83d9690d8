package erp

import (
	"context"
	"fmt"
	"time"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/store/jsonfile"
)

// RevisionSource reports the last write time of a stored key.
type RevisionSource interface {
	Revision(ctx context.Context, key string) (int64, error)
}

func (a *App) watchFile(ctx context.Context, path string) error {
	fw, err := jsonfile.NewFileWatcher(path, a.log)
	if err != nil {
		return fmt.Errorf("watch storage file: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for range fw.Watch(ctx) {
		a.reload(ctx)
	}
	return nil
}

// pollRevisions reloads whenever the revision of the notification record
// moves. It blocks until ctx is cancelled.
func (a *App) pollRevisions(ctx context.Context, src RevisionSource) error {
	interval := a.Config.Storage.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	last, err := src.Revision(ctx, notify.StorageKey)
	if err != nil {
		a.log.Debug().Err(err).Msg("initial revision read failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rev, err := src.Revision(ctx, notify.StorageKey)
			if err != nil {
				a.log.Debug().Err(err).Msg("revision poll failed")
				continue
			}
			if rev != last {
				last = rev
				a.reload(ctx)
			}
		}
	}
}

func (a *App) reload(ctx context.Context) {
	if err := a.Notifications.Reload(ctx); err != nil {
		a.log.Warn().Err(err).Msg("reload notifications")
		a.reportError(err)
	}
}
