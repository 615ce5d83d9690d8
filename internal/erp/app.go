// Package erp wires the business services that commands, the TUI and the
// HTTP API share.
package erp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/catalog"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/config"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/logging"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/data/db"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/data/stores"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/store/jsonfile"
)

// App is the central entry point for all mosaic operations.
// Commands, TUI and API consume App instead of cherry-picking raw dependencies.
type App struct {
	Config        *config.Config
	KV            kv.KV
	Catalog       catalog.Provider
	Notifications *notify.Store
	Focus         *notify.FocusTracker
	Notifier      *Notifier
	Stock         *StockMonitor
	Settings      *SettingsService
	DB            *db.DB

	watch   func(ctx context.Context) error
	onError func(error)
	log     zerolog.Logger
}

// Options tune how Open assembles the App.
type Options struct {
	// Catalog overrides the demo data provider.
	Catalog catalog.Provider
	// Focused is the initial foreground state. CLI commands leave it false
	// so one-shot invocations never auto-read.
	Focused bool
}

// Open builds the storage backend named by cfg and the services on top of it.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{
		Config:  cfg,
		Catalog: opts.Catalog,
		Focus:   notify.NewFocusTracker(opts.Focused),
		onError: func(error) {},
		log:     logging.Component("erp"),
	}
	if a.Catalog == nil {
		a.Catalog = catalog.NewMockProvider()
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		store := stores.NewKVStore(database, cfg.Storage.MaxBytes)
		a.DB = database
		a.KV = store
		a.watch = func(ctx context.Context) error {
			return a.pollRevisions(ctx, store)
		}
	default:
		store := jsonfile.NewKVStore(cfg.StorageFile(), cfg.Storage.MaxBytes)
		a.KV = store
		a.watch = func(ctx context.Context) error {
			return a.watchFile(ctx, store.Path())
		}
	}

	return a.wire(ctx), nil
}

// NewApp assembles an App over an existing key-value store. Reload watching
// is disabled.
func NewApp(ctx context.Context, cfg *config.Config, store kv.KV, opts Options) *App {
	a := &App{
		Config:  cfg,
		KV:      store,
		Catalog: opts.Catalog,
		Focus:   notify.NewFocusTracker(opts.Focused),
		onError: func(error) {},
		log:     logging.Component("erp"),
	}
	if a.Catalog == nil {
		a.Catalog = catalog.NewMockProvider()
	}
	return a.wire(ctx)
}

func (a *App) wire(ctx context.Context) *App {
	a.Notifications = notify.Open(ctx, notify.NewKVPersister(a.KV),
		notify.WithForeground(a.Focus),
		notify.WithAutoRead(a.Config.AutoReadDelay()),
		notify.WithPersistTimeout(a.Config.Notifications.PersistTimeout),
		notify.WithErrorReporter(a.reportError),
	)
	a.Notifier = NewNotifier(a.Notifications)
	a.Stock = NewStockMonitor(a.Catalog, a.Notifier, a.KV)
	a.Settings = NewSettingsService(a.KV, a.Notifier)
	return a
}

// OnError registers fn to receive storage failures the store reports. It
// must be called before the App is shared across goroutines.
func (a *App) OnError(fn func(error)) {
	a.onError = fn
}

func (a *App) reportError(err error) {
	a.onError(err)
}

// Watch reloads the notification store when another process changes the
// persisted record. It blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	if a.watch == nil {
		<-ctx.Done()
		return nil
	}
	return a.watch(ctx)
}

// Close stops pending timers and releases the database.
func (a *App) Close() error {
	a.Notifications.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	logger := logging.Component("erp")
	logger.Error().Err(err).Msg("database corrupted, moving it aside")
	if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
		return nil, fmt.Errorf("recover database: %w", rerr)
	}

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}
