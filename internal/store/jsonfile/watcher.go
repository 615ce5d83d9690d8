package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// ChangeEvent reports that the watched file was rewritten.
type ChangeEvent struct {
	Path      string
	Timestamp time.Time
}

// FileWatcher watches a single file for rewrites using fsnotify. The parent
// directory is watched so atomic tmp+rename writes are observed.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	mu          sync.Mutex
	subscribers []chan ChangeEvent
	debounce    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher starts watching path. The parent directory is created if it
// doesn't exist.
func NewFileWatcher(path string, logger zerolog.Logger) (*FileWatcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FileWatcher{
		path:    filepath.Clean(path),
		watcher: watcher,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	fw.wg.Add(1)
	go fw.run()

	return fw, nil
}

// Watch returns a channel that receives an event after each debounced rewrite.
// The channel is closed when ctx is cancelled or the watcher closes.
func (fw *FileWatcher) Watch(ctx context.Context) <-chan ChangeEvent {
	ch := make(chan ChangeEvent, eventBufferSize)

	fw.mu.Lock()
	fw.subscribers = append(fw.subscribers, ch)
	fw.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			fw.unsubscribe(ch)
		case <-fw.ctx.Done():
		}
	}()

	return ch
}

// Close stops watching and closes all subscriber channels.
func (fw *FileWatcher) Close() error {
	fw.cancel()

	fw.mu.Lock()
	if fw.debounce != nil {
		fw.debounce.Stop()
	}
	for _, ch := range fw.subscribers {
		close(ch)
	}
	fw.subscribers = nil
	fw.mu.Unlock()

	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) unsubscribe(ch chan ChangeEvent) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for i, sub := range fw.subscribers {
		if sub == ch {
			fw.subscribers = append(fw.subscribers[:i], fw.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (fw *FileWatcher) run() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn().Err(err).Str("path", fw.path).Msg("file watcher error")
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if filepath.Clean(event.Name) != fw.path {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.ctx.Err() != nil {
		return
	}
	if fw.debounce != nil {
		fw.debounce.Stop()
	}
	fw.debounce = time.AfterFunc(debounceDelay, fw.notifySubscribers)
}

func (fw *FileWatcher) notifySubscribers() {
	event := ChangeEvent{
		Path:      fw.path,
		Timestamp: time.Now(),
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, ch := range fw.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is behind; it will observe the latest file on its next read.
		}
	}
	fw.debounce = nil
}
