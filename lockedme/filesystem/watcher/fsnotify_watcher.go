package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

var ErrAlreadyStarted = errors.New("watcher already started")

var _ Watcher = (*FSNotifyWatcher)(nil)

// FSNotifyWatcher implements the Watcher interface using fsnotify. It does
// not recurse: subdirectories and everything under them are ignored.
type FSNotifyWatcher struct {
	watcher   *fsnotify.Watcher
	eventChan chan Event
	errorChan chan error
	config    WatcherConfig
	logger    zerolog.Logger

	mu      sync.Mutex
	subdirs map[string]bool
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// NewFSNotifyWatcher creates a new fsnotify-based watcher
func NewFSNotifyWatcher(config WatcherConfig, logger zerolog.Logger) (*FSNotifyWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if config.QueueCapacity <= 0 {
		config.QueueCapacity = DefaultWatcherConfig().QueueCapacity
	}

	return &FSNotifyWatcher{
		watcher:   fsWatcher,
		eventChan: make(chan Event, config.QueueCapacity),
		errorChan: make(chan error, 10),
		config:    config,
		logger:    logger,
		subdirs:   make(map[string]bool),
	}, nil
}

// Start begins watching dir until ctx is cancelled or Close is called.
func (w *FSNotifyWatcher) Start(ctx context.Context, dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.subdirs[entry.Name()] = true
		}
	}

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started = true

	w.wg.Add(1)
	go w.watchLoop(ctx)

	w.logger.Info().Str("dir", dir).Msg("Directory watcher started")
	return nil
}

// Events returns the event channel
func (w *FSNotifyWatcher) Events() <-chan Event {
	return w.eventChan
}

// Errors returns the error channel
func (w *FSNotifyWatcher) Errors() <-chan error {
	return w.errorChan
}

// Close stops watching and closes both channels. It is safe to call more
// than once.
func (w *FSNotifyWatcher) Close() error {
	var closeErr error
	w.once.Do(func() {
		w.mu.Lock()
		if w.cancel != nil {
			w.cancel()
		}
		w.mu.Unlock()

		if err := w.watcher.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close fsnotify watcher: %w", err)
		}

		w.wg.Wait()

		close(w.eventChan)
		close(w.errorChan)

		w.logger.Info().Msg("Directory watcher closed")
	})
	return closeErr
}

// watchLoop is the main event processing loop
func (w *FSNotifyWatcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			fileEvent, keep := w.convertEvent(event)
			if !keep {
				continue
			}

			select {
			case w.eventChan <- fileEvent:
			case <-ctx.Done():
				return
			default:
				w.logger.Warn().Str("path", fileEvent.Path).Msg("Event channel full, dropping event")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errorChan <- err:
			case <-ctx.Done():
				return
			default:
				w.logger.Warn().Err(err).Msg("Error channel full, dropping error")
			}
		}
	}
}

// convertEvent maps an fsnotify event to a file event, dropping events about
// subdirectories.
func (w *FSNotifyWatcher) convertEvent(event fsnotify.Event) (Event, bool) {
	var eventType EventType

	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventWrite
	case event.Has(fsnotify.Remove):
		eventType = EventRemove
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	case event.Has(fsnotify.Chmod):
		eventType = EventChmod
	default:
		return Event{}, false
	}

	name := filepath.Base(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	switch eventType {
	case EventRemove, EventRename:
		if w.subdirs[name] {
			delete(w.subdirs, name)
			return Event{}, false
		}
	default:
		info, err := os.Stat(event.Name)
		if err != nil {
			// Gone again before we looked; a later remove event follows.
			return Event{}, false
		}
		if info.IsDir() {
			w.subdirs[name] = true
			return Event{}, false
		}
		if !info.Mode().IsRegular() {
			return Event{}, false
		}
	}

	return Event{
		Type:      eventType,
		Name:      name,
		Path:      event.Name,
		Timestamp: time.Now(),
	}, true
}
