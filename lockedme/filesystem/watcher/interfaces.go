package watcher

import (
	"context"
	"time"
)

// EventType represents the type of file system event
type EventType int

const (
	// EventCreate represents file creation
	EventCreate EventType = iota
	// EventWrite represents file modification
	EventWrite
	// EventRemove represents file removal
	EventRemove
	// EventRename represents a file being renamed away
	EventRename
	// EventChmod represents permission changes
	EventChmod
)

func (t EventType) String() string {
	switch t {
	case EventCreate:
		return "create"
	case EventWrite:
		return "write"
	case EventRemove:
		return "remove"
	case EventRename:
		return "rename"
	case EventChmod:
		return "chmod"
	default:
		return "unknown"
	}
}

// Event represents a change to a regular file directly inside the watched
// directory.
type Event struct {
	Type      EventType
	Name      string
	Path      string
	Timestamp time.Time
}

// Watcher defines the interface for directory watching
type Watcher interface {
	// Start begins watching dir. Only direct children are reported.
	Start(ctx context.Context, dir string) error

	// Events returns a channel of file events
	Events() <-chan Event

	// Errors returns a channel of errors encountered during watching
	Errors() <-chan error

	// Close stops watching and cleans up resources
	Close() error
}

// WatcherConfig holds configuration for the watcher
type WatcherConfig struct {
	// QueueCapacity is the capacity of the event channel
	QueueCapacity int
}

// DefaultWatcherConfig returns the configuration used by the CLI.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{QueueCapacity: 64}
}
