package domain

import "go.trai.ch/zerr"

var (
	// ErrNotADirectory is returned when the watched root is missing or is not a directory.
	ErrNotADirectory = zerr.New("path is not a directory")

	// ErrBadFilter is returned when a filter expression cannot be parsed.
	ErrBadFilter = zerr.New("malformed filter expression")

	// ErrInvalidConfig is returned when a watch configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid watch configuration")

	// ErrRootUnreadable is returned when the watched root can no longer be listed.
	ErrRootUnreadable = zerr.New("watched directory is unreadable")

	// ErrConfigReadFailed is returned when a watch file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read watch file")

	// ErrConfigParseFailed is returned when a watch file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse watch file")

	// ErrQueueClosed is returned when a message is published after the notifier queue closed.
	ErrQueueClosed = zerr.New("event queue is closed")

	// ErrHandlerPanicked is logged when a subscriber callback panics.
	ErrHandlerPanicked = zerr.New("event handler panicked")
)
