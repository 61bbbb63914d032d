// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/dirpoll/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Logger = (*Logger)(nil)

// messager matches errors that can report their own message without the chain.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	output   io.Writer
	jsonMode bool
}

// New creates a Logger that pretty-prints to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination. A nil writer selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON records and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.rebuild()
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err. In JSON mode zerr metadata becomes record attributes;
// otherwise the chain is printed one cause per line.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		zerr.Log(context.Background(), l.logger, err)
		return
	}
	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	// zerr.With on a foreign error adds a link with no message of its own;
	// its metadata belongs to the next link that has one.
	pending := map[string]any{}
	for current := err; current != nil; current = errors.Unwrap(current) {
		var entry ErrorEntry
		if m, ok := current.(messager); ok {
			entry.Message = m.Message()
		} else {
			entry.Message = current.Error()
		}
		if z, ok := current.(*zerr.Error); ok {
			maps.Copy(pending, z.Metadata())
		}

		if entry.Message == "" {
			continue
		}
		if len(pending) > 0 {
			entry.Metadata = pending
			pending = map[string]any{}
		}
		entries = append(entries, entry)

		if _, ok := current.(messager); !ok {
			break
		}
	}
	if len(pending) > 0 && len(entries) > 0 {
		last := &entries[len(entries)-1]
		if last.Metadata == nil {
			last.Metadata = pending
		} else {
			maps.Copy(last.Metadata, pending)
		}
	}
	return entries
}

func formatErrorEntries(entries []ErrorEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i == 0 {
			b.WriteString(e.Message)
		} else {
			b.WriteString("\n  caused by: " + e.Message)
		}
		for _, key := range slices.Sorted(maps.Keys(e.Metadata)) {
			fmt.Fprintf(&b, "\n    %s=%v", key, e.Metadata[key])
		}
	}
	return b.String()
}
