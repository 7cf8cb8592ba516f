// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/snaplink/internal/core/ports"
)

// FormatEnv selects the log format. The value "json" switches to JSON records.
const FormatEnv = "SNAPLINK_LOG_FORMAT"

// zerrError describes the parts of a zerr.Error the formatter reads: the
// layer's own message without the chain, and its metadata.
type zerrError interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one layer of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing to stderr. The format follows FormatEnv.
func New() ports.Logger {
	l := &Logger{output: os.Stderr}
	l.jsonMode = os.Getenv(FormatEnv) == "json"
	l.logger = slog.New(newHandler(l.output, l.jsonMode))
	return l
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the logger's output destination, keeping the format.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(newHandler(l.output, enable))
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

// Error logs err with every layer of its chain.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := collectErrorEntries(err)

	if l.jsonMode {
		attrs := make([]any, 0, 2)
		attrs = append(attrs, "error", err.Error())
		if len(entries) > 0 && len(entries[0].Metadata) > 0 {
			attrs = append(attrs, "metadata", entries[0].Metadata)
		}
		l.logger.Error("operation failed", attrs...)
		return
	}

	l.logger.Error(formatErrorEntries(entries))
}

// collectErrorEntries walks the chain. zerr layers contribute their own
// message and metadata; the first standard error contributes its full text
// and ends the walk.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	for current := err; current != nil; {
		z, ok := current.(zerrError)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		metadata := z.Metadata()
		if metadata == nil {
			metadata = map[string]any{}
		}
		// zerr.With on a standard error adds a layer without a message.
		if msg := z.Message(); msg != "" || len(metadata) > 0 {
			entries = append(entries, ErrorEntry{Message: msg, Metadata: metadata})
		}
		current = errors.Unwrap(current)
	}
	return mergeAnonymous(entries)
}

// mergeAnonymous folds metadata-only layers into the next entry.
func mergeAnonymous(entries []ErrorEntry) []ErrorEntry {
	out := make([]ErrorEntry, 0, len(entries))
	var pending map[string]any
	for _, e := range entries {
		if e.Message == "" && pending == nil {
			pending = e.Metadata
			continue
		}
		if pending != nil {
			merged := make(map[string]any, len(pending)+len(e.Metadata))
			for k, v := range e.Metadata {
				merged[k] = v
			}
			for k, v := range pending {
				merged[k] = v
			}
			e.Metadata = merged
			pending = nil
		}
		out = append(out, e)
	}
	return out
}

func formatErrorEntries(entries []ErrorEntry) string {
	lines := make([]string, 0, len(entries)*2)

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		indent := "      "
		if i == 0 {
			indent = "       "
			lines = append(lines, "Error: "+msgLines[0])
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lines = append(lines, "    → "+msgLines[0])
		}

		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
