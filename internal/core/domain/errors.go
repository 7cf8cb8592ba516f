package domain

import (
	"fmt"
	"unicode/utf8"

	"go.trai.ch/zerr"
)

var (
	// ErrFileRead is returned when a module file cannot be read.
	ErrFileRead = zerr.New("failed to read module file")

	// ErrTransform is returned when a module cannot be parsed or rewritten.
	ErrTransform = zerr.New("failed to transform module")

	// ErrCacheOpen is returned when the transform cache store cannot be opened.
	ErrCacheOpen = zerr.New("failed to open transform cache")

	// ErrCacheRead is returned when the transform cache rows cannot be read.
	ErrCacheRead = zerr.New("failed to read transform cache")

	// ErrCacheWrite is returned when the transform cache rows cannot be written.
	ErrCacheWrite = zerr.New("failed to write transform cache")

	// ErrCacheDecode is returned when the stored entry set cannot be decoded.
	ErrCacheDecode = zerr.New("failed to decode transform cache entries")

	// ErrCacheClosed is returned when the cache is used after it was closed.
	ErrCacheClosed = zerr.New("transform cache is closed")

	// ErrConfigNotFound is returned when no snaplink.yaml exists in the directory tree.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigRead is returned when the config file cannot be read.
	ErrConfigRead = zerr.New("failed to read config file")

	// ErrConfigParse is returned when the config file is not valid YAML.
	ErrConfigParse = zerr.New("failed to parse config file")

	// ErrMissingMain is returned when the config does not name a main module.
	ErrMissingMain = zerr.New("config does not declare a main module")

	// ErrInvalidPattern is returned when a glob pattern is malformed.
	ErrInvalidPattern = zerr.New("invalid glob pattern")

	// ErrTranspileFailed is returned when the transpile command fails.
	ErrTranspileFailed = zerr.New("transpile command failed")

	// ErrAssemble is returned when the snapshot script cannot be assembled.
	ErrAssemble = zerr.New("failed to assemble snapshot script")

	// ErrOutputWrite is returned when a generated script cannot be written.
	ErrOutputWrite = zerr.New("failed to write snapshot script")

	// ErrSectionsNotFound is returned when a script carries no section table.
	ErrSectionsNotFound = zerr.New("snapshot script has no section table")

	// ErrInvalidRow is returned when a row argument is not a positive integer.
	ErrInvalidRow = zerr.New("row must be a positive integer")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start file watcher")
)

// TransformError reports a module that could not be statically parsed.
// Offset is a byte offset into the source handed to the rewriter.
type TransformError struct {
	Path    string
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// Context returns up to radius bytes either side of the failure offset,
// joined by a "==>" marker. Both edges fall on rune boundaries.
func (e *TransformError) Context(source string, radius int) string {
	offset := min(max(e.Offset, 0), len(source))
	for offset > 0 && offset < len(source) && !utf8.RuneStart(source[offset]) {
		offset--
	}

	start := max(offset-radius, 0)
	for start < offset && !utf8.RuneStart(source[start]) {
		start++
	}
	end := min(offset+radius, len(source))
	for end > offset && end < len(source) && !utf8.RuneStart(source[end]) {
		end--
	}
	return source[start:offset] + "==>" + source[offset:end]
}
