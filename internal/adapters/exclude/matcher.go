// Package exclude matches module paths against doublestar glob patterns.
package exclude

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/zerr"
)

// Matcher is a validated set of glob patterns.
type Matcher struct {
	patterns []string
}

// New validates patterns and returns a Matcher for them.
func New(patterns []string) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, zerr.With(domain.ErrInvalidPattern, "pattern", p)
		}
	}
	return &Matcher{patterns: patterns}, nil
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return len(m.patterns) == 0
}

// Match reports whether any pattern matches any of names.
// Names are compared in slash form.
func (m *Matcher) Match(names ...string) bool {
	for _, name := range names {
		name = filepath.ToSlash(name)
		for _, p := range m.patterns {
			if ok, _ := doublestar.Match(p, name); ok {
				return true
			}
		}
	}
	return false
}

// MatchModule matches a module by its registry key and its absolute path.
func (m *Matcher) MatchModule(relativePath, path string) bool {
	if m.Empty() {
		return false
	}
	names := []string{path}
	if relativePath != "" {
		names = append(names, strings.TrimPrefix(relativePath, "./"))
	}
	return m.Match(names...)
}

// Exclude is a domain.ExcludeFunc that excludes every required module the
// patterns match.
func (m *Matcher) Exclude(q domain.ExclusionQuery) bool {
	return m.MatchModule(q.RelativePath, q.RequiredPath)
}
