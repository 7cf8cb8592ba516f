// Package domain contains the core types of the snapshot linker.
package domain

import (
	"path/filepath"
	"strings"
)

const nodeModulesPrefix = "./node_modules/"

// RefKind is how a require call site ended up in the rewritten code.
type RefKind uint8

const (
	// RefIncluded sites point at a registry key and are traversed.
	RefIncluded RefKind = iota
	// RefExcluded sites resolved but were rewritten to the absolute path.
	RefExcluded
	// RefUnresolved sites are left as written for the host loader.
	RefUnresolved
)

// RequireRef is a single require call site discovered in a module.
type RequireRef struct {
	// Unresolved is the specifier as written in source.
	Unresolved string `json:"unresolvedPath"`
	// Resolved is the absolute path, or Unresolved when resolution failed.
	Resolved string `json:"resolvedPath"`
	// Kind is how the call site was rewritten.
	Kind RefKind `json:"kind,omitempty"`
}

// IncludedRefs returns the refs of kind RefIncluded, keeping their order.
func IncludedRefs(refs []RequireRef) []RequireRef {
	var out []RequireRef
	for _, ref := range refs {
		if ref.Kind == RefIncluded {
			out = append(out, ref)
		}
	}
	return out
}

// ModuleRecord is one module of the snapshot, in emission order.
type ModuleRecord struct {
	Path         string
	RelativePath string
	Code         string
	Map          *SourceMap
	Requires     []RequireRef
}

// Decision is the outcome of the inclusion decision for one require call site.
type Decision uint8

const (
	// Included modules are embedded in the snapshot and traversed.
	Included Decision = iota
	// Excluded modules are left to the host's native loader.
	Excluded
)

func (d Decision) String() string {
	if d == Excluded {
		return "excluded"
	}
	return "included"
}

// DecideFunc decides whether a require call site is embedded.
// relative is empty when the specifier could not be resolved.
type DecideFunc func(unresolved, resolved, relative string) Decision

// ExclusionQuery is the input to a caller supplied inclusion predicate.
type ExclusionQuery struct {
	RequiringPath string
	RequiredPath  string
	RelativePath  string
}

// ExcludeFunc returns true when the required module must stay out of the snapshot.
type ExcludeFunc func(q ExclusionQuery) bool

// RelativeModulePath returns the registry key of file: relative to baseDir,
// slash separated, prefixed with "./" and with a leading node_modules/ removed
// so that packages appear as bare specifiers.
func RelativeModulePath(baseDir, file string) string {
	rel, err := filepath.Rel(baseDir, file)
	if err != nil {
		rel = file
	}
	rel = strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return strings.TrimPrefix(rel, nodeModulesPrefix)
}

// IncludedSet is an insertion ordered set of absolute module paths.
type IncludedSet struct {
	order []string
	seen  map[string]struct{}
}

// NewIncludedSet creates a set seeded with paths.
func NewIncludedSet(paths ...string) *IncludedSet {
	s := &IncludedSet{seen: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts path and reports whether it was new.
func (s *IncludedSet) Add(path string) bool {
	if _, ok := s.seen[path]; ok {
		return false
	}
	s.seen[path] = struct{}{}
	s.order = append(s.order, path)
	return true
}

// Has reports whether path is in the set.
func (s *IncludedSet) Has(path string) bool {
	_, ok := s.seen[path]
	return ok
}

// Paths returns the members in insertion order.
func (s *IncludedSet) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of members.
func (s *IncludedSet) Len() int {
	return len(s.order)
}
