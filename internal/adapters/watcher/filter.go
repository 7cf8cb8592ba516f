package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"go.trai.ch/snaplink/internal/adapters/exclude"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/zerr"
)

type rootIgnore struct {
	root  string
	rules gitignore.GitIgnore
}

// Filter selects the watch events that should trigger a relink: paths
// matching the configured globs that no .gitignore at a watch root excludes.
type Filter struct {
	baseDir string
	globs   *exclude.Matcher
	ignores []rootIgnore
}

// NewFilter builds a Filter from the watch configuration. Globs are matched
// against paths relative to baseDir and against absolute paths.
func NewFilter(baseDir string, cfg domain.WatchConfig) (*Filter, error) {
	globs, err := exclude.New(cfg.Globs)
	if err != nil {
		return nil, err
	}

	f := &Filter{baseDir: baseDir, globs: globs}
	if !cfg.Gitignore {
		return f, nil
	}

	for _, root := range cfg.Paths {
		rules, err := loadGitignore(root)
		if err != nil {
			return nil, err
		}
		if rules != nil {
			f.ignores = append(f.ignores, rootIgnore{root: root, rules: rules})
		}
	}
	return f, nil
}

// Match reports whether a change to path should be processed.
func (f *Filter) Match(path string) bool {
	rel, err := filepath.Rel(f.baseDir, path)
	if err != nil {
		rel = path
	}
	if !f.globs.Match(rel, path) {
		return false
	}

	for _, ig := range f.ignores {
		rel, err := filepath.Rel(ig.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if ignored(ig.rules, filepath.ToSlash(rel)) {
			return false
		}
	}
	return true
}

// ignored checks rel and each of its parent directories against rules.
func ignored(rules gitignore.GitIgnore, rel string) bool {
	parts := strings.Split(rel, "/")
	for i := range parts {
		isDir := i < len(parts)-1
		match := rules.Relative(strings.Join(parts[:i+1], "/"), isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// loadGitignore reads root/.gitignore. A missing file yields nil rules.
func loadGitignore(root string) (gitignore.GitIgnore, error) {
	path := filepath.Join(root, ".gitignore")
	// #nosec G304 -- path is a configured watch root
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	return gitignore.New(f, root, nil), nil
}
