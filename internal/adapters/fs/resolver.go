package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/snaplink/internal/core/ports"
)

var _ ports.PathResolver = (*Resolver)(nil)

// Resolver resolves require specifiers with Node's module resolution rules.
// It only reads the filesystem.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the absolute path specifier refers to from fromFile.
// Paths starting with "." or "/" are tried as a file, then with each
// extension appended, then as a directory. Bare specifiers are searched in
// node_modules directories from fromFile's directory up to the filesystem root.
func (r *Resolver) Resolve(fromFile, specifier string, extensions []string) (string, bool) {
	if specifier == "" || IsBuiltin(specifier) {
		return "", false
	}

	if isPathSpecifier(specifier) {
		target := filepath.FromSlash(specifier)
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(fromFile), target)
		}
		return r.resolvePath(target, extensions)
	}

	dir := filepath.Dir(fromFile)
	for {
		if filepath.Base(dir) != "node_modules" {
			candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(specifier))
			if resolved, ok := r.resolvePath(candidate, extensions); ok {
				return resolved, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (r *Resolver) resolvePath(target string, extensions []string) (string, bool) {
	if resolved, ok := resolveFile(target, extensions); ok {
		return resolved, true
	}
	return r.resolveDirectory(target, extensions)
}

func (r *Resolver) resolveDirectory(dir string, extensions []string) (string, bool) {
	if !isDir(dir) {
		return "", false
	}

	if main := packageMain(dir); main != "" {
		target := filepath.Join(dir, filepath.FromSlash(main))
		if resolved, ok := resolveFile(target, extensions); ok {
			return resolved, true
		}
		if resolved, ok := resolveIndex(target, extensions); ok {
			return resolved, true
		}
	}

	return resolveIndex(dir, extensions)
}

func resolveFile(target string, extensions []string) (string, bool) {
	if isFile(target) {
		return target, true
	}
	for _, ext := range extensions {
		if isFile(target + ext) {
			return target + ext, true
		}
	}
	return "", false
}

func resolveIndex(dir string, extensions []string) (string, bool) {
	for _, ext := range extensions {
		candidate := filepath.Join(dir, "index"+ext)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// packageMain returns the "main" field of dir/package.json, if any.
func packageMain(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json")) //nolint:gosec // Path is derived from a module directory
	if err != nil {
		return ""
	}
	var pkg struct {
		Main string `json:"main"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Main
}

func isPathSpecifier(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/") || filepath.IsAbs(specifier)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
