// Package config provides the configuration loader for snaplink.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce is the watch batching window used when none is configured.
const DefaultDebounce = 50 * time.Millisecond

var defaultExtensions = []string{".js", ".json"}

// nodePlatforms maps GOOS values to the names Node reports in process.platform.
var nodePlatforms = map[string]string{
	"windows": "win32",
	"solaris": "sunos",
	"illumos": "sunos",
}

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	fs     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, fs: fsys}
}

// Load finds snaplink.yaml in cwd or the closest ancestor and resolves it.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var snapfile Snapfile
	if err := l.readAndUnmarshalYAML(configPath, &snapfile); err != nil {
		return nil, err
	}

	cfg, err := l.resolve(filepath.Dir(configPath), &snapfile)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		currentDir = parentDir
	}
}

func (l *Loader) readAndUnmarshalYAML(configPath string, target *Snapfile) error {
	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "config", configPath)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "config", configPath)
	}
	return nil
}

func (l *Loader) resolve(root string, sf *Snapfile) (*domain.Config, error) {
	if sf.Main == "" {
		return nil, domain.ErrMissingMain
	}

	for _, patterns := range [][]string{sf.Exclude, sf.Transpile.Patterns, sf.Watch.Globs} {
		if err := validatePatterns(patterns); err != nil {
			return nil, err
		}
	}

	debounce := DefaultDebounce
	if sf.Watch.Debounce != "" {
		d, err := time.ParseDuration(sf.Watch.Debounce)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "watch.debounce", sf.Watch.Debounce)
		}
		debounce = d
	}

	baseDir := resolvePath(root, sf.BaseDir, root)

	cfg := &domain.Config{
		Root:                 root,
		BaseDir:              baseDir,
		MainPath:             resolvePath(root, sf.Main, ""),
		EntryPoints:          resolvePaths(root, sf.EntryPoints),
		Extensions:           orDefault(sf.Extensions, defaultExtensions),
		Exclude:              sf.Exclude,
		Auxiliary:            sf.Auxiliary,
		SourceMaps:           sf.SourceMaps,
		Output:               resolvePath(root, sf.Output, domain.DefaultOutputName),
		OutputWithSourceMaps: resolvePath(root, sf.OutputWithSourceMaps, domain.DefaultOutputWithSourceMapsName),
		CachePath:            resolvePath(root, sf.Cache, domain.DefaultCachePath()),
		Platform:             sf.Platform,
		PathSeparator:        sf.PathSeparator,
		Transpile: domain.TranspileConfig{
			Command:  sf.Transpile.Command,
			Patterns: sf.Transpile.Patterns,
		},
		Watch: domain.WatchConfig{
			Paths:     resolvePaths(root, sf.Watch.Paths),
			Globs:     sf.Watch.Globs,
			Debounce:  debounce,
			Gitignore: sf.Watch.Gitignore == nil || *sf.Watch.Gitignore,
		},
	}

	if cfg.Auxiliary == nil {
		cfg.Auxiliary = map[string]any{}
	}
	if cfg.Platform == "" {
		cfg.Platform = NodePlatform(runtime.GOOS)
	}
	if cfg.PathSeparator == "" {
		cfg.PathSeparator = string(filepath.Separator)
	} else if cfg.PathSeparator != "/" && cfg.PathSeparator != `\` {
		l.Logger.Warn(fmt.Sprintf("unusual pathSeparator %q in %s", cfg.PathSeparator, domain.ConfigFileName))
	}
	if len(cfg.Watch.Paths) == 0 {
		cfg.Watch.Paths = []string{baseDir}
	}
	if len(cfg.Watch.Globs) == 0 {
		cfg.Watch.Globs = defaultWatchGlobs(cfg.Extensions, cfg.Transpile.Patterns)
	}

	if _, err := l.fs.Stat(cfg.MainPath); errors.Is(err, fs.ErrNotExist) {
		l.Logger.Warn(fmt.Sprintf("main module %s does not exist yet", cfg.MainPath))
	}

	return cfg, nil
}

// NodePlatform returns the process.platform value for goos.
func NodePlatform(goos string) string {
	if p, ok := nodePlatforms[goos]; ok {
		return p
	}
	return goos
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return zerr.With(domain.ErrInvalidPattern, "pattern", p)
		}
	}
	return nil
}

func defaultWatchGlobs(extensions, transpilePatterns []string) []string {
	globs := make([]string, 0, len(extensions)+len(transpilePatterns))
	for _, ext := range extensions {
		globs = append(globs, "**/*"+ext)
	}
	return append(globs, transpilePatterns...)
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// resolvePath resolves configured against root. An empty value resolves
// fallback instead, and an empty fallback yields "".
func resolvePath(root, configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	if configured == "" {
		return ""
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, configured))
}

func resolvePaths(root string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	resolved := make([]string, len(paths))
	for i, p := range paths {
		resolved[i] = resolvePath(root, p, "")
	}
	return resolved
}
