// Package app implements the application layer for snaplink.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/snaplink/internal/adapters/exclude"   //nolint:depguard // Wired in app layer
	"go.trai.ch/snaplink/internal/adapters/transpile" //nolint:depguard // Wired in app layer
	"go.trai.ch/snaplink/internal/build"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/snaplink/internal/engine/assembler"
	"go.trai.ch/snaplink/internal/engine/linker"
	"go.trai.ch/snaplink/internal/engine/traversal"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	hasher       ports.Hasher
	caches       ports.TransformCacheFactory
	linker       *linker.Linker
	watcher      ports.Watcher
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	hasher ports.Hasher,
	caches ports.TransformCacheFactory,
	lnk *linker.Linker,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		hasher:       hasher,
		caches:       caches,
		linker:       lnk,
		watcher:      watcher,
	}
}

// GenerateOptions configuration for the Generate method.
type GenerateOptions struct {
	// Dir is where the search for snaplink.yaml starts.
	Dir string
	// SourceMaps also writes the source map variant, regardless of the config.
	SourceMaps bool
}

// Generate links the project once and writes the snapshot scripts. The
// transform cache is persisted only when the whole generation succeeds.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) error {
	s, err := a.openSession(opts.Dir, opts.SourceMaps)
	if err != nil {
		return err
	}

	if err := a.link(ctx, s); err != nil {
		return errors.Join(err, s.cache.Close())
	}

	return s.cache.Dispose()
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Dir string
}

// Clean removes the transform cache of the project.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.configLoader.Load(opts.Dir)
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("removing %s...", cfg.CachePath))
	if err := os.Remove(cfg.CachePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove transform cache"), "path", cfg.CachePath)
	}
	a.logger.Info(fmt.Sprintf("removed %s", cfg.CachePath))
	return nil
}

// Translate maps a 1-based row of a generated script back to the module it
// came from.
func (a *App) Translate(_ context.Context, scriptPath string, row int) (domain.RowLocation, error) {
	if row < 1 {
		return domain.RowLocation{}, zerr.With(domain.ErrInvalidRow, "row", row)
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return domain.RowLocation{}, zerr.With(zerr.Wrap(err, domain.ErrFileRead.Error()), "path", scriptPath)
	}

	sections, err := assembler.ExtractSections(string(data))
	if err != nil {
		return domain.RowLocation{}, zerr.With(err, "path", scriptPath)
	}
	return domain.TranslateRow(sections, row), nil
}

// session is the state shared by the links of one generation or watch run.
type session struct {
	cfg   *domain.Config
	cache ports.TransformCache
	opts  linker.Options
}

func (a *App) openSession(dir string, sourceMaps bool) (*session, error) {
	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, err
	}

	matcher, err := exclude.New(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	command, err := transpile.New(cfg.Transpile, cfg.Root, a.logger)
	if err != nil {
		return nil, err
	}
	var transpiler ports.Transpiler
	if command != nil {
		transpiler = command
	}

	cache, err := a.caches.Open(cfg.CachePath, a.invalidationKey(cfg))
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:   cfg,
		cache: cache,
		opts: linker.Options{
			Traversal: traversal.Options{
				BaseDir:     cfg.BaseDir,
				MainPath:    cfg.MainPath,
				EntryPoints: cfg.EntryPoints,
				Extensions:  cfg.Extensions,
				Exclude:     matcher.Exclude,
				Transpiler:  transpiler,
				SourceMaps:  sourceMaps || cfg.SourceMaps,
			},
			Auxiliary:     cfg.Auxiliary,
			Platform:      cfg.Platform,
			PathSeparator: cfg.PathSeparator,
		},
	}, nil
}

// invalidationKey covers everything besides file contents that changes what
// a module is rewritten to.
func (a *App) invalidationKey(cfg *domain.Config) string {
	parts := []string{build.Version, "exclude"}
	parts = append(parts, cfg.Exclude...)
	parts = append(parts, "transpile")
	parts = append(parts, cfg.Transpile.Command...)
	parts = append(parts, "patterns")
	parts = append(parts, cfg.Transpile.Patterns...)
	return a.hasher.HashStrings(parts...)
}

// link runs one link and writes its scripts.
func (a *App) link(ctx context.Context, s *session) error {
	out, err := a.linker.Link(ctx, s.cache, s.opts)
	if err != nil {
		return err
	}

	if err := writeScript(s.cfg.Output, out.Script.Text); err != nil {
		return err
	}
	written := []string{displayPath(s.cfg.Root, s.cfg.Output)}

	if out.ScriptWithSourceMaps != nil {
		if err := writeScript(s.cfg.OutputWithSourceMaps, out.ScriptWithSourceMaps.Text); err != nil {
			return err
		}
		written = append(written, displayPath(s.cfg.Root, s.cfg.OutputWithSourceMaps))
	}

	a.logger.Info(fmt.Sprintf(
		"linked %d modules (%d transformed, %d cached) into %s",
		out.Included.Len(), out.Transformed, out.Hits, strings.Join(written, ", "),
	))
	return nil
}

// displayPath returns path relative to root when it lies below it.
func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func writeScript(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWrite.Error()), "path", path)
	}
	if err := os.WriteFile(path, []byte(text), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWrite.Error()), "path", path)
	}
	return nil
}
