package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.trai.ch/snaplink/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/snaplink/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// batchBuffer bounds the change batches waiting for the worker.
const batchBuffer = 16

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Dir        string
	SourceMaps bool
}

// Watch links the project, then relinks it whenever watched files change
// until ctx is done. Batches are handled one at a time by a single worker.
// A batch that fails is logged and does not flush the cache; the entries it
// did rewrite stay in memory and are persisted by the next good batch.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	s, err := a.openSession(opts.Dir, opts.SourceMaps)
	if err != nil {
		return err
	}
	defer func() { _ = s.cache.Close() }()

	if err := a.link(ctx, s); err != nil {
		return err
	}
	if err := s.cache.Flush(); err != nil {
		return err
	}

	filter, err := watcher.NewFilter(s.cfg.BaseDir, s.cfg.Watch)
	if err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, s.cfg.Watch.Paths...); err != nil {
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info(fmt.Sprintf("watching %s for changes", strings.Join(s.cfg.Watch.Paths, ", ")))

	batches := make(chan []string, batchBuffer)
	debouncer := watcher.NewDebouncer(s.cfg.Watch.Debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for event := range a.watcher.Events() {
			if relevant(event, filter) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-batches:
				a.relink(gctx, s, paths)
			}
		}
	})

	return g.Wait()
}

// relink refreshes the cache for paths, rewrites the scripts and persists the
// cache. Errors are logged so the session keeps running.
func (a *App) relink(ctx context.Context, s *session, paths []string) {
	a.logger.Info(fmt.Sprintf("relinking after %d changed file(s)", len(paths)))

	if _, err := a.linker.Orchestrator().Retransform(ctx, s.cache, s.opts.Traversal, paths); err != nil {
		a.logger.Error(err)
		return
	}
	if err := a.link(ctx, s); err != nil {
		a.logger.Error(err)
		return
	}
	if err := s.cache.Flush(); err != nil {
		a.logger.Error(err)
	}
}

// relevant keeps creations, writes and renames of existing files that pass filter.
func relevant(event ports.WatchEvent, filter *watcher.Filter) bool {
	if event.Operation == ports.OpRemove {
		return false
	}
	if !filter.Match(event.Path) {
		return false
	}
	info, err := os.Stat(event.Path)
	return err == nil && !info.IsDir()
}
