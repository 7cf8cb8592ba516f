// Package traversal walks the module graph breadth first and keeps the
// transform cache in step with it.
package traversal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/zerr"
)

// contextRadius is the number of bytes printed either side of a parse failure.
const contextRadius = 100

// Options configures one traversal.
type Options struct {
	BaseDir     string
	MainPath    string
	EntryPoints []string
	Extensions  []string
	// Exclude keeps a required module out of the snapshot when it returns true.
	Exclude domain.ExcludeFunc
	// Transpiler is optional.
	Transpiler ports.Transpiler
	// SourceMaps requests output maps and rejects cache hits that carry none.
	SourceMaps bool
}

// Result is the outcome of a full traversal.
type Result struct {
	// Modules are in first discovery order.
	Modules  []domain.ModuleRecord
	Included *domain.IncludedSet
	// Transformed counts cache misses, Hits counts reused entries.
	Transformed int
	Hits        int
}

// Orchestrator drives the resolver, the rewriter and the transform cache.
type Orchestrator struct {
	resolver ports.PathResolver
	rewriter ports.Rewriter
	logger   ports.Logger
}

// NewOrchestrator creates a new Orchestrator with the given dependencies.
func NewOrchestrator(resolver ports.PathResolver, rewriter ports.Rewriter, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		rewriter: rewriter,
		logger:   logger,
	}
}

// Traverse visits every module reachable from the main path and the entry
// points, reusing valid cache entries and rewriting the rest. Entries not
// visited are evicted from the cache once the queue drains.
func (o *Orchestrator) Traverse(ctx context.Context, cache ports.TransformCache, opts Options) (*Result, error) {
	queue := make([]string, 0, 1+len(opts.EntryPoints))
	queue = append(queue, opts.MainPath)
	queue = append(queue, opts.EntryPoints...)

	result := &Result{Included: domain.NewIncludedSet(queue...)}
	emitted := make(map[string]struct{})

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue[0]
		queue = queue[1:]

		relative := domain.RelativeModulePath(opts.BaseDir, path)
		if _, ok := emitted[relative]; ok {
			continue
		}
		emitted[relative] = struct{}{}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFileRead.Error()), "path", path)
		}

		record := domain.ModuleRecord{Path: path, RelativePath: relative}
		if entry, ok := o.lookup(cache, path, content, opts); ok {
			record.Code = entry.Source
			record.Map = entry.Map
			record.Requires = domain.IncludedRefs(entry.Requires)
			result.Hits++
		} else {
			res, err := o.transform(ctx, path, content, opts)
			if err != nil {
				return nil, err
			}
			cache.Put(path, content, res.Code, res.References, res.Map)
			record.Code = res.Code
			record.Map = res.Map
			record.Requires = res.Requires
			result.Transformed++
		}

		for _, ref := range record.Requires {
			queue = append(queue, ref.Resolved)
			result.Included.Add(ref.Resolved)
		}
		result.Modules = append(result.Modules, record)
	}

	cache.DeleteUnusedEntries()
	return result, nil
}

// Retransform refreshes the cache for the given paths and the modules they
// include, without touching entries that are still valid. It returns the
// number of modules rewritten.
func (o *Orchestrator) Retransform(
	ctx context.Context,
	cache ports.TransformCache,
	opts Options,
	paths []string,
) (int, error) {
	queue := append([]string(nil), paths...)
	visited := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		visited[p] = struct{}{}
	}

	transformed := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return transformed, err
		}

		path := queue[0]
		queue = queue[1:]

		content, err := os.ReadFile(path)
		if err != nil {
			return transformed, zerr.With(zerr.Wrap(err, domain.ErrFileRead.Error()), "path", path)
		}

		if _, ok := o.lookup(cache, path, content, opts); ok {
			continue
		}

		res, err := o.transform(ctx, path, content, opts)
		if err != nil {
			return transformed, err
		}
		cache.Put(path, content, res.Code, res.References, res.Map)
		transformed++

		for _, ref := range res.Requires {
			if _, ok := visited[ref.Resolved]; ok {
				continue
			}
			visited[ref.Resolved] = struct{}{}
			queue = append(queue, ref.Resolved)
		}
	}
	return transformed, nil
}

// lookup returns the cached transform of path when its content key matches
// and every recorded call site still resolves to the recorded path. Sites
// that did not resolve are recorded by specifier, so a module whose missing
// dependency appears is rewritten too. Only direct references are checked.
func (o *Orchestrator) lookup(
	cache ports.TransformCache,
	path string,
	content []byte,
	opts Options,
) (*domain.CacheEntry, bool) {
	entry, ok := cache.Get(path, content)
	if !ok {
		return nil, false
	}
	if opts.SourceMaps && entry.Map == nil {
		return nil, false
	}
	for _, ref := range entry.Requires {
		resolved, ok := o.resolver.Resolve(path, ref.Unresolved, opts.Extensions)
		if !ok {
			resolved = ref.Unresolved
		}
		if resolved != ref.Resolved {
			return nil, false
		}
	}
	return entry, true
}

// transform runs the transpile hook and the rewriter over one module.
func (o *Orchestrator) transform(
	ctx context.Context,
	path string,
	content []byte,
	opts Options,
) (*ports.RewriteResult, error) {
	source := string(content)
	var inputMap *domain.SourceMap

	if opts.Transpiler != nil {
		transpiled, err := opts.Transpiler.Transpile(ctx, path)
		if err != nil {
			return nil, err
		}
		if transpiled != nil && transpiled.Code != "" {
			source = transpiled.Code
			inputMap = transpiled.Map
		}
	}

	res, err := o.rewriter.Rewrite(ports.RewriteRequest{
		Path:       path,
		Source:     source,
		InputMap:   inputMap,
		BaseDir:    opts.BaseDir,
		Extensions: opts.Extensions,
		Decide:     decider(path, opts.Exclude),
		SourceMap:  opts.SourceMaps,
	})
	if err != nil {
		var terr *domain.TransformError
		if !errors.As(err, &terr) {
			return nil, err
		}
		o.logger.Warn(fmt.Sprintf("Unable to transform source code for module %s.", path))
		o.logger.Warn(terr.Context(source, contextRadius))
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTransform.Error()), "path", path)
	}
	return res, nil
}

// decider adapts the caller's exclusion predicate to the rewriter's decision.
func decider(requiringPath string, exclude domain.ExcludeFunc) domain.DecideFunc {
	return func(_, resolved, relative string) domain.Decision {
		if exclude != nil && exclude(domain.ExclusionQuery{
			RequiringPath: requiringPath,
			RequiredPath:  resolved,
			RelativePath:  relative,
		}) {
			return domain.Excluded
		}
		return domain.Included
	}
}
