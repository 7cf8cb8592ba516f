// Package linker runs a traversal and assembles the snapshot scripts from it.
package linker

import (
	"context"

	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/snaplink/internal/engine/assembler"
	"go.trai.ch/snaplink/internal/engine/traversal"
	"golang.org/x/sync/errgroup"
)

// Options configures one link.
type Options struct {
	Traversal     traversal.Options
	Auxiliary     map[string]any
	Platform      string
	PathSeparator string
}

// Output is the result of a link.
type Output struct {
	Script *assembler.Script
	// ScriptWithSourceMaps is nil unless source maps were requested.
	ScriptWithSourceMaps *assembler.Script
	Included             *domain.IncludedSet
	Transformed          int
	Hits                 int
}

// Linker builds snapshot scripts.
type Linker struct {
	orchestrator *traversal.Orchestrator
	tracer       ports.Tracer
}

// NewLinker creates a new Linker.
func NewLinker(orchestrator *traversal.Orchestrator, tracer ports.Tracer) *Linker {
	return &Linker{
		orchestrator: orchestrator,
		tracer:       tracer,
	}
}

// Orchestrator returns the traversal driver used by the linker.
func (l *Linker) Orchestrator() *traversal.Orchestrator {
	return l.orchestrator
}

// Link traverses the module graph through cache and assembles the scripts.
// The plain and the source map variants are assembled concurrently.
func (l *Linker) Link(ctx context.Context, cache ports.TransformCache, opts Options) (*Output, error) {
	ctx, span := l.tracer.Start(ctx, "link")
	defer span.End()

	res, err := l.traverse(ctx, cache, opts.Traversal)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out, err := l.assemble(ctx, res, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("modules.count", len(res.Modules))
	return out, nil
}

func (l *Linker) traverse(ctx context.Context, cache ports.TransformCache, opts traversal.Options) (*traversal.Result, error) {
	ctx, span := l.tracer.Start(ctx, "traverse")
	defer span.End()

	res, err := l.orchestrator.Traverse(ctx, cache, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("modules.transformed", res.Transformed)
	span.SetAttribute("modules.cached", res.Hits)
	return res, nil
}

func (l *Linker) assemble(ctx context.Context, res *traversal.Result, opts Options) (*Output, error) {
	_, span := l.tracer.Start(ctx, "assemble")
	defer span.End()

	in := assembler.Input{
		BaseDir:       opts.Traversal.BaseDir,
		MainPath:      opts.Traversal.MainPath,
		Modules:       res.Modules,
		Auxiliary:     opts.Auxiliary,
		Platform:      opts.Platform,
		PathSeparator: opts.PathSeparator,
	}

	out := &Output{
		Included:    res.Included,
		Transformed: res.Transformed,
		Hits:        res.Hits,
	}

	var g errgroup.Group
	g.Go(func() error {
		script, err := assembler.Assemble(in, false)
		out.Script = script
		return err
	})
	if opts.Traversal.SourceMaps {
		g.Go(func() error {
			script, err := assembler.Assemble(in, true)
			out.ScriptWithSourceMaps = script
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("sections.count", len(out.Script.Sections))
	return out, nil
}
