package ports

import "go.trai.ch/snaplink/internal/core/domain"

// RewriteRequest is the input to a single module rewrite.
type RewriteRequest struct {
	Path       string
	Source     string
	InputMap   *domain.SourceMap
	BaseDir    string
	Extensions []string
	Decide     domain.DecideFunc
	// SourceMap requests an output map composed with InputMap.
	SourceMap bool
}

// RewriteResult is the transformed module.
type RewriteResult struct {
	Code string
	Map  *domain.SourceMap
	// Requires lists the included call sites in source order.
	Requires []domain.RequireRef
	// References lists every literal call site, whatever its kind.
	References []domain.RequireRef
}

// Rewriter rewrites the literal require call sites of one module.
//
//go:generate mockgen -source=rewriter.go -destination=mocks/mock_rewriter.go -package=mocks
type Rewriter interface {
	// Rewrite returns a *domain.TransformError when the source cannot be parsed.
	Rewrite(req RewriteRequest) (*RewriteResult, error)
}
