package ports

import (
	"context"

	"go.trai.ch/snaplink/internal/core/domain"
)

// Transpiler is the optional preprocessing hook run before a module is rewritten.
//
//go:generate mockgen -source=transpiler.go -destination=mocks/mock_transpiler.go -package=mocks
type Transpiler interface {
	// Transpile returns nil when the module needs no preprocessing.
	Transpile(ctx context.Context, modulePath string) (*domain.Transpiled, error)
}
