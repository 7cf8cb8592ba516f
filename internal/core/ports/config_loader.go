package ports

import "go.trai.ch/snaplink/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds snaplink.yaml in cwd or its ancestors and returns the resolved config.
	Load(cwd string) (*domain.Config, error)
}
