package ports

import "go.trai.ch/pakt/internal/core/domain"

// ConfigLoader loads the build configuration surface.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given path. Directories resolve
	// to the conventional configuration filename inside them.
	Load(path string) (*domain.BuildConfig, error)
}
