package ports

import "go.trai.ch/dirpoll/internal/core/domain"

// ConfigLoader defines the interface for loading a watch configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the watch file at path and returns the configuration it describes.
	Load(path string) (domain.WatchConfig, error)
}
