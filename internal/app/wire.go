//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// InitializeApp builds every component from the configuration. The returned
// cleanup closes the run history, releases loaded models and flushes the logger.
func InitializeApp(cfg *config.AppConfig, progress pipeline.ProgressConfig) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
