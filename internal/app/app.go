package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/app/input"
	"github.com/AbbasKothari1552/StreamShield/internal/app/metrics"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
	"github.com/AbbasKothari1552/StreamShield/internal/app/settings"
	"github.com/AbbasKothari1552/StreamShield/internal/app/storage"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// App bundles the long-lived components shared by the CLI and the HTTP server.
type App struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Settings  *settings.Manager
	Inputs    *input.Handler
	// Artifacts is nil when artifact storage is disabled.
	Artifacts storage.ArtifactStore
	Loader    *models.Loader
	Runs      repository.RunDAO
	Pipeline  *pipeline.Pipeline
}

func newApp(
	cfg *config.AppConfig,
	logger *zap.Logger,
	registry *prometheus.Registry,
	m *metrics.Metrics,
	settingsManager *settings.Manager,
	inputs *input.Handler,
	artifacts storage.ArtifactStore,
	loader *models.Loader,
	runs repository.RunDAO,
	p *pipeline.Pipeline,
) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Metrics:   m,
		Settings:  settingsManager,
		Inputs:    inputs,
		Artifacts: artifacts,
		Loader:    loader,
		Runs:      runs,
		Pipeline:  p,
	}
}
