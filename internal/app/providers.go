package app

import (
	"fmt"
	"path/filepath"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/app/audio"
	"github.com/AbbasKothari1552/StreamShield/internal/app/input"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/media"
	"github.com/AbbasKothari1552/StreamShield/internal/app/metrics"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository/pg"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository/sqlite"
	"github.com/AbbasKothari1552/StreamShield/internal/app/settings"
	"github.com/AbbasKothari1552/StreamShield/internal/app/storage"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// ProviderSet is every provider needed to build an App.
var ProviderSet = wire.NewSet(
	provideLogger,
	provideRegistry,
	provideMetrics,
	provideSettings,
	provideAudioTools,
	provideDecoder,
	provideArtifactStore,
	provideInputHandler,
	provideLoader,
	provideRunDAO,
	providePipeline,
	wire.Bind(new(pipeline.Dispatcher), new(*input.Handler)),
	wire.Bind(new(pipeline.ModelProvider), new(*models.Loader)),
	wire.Bind(new(pipeline.BeepWordSource), new(*settings.Manager)),
	newApp,
)

func provideLogger(cfg *config.AppConfig) (*zap.Logger, func(), error) {
	logger, err := logging.NewLogger(cfg.Logging.Development)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(reg)
}

func provideSettings(cfg *config.AppConfig, logger *zap.Logger) *settings.Manager {
	return settings.NewManagerFromConfig(cfg.Settings, logger)
}

func provideAudioTools(cfg *config.AppConfig, logger *zap.Logger) *audio.Tools {
	return audio.NewTools(cfg.Input.FFmpegPath, cfg.Input.FFprobePath, logger)
}

func provideDecoder(cfg *config.AppConfig, logger *zap.Logger) *media.Decoder {
	return media.NewDecoder(media.Options{
		FFmpegPath:   cfg.Input.FFmpegPath,
		FFprobePath:  cfg.Input.FFprobePath,
		FrameRate:    cfg.Input.FrameRate,
		WebcamDevice: cfg.Input.WebcamDevice,
		WebcamWidth:  cfg.Input.WebcamWidth,
		WebcamHeight: cfg.Input.WebcamHeight,
	}, logger)
}

func provideArtifactStore(cfg *config.AppConfig, logger *zap.Logger) (storage.ArtifactStore, error) {
	return storage.NewArtifactStore(cfg.Storage, logger)
}

func provideInputHandler(
	cfg *config.AppConfig,
	settingsManager *settings.Manager,
	tools *audio.Tools,
	decoder *media.Decoder,
	store storage.ArtifactStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) *input.Handler {
	return input.NewHandler(settingsManager, tools, decoder,
		input.WithArtifactStore(store),
		input.WithAudioOutput(cfg.Input.AudioOutputPath),
		input.WithMetrics(m),
		input.WithLogger(logger),
	)
}

func provideLoader(cfg *config.AppConfig, logger *zap.Logger, m *metrics.Metrics) (*models.Loader, func(), error) {
	loader, err := models.NewLoaderFromConfig(cfg, logger, m)
	if err != nil {
		return nil, nil, err
	}
	return loader, func() {
		if err := loader.Close(); err != nil {
			logger.Warn("failed to release models", zap.Error(err))
		}
	}, nil
}

// provideRunDAO opens the run history store. Relative sqlite paths are
// resolved against the project root.
func provideRunDAO(cfg *config.AppConfig, logger *zap.Logger) (repository.RunDAO, func(), error) {
	dao, err := openRunDAO(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return dao, func() {
		if err := dao.Close(); err != nil {
			logger.Warn("failed to close run history", zap.Error(err))
		}
	}, nil
}

func openRunDAO(cfg config.DatabaseConfig) (repository.RunDAO, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := pg.NewPostgresDB(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	case "sqlite3", "":
		path := cfg.DSN
		if !filepath.IsAbs(path) {
			if root, err := config.GetProjectRoot(); err == nil {
				path = filepath.Join(root, path)
			}
		}
		db, err := sqlite.NewSQLiteDB(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func providePipeline(
	cfg *config.AppConfig,
	inputs pipeline.Dispatcher,
	loader pipeline.ModelProvider,
	words pipeline.BeepWordSource,
	runs repository.RunDAO,
	m *metrics.Metrics,
	logger *zap.Logger,
	progress pipeline.ProgressConfig,
) *pipeline.Pipeline {
	return pipeline.New(inputs, loader, words, runs, pipeline.Options{
		MaxFrames: cfg.Input.MaxFrames,
		Progress:  progress,
		Logger:    logger,
		Metrics:   m,
	})
}
