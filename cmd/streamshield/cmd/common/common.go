// Package common holds state shared by the streamshield subcommands.
package common

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AbbasKothari1552/StreamShield/internal/app"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// Options are the persistent root flags
var Options struct {
	ConfigPath string
	Verbose    bool
}

// LoadConfig loads the configuration named by --config. --verbose switches
// the logger to development mode.
func LoadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadAppConfig(Options.ConfigPath)
	if err != nil {
		return nil, err
	}
	if Options.Verbose {
		cfg.Logging.Development = true
	}
	return cfg, nil
}

// InitApp loads the configuration and builds the application.
func InitApp(progress pipeline.ProgressConfig) (*app.App, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return app.InitializeApp(cfg, progress)
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
