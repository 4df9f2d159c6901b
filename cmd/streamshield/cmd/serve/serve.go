package serve

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/common"
	"github.com/AbbasKothari1552/StreamShield/internal/api/server"
	"github.com/AbbasKothari1552/StreamShield/internal/app"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
)

var (
	port       string
	loadModels bool
)

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default: from config)")
	Cmd.Flags().BoolVar(&loadModels, "load-models", true,
		"load both models before serving; otherwise load them with POST /api/v1/models/load")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API

- Settings can be read and updated while the service runs
- Inputs can be dispatched and runs started over HTTP
- Prometheus metrics are served on /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}
		if port != "" {
			cfg.Server.Port = port
		}

		application, cleanup, err := app.InitializeApp(cfg, pipeline.ProgressConfig{})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := common.SignalContext()
		defer stop()

		logger := application.Logger
		if loadModels {
			if _, err := application.Loader.LoadModels(ctx, cfg.Models.DetectorPath, cfg.Models.RecognizerPath); err != nil {
				// the API still serves settings and can retry the load
				logger.Warn("model load failed", zap.Error(err))
			}
		}

		srv := server.NewServer(server.ConfigFrom(cfg.Server), server.Dependencies{
			Settings:  application.Settings,
			Inputs:    application.Inputs,
			Runner:    application.Pipeline,
			Runs:      application.Runs,
			Loader:    application.Loader,
			Artifacts: application.Artifacts,
			Metrics:   application.Metrics,
			Gatherer:  application.Registry,
		}, logger)

		errCh := srv.Start()
		select {
		case err, ok := <-errCh:
			if ok {
				return err
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
