package models

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/common"
	"github.com/AbbasKothari1552/StreamShield/internal/app"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
)

var (
	detectorPath   string
	recognizerPath string
)

func init() {
	loadCmd.Flags().StringVarP(&detectorPath, "detector", "d", "", "detector weights (default: from config)")
	loadCmd.Flags().StringVarP(&recognizerPath, "recognizer", "r", "", "speech model (default: from config)")

	Cmd.AddCommand(loadCmd)
	Cmd.AddCommand(listCmd)
}

// Cmd represents the models command
var Cmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and load the detection and speech models",
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load both models concurrently and report the result",
	Long: `Load both models concurrently and report the result

- The compute device is cuda when a GPU is visible, otherwise cpu
- Both loads run to completion; every failure is reported`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}
		application, cleanup, err := app.InitializeApp(cfg, pipeline.ProgressConfig{})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := common.SignalContext()
		defer stop()

		if detectorPath == "" {
			detectorPath = cfg.Models.DetectorPath
		}
		if recognizerPath == "" {
			recognizerPath = cfg.Models.RecognizerPath
		}
		if _, err := application.Loader.LoadModels(ctx, detectorPath, recognizerPath); err != nil {
			return err
		}

		return printJSON(cmd, application.Loader.Status())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the compiled-in model backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "device:      %s\n", models.DetectDevice())
		fmt.Fprintf(out, "detectors:   %v\n", models.ListDetectors())
		fmt.Fprintf(out, "recognizers: %v\n", models.ListRecognizers())
		return nil
	},
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
