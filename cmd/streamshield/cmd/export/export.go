package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/common"
	"github.com/AbbasKothari1552/StreamShield/internal/app"
	"github.com/AbbasKothari1552/StreamShield/internal/app/export"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
)

var (
	outputFilePath string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "export at most this many recent runs (default 100)")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to excel",
	Long: `Export recorded runs to excel

- Most recent runs first, one row per run
- Detections are summarised per label and beeps with their start time`,
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

		runs, err := application.Runs.ListRuns(limit)
		if err != nil {
			return err
		}

		if err := export.ToExcel(runs, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d runs written to %v\n", len(runs), outputFilePath)
		return nil
	},
}
