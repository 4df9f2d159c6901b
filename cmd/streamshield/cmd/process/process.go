package process

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/common"
	"github.com/AbbasKothari1552/StreamShield/internal/app"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
)

var (
	maxFrames    int
	showProgress bool
	jsonOutput   bool
)

func init() {
	Cmd.Flags().IntVarP(&maxFrames, "max-frames", "m", -1,
		"stop after this many frames, 0 means no limit (default: from config)")
	Cmd.Flags().BoolVarP(&showProgress, "progress", "p", false,
		"always show progress bars, even when not attached to a terminal")
	Cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the run as JSON")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process <source>",
	Short: "Run detection and beep-word matching over one input",
	Long: `Run detection and beep-word matching over one input

- <source> is an image, video or audio file, or "webcam" for live capture
- Both models are loaded concurrently before the run starts
- Live capture runs until interrupted with Ctrl-C
- The run is recorded to the configured database`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}
		if maxFrames >= 0 {
			cfg.Input.MaxFrames = maxFrames
		}

		application, cleanup, err := app.InitializeApp(cfg, pipeline.ProgressConfig{
			Enabled: pipeline.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := common.SignalContext()
		defer stop()

		if _, err := application.Loader.LoadModels(ctx, cfg.Models.DetectorPath, cfg.Models.RecognizerPath); err != nil {
			return err
		}

		run, err := application.Pipeline.Run(ctx, args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		}
		printRun(cmd.OutOrStdout(), run)
		return nil
	},
}

func printRun(out io.Writer, run *model.Run) {
	fmt.Fprintf(out, "run %s (%s) finished in %s\n", run.ID, run.Kind, run.Duration())
	fmt.Fprintf(out, "  frames: %d\n", run.FramesProcessed)

	labels := lo.Keys(run.Detections)
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(out, "  %-12s %d\n", label, run.Detections[label])
	}

	if run.Transcript != "" {
		fmt.Fprintf(out, "  transcript: %s\n", run.Transcript)
	}
	for _, beep := range run.Beeps {
		fmt.Fprintf(out, "  beep %q at %s-%s\n", beep.Word, beep.Start, beep.End)
	}
}
