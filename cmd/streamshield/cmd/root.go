package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/common"
	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/export"
	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/models"
	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/process"
	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/serve"
	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/settings"
	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamshield",
	Short: "Detect and censor sensitive content in images, videos, audio and live capture",
	Long: `StreamShield runs an object detector over the frames of an input and a speech
recognizer over its audio, then reports detected objects and beep words.

- Inputs can be images, videos, audio files or the webcam
- Settings decide which page elements are hidden and which words are beeped
- Runs are recorded to sqlite or postgres and can be exported to excel`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(models.Cmd)
	rootCmd.AddCommand(settings.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&common.Options.ConfigPath, "config", "c", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&common.Options.Verbose, "verbose", "V", false, "verbose output")
}
