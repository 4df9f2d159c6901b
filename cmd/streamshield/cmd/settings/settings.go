package settings

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AbbasKothari1552/StreamShield/cmd/streamshield/cmd/common"
	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/settings"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

var (
	hideElements []string
	beepWords    string
)

func init() {
	updateCmd.Flags().StringSliceVar(&hideElements, "hide-elements", nil,
		"elements to hide, comma separated (login_forms, links); pass an empty value to hide none")
	updateCmd.Flags().StringVar(&beepWords, "beep-words", "", "path to the beep words file")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
}

// Cmd represents the settings command
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or update the blurring settings",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings and beep words",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}
		manager := settings.NewManagerFromConfig(cfg.Settings, logging.MustNewLogger(cfg.Logging.Development))

		out, err := yaml.Marshal(struct {
			settings.Settings `yaml:",inline"`
			Words             []string `yaml:"words"`
		}{manager.Snapshot(), manager.BeepWords()})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the settings stored in the config file",
	Long: `Update the settings stored in the config file

- Unknown hide elements are ignored
- A beep words file that does not exist is ignored and the previous path kept`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if common.Options.ConfigPath == "" {
			return fmt.Errorf("%w: settings update saves to the file given by --config", apperrors.ErrMissingConfig)
		}
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}

		manager := settings.NewManagerFromConfig(cfg.Settings, logging.MustNewLogger(cfg.Logging.Development))
		req := settings.UpdateRequest{}
		if cmd.Flags().Changed("hide-elements") {
			req.HideElements = append([]string{}, hideElements...)
		}
		if cmd.Flags().Changed("beep-words") {
			req.BeepWordsPath = &beepWords
		}

		result := manager.Update(req)
		out := cmd.OutOrStdout()
		for _, name := range result.Ignored {
			fmt.Fprintf(out, "ignored unknown hide element %q\n", name)
		}
		if result.BeepWordsRejected {
			fmt.Fprintf(out, "beep words file %q does not exist, keeping %q\n", beepWords, result.Settings.BeepWordsPath)
		}

		cfg.Settings = ToConfig(result.Settings)
		if err := config.SaveAppConfig(cfg, common.Options.ConfigPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "settings saved to %s\n", common.Options.ConfigPath)
		return nil
	},
}

// ToConfig converts a settings snapshot back to its config file form.
func ToConfig(s settings.Settings) config.SettingsConfig {
	hidden := []string{}
	for _, name := range settings.AvailableHideElements {
		if s.HideElements[name] {
			hidden = append(hidden, name)
		}
	}
	return config.SettingsConfig{HideElements: hidden, BeepWordsPath: s.BeepWordsPath}
}
