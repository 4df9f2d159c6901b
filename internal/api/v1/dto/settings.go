package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/AbbasKothari1552/StreamShield/internal/api/errors"
)

// HideElementList accepts either a JSON array of names or a single name.
type HideElementList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *HideElementList) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = HideElementList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	if many == nil {
		many = []string{}
	}
	*l = many
	return nil
}

// SettingsResponse is the current settings snapshot
type SettingsResponse struct {
	HideElements          map[string]bool `json:"hide_elements"`
	BeepWords             string          `json:"beep_words"`
	AvailableHideElements []string        `json:"available_hide_elements"`
}

// UpdateSettingsRequest is a partial settings update. Omitted fields are left untouched.
type UpdateSettingsRequest struct {
	HideElements HideElementList `json:"hide_elements,omitempty"`
	BeepWords    *string         `json:"beep_words,omitempty"`
}

// Validate performs domain-specific validation
func (r *UpdateSettingsRequest) Validate() error {
	if r.HideElements == nil && r.BeepWords == nil {
		return errors.NewValidationError("Validation failed", map[string]string{
			"request": "at least one of hide_elements or beep_words is required",
		})
	}
	if r.BeepWords != nil && strings.TrimSpace(*r.BeepWords) == "" {
		return errors.NewValidationError("Validation failed", map[string]string{
			"beep_words": "must not be empty",
		})
	}
	return nil
}

// UpdateSettingsResponse is the snapshot after an update
type UpdateSettingsResponse struct {
	SettingsResponse
	Ignored           []string `json:"ignored_hide_elements,omitempty"`
	BeepWordsRejected bool     `json:"beep_words_rejected"`
}

// BeepWordsResponse lists the words read from the configured file
type BeepWordsResponse struct {
	Path  string   `json:"path"`
	Words []string `json:"words"`
	Count int      `json:"count"`
}
