package dto

import (
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
)

// ModelsResponse reports the loader state and the compiled-in backends
type ModelsResponse struct {
	models.Status
	AvailableDetectors   []string `json:"available_detectors"`
	AvailableRecognizers []string `json:"available_recognizers"`
}

// LoadModelsRequest overrides the configured model paths. Empty means configured.
type LoadModelsRequest struct {
	DetectorPath   string `json:"detector_path"`
	RecognizerPath string `json:"recognizer_path"`
}
