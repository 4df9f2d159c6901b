package services

import (
	"context"

	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/app/settings"
)

// settingsService implements SettingsService over the shared settings manager
type settingsService struct {
	manager *settings.Manager
}

// NewSettingsService creates a new settings service
func NewSettingsService(manager *settings.Manager) SettingsService {
	return &settingsService{manager: manager}
}

func (s *settingsService) GetSettings(ctx context.Context) *dto.SettingsResponse {
	return toSettingsResponse(s.manager.Snapshot())
}

func (s *settingsService) UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) *dto.UpdateSettingsResponse {
	update := settings.UpdateRequest{BeepWordsPath: req.BeepWords}
	if req.HideElements != nil {
		update.HideElements = []string(req.HideElements)
	}

	result := s.manager.Update(update)
	return &dto.UpdateSettingsResponse{
		SettingsResponse:  *toSettingsResponse(result.Settings),
		Ignored:           result.Ignored,
		BeepWordsRejected: result.BeepWordsRejected,
	}
}

func (s *settingsService) GetBeepWords(ctx context.Context) *dto.BeepWordsResponse {
	words := s.manager.BeepWords()
	if words == nil {
		words = []string{}
	}
	return &dto.BeepWordsResponse{
		Path:  s.manager.BeepWordsPath(),
		Words: words,
		Count: len(words),
	}
}

func toSettingsResponse(snapshot settings.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		HideElements:          snapshot.HideElements,
		BeepWords:             snapshot.BeepWordsPath,
		AvailableHideElements: append([]string(nil), settings.AvailableHideElements...),
	}
}
