package services

import (
	"context"

	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
)

// ModelLoader is the part of models.Loader the API uses
type ModelLoader interface {
	Status() models.Status
	LoadModels(ctx context.Context, detectorPath, recognizerPath string) (*models.Models, error)
}

// modelService implements ModelService
type modelService struct {
	loader ModelLoader
}

// NewModelService creates a new model service
func NewModelService(loader ModelLoader) ModelService {
	return &modelService{loader: loader}
}

func (s *modelService) GetStatus(ctx context.Context) *dto.ModelsResponse {
	return &dto.ModelsResponse{
		Status:               s.loader.Status(),
		AvailableDetectors:   models.ListDetectors(),
		AvailableRecognizers: models.ListRecognizers(),
	}
}

func (s *modelService) LoadModels(ctx context.Context, req *dto.LoadModelsRequest) (*dto.ModelsResponse, error) {
	if _, err := s.loader.LoadModels(ctx, req.DetectorPath, req.RecognizerPath); err != nil {
		return nil, err
	}
	return s.GetStatus(ctx), nil
}
