package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/app/input"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/storage"
)

// Dispatcher is the part of input.Handler the API uses
type Dispatcher interface {
	Process(ctx context.Context, source string) (*input.Processed, error)
}

// inputService implements InputService
type inputService struct {
	inputs    Dispatcher
	artifacts storage.ArtifactStore
	logger    *zap.Logger
}

// NewInputService creates a new input service. artifacts may be nil.
func NewInputService(inputs Dispatcher, artifacts storage.ArtifactStore, logger *zap.Logger) InputService {
	return &inputService{inputs: inputs, artifacts: artifacts, logger: logging.OrNop(logger)}
}

// ProcessInput dispatches the source and reports the result. Frame sources
// are released right away; running detection is the job of the run service.
func (s *inputService) ProcessInput(ctx context.Context, req *dto.ProcessInputRequest) (*dto.InputResponse, error) {
	processed, err := s.inputs.Process(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := processed.Close(); err != nil {
			s.logger.Warn("failed to release frame source", zap.String("source", req.Source), zap.Error(err))
		}
	}()

	resp := &dto.InputResponse{
		Source:        processed.Source,
		Kind:          string(processed.Kind),
		HasFrames:     processed.HasFrames(),
		AudioPath:     processed.AudioPath,
		AudioArtifact: processed.AudioArtifact,
	}
	if s.artifacts != nil && processed.AudioArtifact != "" {
		resp.AudioURL = s.artifacts.URL(processed.AudioArtifact)
	}
	return resp, nil
}
