package services

import (
	"context"
	"io"

	"github.com/samber/lo"

	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/app/export"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context, source string) (*model.Run, error)
}

// runService implements RunService
type runService struct {
	runner Runner
	runs   repository.RunDAO
}

// NewRunService creates a new run service
func NewRunService(runner Runner, runs repository.RunDAO) RunService {
	return &runService{runner: runner, runs: runs}
}

// CreateRun runs the pipeline synchronously. A failed run is still recorded,
// but the error is what the caller sees.
func (s *runService) CreateRun(ctx context.Context, req *dto.CreateRunRequest) (*dto.RunResponse, error) {
	run, err := s.runner.Run(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	return dto.NewRunResponse(run), nil
}

func (s *runService) GetRun(ctx context.Context, id string) (*dto.RunResponse, error) {
	run, err := s.runs.GetRun(id)
	if err != nil {
		return nil, err
	}
	return dto.NewRunResponse(run), nil
}

func (s *runService) ListRuns(ctx context.Context, query dto.ListRunsQuery) (*dto.RunListResponse, error) {
	runs, err := s.runs.ListRuns(repository.ListLimit(query.Limit))
	if err != nil {
		return nil, err
	}

	responses := lo.Map(runs, func(run model.Run, _ int) dto.RunResponse {
		return *dto.NewRunResponse(&run)
	})
	return &dto.RunListResponse{Runs: responses, Count: len(responses)}, nil
}

func (s *runService) ExportRuns(ctx context.Context, query dto.ListRunsQuery, w io.Writer) error {
	runs, err := s.runs.ListRuns(repository.ListLimit(query.Limit))
	if err != nil {
		return err
	}
	return export.Write(runs, w)
}
