package services

import (
	"context"
	"io"

	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
)

// SettingsService defines the interface for settings operations
type SettingsService interface {
	GetSettings(ctx context.Context) *dto.SettingsResponse
	UpdateSettings(ctx context.Context, req *dto.UpdateSettingsRequest) *dto.UpdateSettingsResponse
	GetBeepWords(ctx context.Context) *dto.BeepWordsResponse
}

// InputService defines the interface for input dispatch operations
type InputService interface {
	ProcessInput(ctx context.Context, req *dto.ProcessInputRequest) (*dto.InputResponse, error)
}

// RunService defines the interface for pipeline run operations
type RunService interface {
	CreateRun(ctx context.Context, req *dto.CreateRunRequest) (*dto.RunResponse, error)
	GetRun(ctx context.Context, id string) (*dto.RunResponse, error)
	ListRuns(ctx context.Context, query dto.ListRunsQuery) (*dto.RunListResponse, error)
	ExportRuns(ctx context.Context, query dto.ListRunsQuery, w io.Writer) error
}

// ModelService defines the interface for model operations
type ModelService interface {
	GetStatus(ctx context.Context) *dto.ModelsResponse
	LoadModels(ctx context.Context, req *dto.LoadModelsRequest) (*dto.ModelsResponse, error)
}
