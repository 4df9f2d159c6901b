package dto

import (
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

// CreateRunRequest starts a pipeline run for a source
type CreateRunRequest struct {
	Source string `json:"source" binding:"required"`
}

// ListRunsQuery bounds a run listing
type ListRunsQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=1000"`
}

// RunResponse is one recorded run
type RunResponse struct {
	model.Run
	DurationMS int64 `json:"duration_ms"`
}

// NewRunResponse converts a run to its response form
func NewRunResponse(run *model.Run) *RunResponse {
	return &RunResponse{
		Run:        *run,
		DurationMS: run.Duration().Milliseconds(),
	}
}

// RunListResponse is a page of runs, most recent first
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}
