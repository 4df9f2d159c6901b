package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

// ErrRunNotFound is returned by GetRun for unknown ids.
var ErrRunNotFound = apperrors.New("run not found")

// RunDAO stores the history of pipeline runs.
type RunDAO interface {
	Close() error

	RecordRun(run *model.Run) error

	GetRun(id string) (*model.Run, error)

	ListRuns(limit int) ([]model.Run, error)
}

// RunColumns is the column order used by every run query.
const RunColumns = `id, source, kind, device, frames_processed, detections, audio_path, audio_artifact, transcript, beeps, started_at, finished_at, has_error, error_message`

// DefaultListLimit bounds ListRuns when no positive limit is given.
const DefaultListLimit = 100

// RunArgs flattens a run into query arguments in RunColumns order.
func RunArgs(run *model.Run) ([]interface{}, error) {
	detections, err := json.Marshal(nonNilDetections(run.Detections))
	if err != nil {
		return nil, fmt.Errorf("encode detections: %w", err)
	}
	beeps, err := json.Marshal(nonNilBeeps(run.Beeps))
	if err != nil {
		return nil, fmt.Errorf("encode beeps: %w", err)
	}

	return []interface{}{
		run.ID, run.Source, run.Kind, run.Device, run.FramesProcessed, string(detections),
		run.AudioPath, run.AudioArtifact, run.Transcript, string(beeps),
		run.StartedAt, run.FinishedAt, run.HasError, run.ErrorMessage,
	}, nil
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanRun reads one row selected with RunColumns.
func ScanRun(s Scanner) (*model.Run, error) {
	var (
		run        model.Run
		detections sql.NullString
		beeps      sql.NullString
		audioPath  sql.NullString
		artifact   sql.NullString
		transcript sql.NullString
		errMessage sql.NullString
	)

	err := s.Scan(&run.ID, &run.Source, &run.Kind, &run.Device, &run.FramesProcessed, &detections,
		&audioPath, &artifact, &transcript, &beeps,
		&run.StartedAt, &run.FinishedAt, &run.HasError, &errMessage)
	if err != nil {
		return nil, err
	}

	run.AudioPath = audioPath.String
	run.AudioArtifact = artifact.String
	run.Transcript = transcript.String
	run.ErrorMessage = errMessage.String

	run.Detections = map[string]int{}
	if detections.Valid && detections.String != "" {
		if err := json.Unmarshal([]byte(detections.String), &run.Detections); err != nil {
			return nil, fmt.Errorf("decode detections: %w", err)
		}
	}
	run.Beeps = []model.Beep{}
	if beeps.Valid && beeps.String != "" {
		if err := json.Unmarshal([]byte(beeps.String), &run.Beeps); err != nil {
			return nil, fmt.Errorf("decode beeps: %w", err)
		}
	}

	return &run, nil
}

// ListLimit returns limit, or DefaultListLimit when limit is not positive.
func ListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func nonNilDetections(d map[string]int) map[string]int {
	if d == nil {
		return map[string]int{}
	}
	return d
}

func nonNilBeeps(b []model.Beep) []model.Beep {
	if b == nil {
		return []model.Beep{}
	}
	return b
}
