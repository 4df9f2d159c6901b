package model

import "time"

// Beep is one occurrence of a beep word inside a transcript segment.
type Beep struct {
	Word    string        `json:"word"`
	Segment int           `json:"segment"`
	Start   time.Duration `json:"start"`
	End     time.Duration `json:"end"`
}

// Run records one pass of the pipeline over an input source.
type Run struct {
	ID              string         `json:"id"`
	Source          string         `json:"source"`
	Kind            string         `json:"kind"`
	Device          string         `json:"device"`
	FramesProcessed int            `json:"frames_processed"`
	Detections      map[string]int `json:"detections"`
	AudioPath       string         `json:"audio_path,omitempty"`
	AudioArtifact   string         `json:"audio_artifact,omitempty"`
	Transcript      string         `json:"transcript,omitempty"`
	Beeps           []Beep         `json:"beeps"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	HasError        int            `json:"has_error"`
	ErrorMessage    string         `json:"error_message,omitempty"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// TotalDetections sums detections over all labels.
func (r *Run) TotalDetections() int {
	total := 0
	for _, n := range r.Detections {
		total += n
	}
	return total
}
