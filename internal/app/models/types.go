package models

import (
	"context"
	"image"
	"time"
)

// Detection is one object found in a frame.
type Detection struct {
	Class int             `json:"class"`
	Label string          `json:"label"`
	Score float32         `json:"score"`
	Box   image.Rectangle `json:"box"`
}

// Detector finds objects in images.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
	Close() error
}

// Segment is a timed span of recognized speech.
type Segment struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// Transcript is the result of recognizing one audio file.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

// Recognizer transcribes speech from audio files.
type Recognizer interface {
	Transcribe(ctx context.Context, wavPath string) (*Transcript, error)
	Close() error
}

// Models holds a loaded detector and recognizer pair.
type Models struct {
	Detector   Detector
	Recognizer Recognizer
}
