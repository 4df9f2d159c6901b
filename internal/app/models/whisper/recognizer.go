// Package whisper provides the local speech recognizer backend using the
// whisper.cpp cgo bindings. libwhisper and whisper.h must be available at
// link time via LIBRARY_PATH and C_INCLUDE_PATH.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/app/audio"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
)

// Name is the backend name used in configuration.
const Name = "whisper"

func init() {
	models.RegisterRecognizer(Name, New)
}

// Recognizer transcribes WAV files with a whisper.cpp model loaded once and
// shared across calls. Each call gets its own context.
type Recognizer struct {
	model    whisperlib.Model
	language string
	tools    *audio.Tools
	logger   *zap.Logger

	mu sync.Mutex
}

// New loads the ggml model at cfg.Path.
func New(ctx context.Context, cfg models.RecognizerConfig) (models.Recognizer, error) {
	if cfg.Path == "" {
		return nil, errors.New("whisper: model path must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := whisperlib.New(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", cfg.Path, err)
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	logger := logging.OrNop(cfg.Logger)
	return &Recognizer{
		model:    model,
		language: language,
		tools:    audio.NewTools(cfg.FFmpegPath, cfg.FFprobePath, logger),
		logger:   logger,
	}, nil
}

// Transcribe converts wavPath to 16 kHz mono if needed and runs the model over it.
func (r *Recognizer) Transcribe(ctx context.Context, wavPath string) (*models.Transcript, error) {
	path := wavPath
	ok, err := r.tools.Is16kHzWavFile(ctx, wavPath)
	if err != nil || !ok {
		if path, err = r.tools.ConvertTo16kHzWav(ctx, wavPath); err != nil {
			return nil, fmt.Errorf("whisper: prepare audio: %w", err)
		}
	}

	samples, _, err := audio.ReadPCM(path)
	if err != nil {
		return nil, fmt.Errorf("whisper: read audio: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// whisper.cpp contexts share the model's compute buffers
	r.mu.Lock()
	defer r.mu.Unlock()

	wctx, err := r.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(r.language); err != nil {
		r.logger.Warn("unsupported language, using auto detection", zap.String("language", r.language), zap.Error(err))
		_ = wctx.SetLanguage("auto")
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper: process: %w", err)
	}

	transcript := &models.Transcript{Language: r.language}
	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("whisper: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		transcript.Segments = append(transcript.Segments, models.Segment{
			Start: segment.Start,
			End:   segment.End,
			Text:  text,
		})
		parts = append(parts, text)
	}
	transcript.Text = strings.Join(parts, " ")

	r.logger.Debug("transcribed", zap.String("path", path), zap.Int("segments", len(transcript.Segments)))
	return transcript, nil
}

// Close releases the model.
func (r *Recognizer) Close() error {
	if r.model != nil {
		return r.model.Close()
	}
	return nil
}
