// Package openai provides a remote speech recognizer backed by the OpenAI
// transcription API.
package openai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// Name is the backend name used in configuration.
const Name = "openai"

// BaseURLEnvVar overrides the API base URL, e.g. for a compatible proxy.
const BaseURLEnvVar = "OPENAI_BASE_URL"

func init() {
	models.RegisterRecognizer(Name, New)
}

// Recognizer transcribes audio files remotely. The model path is ignored.
type Recognizer struct {
	client   *openai.Client
	model    string
	language string
	logger   *zap.Logger
}

// New creates a recognizer using OPENAI_API_KEY.
func New(ctx context.Context, cfg models.RecognizerConfig) (models.Recognizer, error) {
	keys, err := config.GetAPIKeys()
	if err != nil {
		return nil, err
	}
	if keys.OpenAI == "" {
		return nil, fmt.Errorf("openai recognizer requires OPENAI_API_KEY")
	}

	clientConfig := openai.DefaultConfig(keys.OpenAI)
	if baseURL := strings.TrimSpace(os.Getenv(BaseURLEnvVar)); baseURL != "" {
		if err := config.ValidateURL(baseURL, "OpenAI base"); err != nil {
			return nil, err
		}
		clientConfig.BaseURL = baseURL
	}

	return NewWithClient(openai.NewClientWithConfig(clientConfig), cfg.Language, cfg.Logger), nil
}

// NewWithClient creates a recognizer around an existing client.
func NewWithClient(client *openai.Client, language string, logger *zap.Logger) *Recognizer {
	return &Recognizer{
		client:   client,
		model:    openai.Whisper1,
		language: language,
		logger:   logging.OrNop(logger),
	}
}

// Transcribe uploads the file and returns the timed segments.
func (r *Recognizer) Transcribe(ctx context.Context, wavPath string) (*models.Transcript, error) {
	if _, err := os.Stat(wavPath); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    r.model,
		FilePath: wavPath,
		Language: r.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("createTranscription failed: %w", err)
	}

	transcript := &models.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Segments: make([]models.Segment, 0, len(resp.Segments)),
	}
	for _, segment := range resp.Segments {
		transcript.Segments = append(transcript.Segments, models.Segment{
			Start: seconds(segment.Start),
			End:   seconds(segment.End),
			Text:  strings.TrimSpace(segment.Text),
		})
	}

	r.logger.Debug("transcribed remotely", zap.String("path", wavPath), zap.Int("segments", len(transcript.Segments)))
	return transcript, nil
}

// Close is a no-op; the client holds no resources.
func (r *Recognizer) Close() error {
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
