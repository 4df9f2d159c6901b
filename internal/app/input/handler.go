package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/app/audio"
	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/media"
	"github.com/AbbasKothari1552/StreamShield/internal/app/metrics"
	"github.com/AbbasKothari1552/StreamShield/internal/app/storage"
)

// Webcam is the source name that selects live capture.
const Webcam = "webcam"

// Kind is the handling strategy picked for an input source
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindLive  Kind = "live"
)

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png"}
	videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}
	audioExtensions = []string{".mp3", ".wav"}
)

// Processed is the result of dispatching one input source.
type Processed struct {
	Kind          Kind
	Source        string
	Frames        media.FrameSource
	AudioPath     string
	AudioArtifact string
}

// HasFrames reports whether the input produced a frame source.
func (p *Processed) HasFrames() bool {
	return p.Frames != nil
}

// Close releases the frame source, if any.
func (p *Processed) Close() error {
	if p.Frames == nil {
		return nil
	}
	return p.Frames.Close()
}

// BeepWordsChecker reports whether a beep-words file is configured and present.
type BeepWordsChecker interface {
	BeepWordsAvailable() bool
}

// Handler dispatches input sources to frame and audio extraction.
type Handler struct {
	settings    BeepWordsChecker
	extractor   audio.Extractor
	opener      media.Opener
	artifacts   storage.ArtifactStore
	audioOutput string
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithArtifactStore uploads extracted audio to store.
func WithArtifactStore(store storage.ArtifactStore) Option {
	return func(h *Handler) { h.artifacts = store }
}

// WithAudioOutput sets where extracted audio is written.
func WithAudioOutput(path string) Option {
	return func(h *Handler) { h.audioOutput = path }
}

// WithMetrics records dispatch counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates a Handler
func NewHandler(settings BeepWordsChecker, extractor audio.Extractor, opener media.Opener, opts ...Option) *Handler {
	h := &Handler{
		settings:    settings,
		extractor:   extractor,
		opener:      opener,
		audioOutput: audio.DefaultOutputPath,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = logging.OrNop(h.logger)
	return h
}

// DetectKind maps a file extension to its handling strategy.
func DetectKind(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case lo.Contains(imageExtensions, ext):
		return KindImage, nil
	case lo.Contains(videoExtensions, ext):
		return KindVideo, nil
	case lo.Contains(audioExtensions, ext):
		return KindAudio, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFileType, ext)
}

// Process dispatches source, which is either Webcam or a file path.
func (h *Handler) Process(ctx context.Context, source string) (*Processed, error) {
	if source == Webcam {
		frames, err := h.opener.OpenWebcam(ctx)
		if err != nil {
			h.metrics.RecordInputError("webcam")
			return nil, err
		}
		h.logger.Info("live capture started", zap.String("source", source))
		h.metrics.RecordInput(string(KindLive))
		return &Processed{Kind: KindLive, Source: source, Frames: frames}, nil
	}

	// directories exist too; they fail on the extension check below
	if _, err := os.Stat(source); err != nil {
		h.metrics.RecordInputError("not_found")
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInputNotFound, source)
	}

	kind, err := DetectKind(source)
	if err != nil {
		h.metrics.RecordInputError("unsupported")
		return nil, err
	}

	var processed *Processed
	switch kind {
	case KindImage:
		processed = &Processed{Kind: kind, Source: source, Frames: media.ImageSource(source)}
	case KindAudio:
		processed = &Processed{Kind: kind, Source: source, AudioPath: source}
	case KindVideo:
		processed, err = h.processVideo(ctx, source)
		if err != nil {
			h.metrics.RecordInputError("video")
			return nil, err
		}
	}

	h.logger.Info("input dispatched",
		zap.String("source", source),
		zap.String("kind", string(kind)),
		zap.Bool("has_audio", processed.AudioPath != ""))
	h.metrics.RecordInput(string(kind))
	return processed, nil
}

func (h *Handler) processVideo(ctx context.Context, source string) (*Processed, error) {
	frames, err := h.opener.OpenVideo(ctx, source)
	if err != nil {
		return nil, err
	}

	processed := &Processed{Kind: KindVideo, Source: source, Frames: frames}

	if !h.settings.BeepWordsAvailable() {
		h.logger.Debug("beep words file not available, skipping audio extraction", zap.String("source", source))
		return processed, nil
	}

	audioPath, err := h.extractor.ExtractAudio(ctx, source, h.audioOutput)
	if err != nil {
		_ = frames.Close()
		return nil, err
	}
	processed.AudioPath = audioPath

	if h.artifacts != nil {
		key, err := h.artifacts.Upload(ctx, audioPath)
		if err != nil {
			// the local file is still usable
			h.logger.Warn("failed to upload extracted audio", zap.String("path", audioPath), zap.Error(err))
		} else {
			processed.AudioArtifact = key
		}
	}

	return processed, nil
}

// ProcessCapture wraps an already-open capture as a live input.
func (h *Handler) ProcessCapture(capture media.FrameSource) *Processed {
	h.metrics.RecordInput(string(KindLive))
	return &Processed{Kind: KindLive, Source: "capture", Frames: capture}
}

// IsInputError reports whether err was caused by a bad input source rather
// than a processing failure.
func IsInputError(err error) bool {
	return errors.Is(err, apperrors.ErrInputNotFound) ||
		errors.Is(err, apperrors.ErrUnsupportedFileType) ||
		errors.Is(err, apperrors.ErrVideoOpen)
}
