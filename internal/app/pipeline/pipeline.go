package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/AbbasKothari1552/StreamShield/internal/app/censor"
	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/input"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/media"
	"github.com/AbbasKothari1552/StreamShield/internal/app/metrics"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
)

// Dispatcher turns a source name into frames and audio.
type Dispatcher interface {
	Process(ctx context.Context, source string) (*input.Processed, error)
}

// ModelProvider leases loaded models. A run holds its lease until it ends, so
// reloading models never closes them under a running detection.
type ModelProvider interface {
	Device() models.Device
	Acquire() models.Lease
}

// BeepWordSource returns the current beep word list.
type BeepWordSource interface {
	BeepWords() []string
}

// Options configures a Pipeline
type Options struct {
	// MaxFrames stops frame processing after this many frames. Zero means no
	// limit, which for live capture means until the context is cancelled.
	MaxFrames int
	Progress  ProgressConfig
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Pipeline runs one input through detection, transcription and beep-word matching.
type Pipeline struct {
	inputs   Dispatcher
	models   ModelProvider
	settings BeepWordSource
	runs     repository.RunDAO
	opts     Options
	logger   *zap.Logger
}

// New creates a Pipeline. runs may be nil, in which case nothing is persisted.
func New(inputs Dispatcher, modelProvider ModelProvider, settings BeepWordSource, runs repository.RunDAO, opts Options) *Pipeline {
	return &Pipeline{
		inputs:   inputs,
		models:   modelProvider,
		settings: settings,
		runs:     runs,
		opts:     opts,
		logger:   logging.OrNop(opts.Logger),
	}
}

// Run processes source end to end and returns the recorded run. On failure
// the run is still recorded, with HasError set, and returned with the error.
func (p *Pipeline) Run(ctx context.Context, source string) (*model.Run, error) {
	run := &model.Run{
		ID:         uuid.New().String(),
		Source:     source,
		Device:     string(p.models.Device()),
		Detections: map[string]int{},
		Beeps:      []model.Beep{},
		StartedAt:  time.Now(),
	}
	logger := p.logger.With(zap.String("run_id", run.ID), zap.String("source", source))
	logger.Info("run started")

	if err := p.execute(ctx, run, logger); err != nil {
		run.HasError = 1
		run.ErrorMessage = err.Error()
		p.finish(run, logger)
		logger.Error("run failed", zap.Error(err))
		return run, err
	}

	p.finish(run, logger)
	logger.Info("run finished",
		zap.String("kind", run.Kind),
		zap.Int("frames", run.FramesProcessed),
		zap.Int("detections", run.TotalDetections()),
		zap.Int("beeps", len(run.Beeps)),
		zap.Duration("elapsed", run.Duration()))
	return run, nil
}

func (p *Pipeline) execute(ctx context.Context, run *model.Run, logger *zap.Logger) error {
	lease := p.models.Acquire()
	defer lease.Release()

	processed, err := p.inputs.Process(ctx, run.Source)
	if err != nil {
		return err
	}
	defer processed.Close()

	run.Kind = string(processed.Kind)
	run.AudioPath = processed.AudioPath
	run.AudioArtifact = processed.AudioArtifact

	progress := NewProgressManager(p.opts.Progress)
	defer progress.Wait()

	if processed.HasFrames() {
		if err := p.detectFrames(ctx, run, lease, processed.Frames, progress); err != nil {
			return err
		}
	}

	if processed.AudioPath != "" {
		if err := p.transcribe(ctx, run, lease, processed.AudioPath, logger); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) detectFrames(ctx context.Context, run *model.Run, lease models.Lease, frames media.FrameSource, progress *ProgressManager) error {
	detector, err := lease.Detector()
	if err != nil {
		return err
	}

	bar := progress.CreateBar(p.opts.MaxFrames, "frames", "frames")
	for p.opts.MaxFrames <= 0 || run.FramesProcessed < p.opts.MaxFrames {
		if err := ctx.Err(); err != nil {
			if liveStopped(run, err) {
				break
			}
			bar.Abort()
			return err
		}

		frame, err := frames.Next()
		if err == io.EOF || liveStopped(run, err) {
			break
		}
		if err != nil {
			bar.Abort()
			return fmt.Errorf("frame %d: %w", run.FramesProcessed, err)
		}

		img, err := frame.Load()
		if err != nil {
			bar.Abort()
			return fmt.Errorf("frame %d: %w", frame.Index, err)
		}

		detections, err := detector.Detect(img)
		if err != nil {
			bar.Abort()
			return fmt.Errorf("detect frame %d: %w", frame.Index, err)
		}

		labels := lo.Map(detections, func(d models.Detection, _ int) string { return d.Label })
		for _, label := range labels {
			run.Detections[label]++
		}
		run.FramesProcessed++
		p.opts.Metrics.RecordFrame(labels)
		bar.Increment()
	}
	bar.Complete()
	return nil
}

// liveStopped reports whether err is the cancellation that ends a live capture.
func liveStopped(run *model.Run, err error) bool {
	return run.Kind == string(input.KindLive) && errors.Is(err, context.Canceled)
}

func (p *Pipeline) transcribe(ctx context.Context, run *model.Run, lease models.Lease, audioPath string, logger *zap.Logger) error {
	recognizer, err := lease.Recognizer()
	if err != nil {
		return err
	}

	start := time.Now()
	transcript, err := recognizer.Transcribe(ctx, audioPath)
	if err != nil {
		return apperrors.Wrapf(err, "transcribe %s", audioPath)
	}

	words := p.settings.BeepWords()
	run.Beeps = censor.FindBeeps(transcript, words)
	if run.Beeps == nil {
		run.Beeps = []model.Beep{}
	}
	run.Transcript = censor.Mask(transcript.Text, words)

	elapsed := time.Since(start)
	p.opts.Metrics.RecordTranscription(elapsed, len(run.Beeps))
	logger.Info("audio transcribed",
		zap.Int("segments", len(transcript.Segments)),
		zap.Int("beeps", len(run.Beeps)),
		zap.Duration("elapsed", elapsed))
	return nil
}

func (p *Pipeline) finish(run *model.Run, logger *zap.Logger) {
	run.FinishedAt = time.Now()
	if p.runs == nil {
		return
	}
	if err := p.runs.RecordRun(run); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}
