package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/metrics"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

const (
	// DefaultDetectorPath is the ONNX export of the yolov5s weights.
	DefaultDetectorPath = "yolov5s.onnx"
	// DefaultRecognizerPath is the speech model file or directory.
	DefaultRecognizerPath = "model"
)

// LoaderOptions configures a Loader
type LoaderOptions struct {
	Device            Device
	DetectorBackend   string
	RecognizerBackend string
	Detector          DetectorConfig
	Recognizer        RecognizerConfig
	Timeout           time.Duration
	Logger            *zap.Logger
	Metrics           *metrics.Metrics
}

// Loader loads the object detector and the speech recognizer.
type Loader struct {
	opts    LoaderOptions
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	current *modelSet
}

// modelSet is one loaded detector and recognizer pair, shared by leases.
type modelSet struct {
	Models
	refs    int
	retired bool
}

func (s *modelSet) close() error {
	var errs []error
	if s.Detector != nil {
		errs = append(errs, s.Detector.Close())
	}
	if s.Recognizer != nil {
		errs = append(errs, s.Recognizer.Close())
	}
	return errors.Join(errs...)
}

// Lease pins the models that were loaded when it was acquired. They stay
// open until every lease on them is released, even if LoadModels replaces them.
type Lease interface {
	Detector() (Detector, error)
	Recognizer() (Recognizer, error)
	Release()
}

type lease struct {
	loader *Loader
	set    *modelSet
	once   sync.Once
}

func (le *lease) Detector() (Detector, error) {
	if le.set == nil || le.set.Detector == nil {
		return nil, apperrors.ErrModelNotLoaded
	}
	return le.set.Detector, nil
}

func (le *lease) Recognizer() (Recognizer, error) {
	if le.set == nil || le.set.Recognizer == nil {
		return nil, apperrors.ErrModelNotLoaded
	}
	return le.set.Recognizer, nil
}

func (le *lease) Release() {
	le.once.Do(func() {
		if le.set != nil {
			le.loader.release(le.set)
		}
	})
}

// Status describes the loader state
type Status struct {
	Device            Device `json:"device"`
	DetectorBackend   string `json:"detector_backend"`
	RecognizerBackend string `json:"recognizer_backend"`
	DetectorLoaded    bool   `json:"detector_loaded"`
	RecognizerLoaded  bool   `json:"recognizer_loaded"`
}

// NewLoader creates a Loader. An empty device is detected from the host.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Device == "" {
		opts.Device = DetectDevice()
	}
	logger := logging.OrNop(opts.Logger)
	logger.Info("using device", zap.String("device", string(opts.Device)))

	return &Loader{
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// NewLoaderFromConfig creates a Loader from the application configuration.
func NewLoaderFromConfig(cfg *config.AppConfig, logger *zap.Logger, m *metrics.Metrics) (*Loader, error) {
	var device Device
	if cfg.Models.Device != "" {
		d, err := ParseDevice(cfg.Models.Device)
		if err != nil {
			return nil, err
		}
		device = d
	}

	return NewLoader(LoaderOptions{
		Device:            device,
		DetectorBackend:   cfg.Models.DetectorBackend,
		RecognizerBackend: cfg.Models.RecognizerBackend,
		Detector: DetectorConfig{
			Path:           cfg.Models.DetectorPath,
			ScoreThreshold: float32(cfg.Models.ScoreThreshold),
			NMSThreshold:   float32(cfg.Models.NMSThreshold),
			Labels:         cfg.Models.Labels,
		},
		Recognizer: RecognizerConfig{
			Path:        cfg.Models.RecognizerPath,
			Language:    cfg.Models.Language,
			FFmpegPath:  cfg.Input.FFmpegPath,
			FFprobePath: cfg.Input.FFprobePath,
		},
		Timeout: cfg.ModelLoadTimeout(),
		Logger:  logger,
		Metrics: m,
	}), nil
}

// Device returns the device models are loaded on
func (l *Loader) Device() Device {
	return l.opts.Device
}

// LoadDetector loads the detector weights at path, or the configured default.
func (l *Loader) LoadDetector(ctx context.Context, path string) (Detector, error) {
	if path == "" {
		path = l.opts.Detector.Path
	}
	if path == "" {
		path = DefaultDetectorPath
	}

	creator, err := GetDetectorCreator(l.opts.DetectorBackend)
	if err != nil {
		return nil, err
	}

	l.logger.Info("loading detector model",
		zap.String("backend", l.opts.DetectorBackend),
		zap.String("path", path),
		zap.String("device", string(l.opts.Device)))

	cfg := l.opts.Detector
	cfg.Path = path
	cfg.Device = l.opts.Device
	cfg.Logger = l.logger

	start := time.Now()
	detector, err := creator(ctx, cfg)
	l.metrics.RecordModelLoad("detector", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: detector %s: %v", apperrors.ErrModelLoad, path, err)
	}

	l.logger.Info("detector model loaded", zap.String("path", path), zap.Duration("elapsed", time.Since(start)))
	return detector, nil
}

// LoadRecognizer loads the speech model at path, or the configured default.
func (l *Loader) LoadRecognizer(ctx context.Context, path string) (Recognizer, error) {
	if path == "" {
		path = l.opts.Recognizer.Path
	}
	if path == "" {
		path = DefaultRecognizerPath
	}

	creator, err := GetRecognizerCreator(l.opts.RecognizerBackend)
	if err != nil {
		return nil, err
	}

	l.logger.Info("loading speech recognition model",
		zap.String("backend", l.opts.RecognizerBackend),
		zap.String("path", path))

	cfg := l.opts.Recognizer
	cfg.Path = path
	cfg.Device = l.opts.Device
	cfg.Logger = l.logger

	start := time.Now()
	recognizer, err := creator(ctx, cfg)
	l.metrics.RecordModelLoad("recognizer", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: recognizer %s: %v", apperrors.ErrModelLoad, path, err)
	}

	l.logger.Info("speech recognition model loaded", zap.String("path", path), zap.Duration("elapsed", time.Since(start)))
	return recognizer, nil
}

// LoadModels loads both models concurrently and waits for both. Both loads
// always run to completion; if either fails the other is closed and the
// joined error is returned. On success the new pair replaces the previous
// one, which is closed once no lease holds it.
func (l *Loader) LoadModels(ctx context.Context, detectorPath, recognizerPath string) (*Models, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	var (
		g             errgroup.Group
		detector      Detector
		recognizer    Recognizer
		detectorErr   error
		recognizerErr error
	)

	g.Go(func() error {
		detector, detectorErr = l.LoadDetector(ctx, detectorPath)
		return detectorErr
	})
	g.Go(func() error {
		recognizer, recognizerErr = l.LoadRecognizer(ctx, recognizerPath)
		return recognizerErr
	})
	_ = g.Wait()

	if err := errors.Join(detectorErr, recognizerErr); err != nil {
		if detector != nil {
			_ = detector.Close()
		}
		if recognizer != nil {
			_ = recognizer.Close()
		}
		l.logger.Error("model loading failed", zap.Error(err))
		return nil, err
	}

	l.mu.Lock()
	previous := l.current
	l.current = &modelSet{Models: Models{Detector: detector, Recognizer: recognizer}}
	closePrevious := retireLocked(previous)
	l.mu.Unlock()

	if closePrevious {
		l.closeSet(previous)
	}

	l.logger.Info("both models loaded successfully")
	return &Models{Detector: detector, Recognizer: recognizer}, nil
}

// Acquire leases the currently loaded models. The lease must be released;
// its accessors return ErrModelNotLoaded when nothing was loaded.
func (l *Loader) Acquire() Lease {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		l.current.refs++
	}
	return &lease{loader: l, set: l.current}
}

func (l *Loader) release(set *modelSet) {
	l.mu.Lock()
	set.refs--
	closeNow := set.retired && set.refs == 0
	l.mu.Unlock()

	if closeNow {
		l.closeSet(set)
	}
}

// retireLocked marks set as replaced and reports whether it can be closed now.
func retireLocked(set *modelSet) bool {
	if set == nil {
		return false
	}
	set.retired = true
	return set.refs == 0
}

func (l *Loader) closeSet(set *modelSet) {
	if err := set.close(); err != nil {
		l.logger.Warn("failed to close models", zap.Error(err))
	}
}

// Status reports the device, backends and what is loaded.
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		Device:            l.opts.Device,
		DetectorBackend:   l.opts.DetectorBackend,
		RecognizerBackend: l.opts.RecognizerBackend,
		DetectorLoaded:    l.current != nil && l.current.Detector != nil,
		RecognizerLoaded:  l.current != nil && l.current.Recognizer != nil,
	}
}

// Close releases the loaded models. Models still leased are closed when the
// last lease is released.
func (l *Loader) Close() error {
	l.mu.Lock()
	current := l.current
	l.current = nil
	closeNow := retireLocked(current)
	l.mu.Unlock()

	if !closeNow {
		return nil
	}
	return current.close()
}
