package models

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
)

// DetectorConfig is passed to detector backends.
type DetectorConfig struct {
	Path           string
	Device         Device
	ScoreThreshold float32
	NMSThreshold   float32
	Labels         []string
	Logger         *zap.Logger
}

// RecognizerConfig is passed to recognizer backends.
type RecognizerConfig struct {
	Path        string
	Device      Device
	Language    string
	FFmpegPath  string
	FFprobePath string
	Logger      *zap.Logger
}

// DetectorCreator builds a detector from configuration
type DetectorCreator func(ctx context.Context, cfg DetectorConfig) (Detector, error)

// RecognizerCreator builds a recognizer from configuration
type RecognizerCreator func(ctx context.Context, cfg RecognizerConfig) (Recognizer, error)

var (
	detectorRegistry   = make(map[string]DetectorCreator)
	recognizerRegistry = make(map[string]RecognizerCreator)
	registryMutex      sync.RWMutex
)

// RegisterDetector registers a detector backend. Backends call it from init().
func RegisterDetector(name string, creator DetectorCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	detectorRegistry[name] = creator
}

// RegisterRecognizer registers a recognizer backend. Backends call it from init().
func RegisterRecognizer(name string, creator RecognizerCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	recognizerRegistry[name] = creator
}

// GetDetectorCreator returns the creator registered under name
func GetDetectorCreator(name string) (DetectorCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := detectorRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: detector %q", apperrors.ErrBackendNotRegistered, name)
	}
	return creator, nil
}

// GetRecognizerCreator returns the creator registered under name
func GetRecognizerCreator(name string) (RecognizerCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := recognizerRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: recognizer %q", apperrors.ErrBackendNotRegistered, name)
	}
	return creator, nil
}

// ListDetectors returns the registered detector backends, sorted
func ListDetectors() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return sortedKeys(detectorRegistry)
}

// ListRecognizers returns the registered recognizer backends, sorted
func ListRecognizers() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return sortedKeys(recognizerRegistry)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
