// Package settings holds the runtime settings that decide what the blurring
// pipeline hides and which words it censors. Settings can be changed while the
// service is running, for example from a web dashboard.
package settings

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

// Hide-element options understood by the pipeline.
const (
	LoginForms = "login_forms"
	Links      = "links"
)

// AvailableHideElements lists every hide-element option, in display order.
var AvailableHideElements = []string{LoginForms, Links}

// HideElements maps each available option to whether it is hidden.
type HideElements map[string]bool

// Settings is a snapshot of the complete configuration.
type Settings struct {
	HideElements  HideElements `json:"hide_elements" yaml:"hide_elements"`
	BeepWordsPath string       `json:"beep_words" yaml:"beep_words"`
}

// UpdateRequest describes a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	HideElements  []string
	BeepWordsPath *string
}

// UpdateResult reports the settings after an update.
type UpdateResult struct {
	Settings Settings
	// Ignored holds requested hide elements that are not available options.
	Ignored []string
	// BeepWordsRejected is set when the requested beep words file did not
	// exist and the previous path was kept.
	BeepWordsRejected bool
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		HideElements: HideElements{
			LoginForms: true,
			Links:      true,
		},
		BeepWordsPath: config.DefaultBeepWordsPath,
	}
}

// Manager is a concurrency-safe settings store.
type Manager struct {
	mu       sync.RWMutex
	settings Settings
	logger   *zap.Logger
	exists   func(path string) bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logging.OrNop(logger) }
}

// WithInitial replaces the defaults the manager starts from.
func WithInitial(s Settings) Option {
	return func(m *Manager) { m.settings = s.clone() }
}

// NewManager creates a manager initialised with a copy of the defaults.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		settings: Defaults(),
		logger:   zap.NewNop(),
		exists:   pathExists,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewManagerFromConfig seeds a manager from the settings section of the
// application configuration.
func NewManagerFromConfig(cfg config.SettingsConfig, logger *zap.Logger) *Manager {
	initial := Settings{
		HideElements:  buildHideElements(cfg.HideElements),
		BeepWordsPath: cfg.BeepWordsPath,
	}
	if initial.BeepWordsPath == "" {
		initial.BeepWordsPath = config.DefaultBeepWordsPath
	}
	return NewManager(WithLogger(logger), WithInitial(initial))
}

// Update applies a partial update. Unknown hide elements are ignored and a
// beep words path that does not exist keeps the previous value.
func (m *Manager) Update(req UpdateRequest) UpdateResult {
	var result UpdateResult

	m.mu.Lock()
	defer m.mu.Unlock()

	if req.HideElements != nil {
		m.settings.HideElements = buildHideElements(req.HideElements)
		result.Ignored = lo.Uniq(lo.Without(req.HideElements, AvailableHideElements...))
		if len(result.Ignored) > 0 {
			m.logger.Debug("ignoring unknown hide elements", zap.Strings("elements", result.Ignored))
		}
	}

	if req.BeepWordsPath != nil {
		if m.exists(*req.BeepWordsPath) {
			m.settings.BeepWordsPath = *req.BeepWordsPath
		} else {
			result.BeepWordsRejected = true
			m.logger.Warn("beep words file does not exist, keeping existing configuration",
				zap.String("path", *req.BeepWordsPath),
				zap.String("current", m.settings.BeepWordsPath),
			)
		}
	}

	result.Settings = m.settings.clone()
	return result
}

// HideElements returns a copy of the hide-element configuration.
func (m *Manager) HideElements() HideElements {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.HideElements.clone()
}

// BeepWordsPath returns the configured beep words file path.
func (m *Manager) BeepWordsPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.BeepWordsPath
}

// BeepWordsAvailable reports whether the configured beep words file exists.
func (m *Manager) BeepWordsAvailable() bool {
	path := m.BeepWordsPath()
	return path != "" && m.exists(path)
}

// BeepWords reads the beep words file, one word per line. Blank lines are
// skipped. A missing or unreadable file yields an empty list.
func (m *Manager) BeepWords() []string {
	path := m.BeepWordsPath()
	if !m.exists(path) {
		m.logger.Warn("beep words file not found", zap.String("path", path))
		return []string{}
	}

	words, err := readWords(path)
	if err != nil {
		m.logger.Error("error reading beep words file", zap.String("path", path), zap.Error(err))
		return []string{}
	}
	return words
}

// Snapshot returns a copy of the complete configuration.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.clone()
}

func buildHideElements(selected []string) HideElements {
	hide := make(HideElements, len(AvailableHideElements))
	for _, option := range AvailableHideElements {
		hide[option] = lo.Contains(selected, option)
	}
	return hide
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFileReadFailed, err)
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if word := strings.TrimSpace(scanner.Text()); word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrFileReadFailed, path, err)
	}
	return words, nil
}

func pathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (h HideElements) clone() HideElements {
	if h == nil {
		return HideElements{}
	}
	out := make(HideElements, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func (s Settings) clone() Settings {
	return Settings{
		HideElements:  s.HideElements.clone(),
		BeepWordsPath: s.BeepWordsPath,
	}
}
