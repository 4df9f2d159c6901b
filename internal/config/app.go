package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
)

// AppConfig is the application configuration, usually loaded from streamshield.yaml
type AppConfig struct {
	Models   ModelsConfig   `yaml:"models"`
	Input    InputConfig    `yaml:"input"`
	Settings SettingsConfig `yaml:"settings"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ModelsConfig selects the detection and recognition backends and their weights
type ModelsConfig struct {
	Device            string   `yaml:"device" validate:"omitempty,oneof=cuda cpu"`
	DetectorBackend   string   `yaml:"detector_backend" validate:"required"`
	DetectorPath      string   `yaml:"detector_path" validate:"required"`
	RecognizerBackend string   `yaml:"recognizer_backend" validate:"required"`
	RecognizerPath    string   `yaml:"recognizer_path" validate:"required"`
	Language          string   `yaml:"language"`
	ScoreThreshold    float64  `yaml:"score_threshold" validate:"gte=0,lte=1"`
	NMSThreshold      float64  `yaml:"nms_threshold" validate:"gte=0,lte=1"`
	Labels            []string `yaml:"labels,omitempty"`
	LoadTimeoutSec    int      `yaml:"load_timeout_sec" validate:"gte=0"`
}

// InputConfig controls how input sources are decoded
type InputConfig struct {
	FFmpegPath      string `yaml:"ffmpeg_path" validate:"required"`
	FFprobePath     string `yaml:"ffprobe_path" validate:"required"`
	AudioOutputPath string `yaml:"audio_output_path" validate:"required"`
	FrameRate       int    `yaml:"frame_rate" validate:"gte=0"`
	WebcamDevice    int    `yaml:"webcam_device" validate:"gte=0"`
	WebcamWidth     int    `yaml:"webcam_width" validate:"gt=0"`
	WebcamHeight    int    `yaml:"webcam_height" validate:"gt=0"`
	MaxFrames       int    `yaml:"max_frames" validate:"gte=0"`
}

// SettingsConfig seeds the runtime settings store
type SettingsConfig struct {
	HideElements  []string `yaml:"hide_elements" validate:"dive,oneof=login_forms links"`
	BeepWordsPath string   `yaml:"beep_words"`
}

// ServerConfig represents API server configuration
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port" validate:"required,numeric"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec" validate:"gte=0"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec" validate:"gte=0"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_sec" validate:"gte=0"`
	Environment     string `yaml:"environment" validate:"oneof=development production"`
}

// DatabaseConfig selects where run history is stored
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite3 postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// StorageConfig configures the optional MinIO artifact store
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint" validate:"required_if=Enabled true"`
	AccessKey string `yaml:"access_key" validate:"required_if=Enabled true"`
	SecretKey string `yaml:"secret_key" validate:"required_if=Enabled true"`
	Bucket    string `yaml:"bucket" validate:"required_if=Enabled true"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Development bool `yaml:"development"`
}

// DefaultAppConfig returns the configuration used when no file is given
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Models: ModelsConfig{
			DetectorBackend:   DefaultDetectorBackend,
			DetectorPath:      DefaultDetectorPath,
			RecognizerBackend: DefaultRecognizerBackend,
			RecognizerPath:    DefaultRecognizerPath,
			Language:          DefaultLanguage,
			ScoreThreshold:    DefaultScoreThreshold,
			NMSThreshold:      DefaultNMSThreshold,
			LoadTimeoutSec:    int(DefaultModelLoadTimeout / time.Second),
		},
		Input: InputConfig{
			FFmpegPath:      DefaultFFmpegPath,
			FFprobePath:     DefaultFFprobePath,
			AudioOutputPath: DefaultAudioOutputPath,
			FrameRate:       DefaultFrameRate,
			WebcamDevice:    DefaultWebcamDevice,
			WebcamWidth:     DefaultWebcamWidth,
			WebcamHeight:    DefaultWebcamHeight,
		},
		Settings: SettingsConfig{
			HideElements:  append([]string(nil), DefaultHideElements...),
			BeepWordsPath: DefaultBeepWordsPath,
		},
		Server: ServerConfig{
			Host:            DefaultHTTPHost,
			Port:            DefaultHTTPPort,
			ReadTimeoutSec:  int(DefaultReadTimeout / time.Second),
			WriteTimeoutSec: int(DefaultWriteTimeout / time.Second),
			IdleTimeoutSec:  int(DefaultIdleTimeout / time.Second),
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Driver: DefaultDatabaseDriver,
			DSN:    DefaultDatabasePath,
		},
		Storage: StorageConfig{
			Endpoint: DefaultStorageEndpoint,
			Bucket:   DefaultStorageBucket,
		},
	}
}

// LoadAppConfig loads the application configuration from a YAML file.
// An empty path yields the defaults. Environment overrides are applied
// after the file, then the result is validated.
func LoadAppConfig(configPath string) (*AppConfig, error) {
	config := DefaultAppConfig()

	if configPath != "" {
		configPath = os.ExpandEnv(configPath)

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// ${VAR} references anywhere in the file are expanded before parsing
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}

	return config, nil
}

// SaveAppConfig writes the configuration as YAML
func SaveAppConfig(config *AppConfig, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(os.ExpandEnv(configPath), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *AppConfig) applyEnvOverrides() {
	c.Models.Device = getEnvOrDefault("STREAMSHIELD_DEVICE", c.Models.Device)
	c.Database.Driver = getEnvOrDefault("STREAMSHIELD_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnvOrDefault("STREAMSHIELD_DB_DSN", c.Database.DSN)
	c.Server.Port = getEnvOrDefault("HTTP_PORT", c.Server.Port)

	if endpoint := getEnvOrDefault("MINIO_ENDPOINT", ""); endpoint != "" {
		c.Storage.Enabled = true
		c.Storage.Endpoint = endpoint
	}
	c.Storage.AccessKey = getEnvOrDefault("MINIO_ACCESS_KEY", c.Storage.AccessKey)
	c.Storage.SecretKey = getEnvOrDefault("MINIO_SECRET_KEY", c.Storage.SecretKey)
	c.Storage.Bucket = getEnvOrDefault("MINIO_BUCKET", c.Storage.Bucket)
	if useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", "")); err == nil {
		c.Storage.UseSSL = useSSL
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if err := ValidatePort(c.Server.Port, "server"); err != nil {
		return err
	}

	if c.Models.LoadTimeoutSec > 0 {
		if err := ValidateTimeout(c.ModelLoadTimeout(), "model load"); err != nil {
			return err
		}
	}

	return nil
}

// ModelLoadTimeout returns the model load timeout, zero meaning no limit
func (c *AppConfig) ModelLoadTimeout() time.Duration {
	return time.Duration(c.Models.LoadTimeoutSec) * time.Second
}

// ReadTimeout returns the HTTP read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the HTTP write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// IdleTimeout returns the HTTP idle timeout
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSec) * time.Second
}
