package config

import "time"

// Default configuration constants
const (
	// Models
	DefaultDetectorBackend   = "gocv"
	DefaultDetectorPath      = "yolov5s.onnx"
	DefaultRecognizerBackend = "whisper"
	DefaultRecognizerPath    = "model"
	DefaultLanguage          = "en"
	DefaultScoreThreshold    = 0.25
	DefaultNMSThreshold      = 0.45
	DefaultModelLoadTimeout  = 5 * time.Minute

	// Input
	DefaultFFmpegPath      = "ffmpeg"
	DefaultFFprobePath     = "ffprobe"
	DefaultAudioOutputPath = "extracted_audio.wav"
	DefaultFrameRate       = 1
	DefaultWebcamDevice    = 0
	DefaultWebcamWidth     = 640
	DefaultWebcamHeight    = 480

	// Settings
	DefaultBeepWordsPath = "default_beep_words.txt"

	// Server
	DefaultHTTPHost     = "0.0.0.0"
	DefaultHTTPPort     = "8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 120 * time.Second
	DefaultIdleTimeout  = 60 * time.Second

	// Database
	DefaultDatabaseDriver = "sqlite3"
	DefaultDatabasePath   = "data/streamshield.db"

	// Storage
	DefaultStorageEndpoint = "localhost:9000"
	DefaultStorageBucket   = "streamshield-artifacts"
)

// DefaultHideElements lists the hide-element options enabled out of the box.
var DefaultHideElements = []string{"login_forms", "links"}
