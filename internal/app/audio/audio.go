package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

// DefaultOutputPath is where extracted audio goes when no path is given.
const DefaultOutputPath = "extracted_audio.wav"

// Extractor pulls the audio track out of a video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, outputPath string) (string, error)
}

// Tools wraps the ffmpeg and ffprobe binaries.
type Tools struct {
	ffmpegPath  string
	ffprobePath string
	logger      *zap.Logger
}

// NewTools creates Tools. Empty paths fall back to the binaries on PATH.
func NewTools(ffmpegPath, ffprobePath string, logger *zap.Logger) *Tools {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Tools{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logging.OrNop(logger),
	}
}

// FFmpegPath returns the ffmpeg binary in use.
func (t *Tools) FFmpegPath() string { return t.ffmpegPath }

// FFprobePath returns the ffprobe binary in use.
func (t *Tools) FFprobePath() string { return t.ffprobePath }

// ExtractAudio writes the audio track of videoPath to outputPath, overwriting
// any existing file, and returns outputPath.
func (t *Tools) ExtractAudio(ctx context.Context, videoPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	t.logger.Info("extracting audio", zap.String("video", videoPath), zap.String("output", outputPath))

	cmd := exec.CommandContext(ctx, t.ffmpegPath, extractAudioArgs(videoPath, outputPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: ffmpeg error: %v, stderr: %s", apperrors.ErrAudioExtraction, err, lastLines(stderr.String(), 5))
	}

	return outputPath, nil
}

func extractAudioArgs(videoPath, outputPath string) []string {
	return []string{
		"-i", videoPath,
		"-q:a", "0",
		"-map", "a",
		outputPath,
		"-y",
	}
}

// GetAudioDuration returns the duration of a media file in whole seconds.
func (t *Tools) GetAudioDuration(ctx context.Context, filePath string) (int, error) {
	cmd := exec.CommandContext(ctx, t.ffprobePath, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return parseDuration(string(output))
}

func parseDuration(output string) (int, error) {
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}

// Probe runs ffprobe over a file and returns its streams.
func (t *Tools) Probe(ctx context.Context, filePath string) (*model.FFProbeOutput, error) {
	cmd := exec.CommandContext(ctx, t.ffprobePath, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return nil, err
	}
	return &probeOutput, nil
}

// Is16kHzWavFile reports whether the file is 16 kHz mono PCM, the format the
// speech recognizer consumes.
func (t *Tools) Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	probeOutput, err := t.Probe(ctx, filePath)
	if err != nil {
		return false, err
	}
	return is16kHzMono(probeOutput), nil
}

func is16kHzMono(probeOutput *model.FFProbeOutput) bool {
	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 && stream.Channels == 1 {
			return true
		}
	}
	return false
}

// ConvertTo16kHzWav converts an audio file to 16 kHz mono WAV next to the
// input. An existing output is overwritten, since the input path is reused
// for every extracted audio track.
func (t *Tools) ConvertTo16kHzWav(ctx context.Context, inputFilePath string) (string, error) {
	outputFilePath := wavOutputPath(inputFilePath)

	if !IsConvertible(inputFilePath) {
		return "", fmt.Errorf("unsupported audio format not in [mp3,m4a,wav]: %s", filepath.Ext(inputFilePath))
	}

	t.logger.Info("converting to 16kHz wav", zap.String("input", inputFilePath))

	cmd := exec.CommandContext(ctx, t.ffmpegPath, convertArgs(inputFilePath, outputFilePath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", apperrors.Wrapf(err, "ffmpeg convert %s, stderr: %s", inputFilePath, lastLines(stderr.String(), 5))
	}

	return outputFilePath, nil
}

func convertArgs(inputFilePath, outputFilePath string) []string {
	return []string{"-y", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputFilePath}
}

// IsConvertible reports whether ConvertTo16kHzWav accepts the file extension.
func IsConvertible(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".m4a", ".wav":
		return true
	}
	return false
}

func wavOutputPath(inputFilePath string) string {
	return strings.TrimSuffix(inputFilePath, filepath.Ext(inputFilePath)) + "_16khz.wav"
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
