package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

func writeWav(t *testing.T, path string, sampleRate, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name             string
		ffprobeOutput    string
		expectedDuration int
		expectedError    bool
	}{
		{name: "integer seconds", ffprobeOutput: "30\n", expectedDuration: 30},
		{name: "round up", ffprobeOutput: "45.678\n", expectedDuration: 46},
		{name: "round down", ffprobeOutput: "29.4\n", expectedDuration: 29},
		{name: "whitespace", ffprobeOutput: "  \t120.5  \n", expectedDuration: 121},
		{name: "invalid", ffprobeOutput: "N/A\n", expectedError: true},
		{name: "empty", ffprobeOutput: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, err := parseDuration(tt.ffprobeOutput)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDuration, duration)
		})
	}
}

func TestExtractAudioArgs(t *testing.T) {
	args := extractAudioArgs("/videos/clip.mkv", "out.wav")

	assert.Equal(t, []string{"-i", "/videos/clip.mkv", "-q:a", "0", "-map", "a", "out.wav", "-y"}, args)
}

func TestWavOutputPath(t *testing.T) {
	tests := map[string]string{
		"audio.mp3":                        "audio_16khz.wav",
		"/path/to/audio.mp3":               "/path/to/audio_16khz.wav",
		"audio.test.mp3":                   "audio.test_16khz.wav",
		"audio":                            "audio_16khz.wav",
		"/path with spaces/audio file.wav": "/path with spaces/audio file_16khz.wav",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, wavOutputPath(input), input)
	}
}

func TestIsConvertible(t *testing.T) {
	assert.True(t, IsConvertible("a.mp3"))
	assert.True(t, IsConvertible("a.M4A"))
	assert.True(t, IsConvertible("a.wav"))
	assert.False(t, IsConvertible("a.flac"))
	assert.False(t, IsConvertible("a"))
}

func TestIs16kHzMono(t *testing.T) {
	mono := &model.FFProbeOutput{Streams: []model.FFProbeStream{
		{CodecType: "audio", CodecName: "pcm_s16le", SampleRate: 16000, Channels: 1},
	}}
	stereo := &model.FFProbeOutput{Streams: []model.FFProbeStream{
		{CodecType: "audio", CodecName: "pcm_s16le", SampleRate: 16000, Channels: 2},
	}}
	mp3 := &model.FFProbeOutput{Streams: []model.FFProbeStream{
		{CodecType: "audio", CodecName: "mp3", SampleRate: 44100, Channels: 2},
	}}

	assert.True(t, is16kHzMono(mono))
	assert.False(t, is16kHzMono(stereo))
	assert.False(t, is16kHzMono(mp3))
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c\nd", lastLines("a\nb\nc\nd\n", 2))
	assert.Equal(t, "only", lastLines("only", 5))
}

func TestReadPCM_Mono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWav(t, path, 16000, 1, []int{0, 16384, -16384, 32767})

	samples, rate, err := ReadPCM(path)
	require.NoError(t, err)

	assert.Equal(t, 16000, rate)
	require.Len(t, samples, 4)
	assert.InDelta(t, 0.0, samples[0], 1e-6)
	assert.InDelta(t, 0.5, samples[1], 1e-6)
	assert.InDelta(t, -0.5, samples[2], 1e-6)
	assert.InDelta(t, 1.0, samples[3], 1e-4)
}

func TestReadPCM_StereoDownmix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeWav(t, path, 8000, 2, []int{16384, 0, -16384, -16384})

	samples, rate, err := ReadPCM(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, rate)
	require.Len(t, samples, 2)
	assert.InDelta(t, 0.25, samples[0], 1e-6)
	assert.InDelta(t, -0.5, samples[1], 1e-6)
}

func TestReadPCM_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav"), 0644))

	_, _, err := ReadPCM(path)
	assert.Error(t, err)

	_, _, err = ReadPCM(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestExtractAudio_MissingBinary(t *testing.T) {
	tools := NewTools("/nonexistent/ffmpeg", "", nil)

	_, err := tools.ExtractAudio(context.Background(), "clip.mp4", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAudioExtraction))
}

func TestExtractAudio_Integration(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("Skipping integration test: ffmpeg not found")
	}

	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	gen := exec.Command("ffmpeg", "-f", "lavfi", "-i", "testsrc=size=64x48:rate=5:duration=1",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-shortest", "-y", video)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("Skipping integration test: cannot generate fixture: %v: %s", err, out)
	}

	tools := NewTools("", "", nil)
	output := filepath.Join(dir, "audio.wav")

	got, err := tools.ExtractAudio(context.Background(), video, output)
	require.NoError(t, err)
	assert.Equal(t, output, got)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}

// fakeFFmpeg writes a shell script that copies the -i input to the last argument.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping: shell script stand-in for ffmpeg")
	}
	script := `#!/bin/sh
in=""
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-i" ]; then
    in="$2"
  fi
  out="$1"
  shift
done
cp "$in" "$out"
`
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestConvertArgs(t *testing.T) {
	args := convertArgs("in.wav", "in_16khz.wav")
	assert.Equal(t, "-y", args[0])
	assert.Equal(t, "in_16khz.wav", args[len(args)-1])
	assert.Contains(t, args, "16000")
}

func TestConvertTo16kHzWav_ReconvertsExistingOutput(t *testing.T) {
	tools := NewTools(fakeFFmpeg(t), "", nil)
	input := filepath.Join(t.TempDir(), "extracted_audio.wav")

	require.NoError(t, os.WriteFile(input, []byte("VIDEO-ONE"), 0644))
	output, err := tools.ConvertTo16kHzWav(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, wavOutputPath(input), output)

	require.NoError(t, os.WriteFile(input, []byte("VIDEO-TWO"), 0644))
	output, err = tools.ConvertTo16kHzWav(context.Background(), input)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "VIDEO-TWO", string(content))
}

func TestConvertTo16kHzWav_Errors(t *testing.T) {
	tools := NewTools("/nonexistent/ffmpeg", "", nil)

	_, err := tools.ConvertTo16kHzWav(context.Background(), "clip.ogg")
	assert.ErrorContains(t, err, "unsupported audio format")

	_, err = tools.ConvertTo16kHzWav(context.Background(), "clip.mp3")
	assert.ErrorContains(t, err, "ffmpeg convert clip.mp3")
}
