package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
)

func newTestRecognizer(t *testing.T, status int, body string) *Recognizer {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		assert.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-api-key")
	cfg.BaseURL = server.URL + "/v1"
	return NewWithClient(openai.NewClientWithConfig(cfg), "en", nil)
}

func tempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake audio"), 0644))
	return path
}

func TestTranscribe_Segments(t *testing.T) {
	rec := newTestRecognizer(t, http.StatusOK, `{
		"task": "transcribe",
		"language": "english",
		"duration": 3.5,
		"text": " hello there darn it ",
		"segments": [
			{"id": 0, "start": 0.0, "end": 1.5, "text": " hello there"},
			{"id": 1, "start": 1.5, "end": 3.5, "text": " darn it"}
		]
	}`)

	transcript, err := rec.Transcribe(context.Background(), tempAudio(t))
	require.NoError(t, err)

	assert.Equal(t, "hello there darn it", transcript.Text)
	assert.Equal(t, "english", transcript.Language)
	require.Len(t, transcript.Segments, 2)
	assert.Equal(t, models.Segment{Start: 1500 * time.Millisecond, End: 3500 * time.Millisecond, Text: "darn it"}, transcript.Segments[1])
}

func TestTranscribe_APIError(t *testing.T) {
	rec := newTestRecognizer(t, http.StatusUnauthorized, `{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`)

	_, err := rec.Transcribe(context.Background(), tempAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTranscribe_FileNotFound(t *testing.T) {
	rec := NewWithClient(openai.NewClient("test-api-key"), "", nil)

	_, err := rec.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New(context.Background(), models.RecognizerConfig{})
	assert.Error(t, err)
}

func TestNew_WithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890abcdefghij")
	t.Setenv(BaseURLEnvVar, "http://localhost:1/v1")

	rec, err := New(context.Background(), models.RecognizerConfig{Language: "en"})
	require.NoError(t, err)
	assert.NoError(t, rec.Close())
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, models.ListRecognizers(), Name)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890abcdefghij")
	t.Setenv(BaseURLEnvVar, "localhost:8080")

	_, err := New(context.Background(), models.RecognizerConfig{})
	assert.Error(t, err)
}
