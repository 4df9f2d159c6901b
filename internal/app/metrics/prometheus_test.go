package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordInput("video")
	m.RecordInput("video")
	m.RecordInputError("unsupported")
	m.RecordFrame([]string{"person", "person", "laptop"})
	m.RecordModelLoad("detector", time.Second, nil)
	m.RecordModelLoad("recognizer", time.Second, errors.New("boom"))
	m.RecordTranscription(2*time.Second, 3)
	m.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InputsProcessed.WithLabelValues("video")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InputErrors.WithLabelValues("unsupported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Detections.WithLabelValues("person")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelLoads.WithLabelValues("detector", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelLoads.WithLabelValues("recognizer", "failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BeepsFound))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/health", "200")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordInput("image")
		m.RecordInputError("missing")
		m.RecordFrame([]string{"person"})
		m.RecordModelLoad("detector", time.Second, nil)
		m.RecordTranscription(time.Second, 1)
		m.RecordHTTPRequest("GET", "/", "200", time.Second)
	})
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
