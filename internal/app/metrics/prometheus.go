package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for StreamShield
type Metrics struct {
	// Input metrics
	InputsProcessed *prometheus.CounterVec
	InputErrors     *prometheus.CounterVec
	FramesProcessed prometheus.Counter
	Detections      *prometheus.CounterVec

	// Model metrics
	ModelLoads        *prometheus.CounterVec
	ModelLoadDuration *prometheus.HistogramVec

	// Transcription metrics
	TranscriptionDuration prometheus.Histogram
	BeepsFound            prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		InputsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streamshield_inputs_processed_total",
			Help: "Total number of input sources dispatched, by kind",
		}, []string{"kind"}),
		InputErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streamshield_input_errors_total",
			Help: "Total number of input sources rejected, by reason",
		}, []string{"reason"}),
		FramesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "streamshield_frames_processed_total",
			Help: "Total number of frames run through the detector",
		}),
		Detections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streamshield_detections_total",
			Help: "Total number of objects detected, by label",
		}, []string{"label"}),

		ModelLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streamshield_model_loads_total",
			Help: "Total number of model loads, by model and status",
		}, []string{"model", "status"}),
		ModelLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamshield_model_load_duration_seconds",
			Help:    "Time spent loading models",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		}, []string{"model"}),

		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamshield_transcription_duration_seconds",
			Help:    "Time spent transcribing audio",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		BeepsFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "streamshield_beeps_found_total",
			Help: "Total number of beep words found in transcripts",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streamshield_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamshield_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// RecordInput counts a dispatched input source.
func (m *Metrics) RecordInput(kind string) {
	if m == nil {
		return
	}
	m.InputsProcessed.WithLabelValues(kind).Inc()
}

// RecordInputError counts a rejected input source.
func (m *Metrics) RecordInputError(reason string) {
	if m == nil {
		return
	}
	m.InputErrors.WithLabelValues(reason).Inc()
}

// RecordFrame counts one processed frame and its detections.
func (m *Metrics) RecordFrame(labels []string) {
	if m == nil {
		return
	}
	m.FramesProcessed.Inc()
	for _, label := range labels {
		m.Detections.WithLabelValues(label).Inc()
	}
}

// RecordModelLoad records a model load attempt.
func (m *Metrics) RecordModelLoad(modelName string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ModelLoads.WithLabelValues(modelName, status).Inc()
	m.ModelLoadDuration.WithLabelValues(modelName).Observe(duration.Seconds())
}

// RecordTranscription records one transcription and the beeps found in it.
func (m *Metrics) RecordTranscription(duration time.Duration, beeps int) {
	if m == nil {
		return
	}
	m.TranscriptionDuration.Observe(duration.Seconds())
	m.BeepsFound.Add(float64(beeps))
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
