package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// LLMRequests counts model calls by provider, operation and outcome.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_studio_llm_requests_total",
		Help: "Model invocations by provider, operation and outcome.",
	}, []string{"provider", "operation", "outcome"})

	// LLMDuration observes model call latency.
	LLMDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resume_studio_llm_request_duration_seconds",
		Help:    "Model invocation latency.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 90},
	}, []string{"provider", "operation"})

	// SectionFailures counts polish sections that fell back to original content.
	SectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_studio_polish_section_failures_total",
		Help: "Sections left unenhanced after a failed model call.",
	}, []string{"section"})

	// RecoveryStrategies counts which recovery strategy produced a result.
	RecoveryStrategies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_studio_recovery_strategy_total",
		Help: "Structured output recovery results by strategy.",
	}, []string{"strategy"})

	// RasterizedPages observes how many images a document produced.
	RasterizedPages = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resume_studio_rasterized_pages",
		Help:    "Images produced per rasterized document.",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 20},
	}, []string{"format"})

	// RasterFallbacks counts PDFs that needed the embedded viewer capture.
	RasterFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resume_studio_raster_fallbacks_total",
		Help: "PDF rasterizations that fell back to the viewer screenshot.",
	})

	// StageDuration observes pipeline stage latency.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resume_studio_stage_duration_seconds",
		Help:    "Pipeline stage latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

// ObserveStage records the elapsed time since start for a stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// StartMetricsServer serves /metrics on addr in the background. An empty addr is a no-op.
// The returned shutdown func closes the listener.
func StartMetricsServer(addr string, logger zerolog.Logger) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("serving prometheus metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	return func() { _ = server.Close() }
}
