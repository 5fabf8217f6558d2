package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DictationMetrics records per-stage outcomes of the dictation pipeline.
type DictationMetrics struct {
	stageDuration *prometheus.HistogramVec
	cycleSuccess  *prometheus.CounterVec
	cycleFailure  *prometheus.CounterVec
}

// NewDictationMetrics registers the dictation metrics on the provided registerer.
func NewDictationMetrics(reg prometheus.Registerer) *DictationMetrics {
	if reg == nil {
		return &DictationMetrics{}
	}
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dictation_stage_duration_seconds",
		Help:    "Duration of dictation pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	cycleSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dictation_cycle_success",
		Help: "Dictation cycles that merged successfully.",
	}, []string{"outcome"})
	cycleFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dictation_cycle_failure",
		Help: "Dictation cycles that failed, by stage.",
	}, []string{"stage"})
	reg.MustRegister(stageDuration, cycleSuccess, cycleFailure)
	return &DictationMetrics{
		stageDuration: stageDuration,
		cycleSuccess:  cycleSuccess,
		cycleFailure:  cycleFailure,
	}
}

// ObserveStage records the duration for the named pipeline stage.
func (d *DictationMetrics) ObserveStage(stage string, duration time.Duration) {
	if d == nil || d.stageDuration == nil {
		return
	}
	d.stageDuration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter. Outcome distinguishes cycles that
// merged new content from cycles that ended early on an empty transcript.
func (d *DictationMetrics) IncSuccess(outcome string) {
	if d == nil || d.cycleSuccess == nil {
		return
	}
	d.cycleSuccess.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncFailure increments the failure counter for the named stage.
func (d *DictationMetrics) IncFailure(stage string) {
	if d == nil || d.cycleFailure == nil {
		return
	}
	d.cycleFailure.WithLabelValues(normalizeLabel(stage)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
