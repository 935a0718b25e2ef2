package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rwh"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Assessment metrics.
	Assessments        *prometheus.CounterVec   // labels: outcome={scored,infeasible,location_not_found,unknown_aquifer_score,invalid_input,parse_error,internal}
	Resolutions        *prometheus.CounterVec   // labels: dataset, candidate={district,state}, strategy={exact,substring}
	AmbiguousMatches   *prometheus.CounterVec   // labels: dataset
	AssessmentDuration prometheus.Histogram

	// Map rendering metrics.
	RegionsSkipped *prometheus.CounterVec   // labels: map
	RenderDuration *prometheus.HistogramVec // labels: map

	// Cache metrics.
	CacheLookups *prometheus.CounterVec // labels: cache={geometry,prediction}, result={hit,miss}

	// Aquifer predictor metrics.
	PredictorRequests *prometheus.CounterVec // labels: outcome={success,error}
	PredictorEnabled  prometheus.Gauge

	// Streaming pipeline metrics.
	MessagesConsumed        prometheus.Counter
	EventsPublished         *prometheus.CounterVec // labels: status={ok,error}, code=outcome or error code
	MessagesSkipped         *prometheus.CounterVec // labels: reason={unaddressable,transform_failed}
	PublishRetries          prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Feasibility assessments by outcome.",
		}, []string{"outcome"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Dataset lookups by the candidate and strategy that matched.",
		}, []string{"dataset", "candidate", "strategy"}),
		AmbiguousMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ambiguous_matches_total",
			Help:      "Substring lookups that matched more than one row.",
		}, []string{"dataset"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a complete assessment including map rendering.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RegionsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_regions_skipped_total",
			Help:      "Map entries with no matching SVG region.",
		}, []string{"map"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "map_render_duration_seconds",
			Help:      "Time to colour, highlight and write one map.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"map"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictor_requests_total",
			Help:      "Aquifer predictor requests by outcome.",
		}, []string{"outcome"}),
		PredictorEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "predictor_enabled",
			Help:      "1 when the aquifer predictor is configured, 0 otherwise.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total assessment requests read from the source topic.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total assessment events written to the sink topic by status and code.",
		}, []string{"status", "code"}),
		MessagesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_skipped_total",
			Help:      "Total consumed messages committed without an answer.",
		}, []string{"reason"}),
		PublishRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_retries_total",
			Help:      "Total failed attempts to publish a pending batch.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the streaming pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Assessments,
		m.Resolutions,
		m.AmbiguousMatches,
		m.AssessmentDuration,
		m.RegionsSkipped,
		m.RenderDuration,
		m.CacheLookups,
		m.PredictorRequests,
		m.PredictorEnabled,
		m.MessagesConsumed,
		m.EventsPublished,
		m.MessagesSkipped,
		m.PublishRetries,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	}
}
