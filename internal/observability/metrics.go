package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the assistant. A nil
// *Metrics is valid and records nothing, so tests can run without touching
// the global registry.
type Metrics struct {
	TurnsProcessed    prometheus.Counter
	UtterancesDropped prometheus.Counter
	SpeechSegments    prometheus.Counter
	SpeechInterrupts  prometheus.Counter
	ResponseLatency   prometheus.Histogram
}

// NewMetrics registers the instruments under the given namespace. Call it
// once per process.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TurnsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_processed_total",
			Help:      "Wake-matched utterances routed through the session.",
		}),
		UtterancesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_dropped_total",
			Help:      "Recognized utterances discarded for lack of a wake phrase.",
		}),
		SpeechSegments: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_segments_total",
			Help:      "Text segments handed to the speech output queue.",
		}),
		SpeechInterrupts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_interrupts_total",
			Help:      "Playback interrupts that discarded pending segments.",
		}),
		ResponseLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_latency_ms",
			Help:      "Time from wake-matched utterance to enqueued reply in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000},
		}),
	}
}

// RegisterQueueDepth exposes the speech queue's pending depth as a gauge.
func (m *Metrics) RegisterQueueDepth(namespace string, depth func() int) {
	if m == nil {
		return
	}
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "speech_queue_depth",
		Help:      "Pending text segments awaiting playback.",
	}, func() float64 {
		return float64(depth())
	})
}

func (m *Metrics) TurnProcessed() {
	if m != nil {
		m.TurnsProcessed.Inc()
	}
}

func (m *Metrics) UtteranceDropped() {
	if m != nil {
		m.UtterancesDropped.Inc()
	}
}

func (m *Metrics) SegmentEnqueued() {
	if m != nil {
		m.SpeechSegments.Inc()
	}
}

func (m *Metrics) Interrupted() {
	if m != nil {
		m.SpeechInterrupts.Inc()
	}
}

func (m *Metrics) ObserveResponseLatency(d time.Duration) {
	if m != nil {
		m.ResponseLatency.Observe(float64(d.Milliseconds()))
	}
}

// MetricsHandler serves the default registry scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
