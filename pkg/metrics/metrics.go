// Package metrics holds the Prometheus collectors of the voice service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "braille_voice"

type Metrics struct {
	CommandsTotal      *prometheus.CounterVec
	InterpretLatency   prometheus.Histogram
	UtterancesPending  prometheus.Counter
	UtterancesComplete *prometheus.CounterVec
	RecognitionEvents  *prometheus.CounterVec
	WebsocketsActive   prometheus.Gauge
	RulesLoaded        prometheus.Gauge

	EventsPublished *prometheus.CounterVec
	EventsLatency   *prometheus.HistogramVec
}

// DefaultMetrics is registered with the default Prometheus registry.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Classified voice commands by intent kind and outcome",
		}, []string{"kind", "outcome"}),
		InterpretLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interpret_latency_seconds",
			Help:      "Time spent classifying a transcript",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		UtterancesPending: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_pending_total",
			Help:      "Actions deferred until speech completion",
		}),
		UtterancesComplete: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_completed_total",
			Help:      "Speech completion callbacks by result",
		}, []string{"result"}),
		RecognitionEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recognition_events_total",
			Help:      "Recognition start and end events reported by clients",
		}, []string{"event", "restart"}),
		WebsocketsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websockets_active",
			Help:      "Open transcript websocket connections",
		}),
		RulesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "custom_rules_loaded",
			Help:      "Custom keyword rules in the active interpreter",
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Intent events handed to the publisher",
		}, []string{"topic", "status"}),
		EventsLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "events_publish_latency_seconds",
			Help:      "Intent event publish latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordCommand counts a classified command. interpretSeconds covers the
// classification alone, not session storage or event publishing.
func (m *Metrics) RecordCommand(kind, outcome string, interpretSeconds float64) {
	m.CommandsTotal.WithLabelValues(kind, outcome).Inc()
	m.InterpretLatency.Observe(interpretSeconds)
}

func (m *Metrics) RecordCompletion(found bool) {
	result := "released"
	if !found {
		result = "missing"
	}
	m.UtterancesComplete.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordRecognition(event string, restart bool) {
	value := "false"
	if restart {
		value = "true"
	}
	m.RecognitionEvents.WithLabelValues(event, value).Inc()
}

func (m *Metrics) RecordPublish(topic string, err error, seconds float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(topic, status).Inc()
	m.EventsLatency.WithLabelValues(topic).Observe(seconds)
}
