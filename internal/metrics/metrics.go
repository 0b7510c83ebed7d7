// Package metrics holds the prometheus collectors of the messaging pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "campaign"

type Metrics struct {
	dispatched      *prometheus.CounterVec
	sendDuration    prometheus.Histogram
	appended        *prometheus.CounterVec
	appendConflicts prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "messages_total",
			Help:      "Messages handed to the provider, by outcome.",
		}, []string{"outcome"}),
		sendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "send_duration_seconds",
			Help:      "Latency of provider send calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "appended_messages_total",
			Help:      "Messages appended to conversations, by direction.",
		}, []string{"direction"}),
		appendConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "append_conflicts_total",
			Help:      "Append attempts retried after a unique key conflict.",
		}),
	}

	reg.MustRegister(m.dispatched, m.sendDuration, m.appended, m.appendConflicts)
	return m
}

func (m *Metrics) ObserveSend(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(outcome).Inc()
	m.sendDuration.Observe(took.Seconds())
}

func (m *Metrics) Appended(direction string) {
	if m == nil {
		return
	}
	m.appended.WithLabelValues(direction).Inc()
}

func (m *Metrics) AppendConflict() {
	if m == nil {
		return
	}
	m.appendConflicts.Inc()
}
