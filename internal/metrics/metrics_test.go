package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.ObserveSend("sent", 10*time.Millisecond)
	m.ObserveSend("sent", 20*time.Millisecond)
	m.ObserveSend("failed", time.Millisecond)
	m.Appended("outbound")
	m.AppendConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatched.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatched.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.appended.WithLabelValues("outbound")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.appendConflicts))
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSend("sent", time.Second)
		m.Appended("inbound")
		m.AppendConflict()
	})
}
