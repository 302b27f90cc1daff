package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("availability", prometheus.NewRegistry())

	m.ObserveHTTPRequest("GET", "/api/v1/availability", "200", 10*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/availability", "200", 20*time.Millisecond)
	m.ObserveBlobOperation("memory", "get", "ok", time.Millisecond)
	m.IncWriteConflict()
	m.IncWriteConflict()
	m.ObserveWrite("shared", "done", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("availability", "GET", "/api/v1/availability", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlobOperationsTotal.WithLabelValues("availability", "memory", "get", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WriteConflictsTotal.WithLabelValues("availability")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WritesTotal.WithLabelValues("availability", "shared", "done")))
	assert.Equal(t, "availability", m.ServiceName())
}
