package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_SlotCounters(t *testing.T) {
	m := NewWithRegistry("slot-service-test", prometheus.NewRegistry())

	m.SlotsGenerated(4, 2)
	m.SlotsDeleted(3)
	m.SlotsReassigned(1)
	m.OverlapConflict()

	assert.Equal(t, 4.0, testutil.ToFloat64(m.slotsGenerated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotsSkipped))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.slotsDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotsReassigned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.overlapConflicts))
}

func TestMetrics_DBAndHTTP(t *testing.T) {
	m := NewWithRegistry("slot-service-test", prometheus.NewRegistry())

	m.ObserveDBQuery("select", 5*time.Millisecond, nil)
	m.ObserveDBQuery("insert", 5*time.Millisecond, errors.New("boom"))
	m.ObserveHTTPRequest("GET", "/api/v1/slots", 200, time.Millisecond)
	m.SetDBConnections(5, 2, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("insert")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/slots", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("in_use")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SlotsGenerated(1, 1)
		m.SlotsDeleted(1)
		m.SlotsReassigned(1)
		m.OverlapConflict()
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.SetDBConnections(1, 1, 1)
	})
}
