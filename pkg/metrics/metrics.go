// Package metrics prometheus-метрики сервиса
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекция метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках
// в компоненты передается (*Metrics)(nil).
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	slotsGenerated   prometheus.Counter
	slotsSkipped     prometheus.Counter
	slotsDeleted     prometheus.Counter
	slotsReassigned  prometheus.Counter
	overlapConflicts prometheus.Counter
}

// New создает метрики и регистрирует их в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),
		slotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slots_generated_total",
			Help:        "Slots created by batch generation",
			ConstLabels: labels,
		}),
		slotsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slots_skipped_overlap_total",
			Help:        "Generation candidates rejected because of an overlapping slot",
			ConstLabels: labels,
		}),
		slotsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slots_deleted_total",
			Help:        "Slots removed by delete operations",
			ConstLabels: labels,
		}),
		slotsReassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slots_reassigned_total",
			Help:        "Slots moved to another practitioner",
			ConstLabels: labels,
		}),
		overlapConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slots_overlap_conflicts_total",
			Help:        "Writes rejected by the store-level overlap constraint",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.slotsGenerated,
		m.slotsSkipped,
		m.slotsDeleted,
		m.slotsReassigned,
		m.overlapConflicts,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// SlotsGenerated учитывает результат пакетной генерации
func (m *Metrics) SlotsGenerated(created, skipped int) {
	if m == nil {
		return
	}
	m.slotsGenerated.Add(float64(created))
	m.slotsSkipped.Add(float64(skipped))
}

func (m *Metrics) SlotsDeleted(n int) {
	if m == nil {
		return
	}
	m.slotsDeleted.Add(float64(n))
}

func (m *Metrics) SlotsReassigned(n int) {
	if m == nil {
		return
	}
	m.slotsReassigned.Add(float64(n))
}

// OverlapConflict учитывает запись, отклоненную ограничением исключения в БД
func (m *Metrics) OverlapConflict() {
	if m == nil {
		return
	}
	m.overlapConflicts.Inc()
}
