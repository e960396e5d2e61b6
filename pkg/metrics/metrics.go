// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллекция метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpenConns  *prometheus.GaugeVec
	dbPoolInUseConns *prometheus.GaugeVec
	dbPoolIdleConns  *prometheus.GaugeVec

	holdsCreatedTotal   *prometheus.CounterVec
	holdConflictsTotal  *prometheus.CounterVec
	holdsSweptTotal     *prometheus.CounterVec
	placementRejections *prometheus.CounterVec
}

// New создает и регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		dbPoolOpenConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),

		dbPoolInUseConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		dbPoolIdleConns: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{}),

		holdsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_created_total",
			Help:        "Total number of slot holds created",
			ConstLabels: constLabels,
		}, []string{}),

		holdConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "hold_conflicts_total",
			Help:        "Total number of hold attempts rejected due to conflicts",
			ConstLabels: constLabels,
		}, []string{}),

		holdsSweptTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "holds_swept_total",
			Help:        "Total number of expired holds removed by the sweeper",
			ConstLabels: constLabels,
		}, []string{}),

		placementRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "placement_rejections_total",
			Help:        "Total number of placements rejected by the conflict resolver",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}
}

// RecordHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQuery записывает метрики запроса к БД
func (m *Metrics) RecordDBQuery(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats записывает состояние connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbPoolOpenConns.WithLabelValues().Set(float64(stats.OpenConnections))
	m.dbPoolInUseConns.WithLabelValues().Set(float64(stats.InUse))
	m.dbPoolIdleConns.WithLabelValues().Set(float64(stats.Idle))
}

// RecordHoldCreated увеличивает счётчик созданных холдов
func (m *Metrics) RecordHoldCreated() {
	m.holdsCreatedTotal.WithLabelValues().Inc()
}

// RecordHoldConflict увеличивает счётчик конфликтов при создании холда
func (m *Metrics) RecordHoldConflict() {
	m.holdConflictsTotal.WithLabelValues().Inc()
}

// RecordHoldsSwept увеличивает счётчик удалённых протухших холдов
func (m *Metrics) RecordHoldsSwept(count int64) {
	m.holdsSweptTotal.WithLabelValues().Add(float64(count))
}

// RecordPlacementRejection увеличивает счётчик отклонённых размещений
func (m *Metrics) RecordPlacementRejection(reason string) {
	m.placementRejections.WithLabelValues(reason).Inc()
}
