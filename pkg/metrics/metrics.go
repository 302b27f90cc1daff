package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов Prometheus для сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BlobOperationsTotal   *prometheus.CounterVec
	BlobOperationDuration *prometheus.HistogramVec

	WriteConflictsTotal *prometheus.CounterVec
	WriteAttempts       *prometheus.HistogramVec
	WritesTotal         *prometheus.CounterVec

	serviceName string
}

// New регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registry (в тестах - свой registry на каждый тест)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		BlobOperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blob_operations_total",
			Help: "Blob store operations by backend, operation and result",
		}, []string{"service", "backend", "operation", "result"}),

		BlobOperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blob_operation_duration_seconds",
			Help:    "Blob store operation latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "backend", "operation"}),

		WriteConflictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_write_conflicts_total",
			Help: "Conditional writes rejected because the shared document changed",
		}, []string{"service"}),

		WriteAttempts: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "availability_write_attempts",
			Help:    "Attempts needed per availability write",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		}, []string{"service", "strategy"}),

		WritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_writes_total",
			Help: "Availability writes by strategy and final state",
		}, []string{"service", "strategy", "state"}),
	}
}

// ServiceName возвращает имя сервиса для label
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveBlobOperation записывает метрики операции с blob store
func (m *Metrics) ObserveBlobOperation(backend, operation, result string, duration time.Duration) {
	m.BlobOperationsTotal.WithLabelValues(m.serviceName, backend, operation, result).Inc()
	m.BlobOperationDuration.WithLabelValues(m.serviceName, backend, operation).Observe(duration.Seconds())
}

// IncWriteConflict учитывает одну отклонённую условную запись
func (m *Metrics) IncWriteConflict() {
	m.WriteConflictsTotal.WithLabelValues(m.serviceName).Inc()
}

// ObserveWrite учитывает завершённую запись доступности
func (m *Metrics) ObserveWrite(strategy, state string, attempts int) {
	m.WritesTotal.WithLabelValues(m.serviceName, strategy, state).Inc()
	m.WriteAttempts.WithLabelValues(m.serviceName, strategy).Observe(float64(attempts))
}
