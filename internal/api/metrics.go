package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "gophcatalog"

// Metrics - метрики запросов клиента к API каталога.
// Метки:
//   - action: операция клиента (например "login", "list_products")
//   - code: HTTP статус ответа или "error", если ответа не было
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics создает и регистрирует метрики в переданном реестре.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests made by the client.",
			},
			[]string{"action", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "api_request_duration_seconds",
				Help:      "Duration of API requests made by the client.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
}

// observe учитывает выполненный запрос. Безопасен для nil.
func (m *Metrics) observe(action string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.RequestsTotal.WithLabelValues(action, label).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}
