package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: входящие вебхуки по исходу (ok, unauthorized, bad_request, ...)
	WebhookRequests *prometheus.CounterVec

	// Исходы решений рецензентов (applied, already_decided, error)
	Decisions *prometheus.CounterVec

	// Errors: отказы апстримов по сервису и типу
	UpstreamErrors *prometheus.CounterVec

	// Latency: обработка HTTP-запросов
	RequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - без реестра метрики пишутся в локальный, никуда не подключенный
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		WebhookRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_webhook_requests_total",
			Help: "Total number of inbound webhook requests by outcome.",
		}, []string{"outcome"}),

		Decisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_decisions_total",
			Help: "Total number of reviewer decisions by action and result.",
		}, []string{"action", "result"}),

		UpstreamErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_upstream_errors_total",
			Help: "Total number of upstream call failures by service.",
		}, []string{"service", "kind"}),

		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bridge_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
	}
}
