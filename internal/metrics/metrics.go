package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

type ServerMetrics struct {
	Requests       *prometheus.CounterVec
	LatencyMS      *prometheus.HistogramVec
	Purchases      *prometheus.CounterVec
	PurchaseAmount prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewServerMetricsは専用のレジストリに登録する（テストで何度作っても衝突しない）
func NewServerMetrics() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newServerMetrics(reg, reg)
}

func newServerMetrics(reg prometheus.Registerer, g prometheus.Gatherer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "purchase",
		Name:      "total",
		Help:      "Purchases by outcome.",
	}, []string{"outcome"})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "purchase",
		Name:      "amount",
		Help:      "Tax-inclusive total of committed purchases.",
		Buckets:   []float64{100, 500, 1000, 3000, 5000, 10000, 30000, 100000},
	})

	reg.MustRegister(requests, latency, purchases, amount)
	return &ServerMetrics{
		Requests:       requests,
		LatencyMS:      latency,
		Purchases:      purchases,
		PurchaseAmount: amount,
		gatherer:       g,
	}
}

// 購入結果を記録（成功時だけ金額も）
func (m *ServerMetrics) ObservePurchase(outcome string, totalPrice int64) {
	m.Purchases.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.PurchaseAmount.Observe(float64(totalPrice))
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
