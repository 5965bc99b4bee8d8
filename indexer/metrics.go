package indexer

import (
	"net/http"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricIndexedHeight = "indexed_height"
	MetricEventCount    = "event_count"
	MetricRequestCount  = "request_count"
)

var (
	heightGauge  prometheus.Gauge
	eventCount   *prometheus.CounterVec
	requestCount *prometheus.CounterVec
)

func InitMetrics() {
	heightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "agora",
		Subsystem: "indexer",
		Name:      MetricIndexedHeight,
		Help:      "Last block height folded into the index",
	})
	prometheus.MustRegister(heightGauge)

	eventCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agora",
		Subsystem: "indexer",
		Name:      MetricEventCount,
		Help:      "Counts indexed events by type",
	}, []string{"type"})
	prometheus.MustRegister(eventCount)

	requestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agora",
		Subsystem: "api",
		Name:      MetricRequestCount,
		Help:      "Counts API requests by path",
	}, []string{"path"})
	prometheus.MustRegister(requestCount)
}

func SetIndexedHeight(height int64) {
	if heightGauge == nil {
		return
	}
	heightGauge.Set(float64(height))
}

func IncIndexedEvent(typ string) {
	if eventCount == nil {
		return
	}
	eventCount.WithLabelValues(typ).Inc()
}

func IncRequestCount(path string) {
	if requestCount == nil {
		return
	}
	requestCount.WithLabelValues(path).Inc()
}

// ServeMetrics exposes the prometheus registry on addr.
func ServeMetrics(logger cmtlog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
}
