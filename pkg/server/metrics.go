package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess    = "success"
	resultBadRequest = "bad_request"
	resultError      = "error"
)

type metrics struct {
	registry *prometheus.Registry
	// requests counts the processed requests per operation and result
	requests *prometheus.CounterVec
}

// newMetrics creates the metrics of a server, node is added as a label to every request metric
func newMetrics(node string) *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &metrics{
		registry: reg,
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name:        "network_shaper_requests_total",
			Help:        "Total number of processed requests",
			ConstLabels: prometheus.Labels{"node": node},
		}, []string{"op", "result"}),
	}
}

func (m *metrics) observe(op, result string) {
	m.requests.WithLabelValues(op, result).Inc()
}
