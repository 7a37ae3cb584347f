package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ViewsRecordedTotal *prometheus.CounterVec
	EventPublishTotal  *prometheus.CounterVec
}

var (
	globalMetrics *Metrics
	metricsMutex  sync.Mutex
)

// New returns the process wide metrics, registering them on first use.
func New() *Metrics {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	if globalMetrics != nil {
		return globalMetrics
	}
	m := &Metrics{
		HTTPRequestTotal: registerOrGet(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"})),
		HTTPRequestDuration: registerOrGet(prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})),
		ViewsRecordedTotal: registerOrGet(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "views_recorded_total",
			Help: "Total number of recorded playback events",
		}, []string{"episode"})),
		EventPublishTotal: registerOrGet(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_publish_total",
			Help: "Total number of event publish attempts",
		}, []string{"event_type", "status"})),
	}
	globalMetrics = m
	return m
}

func registerOrGet[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) ViewRecorded(withEpisode bool) {
	label := "false"
	if withEpisode {
		label = "true"
	}
	m.ViewsRecordedTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) EventPublished(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventPublishTotal.WithLabelValues(eventType, status).Inc()
}
