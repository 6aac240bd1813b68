package publisher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "gistit"

	labelStatus = "status"
)

type Metrics struct {
	published *prometheus.CounterVec
	files     prometheus.Counter
	duration  prometheus.Histogram
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "publications_total",
			Help:      "Count of publish attempts by outcome",
		}, []string{labelStatus}),
		files: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "published_files_total",
			Help:      "Count of files pushed to gists",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "publish_duration_seconds",
			Help:      "Duration of publish attempts",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) observe(status string, files int, started time.Time) {
	m.published.WithLabelValues(status).Inc()
	m.files.Add(float64(files))
	m.duration.Observe(time.Since(started).Seconds())
}
