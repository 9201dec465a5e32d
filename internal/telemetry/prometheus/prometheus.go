package prometheus

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const tagsLabel = "tags"

// Client registers a counter or histogram the first time a name is seen.
// Dotted names are converted to underscores.
type Client struct {
	registry         *prometheus.Registry
	mu               sync.Mutex
	CounterMetrics   map[string]*prometheus.CounterVec
	HistogramMetrics map[string]*prometheus.HistogramVec
}

func Init() *Client {
	return &Client{
		registry:         prometheus.NewRegistry(),
		CounterMetrics:   make(map[string]*prometheus.CounterVec),
		HistogramMetrics: make(map[string]*prometheus.HistogramVec),
	}
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

func (c *Client) counter(name string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	counterMetric, exists := c.CounterMetrics[name]
	if !exists {
		counterMetric = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricName(name),
			},
			[]string{tagsLabel},
		)
		c.registry.MustRegister(counterMetric)
		c.CounterMetrics[name] = counterMetric
	}

	return counterMetric
}

func (c *Client) histogram(name string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	histogramMetric, exists := c.HistogramMetrics[name]
	if !exists {
		histogramMetric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricName(name),
				Buckets: prometheus.DefBuckets,
			},
			[]string{tagsLabel},
		)
		c.registry.MustRegister(histogramMetric)
		c.HistogramMetrics[name] = histogramMetric
	}

	return histogramMetric
}

func (c *Client) Incr(name string, tags []string, rate float64) {
	if c == nil {
		return
	}

	c.counter(name).WithLabelValues(strings.Join(tags, ",")).Inc()
}

func (c *Client) Timing(name string, value time.Duration, tags []string, rate float64) {
	if c == nil {
		return
	}

	c.histogram(name).WithLabelValues(strings.Join(tags, ",")).Observe(value.Seconds())
}

func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
