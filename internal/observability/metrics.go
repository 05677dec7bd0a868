package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	IngestionResults *prometheus.CounterVec
	StatesLoaded     prometheus.Gauge
	GeocodeResults   *prometheus.CounterVec
}

func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	c := &Collector{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iss_tracker_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"route", "method", "code"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iss_tracker_http_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		IngestionResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iss_tracker_ingestion_total",
				Help: "Ephemeris ingestion attempts by outcome.",
			},
			[]string{"outcome"},
		),
		StatesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "iss_tracker_states_loaded",
				Help: "Number of state vectors currently served.",
			},
		),
		GeocodeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iss_tracker_geocode_total",
				Help: "Reverse geocoding lookups by result.",
			},
			[]string{"result"},
		),
	}

	for _, col := range []prometheus.Collector{c.HTTPRequests, c.HTTPDuration, c.IngestionResults, c.StatesLoaded, c.GeocodeResults} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Handler serves the collector's registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveIngestion(outcome string, states int) {
	if c == nil {
		return
	}
	c.IngestionResults.WithLabelValues(outcome).Inc()
	c.StatesLoaded.Set(float64(states))
}

func (c *Collector) ObserveGeocode(result string) {
	if c == nil {
		return
	}
	c.GeocodeResults.WithLabelValues(result).Inc()
}

// Middleware records request count and duration, labelled by route template
// so that epoch timestamps don't explode label cardinality.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil {
			ctx.Next()
			return
		}
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := strconv.Itoa(ctx.Writer.Status())
		c.HTTPRequests.WithLabelValues(route, ctx.Request.Method, code).Inc()
		c.HTTPDuration.WithLabelValues(route, ctx.Request.Method).Observe(time.Since(start).Seconds())
	}
}
