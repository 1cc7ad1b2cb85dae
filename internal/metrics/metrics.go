package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RefreshCyclesTotal   *prometheus.CounterVec
	RefreshCycleDuration prometheus.Histogram
	SourceFetchesTotal   *prometheus.CounterVec
	SourceFetchDuration  *prometheus.HistogramVec
	QuotesMergedTotal    prometheus.Counter
	StoredPairs          prometheus.Gauge
	DroppedTicksTotal    prometheus.Counter
	ResolutionsTotal     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RefreshCyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refresh_cycles_total",
				Help: "Total number of refresh cycles by outcome",
			},
			[]string{"outcome"},
		),

		RefreshCycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "refresh_cycle_duration_seconds",
				Help:    "Refresh cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		SourceFetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "source_fetches_total",
				Help: "Total number of upstream source fetches by status",
			},
			[]string{"source", "status"},
		),

		SourceFetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "source_fetch_duration_seconds",
				Help:    "Upstream source fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),

		QuotesMergedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotes_merged_total",
				Help: "Total number of quotes merged into the rate store",
			},
		),

		StoredPairs: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stored_pairs",
				Help: "Number of currency pairs currently in the rate store",
			},
		),

		DroppedTicksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scheduler_dropped_ticks_total",
				Help: "Refresh ticks dropped because a cycle was already running",
			},
		),

		ResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_resolutions_total",
				Help: "Total number of cross-rate resolutions by path",
			},
			[]string{"path", "status"},
		),
	}
}

// The recording helpers below tolerate a nil receiver so code paths
// under test can run without a registry.

func (m *Metrics) ObserveHTTPRequest(path, method, statusClass string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(path, method, statusClass).Inc()
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(d.Seconds())
}

func (m *Metrics) ObserveRefreshCycle(outcome string, d time.Duration, merged, storedPairs int) {
	if m == nil {
		return
	}
	m.RefreshCyclesTotal.WithLabelValues(outcome).Inc()
	m.RefreshCycleDuration.Observe(d.Seconds())
	m.QuotesMergedTotal.Add(float64(merged))
	m.StoredPairs.Set(float64(storedPairs))
}

func (m *Metrics) ObserveSourceFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SourceFetchesTotal.WithLabelValues(source, status).Inc()
	m.SourceFetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) TickDropped() {
	if m == nil {
		return
	}
	m.DroppedTicksTotal.Inc()
}

func (m *Metrics) ObserveResolution(path string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ResolutionsTotal.WithLabelValues(path, status).Inc()
}
