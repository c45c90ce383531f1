package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podcast_intel"

// Recorder is what the pipeline and the HTTP layer report into.
type Recorder interface {
	RecordFeedFetch(podcast string, ok bool)
	RecordEpisodesFetched(count int)
	RecordAnalysis(ok bool, duration time.Duration)
	RecordDigestRun(result string)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

type Collector struct {
	feedFetches      *prometheus.CounterVec
	episodesFetched  prometheus.Counter
	analyses         *prometheus.CounterVec
	analysisLatency  prometheus.Histogram
	digestRuns       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpRequestTimes *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Podcast RSS fetch attempts by result.",
		}, []string{"result"}),
		episodesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "episodes_fetched_total",
			Help:      "New episodes stored by ingestion.",
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Episode analyses by result.",
		}, []string{"result"}),
		analysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing one episode.",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 80, 160},
		}),
		digestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_runs_total",
			Help:      "Digest runs by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Dashboard HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Dashboard HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.feedFetches,
		c.episodesFetched,
		c.analyses,
		c.analysisLatency,
		c.digestRuns,
		c.httpRequests,
		c.httpRequestTimes,
	)

	return c
}

func (c *Collector) RecordFeedFetch(podcast string, ok bool) {
	c.feedFetches.WithLabelValues(result(ok)).Inc()
}

func (c *Collector) RecordEpisodesFetched(count int) {
	c.episodesFetched.Add(float64(count))
}

func (c *Collector) RecordAnalysis(ok bool, duration time.Duration) {
	c.analyses.WithLabelValues(result(ok)).Inc()
	if ok {
		c.analysisLatency.Observe(duration.Seconds())
	}
}

// RecordDigestRun counts a digest run; result is "sent", "saved", "empty" or "failed".
func (c *Collector) RecordDigestRun(result string) {
	c.digestRuns.WithLabelValues(result).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpRequestTimes.WithLabelValues(route).Observe(duration.Seconds())
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
