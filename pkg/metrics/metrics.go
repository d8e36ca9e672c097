package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CC phase metrics
	CommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_commits_total",
			Help: "Total number of transactions counted as committed by CC, by worker",
		},
		[]string{"worker"},
	)

	BatchesClaimed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_batches_claimed_total",
			Help: "Total number of non-empty batches claimed from the dispatcher",
		},
	)

	PlaceholdersInstalled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_placeholders_installed_total",
			Help: "Total number of placeholder versions installed",
		},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "burrow_batch_cc_duration_seconds",
			Help:    "Time taken to run CC over one batch in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Adaptive variant metrics
	MigrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_migrations_total",
			Help: "Total number of key migrations between workers",
		},
	)

	// Ready queue metrics
	ReadyQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_ready_queue_depth",
			Help: "Number of transactions currently on the ready queue",
		},
	)

	// Run metrics
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_runs_total",
			Help: "Total number of engine runs by variant",
		},
		[]string{"variant"},
	)

	RunThroughput = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "burrow_run_throughput_txn_per_second",
			Help: "Throughput of the most recent run by variant",
		},
		[]string{"variant"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(CommitsTotal)
	prometheus.MustRegister(BatchesClaimed)
	prometheus.MustRegister(PlaceholdersInstalled)
	prometheus.MustRegister(BatchDuration)
	prometheus.MustRegister(MigrationsTotal)
	prometheus.MustRegister(ReadyQueueDepth)
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RunThroughput)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
