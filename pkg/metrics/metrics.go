// Package metrics provides Prometheus metrics for the price relay.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusDeclined = "declined"
	StatusDryRun   = "dry_run"
)

// DefaultJob is the Pushgateway job name.
const DefaultJob = "price-relay"

var (
	// Registry holds every relay metric. A dedicated registry keeps the pushed
	// payload free of Go runtime collectors.
	Registry = prometheus.NewRegistry()

	// RunsTotal is a counter of relay runs by outcome.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_runs_total",
			Help: "Total number of relay runs",
		},
		[]string{"status"},
	)

	// PriceFetchTotal is a counter of price fetches per source.
	PriceFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_fetch_total",
			Help: "Total number of price fetches from sources",
		},
		[]string{"source", "status"},
	)

	// FetchedPrice is a gauge of the last USD price read from a source.
	FetchedPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fetched_price",
			Help: "Last USD price fetched from a source",
		},
		[]string{"source"},
	)

	// TxSubmissionsTotal is a counter of setTokenPrice submissions.
	TxSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tx_submissions_total",
			Help: "Total number of setTokenPrice submissions",
		},
		[]string{"status"},
	)

	// RunDuration is a histogram of end-to-end run durations, delay excluded.
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "run_duration_seconds",
			Help:    "Duration of relay runs excluding the start delay",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	initOnce sync.Once
)

// Init registers all metrics with Registry. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(
			RunsTotal,
			PriceFetchTotal,
			FetchedPrice,
			TxSubmissionsTotal,
			RunDuration,
		)
	})
}

// Push sends the registry to a Pushgateway, replacing the job's previous group.
func Push(ctx context.Context, url, job string) error {
	if job == "" {
		job = DefaultJob
	}
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

// RecordRun records a finished run.
func RecordRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordFetch records a fetch attempt. The price gauge is only set on success.
func RecordFetch(source string, price float64, err error) {
	if err != nil {
		PriceFetchTotal.WithLabelValues(source, StatusError).Inc()
		return
	}
	PriceFetchTotal.WithLabelValues(source, StatusSuccess).Inc()
	FetchedPrice.WithLabelValues(source).Set(price)
}

// RecordSubmission records a transaction submission outcome.
func RecordSubmission(status string) {
	TxSubmissionsTotal.WithLabelValues(status).Inc()
}
