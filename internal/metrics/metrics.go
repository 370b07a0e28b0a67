package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Delivery outcome labels
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Metrics holds all Prometheus metrics for a run
type Metrics struct {
	registry *prometheus.Registry

	// Delivery metrics
	DeliveriesTotal    *prometheus.CounterVec
	StepDuration       *prometheus.HistogramVec
	StepFailuresTotal  *prometheus.CounterVec
	DeliveryDuration   prometheus.Histogram
	AssetsMissingTotal prometheus.Counter

	// Run metrics
	RunsTotal        *prometheus.CounterVec
	BirthdaysToday   prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		// Delivery metrics
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deliveries_total",
				Help: "Total number of birthday deliveries by outcome",
			},
			[]string{"status"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "delivery_step_duration_seconds",
				Help:    "Duration of each delivery step including its settle pause",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15, 20, 30},
			},
			[]string{"step"},
		),
		StepFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delivery_step_failures_total",
				Help: "Total number of deliveries that failed at each step",
			},
			[]string{"step"},
		),
		DeliveryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "delivery_duration_seconds",
				Help:    "Duration of a whole delivery attempt",
				Buckets: []float64{5, 10, 15, 20, 30, 45, 60, 90},
			},
		),
		AssetsMissingTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "assets_missing_total",
				Help: "Total number of recipients skipped because their image was missing",
			},
		),

		// Run metrics
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runs_total",
				Help: "Total number of runs by result",
			},
			[]string{"result"},
		),
		BirthdaysToday: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "birthdays_today",
				Help: "Number of recipients whose birthday is today",
			},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}

	// Register all metrics
	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	// Delivery metrics
	m.registry.MustRegister(m.DeliveriesTotal)
	m.registry.MustRegister(m.StepDuration)
	m.registry.MustRegister(m.StepFailuresTotal)
	m.registry.MustRegister(m.DeliveryDuration)
	m.registry.MustRegister(m.AssetsMissingTotal)

	// Run metrics
	m.registry.MustRegister(m.RunsTotal)
	m.registry.MustRegister(m.BirthdaysToday)
	m.registry.MustRegister(m.LastRunTimestamp)
}

// ObserveStep records one delivery step
func (m *Metrics) ObserveStep(step string, d time.Duration, err error) {
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
	if err != nil {
		m.StepFailuresTotal.WithLabelValues(step).Inc()
	}
}

// ObserveAttempt records the outcome of one delivery attempt
func (m *Metrics) ObserveAttempt(status string, d time.Duration) {
	m.DeliveriesTotal.WithLabelValues(status).Inc()
	m.DeliveryDuration.Observe(d.Seconds())
}

// ObserveBirthdays records how many recipients are due today
func (m *Metrics) ObserveBirthdays(n int) {
	m.BirthdaysToday.Set(float64(n))
}

// ObserveAssetMissing records a recipient skipped for lack of an image
func (m *Metrics) ObserveAssetMissing() {
	m.AssetsMissingTotal.Inc()
}

// ObserveRun records the end of a run
func (m *Metrics) ObserveRun(result string) {
	m.RunsTotal.WithLabelValues(result).Inc()
	m.LastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile writes every metric in Prometheus text format, for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
