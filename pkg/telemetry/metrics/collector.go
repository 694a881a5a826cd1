// Package metrics exposes Prometheus instrumentation for the scan pipeline:
// verdict counts by class, scan latency, per-outcome symbol counts, and
// configuration reload activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric registration.
type Config struct {
	// Namespace and Subsystem prefix every metric name.
	// Defaults: "vesta", "engine".
	Namespace string
	Subsystem string

	// ScanDurationBuckets are histogram buckets in seconds. The defaults
	// cover the sub-millisecond to multi-second range typical for mixed
	// CPU/network symbol sets.
	ScanDurationBuckets []float64
}

// Collector owns all Prometheus instruments for the engine.
type Collector struct {
	registry *prometheus.Registry

	scansTotal     *prometheus.CounterVec
	scanDuration   prometheus.Histogram
	symbolsTotal   *prometheus.CounterVec
	symbolDuration *prometheus.HistogramVec
	earlyExits     prometheus.Counter
	deadlineExits  prometheus.Counter
	fatalExits     prometheus.Counter
	reloadsTotal   *prometheus.CounterVec
	generation     prometheus.Gauge
}

// NewCollector creates a collector and registers its instruments. A nil
// registry gets a fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "vesta"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "engine"
	}
	if len(cfg.ScanDurationBuckets) == 0 {
		cfg.ScanDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0}
	}

	c := &Collector{
		registry: registry,
		scansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "scans_total",
			Help:      "Finalized scans by verdict category.",
		}, []string{"category"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "scan_duration_seconds",
			Help:      "Wall time to finalize one scan.",
			Buckets:   cfg.ScanDurationBuckets,
		}),
		symbolsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "symbols_total",
			Help:      "Symbol results by outcome.",
		}, []string{"outcome"}),
		symbolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "symbol_duration_seconds",
			Help:      "Handler execution time per symbol.",
			Buckets:   cfg.ScanDurationBuckets,
		}, []string{"symbol"}),
		earlyExits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "early_exits_total",
			Help:      "Scans finalized by the early-exit predicate.",
		}),
		deadlineExits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "deadline_exceeded_total",
			Help:      "Scans finalized by the message deadline.",
		}),
		fatalExits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "fatal_exits_total",
			Help:      "Scans short-circuited by a fatal symbol.",
		}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "reloads_total",
			Help:      "Configuration reload attempts by result.",
		}, []string{"result"}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "configuration_generation",
			Help:      "Sequence number of the active configuration generation.",
		}),
	}

	registry.MustRegister(
		c.scansTotal, c.scanDuration, c.symbolsTotal, c.symbolDuration,
		c.earlyExits, c.deadlineExits, c.fatalExits, c.reloadsTotal,
		c.generation,
	)
	return c
}

// ObserveScan records one finalized scan.
func (c *Collector) ObserveScan(category string, elapsed time.Duration, earlyExit, degraded bool, fatal string) {
	c.scansTotal.WithLabelValues(category).Inc()
	c.scanDuration.Observe(elapsed.Seconds())
	if earlyExit {
		c.earlyExits.Inc()
	}
	if degraded {
		c.deadlineExits.Inc()
	}
	if fatal != "" {
		c.fatalExits.Inc()
	}
}

// ObserveSymbol records one symbol result. The symbol label cardinality is
// bounded by the registry population.
func (c *Collector) ObserveSymbol(name, outcome string, elapsed time.Duration, ran bool) {
	c.symbolsTotal.WithLabelValues(outcome).Inc()
	if ran {
		c.symbolDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	}
}

// ObserveReload records a configuration reload attempt.
func (c *Collector) ObserveReload(ok bool, generation uint64) {
	if ok {
		c.reloadsTotal.WithLabelValues("success").Inc()
		c.generation.Set(float64(generation))
		return
	}
	c.reloadsTotal.WithLabelValues("failure").Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
