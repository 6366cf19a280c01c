// Package metrics provides Prometheus metrics collection for windowkit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for windowkit.
type Collector struct {
	// Build metrics
	BuildsTotal   *prometheus.CounterVec
	BuildErrors   *prometheus.CounterVec
	BuildDuration *prometheus.HistogramVec
	LiveWindows   *prometheus.GaugeVec

	// Expansion metrics
	ModulesExpanded   *prometheus.CounterVec
	HandlerCollisions *prometheus.CounterVec

	// Event metrics
	EventsDispatched *prometheus.CounterVec
	EventsDropped    *prometheus.CounterVec
	HandlerErrors    *prometheus.CounterVec

	// Lifecycle metrics
	StaleCleanups        *prometheus.CounterVec
	StorePurges          *prometheus.CounterVec
	NamespacesRegistered prometheus.Gauge

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a new metrics collector with all metrics registered.
func New() *Collector {
	return &Collector{
		// Build metrics
		BuildsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "builds_total",
				Help:      "Total number of window builds",
			},
			[]string{"namespace"},
		),
		BuildErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "build_errors_total",
				Help:      "Total number of failed window builds",
			},
			[]string{"namespace"},
		),
		BuildDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "windowkit",
				Name:      "build_duration_seconds",
				Help:      "Window build duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"namespace"},
		),
		LiveWindows: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "windowkit",
				Name:      "live_windows",
				Help:      "Number of windows currently tracked per namespace",
			},
			[]string{"namespace"},
		),

		// Expansion metrics
		ModulesExpanded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "modules_expanded_total",
				Help:      "Total number of module nodes expanded",
			},
			[]string{"namespace"},
		),
		HandlerCollisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "handler_collisions_total",
				Help:      "Total number of default handlers discarded during merge",
			},
			[]string{"namespace"},
		),

		// Event metrics
		EventsDispatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "events_dispatched_total",
				Help:      "Total number of events routed to handlers",
			},
			[]string{"namespace", "kind"},
		),
		EventsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "events_dropped_total",
				Help:      "Total number of events dropped without a handler call",
			},
			[]string{"namespace", "reason"},
		),
		HandlerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "handler_errors_total",
				Help:      "Total number of handler invocations that returned an error",
			},
			[]string{"namespace"},
		),

		// Lifecycle metrics
		StaleCleanups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "stale_cleanups_total",
				Help:      "Total number of stale window states removed",
			},
			[]string{"namespace"},
		),
		StorePurges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "store_purges_total",
				Help:      "Total number of persisted namespace purges",
			},
			[]string{"namespace"},
		),
		NamespacesRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "windowkit",
				Name:      "namespaces_registered",
				Help:      "Number of namespaces currently registered",
			},
		),

		// Config metrics
		ConfigReloads: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "windowkit",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		BuildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "builds_total",
				Help:      "Total number of window builds",
			},
			[]string{"namespace"},
		),
		BuildErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "build_errors_total",
				Help:      "Total number of failed window builds",
			},
			[]string{"namespace"},
		),
		BuildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "windowkit",
				Name:      "build_duration_seconds",
				Help:      "Window build duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"namespace"},
		),
		LiveWindows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "windowkit",
				Name:      "live_windows",
				Help:      "Number of windows currently tracked per namespace",
			},
			[]string{"namespace"},
		),
		ModulesExpanded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "modules_expanded_total",
				Help:      "Total number of module nodes expanded",
			},
			[]string{"namespace"},
		),
		HandlerCollisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "handler_collisions_total",
				Help:      "Total number of default handlers discarded during merge",
			},
			[]string{"namespace"},
		),
		EventsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "events_dispatched_total",
				Help:      "Total number of events routed to handlers",
			},
			[]string{"namespace", "kind"},
		),
		EventsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "events_dropped_total",
				Help:      "Total number of events dropped without a handler call",
			},
			[]string{"namespace", "reason"},
		),
		HandlerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "handler_errors_total",
				Help:      "Total number of handler invocations that returned an error",
			},
			[]string{"namespace"},
		),
		StaleCleanups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "stale_cleanups_total",
				Help:      "Total number of stale window states removed",
			},
			[]string{"namespace"},
		),
		StorePurges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "store_purges_total",
				Help:      "Total number of persisted namespace purges",
			},
			[]string{"namespace"},
		),
		NamespacesRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "windowkit",
				Name:      "namespaces_registered",
				Help:      "Number of namespaces currently registered",
			},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "windowkit",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "windowkit",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}
