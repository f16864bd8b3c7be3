package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "abacus"

// Calculation status label values besides lower-cased calc error codes.
const (
	statusOK    = "ok"
	statusError = "error"
)

// unknownOperationLabel keeps unresolved names out of the label space.
const unknownOperationLabel = "_unknown"

// metrics holds the engine's collectors on a private registry so several
// engines can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	calculations *prometheus.CounterVec
	pluginUnits  *prometheus.CounterVec
	operations   prometheus.Gauge
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()

	calculations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calculations_total",
			Help:      "Total number of calculations by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	pluginUnits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "plugin_units_total",
			Help:      "Total number of plugin units processed by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	operations := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "operations_registered",
			Help:      "Number of operations currently registered",
		},
	)

	registry.MustRegister(calculations, pluginUnits, operations)

	return &metrics{
		registry:     registry,
		calculations: calculations,
		pluginUnits:  pluginUnits,
		operations:   operations,
	}
}
