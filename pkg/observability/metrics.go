package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import results used as the "result" label.
const (
	ImportOK     = "ok"
	ImportFailed = "error"
)

// Metrics holds the editor collectors on a private registry, so several
// editors (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	mutations        *prometheus.CounterVec
	imports          *prometheus.CounterVec
	nodes            prometheus.Gauge
	edges            prometheus.Gauge
	validationErrors prometheus.Gauge
}

// NewMetrics creates and registers the editor collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcraft_mutations_total",
				Help: "Total number of graph mutations by operation",
			},
			[]string{"op"},
		),
		imports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcraft_imports_total",
				Help: "Total number of document imports by result",
			},
			[]string{"result"},
		),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowcraft_nodes",
			Help: "Number of nodes in the flow",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowcraft_edges",
			Help: "Number of edges in the flow",
		}),
		validationErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flowcraft_validation_errors",
			Help: "Number of validation errors in the current flow",
		}),
	}
	m.registry.MustRegister(m.mutations, m.imports, m.nodes, m.edges, m.validationErrors)
	return m
}

// ObserveMutation counts one mutation of the given kind (e.g. "node_added").
func (m *Metrics) ObserveMutation(op string) {
	m.mutations.WithLabelValues(op).Inc()
}

// ObserveImport counts one import attempt.
func (m *Metrics) ObserveImport(err error) {
	result := ImportOK
	if err != nil {
		result = ImportFailed
	}
	m.imports.WithLabelValues(result).Inc()
}

// SetGraph records the current graph size and validation error count.
func (m *Metrics) SetGraph(nodes, edges, validationErrors int) {
	m.nodes.Set(float64(nodes))
	m.edges.Set(float64(edges))
	m.validationErrors.Set(float64(validationErrors))
}

// Registry exposes the underlying registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
