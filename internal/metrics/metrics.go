package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the instrumentation for graph builds and breach
// simulations.
type Registry struct {
	// Graph build metrics
	GraphBuildsTotal prometheus.Counter
	GraphNodesLast   prometheus.Gauge
	GraphEdgesLast   prometheus.Gauge

	// Analyzer metrics
	AnalyzerFindingsTotal *prometheus.CounterVec

	// Orphan TRUSTS_OIDC edges: the trust target was not discovered as an
	// asset. Tolerated in the graph, but worth noticing.
	DanglingTrustEdgesTotal prometheus.Counter

	// Simulation metrics
	SimulationsTotal          prometheus.Counter
	SimulationUnknownStart    prometheus.Counter
	SimulationNodesPerRequest prometheus.Histogram
}

// NewRegistry creates a Registry registered against the given registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		GraphBuildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "surface_graph_builds_total",
			Help: "Number of attack surface graphs built",
		}),
		GraphNodesLast: factory.NewGauge(prometheus.GaugeOpts{
			Name: "surface_graph_nodes",
			Help: "Node count of the most recently built graph",
		}),
		GraphEdgesLast: factory.NewGauge(prometheus.GaugeOpts{
			Name: "surface_graph_edges",
			Help: "Edge count of the most recently built graph",
		}),
		AnalyzerFindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "surface_analyzer_findings_total",
			Help: "Findings emitted per analyzer during graph builds",
		}, []string{"analyzer"}),
		DanglingTrustEdgesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "surface_dangling_trust_edges_total",
			Help: "TRUSTS_OIDC edges whose provider node is absent from the graph",
		}),
		SimulationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "surface_breach_simulations_total",
			Help: "Number of breach simulations run",
		}),
		SimulationUnknownStart: factory.NewCounter(prometheus.CounterOpts{
			Name: "surface_breach_simulations_unknown_start_total",
			Help: "Breach simulations whose start node was absent from the graph",
		}),
		SimulationNodesPerRequest: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "surface_breach_simulation_compromised_nodes",
			Help:    "Compromised node count per breach simulation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide Registry backed by the default
// prometheus registerer.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}
