// Package breachsim walks the built attack surface graph to show the
// blast radius of a single compromised node.
package breachsim

import (
	"sort"
	"time"

	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/domain"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/logging"
	"github.com/IlyasAlla/Cloud-Attack-Surface-Detector/internal/metrics"
)

// Result is the outcome of one simulated breach: every node reachable
// from the entry point and every edge the traversal crossed. Both lists
// are sorted so identical graphs produce identical results.
type Result struct {
	CompromisedNodes []string `json:"compromised_nodes"`
	TraversedEdges   []string `json:"traversed_edges"`
}

// Simulator runs breach simulations over serialized graph elements.
type Simulator struct {
	metrics *metrics.Registry
}

// NewSimulator creates a Simulator. A nil registry falls back to the
// process-wide one.
func NewSimulator(reg *metrics.Registry) *Simulator {
	if reg == nil {
		reg = metrics.Default()
	}
	return &Simulator{metrics: reg}
}

// Simulate floods outward from startID along directed edges and reports
// the compromised set. An edge into an already compromised node still
// counts as traversed; an attacker would cross it. A start node the
// graph does not contain compromises only itself.
func (s *Simulator) Simulate(elements []domain.Element, startID string) Result {
	start := time.Now()
	s.metrics.SimulationsTotal.Inc()

	nodes := make(map[string]bool)
	// adjacency holds outgoing edges per source node.
	adjacency := make(map[string][]domain.Element)
	for _, el := range elements {
		switch {
		case el.IsEdge():
			adjacency[el.Data.Source] = append(adjacency[el.Data.Source], el)
		case el.IsNode():
			nodes[el.Data.ID] = true
		}
	}

	if !nodes[startID] {
		s.metrics.SimulationUnknownStart.Inc()
		logging.LogWarn("Simulation start node not in graph", map[string]any{
			"resource": startID,
		})
		return Result{
			CompromisedNodes: []string{startID},
			TraversedEdges:   []string{},
		}
	}

	visited := map[string]bool{startID: true}
	traversed := make(map[string]bool)
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range adjacency[current] {
			traversed[edge.Data.ID] = true
			if !visited[edge.Data.Target] {
				visited[edge.Data.Target] = true
				queue = append(queue, edge.Data.Target)
			}
		}
	}

	result := Result{
		CompromisedNodes: sortedKeys(visited),
		TraversedEdges:   sortedKeys(traversed),
	}

	s.metrics.SimulationNodesPerRequest.Observe(float64(len(result.CompromisedNodes)))
	logging.LogOperationEnd("breach_simulation", time.Since(start), len(elements), len(result.CompromisedNodes))
	return result
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
