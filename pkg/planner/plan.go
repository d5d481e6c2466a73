// Package planner implements the bottom-up query-plan enumerator:
// starting from single-edge scans, it repeatedly extends the cheapest
// known plan for each covered vertex set by one more query vertex,
// consults the Catalog for the intersection cost and selectivity of
// every candidate extension, and also considers combining two smaller
// plans that share one or two vertices with a hash join once a query
// has at least four vertices. The result is the lowest-estimated-cost plan that covers
// every query vertex.
//
// Extend-step costs account for the executor's intersection caching:
// an adjacency list reached from a tuple column that repeats across
// consecutive tuples is not re-intersected, so its cost is charged per
// distinct prefix rather than per tuple.
//
// Queries of bigQueryNumVertices vertices or more switch to a pruned
// enumeration: only the cheapest few plans per level are retained, and
// extension candidates are restricted to the vertices with the most
// connections into the covered set.
package planner

import (
	"sort"
	"strings"

	"github.com/UNSW-database/graphlib/pkg/catalog"
	"github.com/UNSW-database/graphlib/pkg/querygraph"
	"github.com/google/uuid"
)

// StepKind identifies the shape of one plan step.
type StepKind int

const (
	StepScan StepKind = iota
	StepExtend
	StepHashJoin
)

// Step is one operator this plan will compile to (pkg/executor builds
// the executable tree from a Plan's Steps in order).
type Step struct {
	Kind StepKind

	// StepScan: the single query edge scanned.
	ScanEdge querygraph.Edge

	// StepExtend: the vertex being added and the ALDs used to reach it.
	ToVertex string
	ToType   int
	ALDs     []catalog.ALD

	// StepHashJoin: the complete sub-plans feeding each side of the
	// join and the shared vertices joined on. BuildSteps always names
	// the side the table is built from; ties between equally-priced
	// sides keep the first operand considered, deterministically.
	BuildSteps    []Step
	ProbeSteps    []Step
	BuildSubgraph *querygraph.Graph
	ProbeSubgraph *querygraph.Graph
	JoinVertices  []string
}

// Plan is one candidate (or the final chosen) sequence of operators,
// together with its estimated cost and cardinality.
type Plan struct {
	// ID opaquely identifies this compiled plan, for plan-cache keys and
	// EXPLAIN-style diagnostics. Generated once, when Planner.Plan
	// returns its final choice — candidate plans considered and
	// discarded during enumeration never get one.
	ID                 uuid.UUID
	Steps              []Step
	OutSubgraph        *querygraph.Graph
	EstimatedICost     float64
	EstimatedOutTuples float64

	// QVertexToNumTuples records, per query vertex, the estimated
	// output cardinality of the step that bound it.
	QVertexToNumTuples map[string]float64

	HasLimit       bool
	OutTuplesLimit int

	// lastBound is the most recently bound query vertex; extensions
	// sourced from earlier vertices can reuse cached intersections.
	lastBound string
}

func vertexSetKey(vertices []string) string {
	cp := append([]string(nil), vertices...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
