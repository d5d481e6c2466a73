// Package catalog implements the Catalog: a table of intersection-cost
// and selectivity estimates sampled from a graph, keyed by small
// canonical query-graph shapes, that the Planner consults instead of
// touching the real graph during plan enumeration.
package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/querygraph"
)

// Hash-join cost model coefficients. The Planner multiplies a
// candidate join's estimated cardinality by these to compare a
// hash-join plan against an extend-only one.
const (
	SingleVertexWeightProbeCoef = 3.0
	SingleVertexWeightBuildCoef = 12.0
	MultiVertexWeightProbeCoef  = 12.0
	MultiVertexWeightBuildCoef  = 720.0
)

// Catalog holds, per sampled input-subgraph shape, the intersection
// costs and selectivities observed for every ALD set that was sampled
// extending it.
type Catalog struct {
	InSubgraphs []*querygraph.Graph

	// Keyed by index into InSubgraphs, then by a canonical ALD-set key
	// (see aldsKey). In IsSortedByNode mode SampledSelectivity doubles
	// as the icost table too: sorted-by-node intersection cost and
	// post-extend selectivity are counted by the same sampling pass, so
	// icost samples are stored under the selectivity map's "~toType"
	// keys instead of a separate table.
	SampledICost       map[int]map[string]float64
	SampledSelectivity map[int]map[string]float64

	// Extensions sampled with zero output tuples — the Planner treats
	// these as a free, maximally selective shortcut rather than
	// consulting the (nonexistent) cost tables for them.
	ZeroSelectivity map[string]bool

	// NumEdgesByLabel counts the graph's edges per edge label (each
	// undirected edge once), for scan-cardinality estimates.
	NumEdgesByLabel map[ids.LabelID]float64

	IsSortedByNode      bool
	NumSampledEdge      int
	MaxInputNumVertices int
}

// New returns an empty Catalog, ready to be populated by Sample or by
// direct RecordICost/RecordSelectivity calls (e.g. when loading a
// previously-sampled catalog back from storage).
func New(numSampledEdge, maxInputNumVertices int) *Catalog {
	return &Catalog{
		SampledICost:        make(map[int]map[string]float64),
		SampledSelectivity:  make(map[int]map[string]float64),
		ZeroSelectivity:     make(map[string]bool),
		NumEdgesByLabel:     make(map[ids.LabelID]float64),
		NumSampledEdge:      numSampledEdge,
		MaxInputNumVertices: maxInputNumVertices,
	}
}

// AddInSubgraph registers a sampled query-graph shape and returns its
// index, the key used by every Record*/Get* call below.
func (c *Catalog) AddInSubgraph(g *querygraph.Graph) int {
	c.InSubgraphs = append(c.InSubgraphs, g)
	return len(c.InSubgraphs) - 1
}

// RecordICost stores a sampled intersection cost for one ALD-set key
// extending the subgraph at idx.
func (c *Catalog) RecordICost(idx int, aldsKey string, cost float64) {
	if c.SampledICost[idx] == nil {
		c.SampledICost[idx] = make(map[string]float64)
	}
	c.SampledICost[idx][aldsKey] = cost
}

// RecordSelectivity stores a sampled selectivity for one ALD-set key
// extending the subgraph at idx.
func (c *Catalog) RecordSelectivity(idx int, key string, selectivity float64) {
	if c.SampledSelectivity[idx] == nil {
		c.SampledSelectivity[idx] = make(map[string]float64)
	}
	c.SampledSelectivity[idx][key] = selectivity
}

// MarkZeroSelectivity records that extending by this exact ALD-set key
// produced no output tuples whenever it was sampled.
func (c *Catalog) MarkZeroSelectivity(key string) { c.ZeroSelectivity[key] = true }

// NumEdges returns the number of graph edges carrying label, or the
// total edge count for ids.NoneLabel when no label was recorded under
// it. Zero if Sample has not run.
func (c *Catalog) NumEdges(label ids.LabelID) float64 {
	return c.NumEdgesByLabel[label]
}

// aldKey returns the canonical key for a single ALD, naming the
// sampled-graph vertex it extends from (fromVertex, which may be the
// ALD's own FromQueryVertex at sampling time, or a query vertex's image
// under a subgraph mapping when looked up later).
func aldKey(fromVertex string, a ALD) string {
	return querygraph.Key(fromVertex, a.Direction == Fwd, a.Label)
}

// aldsAsKey builds the canonical, order-independent key for a set of
// ALDs. When mapping is non-nil, only ALDs whose FromQueryVertex is a
// key of mapping are included, and fromVertex is rewritten through
// mapping (query vertex name -> sampled vertex name); when mapping is
// nil every ALD is included, keyed by its own FromQueryVertex (the
// sampling-time form). withType appends "~<toType>", the suffix
// IsSortedByNode mode uses to distinguish the same ALD set extending
// into different target vertex types.
func aldsAsKey(alds []ALD, mapping map[string]string, toType int, withType bool) string {
	keys := make([]string, 0, len(alds))
	for _, a := range alds {
		fromVertex := a.FromQueryVertex
		if mapping != nil {
			mapped, ok := mapping[a.FromQueryVertex]
			if !ok {
				continue
			}
			fromVertex = mapped
		}
		keys = append(keys, aldKey(fromVertex, a))
	}
	sort.Strings(keys)
	key := strings.Join(keys, ", ")
	if withType {
		key += "~" + strconv.Itoa(toType)
	}
	return key
}

// numALDsMatched counts the ALDs whose FromQueryVertex is present (and
// mapped to a non-empty vertex name) in mapping.
func numALDsMatched(alds []ALD, mapping map[string]string) int {
	n := 0
	for _, a := range alds {
		if v, ok := mapping[a.FromQueryVertex]; ok && v != "" {
			n++
		}
	}
	return n
}

// GetICost estimates the intersection cost of extending query by alds
// (a single ALD set, all sharing one target vertex of type toType). It
// finds the largest sampled subgraph shape that embeds into query and
// covers at least one of the ALDs' source vertices, and returns the
// sum over alds of the best (lowest) matching sampled cost found.
func (c *Catalog) GetICost(query *querygraph.Graph, alds []ALD, toType int) float64 {
	approxICost := 0.0
	for _, ald := range alds {
		minICost := math.MaxFloat64
		for numVertices := c.MaxInputNumVertices; numVertices >= 2; numVertices-- {
			numEdgesMatched := 0
			for idx, sub := range c.InSubgraphs {
				if sub.NumVertices() != numVertices {
					continue
				}
				newNumEdgesMatched := len(sub.Edges())
				if newNumEdgesMatched < numEdgesMatched {
					continue
				}
				for _, mapping := range querygraph.SubgraphMappings(query, sub) {
					sampleVertex, ok := mapping[ald.FromQueryVertex]
					if !ok {
						continue
					}
					key := aldKey(sampleVertex, ald)
					if c.IsSortedByNode {
						key += "~" + strconv.Itoa(toType)
					}
					table := c.SampledICost[idx]
					if c.IsSortedByNode {
						table = c.SampledSelectivity[idx]
					}
					sampled, ok := table[key]
					if !ok {
						continue
					}
					if newNumEdgesMatched > numEdgesMatched || minICost > sampled {
						minICost = sampled
						numEdgesMatched = newNumEdgesMatched
					}
				}
			}
			if minICost < math.MaxFloat64 {
				break
			}
		}
		approxICost += minICost
	}
	return approxICost
}

// GetSelectivity estimates the selectivity of extending inSubgraph by
// alds (all sharing one target vertex of type toType), scanning every
// sampled shape from MaxInputNumVertices down to 2 vertices and
// keeping the lowest (most conservative) sampled selectivity found
// among mappings that cover the most ALDs. Extensions sampled to
// produce zero outputs short-circuit to 0 without a table scan.
func (c *Catalog) GetSelectivity(inSubgraph *querygraph.Graph, alds []ALD, toType int) float64 {
	approxSelectivity := math.MaxFloat64
	for numVertices := c.MaxInputNumVertices; numVertices >= 2; numVertices-- {
		numALDsMatchedBest := 0
		for idx, sub := range c.InSubgraphs {
			if sub.NumVertices() != numVertices {
				continue
			}
			for _, mapping := range querygraph.SubgraphMappings(inSubgraph, sub) {
				matched := numALDsMatched(alds, mapping)
				if matched == 0 || matched < numALDsMatchedBest {
					continue
				}
				if c.ZeroSelectivity[aldsAsKey(alds, mapping, toType, false)] {
					return 0
				}
				key := aldsAsKey(alds, mapping, toType, true)
				sampled, ok := c.SampledSelectivity[idx][key]
				if !ok {
					continue
				}
				if matched > numALDsMatchedBest || sampled < approxSelectivity {
					numALDsMatchedBest = matched
					approxSelectivity = sampled
				}
			}
		}
	}
	return approxSelectivity
}
