package catalog

import (
	"strconv"

	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/querygraph"
)

// Sample populates the catalog from a real graph: NumSampledEdge seed
// edges (a, b) are drawn from g (in node-id order, deterministic), and
// for each the one- and two-ALD extensions of "b" are measured
// directly against g's adjacency lists. The one-ALD extension records
// b's neighbor count as icost and the output/input tuple ratio as
// selectivity; the two-ALD extension (from a and b) records the real
// intersection-comparison count (pkg/csr.Intersect's own comparison
// counter) as icost.
//
// Sample walks the same adjacency lists a Scan->Extend->Sink operator
// tree would have scanned for these two shapes, without paying for the
// tree's bookkeeping, since this sampling pass runs ahead of any
// compiled plan.
func (c *Catalog) Sample(g graph.Trait) {
	c.InSubgraphs = nil
	c.SampledICost = make(map[int]map[string]float64)
	c.SampledSelectivity = make(map[int]map[string]float64)
	c.ZeroSelectivity = make(map[string]bool)
	c.NumEdgesByLabel = make(map[ids.LabelID]float64)
	c.IsSortedByNode = false

	// Per-label edge counts back the planner's scan-cardinality
	// estimate; each edge counts once regardless of direction.
	for _, e := range g.EdgeIndices() {
		label, _ := g.GetEdgeLabelID(e[0], e[1])
		c.NumEdgesByLabel[label]++
		if ids.HasLabel(label) {
			c.NumEdgesByLabel[ids.NoneLabel]++
		}
	}

	type edgeIdx struct {
		icostSum, icostN float64
		label2icostSum   map[ids.LabelID]float64
		label2icostN     map[ids.LabelID]float64
		label2selSum     map[ids.LabelID]float64
	}

	// single-edge ("a-[L]->b") subgraph per distinct edge label seen.
	singleEdgeIdx := make(map[ids.LabelID]int)
	stats := make(map[ids.LabelID]*edgeIdx)

	seeds := 0
	nodes := g.NodeIndices()
	for _, a := range nodes {
		if seeds >= c.NumSampledEdge {
			break
		}
		for _, b := range g.Neighbors(a) {
			if seeds >= c.NumSampledEdge {
				break
			}
			label, _ := g.GetEdgeLabelID(a, b)
			idx, ok := singleEdgeIdx[label]
			if !ok {
				sample := querygraph.New()
				sample.AddEdge("a", "b", label, 0, 0)
				idx = c.AddInSubgraph(sample)
				singleEdgeIdx[label] = idx
				stats[label] = &edgeIdx{
					label2icostSum: make(map[ids.LabelID]float64),
					label2icostN:   make(map[ids.LabelID]float64),
					label2selSum:   make(map[ids.LabelID]float64),
				}
			}
			st := stats[label]

			bNeighbors := g.Neighbors(b)
			countByLabel := make(map[ids.LabelID]int, len(bNeighbors))
			for _, c2 := range bNeighbors {
				l2, _ := g.GetEdgeLabelID(b, c2)
				countByLabel[l2]++
			}
			for l2, count := range countByLabel {
				st.label2icostSum[l2] += float64(len(bNeighbors))
				st.label2icostN[l2]++
				st.label2selSum[l2] += float64(count)
			}

			aNeighbors := g.Neighbors(a)
			_, comparisons := csr.Intersect(sortedCopy(aNeighbors), sortedCopy(bNeighbors), make([]ids.NodeID, min(len(aNeighbors), len(bNeighbors))))
			st.icostSum += float64(comparisons)
			st.icostN++

			seeds++
		}
	}

	for label, idx := range singleEdgeIdx {
		st := stats[label]
		for l2, n := range st.label2icostN {
			avgICost := st.label2icostSum[l2] / n
			avgSel := st.label2selSum[l2] / n
			key := aldKey("b", ALD{FromQueryVertex: "b", Direction: Fwd, Label: l2})
			c.RecordICost(idx, key, avgICost)
			c.RecordSelectivity(idx, key+"~"+strconv.Itoa(0), avgSel)
			if avgSel == 0 {
				c.MarkZeroSelectivity(key)
			}
		}
		if st.icostN > 0 {
			tripleSample := querygraph.New()
			tripleSample.AddEdge("a", "b", label, 0, 0)
			tripleSample.AddEdge("b", "c", label, 0, 0)
			tIdx := c.AddInSubgraph(tripleSample)
			multiKey := aldsAsKey(
				[]ALD{{FromQueryVertex: "a", Direction: Fwd, Label: label}, {FromQueryVertex: "b", Direction: Fwd, Label: label}},
				nil, 0, false,
			)
			c.RecordICost(tIdx, multiKey, st.icostSum/st.icostN)
		}
	}
}

// SampleSortedByNode populates the catalog in its type-partitioned
// mode: per-extension measurements are bucketed by the target vertex's
// node type and recorded in the selectivity table under "~type" keys,
// which GetICost also consults in this mode. The two sampling modes
// are mutually exclusive per catalog instance; running either resets
// the other's tables.
func (c *Catalog) SampleSortedByNode(g graph.Trait) {
	c.InSubgraphs = nil
	c.SampledICost = make(map[int]map[string]float64)
	c.SampledSelectivity = make(map[int]map[string]float64)
	c.ZeroSelectivity = make(map[string]bool)
	c.NumEdgesByLabel = make(map[ids.LabelID]float64)
	c.IsSortedByNode = true

	for _, e := range g.EdgeIndices() {
		label, _ := g.GetEdgeLabelID(e[0], e[1])
		c.NumEdgesByLabel[label]++
		if ids.HasLabel(label) {
			c.NumEdgesByLabel[ids.NoneLabel]++
		}
	}

	type typedStats struct {
		costSum map[string]float64
		costN   map[string]float64
	}
	singleEdgeIdx := make(map[ids.LabelID]int)
	stats := make(map[ids.LabelID]*typedStats)

	seeds := 0
	for _, a := range g.NodeIndices() {
		if seeds >= c.NumSampledEdge {
			break
		}
		for _, b := range g.Neighbors(a) {
			if seeds >= c.NumSampledEdge {
				break
			}
			label, _ := g.GetEdgeLabelID(a, b)
			idx, ok := singleEdgeIdx[label]
			if !ok {
				sample := querygraph.New()
				sample.AddEdge("a", "b", label, 0, 0)
				idx = c.AddInSubgraph(sample)
				singleEdgeIdx[label] = idx
				stats[label] = &typedStats{
					costSum: make(map[string]float64),
					costN:   make(map[string]float64),
				}
			}
			st := stats[label]

			bNeighbors := g.Neighbors(b)
			countByKey := make(map[string]int)
			for _, c2 := range bNeighbors {
				l2, _ := g.GetEdgeLabelID(b, c2)
				toType := 0
				if t, ok := g.GetNodeLabelID(c2); ok {
					toType = int(t)
				}
				key := aldKey("b", ALD{FromQueryVertex: "b", Direction: Fwd, Label: l2}) +
					"~" + strconv.Itoa(toType)
				countByKey[key]++
			}
			for key, count := range countByKey {
				st.costSum[key] += float64(count)
				st.costN[key]++
			}
			seeds++
		}
	}

	for label, idx := range singleEdgeIdx {
		st := stats[label]
		for key, n := range st.costN {
			c.RecordSelectivity(idx, key, st.costSum[key]/n)
		}
	}
}

func sortedCopy(ns []ids.NodeID) []ids.NodeID {
	out := append([]ids.NodeID(nil), ns...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
