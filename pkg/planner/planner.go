package planner

import (
	"sort"

	"github.com/UNSW-database/graphlib/pkg/catalog"
	"github.com/UNSW-database/graphlib/pkg/querygraph"
	"github.com/google/uuid"
)

// bigQueryNumVertices is the query size at which enumeration switches
// to pruned (top-k per level) mode.
const bigQueryNumVertices = 15

// Planner enumerates candidate plans for one query graph against one
// catalog, bottom-up by covered-vertex-set size.
type Planner struct {
	Query   *querygraph.Graph
	Catalog *catalog.Catalog

	numQVertices int
	hasLimit     bool
	limit        int

	// plansByLevel[k][key] is the best plan found so far covering
	// exactly the vertex set named by key, with k vertices.
	plansByLevel map[int]map[string]*Plan
}

// New returns a Planner for query against cat. limit <= 0 means no
// output-tuple limit.
func New(query *querygraph.Graph, cat *catalog.Catalog, limit int) *Planner {
	return &Planner{
		Query:        query,
		Catalog:      cat,
		numQVertices: query.NumVertices(),
		hasLimit:     limit > 0,
		limit:        limit,
		plansByLevel: make(map[int]map[string]*Plan),
	}
}

// numTopPlansKept returns how many plans survive each level: unlimited
// for small queries, then 5, 3, or 1 as the query grows.
func (p *Planner) numTopPlansKept() int {
	switch {
	case p.numQVertices < bigQueryNumVertices:
		return 0 // unlimited
	case p.numQVertices < 20:
		return 5
	case p.numQVertices < 25:
		return 3
	default:
		return 1
	}
}

// Plan runs the full enumeration and returns the lowest-cost plan
// covering every query vertex.
func (p *Planner) Plan() *Plan {
	var best *Plan
	if p.numQVertices <= 2 {
		best = p.planSingleEdgeScan()
	} else {
		p.considerAllScans()
		for level := 3; level <= p.numQVertices; level++ {
			p.considerAllExtensions(level)
			if !p.hasLimit && p.numQVertices >= 4 && level >= 4 {
				p.considerAllHashJoins(level)
			}
			p.pruneLevel(level)
		}
		best = p.bestAtLevel(p.numQVertices)
	}

	if best == nil {
		return nil
	}
	best.ID = uuid.New()
	if p.hasLimit {
		best.HasLimit = true
		best.OutTuplesLimit = p.limit
	}
	return best
}

func (p *Planner) scanPlan(e querygraph.Edge) *Plan {
	out := querygraph.New()
	out.AddEdge(e.From, e.To, e.Label, e.FromType, e.ToType)
	numEdges := p.Catalog.NumEdges(e.Label)
	return &Plan{
		Steps:              []Step{{Kind: StepScan, ScanEdge: e}},
		OutSubgraph:        out,
		EstimatedOutTuples: numEdges,
		QVertexToNumTuples: map[string]float64{e.From: numEdges, e.To: numEdges},
		lastBound:          e.To,
	}
}

func (p *Planner) planSingleEdgeScan() *Plan {
	edges := p.Query.Edges()
	if len(edges) == 0 {
		return &Plan{OutSubgraph: querygraph.New()}
	}
	return p.scanPlan(edges[0])
}

// considerAllScans seeds level 2 with one scan plan per query edge.
func (p *Planner) considerAllScans() {
	level := make(map[string]*Plan)
	for _, e := range p.Query.Edges() {
		plan := p.scanPlan(e)
		key := vertexSetKey(plan.OutSubgraph.Vertices())
		if existing, ok := level[key]; !ok || plan.EstimatedICost < existing.EstimatedICost {
			level[key] = plan
		}
	}
	p.plansByLevel[2] = level
}

// considerAllExtensions builds level from the best plans at level-1,
// extending each by every candidate query vertex adjacent to its
// covered set.
func (p *Planner) considerAllExtensions(level int) {
	next := p.plansByLevel[level]
	if next == nil {
		next = make(map[string]*Plan)
		p.plansByLevel[level] = next
	}
	prevLevel := p.plansByLevel[level-1]
	for _, prevPlan := range prevLevel {
		for _, toVertex := range p.extensionCandidates(prevPlan.OutSubgraph) {
			extended := p.extend(prevPlan, toVertex)
			if extended == nil {
				continue
			}
			key := vertexSetKey(extended.OutSubgraph.Vertices())
			if existing, ok := next[key]; !ok || extended.EstimatedICost < existing.EstimatedICost {
				next[key] = extended
			}
		}
	}
}

// extensionCandidates returns the query vertices adjacent to sub but
// not part of it. In big-query mode only the vertices with the maximum
// number of edges into sub are kept, shrinking the branching factor.
func (p *Planner) extensionCandidates(sub *querygraph.Graph) []string {
	in := make(map[string]bool)
	for _, v := range sub.Vertices() {
		in[v] = true
	}
	connecting := make(map[string]int)
	var out []string
	for _, v := range sub.Vertices() {
		for _, n := range p.Query.Neighbors(v) {
			if in[n] {
				continue
			}
			if connecting[n] == 0 {
				out = append(out, n)
			}
			connecting[n] += len(p.Query.EdgesBetween(v, n))
		}
	}
	if p.numQVertices < bigQueryNumVertices {
		return out
	}
	maxConnecting := 0
	for _, n := range out {
		if connecting[n] > maxConnecting {
			maxConnecting = connecting[n]
		}
	}
	filtered := out[:0]
	for _, n := range out {
		if connecting[n] == maxConnecting {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// extend returns the plan obtained by adding toVertex to prev via every
// query edge directly connecting toVertex to a vertex already in
// prev.OutSubgraph (the ALD set for this extend step).
func (p *Planner) extend(prev *Plan, toVertex string) *Plan {
	var alds []catalog.ALD
	out := prev.OutSubgraph.Clone()
	for _, fromVertex := range prev.OutSubgraph.Vertices() {
		for _, e := range p.Query.EdgesBetween(fromVertex, toVertex) {
			dir := catalog.Fwd
			if e.To == fromVertex {
				dir = catalog.Bwd
			}
			alds = append(alds, catalog.ALD{
				FromQueryVertex: fromVertex,
				ToQueryVertex:   toVertex,
				Direction:       dir,
				Label:           e.Label,
			})
			out.AddEdge(e.From, e.To, e.Label, e.FromType, e.ToType)
		}
	}
	if len(alds) == 0 {
		return nil
	}

	toType := p.Query.VertexType(toVertex)
	selectivity := p.Catalog.GetSelectivity(prev.OutSubgraph, alds, toType)
	icost := p.extendICost(prev, alds, toType, selectivity)

	qVertexToNumTuples := make(map[string]float64, len(prev.QVertexToNumTuples)+1)
	for k, v := range prev.QVertexToNumTuples {
		qVertexToNumTuples[k] = v
	}
	estimatedOutTuples := prev.EstimatedOutTuples * selectivity
	qVertexToNumTuples[toVertex] = estimatedOutTuples

	steps := make([]Step, len(prev.Steps), len(prev.Steps)+1)
	copy(steps, prev.Steps)
	steps = append(steps, Step{Kind: StepExtend, ToVertex: toVertex, ToType: toType, ALDs: alds})

	return &Plan{
		Steps:              steps,
		OutSubgraph:        out,
		EstimatedICost:     prev.EstimatedICost + icost,
		EstimatedOutTuples: estimatedOutTuples,
		QVertexToNumTuples: qVertexToNumTuples,
		lastBound:          toVertex,
	}
}

// extendICost prices one extend step against the executor's
// intersection caching. ALDs sourced from vertices bound before
// prev.lastBound keep their intersection result across every tuple
// sharing a prefix, so they are charged once per distinct prefix
// (outToProcess) instead of once per tuple; ALDs sourced from the
// most recently bound vertex see a fresh value on every tuple and pay
// full rate. Reusing a cached intersection still pays the output-sized
// copy, the (prevOut - outToProcess) * selectivity term.
func (p *Planner) extendICost(prev *Plan, alds []catalog.ALD, toType int, selectivity float64) float64 {
	prevOut := prev.EstimatedOutTuples

	var cached, fresh []catalog.ALD
	for _, a := range alds {
		if prev.lastBound != "" && a.FromQueryVertex != prev.lastBound {
			cached = append(cached, a)
		} else {
			fresh = append(fresh, a)
		}
	}

	outToProcess := prevOut
	if n := prev.QVertexToNumTuples[prev.lastBound]; n > 0 {
		outToProcess = prevOut / n
	}

	switch {
	case len(cached) == 0:
		return prevOut * p.Catalog.GetICost(prev.OutSubgraph, alds, toType)
	case len(fresh) == 0:
		return outToProcess*p.Catalog.GetICost(prev.OutSubgraph, alds, toType) +
			(prevOut-outToProcess)*selectivity
	default:
		return prevOut*p.Catalog.GetICost(prev.OutSubgraph, fresh, toType) +
			outToProcess*p.Catalog.GetICost(prev.OutSubgraph, cached, toType) +
			(prevOut-outToProcess)*selectivity
	}
}

// pruneLevel retains only the cheapest numTopPlansKept plans at level
// (all of them for small queries).
func (p *Planner) pruneLevel(level int) {
	k := p.numTopPlansKept()
	plans := p.plansByLevel[level]
	if k == 0 || len(plans) <= k {
		return
	}
	type entry struct {
		key  string
		plan *Plan
	}
	entries := make([]entry, 0, len(plans))
	for key, plan := range plans {
		entries = append(entries, entry{key, plan})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].plan.EstimatedICost != entries[j].plan.EstimatedICost {
			return entries[i].plan.EstimatedICost < entries[j].plan.EstimatedICost
		}
		return entries[i].key < entries[j].key
	})
	kept := make(map[string]*Plan, k)
	for _, e := range entries[:k] {
		kept[e.key] = e.plan
	}
	p.plansByLevel[level] = kept
}

// bestAtLevel returns the cheapest plan among every vertex-set at
// level, or nil if level has no plans.
func (p *Planner) bestAtLevel(level int) *Plan {
	var best *Plan
	for _, plan := range p.plansByLevel[level] {
		if best == nil || plan.EstimatedICost < best.EstimatedICost {
			best = plan
		}
	}
	return best
}
