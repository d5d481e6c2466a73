package planner

import (
	"github.com/UNSW-database/graphlib/pkg/catalog"
	"github.com/UNSW-database/graphlib/pkg/querygraph"
)

// considerAllHashJoins looks, for each vertex set already reached by
// extension at level, for a cheaper plan built instead by hash-joining
// two smaller already-known plans that together cover the same vertex
// set and share one or two join vertices. The first operand considered
// is always the build side; a probe-side plan with an equal estimate
// never swaps in.
func (p *Planner) considerAllHashJoins(level int) {
	target := p.plansByLevel[level]
	for key, extendPlan := range target {
		targetVertices := extendPlan.OutSubgraph.Vertices()
		minSize := 3
		maxSize := len(targetVertices) - minSize
		if maxSize < minSize {
			maxSize = minSize
		}
		for buildSize := minSize; buildSize <= maxSize && buildSize < level; buildSize++ {
			for _, buildPlan := range p.plansByLevel[buildSize] {
				joined := p.tryHashJoin(buildPlan, targetVertices, level)
				if joined == nil {
					continue
				}
				if joined.EstimatedICost < target[key].EstimatedICost {
					target[key] = joined
				}
			}
		}
	}
}

// tryHashJoin attempts to build a hash join where buildPlan is the
// build side and the remaining target vertices, together with the join
// vertices, come from the known plan for exactly that vertex set (the
// probe side), joining on their shared vertices.
func (p *Planner) tryHashJoin(buildPlan *Plan, targetVertices []string, level int) *Plan {
	buildVertices := buildPlan.OutSubgraph.Vertices()
	buildSet := make(map[string]bool, len(buildVertices))
	for _, v := range buildVertices {
		buildSet[v] = true
	}
	for _, v := range buildVertices {
		if !contains(targetVertices, v) {
			return nil // build side must be a subset of the target vertex set
		}
	}

	var otherVertices []string
	for _, v := range targetVertices {
		if !buildSet[v] {
			otherVertices = append(otherVertices, v)
		}
	}
	if len(otherVertices) < 2 {
		return nil
	}

	joinVerts := joinVertices(buildVertices, otherVertices, p.Query)
	if len(joinVerts) < 1 || len(joinVerts) > 2 || len(otherVertices)+len(joinVerts) > level-1 {
		return nil
	}

	probeVertices := append(append([]string(nil), otherVertices...), joinVerts...)
	probeSize := len(probeVertices)
	probePlan, ok := p.plansByLevel[probeSize][vertexSetKey(probeVertices)]
	if !ok {
		return nil
	}

	coef := joinCoefFor(len(joinVerts))
	cost := buildPlan.EstimatedICost + probePlan.EstimatedICost +
		coef.build*buildPlan.EstimatedOutTuples + coef.probe*probePlan.EstimatedOutTuples

	outSubgraph := buildPlan.OutSubgraph.Clone()
	for _, e := range probePlan.OutSubgraph.Edges() {
		outSubgraph.AddEdge(e.From, e.To, e.Label, e.FromType, e.ToType)
	}

	qVertexToNumTuples := make(map[string]float64, len(buildPlan.QVertexToNumTuples)+len(probePlan.QVertexToNumTuples))
	for k, v := range buildPlan.QVertexToNumTuples {
		qVertexToNumTuples[k] = v
	}
	for k, v := range probePlan.QVertexToNumTuples {
		qVertexToNumTuples[k] = v
	}

	steps := []Step{{
		Kind:          StepHashJoin,
		BuildSteps:    buildPlan.Steps,
		ProbeSteps:    probePlan.Steps,
		BuildSubgraph: buildPlan.OutSubgraph,
		ProbeSubgraph: probePlan.OutSubgraph,
		JoinVertices:  joinVerts,
	}}

	return &Plan{
		Steps:              steps,
		OutSubgraph:        outSubgraph,
		EstimatedICost:     cost,
		EstimatedOutTuples: buildPlan.EstimatedOutTuples * probePlan.EstimatedOutTuples,
		QVertexToNumTuples: qVertexToNumTuples,
		lastBound:          probePlan.lastBound,
	}
}

type joinCoef struct{ build, probe float64 }

// joinCoefFor returns the hash-join cost coefficients for a join on
// numJoinVertices shared vertices. Building the table is weighted
// heavier than probing it; both weights grow steeply for two-vertex
// joins.
func joinCoefFor(numJoinVertices int) joinCoef {
	if numJoinVertices <= 1 {
		return joinCoef{build: catalog.SingleVertexWeightBuildCoef, probe: catalog.SingleVertexWeightProbeCoef}
	}
	return joinCoef{build: catalog.MultiVertexWeightBuildCoef, probe: catalog.MultiVertexWeightProbeCoef}
}

func contains(vs []string, v string) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

// joinVertices returns the query vertices in buildVertices that have an
// edge to some vertex in otherVertices (the vertices the hash join
// actually joins on).
func joinVertices(buildVertices, otherVertices []string, query *querygraph.Graph) []string {
	var out []string
	for _, bv := range buildVertices {
		for _, ov := range otherVertices {
			if len(query.EdgesBetween(bv, ov)) > 0 {
				out = append(out, bv)
				break
			}
		}
	}
	return out
}
