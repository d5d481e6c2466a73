// Subgraph-mapping enumeration. The Catalog's GetICost/GetSelectivity
// both need, for a (usually larger) query graph "g" and a (usually
// smaller) previously-sampled "sample", every injective,
// edge-and-label-preserving way to embed sample's vertices into g. The
// returned mapping is indexed by g's vertex names, so that callers can
// ask "is this vertex of g covered, and if so what was its name at
// sampling time" in one lookup, exactly as the catalog keys its
// sampled cost tables by the sample's own vertex names.
package querygraph

// SubgraphMappings enumerates every injective mapping f: V(sample) ->
// V(g) such that for every edge (u, v, label, ...) in sample there is an
// edge (f(u), f(v)) in g with the same label and direction. Each
// returned map is keyed by g's vertex name (the image) and valued by
// sample's vertex name (the preimage) — so len(mapping) ==
// sample.NumVertices() for every result, and a vertex of g is "matched"
// iff it appears as a key.
//
// Sample graphs are tiny (the catalog's default caps them at 3
// vertices) so a straightforward backtracking search, re-checking all
// constraints at each step, is fast enough and keeps the algorithm easy
// to reason about.
func SubgraphMappings(g, sample *Graph) []map[string]string {
	sampleVertices := sample.Vertices()
	gVertices := g.Vertices()
	if len(sampleVertices) > len(gVertices) {
		return nil
	}

	var results []map[string]string
	usedG := make(map[string]bool, len(sampleVertices))
	assignment := make(map[string]string, len(sampleVertices)) // sample vertex -> g vertex

	var backtrack func(i int)
	backtrack = func(i int) {
		if i == len(sampleVertices) {
			mapping := make(map[string]string, len(sampleVertices))
			for sv, gv := range assignment {
				mapping[gv] = sv
			}
			results = append(results, mapping)
			return
		}
		sv := sampleVertices[i]
		for _, gv := range gVertices {
			if usedG[gv] {
				continue
			}
			if !edgesConsistent(g, sample, assignment, sv, gv) {
				continue
			}
			usedG[gv] = true
			assignment[sv] = gv
			backtrack(i + 1)
			delete(assignment, sv)
			usedG[gv] = false
		}
	}
	backtrack(0)
	return results
}

// edgesConsistent checks that assigning sample vertex sv to g vertex gv
// is compatible with every edge already placed between sv and a
// previously-assigned sample vertex.
func edgesConsistent(g, sample *Graph, assignment map[string]string, sv, gv string) bool {
	for otherSV, otherGV := range assignment {
		sampleEdges := sample.EdgesBetween(sv, otherSV)
		if len(sampleEdges) == 0 {
			continue
		}
		gEdges := g.EdgesBetween(gv, otherGV)
		for _, se := range sampleEdges {
			if !hasMatchingEdge(gEdges, se, sv, otherSV, gv, otherGV) {
				return false
			}
		}
	}
	return true
}

// hasMatchingEdge reports whether gEdges contains an edge with the same
// label and the same direction (relative to gv/otherGV) as se has
// (relative to sv/otherSV).
func hasMatchingEdge(gEdges []Edge, se Edge, sv, otherSV, gv, otherGV string) bool {
	seForward := se.From == sv // sv -> otherSV
	for _, ge := range gEdges {
		geForward := ge.From == gv // gv -> otherGV
		if geForward == seForward && ge.Label == se.Label {
			return true
		}
	}
	return false
}

// BestMatch returns the mapping in mappings that matches the most ALD
// source vertices from covered, breaking ties by preferring the lowest
// index (deterministic, stable order). Catalog.GetICost and
// Catalog.GetSelectivity make their own selection and do not call it.
func BestMatch(mappings []map[string]string, covered func(mapping map[string]string) int) (map[string]string, int) {
	bestIdx := -1
	bestScore := -1
	for i, m := range mappings {
		score := covered(m)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, 0
	}
	return mappings[bestIdx], bestScore
}
