// Package querygraph implements the Query Graph data model: a small
// directed multigraph of named query vertices and typed query edges,
// used both as the pattern a Planner compiles into an operator tree
// and as the "signature" shapes the Catalog samples and indexes by.
//
// Query graphs are small (a handful to a few dozen vertices) so the
// operations here — encoding, subgraph-mapping enumeration — favor
// clarity and correctness over asymptotic cleverness.
package querygraph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Edge is one query edge: a directed, labeled, typed connection between
// two named query vertices.
type Edge struct {
	From, To         string
	Label            ids.LabelID
	FromType, ToType int
}

// Graph is a Query Graph: a set of named vertices, each with an optional
// type id, joined by labeled, directed query edges.
type Graph struct {
	order      []string // insertion order, for determinism
	vertexType map[string]int
	adjacency  map[string]map[string][]Edge // vertex -> neighbor -> edges between them
	edges      []Edge

	encoding string
	hasEnc   bool
}

// New returns an empty query graph.
func New() *Graph {
	return &Graph{
		vertexType: make(map[string]int),
		adjacency:  make(map[string]map[string][]Edge),
	}
}

func (g *Graph) ensureVertex(name string) {
	if _, ok := g.adjacency[name]; ok {
		return
	}
	g.order = append(g.order, name)
	g.adjacency[name] = make(map[string][]Edge)
	g.vertexType[name] = 0
}

// AddEdge adds a query edge, creating either endpoint vertex if new.
func (g *Graph) AddEdge(from, to string, label ids.LabelID, fromType, toType int) {
	g.ensureVertex(from)
	g.ensureVertex(to)
	e := Edge{From: from, To: to, Label: label, FromType: fromType, ToType: toType}
	g.vertexType[from] = fromType
	g.vertexType[to] = toType
	g.adjacency[from][to] = append(g.adjacency[from][to], e)
	g.adjacency[to][from] = append(g.adjacency[to][from], e)
	g.edges = append(g.edges, e)
	g.hasEnc = false
}

// AddVertex ensures a vertex with no edges yet exists (e.g. the root of
// a single-vertex scan candidate list).
func (g *Graph) AddVertex(name string, vertexType int) {
	g.ensureVertex(name)
	g.vertexType[name] = vertexType
}

// NumVertices returns the number of distinct query vertices.
func (g *Graph) NumVertices() int { return len(g.order) }

// Vertices returns the query vertex names in insertion order.
func (g *Graph) Vertices() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// VertexType returns the type id assigned to a vertex, or 0 if unset.
func (g *Graph) VertexType(v string) int { return g.vertexType[v] }

// SetVertexType updates v's type and every edge endpoint referencing it.
func (g *Graph) SetVertexType(v string, t int) {
	g.vertexType[v] = t
	for i := range g.edges {
		if g.edges[i].From == v {
			g.edges[i].FromType = t
		}
		if g.edges[i].To == v {
			g.edges[i].ToType = t
		}
	}
	g.hasEnc = false
}

// ContainsEdge reports whether any query edge connects v1 and v2 (either
// direction).
func (g *Graph) ContainsEdge(v1, v2 string) bool {
	_, ok := g.adjacency[v1][v2]
	return ok
}

// EdgesBetween returns the query edges connecting v1 and v2 (either
// direction), or nil if there are none.
func (g *Graph) EdgesBetween(v1, v2 string) []Edge {
	return g.adjacency[v1][v2]
}

// Neighbors returns the distinct vertex names adjacent to v.
func (g *Graph) Neighbors(v string) []string {
	neighbors := g.adjacency[v]
	out := make([]string, 0, len(neighbors))
	for n := range neighbors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Edges returns every query edge, in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Degree returns (in-degree, out-degree) for v, counting each query edge
// once per direction it actually has.
func (g *Graph) Degree(v string) (in, out int) {
	for _, e := range g.edges {
		if e.From == v {
			out++
		}
		if e.To == v {
			in++
		}
	}
	return in, out
}

// Encoding returns a canonical string: for each vertex, the sorted
// multiset of "F"/"B" letters (one per incident query edge, "F" if the
// vertex is that edge's From side, "B" otherwise), and the per-vertex
// strings sorted and joined by ".". Two query graphs with the same
// encoding are candidates for being isomorphic and are a cheap
// rejection test; two graphs with different encodings are never
// isomorphic.
func (g *Graph) Encoding() string {
	if g.hasEnc {
		return g.encoding
	}
	perVertex := make([]string, 0, len(g.order))
	for _, v := range g.order {
		var letters []byte
		for _, e := range g.edges {
			if e.From == v {
				letters = append(letters, 'F')
			} else if e.To == v {
				letters = append(letters, 'B')
			}
		}
		sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
		perVertex = append(perVertex, string(letters))
	}
	sort.Strings(perVertex)
	g.encoding = strings.Join(perVertex, ".")
	g.hasEnc = true
	return g.encoding
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := New()
	for _, v := range g.order {
		out.AddVertex(v, g.vertexType[v])
	}
	for _, e := range g.edges {
		out.AddEdge(e.From, e.To, e.Label, e.FromType, e.ToType)
	}
	return out
}

// Key returns a stable signature string for a canonical (from, direction,
// label) triple, the key format the Catalog uses to index sampled costs.
func Key(fromVertex string, forward bool, label ids.LabelID) string {
	dir := "B"
	if forward {
		dir = "F"
	}
	return "(" + fromVertex + ") " + dir + "[" + strconv.FormatUint(uint64(label), 10) + "]"
}

// SortedKeys sorts a slice of per-ALD key strings and joins them with
// ",", giving an order-independent key for a multi-ALD extension. The
// catalog builds its own keys (joined with ", ") and does not call it.
func SortedKeys(keys []string) string {
	cp := append([]string(nil), keys...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
