// Package rpcgraph implements the partitioned graph's RPC client and
// server: a server exposing `neighbors(id)` (plus `degree`/`has_edge`)
// over one partition's graph.Trait, and a client that routes lookups
// to the owning peer by id hash, caching remote results in a
// pkg/cache.Cache.
//
// Framing is plain HTTP/1.1 + JSON: message boundaries are preserved
// and delivery is in-order per keep-alive connection, which is all the
// protocol needs.
package rpcgraph

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
)

// NeighborsResponse is the JSON body returned by GET /neighbors/{id}.
type NeighborsResponse struct {
	Neighbors []ids.NodeID `json:"neighbors"`
}

// DegreeResponse is the JSON body returned by GET /degree/{id}.
type DegreeResponse struct {
	Degree int `json:"degree"`
}

// HasEdgeResponse is the JSON body returned by GET /has_edge/{src}/{dst}.
type HasEdgeResponse struct {
	HasEdge bool `json:"has_edge"`
}

// Server serves one partition's graph.Trait to remote peers. The
// contract is read-only: a client never mutates remote state.
type Server struct {
	graph graph.Trait
}

// NewServer wraps g for RPC service.
func NewServer(g graph.Trait) *Server {
	return &Server{graph: g}
}

// Handler returns the HTTP handler exposing this server's endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/neighbors/{id}", s.handleNeighbors)
	r.Get("/degree/{id}", s.handleDegree)
	r.Get("/has_edge/{src}/{dst}", s.handleHasEdge)
	return r
}

func parseNodeID(s string) (ids.NodeID, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return ids.NodeID(v), true
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNodeID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeJSON(w, NeighborsResponse{Neighbors: s.graph.Neighbors(id)})
}

func (s *Server) handleDegree(w http.ResponseWriter, r *http.Request) {
	id, ok := parseNodeID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeJSON(w, DegreeResponse{Degree: s.graph.Degree(id)})
}

func (s *Server) handleHasEdge(w http.ResponseWriter, r *http.Request) {
	src, ok := parseNodeID(chi.URLParam(r, "src"))
	if !ok {
		http.Error(w, "invalid src", http.StatusBadRequest)
		return
	}
	dst, ok := parseNodeID(chi.URLParam(r, "dst"))
	if !ok {
		http.Error(w, "invalid dst", http.StatusBadRequest)
		return
	}
	writeJSON(w, HasEdgeResponse{HasEdge: s.graph.HasEdge(src, dst)})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
