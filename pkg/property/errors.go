package property

import "errors"

// Sentinel errors surfaced by the property store. RPC-specific kinds
// live in pkg/rpcgraph.
var (
	// ErrDbNotFound is returned when opening a store whose backing
	// files are missing.
	ErrDbNotFound = errors.New("property: database not found")

	// ErrModifyReadOnly is returned by any write on a store opened
	// read-only.
	ErrModifyReadOnly = errors.New("property: store is read-only")

	// ErrNodeNotFound is returned by a node-property read for an id
	// with no stored record.
	ErrNodeNotFound = errors.New("property: node not found")

	// ErrEdgeNotFound is returned by an edge-property read for an
	// (src,dst) pair with no stored record.
	ErrEdgeNotFound = errors.New("property: edge not found")
)
