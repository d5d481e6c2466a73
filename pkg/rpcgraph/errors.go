package rpcgraph

import "errors"

// ErrBackendError wraps a transport-level failure talking to a peer.
var ErrBackendError = errors.New("rpcgraph: backend error")

// ErrUnknown is the escape hatch for a response the client could not
// make sense of.
var ErrUnknown = errors.New("rpcgraph: unknown error")
