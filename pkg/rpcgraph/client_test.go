package rpcgraph_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/builder"
	"github.com/UNSW-database/graphlib/pkg/cache"
	"github.com/UNSW-database/graphlib/pkg/config"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/rpcgraph"
)

// buildThreeNodeGraph gives both the "remote" and "local" side identical
// directed edges 0->1 and 0->2 so the remote handler serves something
// the client can compare against.
func buildThreeNodeGraph() *builder.Builder {
	b := builder.New()
	b.AddEdge(0, 1, ids.NoneLabel)
	b.AddEdge(0, 2, ids.NoneLabel)
	b.AddInEdge(1, 0)
	b.AddInEdge(2, 0)
	return b
}

func TestClientServesLocalDirectly(t *testing.T) {
	g := buildThreeNodeGraph().BuildDirected()

	// The single hosts entry is this processor's own and is never dialed.
	cfg := config.RPCConfig{Workers: 1, Machines: 1, SelfProcessor: 0, MaxRetry: 1}
	client, err := rpcgraph.NewClient(cfg, g, []string{"unused:0"}, cache.Config{PageNum: 2, PageSize: 4})
	require.NoError(t, err)

	neighbors, err := client.Neighbors(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, g.Neighbors(0), neighbors)
}

func TestClientFetchesRemoteAndCaches(t *testing.T) {
	remoteGraph := buildThreeNodeGraph().BuildDirected()
	srv := httptest.NewServer(rpcgraph.NewServer(remoteGraph).Handler())
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	localGraph := builder.New().BuildDirected() // empty; this processor owns no ids here

	cfg := config.RPCConfig{Workers: 1, Machines: 2, SelfProcessor: 0, MaxRetry: 3}
	client, err := rpcgraph.NewClient(cfg, localGraph, []string{"unused:0", host}, cache.Config{PageNum: 2, PageSize: 4})
	require.NoError(t, err)

	// id=1 routes to processor (1/1) mod 2 = 1, the remote peer.
	require.False(t, client.IsLocal(1))
	neighbors, err := client.Neighbors(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, remoteGraph.Neighbors(1), neighbors)

	require.EqualValues(t, 0, client.Cache().Hits())
	require.EqualValues(t, 1, client.Cache().Misses())

	_, err = client.Neighbors(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, client.Cache().Hits())
}
