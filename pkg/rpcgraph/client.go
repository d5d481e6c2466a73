package rpcgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/UNSW-database/graphlib/pkg/cache"
	"github.com/UNSW-database/graphlib/pkg/config"
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
)

// peer is one remote machine's connection: a base URL plus the shared
// HTTP client (connection pooling handles reuse).
type peer struct {
	baseURL string
}

// Client routes each lookup to the owning peer by id hash, serving
// local partition reads directly and caching remote reads in a sharded
// concurrent cache.
type Client struct {
	cfg   config.RPCConfig
	local graph.Trait // this process's own partition; never nil

	peers []peer // indexed by processor id; cfg.SelfProcessor's entry is unused
	cache *cache.Cache
	http  *http.Client
}

// NewClient constructs a Client for one partition. hosts must have at
// least cfg.Machines entries (only the first cfg.Machines are used);
// machine i is processor i. Connecting to every non-local peer is
// attempted with retry backoff; if any peer exhausts cfg.MaxRetry
// attempts, NewClient returns an error, and the caller is expected to
// treat that as fatal — a partition that cannot reach its peers cannot
// answer queries.
func NewClient(cfg config.RPCConfig, local graph.Trait, hosts []string, cacheCfg cache.Config) (*Client, error) {
	if len(hosts) < cfg.Machines {
		return nil, fmt.Errorf("rpcgraph: hosts file has %d entries, need %d", len(hosts), cfg.Machines)
	}
	c, err := cache.New(cacheCfg)
	if err != nil {
		return nil, err
	}

	client := &Client{
		cfg:   cfg,
		local: local,
		peers: make([]peer, cfg.Machines),
		cache: c,
		http:  &http.Client{Timeout: 5 * time.Second},
	}

	for i := 0; i < cfg.Machines; i++ {
		if i == cfg.SelfProcessor {
			continue // no connection to ourselves
		}
		baseURL := "http://" + hosts[i]
		if err := client.connectWithRetry(baseURL); err != nil {
			return nil, err
		}
		client.peers[i] = peer{baseURL: baseURL}
	}
	return client, nil
}

// connectWithRetry probes a peer's liveness with exponential
// randomized backoff between cfg.MinRetryDelay and cfg.MaxRetryDelay,
// giving up after cfg.MaxRetry attempts.
func (c *Client) connectWithRetry(baseURL string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.MinRetryDelay
	b.MaxInterval = c.cfg.MaxRetryDelay

	probe := func() (struct{}, error) {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/neighbors/0", nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		resp.Body.Close()
		return struct{}{}, nil
	}

	_, err := backoff.Retry(context.Background(), probe,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxRetry)),
	)
	if err != nil {
		return fmt.Errorf("rpcgraph: connecting to %s after %d retries: %w", baseURL, c.cfg.MaxRetry, err)
	}
	return nil
}

// ProcessorOf computes the owning processor for id:
// (id / workers) mod machines. Exposed as a standalone function so the
// routing arithmetic can be tested without constructing a Client
// (which dials every peer).
func ProcessorOf(id ids.NodeID, workers, machines int) int {
	return (int(id) / workers) % machines
}

// IsLocal reports whether id's owning processor is selfProcessor.
// Exactly one processor satisfies IsLocal for any given id and
// configuration.
func IsLocal(id ids.NodeID, workers, machines, selfProcessor int) bool {
	return ProcessorOf(id, workers, machines) == selfProcessor
}

// ProcessorOf computes the owning processor for id using this client's
// configured workers/machines.
func (c *Client) ProcessorOf(id ids.NodeID) int {
	return ProcessorOf(id, c.cfg.Workers, c.cfg.Machines)
}

// IsLocal reports whether id's owning processor is this client's own.
func (c *Client) IsLocal(id ids.NodeID) bool {
	return c.ProcessorOf(id) == c.cfg.SelfProcessor
}

// Neighbors returns id's neighbor list, served locally if id is owned
// by this processor, else from cache or a remote RPC call.
func (c *Client) Neighbors(ctx context.Context, id ids.NodeID) ([]ids.NodeID, error) {
	if c.IsLocal(id) {
		return c.local.Neighbors(id), nil
	}
	if e, ok := c.cache.Get(id); ok {
		return e.Neighbors, nil
	}

	var resp NeighborsResponse
	if err := c.getJSON(ctx, c.ProcessorOf(id), "/neighbors/"+strconv.FormatUint(uint64(id), 10), &resp); err != nil {
		return nil, err
	}
	c.cache.Put(id, cache.Entry{Neighbors: resp.Neighbors})
	return resp.Neighbors, nil
}

// Degree returns len(Neighbors(id)), served locally, from cache, or
// remotely (falling back through the same path as Neighbors).
func (c *Client) Degree(ctx context.Context, id ids.NodeID) (int, error) {
	if c.IsLocal(id) {
		return c.local.Degree(id), nil
	}
	if d, ok := c.cache.Degree(id); ok {
		return d, nil
	}
	neighbors, err := c.Neighbors(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(neighbors), nil
}

// HasEdge reports whether (src, dst) is an edge. Uses a cached
// neighbor list for either endpoint if one is available; otherwise
// fetches src's neighbor list.
func (c *Client) HasEdge(ctx context.Context, src, dst ids.NodeID) (bool, error) {
	if c.IsLocal(src) {
		return c.local.HasEdge(src, dst), nil
	}
	if has, ok := c.cache.HasEdge(src, dst); ok {
		return has, nil
	}
	if has, ok := c.cache.HasEdge(dst, src); ok {
		return has, nil
	}
	neighbors, err := c.Neighbors(ctx, src)
	if err != nil {
		return false, err
	}
	for _, n := range neighbors {
		if n == dst {
			return true, nil
		}
	}
	return false, nil
}

// Cache exposes the client's cache for introspection
// (hits/misses/len).
func (c *Client) Cache() *cache.Cache { return c.cache }

func (c *Client) getJSON(ctx context.Context, processor int, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.peers[processor].baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrBackendError, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", ErrBackendError, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUnknown, path, err)
	}
	return nil
}
