package property

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

func openMem(t *testing.T, readOnly bool, directed bool) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true, ReadOnly: readOnly, Directed: directed})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestNodePropertyRoundTrip writes and reads back one node record
// (the read-only path is covered separately below, since an in-memory
// store cannot be reopened).
func TestNodePropertyRoundTrip(t *testing.T) {
	s := openMem(t, false, true)

	rec := Record{Attributes: map[string]interface{}{"name": "jack"}}
	require.NoError(t, s.InsertNodeProperty(0, rec))

	got, err := s.GetNodePropertyAll(0)
	require.NoError(t, err)
	require.Equal(t, "jack", got.Attributes["name"])
}

// TestReopenReadOnly: insert, close, reopen read-only, read back, and
// confirm writes are rejected.
func TestReopenReadOnly(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.InsertNodeProperty(0, Record{Attributes: map[string]interface{}{"name": "jack"}}))
	require.NoError(t, s.Close())

	ro, err := Open(Options{DataDir: dir, ReadOnly: true})
	require.NoError(t, err)
	defer ro.Close()

	rec, err := ro.GetNodePropertyAll(0)
	require.NoError(t, err)
	require.Equal(t, "jack", rec.Attributes["name"])

	err = ro.InsertNodeProperty(1, Record{Attributes: map[string]interface{}{"x": 1}})
	require.ErrorIs(t, err, ErrModifyReadOnly)
}

func TestGetNodePropertyNotFound(t *testing.T) {
	s := openMem(t, false, true)
	_, err := s.GetNodePropertyAll(42)
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNodePropertyProjection(t *testing.T) {
	s := openMem(t, false, true)
	require.NoError(t, s.InsertNodeProperty(1, Record{
		Attributes: map[string]interface{}{"name": "a", "age": float64(10)},
	}))

	projected, err := s.GetNodeProperty(1, []string{"name"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"name": "a"}, projected)

	all, err := s.GetNodeProperty(1, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestEdgePropertyUndirectedNormalization(t *testing.T) {
	s := openMem(t, false, false) // undirected

	require.NoError(t, s.InsertEdgeProperty(3, 1, Record{Attributes: map[string]interface{}{"w": 2.5}}))

	// Lookup from either direction must hit the same record.
	rec, err := s.GetEdgePropertyAll(1, 3)
	require.NoError(t, err)
	require.Equal(t, 2.5, rec.Attributes["w"])

	rec2, err := s.GetEdgePropertyAll(3, 1)
	require.NoError(t, err)
	require.Equal(t, rec.Attributes, rec2.Attributes)
}

func TestEdgePropertyDirectedNotNormalized(t *testing.T) {
	s := openMem(t, false, true) // directed

	require.NoError(t, s.InsertEdgeProperty(1, 3, Record{Attributes: map[string]interface{}{"w": 1.0}}))

	_, err := s.GetEdgePropertyAll(3, 1)
	require.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestExtendNodeProperty(t *testing.T) {
	s := openMem(t, false, true)

	entries := []NodeEntry{
		{ID: 1, Record: Record{Attributes: map[string]interface{}{"n": float64(1)}}},
		{ID: 2, Record: Record{Attributes: map[string]interface{}{"n": float64(2)}}},
	}
	require.NoError(t, s.ExtendNodeProperty(entries))

	rec, err := s.GetNodePropertyAll(2)
	require.NoError(t, err)
	require.Equal(t, float64(2), rec.Attributes["n"])
}

func TestScanNodePropertyAll(t *testing.T) {
	s := openMem(t, false, true)
	for i := ids.NodeID(0); i < 5; i++ {
		require.NoError(t, s.InsertNodeProperty(i, Record{Attributes: map[string]interface{}{"i": float64(i)}}))
	}

	it := s.ScanNodePropertyAll()
	defer it.Close()

	seen := map[ids.NodeID]bool{}
	for it.Next() {
		id, rec, err := it.NodeKV()
		require.NoError(t, err)
		require.Equal(t, float64(id), rec.Attributes["i"])
		seen[id] = true
	}
	require.Len(t, seen, 5)
}

func TestScanEdgePropertyAll(t *testing.T) {
	s := openMem(t, false, true)
	require.NoError(t, s.InsertEdgeProperty(1, 2, Record{Attributes: map[string]interface{}{"x": "a"}}))
	require.NoError(t, s.InsertEdgeProperty(2, 3, Record{Attributes: map[string]interface{}{"x": "b"}}))

	it := s.ScanEdgePropertyAll()
	defer it.Close()

	count := 0
	for it.Next() {
		_, _, _, err := it.EdgeKV()
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 2, count)
}

func TestInsertRaw(t *testing.T) {
	s := openMem(t, false, true)
	raw, err := encodeRecord(Record{Attributes: map[string]interface{}{"raw": true}})
	require.NoError(t, err)

	require.NoError(t, s.InsertNodePropertyRaw(9, raw))
	rec, err := s.GetNodePropertyAll(9)
	require.NoError(t, err)
	require.Equal(t, true, rec.Attributes["raw"])
}
