// Package property implements the property store: a thin wrapper over
// a sorted key-value engine (BadgerDB) storing node and edge property
// records under id-derived keys. Node records key on the node id, edge
// records on the (src, dst) pair; undirected stores normalize the pair
// so either endpoint order finds the same record.
package property

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Options configures a Store.
type Options struct {
	// DataDir is the directory backing the store. Required unless
	// InMemory is set.
	DataDir string

	// InMemory runs the store in memory-only mode (tests).
	InMemory bool

	// ReadOnly opens the store without write access; every insert/
	// extend call then returns ErrModifyReadOnly.
	ReadOnly bool

	// Directed selects edge-key normalization: false normalizes
	// (src,dst) to (min,max) so undirected edges share one record
	// regardless of lookup direction.
	Directed bool

	// Logger receives BadgerDB's internal diagnostics. Nil silences
	// them.
	Logger badger.Logger
}

// Store is the Property Store: one BadgerDB keyspace holding both node
// and edge records, distinguished by key prefix.
type Store struct {
	db       *badger.DB
	readOnly bool
	directed bool
}

// Open opens (creating if necessary) a Store at opts.DataDir, or an
// in-memory store if opts.InMemory is set.
func Open(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	badgerOpts = badgerOpts.WithReadOnly(opts.ReadOnly)
	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(opts.Logger)
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		if opts.ReadOnly {
			return nil, fmt.Errorf("property: opening %s read-only: %w: %v", opts.DataDir, ErrDbNotFound, err)
		}
		return nil, fmt.Errorf("property: opening %s: %w", opts.DataDir, err)
	}

	return &Store{db: db, readOnly: opts.ReadOnly, directed: opts.Directed}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("property: closing store: %w", err)
	}
	return nil
}

func (s *Store) checkWritable() error {
	if s.readOnly {
		return ErrModifyReadOnly
	}
	return nil
}

// InsertNodeProperty stores rec under id, overwriting any existing
// record.
func (s *Store) InsertNodeProperty(id ids.NodeID, rec Record) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.InsertNodePropertyRaw(id, data)
}

// InsertNodePropertyRaw stores pre-encoded bytes under id, skipping
// serialization; used by bulk loaders.
func (s *Store) InsertNodePropertyRaw(id ids.NodeID, data []byte) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeKey(id), data)
	})
	if err != nil {
		return fmt.Errorf("property: inserting node %d: %w", id, err)
	}
	return nil
}

// InsertEdgeProperty stores rec under (src,dst), normalized per
// s.directed.
func (s *Store) InsertEdgeProperty(src, dst ids.NodeID, rec Record) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.InsertEdgePropertyRaw(src, dst, data)
}

// InsertEdgePropertyRaw stores pre-encoded bytes under (src,dst).
func (s *Store) InsertEdgePropertyRaw(src, dst ids.NodeID, data []byte) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(edgeKey(src, dst, s.directed), data)
	})
	if err != nil {
		return fmt.Errorf("property: inserting edge (%d,%d): %w", src, dst, err)
	}
	return nil
}

// GetNodeProperty reads id's record and projects the named attributes.
// A nil names slice is equivalent to GetNodePropertyAll.
func (s *Store) GetNodeProperty(id ids.NodeID, names []string) (map[string]interface{}, error) {
	rec, err := s.GetNodePropertyAll(id)
	if err != nil {
		return nil, err
	}
	return project(rec, names), nil
}

// GetNodePropertyAll reads and decodes id's full record.
func (s *Store) GetNodePropertyAll(id ids.NodeID) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNodeNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			rec, err = decodeRecord(data)
			return err
		})
	})
	if err != nil {
		if err == ErrNodeNotFound {
			return Record{}, ErrNodeNotFound
		}
		return Record{}, fmt.Errorf("property: reading node %d: %w", id, err)
	}
	return rec, nil
}

// GetEdgeProperty reads (src,dst)'s record and projects named
// attributes.
func (s *Store) GetEdgeProperty(src, dst ids.NodeID, names []string) (map[string]interface{}, error) {
	rec, err := s.GetEdgePropertyAll(src, dst)
	if err != nil {
		return nil, err
	}
	return project(rec, names), nil
}

// GetEdgePropertyAll reads and decodes (src,dst)'s full record.
func (s *Store) GetEdgePropertyAll(src, dst ids.NodeID) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(edgeKey(src, dst, s.directed))
		if err == badger.ErrKeyNotFound {
			return ErrEdgeNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			rec, err = decodeRecord(data)
			return err
		})
	})
	if err != nil {
		if err == ErrEdgeNotFound {
			return Record{}, ErrEdgeNotFound
		}
		return Record{}, fmt.Errorf("property: reading edge (%d,%d): %w", src, dst, err)
	}
	return rec, nil
}

// NodeEntry pairs a node id with the record to write, for batched
// writes.
type NodeEntry struct {
	ID     ids.NodeID
	Record Record
}

// EdgeEntry pairs an edge endpoint pair with the record to write.
type EdgeEntry struct {
	Src, Dst ids.NodeID
	Record   Record
}

// ExtendNodeProperty writes every entry using BadgerDB's batch API.
func (s *Store) ExtendNodeProperty(entries []NodeEntry) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, e := range entries {
		data, err := encodeRecord(e.Record)
		if err != nil {
			return err
		}
		if err := wb.Set(nodeKey(e.ID), data); err != nil {
			return fmt.Errorf("property: batching node %d: %w", e.ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("property: flushing node batch: %w", err)
	}
	return nil
}

// ExtendEdgeProperty writes every entry using the batch API.
func (s *Store) ExtendEdgeProperty(entries []EdgeEntry) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, e := range entries {
		data, err := encodeRecord(e.Record)
		if err != nil {
			return err
		}
		if err := wb.Set(edgeKey(e.Src, e.Dst, s.directed), data); err != nil {
			return fmt.Errorf("property: batching edge (%d,%d): %w", e.Src, e.Dst, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("property: flushing edge batch: %w", err)
	}
	return nil
}

// ExtendNodePropertyRaw batches pre-encoded node records.
func (s *Store) ExtendNodePropertyRaw(entries map[ids.NodeID][]byte) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for id, data := range entries {
		if err := wb.Set(nodeKey(id), data); err != nil {
			return fmt.Errorf("property: batching raw node %d: %w", id, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("property: flushing raw node batch: %w", err)
	}
	return nil
}

// EdgeRaw pairs an edge endpoint pair with pre-encoded record bytes.
type EdgeRaw struct {
	Src, Dst ids.NodeID
	Data     []byte
}

// ExtendEdgePropertyRaw batches pre-encoded edge records.
func (s *Store) ExtendEdgePropertyRaw(entries []EdgeRaw) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, e := range entries {
		if err := wb.Set(edgeKey(e.Src, e.Dst, s.directed), e.Data); err != nil {
			return fmt.Errorf("property: batching raw edge (%d,%d): %w", e.Src, e.Dst, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("property: flushing raw edge batch: %w", err)
	}
	return nil
}

// ScanNodePropertyAll returns an iterator over every node record, in
// key order.
func (s *Store) ScanNodePropertyAll() *Iterator {
	return newIterator(s.db, prefixNode)
}

// ScanEdgePropertyAll returns an iterator over every edge record, in
// key order.
func (s *Store) ScanEdgePropertyAll() *Iterator {
	return newIterator(s.db, prefixEdge)
}
