package property

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Iterator lazily walks every record under one key prefix (node or
// edge), in key order. Callers must call Close when done.
type Iterator struct {
	txn    *badger.Txn
	it     *badger.Iterator
	prefix byte
	done   bool
}

func newIterator(db *badger.DB, prefix byte) *Iterator {
	txn := db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte{prefix}
	it := txn.NewIterator(opts)
	it.Seek([]byte{prefix})
	return &Iterator{txn: txn, it: it, prefix: prefix}
}

// Next advances to the next record, returning false once exhausted.
func (it *Iterator) Next() bool {
	if it.done || !it.it.ValidForPrefix([]byte{it.prefix}) {
		it.done = true
		return false
	}
	return true
}

// advance moves the cursor forward after the caller consumes the
// current record via NodeKV/EdgeKV.
func (it *Iterator) advance() {
	it.it.Next()
}

// NodeKV returns the current node id and decoded record, then advances.
// Only valid on an iterator from ScanNodePropertyAll.
func (it *Iterator) NodeKV() (ids.NodeID, Record, error) {
	item := it.it.Item()
	id, ok := decodeNodeKey(item.KeyCopy(nil))
	if !ok {
		it.advance()
		return 0, Record{}, ErrNodeNotFound
	}
	var rec Record
	err := item.Value(func(data []byte) error {
		var derr error
		rec, derr = decodeRecord(data)
		return derr
	})
	it.advance()
	return id, rec, err
}

// EdgeKV returns the current (src,dst) and decoded record, then
// advances. Only valid on an iterator from ScanEdgePropertyAll.
func (it *Iterator) EdgeKV() (ids.NodeID, ids.NodeID, Record, error) {
	item := it.it.Item()
	src, dst, ok := decodeEdgeKey(item.KeyCopy(nil))
	if !ok {
		it.advance()
		return 0, 0, Record{}, ErrEdgeNotFound
	}
	var rec Record
	err := item.Value(func(data []byte) error {
		var derr error
		rec, derr = decodeRecord(data)
		return derr
	})
	it.advance()
	return src, dst, rec, err
}

// Close releases the iterator's underlying transaction.
func (it *Iterator) Close() {
	it.it.Close()
	it.txn.Discard()
}
