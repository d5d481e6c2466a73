// Package hashtable implements the hash-join build side's tuple store:
// a multimap from one "hash vertex" (a single already-bound query-vertex
// column) to every build-side tuple whose value in that column equals
// the key, used by a Probe operator to find the matching build rows for
// each incoming probe tuple.
//
// Tuples are packed into block arenas rather than per-vertex slices:
// each block holds numChunksPerBlock fixed-width chunks, each chunk
// holds numTuplesPerChunk tuples of hashedTupleLen ids (the hash-vertex
// column is elided — it is already known from the lookup key). Per
// vertex, a triplet array [blockID, startOffset, endOffset] records
// where that vertex's chunks live. A table is filled by one builder
// goroutine and then read-only for the rest of the query, so probes
// need no locking.
package hashtable

import (
	"github.com/UNSW-database/graphlib/pkg/ids"
)

const (
	defaultNumTuplesPerChunk = 64
	defaultNumChunksPerBlock = 512
)

// chunkMeta locates one chunk of a vertex's tuples inside a block
// arena. endOffset - startOffset is always a multiple of the tuple
// width and never exceeds the chunk size.
type chunkMeta struct {
	blockID     int
	startOffset int
	endOffset   int
}

// BlockInfo is the set of build-side tuples sharing one hash vertex,
// with the hash column itself removed. Each entry has length
// HashTable.HashedTupleLen() and aliases the table's block arenas; it
// must not be mutated.
type BlockInfo struct {
	Tuples [][]ids.NodeID
}

// HashTable is the build side of one hash join, keyed by the value in
// column BuildHashIdx of every inserted tuple.
type HashTable struct {
	buildHashIdx   int
	hashedTupleLen int

	tuplesPerChunk int
	chunkSize      int // tuplesPerChunk * hashedTupleLen slots
	chunksPerBlock int

	blocks [][]ids.NodeID

	// chunks[v] lists vertex v's chunks in insertion order; the slice
	// is grown to highestSeenID+1 entries on demand.
	chunks [][]chunkMeta

	// cursor for the next fresh chunk: block nextBlock, chunk
	// nextChunk within it.
	nextBlock int
	nextChunk int

	numTuples int
}

// New returns an empty HashTable. buildHashIdx is the column of an
// inserted tuple used as the lookup key; hashedTupleLen is the length
// of a stored tuple after that column is removed.
func New(buildHashIdx, hashedTupleLen int) *HashTable {
	if hashedTupleLen < 1 {
		hashedTupleLen = 1
	}
	h := &HashTable{
		buildHashIdx:   buildHashIdx,
		hashedTupleLen: hashedTupleLen,
		tuplesPerChunk: defaultNumTuplesPerChunk,
		chunksPerBlock: defaultNumChunksPerBlock,
	}
	h.chunkSize = h.tuplesPerChunk * h.hashedTupleLen
	h.nextChunk = h.chunksPerBlock // forces the first block allocation
	h.nextBlock = -1
	return h
}

// BuildHashIdx returns the column this table is keyed on.
func (h *HashTable) BuildHashIdx() int { return h.buildHashIdx }

// HashedTupleLen returns the length of a stored (hash-column-removed)
// tuple.
func (h *HashTable) HashedTupleLen() int { return h.hashedTupleLen }

// allocChunk reserves a fresh chunk for vertex v, allocating a new
// block when the current one is exhausted.
func (h *HashTable) allocChunk(v int) *chunkMeta {
	if h.nextChunk >= h.chunksPerBlock {
		h.blocks = append(h.blocks, make([]ids.NodeID, h.chunkSize*h.chunksPerBlock))
		h.nextBlock++
		h.nextChunk = 0
	}
	start := h.nextChunk * h.chunkSize
	h.chunks[v] = append(h.chunks[v], chunkMeta{blockID: h.nextBlock, startOffset: start, endOffset: start})
	h.nextChunk++
	return &h.chunks[v][len(h.chunks[v])-1]
}

// InsertTuple stores a copy of buildTuple, bucketed by its
// BuildHashIdx'th column with that column dropped.
func (h *HashTable) InsertTuple(buildTuple []ids.NodeID) {
	v := int(buildTuple[h.buildHashIdx])
	for v >= len(h.chunks) {
		h.chunks = append(h.chunks, nil)
	}

	var meta *chunkMeta
	if n := len(h.chunks[v]); n > 0 {
		last := &h.chunks[v][n-1]
		if last.endOffset-last.startOffset < h.chunkSize {
			meta = last
		}
	}
	if meta == nil {
		meta = h.allocChunk(v)
	}

	arena := h.blocks[meta.blockID]
	pos := meta.endOffset
	for i, val := range buildTuple {
		if i == h.buildHashIdx {
			continue
		}
		arena[pos] = val
		pos++
	}
	meta.endOffset = pos
	h.numTuples++
}

// GetBlock returns the tuples stored under hashVertex, or a zero-length
// block if none were inserted under that key.
func (h *HashTable) GetBlock(hashVertex ids.NodeID) BlockInfo {
	v := int(hashVertex)
	if v >= len(h.chunks) {
		return BlockInfo{}
	}
	var tuples [][]ids.NodeID
	for _, meta := range h.chunks[v] {
		arena := h.blocks[meta.blockID]
		for off := meta.startOffset; off < meta.endOffset; off += h.hashedTupleLen {
			tuples = append(tuples, arena[off:off+h.hashedTupleLen])
		}
	}
	return BlockInfo{Tuples: tuples}
}

// Keys returns every hash vertex with at least one stored tuple, in
// ascending order.
func (h *HashTable) Keys() []ids.NodeID {
	var out []ids.NodeID
	for v, chunks := range h.chunks {
		if len(chunks) > 0 {
			out = append(out, ids.NodeID(v))
		}
	}
	return out
}

// NumTuples returns the total number of tuples inserted.
func (h *HashTable) NumTuples() int { return h.numTuples }
