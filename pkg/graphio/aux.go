package graphio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// auxRecord is the `{num_nodes, num_edges, node_label_map,
// edge_label_map}` record saved beside the flat CSR files, serialized
// with a stable binary layout: a magic/version header, then
// length-prefixed fields in a fixed order. `encoding/binary` plus
// manual framing is used rather than gob or a reflection-based codec,
// since the field set is small, fixed, and never evolves independently
// of this package's version.
type auxRecord struct {
	NumNodes     int
	NumEdges     int
	Directed     bool
	NodeLabelMap []string
	EdgeLabelMap []string
}

const auxMagic uint32 = 0x47524158 // "GRAX"
const auxVersion uint32 = 1

func writeAux(path string, rec auxRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphio: creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeU32(w, auxMagic)
	writeU32(w, auxVersion)
	writeU64(w, uint64(rec.NumNodes))
	writeU64(w, uint64(rec.NumEdges))
	writeBool(w, rec.Directed)
	writeStrings(w, rec.NodeLabelMap)
	writeStrings(w, rec.EdgeLabelMap)

	return w.Flush()
}

func readAux(path string) (auxRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return auxRecord{}, fmt.Errorf("graphio: reading %s: %w", path, err)
	}
	r := &byteReader{buf: raw}

	magic := r.u32()
	if magic != auxMagic {
		return auxRecord{}, fmt.Errorf("graphio: %s has bad magic %x", path, magic)
	}
	version := r.u32()
	if version != auxVersion {
		return auxRecord{}, fmt.Errorf("graphio: %s has unsupported version %d", path, version)
	}
	rec := auxRecord{
		NumNodes: int(r.u64()),
		NumEdges: int(r.u64()),
		Directed: r.boolean(),
	}
	rec.NodeLabelMap = r.strings()
	rec.EdgeLabelMap = r.strings()
	if r.err != nil {
		return auxRecord{}, fmt.Errorf("graphio: parsing %s: %w", path, r.err)
	}
	return rec, nil
}

func writeU32(w *bufio.Writer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

func writeU64(w *bufio.Writer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}

func writeBool(w *bufio.Writer, b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func writeStrings(w *bufio.Writer, items []string) {
	writeU64(w, uint64(len(items)))
	for _, s := range items {
		writeU64(w, uint64(len(s)))
		w.WriteString(s)
	}
}

// byteReader is a minimal cursor over an in-memory aux record, tracking
// the first error encountered so callers can check once at the end
// instead of threading an error return through every field read.
type byteReader struct {
	buf []byte
	pos int
	err error
}

func (r *byteReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("unexpected end of aux record at offset %d", r.pos)
		return false
	}
	return true
}

func (r *byteReader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *byteReader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}

func (r *byteReader) boolean() bool {
	if !r.need(1) {
		return false
	}
	v := r.buf[r.pos] != 0
	r.pos++
	return v
}

func (r *byteReader) strings() []string {
	n := int(r.u64())
	if r.err != nil || n < 0 {
		return nil
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		l := int(r.u64())
		if !r.need(l) {
			return nil
		}
		out[i] = string(r.buf[r.pos : r.pos+l])
		r.pos += l
	}
	return out
}
