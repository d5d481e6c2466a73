// Package graphio implements Static Graph persistence: three peer file
// groups under a common prefix — `<prefix>_OUT.{offsets,edges,labels}`,
// `<prefix>_IN.*` (directed graphs only), `<prefix>.labels` (node
// labels), and `<prefix>_aux.bin` (the `{num_nodes, num_edges,
// node_label_map, edge_label_map}` aux record) — plus a memory-mapped
// edge vector backing via `golang.org/x/sys/unix`.
//
// Every `.offsets`/`.edges`/`.labels` file is a flat little-endian
// sequence of fixed-width integers, written with `encoding/binary` so
// the same bytes can be read back either by a normal read (Load) or by
// mmap (LoadMapped) without reinterpretation.
package graphio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/labelmap"
)

const (
	suffixOffsets = ".offsets"
	suffixEdges   = ".edges"
	suffixLabels  = ".labels"
	dirOut        = "_OUT"
	dirIn         = "_IN"
	suffixAux     = "_aux.bin"
	suffixNode    = ""
)

// writeUint64Slice writes a flat little-endian uint64 sequence.
func writeUint64Slice(path string, data []uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphio: creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	buf := make([]byte, 8)
	for _, v := range data {
		binary.LittleEndian.PutUint64(buf, v)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("graphio: writing %s: %w", path, err)
		}
	}
	return w.Flush()
}

// writeUint32Slice writes a flat little-endian uint32 sequence (node
// ids and label ids are both fixed at 32 bits, see pkg/ids).
func writeUint32Slice(path string, data []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphio: creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	buf := make([]byte, 4)
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf, v)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("graphio: writing %s: %w", path, err)
		}
	}
	return w.Flush()
}

func readUint64Slice(path string) ([]uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphio: reading %s: %w", path, err)
	}
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("graphio: %s has length %d, not a multiple of 8", path, len(raw))
	}
	out := make([]uint64, len(raw)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return out, nil
}

func readUint32Slice(path string) ([]uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphio: reading %s: %w", path, err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("graphio: %s has length %d, not a multiple of 4", path, len(raw))
	}
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out, nil
}

func nodeIDSlice(u []uint32) []ids.NodeID {
	out := make([]ids.NodeID, len(u))
	for i, v := range u {
		out[i] = ids.NodeID(v)
	}
	return out
}

func labelIDSlice(u []uint32) []ids.LabelID {
	out := make([]ids.LabelID, len(u))
	for i, v := range u {
		out[i] = ids.LabelID(v)
	}
	return out
}

func toUint32(nodeIDs []ids.NodeID) []uint32 {
	out := make([]uint32, len(nodeIDs))
	for i, v := range nodeIDs {
		out[i] = uint32(v)
	}
	return out
}

func toUint32Labels(labelIDs []ids.LabelID) []uint32 {
	out := make([]uint32, len(labelIDs))
	for i, v := range labelIDs {
		out[i] = uint32(v)
	}
	return out
}

// writeEdgeVector writes one direction's {offsets,edges,labels} files
// under prefix+dir.
func writeEdgeVector(prefix, dir string, ev *csr.EdgeVector) error {
	if err := writeUint64Slice(prefix+dir+suffixOffsets, ev.Offsets()); err != nil {
		return err
	}
	if err := writeUint32Slice(prefix+dir+suffixEdges, toUint32(ev.Edges())); err != nil {
		return err
	}
	if ev.HasLabels() {
		if err := writeUint32Slice(prefix+dir+suffixLabels, toUint32Labels(ev.Labels())); err != nil {
			return err
		}
	}
	return nil
}

// readEdgeVector reads one direction's {offsets,edges,labels} files
// under prefix+dir. labels is nil if the .labels file does not exist.
func readEdgeVector(prefix, dir string) (*csr.EdgeVector, error) {
	offsets, err := readUint64Slice(prefix + dir + suffixOffsets)
	if err != nil {
		return nil, err
	}
	edgesRaw, err := readUint32Slice(prefix + dir + suffixEdges)
	if err != nil {
		return nil, err
	}
	edges := nodeIDSlice(edgesRaw)
	labelsPath := prefix + dir + suffixLabels
	if _, err := os.Stat(labelsPath); err == nil {
		labelsRaw, err := readUint32Slice(labelsPath)
		if err != nil {
			return nil, err
		}
		return csr.NewWithLabels(offsets, edges, labelIDSlice(labelsRaw)), nil
	}
	return csr.New(offsets, edges), nil
}

// Save writes g to disk under prefix.
func Save(prefix string, g *graph.Static) error {
	if err := writeEdgeVector(prefix, dirOut, g.ForwardEdgeVector()); err != nil {
		return err
	}
	if g.IsDirected() {
		if err := writeEdgeVector(prefix, dirIn, g.BackwardEdgeVector()); err != nil {
			return err
		}
	}
	if nl := g.NodeLabels(); nl != nil {
		if err := writeUint32Slice(prefix+suffixLabels, toUint32Labels(nl)); err != nil {
			return err
		}
	}
	if err := writeAux(prefix+suffixAux, auxRecord{
		NumNodes:     g.NodeCount(),
		NumEdges:     g.EdgeCount(),
		Directed:     g.IsDirected(),
		NodeLabelMap: g.NodeLabelMap().Labels(),
		EdgeLabelMap: g.EdgeLabelMap().Labels(),
	}); err != nil {
		return err
	}
	return nil
}

// Load reads a Static Graph back from disk under prefix using ordinary
// (non-mapped) reads.
func Load(prefix string) (*graph.Static, error) {
	aux, err := readAux(prefix + suffixAux)
	if err != nil {
		return nil, err
	}
	fwd, err := readEdgeVector(prefix, dirOut)
	if err != nil {
		return nil, err
	}
	var bwd *csr.EdgeVector
	if aux.Directed {
		bwd, err = readEdgeVector(prefix, dirIn)
		if err != nil {
			return nil, err
		}
	}
	var nodeLabels []ids.LabelID
	nlPath := prefix + suffixLabels
	if _, err := os.Stat(nlPath); err == nil {
		raw, err := readUint32Slice(nlPath)
		if err != nil {
			return nil, err
		}
		nodeLabels = labelIDSlice(raw)
	}

	nodeLabelMap := labelmap.New()
	for _, l := range aux.NodeLabelMap {
		nodeLabelMap.Add(l)
	}
	edgeLabelMap := labelmap.New()
	for _, l := range aux.EdgeLabelMap {
		edgeLabelMap.Add(l)
	}

	return graph.New(aux.NumNodes, aux.Directed, fwd, bwd, nodeLabels, nodeLabelMap, edgeLabelMap), nil
}
