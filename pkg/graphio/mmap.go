package graphio

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/labelmap"
)

// mappedFile is one mmap'd region plus the handle needed to unmap it.
type mappedFile struct {
	data []byte
}

func mapFile(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graphio: opening %s for mmap: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("graphio: stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &mappedFile{data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("graphio: mmap %s: %w", path, err)
	}
	return &mappedFile{data: data}, nil
}

func (m *mappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	return unix.Munmap(m.data)
}

// uint64s reinterprets the mapped region as a []uint64 without
// copying. The on-disk byte order is little-endian, so this view is
// only valid on little-endian hosts; mappings are page-aligned, which
// satisfies the element alignment.
func (m *mappedFile) uint64s() []uint64 {
	if len(m.data)%8 != 0 {
		panic("graphio: mapped file length not a multiple of 8")
	}
	if len(m.data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&m.data[0])), len(m.data)/8)
}

// nodeIDs reinterprets the mapped region as a []ids.NodeID without
// copying.
func (m *mappedFile) nodeIDs() []ids.NodeID {
	if len(m.data)%4 != 0 {
		panic("graphio: mapped file length not a multiple of 4")
	}
	if len(m.data) == 0 {
		return nil
	}
	return unsafe.Slice((*ids.NodeID)(unsafe.Pointer(&m.data[0])), len(m.data)/4)
}

// labelIDs reinterprets the mapped region as a []ids.LabelID without
// copying.
func (m *mappedFile) labelIDs() []ids.LabelID {
	if len(m.data)%4 != 0 {
		panic("graphio: mapped file length not a multiple of 4")
	}
	if len(m.data) == 0 {
		return nil
	}
	return unsafe.Slice((*ids.LabelID)(unsafe.Pointer(&m.data[0])), len(m.data)/4)
}

// MappedGraph is a Static Graph whose Edge Vector and node-label
// backing arrays live in mmap'd regions rather than heap slices. It
// satisfies graph.Trait/graph.DiTrait identically to graph.Static;
// Close must be called to release the mappings.
type MappedGraph struct {
	*graph.Static
	files []*mappedFile
}

// Close unmaps every region backing this graph. Call exactly once; a
// second call is a programmer error (double-unmap).
func (mg *MappedGraph) Close() error {
	for _, f := range mg.files {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// readEdgeVectorMapped mmaps one direction's {offsets,edges,labels}
// files under prefix+dir and reinterprets the mapped bytes in place as
// the fixed-width integer sequences, without copying.
func readEdgeVectorMapped(prefix, dir string) (*csr.EdgeVector, []*mappedFile, error) {
	var opened []*mappedFile

	offMap, err := mapFile(prefix + dir + suffixOffsets)
	if err != nil {
		return nil, opened, err
	}
	opened = append(opened, offMap)

	edgesMap, err := mapFile(prefix + dir + suffixEdges)
	if err != nil {
		return nil, opened, err
	}
	opened = append(opened, edgesMap)

	offsets := offMap.uint64s()
	edges := edgesMap.nodeIDs()

	labelsPath := prefix + dir + suffixLabels
	if _, statErr := os.Stat(labelsPath); statErr == nil {
		labelsMap, err := mapFile(labelsPath)
		if err != nil {
			return nil, opened, err
		}
		opened = append(opened, labelsMap)
		return csr.NewWithLabels(offsets, edges, labelsMap.labelIDs()), opened, nil
	}
	return csr.New(offsets, edges), opened, nil
}

// LoadMapped reads a Static Graph back from disk under prefix with its
// edge vector and node-label backing arrays memory-mapped rather than
// heap-allocated, for graphs too large to hold on the heap. The aux
// record itself (small, fixed-size) is read normally.
//
// The returned graph answers nodes/edges/degree/neighbors identically
// to the graph Save wrote.
func LoadMapped(prefix string) (*MappedGraph, error) {
	aux, err := readAux(prefix + suffixAux)
	if err != nil {
		return nil, err
	}

	var opened []*mappedFile
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	fwd, fwdFiles, err := readEdgeVectorMapped(prefix, dirOut)
	opened = append(opened, fwdFiles...)
	if err != nil {
		closeAll()
		return nil, err
	}

	var bwd *csr.EdgeVector
	if aux.Directed {
		var bwdFiles []*mappedFile
		bwd, bwdFiles, err = readEdgeVectorMapped(prefix, dirIn)
		opened = append(opened, bwdFiles...)
		if err != nil {
			closeAll()
			return nil, err
		}
	}

	var nodeLabels []ids.LabelID
	nlPath := prefix + suffixLabels
	if _, statErr := os.Stat(nlPath); statErr == nil {
		nlMap, err := mapFile(nlPath)
		if err != nil {
			closeAll()
			return nil, err
		}
		opened = append(opened, nlMap)
		nodeLabels = nlMap.labelIDs()
	}

	nodeLabelMap := labelmap.New()
	for _, l := range aux.NodeLabelMap {
		nodeLabelMap.Add(l)
	}
	edgeLabelMap := labelmap.New()
	for _, l := range aux.EdgeLabelMap {
		edgeLabelMap.Add(l)
	}

	static := graph.New(aux.NumNodes, aux.Directed, fwd, bwd, nodeLabels, nodeLabelMap, edgeLabelMap)
	return &MappedGraph{Static: static, files: opened}, nil
}

var (
	_ graph.Trait   = (*MappedGraph)(nil)
	_ graph.DiTrait = (*MappedGraph)(nil)
)
