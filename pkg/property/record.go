package property

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Record is the self-describing value stored under every node/edge
// key: an optional label plus a flat attribute map. JSON keeps the
// encoding stable across runs and self-describing.
type Record struct {
	Label      *ids.LabelID           `json:"label,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
}

func encodeRecord(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("property: encoding record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("property: decoding record: %w", err)
	}
	if r.Attributes == nil {
		r.Attributes = map[string]interface{}{}
	}
	return r, nil
}

// project returns the subset of r.Attributes named by names. A nil
// names slice means "all attributes".
func project(r Record, names []string) map[string]interface{} {
	if names == nil {
		return r.Attributes
	}
	out := make(map[string]interface{}, len(names))
	for _, n := range names {
		if v, ok := r.Attributes[n]; ok {
			out[n] = v
		}
	}
	return out
}

const (
	prefixNode byte = 0x01
	prefixEdge byte = 0x02
)

// nodeKey encodes a fixed-width little-endian node key.
func nodeKey(id ids.NodeID) []byte {
	key := make([]byte, 5)
	key[0] = prefixNode
	binary.LittleEndian.PutUint32(key[1:], uint32(id))
	return key
}

// edgeKey encodes a fixed-width little-endian (src,dst) key. Directed
// graphs key on (src,dst) as given; undirected graphs normalize to
// (min,max) so the same property is found from either endpoint order.
func edgeKey(src, dst ids.NodeID, directed bool) []byte {
	if !directed && src > dst {
		src, dst = dst, src
	}
	key := make([]byte, 9)
	key[0] = prefixEdge
	binary.LittleEndian.PutUint32(key[1:5], uint32(src))
	binary.LittleEndian.PutUint32(key[5:9], uint32(dst))
	return key
}

func decodeNodeKey(key []byte) (ids.NodeID, bool) {
	if len(key) != 5 || key[0] != prefixNode {
		return 0, false
	}
	return ids.NodeID(binary.LittleEndian.Uint32(key[1:])), true
}

func decodeEdgeKey(key []byte) (ids.NodeID, ids.NodeID, bool) {
	if len(key) != 9 || key[0] != prefixEdge {
		return 0, 0, false
	}
	return ids.NodeID(binary.LittleEndian.Uint32(key[1:5])), ids.NodeID(binary.LittleEndian.Uint32(key[5:9])), true
}
