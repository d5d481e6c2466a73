package catalog

import "github.com/UNSW-database/graphlib/pkg/ids"

// Direction is the side of an edge an Adjacency List Descriptor walks:
// Fwd follows a vertex's forward (out-) adjacency list, Bwd its backward
// (in-) adjacency list.
type Direction int

const (
	Fwd Direction = iota
	Bwd
)

func (d Direction) String() string {
	if d == Fwd {
		return "F"
	}
	return "B"
}

// ALD (Adjacency List Descriptor) names one extension step a planner
// considers: "from FromQueryVertex, walk Direction's adjacency list
// along Label, producing a candidate for ToQueryVertex". A planner
// extend step carries one or more ALDs (an intersection of several
// adjacency lists), and the Catalog's icost/selectivity tables are
// keyed by the ALD set's canonical string form.
type ALD struct {
	FromQueryVertex string
	ToQueryVertex   string
	Direction       Direction
	Label           ids.LabelID
}
