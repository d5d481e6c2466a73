package predicate

import "errors"

// ErrPredicateType is returned when a comparison spans incompatible
// JSON value kinds.
var ErrPredicateType = errors.New("predicate: incompatible comparison types")
