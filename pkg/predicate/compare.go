package predicate

import "fmt"

// jsonEqual compares two JSON-decoded values for equality. nil equals
// only nil; numbers compare numerically regardless of underlying Go
// numeric type (property records decode through encoding/json, which
// always produces float64 for numbers); strings and bools compare
// directly. A string-vs-number pairing, or a bool against any other
// non-nil value, is a type error rather than a silent false.
func jsonEqual(a, b interface{}) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	an, aIsNum := toFloat64(a)
	bn, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		return an == bn, nil
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return as == bs, nil
	}
	ab, aIsBool := a.(bool)
	bb, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		return ab == bb, nil
	}
	return false, fmt.Errorf("%w: comparing %T and %T", ErrPredicateType, a, b)
}

// jsonCompare orders two JSON-decoded values, returning <0, 0, >0.
// Only numbers and strings support ordering; a numeric/string mismatch
// and an attempt to order anything else (bools, nil, nested maps/
// lists) are both type errors.
func jsonCompare(a, b interface{}) (int, error) {
	an, aIsNum := toFloat64(a)
	bn, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		switch {
		case an < bn:
			return -1, nil
		case an > bn:
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, fmt.Errorf("%w: ordering %T and %T", ErrPredicateType, a, b)
}

// toFloat64 reports whether v is a JSON-decoded number and its value.
// encoding/json always decodes numbers as float64 into interface{}, but
// Go-constructed property maps (e.g. from pkg/property raw inserts, or
// test fixtures) may carry native int/int64/float32; all are accepted.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
