// Package predicate evaluates the boolean predicate tree a Cypher-style
// text parser would produce; the parser itself is an external
// collaborator, only the tree and its evaluator live here.
//
// Comparison semantics are strict: a string/number mismatch is a type
// error, never a silent coercion.
package predicate

import (
	"fmt"
)

// Op identifies a predicate node's operator.
type Op int

const (
	// Leaf comparisons, evaluated against a named property.
	OpEq Op = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte

	// Boolean combinators over sub-predicates.
	OpAnd
	OpOr
	OpNot
)

// Predicate is one node of a boolean predicate tree. Comparison nodes
// (Op < OpAnd) read Property and compare it against Value; combinator
// nodes read Left (and Right, for And/Or) sub-predicates. Not uses only
// Left.
type Predicate struct {
	Op Op

	Property string
	Value    interface{}

	Left  *Predicate
	Right *Predicate
}

// Eq builds a leaf equality predicate.
func Eq(property string, value interface{}) *Predicate {
	return &Predicate{Op: OpEq, Property: property, Value: value}
}

// Neq builds a leaf inequality predicate.
func Neq(property string, value interface{}) *Predicate {
	return &Predicate{Op: OpNeq, Property: property, Value: value}
}

// Lt builds a leaf less-than predicate.
func Lt(property string, value interface{}) *Predicate {
	return &Predicate{Op: OpLt, Property: property, Value: value}
}

// Lte builds a leaf less-than-or-equal predicate.
func Lte(property string, value interface{}) *Predicate {
	return &Predicate{Op: OpLte, Property: property, Value: value}
}

// Gt builds a leaf greater-than predicate.
func Gt(property string, value interface{}) *Predicate {
	return &Predicate{Op: OpGt, Property: property, Value: value}
}

// Gte builds a leaf greater-than-or-equal predicate.
func Gte(property string, value interface{}) *Predicate {
	return &Predicate{Op: OpGte, Property: property, Value: value}
}

// And combines two predicates with logical AND.
func And(left, right *Predicate) *Predicate {
	return &Predicate{Op: OpAnd, Left: left, Right: right}
}

// Or combines two predicates with logical OR.
func Or(left, right *Predicate) *Predicate {
	return &Predicate{Op: OpOr, Left: left, Right: right}
}

// Not negates a predicate.
func Not(p *Predicate) *Predicate {
	return &Predicate{Op: OpNot, Left: p}
}

// Eval evaluates p against the property map props, never mutating it.
// Returns ErrPredicateType if a comparison spans incompatible JSON
// types (string vs number) or a sub-expression that isn't itself a
// boolean predicate is evaluated as one.
func (p *Predicate) Eval(props map[string]interface{}) (bool, error) {
	switch p.Op {
	case OpAnd:
		left, err := p.Left.Eval(props)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil // short-circuit, matches Cypher AND semantics
		}
		return p.Right.Eval(props)

	case OpOr:
		left, err := p.Left.Eval(props)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return p.Right.Eval(props)

	case OpNot:
		inner, err := p.Left.Eval(props)
		if err != nil {
			return false, err
		}
		return !inner, nil

	default:
		return p.evalComparison(props)
	}
}

func (p *Predicate) evalComparison(props map[string]interface{}) (bool, error) {
	actual, exists := props[p.Property]
	if !exists {
		actual = nil
	}
	expected := p.Value

	if p.Op == OpEq || p.Op == OpNeq {
		eq, err := jsonEqual(actual, expected)
		if err != nil {
			return false, err
		}
		if p.Op == OpNeq {
			return !eq, nil
		}
		return eq, nil
	}

	cmp, err := jsonCompare(actual, expected)
	if err != nil {
		return false, err
	}
	switch p.Op {
	case OpLt:
		return cmp < 0, nil
	case OpLte:
		return cmp <= 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGte:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("%w: unknown comparison op %d", ErrPredicateType, p.Op)
	}
}
