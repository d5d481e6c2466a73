package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/predicate"
)

func TestLeafComparisons(t *testing.T) {
	props := map[string]interface{}{"age": 30, "name": "jack"}

	ok, err := predicate.Gt("age", 20).Eval(props)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = predicate.Eq("name", "jack").Eval(props)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = predicate.Lte("age", 30).Eval(props)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAndOrNot(t *testing.T) {
	props := map[string]interface{}{"age": 30, "name": "jack"}

	p := predicate.And(predicate.Gt("age", 20), predicate.Eq("name", "jack"))
	ok, err := p.Eval(props)
	require.NoError(t, err)
	require.True(t, ok)

	p = predicate.Or(predicate.Lt("age", 10), predicate.Eq("name", "jack"))
	ok, err = p.Eval(props)
	require.NoError(t, err)
	require.True(t, ok)

	p = predicate.Not(predicate.Eq("name", "jack"))
	ok, err = p.Eval(props)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTypeMismatchErrors(t *testing.T) {
	props := map[string]interface{}{"age": 30}

	_, err := predicate.Gt("age", "thirty").Eval(props)
	require.ErrorIs(t, err, predicate.ErrPredicateType)

	_, err = predicate.Eq("age", "30").Eval(props)
	require.ErrorIs(t, err, predicate.ErrPredicateType)
}

func TestMissingPropertyComparesAsNil(t *testing.T) {
	props := map[string]interface{}{}

	ok, err := predicate.Eq("missing", nil).Eval(props)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = predicate.Neq("missing", "x").Eval(props)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvalDoesNotMutateProps(t *testing.T) {
	props := map[string]interface{}{"age": 30, "name": "jack"}
	snapshot := map[string]interface{}{"age": 30, "name": "jack"}

	p := predicate.And(predicate.Gt("age", 20), predicate.Eq("name", "jack"))
	for i := 0; i < 3; i++ {
		ok, err := p.Eval(props)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, snapshot, props)
}
