package key

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func sortValues(vs []Value, c Comparer) []string {
	slices.SortStableFunc(vs, c)
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}

	return out
}

func TestNatural(t *testing.T) {
	vs := []Value{Int64(3), Null(), Uint8(1), Float64(2.5), Int16(-4)}
	require.Equal(t, []string{"", "-4", "1", "2.5", "3"}, sortValues(vs, Natural))

	vs = []Value{String("b"), String("c"), String("a")}
	require.Equal(t, []string{"c", "b", "a"}, sortValues(vs, NaturalDesc))
}

func TestSortAs(t *testing.T) {
	c := SortAs(String("High"), String("Medium"), String("Low"))

	vs := []Value{String("Low"), String("Aux"), String("High"), String("Medium"), String("Zed"), String("Low")}
	require.Equal(t, []string{"High", "Medium", "Low", "Low", "Aux", "Zed"}, sortValues(vs, c))

	t.Run("numeric coercion applies to list lookup", func(t *testing.T) {
		c := SortAs(Int64(3), Int64(1))
		vs := []Value{Uint8(1), Int8(2), Int32(3)}
		require.Equal(t, []string{"3", "1", "2"}, sortValues(vs, c))
	})

	t.Run("reverse", func(t *testing.T) {
		vs := []Value{String("Low"), String("High")}
		require.Equal(t, []string{"Low", "High"}, sortValues(vs, Reverse(c)))
	})
}

func TestTupleComparer(t *testing.T) {
	cmp := TupleComparer(NaturalDesc)
	tuples := []Tuple{T("a", 2), T("b", 1), T("a", 1), T("b")}
	slices.SortFunc(tuples, cmp)

	require.Equal(t, []string{"(b)", "(b,1)", "(a,1)", "(a,2)"}, []string{
		tuples[0].String(), tuples[1].String(), tuples[2].String(), tuples[3].String(),
	})
}
