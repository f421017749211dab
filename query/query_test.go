package query

import (
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/cube"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

var wc = key.Wildcard()

var orders = []map[string]any{
	{"country": "USA", "product": "Apple", "year": 2023, "qty": 2, "price": 10},
	{"country": "USA", "product": "Pear", "year": 2023, "qty": 3, "price": 5},
	{"country": "UK", "product": "Apple", "year": 2024, "qty": 1, "price": 10},
	{"country": "UK", "product": "Apple", "year": 2023, "qty": 4, "price": 12},
	{"country": "DE", "product": "Kiwi", "year": 2024, "qty": 6, "price": 2},
}

var ordersFactory = aggregator.Composite{Factories: []aggregator.Factory{
	aggregator.Count{},
	aggregator.Sum{Field: "qty"},
	aggregator.Sum{Field: "price"},
}}

func newSource(t *testing.T, f aggregator.Factory) *cube.Cube {
	t.Helper()
	c, err := cube.New([]string{"country", "product", "year"}, f, cube.WithLogger(testr.New(t)))
	require.NoError(t, err)
	require.NoError(t, cube.ProcessSlice(c, orders, aggregator.MapAccessor))

	return c
}

func requireValue(t *testing.T, c *cube.Cube, want key.Value, k ...any) {
	t.Helper()
	a, err := c.Get(key.T(k...))
	require.NoError(t, err)
	require.True(t, key.Equal(want, a.Value()), "key %v: want %s, got %s", k, want, a.Value())
}

func dec(s string) key.Value {
	return key.Decimal(decimal.RequireFromString(s))
}

func avgPrice(children []aggregator.Aggregator) key.Value {
	n := children[1].Count()
	if n == 0 {
		return key.Null()
	}
	sum := children[0].(*aggregator.SumAggregator).Total()

	return key.Decimal(sum.Div(decimal.NewFromInt(int64(n))))
}

// ==============================================================================
// Projection
// ==============================================================================

func TestBuilder_Execute_Identity(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).Execute()
	require.NoError(t, err)

	assert.Equal(t, src.Dimensions(), res.Dimensions())
	assert.True(t, res.Factory().Equal(src.Factory()))
	require.Equal(t, src.Len(), res.Len())
	for k, a := range src.All() {
		requireValue(t, res, a.Value(), []any{k[0], k[1], k[2]}...)
	}
}

func TestBuilder_Dimension(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).Dimension("country").Measure(1).Execute()
	require.NoError(t, err)

	assert.Equal(t, []string{"country"}, res.Dimensions())
	assert.True(t, res.Factory().Equal(aggregator.Sum{Field: "qty"}))
	assert.Equal(t, 3, res.Len())
	requireValue(t, res, key.Int64(5), "USA")
	requireValue(t, res, key.Int64(5), "UK")
	requireValue(t, res, key.Int64(6), "DE")
	requireValue(t, res, key.Int64(16), wc)
}

func TestBuilder_Dimension_Reordered(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).Dimension("year").Dimension("country").Measure(0).Execute()
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "country"}, res.Dimensions())
	requireValue(t, res, key.Uint64(2), 2023, "USA")
	requireValue(t, res, key.Uint64(1), 2024, "UK")
	requireValue(t, res, key.Uint64(3), 2023, wc)
	requireValue(t, res, key.Uint64(2), wc, "UK")
}

func TestBuilder_Execute_MergesCollapsedCells(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).Dimension("product").Execute()
	require.NoError(t, err)

	require.Equal(t, 3, res.Len())
	requireValue(t, res, key.Array(key.Uint64(3), key.Int64(7), key.Int64(32)), "Apple")
	requireValue(t, res, key.Array(key.Uint64(1), key.Int64(6), key.Int64(2)), "Kiwi")

	// the source cells were merged into copies
	requireValue(t, src, key.Array(key.Uint64(1), key.Int64(2), key.Int64(10)), "USA", "Apple", 2023)
}

func TestBuilder_DerivedDimension(t *testing.T) {
	src := newSource(t, ordersFactory)

	region := func(k key.Tuple) key.Value {
		switch k[0].Str() {
		case "USA":
			return key.String("NA")
		case "DE":
			return key.Null()
		default:
			return key.String("EU")
		}
	}
	res, err := New(src).DerivedDimension("region", region).Dimension("year").Measure(0).Execute()
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "year"}, res.Dimensions())
	requireValue(t, res, key.Uint64(2), "NA", 2023)
	requireValue(t, res, key.Uint64(1), "EU", 2023)
	requireValue(t, res, key.Uint64(2), "EU", wc)
	requireValue(t, res, key.Uint64(1), nil, 2024)
}

func TestBuilder_DerivedDimension_Wildcard(t *testing.T) {
	src := newSource(t, aggregator.Count{})

	_, err := New(src).
		DerivedDimension("all", func(key.Tuple) key.Value { return key.Wildcard() }).
		Execute()
	require.ErrorIs(t, err, errs.ErrWildcardInLeaf)
}

// ==============================================================================
// Measures
// ==============================================================================

func TestBuilder_Measure_Composite(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).Dimension("country").Measure(2).Measure(0).Execute()
	require.NoError(t, err)

	want := aggregator.Composite{Factories: []aggregator.Factory{aggregator.Sum{Field: "price"}, aggregator.Count{}}}
	assert.True(t, res.Factory().Equal(want))
	requireValue(t, res, key.Array(key.Int64(22), key.Uint64(2)), "UK")
	requireValue(t, res, key.Array(key.Int64(39), key.Uint64(5)), wc)
}

func TestBuilder_Measure_SingleSource(t *testing.T) {
	src := newSource(t, aggregator.Sum{Field: "qty"})

	res, err := New(src).Dimension("product").Measure(0).Execute()
	require.NoError(t, err)
	requireValue(t, res, key.Int64(7), "Apple")

	_, err = New(src).Measure(1).Execute()
	require.ErrorIs(t, err, errs.ErrInvalidMeasure)
}

func TestBuilder_FormulaMeasure(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).
		Dimension("country").
		FormulaMeasure("avg price", avgPrice, 2, 0).
		Execute()
	require.NoError(t, err)

	assert.Equal(t, "avg price", res.Factory().String())
	requireValue(t, res, dec("7.5"), "USA")
	requireValue(t, res, dec("11"), "UK")
	requireValue(t, res, dec("7.8"), wc)
}

func TestBuilder_FormulaMeasure_WithParents(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).
		Dimension("product").
		Measure(0).
		FormulaMeasure("avg price", avgPrice, 2, 0).
		Execute()
	require.NoError(t, err)

	want := key.Decimal(decimal.NewFromInt(32).Div(decimal.NewFromInt(3)))
	requireValue(t, res, key.Array(key.Uint64(3), want), "Apple")
}

func TestBuilder_CustomMeasure(t *testing.T) {
	src := newSource(t, ordersFactory)

	weighted := func(e cube.Entry) (aggregator.Aggregator, error) {
		return aggregator.Count{}.FromState(key.Uint64(e.Value.Count() * 10))
	}
	res, err := New(src).Dimension("country").CustomMeasure(aggregator.Count{}, weighted).Execute()
	require.NoError(t, err)
	requireValue(t, res, key.Uint64(20), "USA")
	requireValue(t, res, key.Uint64(50), wc)

	boom := errors.New("boom")
	_, err = New(src).CustomMeasure(aggregator.Count{}, func(cube.Entry) (aggregator.Aggregator, error) {
		return nil, boom
	}).Execute()
	require.ErrorIs(t, err, boom)
}

// ==============================================================================
// Filters
// ==============================================================================

func TestBuilder_Where(t *testing.T) {
	src := newSource(t, ordersFactory)

	tests := []struct {
		name   string
		build  func(b *Builder) *Builder
		leaves int
		total  key.Value
	}{
		{"single value", func(b *Builder) *Builder { return b.Where("year", 2023) }, 3, key.Int64(9)},
		{"coerced value", func(b *Builder) *Builder { return b.Where("year", uint16(2024)) }, 2, key.Int64(7)},
		{"value set", func(b *Builder) *Builder { return b.Where("country", "USA", "DE") }, 3, key.Int64(11)},
		{"no values", func(b *Builder) *Builder { return b.Where("country") }, 5, key.Int64(16)},
		{"conjunction", func(b *Builder) *Builder {
			return b.Where("year", 2023).Where("product", "Apple")
		}, 2, key.Int64(6)},
		{"no match", func(b *Builder) *Builder { return b.Where("country", "FR") }, 0, key.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.build(New(src).Measure(1)).Execute()
			require.NoError(t, err)
			assert.Equal(t, tt.leaves, res.Len())
			requireValue(t, res, tt.total, wc, wc, wc)
		})
	}
}

func TestBuilder_Where_Missing(t *testing.T) {
	src := newSource(t, ordersFactory)
	noProduct := []map[string]any{{"country": "FR", "year": 2024, "qty": 5, "price": 1}}
	require.NoError(t, cube.ProcessSlice(src, noProduct, aggregator.MapAccessor))

	res, err := New(src).Measure(1).Where("product", nil).Execute()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	requireValue(t, res, key.Int64(5), "FR", nil, 2024)

	res, err = New(src).Measure(1).Where("product", nil, "Kiwi").Execute()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())
	requireValue(t, res, key.Int64(11), wc, wc, wc)
}

func TestBuilder_WhereFunc(t *testing.T) {
	src := newSource(t, ordersFactory)

	res, err := New(src).
		Dimension("country").
		Measure(0).
		WhereFunc("product", func(v key.Value) bool { return v.Str() != "Apple" }).
		Execute()
	require.NoError(t, err)

	assert.Equal(t, 2, res.Len())
	requireValue(t, res, key.Uint64(1), "USA")
	requireValue(t, res, key.Uint64(1), "DE")
}

func TestBuilder_Filter(t *testing.T) {
	src := newSource(t, ordersFactory)

	bigOrders := func(e cube.Entry) bool {
		qty := e.Value.(*aggregator.CompositeAggregator).Child(1).Value()
		return key.Compare(qty, key.Int64(3)) >= 0
	}
	res, err := New(src).Dimension("country").Measure(1).Filter(bigOrders).Execute()
	require.NoError(t, err)

	assert.Equal(t, 3, res.Len())
	requireValue(t, res, key.Int64(13), wc)
}

// ==============================================================================
// Options and errors
// ==============================================================================

func TestBuilder_Execute_EagerTotals(t *testing.T) {
	src := newSource(t, ordersFactory)

	lazy, err := New(src).Dimension("country").Dimension("product").Measure(1).Execute()
	require.NoError(t, err)
	eager, err := New(src).Dimension("country").Dimension("product").Measure(1).
		Execute(cube.WithLazyTotals(false))
	require.NoError(t, err)

	assert.False(t, eager.LazyTotals())
	for _, k := range []key.Tuple{key.T(wc, wc), key.T("UK", wc), key.T(wc, "Apple"), key.T("DE", "Kiwi")} {
		assert.True(t, key.Equal(lazy.Value(k), eager.Value(k)), "key %s", k)
	}
}

func TestBuilder_Errors(t *testing.T) {
	src := newSource(t, ordersFactory)

	tests := []struct {
		name  string
		build func(b *Builder) *Builder
		want  error
	}{
		{"unknown dimension", func(b *Builder) *Builder { return b.Dimension("city") }, errs.ErrUnknownDimension},
		{"unknown where dimension", func(b *Builder) *Builder { return b.Where("city", "Paris") }, errs.ErrUnknownDimension},
		{"unknown where func dimension", func(b *Builder) *Builder {
			return b.WhereFunc("city", func(key.Value) bool { return true })
		}, errs.ErrUnknownDimension},
		{"measure out of range", func(b *Builder) *Builder { return b.Measure(3) }, errs.ErrInvalidMeasure},
		{"negative measure", func(b *Builder) *Builder { return b.Measure(-1) }, errs.ErrInvalidMeasure},
		{"formula parent", func(b *Builder) *Builder { return b.FormulaMeasure("f", avgPrice, 0, 7) }, errs.ErrInvalidMeasure},
		{"nil custom measure", func(b *Builder) *Builder { return b.CustomMeasure(nil, nil) }, errs.ErrInvalidMeasure},
		{"nil derived dimension", func(b *Builder) *Builder { return b.DerivedDimension("d", nil) }, errs.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.build(New(src))
			res, err := b.Execute()
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, b.Err(), tt.want)
			assert.Nil(t, res)
		})
	}
}

func TestBuilder_Errors_FirstKept(t *testing.T) {
	src := newSource(t, ordersFactory)

	b := New(src).Dimension("city").Measure(9).Dimension("country")
	require.ErrorIs(t, b.Err(), errs.ErrUnknownDimension)

	_, err := b.Execute()
	require.ErrorIs(t, err, errs.ErrUnknownDimension)
	require.NotErrorIs(t, err, errs.ErrInvalidMeasure)
}

func BenchmarkBuilder_Execute(b *testing.B) {
	src, err := cube.New([]string{"a", "b", "c"}, aggregator.Sum{Field: "v"})
	require.NoError(b, err)
	records := make([]map[string]any, 10_000)
	for i := range records {
		records[i] = map[string]any{"a": i % 50, "b": i % 7, "c": i % 13, "v": i}
	}
	require.NoError(b, cube.ProcessSlice(src, records, aggregator.MapAccessor))

	for b.Loop() {
		if _, err := New(src).Dimension("a").Dimension("c").Execute(); err != nil {
			b.Fatal(err)
		}
	}
}
