// Package aggregator implements the measure algorithms of a cube.
//
// An Aggregator is a mutable accumulator bound to one cube cell. It ingests
// records through an Accessor, reports a current value and a contribution
// count, merges with a peer of the same kind and externalizes its content as
// a state Value that the matching Factory can restore.
//
// Factories are plain value types carrying their construction parameters:
//
//	f := aggregator.Composite{Factories: []aggregator.Factory{
//		aggregator.Count{},
//		aggregator.Sum{Field: "amount"},
//		aggregator.Variance{Field: "latency", Type: aggregator.SampleStdDev},
//	}}
//
// Numeric aggregators skip values that do not convert to a number. Ordering
// aggregators (Min, Max, Mode) fail with errs.ErrNotOrderable for values that
// have no natural order. Merging aggregators of different kinds fails with
// errs.ErrAggregatorMismatch.
package aggregator

import (
	"fmt"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// Accessor extracts the value of a named field from a record.
type Accessor func(record any, field string) key.Value

// Aggregator accumulates the measure of one cube cell.
//
// Aggregators are not safe for concurrent use.
type Aggregator interface {
	// Push ingests one record. Values the aggregator cannot use are skipped.
	Push(record any, get Accessor) error
	// Value returns the current measure value. Empty aggregators return key.Null
	// unless the measure defines another value for no data (Count returns 0).
	Value() key.Value
	// Count returns the number of contributions.
	Count() uint64
	// Merge adds the content of other, which must be of the same kind.
	Merge(other Aggregator) error
	// State returns a compact, serializable form of the aggregator content.
	State() key.Value
}

// Factory creates empty or restored aggregators of one configuration.
type Factory interface {
	// Create returns an empty aggregator.
	Create() Aggregator
	// FromState restores an aggregator from a value returned by Aggregator.State.
	FromState(state key.Value) (Aggregator, error)
	// Equal reports whether other creates aggregators of the same kind and configuration.
	Equal(other Factory) bool
	String() string
}

func mismatch(op string, want Aggregator, got Aggregator) error {
	return fmt.Errorf("%s: merge %T into %T: %w", op, got, want, errs.ErrAggregatorMismatch)
}

func notOrderable(op string, v key.Value) error {
	return fmt.Errorf("%s: push %s value: %w", op, v.Kind(), errs.ErrNotOrderable)
}

func invalidState(op string, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), errs.ErrInvalidState)
}

// stateArray checks that state is an array of n elements.
func stateArray(op string, state key.Value, n int) ([]key.Value, error) {
	if state.Kind() != key.KindArray {
		return nil, invalidState(op, "expected array state, got %s", state.Kind())
	}
	elems := state.Elems()
	if n >= 0 && len(elems) != n {
		return nil, invalidState(op, "expected %d state items, got %d", n, len(elems))
	}

	return elems, nil
}

// stateCount reads a non-negative integer state item.
func stateCount(op string, v key.Value) (uint64, error) {
	switch v.Kind() {
	case key.KindUint8, key.KindUint16, key.KindUint32, key.KindUint64:
		return v.Uint64(), nil
	case key.KindInt8, key.KindInt16, key.KindInt32, key.KindInt64:
		if v.Int64() < 0 {
			return 0, invalidState(op, "negative count %d", v.Int64())
		}

		return uint64(v.Int64()), nil
	default:
		return 0, invalidState(op, "expected integer count, got %s", v.Kind())
	}
}

// stateFloat reads a float state item.
func stateFloat(op string, v key.Value) (float64, error) {
	switch v.Kind() {
	case key.KindFloat32, key.KindFloat64:
		return v.Float64(), nil
	default:
		return 0, invalidState(op, "expected float, got %s", v.Kind())
	}
}

func fieldValue(record any, get Accessor, field string) key.Value {
	if get == nil {
		return key.Null()
	}

	return get(record, field)
}
