package aggregator

import (
	"math"

	"github.com/arloliu/cubo/convert"
	"github.com/arloliu/cubo/key"
)

// VarianceType selects the statistic a Variance aggregator reports as its value.
type VarianceType uint8

const (
	PopulationVariance VarianceType = iota // M2/n
	SampleVariance                         // M2/(n-1)
	PopulationStdDev                       // sqrt(M2/n)
	SampleStdDev                           // sqrt(M2/(n-1))
)

func (t VarianceType) String() string {
	switch t {
	case PopulationVariance:
		return "Variance"
	case SampleVariance:
		return "Sample Variance"
	case PopulationStdDev:
		return "Standard Deviation"
	case SampleStdDev:
		return "Sample Standard Deviation"
	default:
		return "Unknown"
	}
}

// Variance computes variance or standard deviation of a numeric field in a
// single pass with Welford's algorithm.
type Variance struct {
	Field string
	Type  VarianceType
}

var _ Factory = Variance{}

func (f Variance) Create() Aggregator { return &VarianceAggregator{field: f.Field, typ: f.Type} }

func (f Variance) FromState(state key.Value) (Aggregator, error) {
	items, err := stateArray("variance", state, 3)
	if err != nil {
		return nil, err
	}
	n, err := stateCount("variance", items[0])
	if err != nil {
		return nil, err
	}
	mean, err := stateFloat("variance", items[1])
	if err != nil {
		return nil, err
	}
	m2, err := stateFloat("variance", items[2])
	if err != nil {
		return nil, err
	}

	return &VarianceAggregator{field: f.Field, typ: f.Type, count: n, mean: mean, m2: m2}, nil
}

func (f Variance) Equal(other Factory) bool {
	o, ok := other.(Variance)
	return ok && o.Field == f.Field && o.Type == f.Type
}

func (f Variance) String() string { return f.Type.String() + " of " + f.Field }

// VarianceAggregator is created by Variance.
type VarianceAggregator struct {
	field string
	typ   VarianceType
	count uint64
	mean  float64
	m2    float64
}

var _ Aggregator = (*VarianceAggregator)(nil)

func (a *VarianceAggregator) Push(record any, get Accessor) error {
	x, ok := convert.ToFloat64(fieldValue(record, get, a.field))
	if !ok || math.IsNaN(x) {
		return nil
	}

	a.count++
	delta := x - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (x - a.mean)

	return nil
}

// Value returns the statistic selected by the factory type as a Float64.
func (a *VarianceAggregator) Value() key.Value {
	switch a.typ {
	case SampleVariance:
		return key.Float64(a.SampleVariance())
	case PopulationStdDev:
		return key.Float64(a.StdDev())
	case SampleStdDev:
		return key.Float64(a.SampleStdDev())
	default:
		return key.Float64(a.Variance())
	}
}

func (a *VarianceAggregator) Count() uint64 { return a.count }

// Mean returns the running mean, NaN when empty.
func (a *VarianceAggregator) Mean() float64 {
	if a.count == 0 {
		return math.NaN()
	}

	return a.mean
}

// Variance returns the population variance, NaN for fewer than two values.
func (a *VarianceAggregator) Variance() float64 {
	if a.count < 2 {
		return math.NaN()
	}

	return a.m2 / float64(a.count)
}

// SampleVariance returns the sample variance, NaN for fewer than two values.
func (a *VarianceAggregator) SampleVariance() float64 {
	if a.count < 2 {
		return math.NaN()
	}

	return a.m2 / float64(a.count-1)
}

// StdDev returns the population standard deviation.
func (a *VarianceAggregator) StdDev() float64 { return math.Sqrt(a.Variance()) }

// SampleStdDev returns the sample standard deviation.
func (a *VarianceAggregator) SampleStdDev() float64 { return math.Sqrt(a.SampleVariance()) }

// Merge combines two partitions with the parallel variance formula.
func (a *VarianceAggregator) Merge(other Aggregator) error {
	o, ok := other.(*VarianceAggregator)
	if !ok {
		return mismatch("variance", a, other)
	}
	if o.count == 0 {
		return nil
	}
	if a.count == 0 {
		a.count, a.mean, a.m2 = o.count, o.mean, o.m2
		return nil
	}

	na, nb := float64(a.count), float64(o.count)
	n := na + nb
	delta := a.mean - o.mean
	a.mean = (na*a.mean + nb*o.mean) / n
	a.m2 = a.m2 + o.m2 + delta*delta*na*nb/n
	a.count += o.count

	return nil
}

func (a *VarianceAggregator) State() key.Value {
	return key.Array(key.Uint64(a.count), key.Float64(a.mean), key.Float64(a.m2))
}
