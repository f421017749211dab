package cube

import (
	"fmt"
	"slices"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// DimensionKeys returns the distinct values of dims over the leaf cells of r.
//
// A nil dims selects every dimension of r. Each list is sorted with the
// comparer at the same position, or key.Natural when none is given.
//
// Returns:
//   - [][]key.Value: One sorted list per requested dimension
//   - error: ErrUnknownDimension for a name r does not have
func DimensionKeys(r Reader, dims []string, comparers ...key.Comparer) ([][]key.Value, error) {
	if dims == nil {
		dims = r.Dimensions()
	}

	idx := make([]int, len(dims))
	seen := make([]*key.Map[struct{}], len(dims))
	for d, name := range dims {
		i := slices.Index(r.Dimensions(), name)
		if i < 0 {
			return nil, fmt.Errorf("dimension keys: %q: %w", name, errs.ErrUnknownDimension)
		}
		idx[d] = i
		seen[d] = key.NewMap[struct{}](0)
	}

	for k := range r.All() {
		for d, i := range idx {
			seen[d].GetOrInsert(k[i], func() struct{} { return struct{}{} })
		}
	}

	out := make([][]key.Value, len(dims))
	for d := range dims {
		entries := seen[d].Entries()
		vals := make([]key.Value, len(entries))
		for j := range entries {
			vals[j] = entries[j].Key
		}
		cmp := key.Natural
		if d < len(comparers) && comparers[d] != nil {
			cmp = comparers[d]
		}
		slices.SortStableFunc(vals, (func(a, b key.Value) int)(cmp))
		out[d] = vals
	}

	return out, nil
}
