package key

// Comparer orders two values, returning -1, 0 or +1.
type Comparer func(a, b Value) int

// Natural is the ascending natural order.
var Natural Comparer = Compare

// NaturalDesc is the descending natural order.
var NaturalDesc Comparer = Reverse(Compare)

// Reverse inverts c.
func Reverse(c Comparer) Comparer {
	return func(a, b Value) int {
		return c(b, a)
	}
}

// SortAs returns a comparer that puts the listed values first, in list order.
// Values not in the list sort after the listed ones in natural order.
func SortAs(order ...Value) Comparer {
	pos := NewMap[int](len(order))
	for i, v := range order {
		pos.GetOrInsert(v, func() int { return i })
	}

	return func(a, b Value) int {
		ia, okA := pos.Get(a)
		ib, okB := pos.Get(b)
		switch {
		case okA && okB:
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			default:
				return 0
			}
		case okA:
			return -1
		case okB:
			return 1
		default:
			return Compare(a, b)
		}
	}
}

// TupleComparer orders tuples lexicographically, using comparers[i] for
// position i and Natural for positions without a comparer.
func TupleComparer(comparers ...Comparer) func(a, b Tuple) int {
	return func(a, b Tuple) int {
		for i := 0; i < len(a) && i < len(b); i++ {
			c := Natural
			if i < len(comparers) && comparers[i] != nil {
				c = comparers[i]
			}
			if r := c(a[i], b[i]); r != 0 {
				return r
			}
		}

		switch {
		case len(a) < len(b):
			return -1
		case len(a) > len(b):
			return 1
		default:
			return 0
		}
	}
}
