package subcube

import (
	"github.com/willf/bitset"

	"github.com/arloliu/cubo/key"
)

// index holds the cached projections of one mask representation.
type index interface {
	lookup(k key.Tuple) (*projection, bool)
	// base returns the smallest cached projection fixing every fixed
	// position of k, nil when only the source qualifies.
	base(k key.Tuple) *projection
	store(k key.Tuple, p *projection)
	len() int
	clear()
}

// wordIndex keys projections by a uint64 mask of fixed positions.
type wordIndex struct {
	slots map[uint64]*projection
}

var _ index = (*wordIndex)(nil)

func newWordIndex() *wordIndex {
	return &wordIndex{slots: make(map[uint64]*projection)}
}

func wordMask(k key.Tuple) uint64 {
	var m uint64
	for i, v := range k {
		if !v.IsWildcard() {
			m |= 1 << uint(i)
		}
	}

	return m
}

func (x *wordIndex) lookup(k key.Tuple) (*projection, bool) {
	p, ok := x.slots[wordMask(k)]
	return p, ok
}

func (x *wordIndex) base(k key.Tuple) *projection {
	find := wordMask(k)
	var best *projection
	for m, p := range x.slots {
		if m&find == find && (best == nil || p.cube.Len() < best.cube.Len()) {
			best = p
		}
	}

	return best
}

func (x *wordIndex) store(k key.Tuple, p *projection) { x.slots[wordMask(k)] = p }

func (x *wordIndex) len() int { return len(x.slots) }

func (x *wordIndex) clear() { clear(x.slots) }

// bitIndex keys projections by a bit set of fixed positions, for any
// dimension count.
type bitIndex struct {
	dims  uint
	masks []*bitset.BitSet
	projs []*projection
}

var _ index = (*bitIndex)(nil)

func newBitIndex(dims int) *bitIndex {
	return &bitIndex{dims: uint(dims)}
}

func (x *bitIndex) mask(k key.Tuple) *bitset.BitSet {
	m := bitset.New(x.dims)
	for i, v := range k {
		if !v.IsWildcard() {
			m.Set(uint(i))
		}
	}

	return m
}

func (x *bitIndex) lookup(k key.Tuple) (*projection, bool) {
	find := x.mask(k)
	for i, m := range x.masks {
		if m.Equal(find) {
			return x.projs[i], true
		}
	}

	return nil, false
}

func (x *bitIndex) base(k key.Tuple) *projection {
	find := x.mask(k)
	var best *projection
	for i, m := range x.masks {
		p := x.projs[i]
		if m.IsSuperSet(find) && (best == nil || p.cube.Len() < best.cube.Len()) {
			best = p
		}
	}

	return best
}

func (x *bitIndex) store(k key.Tuple, p *projection) {
	x.masks = append(x.masks, x.mask(k))
	x.projs = append(x.projs, p)
}

func (x *bitIndex) len() int { return len(x.masks) }

func (x *bitIndex) clear() {
	x.masks = nil
	x.projs = nil
}
