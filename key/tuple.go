package key

import (
	"strings"

	"github.com/arloliu/cubo/internal/hash"
)

// Tuple is a dimension key: one Value per cube dimension, in dimension order.
type Tuple []Value

// T builds a tuple from native Go values using Of.
func T(vs ...any) Tuple {
	t := make(Tuple, len(vs))
	for i, v := range vs {
		t[i] = Of(v)
	}

	return t
}

// HasWildcard reports whether any position holds the wildcard sentinel.
func (t Tuple) HasWildcard() bool {
	switch len(t) {
	case 0:
		return false
	case 1:
		return t[0].kind == KindWildcard
	case 2:
		return t[0].kind == KindWildcard || t[1].kind == KindWildcard
	case 3:
		return t[0].kind == KindWildcard || t[1].kind == KindWildcard || t[2].kind == KindWildcard
	case 4:
		return t[0].kind == KindWildcard || t[1].kind == KindWildcard ||
			t[2].kind == KindWildcard || t[3].kind == KindWildcard
	}

	for i := range t {
		if t[i].kind == KindWildcard {
			return true
		}
	}

	return false
}

// WildcardCount returns the number of wildcard positions.
func (t Tuple) WildcardCount() int {
	n := 0
	for i := range t {
		if t[i].kind == KindWildcard {
			n++
		}
	}

	return n
}

// Equal reports whether t and o have the same length and pairwise Equal values.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}

	switch len(t) {
	case 0:
		return true
	case 1:
		return Equal(t[0], o[0])
	case 2:
		return Equal(t[0], o[0]) && Equal(t[1], o[1])
	case 3:
		return Equal(t[0], o[0]) && Equal(t[1], o[1]) && Equal(t[2], o[2])
	case 4:
		return Equal(t[0], o[0]) && Equal(t[1], o[1]) && Equal(t[2], o[2]) && Equal(t[3], o[3])
	}

	for i := range t {
		if !Equal(t[i], o[i]) {
			return false
		}
	}

	return true
}

// Hash returns a hash of t consistent with Equal.
func (t Tuple) Hash() uint64 {
	switch len(t) {
	case 0:
		return 0
	case 1:
		return Hash(t[0])
	case 2:
		return hash.Combine(Hash(t[0]), Hash(t[1]))
	case 3:
		return hash.Combine(hash.Combine(Hash(t[0]), Hash(t[1])), Hash(t[2]))
	case 4:
		return hash.Combine(hash.Combine(hash.Combine(Hash(t[0]), Hash(t[1])), Hash(t[2])), Hash(t[3]))
	}

	h := Hash(t[0])
	for i := 1; i < len(t); i++ {
		h = hash.Combine(h, Hash(t[i]))
	}

	return h
}

// Clone returns a copy of t that does not share its backing array.
func (t Tuple) Clone() Tuple {
	if t == nil {
		return nil
	}
	c := make(Tuple, len(t))
	copy(c, t)

	return c
}

// Matches reports whether leaf equals t on every non-wildcard position of t.
func (t Tuple) Matches(leaf Tuple) bool {
	if len(t) != len(leaf) {
		return false
	}
	for i := range t {
		if t[i].kind != KindWildcard && !Equal(t[i], leaf[i]) {
			return false
		}
	}

	return true
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')

	return sb.String()
}
