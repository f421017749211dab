// Package hash provides the xxHash64 primitives used to hash key values.
package hash

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// Seed values that keep hashes of different value classes apart.
const (
	seedNumber uint64 = 0x9e3779b97f4a7c15
	seedFloat  uint64 = 0xc2b2ae3d27d4eb4f
	seedOther  uint64 = 0x165667b19e3779f9
)

// String computes the xxHash64 of s.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes computes the xxHash64 of b.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Uint64 hashes a 64-bit word mixed with a class tag.
func Uint64(tag byte, v uint64) uint64 {
	var buf [9]byte
	buf[0] = tag
	for i := 0; i < 8; i++ {
		buf[i+1] = byte(v >> (8 * i))
	}

	return xxhash.Sum64(buf[:])
}

// Int64 hashes an integral numeric value.
func Int64(v int64) uint64 {
	return Uint64('n', uint64(v)) ^ seedNumber
}

// Float64 hashes a float. All NaN payloads and both zeros collapse to one hash.
func Float64(v float64) uint64 {
	switch {
	case math.IsNaN(v):
		v = math.NaN()
	case v == 0:
		v = 0
	}

	return Uint64('f', math.Float64bits(v)) ^ seedFloat
}

// Tagged hashes s prefixed by a class tag.
func Tagged(tag byte, s string) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{tag})
	_, _ = d.WriteString(s)

	return d.Sum64() ^ seedOther
}

// Combine folds h into acc with the multiplicative scheme used for key tuples.
func Combine(acc, h uint64) uint64 {
	return acc*31 + h
}
