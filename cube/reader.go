package cube

import (
	"iter"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/key"
)

// Entry is a leaf cell: a key and its aggregator.
type Entry = key.Entry[key.Tuple, aggregator.Aggregator]

// Reader is the read side of a cube consumed by queries, sub-cube caches
// and presentation layers.
type Reader interface {
	// Dimensions returns the dimension names in key order.
	Dimensions() []string
	// Factory returns the factory that creates the cell aggregators.
	Factory() aggregator.Factory
	// Get returns the aggregator of a leaf or total key.
	Get(k key.Tuple) (aggregator.Aggregator, error)
	// Len returns the number of leaf cells.
	Len() int
	// All iterates the leaf cells.
	All() iter.Seq2[key.Tuple, aggregator.Aggregator]
}

// Versioned is implemented by readers whose content can change. Version
// returns a different value after every mutation.
type Versioned interface {
	Version() uint64
}

var (
	_ Reader    = (*Cube)(nil)
	_ Versioned = (*Cube)(nil)
)
