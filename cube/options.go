package cube

import (
	"github.com/go-logr/logr"

	"github.com/arloliu/cubo/internal/options"
)

type config struct {
	lazyTotals bool
	lazyAdd    bool
	log        logr.Logger
}

func defaultConfig() *config {
	return &config{lazyTotals: true, lazyAdd: true}
}

// Option configures a Cube.
type Option = options.Option[*config]

// WithLazyTotals selects lazy (true, the default) or eager totals.
func WithLazyTotals(lazy bool) Option {
	return options.NoError(func(c *config) {
		c.lazyTotals = lazy
	})
}

// WithLazyAdd controls lookups of leaf keys that have no cell. When enabled
// (the default) Get creates and stores an empty aggregator; otherwise it
// returns errs.ErrNoValue.
func WithLazyAdd(lazyAdd bool) Option {
	return options.NoError(func(c *config) {
		c.lazyAdd = lazyAdd
	})
}

// WithLogger sets the logger of the cube. Lifecycle events log at V(1),
// per-lookup detail at V(4).
func WithLogger(log logr.Logger) Option {
	return options.NoError(func(c *config) {
		c.log = log
	})
}
