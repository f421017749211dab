package subcube

import (
	"github.com/go-logr/logr"

	"github.com/arloliu/cubo/internal/options"
)

type config struct {
	arrayMask bool
	log       logr.Logger
}

// Option configures a Cache.
type Option = options.Option[*config]

// WithArrayMask keys projections by bit set even when the source has 64
// dimensions or fewer.
func WithArrayMask() Option {
	return options.NoError(func(c *config) {
		c.arrayMask = true
	})
}

// WithLogger sets the logger of the cache. Resets log at V(1), projection
// builds at V(4).
func WithLogger(log logr.Logger) Option {
	return options.NoError(func(c *config) {
		c.log = log
	})
}
