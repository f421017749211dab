package parallel

import (
	"fmt"
	"runtime"

	"github.com/go-logr/logr"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/internal/options"
)

type config struct {
	workers int
	log     logr.Logger
}

func defaultConfig() *config {
	return &config{workers: runtime.GOMAXPROCS(0)}
}

// Option configures Aggregate.
type Option = options.Option[*config]

// WithWorkers bounds the number of partitions built at once. The default is
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("workers %d: %w", n, errs.ErrInvalidOption)
		}
		c.workers = n

		return nil
	})
}

// WithLogger sets the logger. Runs log at V(1), partitions at V(4).
func WithLogger(log logr.Logger) Option {
	return options.NoError(func(c *config) {
		c.log = log
	})
}
