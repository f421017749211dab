package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/cube"
	"github.com/arloliu/cubo/internal/options"
)

// Aggregate builds a cube from partitioned records.
//
// Every partition is ingested into its own cube returned by build, and the
// partial cubes are merged into the first one to finish. All cubes returned
// by build must share dimensions and factory.
//
// Parameters:
//   - ctx: Cancels partitions not yet started
//   - partitions: Record partitions, processed in any order
//   - build: Creates an empty cube; called once per partition, and once more
//     when there are no partitions
//   - get: Field accessor for the records
//   - opts: WithWorkers, WithLogger
//
// Returns:
//   - *cube.Cube: Merged cube
//   - error: The first build, ingestion or merge error, or ctx.Err()
func Aggregate[R any](ctx context.Context, partitions [][]R, build func() (*cube.Cube, error), get aggregator.Accessor, opts ...Option) (*cube.Cube, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("parallel aggregate: %w", err)
	}
	log := cfg.log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	log = log.WithName("parallel")

	if len(partitions) == 0 {
		return build()
	}

	var (
		mu  sync.Mutex
		acc *cube.Cube
	)
	merge := func(part *cube.Cube) error {
		mu.Lock()
		defer mu.Unlock()

		if acc == nil {
			acc = part
			return nil
		}

		return acc.Merge(part)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, records := range partitions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			part, err := build()
			if err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			if err := cube.ProcessSlice(part, records, get); err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			log.V(4).Info("built partition", "partition", i, "records", len(records), "cells", part.Len())

			if err := merge(part); err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel aggregate: %w", err)
	}

	log.V(1).Info("aggregated partitions", "partitions", len(partitions), "workers", cfg.workers,
		"cells", acc.Len(), "elapsed", time.Since(start))

	return acc, nil
}

// Partition splits records into at most n contiguous parts of nearly equal
// size. The parts share the backing array of records.
func Partition[R any](records []R, n int) [][]R {
	if n < 1 {
		n = 1
	}
	n = min(n, len(records))
	if n == 0 {
		return nil
	}

	parts := make([][]R, 0, n)
	size, rest := len(records)/n, len(records)%n
	for start := 0; start < len(records); {
		end := start + size
		if len(parts) < rest {
			end++
		}
		parts = append(parts, records[start:end:end])
		start = end
	}

	return parts
}
