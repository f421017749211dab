// Package parallel builds cubes from partitioned input.
//
// Cubes are not safe for concurrent mutation. Aggregate therefore builds one
// independent cube per partition on a bounded set of workers and merges the
// partial cubes into an accumulator under a mutex as workers finish:
//
//	parts := parallel.Partition(records, 8)
//	c, err := parallel.Aggregate(ctx, parts, func() (*cube.Cube, error) {
//		return cube.New(dims, factory)
//	}, aggregator.MapAccessor, parallel.WithWorkers(4))
//
// The result equals the cube built from all records in one pass.
package parallel
