// Package subcube caches reduced projections of a cube to answer repeated
// total lookups.
//
// A presentation layer that renders many row and column intersections asks
// a cube for totals under the same wildcard patterns over and over. A Cache
// keys projections by which dimensions a lookup fixes. The first lookup of a
// pattern slices the smallest cached projection that fixes a superset of its
// dimensions (or the source cube) down to exactly those dimensions; later
// lookups of the pattern read the projection directly.
//
// Patterns are held in a uint64 mask for up to 64 dimensions and in a bit set
// beyond that.
//
//	cache, err := subcube.New(sales)
//	a, err := cache.Get(key.T("USA", key.Wildcard(), 2024))
//
// The cache resets itself when a versioned source reports a mutation.
package subcube
