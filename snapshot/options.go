package snapshot

import "github.com/arloliu/cubo/internal/options"

type writeConfig struct {
	compactIntegers bool
}

// WriteOption configures Marshal, Write and MarshalCompressed.
type WriteOption = options.Option[*writeConfig]

// WithCompactIntegers stores Int32 and Int64 values as zig-zag varints.
//
// Readers accept both encodings, so the option only affects size.
func WithCompactIntegers() WriteOption {
	return options.NoError(func(c *writeConfig) {
		c.compactIntegers = true
	})
}
