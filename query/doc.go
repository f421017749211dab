// Package query derives new cubes from existing ones.
//
// A Builder selects dimensions and measures of a source cube, filters its
// leaf cells and merges the projected cells into a fresh cube:
//
//	byCountry, err := query.New(sales).
//		Dimension("country").
//		Where("year", 2023, 2024).
//		Measure(0).
//		Execute()
//
// Dimensions are either copied from the source key or derived from it, and
// measures are either picked from a composite source factory or built from
// the source cell. Distinct source cells that project onto the same key are
// merged with the aggregator Merge.
//
// Builder methods never fail. Configuration errors such as unknown dimension
// names or measure indexes are reported by Execute.
package query
