// Package section defines the framing of a cubo snapshot: the type name and
// version header that opens every snapshot, the named sections that follow
// it, and the header of the compressed envelope.
//
// # Plain snapshot layout
//
//	string  type name      "cubo.snapshot.State"
//	int32   major version  1
//	int32   minor version  0
//	uint16  section count
//	repeat section count times:
//	    string  section name   DimCount | KeyValues | Values | ValueKeys
//	    ...     section payload
//
// Strings are uvarint length prefixed. Fixed-width integers are little-endian.
//
// # Compressed envelope layout
//
//	string  type name      "cubo.snapshot.Compressed"
//	int32   major version
//	int32   minor version
//	uint8   compression    format.CompressionType
//	uvarint raw length     length of the plain snapshot
//	...     compressed plain snapshot
//
// A reader rejects unknown type names, a different major version and unknown
// section names. Minor versions are accepted in both directions.
package section
