// Package endian provides the byte-order engines used by the fixed-width
// value encodings of a snapshot.
//
// Snapshots are always written little-endian:
//
//	engine := endian.GetLittleEndianEngine()
//	enc := encoding.NewValueEncoder(engine)
//
// The big-endian engine exists for encoding payloads embedded in foreign formats.
package endian

import "encoding/binary"

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
