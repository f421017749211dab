// Package format defines the enumerations shared by the snapshot codec: the
// one-byte value type codes and the compression types of the compressed
// snapshot envelope.
package format

// TypeCode tags every scalar stored in a snapshot.
type TypeCode uint8

const (
	TypeNull     TypeCode = 0   // TypeNull is the absent value.
	TypeMissing  TypeCode = 2   // TypeMissing is the missing-field marker.
	TypeBool     TypeCode = 3   // TypeBool is one byte, 0 or 1.
	TypeChar     TypeCode = 4   // TypeChar is a uvarint code point.
	TypeInt8     TypeCode = 5   // TypeInt8 is one byte.
	TypeUint8    TypeCode = 6   // TypeUint8 is one byte.
	TypeInt16    TypeCode = 7   // TypeInt16 is two bytes.
	TypeUint16   TypeCode = 8   // TypeUint16 is two bytes.
	TypeInt32    TypeCode = 9   // TypeInt32 is four bytes.
	TypeUint32   TypeCode = 10  // TypeUint32 is a uvarint.
	TypeInt64    TypeCode = 11  // TypeInt64 is eight bytes.
	TypeUint64   TypeCode = 12  // TypeUint64 is a uvarint.
	TypeFloat32  TypeCode = 13  // TypeFloat32 is four bytes of IEEE 754 bits.
	TypeFloat64  TypeCode = 14  // TypeFloat64 is eight bytes of IEEE 754 bits.
	TypeDecimal  TypeCode = 15  // TypeDecimal is an int32 exponent, a sign byte and a uvarint-prefixed magnitude.
	TypeTime     TypeCode = 16  // TypeTime is eight bytes of Unix seconds and uvarint nanoseconds.
	TypeString   TypeCode = 18  // TypeString is a uvarint length and UTF-8 bytes.
	TypeVarInt32 TypeCode = 19  // TypeVarInt32 is a zig-zag varint int32.
	TypeVarInt64 TypeCode = 20  // TypeVarInt64 is a zig-zag varint int64.
	TypeArray    TypeCode = 128 // TypeArray is a uvarint count followed by tagged values.
	TypeWildcard TypeCode = 129 // TypeWildcard is the wildcard sentinel.
)

func (c TypeCode) String() string {
	switch c {
	case TypeNull:
		return "Null"
	case TypeMissing:
		return "Missing"
	case TypeBool:
		return "Bool"
	case TypeChar:
		return "Char"
	case TypeInt8:
		return "Int8"
	case TypeUint8:
		return "Uint8"
	case TypeInt16:
		return "Int16"
	case TypeUint16:
		return "Uint16"
	case TypeInt32:
		return "Int32"
	case TypeUint32:
		return "Uint32"
	case TypeInt64:
		return "Int64"
	case TypeUint64:
		return "Uint64"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	case TypeDecimal:
		return "Decimal"
	case TypeTime:
		return "Time"
	case TypeString:
		return "String"
	case TypeVarInt32:
		return "VarInt32"
	case TypeVarInt64:
		return "VarInt64"
	case TypeArray:
		return "Array"
	case TypeWildcard:
		return "Wildcard"
	default:
		return "Unknown"
	}
}

// CompressionType selects the codec of a compressed snapshot envelope.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
