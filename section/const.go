package section

import (
	"fmt"

	"github.com/arloliu/cubo/errs"
)

const (
	// TypeName opens every plain snapshot.
	TypeName = "cubo.snapshot.State"
	// CompressedTypeName opens every compressed snapshot envelope.
	CompressedTypeName = "cubo.snapshot.Compressed"

	MajorVersion int32 = 1
	MinorVersion int32 = 0

	// SectionCount is the number of sections written by this version.
	SectionCount = 4
)

// Name identifies a snapshot section.
type Name uint8

const (
	NameDimCount Name = iota + 1
	NameKeyValues
	NameValues
	NameValueKeys
)

// Order is the order in which a writer emits the sections.
var Order = [SectionCount]Name{NameDimCount, NameKeyValues, NameValues, NameValueKeys}

func (n Name) String() string {
	switch n {
	case NameDimCount:
		return "DimCount"
	case NameKeyValues:
		return "KeyValues"
	case NameValues:
		return "Values"
	case NameValueKeys:
		return "ValueKeys"
	default:
		return "Unknown"
	}
}

// ParseName resolves a section name read from a snapshot.
//
// Returns errs.ErrUnknownSection for names this version does not define.
func ParseName(s string) (Name, error) {
	switch s {
	case "DimCount":
		return NameDimCount, nil
	case "KeyValues":
		return NameKeyValues, nil
	case "Values":
		return NameValues, nil
	case "ValueKeys":
		return NameValueKeys, nil
	default:
		return 0, fmt.Errorf("section %q: %w", s, errs.ErrUnknownSection)
	}
}
