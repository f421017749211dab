package snapshot

import (
	"fmt"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// State is the serializable content of a cube.
type State struct {
	DimCount  uint32      `json:"dimCount"`
	KeyValues []key.Value `json:"keyValues"`
	ValueKeys [][]uint32  `json:"valueKeys"`
	Values    []key.Value `json:"values"`
}

// Len returns the number of cells.
func (s *State) Len() int { return len(s.Values) }

// Key resolves the key of cell i.
func (s *State) Key(i int) key.Tuple {
	row := s.ValueKeys[i]
	k := make(key.Tuple, len(row))
	for d, idx := range row {
		k[d] = s.KeyValues[idx]
	}

	return k
}

// Validate checks that every cell key has DimCount indexes into KeyValues
// and that keys and values line up.
func (s *State) Validate() error {
	if len(s.ValueKeys) != len(s.Values) {
		return fmt.Errorf("snapshot has %d keys and %d values: %w",
			len(s.ValueKeys), len(s.Values), errs.ErrInvalidState)
	}
	for i, row := range s.ValueKeys {
		if uint32(len(row)) != s.DimCount {
			return fmt.Errorf("snapshot key %d has %d indexes, want %d: %w",
				i, len(row), s.DimCount, errs.ErrInvalidState)
		}
		for _, idx := range row {
			if int(idx) >= len(s.KeyValues) {
				return fmt.Errorf("snapshot key %d references value %d of %d: %w",
					i, idx, len(s.KeyValues), errs.ErrInvalidState)
			}
		}
	}

	return nil
}

func (s *State) normalize() {
	if s.KeyValues == nil {
		s.KeyValues = []key.Value{}
	}
	if s.ValueKeys == nil {
		s.ValueKeys = [][]uint32{}
	}
	if s.Values == nil {
		s.Values = []key.Value{}
	}
}
