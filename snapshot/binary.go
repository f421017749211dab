package snapshot

import (
	"fmt"
	"io"

	"github.com/arloliu/cubo/encoding"
	"github.com/arloliu/cubo/endian"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/internal/options"
	"github.com/arloliu/cubo/key"
	"github.com/arloliu/cubo/section"
)

// Marshal encodes s as a binary snapshot.
//
// Parameters:
//   - s: State to encode, validated first
//   - opts: Write options such as WithCompactIntegers
//
// Returns:
//   - []byte: Snapshot bytes owned by the caller
//   - error: ErrInvalidState if s is inconsistent
func Marshal(s *State, opts ...WriteOption) ([]byte, error) {
	enc, err := encodeState(s, opts)
	if err != nil {
		return nil, err
	}
	defer enc.Finish()

	return append([]byte(nil), enc.Bytes()...), nil
}

// Write encodes s as a binary snapshot to w.
func Write(w io.Writer, s *State, opts ...WriteOption) (int64, error) {
	enc, err := encodeState(s, opts)
	if err != nil {
		return 0, err
	}
	defer enc.Finish()

	n, err := w.Write(enc.Bytes())

	return int64(n), err
}

func encodeState(s *State, opts []WriteOption) (*encoding.ValueEncoder, error) {
	cfg := &writeConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	enc := encoding.NewValueEncoder(endian.GetLittleEndianEngine())
	enc.SetCompactSigned(cfg.compactIntegers)
	section.NewHeader(section.TypeName).Write(enc)
	enc.WriteUint16(section.SectionCount)

	for _, name := range section.Order {
		enc.WriteString(name.String())
		var err error
		switch name {
		case section.NameDimCount:
			enc.WriteUint32(s.DimCount)
		case section.NameKeyValues:
			err = enc.WriteValue(key.Array(s.KeyValues...))
		case section.NameValues:
			err = enc.WriteValue(key.Array(s.Values...))
		case section.NameValueKeys:
			enc.WriteUvarint(uint64(len(s.ValueKeys)))
			for _, row := range s.ValueKeys {
				for _, idx := range row {
					enc.WriteUvarint(uint64(idx))
				}
			}
		}
		if err != nil {
			enc.Finish()
			return nil, fmt.Errorf("write section %s: %w", name, err)
		}
	}

	return enc, nil
}

// Unmarshal decodes a binary snapshot or a compressed envelope.
//
// Returns:
//   - *State: Decoded and validated state
//   - error: ErrInvalidTypeName, ErrVersionMismatch, ErrUnknownSection,
//     ErrMissingSection, ErrUnknownTypeCode, ErrTruncated, ErrTrailingData
//     or ErrInvalidState
func Unmarshal(data []byte) (*State, error) {
	dec := encoding.NewValueDecoder(endian.GetLittleEndianEngine(), data)

	var h section.Header
	if err := h.Parse(dec); err != nil {
		return nil, err
	}
	if h.IsCompressed() {
		return unmarshalCompressed(dec)
	}

	s, err := decodeSections(dec)
	if err != nil {
		return nil, err
	}
	if dec.Remaining() > 0 {
		return nil, fmt.Errorf("snapshot has %d bytes after offset %d: %w",
			dec.Remaining(), dec.Offset(), errs.ErrTrailingData)
	}

	return s, nil
}

// Read decodes a binary snapshot or a compressed envelope from r.
func Read(r io.Reader) (*State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return Unmarshal(data)
}

func decodeSections(dec *encoding.ValueDecoder) (*State, error) {
	count, err := dec.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("read section count: %w", err)
	}

	s := &State{}
	seen := make(map[section.Name]bool, section.SectionCount)
	for range count {
		raw, err := dec.ReadString()
		if err != nil {
			return nil, fmt.Errorf("read section name: %w", err)
		}
		name, err := section.ParseName(raw)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("section %s repeated: %w", name, errs.ErrInvalidState)
		}
		seen[name] = true

		if err := decodeSection(dec, name, s, seen); err != nil {
			return nil, fmt.Errorf("read section %s: %w", name, err)
		}
	}

	if !seen[section.NameDimCount] {
		return nil, fmt.Errorf("section %s: %w", section.NameDimCount, errs.ErrMissingSection)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func decodeSection(dec *encoding.ValueDecoder, name section.Name, s *State, seen map[section.Name]bool) error {
	switch name {
	case section.NameDimCount:
		n, err := dec.ReadUint32()
		if err != nil {
			return err
		}
		s.DimCount = n
	case section.NameKeyValues:
		elems, err := readArray(dec)
		if err != nil {
			return err
		}
		s.KeyValues = elems
	case section.NameValues:
		elems, err := readArray(dec)
		if err != nil {
			return err
		}
		s.Values = elems
	case section.NameValueKeys:
		if !seen[section.NameDimCount] {
			return fmt.Errorf("%s must precede it: %w", section.NameDimCount, errs.ErrMissingSection)
		}
		rows, err := readValueKeys(dec, s.DimCount)
		if err != nil {
			return err
		}
		s.ValueKeys = rows
	}

	return nil
}

func readArray(dec *encoding.ValueDecoder) ([]key.Value, error) {
	v, err := dec.ReadValue()
	if err != nil {
		return nil, err
	}
	if v.Kind() != key.KindArray {
		return nil, fmt.Errorf("expected array, got %s: %w", v.Kind(), errs.ErrInvalidState)
	}

	return v.Elems(), nil
}

func readValueKeys(dec *encoding.ValueDecoder, dimCount uint32) ([][]uint32, error) {
	var n int
	if dimCount == 0 {
		// a cube without dimensions holds at most the grand total
		u, err := dec.ReadUvarint()
		if err != nil {
			return nil, err
		}
		if u > 1 {
			return nil, fmt.Errorf("%d keys without dimensions: %w", u, errs.ErrInvalidState)
		}
		n = int(u)
	} else {
		var err error
		if n, err = dec.ReadLength(int(dimCount)); err != nil {
			return nil, err
		}
	}

	rows := make([][]uint32, n)
	flat := make([]uint32, n*int(dimCount))
	for i := range rows {
		row := flat[i*int(dimCount) : (i+1)*int(dimCount) : (i+1)*int(dimCount)]
		for d := range row {
			u, err := dec.ReadUvarint()
			if err != nil {
				return nil, err
			}
			if u > uint64(^uint32(0)) {
				return nil, fmt.Errorf("key index %d overflows: %w", u, errs.ErrInvalidState)
			}
			row[d] = uint32(u)
		}
		rows[i] = row
	}

	return rows, nil
}
