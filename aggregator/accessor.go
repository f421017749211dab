package aggregator

import "github.com/arloliu/cubo/key"

// MapAccessor reads fields of map[string]any records. Absent fields and
// records of other types yield key.Null.
func MapAccessor(record any, field string) key.Value {
	switch m := record.(type) {
	case map[string]any:
		return key.Of(m[field])
	case map[string]key.Value:
		return m[field]
	default:
		return key.Null()
	}
}

// RowAccessor returns an Accessor for []any rows laid out in columns order.
// Unknown fields and short rows yield key.Null.
func RowAccessor(columns ...string) Accessor {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	return func(record any, field string) key.Value {
		i, ok := index[field]
		if !ok {
			return key.Null()
		}
		switch row := record.(type) {
		case []any:
			if i < len(row) {
				return key.Of(row[i])
			}
		case []key.Value:
			if i < len(row) {
				return row[i]
			}
		}

		return key.Null()
	}
}
