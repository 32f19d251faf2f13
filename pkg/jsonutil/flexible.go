package jsonutil

import (
	"encoding/json"
	"fmt"
)

// NormalizeCell coerces a decoded JSON cell value into the engine's
// closed value set: string, float64, bool or nil. Spreadsheet clients
// occasionally send nested objects or arrays in a cell; those are
// flattened to their compact JSON text rather than rejected.
func NormalizeCell(v any) any {
	switch tv := v.(type) {
	case nil, string, float64, bool:
		return tv
	case json.Number:
		if f, err := tv.Float64(); err == nil {
			return f
		}
		return tv.String()
	case map[string]any, []any:
		data, err := json.Marshal(tv)
		if err != nil {
			return fmt.Sprint(tv)
		}
		return string(data)
	default:
		return fmt.Sprint(tv)
	}
}

// NormalizeRecord applies NormalizeCell to every value of a decoded row.
func NormalizeRecord(row map[string]any) map[string]any {
	for k, v := range row {
		row[k] = NormalizeCell(v)
	}
	return row
}
