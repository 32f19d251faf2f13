package models

// Record is a single imported row: column name -> cell value.
//
// Values come from parsed CSV/Excel/JSON uploads and are restricted to a
// closed set of kinds: string, float64, bool, time.Time and nil. Anything
// else (nested objects, arrays) is stringified at the decoding boundary
// before it reaches the scoring code.
type Record map[string]any
