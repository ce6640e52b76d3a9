package dataset

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Record is a single row keyed by column name. Values are numbers, strings,
// booleans or nil; rows in one dataset need not share the same keys.
type Record map[string]any

// Records is an ordered, row-oriented dataset
type Records []Record

// ValueKind classifies a raw cell for numeric extraction
type ValueKind int

const (
	// KindMissing covers nil, absent keys and empty strings
	KindMissing ValueKind = iota
	// KindNumeric is a native finite number
	KindNumeric
	// KindNonFinite is a native number that is NaN or infinite
	KindNonFinite
	// KindNonNumeric is a present value of a non-numeric type, including numeric-looking strings
	KindNonNumeric
)

// HasColumn reports whether any row carries the column key
func (r Records) HasColumn(column string) bool {
	for _, row := range r {
		if _, ok := row[column]; ok {
			return true
		}
	}
	return false
}

// Columns returns the distinct column names, sorted
func (r Records) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, row := range r {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// IsMissing treats nil, absent and blank string values identically
func IsMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}

// Numeric classifies v and returns its float64 value when it is a native number.
// Strings are never parsed.
func Numeric(v any) (float64, ValueKind) {
	if IsMissing(v) {
		return 0, KindMissing
	}

	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, KindNonNumeric
		}
		f = parsed
	default:
		return 0, KindNonNumeric
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f, KindNonFinite
	}
	return f, KindNumeric
}

// Label renders a categorical cell as a group label. ok is false for missing values.
// Numbers use their shortest decimal form, so 1, 1.0 and "1" are the same label.
func Label(v any) (string, bool) {
	if IsMissing(v) {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case bool:
		return strconv.FormatBool(val), true
	}
	if f, kind := Numeric(v); kind == KindNumeric {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}
