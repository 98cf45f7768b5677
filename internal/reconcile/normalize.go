package reconcile

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeHeader canonicalizes a free-text column name for matching against
// field keys: lower-case, trimmed, with runs of '.', '-', '/' and whitespace
// collapsed to single underscores. This is the only linkage between the preview
// service's recalculation column names and typed fields, so it must stay bit-exact.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	inSep := false
	for _, r := range s {
		switch r {
		case '.', '-', '/', ' ', '\t', '\n', '\r':
			if !inSep && b.Len() > 0 {
				inSep = true
			}
		default:
			if inSep {
				b.WriteByte('_')
				inSep = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// valueKey produces a comparable representation of a cell value. Numeric values
// compare numerically so "100" and 100.0 round-trip as equal; everything else
// compares as a trimmed string.
func valueKey(v interface{}) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int64:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// ValuesEqual reports whether two cell values are the same under normalization
func ValuesEqual(a, b interface{}) bool {
	return valueKey(a) == valueKey(b)
}

// IsBlank reports whether a cell value counts as empty for template fills:
// nil, empty, or whitespace-only.
func IsBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// AsFloat attempts a numeric read of a cell value
func AsFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
