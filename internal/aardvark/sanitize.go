package aardvark

import "strings"

// Sanitize returns a copy of rec with every single-quote character
// removed from string values, wherever they appear: top-level scalars,
// list elements, and leaves of nested objects. Numbers, booleans and
// nulls pass through unchanged. Idempotent: sanitizing twice equals
// sanitizing once.
func Sanitize(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch x := v.(type) {
	case string:
		return strings.ReplaceAll(x, "'", "")
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = sanitizeValue(e)
		}
		return out
	case []string:
		out := make([]string, len(x))
		for i, e := range x {
			out[i] = strings.ReplaceAll(e, "'", "")
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = sanitizeValue(e)
		}
		return out
	default:
		return v
	}
}
