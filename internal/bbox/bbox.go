// Package bbox converts the bounding-box value of a metadata record
// into the polygon ring literal the geopoly table accepts.
//
// Two encodings occur in harvested records: the Solr envelope string
// ENVELOPE(W, E, N, S) used by GeoBlacklight 1.0, and the four-number
// array [W, S, E, N] of Aardvark's dcat_bbox. Both normalize to the
// same closed rectangle ring.
package bbox

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GeometryError reports a missing or malformed bounding box. Records
// failing with it are skipped rather than aborting the run.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "bbox: " + e.Reason
}

func errf(format string, args ...any) *GeometryError {
	return &GeometryError{Reason: fmt.Sprintf(format, args...)}
}

// Ring is a closed rectangle ring in corner order
// (w,s) (e,s) (e,n) (w,n) (w,s). The first and last coordinates are
// always equal.
type Ring [5][2]float64

// FromBounds builds the closed ring for the extent west, south, east,
// north.
func FromBounds(w, s, e, n float64) Ring {
	return Ring{{w, s}, {e, s}, {e, n}, {w, n}, {w, s}}
}

// Literal serializes the ring as the JSON coordinate list geopoly
// expects, e.g. [[-122.5,37],[-121.2,37],[-121.2,38.8],[-122.5,38.8],[-122.5,37]].
func (r Ring) Literal() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		b.WriteString(strconv.FormatFloat(c[0], 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(c[1], 'f', -1, 64))
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// Extract normalizes a bounding-box value into a Ring. It accepts the
// ENVELOPE string form and the four-number array form; anything else
// (missing value, wrong arity, non-numeric components) returns a
// *GeometryError.
func Extract(v any) (Ring, error) {
	switch x := v.(type) {
	case nil:
		return Ring{}, errf("missing bounding box")
	case string:
		return fromEnvelope(x)
	case []any:
		return fromArray(x)
	case []float64:
		if len(x) != 4 {
			return Ring{}, errf("bounding box has %d components, want 4", len(x))
		}
		return FromBounds(x[0], x[1], x[2], x[3]), nil
	default:
		return Ring{}, errf("unsupported bounding box type %T", v)
	}
}

// fromEnvelope parses ENVELOPE(W, E, N, S). Axis order follows the
// Solr envelope convention: minX, maxX, maxY, minY.
func fromEnvelope(s string) (Ring, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "ENVELOPE(") || !strings.HasSuffix(trimmed, ")") {
		return Ring{}, errf("not an ENVELOPE literal: %q", s)
	}
	inner := trimmed[len("ENVELOPE(") : len(trimmed)-1]
	parts := strings.Split(inner, ",")
	if len(parts) != 4 {
		return Ring{}, errf("envelope has %d components, want 4: %q", len(parts), s)
	}
	nums := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Ring{}, errf("non-numeric envelope component %q", strings.TrimSpace(p))
		}
		nums[i] = f
	}
	w, e, n, south := nums[0], nums[1], nums[2], nums[3]
	return FromBounds(w, south, e, n), nil
}

// fromArray parses the Aardvark [W, S, E, N] form.
func fromArray(vals []any) (Ring, error) {
	if len(vals) != 4 {
		return Ring{}, errf("bounding box has %d components, want 4", len(vals))
	}
	nums := make([]float64, 4)
	for i, v := range vals {
		f, err := toFloat(v)
		if err != nil {
			return Ring{}, errf("non-numeric bounding box component %v", v)
		}
		nums[i] = f
	}
	return FromBounds(nums[0], nums[1], nums[2], nums[3]), nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case json.Number:
		return x.Float64()
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
