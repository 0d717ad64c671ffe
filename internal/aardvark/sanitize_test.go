package aardvark

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSanitizeStripsSingleQuotes(t *testing.T) {
	rec := Record{
		"dct_title_s":    "O'Brien's Atlas",
		"dct_subject_sm": []any{"Farmers' Markets", "Land Use"},
		"nested":         map[string]any{"note": "it's nested"},
	}

	got := Sanitize(rec)

	if got["dct_title_s"] != "OBriens Atlas" {
		t.Errorf("title: got %q, want %q", got["dct_title_s"], "OBriens Atlas")
	}
	subjects := got["dct_subject_sm"].([]any)
	if subjects[0] != "Farmers Markets" {
		t.Errorf("subject[0]: got %q, want %q", subjects[0], "Farmers Markets")
	}
	nested := got["nested"].(map[string]any)
	if nested["note"] != "its nested" {
		t.Errorf("nested leaf: got %q, want %q", nested["note"], "its nested")
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	rec := Record{
		"dct_title_s":      "D'Arcy's 'quoted' map",
		"dct_creator_sm":   []any{"O'Malley, T."},
		"gbl_indexYear_im": []any{json.Number("1850")},
	}

	once := Sanitize(rec)
	twice := Sanitize(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitize not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestSanitizeLeavesNonStringsAlone(t *testing.T) {
	rec := Record{
		"solr_year_i":      json.Number("1999"),
		"gbl_suppressed_b": true,
		"empty":            nil,
		"ratio":            float64(1.5),
	}

	got := Sanitize(rec)

	if got["solr_year_i"] != json.Number("1999") {
		t.Errorf("number: got %v, want 1999", got["solr_year_i"])
	}
	if got["gbl_suppressed_b"] != true {
		t.Errorf("bool: got %v, want true", got["gbl_suppressed_b"])
	}
	if got["empty"] != nil {
		t.Errorf("nil: got %v, want nil", got["empty"])
	}
	if got["ratio"] != float64(1.5) {
		t.Errorf("float: got %v, want 1.5", got["ratio"])
	}
}

func TestSanitizeNoQuoteSurvives(t *testing.T) {
	rec := Record{
		"a": "'''",
		"b": []any{"'", map[string]any{"c": "x'y"}},
		"d": map[string]any{"e": []any{"'''deep'''"}},
	}

	got := Sanitize(rec)

	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case string:
			for _, r := range x {
				if r == '\'' {
					t.Errorf("single quote survived in %q", x)
					return
				}
			}
		case []any:
			for _, e := range x {
				walk(e)
			}
		case map[string]any:
			for _, e := range x {
				walk(e)
			}
		}
	}
	for _, v := range got {
		walk(v)
	}
}

func TestSanitizeDoesNotModifyInput(t *testing.T) {
	rec := Record{"dct_title_s": "O'Brien"}

	Sanitize(rec)

	if rec["dct_title_s"] != "O'Brien" {
		t.Errorf("input modified: got %q, want %q", rec["dct_title_s"], "O'Brien")
	}
}
