package aardvark

import (
	"encoding/json"
	"testing"
)

func TestProjectFulltextJoinsLists(t *testing.T) {
	rec := Record{
		"dct_title_s":    "Roads",
		"dct_creator_sm": []any{"A", "B"},
	}

	row := ProjectFulltext("rec-1", rec)

	if row[0] != "rec-1" {
		t.Errorf("row[0]: got %q, want record id", row[0])
	}
	if got := fieldValue(t, row, "dct_creator_sm"); got != "A, B" {
		t.Errorf("dct_creator_sm: got %q, want %q", got, "A, B")
	}
	if got := fieldValue(t, row, "dct_title_s"); got != "Roads" {
		t.Errorf("dct_title_s: got %q, want %q", got, "Roads")
	}
}

func TestProjectFulltextMissingFieldIsEmpty(t *testing.T) {
	row := ProjectFulltext("rec-2", Record{"dct_title_s": "Only Title"})

	if len(row) != 1+len(FulltextFields) {
		t.Fatalf("arity: got %d, want %d", len(row), 1+len(FulltextFields))
	}
	if got := fieldValue(t, row, "dct_description_sm"); got != "" {
		t.Errorf("dct_description_sm: got %q, want empty", got)
	}
}

func TestProjectFulltextArityIsFixed(t *testing.T) {
	rows := [][]string{
		ProjectFulltext("a", Record{}),
		ProjectFulltext("b", Record{"dcat_keyword_sm": []any{"x"}}),
		ProjectFulltext("c", Record{"unrelated": "field"}),
	}
	for i, row := range rows {
		if len(row) != 1+len(FulltextFields) {
			t.Errorf("row %d arity: got %d, want %d", i, len(row), 1+len(FulltextFields))
		}
	}
}

func TestProjectFulltextStringifiesScalars(t *testing.T) {
	rec := Record{
		"dct_temporal_sm": json.Number("1875"),
	}

	row := ProjectFulltext("rec-3", rec)

	if got := fieldValue(t, row, "dct_temporal_sm"); got != "1875" {
		t.Errorf("dct_temporal_sm: got %q, want %q", got, "1875")
	}
}

func TestFacetFieldsAreIndexFields(t *testing.T) {
	indexed := make(map[string]bool, len(IndexFields))
	for _, f := range IndexFields {
		indexed[f] = true
	}
	for _, f := range FacetFields {
		if !indexed[f] {
			t.Errorf("facet field %s missing from IndexFields", f)
		}
	}
	if len(FacetFields) >= len(IndexFields) {
		t.Errorf("facet fields must be a strict subset: %d facets, %d index fields",
			len(FacetFields), len(IndexFields))
	}
}

// fieldValue returns the projected value for a fulltext field by name.
func fieldValue(t *testing.T, row []string, field string) string {
	t.Helper()
	for i, f := range FulltextFields {
		if f == field {
			return row[1+i]
		}
	}
	t.Fatalf("unknown fulltext field %s", field)
	return ""
}
