package harvest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFilesFindsOnlyJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "geoblacklight.json"), `{}`)
	writeFile(t, filepath.Join(root, "b", "record.json"), `{}`)
	writeFile(t, filepath.Join(root, "b", "README.md"), "not a record")
	writeFile(t, filepath.Join(root, ".git", "config.json"), `{}`)

	paths, err := Files(root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("count: got %d (%v), want 2", len(paths), paths)
	}
	want0 := filepath.Join(root, "a", "geoblacklight.json")
	if paths[0] != want0 {
		t.Errorf("paths[0]: got %s, want %s", paths[0], want0)
	}
}

func TestFilesSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "zz.json"), `{}`)
	writeFile(t, filepath.Join(root, "aa.json"), `{}`)
	writeFile(t, filepath.Join(root, "mm.json"), `{}`)

	paths, err := Files(root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Errorf("paths not sorted: %s before %s", paths[i-1], paths[i])
		}
	}
}

func TestReadRecord(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "rec.json")
	writeFile(t, path, `{"layer_slug_s": "x-1", "solr_year_i": 1999, "dc_subject_sm": ["A", "B"]}`)

	rec, err := ReadRecord(path)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}

	if rec["layer_slug_s"] != "x-1" {
		t.Errorf("layer_slug_s: got %v, want x-1", rec["layer_slug_s"])
	}
	if rec["solr_year_i"] != json.Number("1999") {
		t.Errorf("solr_year_i: got %T %v, want json.Number 1999", rec["solr_year_i"], rec["solr_year_i"])
	}
	subjects, ok := rec["dc_subject_sm"].([]any)
	if !ok || len(subjects) != 2 {
		t.Errorf("dc_subject_sm: got %v, want two-element list", rec["dc_subject_sm"])
	}
}

func TestReadRecordMalformed(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.json")
	writeFile(t, path, `{"unterminated": `)

	if _, err := ReadRecord(path); err == nil {
		t.Fatal("ReadRecord succeeded on malformed JSON, want error")
	}
}
