package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// fieldNameRe gates the one place a field name is spliced into SQL: the
// JSON path of an extraction expression. Values are always bound.
var fieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkField(field string) error {
	if !fieldNameRe.MatchString(field) {
		return fmt.Errorf("store: invalid field name %q", field)
	}
	return nil
}

// Lookup returns the ids of documents whose extracted field equals
// value, sorted by id. The comparison is on the SQL-value extraction,
// so multi-valued fields compare against their JSON array text. Served
// by the single-column index when one exists for the field.
func (s *Store) Lookup(ctx context.Context, field, value string) ([]string, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT id FROM documents WHERE payload ->> '$.%s' = ? ORDER BY id`, field)

	rows, err := s.DB.QueryContext(ctx, q, value)
	if err != nil {
		return nil, fmt.Errorf("store: lookup %s: %w", field, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FacetCount is one value of a facet field with its document count.
type FacetCount struct {
	Value string
	Count int
}

// FacetCounts groups documents by the extracted value of a facet field.
// Documents lacking the field count under the empty string.
func (s *Store) FacetCounts(ctx context.Context, field string) ([]FacetCount, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(
		`SELECT COALESCE(payload ->> '$.%s', ''), COUNT(*)
		 FROM documents
		 GROUP BY 1
		 ORDER BY 2 DESC, 1`, field)

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: facet counts %s: %w", field, err)
	}
	defer rows.Close()

	var out []FacetCount
	for rows.Next() {
		var fc FacetCount
		if err := rows.Scan(&fc.Value, &fc.Count); err != nil {
			return nil, err
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}

// SearchResult is one full-text match.
type SearchResult struct {
	ID    string
	Title string
	Rank  float64
}

// Search runs an FTS5 query across the fulltext columns and returns
// bm25-ranked matches, best first. limit <= 0 means 20.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, dct_title_s, rank
		 FROM fulltext
		 WHERE fulltext MATCH ?
		 ORDER BY rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []*SearchResult
	for rows.Next() {
		sr := &SearchResult{}
		if err := rows.Scan(&sr.ID, &sr.Title, &sr.Rank); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Within returns the ids of records whose bounding box lies entirely
// inside the query ring, sorted by id.
func (s *Store) Within(ctx context.Context, ring string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id FROM bounds WHERE geopoly_within(_shape, ?) ORDER BY id`, ring)
	if err != nil {
		return nil, fmt.Errorf("store: within: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// Overlaps returns the ids of records whose bounding box overlaps the
// query ring at all, sorted by id.
func (s *Store) Overlaps(ctx context.Context, ring string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id FROM bounds WHERE geopoly_overlap(_shape, ?) ORDER BY id`, ring)
	if err != nil {
		return nil, fmt.Errorf("store: overlaps: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// Stats summarizes the corpus.
type Stats struct {
	Documents int
	Bounds    int
	Fulltext  int
	Indexes   int
}

// CorpusStats counts the rows of each structure and the planned indexes
// present.
func (s *Store) CorpusStats(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM documents`, &st.Documents},
		{`SELECT COUNT(*) FROM bounds`, &st.Bounds},
		{`SELECT COUNT(*) FROM fulltext`, &st.Fulltext},
	}
	for _, c := range counts {
		if err := s.DB.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("store: stats: %w", err)
		}
	}

	n, err := s.IndexCount(ctx)
	if err != nil {
		return nil, err
	}
	st.Indexes = n
	return st, nil
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
