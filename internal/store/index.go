package store

import (
	"context"
	"fmt"

	"github.com/eliotjordan/ogm2sqlite/internal/aardvark"
)

// BuildIndexes creates the structured indexes over the documents
// payload. Called once, after ingestion: creating them before the bulk
// insert would be correct but slower. Idempotent via IF NOT EXISTS.
//
// Per index field, one single-column index on the extracted SQL value.
// Per ordered facet pair (a, b), two composites, both orderings of
// every pair:
//
//   - a "filter" index (payload ->> a, payload -> b): the second column
//     keeps the JSON form, so multi-valued fields filter by their exact
//     array representation;
//   - a "count" index (payload ->> a, payload ->> b): the second column
//     as SQL value, usable by GROUP BY counting.
//
// Three-way facet composites are deliberately not generated: index
// storage grows combinatorially with facet count and two-field pairs
// cover the observed query shapes.
func (s *Store) BuildIndexes(ctx context.Context) error {
	for _, idx := range planIndexes() {
		if _, err := s.DB.ExecContext(ctx, idx.ddl); err != nil {
			return fmt.Errorf("store: create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// IndexCount returns how many of the planned indexes exist.
func (s *Store) IndexCount(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_documents_%'`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count indexes: %w", err)
	}
	return n, nil
}

type plannedIndex struct {
	name string
	ddl  string
}

func planIndexes() []plannedIndex {
	var plan []plannedIndex

	for _, f := range aardvark.IndexFields {
		name := fmt.Sprintf("idx_documents_%s", f)
		plan = append(plan, plannedIndex{
			name: name,
			ddl: fmt.Sprintf(
				`CREATE INDEX IF NOT EXISTS %s ON documents (payload ->> '$.%s')`, name, f),
		})
	}

	for _, a := range aardvark.FacetFields {
		for _, b := range aardvark.FacetFields {
			if a == b {
				continue
			}
			filter := fmt.Sprintf("idx_documents_%s_%s_filter", a, b)
			plan = append(plan, plannedIndex{
				name: filter,
				ddl: fmt.Sprintf(
					`CREATE INDEX IF NOT EXISTS %s ON documents (payload ->> '$.%s', payload -> '$.%s')`,
					filter, a, b),
			})
			count := fmt.Sprintf("idx_documents_%s_%s_count", a, b)
			plan = append(plan, plannedIndex{
				name: count,
				ddl: fmt.Sprintf(
					`CREATE INDEX IF NOT EXISTS %s ON documents (payload ->> '$.%s', payload ->> '$.%s')`,
					count, a, b),
			})
		}
	}

	return plan
}
