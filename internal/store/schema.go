package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/eliotjordan/ogm2sqlite/internal/aardvark"
)

// createDocuments holds the canonical record payloads. The payload is
// stored in SQLite's JSONB encoding and queried through '$.<field>'
// path extraction, never through per-field columns.
const createDocuments = `
CREATE TABLE documents (
	id          TEXT PRIMARY KEY,
	payload     BLOB NOT NULL,
	ingested_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// createBounds maps record id to its bounding-box ring. geopoly stores
// the ring in the implicit _shape column and answers containment and
// overlap queries from an r-tree.
const createBounds = `
CREATE VIRTUAL TABLE bounds USING geopoly(id)`

// createIngestLog records one row per pipeline run.
const createIngestLog = `
CREATE TABLE ingest_log (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	started_at  TEXT NOT NULL DEFAULT (datetime('now')),
	finished_at TEXT,
	status      TEXT NOT NULL DEFAULT 'running',
	processed   INTEGER NOT NULL DEFAULT 0,
	inserted    INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
)`

// createFulltext builds the FTS5 table from the shared field list, so
// the table's column order always matches the projector's row order.
func createFulltext() string {
	cols := append([]string{"id"}, aardvark.FulltextFields...)
	return fmt.Sprintf(
		"CREATE VIRTUAL TABLE fulltext USING fts5(\n\t%s,\n\ttokenize='unicode61 remove_diacritics 2'\n)",
		strings.Join(cols, ",\n\t"),
	)
}

type structure struct {
	name string
	ddl  string
}

func structures() []structure {
	return []structure{
		{"documents", createDocuments},
		{"bounds", createBounds},
		{"fulltext", createFulltext()},
		{"ingest_log", createIngestLog},
	}
}

// EnsureSchema creates any of the persistent structures that do not
// exist yet. Idempotent: re-running it against a populated database is
// a no-op, so repeated pipeline runs are additive. There is no
// migration support; a schema change requires a fresh database file.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, st := range structures() {
		exists, err := s.tableExists(ctx, st.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := s.DB.ExecContext(ctx, st.ddl); err != nil {
			return fmt.Errorf("store: create %s: %w", st.name, err)
		}
	}
	return nil
}

// tableExists reports whether a table (ordinary or virtual) of the
// given name exists.
func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.DB.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: lookup table %s: %w", name, err)
	}
	return true, nil
}
