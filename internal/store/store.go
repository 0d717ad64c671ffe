// Package store is the SQLite persistence layer: the documents, bounds
// and fulltext structures, the per-record transactional insert, and the
// structured-index planner.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/eliotjordan/ogm2sqlite/internal/aardvark"
	"github.com/eliotjordan/ogm2sqlite/internal/dbopen"
)

var (
	// ErrNoID rejects a record whose identifier is missing or empty.
	ErrNoID = errors.New("store: record has no id")

	// ErrFulltextArity rejects a fulltext row that does not match the
	// table's fixed column count.
	ErrFulltextArity = errors.New("store: fulltext row arity mismatch")

	// ErrBadRing rejects a spatial bound that geopoly cannot parse as a
	// polygon.
	ErrBadRing = errors.New("store: ring is not a geopoly polygon")
)

// Store is the catalog database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the catalog database at path with the
// standard pragmas applied. The schema is not touched here; call
// EnsureSchema before the first write.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{dbopen.WithMkdirAll()}, opts...)
	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Document is one record ready for persistence: the canonical payload
// plus its two derived projections.
type Document struct {
	ID       string
	Payload  []byte   // canonical record, JSON text
	Ring     string   // geopoly ring literal
	Fulltext []string // positional row: id followed by the fulltext fields
}

// InsertRecord writes the structured payload, the spatial bound and the
// fulltext row for one record inside a single transaction, so a failed
// record leaves no partial rows behind. Re-inserting an id replaces all
// three rows: last write wins across runs as well as within one.
func (s *Store) InsertRecord(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		return ErrNoID
	}
	if got, want := len(doc.Fulltext), 1+len(aardvark.FulltextFields); got != want {
		return fmt.Errorf("%w: got %d values, want %d", ErrFulltextArity, got, want)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, payload) VALUES (?, jsonb(?))`,
		doc.ID, string(doc.Payload),
	); err != nil {
		return fmt.Errorf("store: insert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bounds WHERE id = ?`, doc.ID); err != nil {
		return fmt.Errorf("store: clear bounds: %w", err)
	}

	// geopoly stores any _shape value verbatim; a ring it cannot parse
	// never matches geopoly_within or geopoly_overlap. Validate
	// in-engine so a bad ring fails the whole transaction instead.
	var ringJSON sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT geopoly_json(?)`, doc.Ring).Scan(&ringJSON); err != nil {
		return fmt.Errorf("store: validate ring: %w", err)
	}
	if !ringJSON.Valid {
		return fmt.Errorf("%w: %q", ErrBadRing, doc.Ring)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bounds (_shape, id) VALUES (?, ?)`, doc.Ring, doc.ID,
	); err != nil {
		return fmt.Errorf("store: insert bounds: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fulltext WHERE id = ?`, doc.ID); err != nil {
		return fmt.Errorf("store: clear fulltext: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fulltextInsert(), fulltextArgs(doc.Fulltext)...); err != nil {
		return fmt.Errorf("store: insert fulltext: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// GetDocument returns the canonical JSON text of one record, or nil if
// the id is unknown.
func (s *Store) GetDocument(ctx context.Context, id string) ([]byte, error) {
	var payload []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT json(payload) FROM documents WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get document %s: %w", id, err)
	}
	return payload, nil
}

func fulltextInsert() string {
	cols := append([]string{"id"}, aardvark.FulltextFields...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf(`INSERT INTO fulltext (%s) VALUES (%s)`, strings.Join(cols, ", "), marks)
}

func fulltextArgs(row []string) []any {
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}
	return args
}
