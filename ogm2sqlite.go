// Package ogm2sqlite materializes harvested OpenGeoMetadata records
// into a single SQLite file that answers three kinds of query over the
// same corpus: structured lookup on extracted JSON fields, FTS5
// full-text search, and geopoly bounding-box containment/overlap.
//
// The pipeline per record:
//
//	harvest → crosswalk → sanitize → {payload, bounds, fulltext row}
//
// and once, after all records: structured index creation. A malformed
// record is skipped whole — no document, bounds or fulltext row — and
// the run continues.
//
// Usage:
//
//	c, err := ogm2sqlite.New(cfg, logger)
//	defer c.Close()
//	report, err := c.Ingest(ctx)
package ogm2sqlite

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/eliotjordan/ogm2sqlite/internal/bbox"
	"github.com/eliotjordan/ogm2sqlite/internal/metrics"
	"github.com/eliotjordan/ogm2sqlite/internal/store"
)

// Catalog owns the database handle and drives ingestion and queries.
type Catalog struct {
	store   *store.Store
	metrics *metrics.Recorder
	logger  *slog.Logger
	config  *Config
}

// New opens (or creates) the catalog database and ensures its schema.
func New(cfg *Config, logger *slog.Logger) (*Catalog, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(context.Background()); err != nil {
		s.Close()
		return nil, err
	}

	return &Catalog{
		store:   s,
		metrics: metrics.New(),
		logger:  logger,
		config:  cfg,
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.store.Close()
}

// Store returns the underlying store for direct access (testing, admin).
func (c *Catalog) Store() *store.Store {
	return c.store
}

// MetricsHandler serves the run's Prometheus metrics.
func (c *Catalog) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}

// Search runs an FTS5 query over the fulltext fields.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	return c.store.Search(ctx, query, limit)
}

// Lookup returns the ids of records whose field equals value.
func (c *Catalog) Lookup(ctx context.Context, field, value string) ([]string, error) {
	return c.store.Lookup(ctx, field, value)
}

// FacetCounts groups the corpus by one facet field.
func (c *Catalog) FacetCounts(ctx context.Context, field string) ([]FacetCount, error) {
	return c.store.FacetCounts(ctx, field)
}

// Within returns the ids of records whose bounding box lies entirely
// inside the west/south/east/north extent.
func (c *Catalog) Within(ctx context.Context, west, south, east, north float64) ([]string, error) {
	return c.store.Within(ctx, bbox.FromBounds(west, south, east, north).Literal())
}

// Overlaps returns the ids of records whose bounding box overlaps the
// west/south/east/north extent.
func (c *Catalog) Overlaps(ctx context.Context, west, south, east, north float64) ([]string, error) {
	return c.store.Overlaps(ctx, bbox.FromBounds(west, south, east, north).Literal())
}

// GetDocument returns the canonical JSON of one record, or nil if the
// id is unknown.
func (c *Catalog) GetDocument(ctx context.Context, id string) ([]byte, error) {
	return c.store.GetDocument(ctx, id)
}

// Stats counts the rows of each structure and the indexes present.
func (c *Catalog) Stats(ctx context.Context) (*Stats, error) {
	return c.store.CorpusStats(ctx)
}

// RecentRuns returns the latest ingest log entries, newest first.
func (c *Catalog) RecentRuns(ctx context.Context, limit int) ([]*IngestRun, error) {
	return c.store.RecentIngestRuns(ctx, limit)
}
