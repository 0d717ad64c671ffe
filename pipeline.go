package ogm2sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/eliotjordan/ogm2sqlite/internal/aardvark"
	"github.com/eliotjordan/ogm2sqlite/internal/bbox"
	"github.com/eliotjordan/ogm2sqlite/internal/harvest"
	"github.com/eliotjordan/ogm2sqlite/internal/store"
)

// RunReport summarizes one ingestion run.
type RunReport struct {
	RunID     string
	Processed int
	Inserted  int
	Skipped   int
	Duration  time.Duration
}

// Ingest walks the source directory and drives every record through
// the pipeline, one at a time: decode, crosswalk, sanitize, geometry,
// transactional store write. A failing record is logged and skipped
// whole; the run continues. After the last record the structured
// indexes are built once and the ingest log row is finalized.
//
// Enumeration failures, schema errors and index-creation errors are
// structural and abort the run.
func (c *Catalog) Ingest(ctx context.Context) (*RunReport, error) {
	runID := uuid.NewString()
	log := c.logger.With("run_id", runID, "source", c.config.Source)
	report := &RunReport{RunID: runID}
	start := time.Now()

	if err := c.store.EnsureSchema(ctx); err != nil {
		return report, err
	}

	files, err := harvest.Files(c.config.Source)
	if err != nil {
		return report, err
	}
	log.Info("ingest: starting", "records", len(files), "db", c.config.DBPath)

	if err := c.store.BeginIngestRun(ctx, runID, c.config.Source); err != nil {
		return report, fmt.Errorf("begin ingest run: %w", err)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			c.finishRun(report, "error", err.Error())
			return report, err
		}

		report.Processed++
		c.metrics.RecordProcessed()

		id, err := c.processRecord(ctx, path)
		if err != nil {
			report.Skipped++
			c.metrics.RecordSkipped(skipReason(err))
			log.Warn("ingest: record skipped", "path", path, "record_id", id, "error", err)
			continue
		}
		report.Inserted++
		c.metrics.RecordInserted()
		log.Debug("ingest: record stored", "record_id", id)
	}

	if err := c.store.BuildIndexes(ctx); err != nil {
		c.finishRun(report, "error", err.Error())
		return report, err
	}

	report.Duration = time.Since(start)
	c.metrics.SetRunDuration(report.Duration)
	c.finishRun(report, "done", "")

	log.Info("ingest: complete",
		"processed", report.Processed,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"duration", report.Duration)
	return report, nil
}

// processRecord runs one record through the pipeline and returns its
// identifier. The id is also returned alongside an error when known,
// so skips can be logged by record.
func (c *Catalog) processRecord(ctx context.Context, path string) (string, error) {
	raw, err := harvest.ReadRecord(path)
	if err != nil {
		return "", err
	}

	canonical := aardvark.Sanitize(aardvark.MapRecord(raw))

	id := aardvark.StringField(canonical, "id")
	if id == "" {
		return "", ErrNoIdentifier
	}

	ring, err := bbox.Extract(canonical["dcat_bbox"])
	if err != nil {
		return id, err
	}

	payload, err := json.Marshal(canonical)
	if err != nil {
		return id, fmt.Errorf("encode payload: %w", err)
	}

	doc := &store.Document{
		ID:       id,
		Payload:  payload,
		Ring:     ring.Literal(),
		Fulltext: aardvark.ProjectFulltext(id, canonical),
	}
	if err := c.store.InsertRecord(ctx, doc); err != nil {
		return id, err
	}
	return id, nil
}

// finishRun closes the ingest log row. Best effort: a failure here is
// logged but does not change the run's outcome.
func (c *Catalog) finishRun(report *RunReport, status, errMsg string) {
	err := c.store.FinishIngestRun(context.Background(), report.RunID, status,
		report.Processed, report.Inserted, report.Skipped, errMsg)
	if err != nil {
		c.logger.Warn("ingest: finalize run log", "run_id", report.RunID, "error", err)
	}
}

// skipReason buckets a per-record failure for metrics.
func skipReason(err error) string {
	var gerr *bbox.GeometryError
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &gerr):
		return "geometry"
	case errors.Is(err, ErrNoIdentifier):
		return "no_id"
	case errors.As(err, &syn), errors.As(err, &typ):
		return "decode"
	case errors.As(err, &pathErr):
		return "read"
	default:
		return "store"
	}
}
