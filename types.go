package ogm2sqlite

import "github.com/eliotjordan/ogm2sqlite/internal/store"

// Re-exported types from internal/store for use by cmd/ and external callers.
type (
	SearchResult = store.SearchResult
	FacetCount   = store.FacetCount
	Stats        = store.Stats
	IngestRun    = store.IngestRun
)
