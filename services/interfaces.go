// Package services defines the public interfaces and data contracts of the
// jobs search engine.
package services

import (
	"github.com/RapidRiverSoftware/jobs-api/config"
	"github.com/RapidRiverSoftware/jobs-api/model"
)

// SearchOptions is the combined free-text/structured request accepted by the
// search surface.
type SearchOptions struct {
	Query          string `json:"query"`           // Free text: relevance keywords, location phrase, organization reference
	OrganizationID string `json:"organization_id"` // Explicit filter; case-insensitive prefix match against the indexed org id
	Size           int    `json:"size"`            // Max hits returned; 0 means the index default
	From           int    `json:"from"`            // Zero-based offset into the ranked sequence
	Highlight      bool   `json:"hl"`              // Wrap matched stem spans in the title
}

// PositionOpeningResult is the minimal public projection of a hit. Internal
// index fields outside this list are never surfaced.
type PositionOpeningResult struct {
	ID               string   `json:"id"`
	PositionTitle    string   `json:"position_title"`
	OrganizationName string   `json:"organization_name"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Minimum          float64  `json:"minimum"`
	Maximum          float64  `json:"maximum"`
	RateIntervalCode string   `json:"rate_interval_code"`
	Locations        []string `json:"locations"` // "City, ST" strings, ingestion order preserved
}

// SearchResult is an ordered page of formatted hits.
type SearchResult struct {
	Hits    []PositionOpeningResult `json:"hits"`
	Total   int                     `json:"total"`    // Matches before pagination
	Took    int64                   `json:"took"`     // milliseconds
	QueryID string                  `json:"query_id"` // unique UUID for this search query
}

// OrganizationResolver maps a free-text fragment to an organization id.
// It is best-effort: any failure or no-match reports ok=false and is treated
// as "no organization constraint", never as an error.
type OrganizationResolver interface {
	ResolveOrganization(text string) (organizationID string, ok bool)
}

// Indexer defines operations for loading posting records into an index.
type Indexer interface {
	// Import bulk-upserts records. It is idempotent per document id:
	// re-importing an id replaces the previous version.
	Import(records []model.PositionOpening) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher executes the combined query against an index.
type Searcher interface {
	SearchFor(options SearchOptions) (SearchResult, error)
}

// IndexManager manages the lifecycle of indices. Querying or importing into
// a nonexistent index is an error, distinct from "no results".
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	DeleteIndex(name string) error
	IndexExists(name string) bool
	GetIndex(name string) (IndexAccessor, error)
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

// IndexAccessor combines the read and write surfaces of a single index.
type IndexAccessor interface {
	Indexer
	Searcher
	Settings() config.IndexSettings
}
