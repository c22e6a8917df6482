// Package services composes the corpus snapshot, search engine, detail store
// and graph normalizer into the catalog's query surface.
package services

import (
	"context"
	"errors"
	"log/slog"

	"flowdex/backend/internal/catalog"
	"flowdex/backend/internal/graph"
	"flowdex/backend/internal/query"
	"flowdex/backend/internal/repository"
	"flowdex/backend/internal/search"
	"flowdex/backend/pkg/models"
)

// ErrNotFound is returned for ids absent from the corpus.
var ErrNotFound = errors.New("workflow not found")

// QueryParams carries one catalog query: optional free text, optional exact
// filters, and 1-indexed pagination.
type QueryParams struct {
	Query       string
	Category    string
	Integration string
	Difficulty  models.Difficulty
	Page        int
	Limit       int
}

// QueryResult is one page of matching records plus pagination metadata.
type QueryResult struct {
	Workflows  []models.Workflow `json:"workflows"`
	Pagination models.PageInfo   `json:"pagination"`
}

// WorkflowDetail is a summary record together with its normalized graph.
// Graph is nil when the definition blob is unavailable; callers render it as
// "no preview available".
type WorkflowDetail struct {
	models.Workflow
	Graph *graph.Graph `json:"graph,omitempty"`
}

// Catalog answers queries over the current corpus snapshot. All operations
// are reads over an immutable snapshot and safe for concurrent use; Reload
// publishes a new snapshot atomically.
type Catalog struct {
	dataDir string
	corpus  *catalog.Holder
	engine  *search.Engine
	details repository.DetailStore
	logger  *slog.Logger
}

// NewCatalog creates a Catalog serving snapshots from holder, with dataDir
// as the reload source.
func NewCatalog(dataDir string, holder *catalog.Holder, details repository.DetailStore, logger *slog.Logger) *Catalog {
	return &Catalog{
		dataDir: dataDir,
		corpus:  holder,
		engine:  search.NewEngine(),
		details: details,
		logger:  logger,
	}
}

// Snapshot returns the corpus snapshot currently being served.
func (c *Catalog) Snapshot() *catalog.Snapshot {
	return c.corpus.Current()
}

// Query runs the search → filter → paginate pipeline against the current
// snapshot. Zero results is a normal outcome, never an error.
func (c *Catalog) Query(ctx context.Context, p QueryParams) *QueryResult {
	snap := c.corpus.Current()

	records := c.engine.Search(snap, p.Query)
	records = query.Apply(records, query.Filters{
		Category:    p.Category,
		Integration: p.Integration,
		Difficulty:  p.Difficulty,
	})
	pageRecords, info := query.Paginate(records, p.Page, p.Limit)

	return &QueryResult{Workflows: pageRecords, Pagination: info}
}

// Get returns the record for id with its normalized graph. An unknown id
// yields ErrNotFound; a missing or unreadable definition blob degrades to a
// nil graph and is only logged.
func (c *Catalog) Get(ctx context.Context, id string) (*WorkflowDetail, error) {
	record, ok := c.corpus.Current().Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	detail := &WorkflowDetail{Workflow: record}

	def, err := c.details.GetDefinition(ctx, id)
	switch {
	case err == nil:
		detail.Graph = graph.Normalize(def)
	case errors.Is(err, repository.ErrNotFound):
		// Record-only response; the corpus legitimately lacks some blobs.
	default:
		c.logger.Warn("definition unavailable", "workflow_id", id, "error", err)
	}

	return detail, nil
}

// Diagram returns the Mermaid rendering of the workflow's canonical graph.
func (c *Catalog) Diagram(ctx context.Context, id string) (string, error) {
	detail, err := c.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return graph.Mermaid(detail.Graph), nil
}

// Categories returns the category facets of the current snapshot.
func (c *Catalog) Categories() []models.CategoryFacet {
	return c.corpus.Current().Categories()
}

// Integrations returns the node-type facets of the current snapshot.
func (c *Catalog) Integrations() []models.IntegrationFacet {
	return c.corpus.Current().Integrations()
}

// Recent returns up to limit records in numeric-id-descending order.
func (c *Catalog) Recent(limit int) []models.Workflow {
	if limit < 1 {
		limit = query.DefaultLimit
	}
	return c.corpus.Current().Recent(limit)
}

// Reload loads a fresh snapshot from the data directory and swaps it in. On
// failure the previous snapshot keeps serving.
func (c *Catalog) Reload(ctx context.Context) error {
	snap, err := catalog.Load(c.dataDir)
	if err != nil {
		return err
	}
	c.corpus.Swap(snap)
	c.logger.Info("corpus reloaded", "snapshot_id", snap.ID(), "workflows", snap.Len())
	return nil
}
