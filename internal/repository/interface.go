// Package repository provides access to per-workflow definition blobs. The
// bulk summary corpus lives in memory (internal/catalog); definitions are the
// only per-request I/O and may be missing for any given id.
package repository

import (
	"context"
	"errors"

	"flowdex/backend/pkg/models"
)

// ErrNotFound is returned when no definition blob exists for an id. Callers
// treat it as "definition unavailable", not as a failure.
var ErrNotFound = errors.New("workflow definition not found")

// DetailStore retrieves stored workflow definitions by workflow id.
type DetailStore interface {
	// GetDefinition returns the definition for id, or ErrNotFound.
	GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error)
}

// WritableDetailStore extends DetailStore with the ingest-side write path.
type WritableDetailStore interface {
	DetailStore
	// PutDefinition stores or replaces the definition for id.
	PutDefinition(ctx context.Context, id string, def *models.WorkflowDefinition) error
}
