package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowdex/backend/pkg/models"
)

// PostgresStore keeps definition blobs in a workflow_definitions table,
// keyed by workflow id with the definition as JSONB.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on top of an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS workflow_definitions (
		id TEXT PRIMARY KEY,
		definition JSONB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate workflow_definitions: %w", err)
	}
	return nil
}

// GetDefinition returns the definition stored for id, or ErrNotFound.
func (s *PostgresStore) GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		"SELECT definition FROM workflow_definitions WHERE id = $1", id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query definition %s: %w", id, err)
	}

	var def models.WorkflowDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode definition %s: %w", id, err)
	}
	return &def, nil
}

// PutDefinition stores or replaces the definition for id.
func (s *PostgresStore) PutDefinition(ctx context.Context, id string, def *models.WorkflowDefinition) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode definition %s: %w", id, err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO workflow_definitions (id, definition)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET definition = EXCLUDED.definition`, id, raw)
	if err != nil {
		return fmt.Errorf("store definition %s: %w", id, err)
	}
	return nil
}
