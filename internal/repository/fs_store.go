package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flowdex/backend/pkg/models"
)

// FSStore reads definition blobs from <dir>/<id>.json, the layout produced
// by the corpus scraper.
type FSStore struct {
	dir string
}

// NewFSStore creates an FSStore rooted at dir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

// GetDefinition returns the definition stored for id, or ErrNotFound when no
// blob exists. Ids that would escape the store directory are treated as not
// found rather than an error.
func (s *FSStore) GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	if !safeID(id) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read definition %s: %w", id, err)
	}

	var def models.WorkflowDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode definition %s: %w", id, err)
	}
	return &def, nil
}

// PutDefinition writes the definition blob for id.
func (s *FSStore) PutDefinition(ctx context.Context, id string, def *models.WorkflowDefinition) error {
	if !safeID(id) {
		return fmt.Errorf("invalid workflow id %q", id)
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("encode definition %s: %w", id, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create definitions dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, id+".json"), data, 0o644); err != nil {
		return fmt.Errorf("write definition %s: %w", id, err)
	}
	return nil
}

// safeID rejects ids containing path separators or traversal sequences.
func safeID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
