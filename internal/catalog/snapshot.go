// Package catalog holds the in-memory corpus of workflow summary records.
// A Snapshot is immutable once loaded; a reload builds a new Snapshot and
// swaps it in atomically via a Holder.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"flowdex/backend/pkg/models"
)

// SummaryFile is the bulk summary artifact name inside the data directory.
const SummaryFile = "workflows.json"

// DefinitionsDir is the subdirectory holding per-id definition blobs.
const DefinitionsDir = "workflows"

// Snapshot is one loaded corpus: the full record set in file order plus the
// derived facet aggregates. All fields are read-only after Load.
type Snapshot struct {
	id           string
	workflows    []models.Workflow
	byID         map[string]int
	categories   []models.CategoryFacet
	integrations []models.IntegrationFacet
}

// summaryEnvelope matches the scraper output: either a bare record array or
// a {"workflows": [...], "metadata": {...}} envelope.
type summaryEnvelope struct {
	Workflows []rawRecord `json:"workflows"`
	Metadata  struct {
		FetchedAt string `json:"fetchedAt"`
		Total     int    `json:"total"`
		Source    string `json:"source"`
	} `json:"metadata"`
}

// rawRecord tolerates the historical field looseness of the corpus files:
// node-type identifiers appear under either "integrations" or the legacy
// "tags" key, and difficulty values outside the known enum are dropped.
type rawRecord struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Categories   []string             `json:"categories"`
	Integrations []string             `json:"integrations"`
	Tags         []string             `json:"tags"`
	Difficulty   string               `json:"difficulty"`
	Author       string               `json:"author"`
	Stats        *models.WorkflowStats `json:"stats"`
}

func (r rawRecord) normalize() models.Workflow {
	integrations := r.Integrations
	if len(integrations) == 0 {
		integrations = r.Tags
	}
	if integrations == nil {
		integrations = []string{}
	}
	categories := r.Categories
	if categories == nil {
		categories = []string{}
	}
	return models.Workflow{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Categories:   categories,
		Integrations: integrations,
		Difficulty:   models.ParseDifficulty(r.Difficulty),
		Author:       r.Author,
		Stats:        r.Stats,
	}
}

// Load reads the bulk summary artifact from dataDir and builds a Snapshot.
// A load failure is fatal to the caller; per-record looseness is normalized,
// never an error.
func Load(dataDir string) (*Snapshot, error) {
	path := filepath.Join(dataDir, SummaryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus summary %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Snapshot from raw summary JSON.
func Parse(data []byte) (*Snapshot, error) {
	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		var env summaryEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parse corpus summary: %w", err)
		}
		raws = env.Workflows
	}

	s := &Snapshot{
		id:        uuid.New().String(),
		workflows: make([]models.Workflow, 0, len(raws)),
		byID:      make(map[string]int, len(raws)),
	}
	for _, r := range raws {
		if r.ID == "" {
			continue
		}
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("parse corpus summary: duplicate workflow id %q", r.ID)
		}
		s.byID[r.ID] = len(s.workflows)
		s.workflows = append(s.workflows, r.normalize())
	}

	s.categories = aggregateCategories(s.workflows)
	s.integrations = aggregateIntegrations(s.workflows)
	return s, nil
}

// ID is the snapshot identity, usable as a cache key by query-side indexes.
func (s *Snapshot) ID() string { return s.id }

// Len returns the number of records in the corpus.
func (s *Snapshot) Len() int { return len(s.workflows) }

// All returns the full record set in original corpus order. Callers must not
// mutate the returned slice.
func (s *Snapshot) All() []models.Workflow { return s.workflows }

// Get returns the record for id, or false for an unknown id.
func (s *Snapshot) Get(id string) (models.Workflow, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return models.Workflow{}, false
	}
	return s.workflows[idx], true
}

// Categories returns the category facets, count-descending with ties broken
// by first-encountered order during aggregation.
func (s *Snapshot) Categories() []models.CategoryFacet { return s.categories }

// Integrations returns the node-type facets in the same ordering.
func (s *Snapshot) Integrations() []models.IntegrationFacet { return s.integrations }

// Recent returns up to limit records ordered by numeric id descending.
// Id order is a proxy for recency carried over from the upstream site; ids
// are not guaranteed to be assigned monotonically, which is a known
// limitation of the corpus, not of this code.
func (s *Snapshot) Recent(limit int) []models.Workflow {
	out := make([]models.Workflow, len(s.workflows))
	copy(out, s.workflows)
	sort.SliceStable(out, func(i, j int) bool {
		return numericID(out[i].ID) > numericID(out[j].ID)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func numericID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return -1
	}
	return n
}

func aggregateCategories(workflows []models.Workflow) []models.CategoryFacet {
	counts := map[string]int{}
	var order []string
	for _, w := range workflows {
		for _, c := range w.Categories {
			if _, seen := counts[c]; !seen {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	facets := make([]models.CategoryFacet, 0, len(order))
	for _, name := range order {
		facets = append(facets, models.CategoryFacet{
			Name:  name,
			Slug:  Slugify(name),
			Count: counts[name],
		})
	}
	// Stable sort keeps first-encountered order on equal counts.
	sort.SliceStable(facets, func(i, j int) bool { return facets[i].Count > facets[j].Count })
	return facets
}

func aggregateIntegrations(workflows []models.Workflow) []models.IntegrationFacet {
	counts := map[string]int{}
	var order []string
	for _, w := range workflows {
		for _, tag := range w.Integrations {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	facets := make([]models.IntegrationFacet, 0, len(order))
	for _, name := range order {
		facets = append(facets, models.IntegrationFacet{
			Name:        name,
			DisplayName: DisplayName(name),
			Count:       counts[name],
		})
	}
	sort.SliceStable(facets, func(i, j int) bool { return facets[i].Count > facets[j].Count })
	return facets
}

// Slugify lowercases a label and collapses whitespace runs to hyphens.
func Slugify(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "-")
}

// DisplayName formats a fully qualified node type for display:
// "n8n-nodes-base.gmail" -> "Gmail".
func DisplayName(nodeType string) string {
	parts := strings.Split(nodeType, ".")
	name := parts[len(parts)-1]
	if name == "" {
		return nodeType
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
