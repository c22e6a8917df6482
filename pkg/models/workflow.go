// Package models defines the domain models for the workflow catalog.
package models

// Difficulty classifies how hard a workflow is to set up.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty returns the Difficulty for s, or empty (unset) if s names
// no known level. An unset difficulty means "no filter applied".
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return Difficulty(s)
	}
	return ""
}

// WorkflowStats carries optional popularity counters.
type WorkflowStats struct {
	Views     int `json:"views"`
	Downloads int `json:"downloads"`
}

// Workflow is the summary record for one catalog entry, one per workflow.
// ID is globally unique across the corpus and is used as the primary key and
// in URLs. Categories and Integrations may be empty but are never nil after
// the corpus is loaded.
type Workflow struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Categories   []string       `json:"categories"`
	Integrations []string       `json:"integrations"`
	Difficulty   Difficulty     `json:"difficulty,omitempty"`
	Author       string         `json:"author,omitempty"`
	Stats        *WorkflowStats `json:"stats,omitempty"`
}

// HasCategory reports whether the workflow carries the exact category label.
func (w *Workflow) HasCategory(category string) bool {
	for _, c := range w.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// HasIntegration reports whether the workflow uses the exact node-type
// identifier.
func (w *Workflow) HasIntegration(integration string) bool {
	for _, i := range w.Integrations {
		if i == integration {
			return true
		}
	}
	return false
}

// CategoryFacet is the aggregate count of workflows sharing a category label.
type CategoryFacet struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// IntegrationFacet is the aggregate count of workflows using a node type.
type IntegrationFacet struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
}

// PageInfo describes one page of a result set. Total counts records after
// search and filtering, before slicing.
type PageInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}
