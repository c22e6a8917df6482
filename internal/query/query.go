// Package query applies exact-match filters and stable pagination to an
// already-ranked record list.
package query

import (
	"flowdex/backend/pkg/models"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 24

// Filters holds the optional exact-match predicates of one query. A zero
// value on any field means that predicate is skipped. Filters compose by
// logical AND and are commutative.
type Filters struct {
	Category    string
	Integration string
	Difficulty  models.Difficulty
}

// IsZero reports whether no predicate is set.
func (f Filters) IsZero() bool {
	return f.Category == "" && f.Integration == "" && f.Difficulty == ""
}

// Apply returns the records passing every set predicate, preserving input
// order. Matching is exact and case-sensitive; there is no fuzziness at the
// filter stage.
func Apply(records []models.Workflow, f Filters) []models.Workflow {
	if f.IsZero() {
		return records
	}

	out := make([]models.Workflow, 0, len(records))
	for _, w := range records {
		if f.Category != "" && !w.HasCategory(f.Category) {
			continue
		}
		if f.Integration != "" && !w.HasIntegration(f.Integration) {
			continue
		}
		if f.Difficulty != "" && w.Difficulty != f.Difficulty {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Paginate slices one 1-indexed page out of records and reports the page
// metadata. Out-of-range pages yield an empty slice, never an error; Total
// always counts the full filtered set.
func Paginate(records []models.Workflow, page, limit int) ([]models.Workflow, models.PageInfo) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total := len(records)
	totalPages := (total + limit - 1) / limit

	info := models.PageInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}

	offset := (page - 1) * limit
	if offset >= total {
		return []models.Workflow{}, info
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return records[offset:end], info
}
