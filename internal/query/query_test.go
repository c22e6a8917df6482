package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdex/backend/pkg/models"
)

func fixtureRecords() []models.Workflow {
	return []models.Workflow{
		{ID: "1", Categories: []string{"automation", "productivity"}, Integrations: []string{"slack"}, Difficulty: models.DifficultyBeginner},
		{ID: "2", Categories: []string{"automation"}, Integrations: []string{"gmail"}, Difficulty: models.DifficultyIntermediate},
		{ID: "3", Categories: []string{"devops"}, Integrations: []string{"slack", "postgres"}, Difficulty: models.DifficultyAdvanced},
		{ID: "4", Categories: []string{"automation", "devops"}, Integrations: []string{"slack"}},
	}
}

func ids(ws []models.Workflow) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

func TestApplyNoFiltersIsNoOp(t *testing.T) {
	records := fixtureRecords()
	assert.Equal(t, ids(records), ids(Apply(records, Filters{})))
}

func TestApplyCategoryExactMatch(t *testing.T) {
	got := Apply(fixtureRecords(), Filters{Category: "automation"})
	assert.Equal(t, []string{"1", "2", "4"}, ids(got))

	assert.Empty(t, Apply(fixtureRecords(), Filters{Category: "Automation"}),
		"matching is case-sensitive, no fuzziness")
}

func TestApplyIntegrationFilter(t *testing.T) {
	got := Apply(fixtureRecords(), Filters{Integration: "slack"})
	assert.Equal(t, []string{"1", "3", "4"}, ids(got))
}

func TestApplyDifficultyFilter(t *testing.T) {
	got := Apply(fixtureRecords(), Filters{Difficulty: models.DifficultyAdvanced})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApplyFiltersCompose(t *testing.T) {
	got := Apply(fixtureRecords(), Filters{Category: "devops", Integration: "slack"})
	assert.Equal(t, []string{"3", "4"}, ids(got))
}

// Category-then-integration yields the same set as integration-then-category.
func TestApplyCommutative(t *testing.T) {
	records := fixtureRecords()

	catFirst := Apply(Apply(records, Filters{Category: "automation"}), Filters{Integration: "slack"})
	integFirst := Apply(Apply(records, Filters{Integration: "slack"}), Filters{Category: "automation"})
	combined := Apply(records, Filters{Category: "automation", Integration: "slack"})

	assert.Equal(t, ids(catFirst), ids(integFirst))
	assert.Equal(t, ids(catFirst), ids(combined))
}

func TestPaginateTotals(t *testing.T) {
	records := make([]models.Workflow, 57)
	for i := range records {
		records[i] = models.Workflow{ID: fmt.Sprintf("%d", i+1)}
	}

	page1, info := Paginate(records, 1, 24)
	assert.Len(t, page1, 24)
	assert.Equal(t, models.PageInfo{Page: 1, Limit: 24, Total: 57, TotalPages: 3, HasMore: true}, info)
	assert.Equal(t, "1", page1[0].ID)

	page3, info := Paginate(records, 3, 24)
	assert.Len(t, page3, 9)
	assert.False(t, info.HasMore)
	assert.Equal(t, "49", page3[0].ID)

	page4, info := Paginate(records, 4, 24)
	assert.Empty(t, page4)
	assert.False(t, info.HasMore)
	assert.Equal(t, 57, info.Total, "total counts the full filtered set even out of range")
}

func TestPaginateDefaults(t *testing.T) {
	records := fixtureRecords()

	got, info := Paginate(records, 0, 0)
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, DefaultLimit, info.Limit)
	assert.Len(t, got, len(records))
}

func TestPaginateEmptyInput(t *testing.T) {
	got, info := Paginate(nil, 1, 24)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, info.Total)
	assert.Equal(t, 0, info.TotalPages)
	assert.False(t, info.HasMore)
}
