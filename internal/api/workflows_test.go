package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdex/backend/internal/catalog"
	"flowdex/backend/internal/repository"
	"flowdex/backend/internal/services"
	"flowdex/backend/pkg/models"
)

type stubDetailStore struct {
	defs map[string]*models.WorkflowDefinition
}

func (s *stubDetailStore) GetDefinition(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	if def, ok := s.defs[id]; ok {
		return def, nil
	}
	return nil, repository.ErrNotFound
}

func testServer(t *testing.T) (*echo.Echo, *Server) {
	t.Helper()

	records := []models.Workflow{
		{ID: "1", Name: "Slack to Notion sync", Description: "Sync Slack messages to Notion",
			Categories: []string{"automation", "productivity"}, Integrations: []string{"slack", "notion"}},
		{ID: "2", Name: "Gmail smart labeling", Description: "Classify Gmail messages with AI",
			Categories: []string{"automation", "email"}, Integrations: []string{"gmail"}},
		{ID: "3", Name: "GitHub PR notifications", Description: "Notify a Slack channel about pull requests",
			Categories: []string{"development"}, Integrations: []string{"github", "slack"}},
		{ID: "4", Name: "Order processing", Description: "Handle e-commerce orders",
			Categories: []string{"ecommerce"}, Integrations: []string{"shopify"}},
		{ID: "5", Name: "Cross-posting", Description: "Publish to social platforms",
			Categories: []string{"social-media"}, Integrations: []string{"twitter"}},
		{ID: "6", Name: "Database backups", Description: "Back up Postgres and alert via Slack",
			Categories: []string{"automation", "devops"}, Integrations: []string{"postgres", "slack"}},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	snap, err := catalog.Parse(data)
	require.NoError(t, err)

	details := &stubDetailStore{defs: map[string]*models.WorkflowDefinition{
		"1": {
			Nodes: []models.GraphNode{
				{Name: "Slack Trigger", Type: "n8n-nodes-base.slackTrigger", Position: []float64{0, 0}},
				{Name: "Notion", Type: "n8n-nodes-base.notion", Position: []float64{200, 0}},
			},
			Connections: map[string]models.NodeOutputs{
				"Slack Trigger": {Slots: []models.OutputSlot{{
					Name:   "main",
					Groups: [][]models.ConnectionTarget{{{Node: "Notion", Index: 0}}},
				}}},
			},
		},
	}}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cat := services.NewCatalog(t.TempDir(), catalog.NewHolder(snap), details, logger)
	srv := NewServer(cat, logger)

	e := echo.New()
	RegisterHandlers(e.Group("/api/v1"), srv)
	e.GET("/healthz", srv.HandleHealth)
	return e, srv
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListWorkflowsEnvelope(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows?q=slack&category=automation&page=1&limit=24")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Workflows  []models.Workflow `json:"workflows"`
		Pagination models.PageInfo   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	got := make([]string, len(body.Workflows))
	for i, w := range body.Workflows {
		got[i] = w.ID
	}
	assert.Equal(t, []string{"1", "6"}, got)
	assert.Equal(t, models.PageInfo{Page: 1, Limit: 24, Total: 2, TotalPages: 1, HasMore: false}, body.Pagination)
}

func TestListWorkflowsNoFilters(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Workflows  []models.Workflow `json:"workflows"`
		Pagination models.PageInfo   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Workflows, 6, "empty query returns the whole corpus")
	assert.Equal(t, 1, body.Pagination.Page, "page defaults to 1")
	assert.Equal(t, 24, body.Pagination.Limit, "limit defaults to 24")
}

func TestListWorkflowsZeroResults(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows?category=no-such-category")
	require.Equal(t, http.StatusOK, rec.Code, "zero results is not an error")

	var body struct {
		Workflows  []models.Workflow `json:"workflows"`
		Pagination models.PageInfo   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Workflows)
	assert.Empty(t, body.Workflows)
	assert.Equal(t, 0, body.Pagination.Total)
}

func TestListWorkflowsMalformedPaging(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows?page=zero&limit=-3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Pagination models.PageInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 24, body.Pagination.Limit)
}

func TestGetWorkflow(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		models.Workflow
		Graph *struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
			Edges []struct {
				Source string `json:"source"`
				Target string `json:"target"`
			} `json:"edges"`
		} `json:"graph"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Slack to Notion sync", body.Name)
	require.NotNil(t, body.Graph)
	assert.Len(t, body.Graph.Nodes, 2)
	require.Len(t, body.Graph.Edges, 1)
	assert.Equal(t, "Notion", body.Graph.Edges[0].Target)
}

func TestGetWorkflowWithoutDefinition(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows/2")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), `"graph"`,
		"record without a definition blob responds record-only")
}

func TestGetWorkflowNotFound(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows/999")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get(echo.HeaderContentType))

	var pd ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, "Not Found", pd.Title)
}

func TestGetWorkflowDiagram(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows/1/diagram")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "graph TD"))
	assert.Contains(t, rec.Body.String(), "Slack Trigger")
}

func TestListCategories(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []models.CategoryFacet `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Categories)
	assert.Equal(t, "automation", body.Categories[0].Name, "most frequent category leads")
	assert.Equal(t, 3, body.Categories[0].Count)
}

func TestListIntegrations(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/integrations")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Integrations []models.IntegrationFacet `json:"integrations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Integrations)
	assert.Equal(t, "slack", body.Integrations[0].Name)
	assert.Equal(t, 3, body.Integrations[0].Count)
}

func TestRecentWorkflows(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/api/v1/workflows/recent?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Workflows []models.Workflow `json:"workflows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Workflows, 3)
	assert.Equal(t, "6", body.Workflows[0].ID, "highest numeric id is newest")
}

func TestHealth(t *testing.T) {
	e, _ := testServer(t)

	rec := doRequest(e, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
}
