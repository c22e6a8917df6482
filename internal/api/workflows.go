package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"flowdex/backend/internal/query"
	"flowdex/backend/internal/services"
	"flowdex/backend/pkg/models"
)

// Server holds the dependencies for the API server.
type Server struct {
	Catalog *services.Catalog
	Logger  *slog.Logger

	queries metric.Int64Counter
}

// NewServer creates a new Server.
func NewServer(catalog *services.Catalog, logger *slog.Logger) *Server {
	meter := otel.Meter("flowdex/backend/internal/api")
	queries, err := meter.Int64Counter("catalog.queries",
		metric.WithDescription("Catalog query requests served"))
	if err != nil {
		logger.Warn("metric registration failed", "error", err)
	}
	return &Server{Catalog: catalog, Logger: logger, queries: queries}
}

// RegisterHandlers mounts the catalog routes on g.
func RegisterHandlers(g *echo.Group, s *Server) {
	g.GET("/workflows", s.ListWorkflows)
	g.GET("/workflows/recent", s.RecentWorkflows)
	g.GET("/workflows/:id", s.GetWorkflow)
	g.GET("/workflows/:id/diagram", s.GetWorkflowDiagram)
	g.GET("/categories", s.ListCategories)
	g.GET("/integrations", s.ListIntegrations)
}

// ListWorkflows answers the catalog query boundary: optional free text `q`,
// exact `category` / `integration` / `difficulty` filters, and `page` /
// `limit` pagination. Zero results is a valid 200 response.
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	ctx := c.Request().Context()

	params := services.QueryParams{
		Query:       c.QueryParam("q"),
		Category:    c.QueryParam("category"),
		Integration: c.QueryParam("integration"),
		Difficulty:  models.ParseDifficulty(c.QueryParam("difficulty")),
		Page:        intParam(c, "page", 1),
		Limit:       intParam(c, "limit", query.DefaultLimit),
	}

	if s.queries != nil {
		s.queries.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("search", params.Query != ""),
			attribute.Bool("filtered", params.Category != "" || params.Integration != "" || params.Difficulty != ""),
		))
	}

	return c.JSON(http.StatusOK, s.Catalog.Query(ctx, params))
}

// RecentWorkflows returns the newest records by numeric id.
// (GET /api/v1/workflows/recent)
func (s *Server) RecentWorkflows(c echo.Context) error {
	limit := intParam(c, "limit", 12)
	return c.JSON(http.StatusOK, map[string]any{
		"workflows": s.Catalog.Recent(limit),
	})
}

// GetWorkflow returns one record together with its normalized graph. An
// unavailable definition degrades to a record-only response.
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := s.Catalog.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return problem(c, http.StatusNotFound, "Not Found", "no workflow with that id")
		}
		s.Logger.Error("workflow lookup failed", "workflow_id", c.Param("id"), "error", err)
		return problem(c, http.StatusInternalServerError, "Internal Server Error", "workflow lookup failed")
	}

	return c.JSON(http.StatusOK, detail)
}

// GetWorkflowDiagram returns the Mermaid rendering of the workflow's graph.
// (GET /api/v1/workflows/:id/diagram)
func (s *Server) GetWorkflowDiagram(c echo.Context) error {
	ctx := c.Request().Context()

	diagram, err := s.Catalog.Diagram(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return problem(c, http.StatusNotFound, "Not Found", "no workflow with that id")
		}
		s.Logger.Error("diagram rendering failed", "workflow_id", c.Param("id"), "error", err)
		return problem(c, http.StatusInternalServerError, "Internal Server Error", "diagram rendering failed")
	}

	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(diagram))
}

// ListCategories returns the category facets, count-descending.
// (GET /api/v1/categories)
func (s *Server) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"categories": s.Catalog.Categories(),
	})
}

// ListIntegrations returns the node-type facets, count-descending.
// (GET /api/v1/integrations)
func (s *Server) ListIntegrations(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"integrations": s.Catalog.Integrations(),
	})
}

// intParam parses a positive integer query parameter, falling back to def on
// absence or malformed input.
func intParam(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
