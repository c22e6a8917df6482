// Package mcp exposes the workflow catalog as MCP tools over SSE.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"flowdex/backend/internal/services"
	"flowdex/backend/pkg/models"
)

type Server struct {
	mcpServer *server.MCPServer
	catalog   *services.Catalog
}

func NewServer(catalog *services.Catalog) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Catalog",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		catalog: catalog,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"search_workflows",
			mcp.WithDescription("Search the workflow catalog with optional free text and exact filters"),
			mcp.WithString("query", mcp.Description("Free-text search term")),
			mcp.WithString("category", mcp.Description("Exact category label to filter by")),
			mcp.WithString("integration", mcp.Description("Exact node-type identifier to filter by")),
			mcp.WithString("difficulty", mcp.Description("Difficulty level: beginner, intermediate or advanced")),
			mcp.WithNumber("page", mcp.Description("1-indexed result page")),
			mcp.WithNumber("limit", mcp.Description("Page size")),
		),
		s.handleSearchWorkflows,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow",
			mcp.WithDescription("Get one workflow with its normalized graph"),
			mcp.WithString("id", mcp.Required(), mcp.Description("The workflow id")),
		),
		s.handleGetWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_categories",
			mcp.WithDescription("List category facets with occurrence counts"),
		),
		s.handleListCategories,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_integrations",
			mcp.WithDescription("List node-type facets with occurrence counts"),
		),
		s.handleListIntegrations,
	)
}

func (s *Server) handleSearchWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	params := services.QueryParams{}
	if q, ok := args["query"].(string); ok {
		params.Query = q
	}
	if cat, ok := args["category"].(string); ok {
		params.Category = cat
	}
	if integ, ok := args["integration"].(string); ok {
		params.Integration = integ
	}
	if diff, ok := args["difficulty"].(string); ok {
		params.Difficulty = models.ParseDifficulty(diff)
	}
	if page, ok := args["page"].(float64); ok {
		params.Page = int(page)
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Limit = int(limit)
	}

	result := s.catalog.Query(ctx, params)
	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	detail, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No workflow with id %q", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get workflow: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(detail)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.catalog.Categories())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListIntegrations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.catalog.Integrations())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
