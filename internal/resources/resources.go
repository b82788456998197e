// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (plane://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/projects"
)

// ProjectsURI addresses the project table resource.
const ProjectsURI = "plane://projects"

// Handler serves resources derived from the project registry.
type Handler struct {
	registry *projects.Registry
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(registry *projects.Registry) *Handler {
	return &Handler{registry: registry}
}

// ProjectsResource returns the MCP resource definition for the project table.
func (h *Handler) ProjectsResource() mcp.Resource {
	return mcp.NewResource(
		ProjectsURI,
		"Plane Projects",
		mcp.WithResourceDescription("Known Plane projects: ticket prefix, project ID, and workflow states with their IDs"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProjects returns the full project table as JSON.
func (h *Handler) HandleProjects(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(map[string]any{"projects": h.registry.Projects()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling projects: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
