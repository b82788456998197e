package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/projects"
)

// ProjectsTool handles the plane_list_projects MCP tool. It reads only the
// local project table.
type ProjectsTool struct {
	registry *projects.Registry
}

func NewProjectsTool(registry *projects.Registry) *ProjectsTool {
	return &ProjectsTool{registry: registry}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_list_projects",
		mcp.WithDescription(
			"List the Plane projects this server knows about, with their ticket prefix "+
				"and workflow state names in order. Use it to find valid project codes and state names.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// ProjectSummary is one entry of the plane_list_projects result.
type ProjectSummary struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	States []string `json:"states"`
}

// SummarizeProjects lists every registered project in table order.
func SummarizeProjects(registry *projects.Registry) []ProjectSummary {
	all := registry.Projects()
	out := make([]ProjectSummary, 0, len(all))
	for _, p := range all {
		out = append(out, ProjectSummary{Code: p.Code, Name: p.Name, States: p.StateNames()})
	}
	return out
}

// Handle processes the plane_list_projects tool call.
func (t *ProjectsTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := SummarizeProjects(t.registry)
	return jsonResult(map[string]any{"projects": list, "total": len(list)})
}
