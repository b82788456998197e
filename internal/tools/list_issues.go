package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

// ListIssuesTool handles the plane_list_issues MCP tool.
type ListIssuesTool struct {
	svc   Tracker
	codes []string
}

// NewListIssuesTool creates a ListIssuesTool. codes are the registered
// project codes, offered to the host as an enum.
func NewListIssuesTool(svc Tracker, codes []string) *ListIssuesTool {
	return &ListIssuesTool{svc: svc, codes: codes}
}

// Definition returns the MCP tool definition for registration.
func (t *ListIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_list_issues",
		mcp.WithDescription(
			"List issues in a Plane project with optional filters for state and priority. "+
				"Returns issues with display ticket IDs (e.g., SBS-123).",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Enum(t.codes...),
			mcp.Description("Project identifier ("+strings.Join(t.codes, ", ")+")"),
		),
		mcp.WithString("state",
			mcp.Description(`Filter by state name (e.g., "In Progress", "Todo")`),
		),
		mcp.WithString("priority",
			mcp.Enum(priorities...),
			mcp.Description("Filter by priority"),
		),
		mcp.WithNumber("limit",
			mcp.DefaultNumber(tracker.DefaultListLimit),
			mcp.Min(1),
			mcp.Description("Maximum number of issues to return"),
		),
	)
}

// Handle processes the plane_list_issues tool call.
func (t *ListIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listIssuesArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.ListIssues(ctx, tracker.ListIssuesParams{
		Project:  args.Project,
		State:    args.State,
		Priority: args.Priority,
		Limit:    args.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}
