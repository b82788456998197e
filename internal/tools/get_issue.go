package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetIssueTool handles the plane_get_issue MCP tool.
type GetIssueTool struct {
	svc Tracker
}

func NewGetIssueTool(svc Tracker) *GetIssueTool {
	return &GetIssueTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *GetIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_get_issue",
		mcp.WithDescription(
			"Get a single issue by its ticket ID (e.g., SBS-123, MOB-45). Returns full issue details.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
	)
}

// Handle processes the plane_get_issue tool call.
func (t *GetIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ticketArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	issue, err := t.svc.GetIssue(ctx, args.TicketID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(issue)
}
