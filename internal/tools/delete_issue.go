package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// DeleteIssueTool handles the plane_delete_issue MCP tool.
type DeleteIssueTool struct {
	svc      Tracker
	observer ActivityObserver
}

func NewDeleteIssueTool(svc Tracker, observer ActivityObserver) *DeleteIssueTool {
	return &DeleteIssueTool{svc: svc, observer: observer}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_delete_issue",
		mcp.WithDescription("Delete an issue by its ticket ID."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
	)
}

// Handle processes the plane_delete_issue tool call.
func (t *DeleteIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ticketArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.DeleteIssue(ctx, args.TicketID)
	notifyObserver(t.observer, Activity{
		Tool:     "plane_delete_issue",
		Project:  ticketProject(args.TicketID),
		TicketID: args.TicketID,
		Err:      err,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}
