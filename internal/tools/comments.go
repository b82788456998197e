package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListCommentsTool handles the plane_list_comments MCP tool.
type ListCommentsTool struct {
	svc Tracker
}

func NewListCommentsTool(svc Tracker) *ListCommentsTool {
	return &ListCommentsTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ListCommentsTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_list_comments",
		mcp.WithDescription("List all comments on an issue."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
	)
}

// Handle processes the plane_list_comments tool call.
func (t *ListCommentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ticketArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.ListComments(ctx, args.TicketID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

// AddCommentTool handles the plane_add_comment MCP tool.
type AddCommentTool struct {
	svc      Tracker
	observer ActivityObserver
}

func NewAddCommentTool(svc Tracker, observer ActivityObserver) *AddCommentTool {
	return &AddCommentTool{svc: svc, observer: observer}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_add_comment",
		mcp.WithDescription("Add a comment to an issue. Comment should be in HTML format."),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
		mcp.WithString("comment_html",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Comment content in HTML format"),
		),
	)
}

// Handle processes the plane_add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addCommentArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.AddComment(ctx, args.TicketID, args.CommentHTML)
	notifyObserver(t.observer, Activity{
		Tool:     "plane_add_comment",
		Project:  ticketProject(args.TicketID),
		TicketID: args.TicketID,
		Err:      err,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}
