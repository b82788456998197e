package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListLinksTool handles the plane_list_links MCP tool.
type ListLinksTool struct {
	svc Tracker
}

func NewListLinksTool(svc Tracker) *ListLinksTool {
	return &ListLinksTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ListLinksTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_list_links",
		mcp.WithDescription("List external links attached to an issue (e.g., Monday.com associations)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
	)
}

// Handle processes the plane_list_links tool call.
func (t *ListLinksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ticketArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.ListLinks(ctx, args.TicketID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

// AddLinkTool handles the plane_add_link MCP tool.
type AddLinkTool struct {
	svc      Tracker
	observer ActivityObserver
}

func NewAddLinkTool(svc Tracker, observer ActivityObserver) *AddLinkTool {
	return &AddLinkTool{svc: svc, observer: observer}
}

// Definition returns the MCP tool definition for registration.
func (t *AddLinkTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_add_link",
		mcp.WithDescription("Add an external link to an issue. Useful for associating Monday.com tickets."),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description(`Link title (e.g., "Monday: Website Dev #12345")`),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("External URL"),
		),
	)
}

// Handle processes the plane_add_link tool call.
func (t *AddLinkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addLinkArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.AddLink(ctx, args.TicketID, args.Title, args.URL)
	notifyObserver(t.observer, Activity{
		Tool:     "plane_add_link",
		Project:  ticketProject(args.TicketID),
		TicketID: args.TicketID,
		Err:      err,
		Detail:   args.URL,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}
