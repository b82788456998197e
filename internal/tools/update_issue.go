package tools

import (
	"context"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

// UpdateIssueTool handles the plane_update_issue MCP tool.
// Only the fields present in the call are sent; start_date and
// target_date may be null to clear them.
type UpdateIssueTool struct {
	svc      Tracker
	observer ActivityObserver
}

// NewUpdateIssueTool creates an UpdateIssueTool. observer may be nil.
func NewUpdateIssueTool(svc Tracker, observer ActivityObserver) *UpdateIssueTool {
	return &UpdateIssueTool{svc: svc, observer: observer}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_update_issue",
		mcp.WithDescription(
			"Update an existing issue. Can change state, priority, title, description, etc. Accepts state names.",
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("ticket_id",
			mcp.Required(),
			mcp.Description(ticketIDDescription),
		),
		mcp.WithString("name",
			mcp.Description("New issue title"),
		),
		mcp.WithString("description_html",
			mcp.Description("New HTML description"),
		),
		mcp.WithString("priority",
			mcp.Enum(priorities...),
			mcp.Description("New priority"),
		),
		mcp.WithString("state",
			mcp.Description(`New state name (e.g., "In Progress", "Done")`),
		),
		mcp.WithArray("assignees",
			mcp.WithStringItems(),
			mcp.Description("New assignees array (user UUIDs)"),
		),
		mcp.WithArray("labels",
			mcp.WithStringItems(),
			mcp.Description("New labels array (label UUIDs)"),
		),
		mcp.WithString("start_date",
			mcp.Description("New start date (YYYY-MM-DD), or null to clear"),
		),
		mcp.WithString("target_date",
			mcp.Description("New due date (YYYY-MM-DD), or null to clear"),
		),
	)
}

// Handle processes the plane_update_issue tool call.
func (t *UpdateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateIssueArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.UpdateIssue(ctx, tracker.UpdateIssueParams{
		TicketID:        args.TicketID,
		Name:            args.Name,
		DescriptionHTML: args.DescriptionHTML,
		Priority:        args.Priority,
		State:           args.State,
		Assignees:       args.Assignees,
		Labels:          args.Labels,
		StartDate:       args.StartDate,
		TargetDate:      args.TargetDate,
	})

	notifyObserver(t.observer, Activity{
		Tool:     "plane_update_issue",
		Project:  ticketProject(args.TicketID),
		TicketID: args.TicketID,
		Err:      err,
		Detail:   changedFields(req),
	})

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

// changedFields lists the argument keys other than ticket_id, sorted.
func changedFields(req mcp.CallToolRequest) string {
	var keys []string
	for k := range req.GetArguments() {
		if k != "ticket_id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
