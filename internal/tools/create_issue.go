package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

// CreateIssueTool handles the plane_create_issue MCP tool.
// State names are translated to backend IDs; the state defaults to Todo
// and the priority to none.
type CreateIssueTool struct {
	svc      Tracker
	codes    []string
	observer ActivityObserver
}

// NewCreateIssueTool creates a CreateIssueTool. observer may be nil.
func NewCreateIssueTool(svc Tracker, codes []string, observer ActivityObserver) *CreateIssueTool {
	return &CreateIssueTool{svc: svc, codes: codes, observer: observer}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_create_issue",
		mcp.WithDescription(
			`Create a new issue in a Plane project. Accepts state names (e.g., "In Progress") instead of UUIDs.`,
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Enum(t.codes...),
			mcp.Description("Project identifier"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.Description("Issue title"),
		),
		mcp.WithString("description_html",
			mcp.Description("HTML description"),
		),
		mcp.WithString("priority",
			mcp.Enum(priorities...),
			mcp.DefaultString(tracker.DefaultPriority),
			mcp.Description("Priority level"),
		),
		mcp.WithString("state",
			mcp.Description(`State name (defaults to "`+tracker.DefaultState+`")`),
		),
		mcp.WithArray("assignees",
			mcp.WithStringItems(),
			mcp.Description("Array of user UUIDs"),
		),
		mcp.WithArray("labels",
			mcp.WithStringItems(),
			mcp.Description("Array of label UUIDs"),
		),
		mcp.WithString("start_date",
			mcp.Description("Start date (YYYY-MM-DD)"),
		),
		mcp.WithString("target_date",
			mcp.Description("Due date (YYYY-MM-DD)"),
		),
		mcp.WithString("parent",
			mcp.Description("Parent issue UUID for sub-issues"),
		),
	)
}

// Handle processes the plane_create_issue tool call.
func (t *CreateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createIssueArgs
	if res := bindArgs(req, &args); res != nil {
		return res, nil
	}

	out, err := t.svc.CreateIssue(ctx, tracker.CreateIssueParams{
		Project:         args.Project,
		Name:            args.Name,
		DescriptionHTML: args.DescriptionHTML,
		Priority:        args.Priority,
		State:           args.State,
		Assignees:       args.Assignees,
		Labels:          args.Labels,
		StartDate:       args.StartDate,
		TargetDate:      args.TargetDate,
		Parent:          args.Parent,
	})

	activity := Activity{Tool: "plane_create_issue", Project: args.Project, Err: err, Detail: args.Name}
	if out != nil {
		activity.TicketID = out.TicketID
	}
	notifyObserver(t.observer, activity)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}
