package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/journal"
)

// RecentActivityTool handles the plane_recent_activity MCP tool.
type RecentActivityTool struct {
	store *journal.Store
}

func NewRecentActivityTool(store *journal.Store) *RecentActivityTool {
	return &RecentActivityTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *RecentActivityTool) Definition() mcp.Tool {
	return mcp.NewTool("plane_recent_activity",
		mcp.WithDescription(
			"Show the most recent changes this server made in Plane (issues created, updated or deleted, "+
				"comments and links added), newest first. Includes failed attempts.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("project",
			mcp.Description("Only show activity for this project code"),
		),
		mcp.WithNumber("limit",
			mcp.DefaultNumber(20),
			mcp.Min(1),
			mcp.Max(100),
			mcp.Description("Maximum entries to return (default: 20, max: 100)"),
		),
	)
}

// Handle processes the plane_recent_activity tool call.
func (t *RecentActivityTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args recentActivityArgs
	// Every argument is optional.
	if req.GetArguments() != nil {
		if res := bindArgs(req, &args); res != nil {
			return res, nil
		}
	}

	entries, err := t.store.Recent(args.Project, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: reading activity: %v", err)), nil
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return jsonResult(map[string]any{
		"session_id": t.store.SessionID(),
		"entries":    entries,
		"total":      len(entries),
	})
}
