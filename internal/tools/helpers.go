// Package tools implements the MCP tool handlers for Plane.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition (for registration) and Handle (the
// mcp-go handler). Domain failures are returned as tool results with
// isError set, never as Go errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/plane-mcp/internal/plane"
	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

// Tracker is the set of issue operations the tools call.
// *tracker.Service implements it.
type Tracker interface {
	ListIssues(ctx context.Context, p tracker.ListIssuesParams) (*tracker.ListIssuesResult, error)
	GetIssue(ctx context.Context, ticketID string) (*tracker.DisplayIssue, error)
	CreateIssue(ctx context.Context, p tracker.CreateIssueParams) (*tracker.CreateIssueResult, error)
	UpdateIssue(ctx context.Context, p tracker.UpdateIssueParams) (*tracker.StatusResult, error)
	DeleteIssue(ctx context.Context, ticketID string) (*tracker.DeleteIssueResult, error)
	ListComments(ctx context.Context, ticketID string) (*tracker.CommentsResult, error)
	AddComment(ctx context.Context, ticketID, html string) (*tracker.StatusResult, error)
	ListLinks(ctx context.Context, ticketID string) (*tracker.LinksResult, error)
	AddLink(ctx context.Context, ticketID, title, rawURL string) (*tracker.AddLinkResult, error)
}

// ticketIDDescription is shared by every ticket-targeted tool.
const ticketIDDescription = "Ticket ID in display format (e.g., SBS-123, MOB-45)"

var priorities = []string{"none", "low", "medium", "high", "urgent"}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult renders err in the Plane error taxonomy.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(plane.Describe(err))
}

// ticketProject returns the project code prefix of ticket text, or "".
func ticketProject(ticketID string) string {
	code, _, ok := strings.Cut(ticketID, "-")
	if !ok {
		return ""
	}
	return code
}
