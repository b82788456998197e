// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// BriefPrompt handles the plane-ticket-brief MCP prompt.
type BriefPrompt struct{}

func NewBriefPrompt() *BriefPrompt {
	return &BriefPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *BriefPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plane-ticket-brief",
		mcp.WithPromptDescription(
			"Summarize a Plane ticket: its details, discussion and linked items, "+
				"with open questions and suggested next steps.",
		),
		mcp.WithArgument("ticket_id",
			mcp.ArgumentDescription("Ticket ID in display format (e.g., SBS-123)"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the plane-ticket-brief prompt request.
func (p *BriefPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	ticketID := strings.TrimSpace(req.Params.Arguments["ticket_id"])
	if ticketID == "" {
		return nil, fmt.Errorf("ticket_id is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Brief for %s", ticketID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Give me a brief on Plane ticket %[1]s.\n\n"+
						"Please:\n"+
						"1. Run `plane_get_issue` with ticket_id='%[1]s'\n"+
						"2. Run `plane_list_comments` with ticket_id='%[1]s'\n"+
						"3. Run `plane_list_links` with ticket_id='%[1]s'\n"+
						"4. Summarize: title, state, priority, dates, what the description asks for, "+
						"what the discussion decided, and which external items are linked\n"+
						"5. End with open questions and a suggested next step\n\n"+
						"Do not change the ticket unless I ask you to.",
					ticketID,
				)),
			},
		},
	}, nil
}
