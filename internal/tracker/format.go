package tracker

import (
	"github.com/HendryAvila/plane-mcp/internal/plane"
	"github.com/HendryAvila/plane-mcp/internal/projects"
)

// DisplayIssue is an issue as shown to the host: the ticket ID replaces
// the sequence number and the state is shown by name, with the raw state
// ID kept next to it.
type DisplayIssue struct {
	TicketID        string   `json:"ticket_id"`
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	Priority        string   `json:"priority"`
	State           string   `json:"state"`
	StateID         string   `json:"state_id"`
	Assignees       []string `json:"assignees"`
	Labels          []string `json:"labels"`
	StartDate       *string  `json:"start_date"`
	TargetDate      *string  `json:"target_date"`
	Parent          *string  `json:"parent,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	CreatedBy       string   `json:"created_by"`
}

// RenderIssue shapes a raw issue of project code for display. It never fails.
func RenderIssue(registry *projects.Registry, issue plane.Issue, code string) DisplayIssue {
	return DisplayIssue{
		TicketID:        projects.FormatTicket(code, issue.SequenceID),
		ID:              issue.ID,
		Name:            issue.Name,
		DescriptionHTML: issue.DescriptionHTML,
		Priority:        issue.Priority,
		State:           registry.DisplayState(code, issue.State),
		StateID:         issue.State,
		Assignees:       issue.Assignees,
		Labels:          issue.Labels,
		StartDate:       issue.StartDate,
		TargetDate:      issue.TargetDate,
		Parent:          issue.Parent,
		CreatedAt:       issue.CreatedAt,
		UpdatedAt:       issue.UpdatedAt,
		CreatedBy:       issue.CreatedBy,
	}
}

// CommentSummary is one entry of a comment listing.
type CommentSummary struct {
	ID          string `json:"id"`
	CommentHTML string `json:"comment_html"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CreatedBy   string `json:"created_by"`
	Actor       string `json:"actor"`
}

func renderComment(c plane.Comment) CommentSummary {
	return CommentSummary(c)
}

// LinkSummary is one entry of a link listing.
type LinkSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	CreatedBy string `json:"created_by"`
}

func renderLink(l plane.Link) LinkSummary {
	return LinkSummary(l)
}
