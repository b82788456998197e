// Package tracker implements the issue operations exposed as tools: it
// turns ticket IDs like SBS-123 into backend references, translates
// workflow-state names, and shapes Plane responses for display.
//
// Nothing here caches backend data. Every ticket-targeted call lists the
// project's issues again, because the backend is the only source of truth
// and sequence numbers can be created or deleted between calls.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/plane-mcp/internal/plane"
	"github.com/HendryAvila/plane-mcp/internal/projects"
)

var (
	// ErrInvalidTicketFormat marks ticket text that is not <CODE>-<N> for a
	// registered CODE.
	ErrInvalidTicketFormat = errors.New("invalid ticket format")

	// ErrTicketNotFound marks a well-formed ticket with no matching issue.
	ErrTicketNotFound = errors.New("ticket not found")
)

// IssueLister is the one backend call resolution needs.
type IssueLister interface {
	ListIssues(ctx context.Context, projectID string, q plane.IssueQuery) ([]plane.Issue, error)
}

// Reference locates one issue in the backend.
type Reference struct {
	Project   string // project code, e.g. SBS
	ProjectID string
	IssueID   string
}

// Resolver maps ticket text to a Reference.
type Resolver struct {
	registry *projects.Registry
	backend  IssueLister
}

func NewResolver(registry *projects.Registry, backend IssueLister) *Resolver {
	return &Resolver{registry: registry, backend: backend}
}

// Resolve parses text, fetches the project's issue collection once and
// returns the first issue whose sequence number matches. Parse failures
// are reported before any backend call.
func (r *Resolver) Resolve(ctx context.Context, text string) (Reference, error) {
	ticket, ok := r.registry.ParseTicket(text)
	if !ok {
		return Reference{}, plane.Invalid(
			fmt.Sprintf("Invalid ticket ID format: %s. Expected format like SBS-123", text),
			nil, ErrInvalidTicketFormat)
	}

	project, err := r.registry.Describe(ticket.Project)
	if err != nil {
		return Reference{}, err
	}

	issues, err := r.backend.ListIssues(ctx, project.ID, plane.IssueQuery{})
	if err != nil {
		return Reference{}, fmt.Errorf("listing %s issues: %w", project.Code, err)
	}

	for _, issue := range issues {
		if issue.SequenceID == ticket.Sequence {
			return Reference{
				Project:   project.Code,
				ProjectID: project.ID,
				IssueID:   issue.ID,
			}, nil
		}
	}

	return Reference{}, plane.NotFound(fmt.Sprintf("Ticket %s not found", text), ErrTicketNotFound)
}
