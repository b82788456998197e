package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/plane-mcp/internal/plane"
	"github.com/HendryAvila/plane-mcp/internal/projects"
)

// Defaults applied when the caller leaves a field out.
const (
	DefaultListLimit = 50
	DefaultState     = "Todo"
	DefaultPriority  = "none"
)

// Backend is the subset of the Plane client the service drives.
type Backend interface {
	IssueLister
	GetIssue(ctx context.Context, projectID, issueID string) (*plane.Issue, error)
	CreateIssue(ctx context.Context, projectID string, fields map[string]any) (*plane.Issue, error)
	UpdateIssue(ctx context.Context, projectID, issueID string, fields map[string]any) error
	DeleteIssue(ctx context.Context, projectID, issueID string) error
	ListComments(ctx context.Context, projectID, issueID string) ([]plane.Comment, error)
	AddComment(ctx context.Context, projectID, issueID, html string) (*plane.Comment, error)
	ListLinks(ctx context.Context, projectID, issueID string) ([]plane.Link, error)
	AddLink(ctx context.Context, projectID, issueID, title, rawURL string) (*plane.Link, error)
}

// Service runs the issue, comment and link operations against a Backend.
type Service struct {
	registry *projects.Registry
	backend  Backend
	resolver *Resolver
}

// NewService builds a Service and its Resolver over backend.
func NewService(registry *projects.Registry, backend Backend) *Service {
	return &Service{
		registry: registry,
		backend:  backend,
		resolver: NewResolver(registry, backend),
	}
}

// Registry exposes the project table the service was built with.
func (s *Service) Registry() *projects.Registry { return s.registry }

// Resolve exposes ticket resolution to callers that only need the reference.
func (s *Service) Resolve(ctx context.Context, ticketID string) (Reference, error) {
	return s.resolver.Resolve(ctx, ticketID)
}

// --- Issues ---

// ListIssuesParams filters plane_list_issues. State is a state name.
type ListIssuesParams struct {
	Project  string
	State    string // state name, optional
	Priority string // optional
	Limit    int    // <= 0 means DefaultListLimit
}

// ListIssuesResult is the rendered issue page of one project.
type ListIssuesResult struct {
	Issues  []DisplayIssue `json:"issues"`
	Total   int            `json:"total"`
	Project string         `json:"project"`
}

// ListIssues returns one page of a project's issues, translating the state filter to its ID.
func (s *Service) ListIssues(ctx context.Context, p ListIssuesParams) (*ListIssuesResult, error) {
	project, err := s.project(p.Project)
	if err != nil {
		return nil, err
	}

	q := plane.IssueQuery{PerPage: p.Limit, Priority: p.Priority}
	if q.PerPage <= 0 {
		q.PerPage = DefaultListLimit
	}
	if p.State != "" {
		if q.State, err = s.stateID(project.Code, p.State); err != nil {
			return nil, err
		}
	}

	issues, err := s.backend.ListIssues(ctx, project.ID, q)
	if err != nil {
		return nil, fmt.Errorf("listing %s issues: %w", project.Code, err)
	}

	out := &ListIssuesResult{
		Issues:  make([]DisplayIssue, 0, len(issues)),
		Total:   len(issues),
		Project: project.Code,
	}
	for _, issue := range issues {
		out.Issues = append(out.Issues, RenderIssue(s.registry, issue, project.Code))
	}
	return out, nil
}

// GetIssue resolves ticketID and returns the rendered issue.
func (s *Service) GetIssue(ctx context.Context, ticketID string) (*DisplayIssue, error) {
	ref, err := s.resolver.Resolve(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	issue, err := s.backend.GetIssue(ctx, ref.ProjectID, ref.IssueID)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", ticketID, err)
	}
	display := RenderIssue(s.registry, *issue, ref.Project)
	return &display, nil
}

// CreateIssueParams holds the new issue. Empty State and Priority take the defaults.
type CreateIssueParams struct {
	Project         string
	Name            string
	DescriptionHTML string
	Priority        string // defaults to DefaultPriority
	State           string // defaults to DefaultState
	Assignees       []string
	Labels          []string
	StartDate       string
	TargetDate      string
	Parent          string
}

// CreateIssueResult carries the display ID of the created issue.
type CreateIssueResult struct {
	Status   string `json:"status"`
	TicketID string `json:"ticket_id"`
}

// CreateIssue creates an issue in p.Project and returns its display ticket ID.
func (s *Service) CreateIssue(ctx context.Context, p CreateIssueParams) (*CreateIssueResult, error) {
	project, err := s.project(p.Project)
	if err != nil {
		return nil, err
	}

	stateName := p.State
	if stateName == "" {
		stateName = DefaultState
	}
	stateID, err := s.stateID(project.Code, stateName)
	if err != nil {
		return nil, err
	}

	priority := p.Priority
	if priority == "" {
		priority = DefaultPriority
	}

	fields := map[string]any{
		"name":     p.Name,
		"priority": priority,
		"state":    stateID,
	}
	setIf(fields, "description_html", p.DescriptionHTML)
	setIf(fields, "start_date", p.StartDate)
	setIf(fields, "target_date", p.TargetDate)
	setIf(fields, "parent", p.Parent)
	if p.Assignees != nil {
		fields["assignees"] = p.Assignees
	}
	if p.Labels != nil {
		fields["labels"] = p.Labels
	}

	issue, err := s.backend.CreateIssue(ctx, project.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("creating %s issue: %w", project.Code, err)
	}
	return &CreateIssueResult{
		Status:   "done",
		TicketID: projects.FormatTicket(project.Code, issue.SequenceID),
	}, nil
}

// Nullable is an optional field that may also be explicitly null.
// Set is false when the key was absent; Value is nil for an explicit null.
type Nullable struct {
	Set   bool
	Value *string
}

// NullableOf returns a set, non-null Nullable.
func NullableOf(v string) Nullable { return Nullable{Set: true, Value: &v} }

// Null returns an explicit null.
func Null() Nullable { return Nullable{Set: true} }

func (n *Nullable) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// UpdateIssueParams carries only the fields to change; nil pointers and
// unset Nullables are left out of the patch.
type UpdateIssueParams struct {
	TicketID        string
	Name            *string
	DescriptionHTML *string
	Priority        *string
	State           *string
	Assignees       *[]string
	Labels          *[]string
	StartDate       Nullable
	TargetDate      Nullable
}

// StatusResult acknowledges a write with no other payload.
type StatusResult struct {
	Status string `json:"status"`
}

// UpdateIssue resolves the ticket, then checks the state name against that
// ticket's project before sending the patch.
func (s *Service) UpdateIssue(ctx context.Context, p UpdateIssueParams) (*StatusResult, error) {
	ref, err := s.resolver.Resolve(ctx, p.TicketID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.DescriptionHTML != nil {
		fields["description_html"] = *p.DescriptionHTML
	}
	if p.Priority != nil {
		fields["priority"] = *p.Priority
	}
	if p.Assignees != nil {
		fields["assignees"] = *p.Assignees
	}
	if p.Labels != nil {
		fields["labels"] = *p.Labels
	}
	if p.StartDate.Set {
		fields["start_date"] = p.StartDate.Value
	}
	if p.TargetDate.Set {
		fields["target_date"] = p.TargetDate.Value
	}
	if p.State != nil {
		stateID, err := s.stateID(ref.Project, *p.State)
		if err != nil {
			return nil, err
		}
		fields["state"] = stateID
	}

	if err := s.backend.UpdateIssue(ctx, ref.ProjectID, ref.IssueID, fields); err != nil {
		return nil, fmt.Errorf("updating %s: %w", p.TicketID, err)
	}
	return &StatusResult{Status: "done"}, nil
}

// DeleteIssueResult acknowledges a deleted ticket.
type DeleteIssueResult struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticket_id"`
}

// DeleteIssue resolves ticketID and deletes the issue.
func (s *Service) DeleteIssue(ctx context.Context, ticketID string) (*DeleteIssueResult, error) {
	ref, err := s.resolver.Resolve(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.backend.DeleteIssue(ctx, ref.ProjectID, ref.IssueID); err != nil {
		return nil, fmt.Errorf("deleting %s: %w", ticketID, err)
	}
	return &DeleteIssueResult{Success: true, TicketID: ticketID}, nil
}

// --- Comments ---

// CommentsResult lists the comments of one ticket.
type CommentsResult struct {
	TicketID string           `json:"ticket_id"`
	Comments []CommentSummary `json:"comments"`
	Total    int              `json:"total"`
}

// ListComments resolves ticketID and lists its comments.
func (s *Service) ListComments(ctx context.Context, ticketID string) (*CommentsResult, error) {
	ref, err := s.resolver.Resolve(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.backend.ListComments(ctx, ref.ProjectID, ref.IssueID)
	if err != nil {
		return nil, fmt.Errorf("listing comments on %s: %w", ticketID, err)
	}

	out := &CommentsResult{
		TicketID: ticketID,
		Comments: make([]CommentSummary, 0, len(comments)),
		Total:    len(comments),
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, renderComment(c))
	}
	return out, nil
}

// AddComment posts an HTML comment on the ticket.
func (s *Service) AddComment(ctx context.Context, ticketID, html string) (*StatusResult, error) {
	ref, err := s.resolver.Resolve(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.backend.AddComment(ctx, ref.ProjectID, ref.IssueID, html); err != nil {
		return nil, fmt.Errorf("commenting on %s: %w", ticketID, err)
	}
	return &StatusResult{Status: "done"}, nil
}

// --- Links ---

// LinksResult lists the external links of one ticket.
type LinksResult struct {
	TicketID string        `json:"ticket_id"`
	Links    []LinkSummary `json:"links"`
	Total    int           `json:"total"`
}

// ListLinks resolves ticketID and lists its external links.
func (s *Service) ListLinks(ctx context.Context, ticketID string) (*LinksResult, error) {
	ref, err := s.resolver.Resolve(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	links, err := s.backend.ListLinks(ctx, ref.ProjectID, ref.IssueID)
	if err != nil {
		return nil, fmt.Errorf("listing links on %s: %w", ticketID, err)
	}

	out := &LinksResult{
		TicketID: ticketID,
		Links:    make([]LinkSummary, 0, len(links)),
		Total:    len(links),
	}
	for _, l := range links {
		out.Links = append(out.Links, renderLink(l))
	}
	return out, nil
}

// AddLinkResult returns the link as created.
type AddLinkResult struct {
	TicketID string      `json:"ticket_id"`
	Link     LinkSummary `json:"link"`
}

// AddLink attaches rawURL to the ticket under title.
func (s *Service) AddLink(ctx context.Context, ticketID, title, rawURL string) (*AddLinkResult, error) {
	ref, err := s.resolver.Resolve(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	link, err := s.backend.AddLink(ctx, ref.ProjectID, ref.IssueID, title, rawURL)
	if err != nil {
		return nil, fmt.Errorf("linking %s: %w", ticketID, err)
	}

	// The creation record omits updated_at.
	summary := renderLink(*link)
	summary.UpdatedAt = ""
	return &AddLinkResult{TicketID: ticketID, Link: summary}, nil
}

// --- helpers ---

func (s *Service) project(code string) (projects.Project, error) {
	p, err := s.registry.Describe(code)
	if err != nil {
		return projects.Project{}, plane.Invalid(
			fmt.Sprintf("Unknown project %q. Valid projects: %s", code, strings.Join(s.registry.Codes(), ", ")),
			nil, err)
	}
	return p, nil
}

func (s *Service) stateID(code, name string) (string, error) {
	id, err := s.registry.ResolveStateForWrite(code, name)
	if err != nil {
		var ise *projects.InvalidStateError
		if errors.As(err, &ise) {
			return "", plane.Invalid(ise.Error(), nil, ise)
		}
		return "", err
	}
	return id, nil
}

func setIf(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
