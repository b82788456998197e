package plane

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Issue is a work item as Plane returns it. State is the backend state ID.
type Issue struct {
	ID              string   `json:"id"`
	SequenceID      int      `json:"sequence_id"`
	Name            string   `json:"name"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	Priority        string   `json:"priority"`
	State           string   `json:"state"`
	Assignees       []string `json:"assignees"`
	Labels          []string `json:"labels"`
	StartDate       *string  `json:"start_date"`
	TargetDate      *string  `json:"target_date"`
	Parent          *string  `json:"parent,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	CreatedBy       string   `json:"created_by"`
}

// list decodes either a bare JSON array or a paginated envelope
// {"results": [...]}. An envelope without results decodes as empty.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	*l = envelope.Results
	return nil
}

// IssueQuery filters ListIssues. Zero values are omitted from the query.
type IssueQuery struct {
	PerPage  int
	State    string // state ID
	Priority string
}

func (q IssueQuery) encode() string {
	v := url.Values{}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.State != "" {
		v.Set("state", q.State)
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func issuesPath(projectID string) string {
	return "/projects/" + url.PathEscape(projectID) + "/issues/"
}

func issuePath(projectID, issueID string) string {
	return issuesPath(projectID) + url.PathEscape(issueID) + "/"
}

// ListIssues fetches a single page of a project's issues.
func (c *Client) ListIssues(ctx context.Context, projectID string, q IssueQuery) ([]Issue, error) {
	var out list[Issue]
	if err := c.Do(ctx, http.MethodGet, issuesPath(projectID)+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return []Issue(out), nil
}

func (c *Client) GetIssue(ctx context.Context, projectID, issueID string) (*Issue, error) {
	var out Issue
	if err := c.Do(ctx, http.MethodGet, issuePath(projectID, issueID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateIssue posts fields as the new issue body and returns the created issue.
func (c *Client) CreateIssue(ctx context.Context, projectID string, fields map[string]any) (*Issue, error) {
	var out Issue
	if err := c.Do(ctx, http.MethodPost, issuesPath(projectID), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIssue patches only the keys present in fields. An empty map is
// sent as {}.
func (c *Client) UpdateIssue(ctx context.Context, projectID, issueID string, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	return c.Do(ctx, http.MethodPatch, issuePath(projectID, issueID), fields, nil)
}

func (c *Client) DeleteIssue(ctx context.Context, projectID, issueID string) error {
	return c.Do(ctx, http.MethodDelete, issuePath(projectID, issueID), nil, nil)
}
