package plane

import (
	"context"
	"net/http"
)

// Link is an external URL attached to an issue.
type Link struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	CreatedBy string `json:"created_by"`
}

func linksPath(projectID, issueID string) string {
	return issuePath(projectID, issueID) + "links/"
}

func (c *Client) ListLinks(ctx context.Context, projectID, issueID string) ([]Link, error) {
	var out list[Link]
	if err := c.Do(ctx, http.MethodGet, linksPath(projectID, issueID), nil, &out); err != nil {
		return nil, err
	}
	return []Link(out), nil
}

func (c *Client) AddLink(ctx context.Context, projectID, issueID, title, rawURL string) (*Link, error) {
	var out Link
	body := map[string]any{"title": title, "url": rawURL}
	if err := c.Do(ctx, http.MethodPost, linksPath(projectID, issueID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
