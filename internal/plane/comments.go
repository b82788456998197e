package plane

import (
	"context"
	"net/http"
)

// Comment is an issue comment. Body is HTML.
type Comment struct {
	ID          string `json:"id"`
	CommentHTML string `json:"comment_html"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CreatedBy   string `json:"created_by"`
	Actor       string `json:"actor"`
}

func commentsPath(projectID, issueID string) string {
	return issuePath(projectID, issueID) + "comments/"
}

func (c *Client) ListComments(ctx context.Context, projectID, issueID string) ([]Comment, error) {
	var out list[Comment]
	if err := c.Do(ctx, http.MethodGet, commentsPath(projectID, issueID), nil, &out); err != nil {
		return nil, err
	}
	return []Comment(out), nil
}

func (c *Client) AddComment(ctx context.Context, projectID, issueID, html string) (*Comment, error) {
	var out Comment
	body := map[string]any{"comment_html": html}
	if err := c.Do(ctx, http.MethodPost, commentsPath(projectID, issueID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
