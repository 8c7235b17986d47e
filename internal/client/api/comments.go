package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/blogcli/internal/client/models"
)

type commentRequest struct {
	Comment  string `json:"comment"`
	ParentID string `json:"parentId,omitempty"`
}

// ListComments returns the flat comment list for a post. Nesting is the
// consumer's concern.
func (c *Client) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	req := Request{Method: http.MethodGet, Path: commentsPath + "/" + postID}
	if err := c.Do(ctx, req, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a top-level comment. Requires authentication.
func (c *Client) AddComment(ctx context.Context, postID, comment string) error {
	req := Request{
		Method: http.MethodPost,
		Path:   commentsPath + "/" + postID,
		JSON:   commentRequest{Comment: strings.TrimSpace(comment)},
	}
	return c.Do(ctx, req, nil)
}

// AddReply posts a reply to an existing comment. Requires authentication.
func (c *Client) AddReply(ctx context.Context, postID, parentID, comment string) error {
	req := Request{
		Method: http.MethodPost,
		Path:   commentsPath + "/" + postID + "/replies/" + parentID,
		JSON:   commentRequest{Comment: strings.TrimSpace(comment), ParentID: parentID},
	}
	return c.Do(ctx, req, nil)
}

// EditComment replaces the text of an existing comment. The backend marks it
// as edited and enforces ownership.
func (c *Client) EditComment(ctx context.Context, commentID, comment string) error {
	req := Request{
		Method: http.MethodPatch,
		Path:   commentsPath + "/" + commentID,
		JSON:   commentRequest{Comment: strings.TrimSpace(comment)},
	}
	return c.Do(ctx, req, nil)
}

// DeleteComment removes a comment by ID. Deleted comments keep their place in
// the thread; the backend blanks the text and flags them.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: commentsPath + "/" + commentID}, nil)
}
