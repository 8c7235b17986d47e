package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/blogcli/internal/client/models"
)

// ListPosts returns all published posts. The endpoint is public, but going
// through Do keeps the behavior uniform for logged-in readers.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: postsPath}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post by slug.
func (c *Client) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	req := Request{Method: http.MethodGet, Path: postsPath + "/" + slug}
	if err := c.Do(ctx, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost publishes a new post. Requires authentication.
func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var post models.Post
	req := Request{Method: http.MethodPost, Path: postsPath, JSON: in}
	if err := c.Do(ctx, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post by ID. The backend enforces ownership; here it is
// just an authenticated call.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: postsPath + "/" + id}, nil)
}
