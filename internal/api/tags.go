package api

import (
	"context"
	"net/http"
	"net/url"
)

// Tag groups cards. Predefined tags are shared by every user.
type Tag struct {
	ID           string `json:"id"`
	UserID       string `json:"userId,omitempty"`
	Name         string `json:"name"`
	IsPredefined bool   `json:"isPredefined"`
}

// TagInput creates or renames a tag.
type TagInput struct {
	Name         string `json:"name"`
	IsPredefined bool   `json:"isPredefined,omitempty"`
}

// ListTags returns the user's tags plus the predefined ones.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.get(ctx, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag adds a tag.
func (c *Client) CreateTag(ctx context.Context, in TagInput) (*Tag, error) {
	var tag Tag
	if err := c.post(ctx, "/tags", in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tags/"+url.PathEscape(id), nil, nil, nil)
}
