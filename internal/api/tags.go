package api

import (
	"context"
	"net/url"

	"github.com/kpauljoseph/flashcards/pkg/models"
)

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.FetchJSON(ctx, "/tags/", &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

func (c *Client) CreateTag(ctx context.Context, name string) (models.Tag, error) {
	var tag models.Tag
	err := c.PostJSON(ctx, "/tags/", map[string]string{"name": name}, &tag)
	return tag, err
}

func (c *Client) DeleteTag(ctx context.Context, id models.ID) error {
	return c.Del(ctx, "/tags/"+url.PathEscape(id.String())+"/")
}
