package api

import (
	"context"
	"net/url"

	"github.com/kpauljoseph/flashcards/pkg/models"
)

type relationRequest struct {
	ToCard models.ID `json:"to_card"`
	Note   string    `json:"note"`
}

func relationsPath(cardID models.ID) string {
	return cardPath(cardID) + "related/"
}

// ListRelations returns the outgoing links of a card.
func (c *Client) ListRelations(ctx context.Context, cardID models.ID) ([]models.Relation, error) {
	var rels []models.Relation
	if err := c.FetchJSON(ctx, relationsPath(cardID), &rels); err != nil {
		return nil, err
	}
	if rels == nil {
		rels = []models.Relation{}
	}
	return rels, nil
}

func (c *Client) CreateRelation(ctx context.Context, from, to models.ID, note string) (models.Relation, error) {
	var rel models.Relation
	err := c.PostJSON(ctx, relationsPath(from), relationRequest{ToCard: to, Note: note}, &rel)
	return rel, err
}

func (c *Client) DeleteRelation(ctx context.Context, cardID, relationID models.ID) error {
	return c.Del(ctx, relationsPath(cardID)+url.PathEscape(relationID.String())+"/")
}
