package api

import (
	"context"
	"net/url"

	"github.com/kpauljoseph/flashcards/pkg/models"
)

// CardInput is everything a new card can carry. Every field is optional;
// a card with two empty sides is accepted.
type CardInput struct {
	FrontText  string
	BackText   string
	FrontImage *File
	BackImage  *File
	TagIDs     []models.ID
}

// CardsPath returns the card listing path, scoped to tagID when set.
func CardsPath(tagID *models.ID) string {
	if tagID == nil || *tagID == "" {
		return "/cards/"
	}
	return "/cards/?tag=" + url.QueryEscape(tagID.String())
}

func (c *Client) ListCards(ctx context.Context, tagID *models.ID) ([]models.Card, error) {
	var cards []models.Card
	if err := c.FetchJSON(ctx, CardsPath(tagID), &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}

// CardForm builds the multipart body for in using the client's tag id
// encoding.
func (c *Client) CardForm(in CardInput) *Form {
	f := NewForm()
	f.Add("front_text", in.FrontText)
	f.Add("back_text", in.BackText)
	f.AddFile("front_image", in.FrontImage)
	f.AddFile("back_image", in.BackImage)
	EncodeTagIDs(f, in.TagIDs, c.tagIDEncoding)
	return f
}

func (c *Client) CreateCard(ctx context.Context, in CardInput) (models.Card, error) {
	var card models.Card
	err := c.PostForm(ctx, "/cards/", c.CardForm(in), &card)
	return card, err
}

func (c *Client) DeleteCard(ctx context.Context, id models.ID) error {
	return c.Del(ctx, cardPath(id))
}

func cardPath(id models.ID) string {
	return "/cards/" + url.PathEscape(id.String()) + "/"
}
