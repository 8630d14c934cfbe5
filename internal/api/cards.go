package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Card is a vocabulary card as the server returns it.
type Card struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	EnglishWord        string    `json:"englishWord"`
	RussianTranslation string    `json:"russianTranslation"`
	Notes              *string   `json:"notes,omitempty"`
	AudioURL           *string   `json:"audioUrl,omitempty"`
	IsLearned          bool      `json:"isLearned"`
	DifficultyLevel    *string   `json:"difficultyLevel,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	CardTags           []CardTag `json:"cardTags,omitempty"`
}

// CardTag links a card to a tag.
type CardTag struct {
	CardID     string    `json:"cardId"`
	TagID      string    `json:"tagId"`
	AssignedAt time.Time `json:"assignedAt"`
	Tag        *Tag      `json:"tag,omitempty"`
}

// TagIDs lists the ids of the card's tags.
func (c Card) TagIDs() []string {
	ids := make([]string, 0, len(c.CardTags))
	for _, ct := range c.CardTags {
		ids = append(ids, ct.TagID)
	}
	return ids
}

// CardInput creates or updates a card. Nil pointer fields are left out of
// update requests.
type CardInput struct {
	EnglishWord        string  `json:"englishWord,omitempty"`
	RussianTranslation string  `json:"russianTranslation,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	AudioURL           *string `json:"audioUrl,omitempty"`
	DifficultyLevel    *string `json:"difficultyLevel,omitempty"`
	IsLearned          *bool   `json:"isLearned,omitempty"`
}

// ListCards returns all of the user's cards with their tags.
func (c *Client) ListCards(ctx context.Context) ([]Card, error) {
	var cards []Card
	if err := c.get(ctx, "/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCard fetches one card.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	if err := c.get(ctx, "/cards/"+url.PathEscape(id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateCard adds a card.
func (c *Client) CreateCard(ctx context.Context, in CardInput) (*Card, error) {
	var card Card
	if err := c.post(ctx, "/cards", in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard patches a card.
func (c *Client) UpdateCard(ctx context.Context, id string, in CardInput) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodPatch, "/cards/"+url.PathEscape(id), nil, in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+url.PathEscape(id), nil, nil, nil)
}

// SetLearned marks a card learned or not learned.
func (c *Client) SetLearned(ctx context.Context, id string, learned bool) (*Card, error) {
	var card Card
	body := map[string]bool{"isLearned": learned}
	if err := c.do(ctx, http.MethodPatch, "/cards/"+url.PathEscape(id)+"/learned", nil, body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// AddCardTag assigns a tag to a card.
func (c *Client) AddCardTag(ctx context.Context, cardID, tagID string) error {
	return c.post(ctx, "/cards/"+url.PathEscape(cardID)+"/tags/"+url.PathEscape(tagID), nil, nil)
}

// RemoveCardTag unassigns a tag from a card.
func (c *Client) RemoveCardTag(ctx context.Context, cardID, tagID string) error {
	return c.do(ctx, http.MethodDelete,
		"/cards/"+url.PathEscape(cardID)+"/tags/"+url.PathEscape(tagID), nil, nil, nil)
}

// CardTagList returns the tags assigned to a card.
func (c *Client) CardTagList(ctx context.Context, cardID string) ([]Tag, error) {
	var out struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.get(ctx, "/cards/"+url.PathEscape(cardID)+"/tags", nil, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}
