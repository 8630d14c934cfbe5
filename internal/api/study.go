package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/abhisek/lexiz/internal/study"
)

// CardProgress is per-card, per-mode answer tallies.
type CardProgress struct {
	ID               string     `json:"id"`
	CardID           string     `json:"cardId"`
	UserID           string     `json:"userId"`
	Mode             string     `json:"mode"`
	CorrectAnswers   int        `json:"correctAnswers"`
	IncorrectAnswers int        `json:"incorrectAnswers"`
	LastAttempt      *time.Time `json:"lastAttempt,omitempty"`
}

// SubmitSessionResult posts a finished session. It satisfies study.Reporter.
func (c *Client) SubmitSessionResult(ctx context.Context, r study.SessionResult) error {
	return c.post(ctx, "/study/session-result", r, nil)
}

// Progress lists card progress, optionally for one mode.
func (c *Client) Progress(ctx context.Context, mode study.Mode) ([]CardProgress, error) {
	q := url.Values{}
	if mode != "" {
		q.Set("mode", string(mode))
	}
	var out []CardProgress
	if err := c.get(ctx, "/study/progress", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CardsToReview returns up to limit cards the server wants reviewed.
func (c *Client) CardsToReview(ctx context.Context, limit int) ([]Card, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []Card
	if err := c.get(ctx, "/study/cards-to-review", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StudyCards loads the deck for a session. It satisfies study.CardSource.
func (c *Client) StudyCards(ctx context.Context) ([]study.Card, error) {
	cards, err := c.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]study.Card, 0, len(cards))
	for _, card := range cards {
		out = append(out, card.StudyCard())
	}
	return out, nil
}

// StudyTags loads the tags offered by the setup filter.
func (c *Client) StudyTags(ctx context.Context) ([]study.Tag, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]study.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, study.Tag{ID: t.ID, Name: t.Name, IsPredefined: t.IsPredefined})
	}
	return out, nil
}

// StudyCard converts a wire card to the session engine's card.
func (c Card) StudyCard() study.Card {
	return study.Card{
		ID:                 c.ID,
		EnglishWord:        c.EnglishWord,
		RussianTranslation: c.RussianTranslation,
		IsLearned:          c.IsLearned,
		Tags:               c.TagIDs(),
	}
}

var (
	_ study.CardSource = (*Client)(nil)
	_ study.Reporter   = (*Client)(nil)
)
