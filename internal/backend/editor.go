package backend

import (
	"context"
	"strings"

	"github.com/abhisek/lexiz/internal/api"
	"github.com/abhisek/lexiz/internal/store"
	"github.com/abhisek/lexiz/internal/study"
)

// CardEdit carries card fields for add and update. On update, empty
// fields keep their current value.
type CardEdit struct {
	EnglishWord        string
	RussianTranslation string
	Notes              string
	Level              string
}

// DeckEditor manages cards and tags.
type DeckEditor interface {
	Deck
	AddCard(ctx context.Context, e CardEdit) (string, error)
	UpdateCard(ctx context.Context, id string, e CardEdit) error
	CreateTag(ctx context.Context, name string) (study.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	TagCard(ctx context.Context, cardID, tagID string) error
	UntagCard(ctx context.Context, cardID, tagID string) error
}

var (
	_ DeckEditor = (*Local)(nil)
	_ DeckEditor = (*Remote)(nil)
)

func (l *Local) AddCard(ctx context.Context, e CardEdit) (string, error) {
	c, err := l.deck.CreateCard(ctx, store.CardInput{
		EnglishWord:        e.EnglishWord,
		RussianTranslation: e.RussianTranslation,
		Notes:              e.Notes,
		DifficultyLevel:    strings.ToUpper(e.Level),
	})
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (l *Local) UpdateCard(ctx context.Context, id string, e CardEdit) error {
	cur, err := l.deck.GetCard(ctx, id)
	if err != nil {
		return err
	}
	in := store.CardInput{
		EnglishWord:        pick(e.EnglishWord, cur.EnglishWord),
		RussianTranslation: pick(e.RussianTranslation, cur.RussianTranslation),
		Notes:              pick(e.Notes, cur.Notes),
		DifficultyLevel:    strings.ToUpper(pick(e.Level, cur.DifficultyLevel)),
		IsLearned:          cur.IsLearned,
	}
	return l.deck.UpdateCard(ctx, id, in)
}

func (l *Local) CreateTag(ctx context.Context, name string) (study.Tag, error) {
	t, err := l.deck.CreateTag(ctx, name, false)
	if err != nil {
		return study.Tag{}, err
	}
	return study.Tag{ID: t.ID, Name: t.Name, IsPredefined: t.IsPredefined}, nil
}

func (l *Local) DeleteTag(ctx context.Context, id string) error {
	return l.deck.DeleteTag(ctx, id)
}

func (l *Local) TagCard(ctx context.Context, cardID, tagID string) error {
	return l.deck.TagCard(ctx, cardID, tagID)
}

func (l *Local) UntagCard(ctx context.Context, cardID, tagID string) error {
	return l.deck.UntagCard(ctx, cardID, tagID)
}

func (r *Remote) AddCard(ctx context.Context, e CardEdit) (string, error) {
	c, err := r.client.CreateCard(ctx, cardInput(e))
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// UpdateCard sends only the non-empty fields; the server keeps the rest.
func (r *Remote) UpdateCard(ctx context.Context, id string, e CardEdit) error {
	_, err := r.client.UpdateCard(ctx, id, cardInput(e))
	return err
}

func (r *Remote) CreateTag(ctx context.Context, name string) (study.Tag, error) {
	t, err := r.client.CreateTag(ctx, api.TagInput{Name: strings.TrimSpace(name)})
	if err != nil {
		return study.Tag{}, err
	}
	return study.Tag{ID: t.ID, Name: t.Name, IsPredefined: t.IsPredefined}, nil
}

func (r *Remote) DeleteTag(ctx context.Context, id string) error {
	return r.client.DeleteTag(ctx, id)
}

func (r *Remote) TagCard(ctx context.Context, cardID, tagID string) error {
	return r.client.AddCardTag(ctx, cardID, tagID)
}

func (r *Remote) UntagCard(ctx context.Context, cardID, tagID string) error {
	return r.client.RemoveCardTag(ctx, cardID, tagID)
}

func cardInput(e CardEdit) api.CardInput {
	in := api.CardInput{
		EnglishWord:        strings.TrimSpace(e.EnglishWord),
		RussianTranslation: strings.TrimSpace(e.RussianTranslation),
	}
	if e.Notes != "" {
		in.Notes = &e.Notes
	}
	if e.Level != "" {
		lvl := strings.ToUpper(e.Level)
		in.DifficultyLevel = &lvl
	}
	return in
}

func pick(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
