package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/lexiz/internal/api"
	"github.com/abhisek/lexiz/internal/store"
)

// DeckSink writes cards into the offline deck.
type DeckSink struct {
	deck *store.DeckRepo
}

// NewDeckSink wraps the local deck.
func NewDeckSink(deck *store.DeckRepo) *DeckSink {
	return &DeckSink{deck: deck}
}

func (s *DeckSink) HasWord(ctx context.Context, word string) (bool, error) {
	c, err := s.deck.FindByWord(ctx, word)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

func (s *DeckSink) AddCard(ctx context.Context, row Row) error {
	card, err := s.deck.CreateCard(ctx, store.CardInput{
		EnglishWord:        row.EnglishWord,
		RussianTranslation: row.RussianTranslation,
		Notes:              row.Notes,
		DifficultyLevel:    row.Level,
	})
	if err != nil {
		return err
	}
	for _, name := range row.Tags {
		tag, err := s.deck.EnsureTag(ctx, name)
		if err != nil {
			return err
		}
		if err := s.deck.TagCard(ctx, card.ID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

// APISink writes cards to the remote service. Existing words and tags are
// fetched once and then tracked locally.
type APISink struct {
	client *api.Client

	once  sync.Once
	err   error
	words map[string]bool
	tags  map[string]string
}

// NewAPISink wraps the API client.
func NewAPISink(client *api.Client) *APISink {
	return &APISink{client: client}
}

func (s *APISink) load(ctx context.Context) error {
	s.once.Do(func() {
		cards, err := s.client.ListCards(ctx)
		if err != nil {
			s.err = fmt.Errorf("list cards: %w", err)
			return
		}
		tags, err := s.client.ListTags(ctx)
		if err != nil {
			s.err = fmt.Errorf("list tags: %w", err)
			return
		}
		s.words = make(map[string]bool, len(cards))
		for _, c := range cards {
			s.words[strings.ToLower(c.EnglishWord)] = true
		}
		s.tags = make(map[string]string, len(tags))
		for _, t := range tags {
			s.tags[strings.ToLower(t.Name)] = t.ID
		}
	})
	return s.err
}

func (s *APISink) HasWord(ctx context.Context, word string) (bool, error) {
	if err := s.load(ctx); err != nil {
		return false, err
	}
	return s.words[strings.ToLower(word)], nil
}

func (s *APISink) AddCard(ctx context.Context, row Row) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	in := api.CardInput{
		EnglishWord:        row.EnglishWord,
		RussianTranslation: row.RussianTranslation,
	}
	if row.Notes != "" {
		in.Notes = &row.Notes
	}
	if row.Level != "" {
		in.DifficultyLevel = &row.Level
	}
	card, err := s.client.CreateCard(ctx, in)
	if err != nil {
		return err
	}
	s.words[strings.ToLower(row.EnglishWord)] = true

	for _, name := range row.Tags {
		id, ok := s.tags[strings.ToLower(name)]
		if !ok {
			tag, err := s.client.CreateTag(ctx, api.TagInput{Name: name})
			if err != nil {
				return err
			}
			id = tag.ID
			s.tags[strings.ToLower(name)] = id
		}
		if err := s.client.AddCardTag(ctx, card.ID, id); err != nil {
			return err
		}
	}
	return nil
}
