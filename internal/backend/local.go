package backend

import (
	"context"
	"time"

	"github.com/abhisek/lexiz/internal/store"
	"github.com/abhisek/lexiz/internal/study"
)

// Local serves the deck and profile from the local store.
type Local struct {
	deck    *store.DeckRepo
	results *store.ResultRepo
	now     func() time.Time
}

// NewLocal wraps the local store.
func NewLocal(s *store.Store) *Local {
	return &Local{deck: s.Deck(), results: s.Results(), now: time.Now}
}

func (l *Local) StudyCards(ctx context.Context) ([]study.Card, error) {
	return l.deck.StudyCards(ctx)
}

func (l *Local) StudyTags(ctx context.Context) ([]study.Tag, error) {
	return l.deck.StudyTags(ctx)
}

// Cards lists the local deck with tag names resolved.
func (l *Local) Cards(ctx context.Context) ([]CardInfo, error) {
	cards, err := l.deck.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := l.deck.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	out := make([]CardInfo, 0, len(cards))
	for _, c := range cards {
		info := CardInfo{
			ID:                 c.ID,
			EnglishWord:        c.EnglishWord,
			RussianTranslation: c.RussianTranslation,
			Notes:              c.Notes,
			Level:              c.DifficultyLevel,
			IsLearned:          c.IsLearned,
		}
		for _, id := range c.TagIDs {
			if n, ok := names[id]; ok {
				info.TagNames = append(info.TagNames, n)
			}
		}
		out = append(out, info)
	}
	return out, nil
}

func (l *Local) SetLearned(ctx context.Context, id string, learned bool) error {
	return l.deck.SetLearned(ctx, id, learned)
}

func (l *Local) DeleteCard(ctx context.Context, id string) error {
	return l.deck.DeleteCard(ctx, id)
}

// Overview reports deck counts and today's study time. There are no
// achievements or missions offline.
func (l *Local) Overview(ctx context.Context) (*Overview, error) {
	stats, err := l.deck.Stats(ctx)
	if err != nil {
		return nil, err
	}
	now := l.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sec, err := l.results.TimeSpentSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	return &Overview{
		TotalWords:   stats.TotalWords,
		LearnedWords: stats.LearnedWords,
		TimeToday:    time.Duration(sec) * time.Second,
	}, nil
}
