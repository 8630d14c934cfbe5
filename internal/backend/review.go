package backend

import (
	"context"

	"github.com/abhisek/lexiz/internal/review"
)

// Reviewer lists cards due for review, most urgent first.
type Reviewer interface {
	DueCards(ctx context.Context, limit int) ([]CardInfo, error)
}

var (
	_ Reviewer = (*Local)(nil)
	_ Reviewer = (*Remote)(nil)
)

// DueCards schedules reviews from the local answer tallies. limit <= 0
// returns every due card.
func (l *Local) DueCards(ctx context.Context, limit int) ([]CardInfo, error) {
	cards, err := l.deck.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := l.results.Progress(ctx, "")
	if err != nil {
		return nil, err
	}
	infos, err := l.Cards(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]CardInfo, len(infos))
	for _, c := range infos {
		byID[c.ID] = c
	}

	ids := review.Due(cards, review.FromProgress(progress), l.now())
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]CardInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

// DueCards asks the server, which keeps the authoritative schedule.
func (r *Remote) DueCards(ctx context.Context, limit int) ([]CardInfo, error) {
	cards, err := r.client.CardsToReview(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CardInfo, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardInfo{
			ID:                 c.ID,
			EnglishWord:        c.EnglishWord,
			RussianTranslation: c.RussianTranslation,
			Notes:              deref(c.Notes),
			Level:              deref(c.DifficultyLevel),
			IsLearned:          c.IsLearned,
		})
	}
	return out, nil
}
