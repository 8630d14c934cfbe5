package backend

import (
	"context"

	"github.com/abhisek/lexiz/internal/store"
	"github.com/abhisek/lexiz/internal/study"
)

// StorePrefs adapts the preference table to Prefs.
type StorePrefs struct {
	Repo *store.PreferenceRepo
}

func (p StorePrefs) Pacing(ctx context.Context) (study.Pacing, error) {
	flip, next, err := p.Repo.Pacing(ctx)
	if err != nil {
		return study.DefaultPacing(), err
	}
	return study.Pacing{TimeToFlip: flip, TimeToNext: next}, nil
}

func (p StorePrefs) SetPacing(ctx context.Context, pc study.Pacing) error {
	return p.Repo.SetPacing(ctx, pc.TimeToFlip, pc.TimeToNext)
}
