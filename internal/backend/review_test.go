package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiz/internal/study"
)

func TestLocal_DueCards(t *testing.T) {
	local := NewLocal(openStore(t))
	ctx := context.Background()

	cat, err := local.AddCard(ctx, CardEdit{EnglishWord: "cat", RussianTranslation: "кот"})
	require.NoError(t, err)
	_, err = local.AddCard(ctx, CardEdit{EnglishWord: "dog", RussianTranslation: "собака"})
	require.NoError(t, err)
	owl, err := local.AddCard(ctx, CardEdit{EnglishWord: "owl", RussianTranslation: "сова"})
	require.NoError(t, err)
	require.NoError(t, local.SetLearned(ctx, owl, true))

	require.NoError(t, local.results.SubmitSessionResult(ctx, study.SessionResult{
		Mode:        study.ModeQuiz,
		CardResults: []study.CardResult{{CardID: cat, IsCorrect: true}},
	}))

	due, err := local.DueCards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "dog", due[0].EnglishWord)

	local.now = func() time.Time { return time.Now().AddDate(0, 0, 2) }
	due, err = local.DueCards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "dog", due[0].EnglishWord, "unanswered cards come first")
	assert.Equal(t, "cat", due[1].EnglishWord)

	due, err = local.DueCards(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}
