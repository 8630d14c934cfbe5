package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiz/internal/api"
	"github.com/abhisek/lexiz/internal/auth"
)

func TestLocal_EditCardsAndTags(t *testing.T) {
	local := NewLocal(openStore(t))
	ctx := context.Background()

	id, err := local.AddCard(ctx, CardEdit{EnglishWord: "cat", RussianTranslation: "кот", Level: "a1"})
	require.NoError(t, err)
	require.NoError(t, local.SetLearned(ctx, id, true))

	require.NoError(t, local.UpdateCard(ctx, id, CardEdit{Notes: "pet"}))

	tag, err := local.CreateTag(ctx, "animals")
	require.NoError(t, err)
	require.NoError(t, local.TagCard(ctx, id, tag.ID))

	cards, err := local.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	c := cards[0]
	assert.Equal(t, "cat", c.EnglishWord)
	assert.Equal(t, "кот", c.RussianTranslation)
	assert.Equal(t, "pet", c.Notes)
	assert.Equal(t, "A1", c.Level)
	assert.True(t, c.IsLearned, "update must keep the learned flag")
	assert.Equal(t, []string{"animals"}, c.TagNames)

	require.NoError(t, local.UntagCard(ctx, id, tag.ID))
	require.NoError(t, local.DeleteTag(ctx, tag.ID))
	tags, err := local.StudyTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	assert.Error(t, local.UpdateCard(ctx, "missing", CardEdit{Notes: "x"}))
}

func TestRemote_UpdateCardSendsOnlySetFields(t *testing.T) {
	var body map[string]any
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"id":"c1","englishWord":"cat","russianTranslation":"кошка"}`))
	}))
	t.Cleanup(srv.Close)

	remote := NewRemote(api.New(srv.URL+"/api/", auth.NewContext(nil), api.WithHTTPClient(srv.Client())))
	require.NoError(t, remote.UpdateCard(context.Background(), "c1", CardEdit{RussianTranslation: "кошка", Level: "b2"}))

	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/api/cards/c1", path)
	assert.Equal(t, map[string]any{"russianTranslation": "кошка", "difficultyLevel": "B2"}, body)
}
