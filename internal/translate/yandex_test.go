package translate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Api-Key secret", r.Header.Get("Authorization"))
		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"cat"}, req.Texts)
		assert.Equal(t, "en", req.SourceLanguageCode)
		assert.Equal(t, "ru", req.TargetLanguageCode)
		assert.Equal(t, "folder", req.FolderID)
		_, _ = io.WriteString(w, `{"translations":[{"text":"кошка"}]}`)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "secret", FolderID: "folder", Endpoint: srv.URL})
	assert.Equal(t, "кошка", c.EnglishToRussian(context.Background(), "  cat "))
}

func TestClient_FailuresYieldEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "secret", Endpoint: srv.URL})
	_, err := c.Translate(context.Background(), "cat", "en", "ru")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Empty(t, c.EnglishToRussian(context.Background(), "cat"))
}

func TestClient_NotConfigured(t *testing.T) {
	c := New(Config{})
	assert.False(t, c.Configured())
	_, err := c.Translate(context.Background(), "cat", "en", "ru")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	out, err := c.Translate(context.Background(), "   ", "en", "ru")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestClient_EmptyTranslations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"translations":[]}`)
	}))
	defer srv.Close()

	out, err := New(Config{APIKey: "k", Endpoint: srv.URL}).Translate(context.Background(), "zzz", "en", "ru")
	require.NoError(t, err)
	assert.Empty(t, out)
}
