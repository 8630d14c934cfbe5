// Package translate fills in missing card translations with Yandex Cloud
// Translate.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the Yandex Cloud Translate v2 endpoint.
const DefaultEndpoint = "https://translate.api.cloud.yandex.net/translate/v2/translate"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("translation is not configured")

// Config holds Yandex Cloud credentials.
type Config struct {
	APIKey   string        `koanf:"api_key"`
	FolderID string        `koanf:"folder_id"`
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
}

// Client calls the translate API.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a client. Zero Endpoint and Timeout fall back to the
// public endpoint and 10s.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

type translateRequest struct {
	FolderID           string   `json:"folderId,omitempty"`
	Texts              []string `json:"texts"`
	SourceLanguageCode string   `json:"sourceLanguageCode"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate converts text from source to target language codes.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(translateRequest{
		FolderID:           c.cfg.FolderID,
		Texts:              []string{text},
		SourceLanguageCode: source,
		TargetLanguageCode: target,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Api-Key "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate API error %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out translateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(out.Translations) == 0 {
		return "", nil
	}
	return out.Translations[0].Text, nil
}

// EnglishToRussian translates a card's English word. Failures are logged
// and yield "" so callers can fall back to asking the user.
func (c *Client) EnglishToRussian(ctx context.Context, text string) string {
	out, err := c.Translate(ctx, text, "en", "ru")
	if err != nil {
		slog.Warn("translation failed", "text", text, "err", err)
		return ""
	}
	return out
}
