// Package tts speaks English words aloud for the Listening mode.
package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultEndpoint is the Google Cloud Text-to-Speech synthesize endpoint.
const DefaultEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("text-to-speech is not configured")

// Synthesizer turns text into a playable audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// GoogleConfig configures the Google synthesizer.
type GoogleConfig struct {
	APIKey   string `koanf:"api_key"`
	Language string `koanf:"language"`
	Gender   string `koanf:"gender" validate:"omitempty,oneof=FEMALE MALE NEUTRAL"`
	Endpoint string `koanf:"endpoint"`
	CacheDir string `koanf:"cache_dir"`
}

// Google synthesizes MP3 audio and caches it on disk keyed by text.
type Google struct {
	cfg        GoogleConfig
	mu         sync.Mutex
	httpClient *http.Client
}

// NewGoogle creates a synthesizer. The cache directory is created if missing.
func NewGoogle(cfg GoogleConfig) (*Google, error) {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.Gender == "" {
		cfg.Gender = "FEMALE"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.CacheDir == "" {
		return nil, errors.New("tts cache dir is required")
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tts cache dir: %w", err)
	}
	return &Google{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (g *Google) cacheKey(text string) string {
	h := sha256.Sum256([]byte(g.cfg.Language + ":" + text))
	return hex.EncodeToString(h[:16])
}

// Synthesize returns the path of an MP3 file speaking text.
func (g *Google) Synthesize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("nothing to speak")
	}

	path := filepath.Join(g.cfg.CacheDir, g.cacheKey(text)+".mp3")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if g.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	audio, err := g.call(ctx, text)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write tts cache: %w", err)
	}
	slog.Debug("tts cached", "text", text, "path", path)
	return path, nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

func (g *Google) call(ctx context.Context, text string) ([]byte, error) {
	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = g.cfg.Language
	reqBody.Voice.SSMLGender = g.cfg.Gender
	reqBody.AudioConfig.AudioEncoding = "MP3"

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := g.cfg.Endpoint + "?key=" + url.QueryEscape(g.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("TTS API returned no audio")
	}
	return audio, nil
}
