package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogle_SynthesizeCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cat", req.Input.Text)
		assert.Equal(t, "en-US", req.Voice.LanguageCode)
		assert.Equal(t, "FEMALE", req.Voice.SSMLGender)
		assert.Equal(t, "MP3", req.AudioConfig.AudioEncoding)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("mp3-bytes")),
		})
	}))
	defer srv.Close()

	g, err := NewGoogle(GoogleConfig{APIKey: "k", Endpoint: srv.URL, CacheDir: t.TempDir()})
	require.NoError(t, err)

	path, err := g.Synthesize(context.Background(), "cat")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))

	again, err := g.Synthesize(context.Background(), " cat ")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGoogle_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	dir := t.TempDir()
	g, err := NewGoogle(GoogleConfig{APIKey: "k", Endpoint: srv.URL, CacheDir: dir})
	require.NoError(t, err)

	_, err = g.Synthesize(context.Background(), "dog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failures must not be cached")

	noKey, err := NewGoogle(GoogleConfig{CacheDir: dir})
	require.NoError(t, err)
	_, err = noKey.Synthesize(context.Background(), "dog")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = NewGoogle(GoogleConfig{})
	assert.Error(t, err)
}

type fakeSynth struct {
	delay time.Duration
	err   error
}

func (f fakeSynth) Synthesize(ctx context.Context, text string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return "/cache/" + text + ".mp3", nil
}

type fakeClip struct {
	path     string
	log      *[]string
	mu       *sync.Mutex
	released bool
}

func (c *fakeClip) record(ev string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.log = append(*c.log, ev+" "+c.path)
}

func (c *fakeClip) Play(context.Context) error {
	if c.released {
		return ErrReleased
	}
	c.record("play")
	return nil
}
func (c *fakeClip) Stop()    { c.record("stop") }
func (c *fakeClip) Release() { c.released = true; c.record("release") }

type fakePlayer struct {
	mu  sync.Mutex
	log []string
}

func (p *fakePlayer) Load(path string) (Clip, error) {
	return &fakeClip{path: path, log: &p.log, mu: &p.mu}, nil
}

func TestSpeaker_StopsPreviousBeforeStarting(t *testing.T) {
	p := &fakePlayer{}
	s := NewSpeaker(fakeSynth{}, p)

	require.NoError(t, s.Speak(context.Background(), "cat"))
	require.NoError(t, s.Speak(context.Background(), "dog"))
	s.Release()

	assert.Equal(t, []string{
		"play /cache/cat.mp3",
		"stop /cache/cat.mp3",
		"release /cache/cat.mp3",
		"play /cache/dog.mp3",
		"stop /cache/dog.mp3",
		"release /cache/dog.mp3",
	}, p.log)
}

func TestSpeaker_Disabled(t *testing.T) {
	s := NewSpeaker(nil, nil)
	assert.False(t, s.Enabled())
	assert.ErrorIs(t, s.Speak(context.Background(), "cat"), ErrDisabled)
	assert.False(t, s.SpeakWithin(context.Background(), "cat", time.Second))
	s.Release()
}

func TestSpeaker_SpeakWithinFallsBack(t *testing.T) {
	p := &fakePlayer{}

	slow := NewSpeaker(fakeSynth{delay: time.Second}, p)
	start := time.Now()
	assert.False(t, slow.SpeakWithin(context.Background(), "cat", 20*time.Millisecond))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	slow.Timeout = 20 * time.Millisecond
	start = time.Now()
	assert.False(t, slow.SpeakWithin(context.Background(), "cat", 0))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	failing := NewSpeaker(fakeSynth{err: errors.New("boom")}, p)
	assert.False(t, failing.SpeakWithin(context.Background(), "cat", time.Second))

	ok := NewSpeaker(fakeSynth{}, p)
	assert.True(t, ok.SpeakWithin(context.Background(), "cat", time.Second))
}

func TestSpeaker_StopDropsPendingSpeech(t *testing.T) {
	p := &fakePlayer{}
	s := NewSpeaker(fakeSynth{delay: 50 * time.Millisecond}, p)

	done := make(chan error, 1)
	go func() { done <- s.Speak(context.Background(), "cat") }()

	time.Sleep(10 * time.Millisecond)
	s.Release()

	assert.ErrorIs(t, <-done, ErrInterrupted)
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.NotContains(t, p.log, "play /cache/cat.mp3")
	assert.Contains(t, p.log, "release /cache/cat.mp3")
}

func TestSpeaker_NewerSpeakWins(t *testing.T) {
	p := &fakePlayer{}
	slow := NewSpeaker(fakeSynth{delay: 50 * time.Millisecond}, p)

	done := make(chan error, 1)
	go func() { done <- slow.Speak(context.Background(), "cat") }()
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, slow.Speak(context.Background(), "dog"))
	assert.ErrorIs(t, <-done, ErrInterrupted)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Contains(t, p.log, "play /cache/dog.mp3")
	assert.NotContains(t, p.log, "play /cache/cat.mp3")
}
