package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultSpeakTimeout bounds how long a study screen waits for audio.
const DefaultSpeakTimeout = 3 * time.Second

// ErrDisabled is returned when the speaker has no synthesizer or player.
var ErrDisabled = errors.New("speech disabled")

// ErrInterrupted is returned by Speak when Stop or a newer Speak ran while
// the clip was still being prepared.
var ErrInterrupted = errors.New("speech interrupted")

// Speaker owns at most one clip at a time. Starting a new word stops and
// releases the previous clip first.
type Speaker struct {
	synth  Synthesizer
	player Player

	// Timeout bounds SpeakWithin calls that pass no timeout of their own.
	Timeout time.Duration

	mu      sync.Mutex
	current Clip
	// gen counts Stop calls. A Speak only plays if gen is unchanged since
	// it started.
	gen uint64
}

// NewSpeaker creates a speaker. Either argument may be nil, in which case
// every Speak call returns ErrDisabled.
func NewSpeaker(synth Synthesizer, player Player) *Speaker {
	return &Speaker{synth: synth, player: player}
}

// Enabled reports whether the speaker can produce audio.
func (s *Speaker) Enabled() bool {
	return s != nil && s.synth != nil && s.player != nil
}

// Speak synthesizes text and starts playback. It returns once playback has
// started.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	s.mu.Lock()
	s.stopLocked()
	gen := s.gen
	s.mu.Unlock()

	path, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	clip, err := s.player.Load(path)
	if err != nil {
		return fmt.Errorf("load audio: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		clip.Release()
		return err
	}
	if s.gen != gen {
		clip.Release()
		return ErrInterrupted
	}
	s.current = clip
	if err := clip.Play(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// SpeakWithin is Speak bounded by timeout. Failures are logged and reported
// as false so the study flow continues silently.
func (s *Speaker) SpeakWithin(ctx context.Context, text string, timeout time.Duration) bool {
	if !s.Enabled() {
		return false
	}
	if timeout <= 0 {
		timeout = s.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultSpeakTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Speak(ctx, text) }()

	select {
	case err := <-done:
		switch {
		case errors.Is(err, ErrInterrupted):
			return false
		case err != nil:
			slog.Warn("speech failed", "text", text, "err", err)
			return false
		}
		return true
	case <-ctx.Done():
		slog.Warn("speech timed out", "text", text, "timeout", timeout)
		return false
	}
}

// Stop halts and releases the current clip, if any.
func (s *Speaker) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Speaker) stopLocked() {
	s.gen++
	if s.current != nil {
		s.current.Stop()
		s.current.Release()
		s.current = nil
	}
}

// Release is called when the owning screen goes away.
func (s *Speaker) Release() { s.Stop() }
