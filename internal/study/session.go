package study

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNothingToStudy is returned by Start when the filter leaves no cards.
var ErrNothingToStudy = errors.New("nothing to study")

// CardResult is the outcome of one attempt at one card.
type CardResult struct {
	CardID      string `json:"cardId"`
	IsCorrect   bool   `json:"isCorrect"`
	TimeSpentMs *int64 `json:"timeSpentMs,omitempty"`
}

// SessionResult is the report submitted when a session completes.
type SessionResult struct {
	Mode              Mode         `json:"mode"`
	CardResults       []CardResult `json:"cardResults"`
	TotalTimeSpentSec int          `json:"totalTimeSpentSec"`
}

// Completion is returned exactly once, by the Advance call that moves past
// the last card.
type Completion struct {
	SessionID string
	Result    SessionResult
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithPolicy overrides the validation policy derived from the mode.
func WithPolicy(p Policy) Option {
	return func(s *Session) { s.policy = p }
}

// Session sequences a fixed working set through one study pass.
type Session struct {
	// ID correlates log lines for this session.
	ID string

	// Mode is the study mode the session was started in.
	Mode Mode

	// Direction decides which side of each card is shown first.
	Direction Direction

	// Filter is the filter the working set was built with.
	Filter Filter

	policy    Policy
	cards     []Card
	position  int
	results   []CardResult
	startedAt time.Time
	shownAt   time.Time
	paused    bool
	now       func() time.Time
}

// Start builds a session from a card snapshot. Learned cards are always
// excluded. It returns ErrNothingToStudy when no card survives the filter.
func Start(cards []Card, filter Filter, dir Direction, mode Mode, opts ...Option) (*Session, error) {
	working := filter.Apply(cards)
	if len(working) == 0 {
		return nil, ErrNothingToStudy
	}

	s := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		Direction: dir,
		Filter:    filter,
		policy:    PolicyFor(mode),
		cards:     working,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	s.shownAt = s.startedAt
	return s, nil
}

// Cards returns the working set. Callers must not modify it.
func (s *Session) Cards() []Card { return s.cards }

// Len returns the size of the working set.
func (s *Session) Len() int { return len(s.cards) }

// Position returns the index of the current card. It equals Len once the
// session is complete.
func (s *Session) Position() int { return s.position }

// IsComplete reports whether every card has been passed.
func (s *Session) IsComplete() bool { return s.position >= len(s.cards) }

// Policy returns the answer-validation policy in effect.
func (s *Session) Policy() Policy { return s.policy }

// StartedAt returns when the current pass began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Results returns the recorded outcomes in chronological order.
func (s *Session) Results() []CardResult {
	return append([]CardResult(nil), s.results...)
}

// Current returns the card at the current position.
func (s *Session) Current() (Card, bool) {
	if s.IsComplete() {
		return Card{}, false
	}
	return s.cards[s.position], true
}

// Batch returns up to size cards starting at the current position.
func (s *Session) Batch(size int) []Card {
	end := s.position + size
	if end > len(s.cards) {
		end = len(s.cards)
	}
	return s.cards[s.position:end]
}

// RecordOutcome appends a result for the current card.
func (s *Session) RecordOutcome(isCorrect bool) {
	c, ok := s.Current()
	if !ok {
		panic("study: record on completed session")
	}
	s.RecordCardOutcome(c.ID, isCorrect)
}

// RecordCardOutcome appends a result for an explicit card. Matching resolves
// cards out of display order and records through this.
func (s *Session) RecordCardOutcome(cardID string, isCorrect bool) {
	spent := s.now().Sub(s.shownAt).Milliseconds()
	s.results = append(s.results, CardResult{
		CardID:      cardID,
		IsCorrect:   isCorrect,
		TimeSpentMs: &spent,
	})
}

// Answer records an answer for the current card under the session policy
// and returns what the caller should do next.
func (s *Session) Answer(isCorrect bool) Verdict {
	v := s.policy.Judge(isCorrect)
	s.RecordOutcome(v.Correct)
	return v
}

// Advance moves to the next card. It returns nil while cards remain and the
// Completion on the call that passes the last card. Advancing a completed
// session panics.
func (s *Session) Advance() *Completion {
	if s.IsComplete() {
		panic("study: advance on completed session")
	}
	s.position++
	s.shownAt = s.now()
	if !s.IsComplete() {
		return nil
	}
	return &Completion{
		SessionID: s.ID,
		Result: SessionResult{
			Mode:              s.Mode,
			CardResults:       s.Results(),
			TotalTimeSpentSec: int(s.now().Sub(s.startedAt) / time.Second),
		},
	}
}

// AdvanceBy advances n times and returns the completion if one occurred.
func (s *Session) AdvanceBy(n int) *Completion {
	var done *Completion
	for i := 0; i < n && !s.IsComplete(); i++ {
		done = s.Advance()
	}
	return done
}

// Restart begins a new pass over the same working set.
func (s *Session) Restart() {
	s.position = 0
	s.results = nil
	s.paused = false
	s.startedAt = s.now()
	s.shownAt = s.startedAt
}

// Paused reports whether automatic pacing is suspended (Lightning only).
func (s *Session) Paused() bool { return s.paused }

// SetPaused records the pause flag.
func (s *Session) SetPaused(p bool) { s.paused = p }

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }
