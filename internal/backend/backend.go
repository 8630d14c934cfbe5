// Package backend gives the TUI one view of the services it needs, backed
// either by the remote API or by the local store when running offline.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/lexiz/internal/store"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/tts"
)

// ErrUnavailable is returned by features that need a service this mode
// does not have.
var ErrUnavailable = errors.New("not available in this mode")

// CardInfo is a card as the card browser shows it.
type CardInfo struct {
	ID                 string
	EnglishWord        string
	RussianTranslation string
	Notes              string
	Level              string
	IsLearned          bool
	TagNames           []string
}

// Deck is the learner's card collection.
type Deck interface {
	study.CardSource
	Cards(ctx context.Context) ([]CardInfo, error)
	SetLearned(ctx context.Context, id string, learned bool) error
	DeleteCard(ctx context.Context, id string) error
}

// Prefs stores settings the screens edit.
type Prefs interface {
	Pacing(ctx context.Context) (study.Pacing, error)
	SetPacing(ctx context.Context, p study.Pacing) error
}

// History lists finished sessions, newest first.
type History interface {
	Recent(ctx context.Context, limit int) ([]store.SessionRecord, error)
}

// Achievement is an achievement with the learner's progress towards it.
type Achievement struct {
	Name        string
	Description string
	Progress    int
	Threshold   int
	Unlocked    bool
}

// Mission is one of today's missions.
type Mission struct {
	Name     string
	Progress int
	Target   int
	RewardXP int
}

// Done reports whether the mission target was reached.
func (m Mission) Done() bool { return m.Progress >= m.Target }

// Overview is the profile screen's data.
type Overview struct {
	Username      string
	Level         int
	XP            int
	LanguageLevel string
	TotalWords    int
	LearnedWords  int
	ViewedToday   int
	TimeToday     time.Duration
	Achievements  []Achievement
	Missions      []Mission
}

// Profile loads the learner overview.
type Profile interface {
	Overview(ctx context.Context) (*Overview, error)
}

// ChatReply is the tutor's answer, with an optional correction of the
// learner's message.
type ChatReply struct {
	Text        string
	Correction  string
	Explanation string
}

// Chat is a conversation practice partner.
type Chat interface {
	// Open starts a new conversation and returns its id.
	Open(ctx context.Context, topic, level string) (string, error)
	Send(ctx context.Context, id, text string, correct bool) (*ChatReply, error)
}

// Account signs the learner in and out.
type Account interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, username string) error
	Logout(ctx context.Context) error
	// Username is "" when signed out.
	Username() string
}

// Services bundles what the screens depend on. Chat and Account are nil when
// the mode has no such service; Speaker may be nil or disabled.
type Services struct {
	Deck     Deck
	Reporter study.Reporter
	Prefs    Prefs
	History  History
	Profile  Profile
	Chat     Chat
	Account  Account
	Speaker  *tts.Speaker
	Offline  bool
}

// Status is the header badge for the current mode.
func (s *Services) Status() string {
	if s.Offline {
		return "offline"
	}
	if s.Account != nil {
		if name := s.Account.Username(); name != "" {
			return "● " + name
		}
	}
	return "signed out"
}

// SignedIn reports whether remote features can be used.
func (s *Services) SignedIn() bool {
	return s.Offline || (s.Account != nil && s.Account.Username() != "")
}
