package study

import "errors"

// Phase is the lifecycle stage of a study flow.
type Phase int

const (
	PhaseUninitialized Phase = iota // cards not loaded yet
	PhaseFilterPending              // waiting for the word-set choice
	PhaseModePending                // waiting for the presentation direction
	PhaseActive                     // session running
	PhaseComplete                   // every card passed
)

func (p Phase) String() string {
	switch p {
	case PhaseFilterPending:
		return "filter-pending"
	case PhaseModePending:
		return "mode-pending"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "uninitialized"
	}
}

// ErrWrongPhase is returned when a setup step is taken out of order.
var ErrWrongPhase = errors.New("study setup step out of order")

// Setup walks the two up-front choices that precede a session. Each choice
// is made once; changing either one calls Reset and forfeits the session.
type Setup struct {
	Mode Mode

	phase   Phase
	cards   []Card
	tags    []Tag
	filter  Filter
	session *Session
	opts    []Option
}

// NewSetup creates a setup flow for mode.
func NewSetup(mode Mode, opts ...Option) *Setup {
	return &Setup{Mode: mode, opts: opts}
}

// Phase returns the current stage.
func (s *Setup) Phase() Phase {
	if s.phase == PhaseActive && s.session != nil && s.session.IsComplete() {
		return PhaseComplete
	}
	return s.phase
}

// Load installs the card snapshot and moves to FilterPending.
func (s *Setup) Load(cards []Card, tags []Tag) {
	s.cards = cards
	s.tags = tags
	s.session = nil
	s.phase = PhaseFilterPending
}

// Tags returns the tags offered for filtering.
func (s *Setup) Tags() []Tag { return s.tags }

// ChooseFilter fixes the word set. It fails with ErrNothingToStudy, staying
// in FilterPending, when the filter leaves nothing.
func (s *Setup) ChooseFilter(f Filter) error {
	if s.phase != PhaseFilterPending {
		return ErrWrongPhase
	}
	if len(f.Apply(s.cards)) == 0 {
		return ErrNothingToStudy
	}
	s.filter = f
	s.phase = PhaseModePending
	return nil
}

// ChooseDirection fixes the presentation direction and starts the session.
func (s *Setup) ChooseDirection(d Direction) (*Session, error) {
	if s.phase != PhaseModePending {
		return nil, ErrWrongPhase
	}
	sess, err := Start(s.cards, s.filter, d, s.Mode, s.opts...)
	if err != nil {
		return nil, err
	}
	s.session = sess
	s.phase = PhaseActive
	return sess, nil
}

// Session returns the running session, if any.
func (s *Setup) Session() *Session { return s.session }

// Reset discards any session and returns to FilterPending.
func (s *Setup) Reset() {
	s.session = nil
	s.filter = Filter{}
	if s.phase != PhaseUninitialized {
		s.phase = PhaseFilterPending
	}
}
