package study

// Flashcard drives self-paced review (Speed mode): the learner flips and
// moves on by hand, and every card passed counts as reviewed.
type Flashcard struct {
	session *Session

	// Flipped is true while the back side is showing.
	Flipped bool
}

// NewFlashcard wraps s.
func NewFlashcard(s *Session) *Flashcard {
	return &Flashcard{session: s}
}

// Session returns the underlying session.
func (f *Flashcard) Session() *Session { return f.session }

// Front returns the text on the current card's front.
func (f *Flashcard) Front() string {
	c, _ := f.session.Current()
	return f.session.Direction.Front(c)
}

// Back returns the text on the current card's back.
func (f *Flashcard) Back() string {
	c, _ := f.session.Current()
	return f.session.Direction.Back(c)
}

// Flip toggles the visible side.
func (f *Flashcard) Flip() {
	f.Flipped = !f.Flipped
}

// Next records the card as reviewed and moves on.
func (f *Flashcard) Next() *Completion {
	f.session.Answer(true)
	f.Flipped = false
	return f.session.Advance()
}

// Restart begins another pass.
func (f *Flashcard) Restart() {
	f.session.Restart()
	f.Flipped = false
}
