package study

import "math/rand/v2"

// Quiz drives Quiz and Listening sessions: one question per card, wrong
// picks are recorded and the same card is retried until it is answered
// correctly.
type Quiz struct {
	session  *Session
	rng      *rand.Rand
	question Question

	// Selected is the picked option index, or -1.
	Selected int

	// Pending is the verdict waiting for its feedback pause to end.
	Pending *Verdict
}

// NewQuiz prepares the first question of s.
func NewQuiz(s *Session, rng *rand.Rand) *Quiz {
	if rng == nil {
		rng = NewRand()
	}
	q := &Quiz{session: s, rng: rng, Selected: -1}
	q.question, _ = BuildQuestion(s, rng)
	return q
}

// Session returns the underlying session.
func (q *Quiz) Session() *Session { return q.session }

// Question returns the active question.
func (q *Quiz) Question() Question { return q.question }

// Locked reports whether input is ignored while feedback shows.
func (q *Quiz) Locked() bool { return q.Pending != nil }

// Choose records a pick. It returns false if input is locked or i is out of
// range.
func (q *Quiz) Choose(i int) (Verdict, bool) {
	if q.Locked() || i < 0 || i >= len(q.question.Options) {
		return Verdict{}, false
	}
	q.Selected = i
	v := q.session.Answer(q.question.Correct(i))
	q.Pending = &v
	return v, true
}

// Settle acts on the pending verdict once its pause has elapsed. A retry
// clears the selection on the same question. An advance moves to the next
// card and returns the completion if that was the last one.
func (q *Quiz) Settle() *Completion {
	v := q.Pending
	if v == nil {
		return nil
	}
	q.Pending = nil
	q.Selected = -1
	if v.Retry {
		return nil
	}

	done := q.session.Advance()
	if done == nil {
		q.question, _ = BuildQuestion(q.session, q.rng)
	}
	return done
}

// Restart begins another pass.
func (q *Quiz) Restart() {
	q.session.Restart()
	q.Pending = nil
	q.Selected = -1
	q.question, _ = BuildQuestion(q.session, q.rng)
}
