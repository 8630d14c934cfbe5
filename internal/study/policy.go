package study

import "time"

// FeedbackPause is how long answer feedback stays on screen before the card
// advances or re-arms.
const FeedbackPause = time.Second

// Policy is the answer-validation strategy a session runs under.
type Policy int

const (
	PolicyFlashcard      Policy = iota // self-paced review; every card counts as seen
	PolicyMultipleChoice               // retry the same card until correct
	PolicyMatching                     // pairs resolve out of order; batch completion advances
)

// PolicyFor returns the policy a mode uses.
func PolicyFor(m Mode) Policy {
	switch m {
	case ModeQuiz, ModeListening:
		return PolicyMultipleChoice
	case ModeMatching:
		return PolicyMatching
	default:
		return PolicyFlashcard
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyMultipleChoice:
		return "multiple-choice"
	case PolicyMatching:
		return "matching"
	default:
		return "flashcard"
	}
}

// Verdict tells the caller how to proceed after an answer.
type Verdict struct {
	// Correct is the value recorded for the attempt.
	Correct bool

	// Advance means the current card is done once Pause elapses.
	Advance bool

	// Retry means the same card is re-armed once Pause elapses.
	Retry bool

	// Pause is the feedback delay before acting on Advance or Retry.
	Pause time.Duration
}

// Judge maps a raw answer to a verdict.
func (p Policy) Judge(isCorrect bool) Verdict {
	switch p {
	case PolicyMultipleChoice:
		if isCorrect {
			return Verdict{Correct: true, Advance: true, Pause: FeedbackPause}
		}
		return Verdict{Correct: false, Retry: true, Pause: FeedbackPause}
	case PolicyMatching:
		if isCorrect {
			return Verdict{Correct: true}
		}
		return Verdict{Correct: false, Retry: true, Pause: FeedbackPause}
	default:
		return Verdict{Correct: true, Advance: true}
	}
}
