package study

import "math/rand/v2"

// MaxOptions is the size of a full multiple-choice set.
const MaxOptions = 4

// NewRand returns a randomly seeded source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// GenerateOptions builds a multiple-choice set: the correct answer plus the
// first three distinct wrong answers from pool, in pool order, shuffled with
// rng. When pool holds fewer than three distinct wrong answers the set is
// shorter. A nil rng uses a fresh random source.
func GenerateOptions(correct string, pool []string, rng *rand.Rand) []string {
	if rng == nil {
		rng = NewRand()
	}

	options := make([]string, 0, MaxOptions)
	options = append(options, correct)
	seen := map[string]bool{correct: true}
	for _, p := range pool {
		if len(options) == MaxOptions {
			break
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		options = append(options, p)
	}

	shuffle(rng, len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		swap(i, j)
	}
}

// Permutation returns a uniformly random permutation of [0, n).
func Permutation(n int, rng *rand.Rand) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	shuffle(rng, n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}

// Question is one multiple-choice prompt.
type Question struct {
	CardID  string
	Prompt  string   // text shown; empty in Listening, where the word is spoken
	Speak   string   // text to pronounce, if any
	Answer  string   // the correct option
	Options []string // shuffled, contains Answer exactly once
}

// Correct reports whether option i is the answer.
func (q Question) Correct(i int) bool {
	return i >= 0 && i < len(q.Options) && q.Options[i] == q.Answer
}

// BuildQuestion derives the question for the session's current card.
//
// Quiz asks for the back side of the card under the session direction, with
// distractors drawn from the same side of every other working-set card.
// Listening speaks the English word and always asks for the translation.
func BuildQuestion(s *Session, rng *rand.Rand) (Question, bool) {
	card, ok := s.Current()
	if !ok {
		return Question{}, false
	}

	side := s.Direction.Back
	q := Question{CardID: card.ID}
	if s.Mode == ModeListening {
		side = EnglishFirst.Back
		q.Speak = card.EnglishWord
	} else {
		q.Prompt = s.Direction.Front(card)
		if s.Direction == EnglishFirst {
			q.Speak = card.EnglishWord
		}
	}
	q.Answer = side(card)

	pool := make([]string, 0, len(s.cards)-1)
	for _, c := range s.cards {
		if c.ID == card.ID {
			continue
		}
		pool = append(pool, side(c))
	}
	q.Options = GenerateOptions(q.Answer, pool, rng)
	return q, true
}
