package study

import "math/rand/v2"

// PairsPerSet is the number of cards on one matching board.
const PairsPerSet = 7

// Board is one batch of the matching game. Left shows the front of each
// card and Right the back, each in its own independent random order.
type Board struct {
	Cards []Card

	// Left[i] and Right[i] are the card indices shown at display row i.
	Left  []int
	Right []int

	// SelectedLeft and SelectedRight are display rows, or -1.
	SelectedLeft  int
	SelectedRight int

	// WrongRight is the right row flagged by the last miss, or -1.
	WrongRight int

	matched map[int]bool
}

// NewBoard shuffles cards into a fresh board. The two display orders come
// from two separate shuffles.
func NewBoard(cards []Card, rng *rand.Rand) *Board {
	if rng == nil {
		rng = NewRand()
	}
	n := len(cards)
	return &Board{
		Cards:         cards,
		Left:          Permutation(n, rng),
		Right:         Permutation(n, rng),
		SelectedLeft:  -1,
		SelectedRight: -1,
		WrongRight:    -1,
		matched:       make(map[int]bool, n),
	}
}

// Size returns the number of pairs on the board.
func (b *Board) Size() int { return len(b.Cards) }

// MatchedCount returns how many pairs are resolved.
func (b *Board) MatchedCount() int { return len(b.matched) }

// Complete reports whether every pair is resolved.
func (b *Board) Complete() bool { return len(b.matched) == len(b.Cards) }

// IsMatched reports whether card index i is resolved.
func (b *Board) IsMatched(i int) bool { return b.matched[i] }

// LeftMatched reports whether display row i of the left column is resolved.
func (b *Board) LeftMatched(row int) bool { return b.matched[b.Left[row]] }

// RightMatched reports whether display row i of the right column is resolved.
func (b *Board) RightMatched(row int) bool { return b.matched[b.Right[row]] }

// Resolution is the outcome of pairing one left row with one right row.
type Resolution struct {
	Correct bool
	Left    Card // card behind the left selection
	Right   Card // card behind the right selection
}

// Resolve pairs left row l with right row r. A pair is correct iff both rows
// map to the same card. Correct pairs join the matched set and clear the
// selection. A miss flags the right row and keeps the selection until
// ClearMiss so the feedback can render.
func (b *Board) Resolve(l, r int) Resolution {
	li, ri := b.Left[l], b.Right[r]
	res := Resolution{Correct: li == ri, Left: b.Cards[li], Right: b.Cards[ri]}
	if res.Correct {
		b.matched[li] = true
		b.SelectedLeft, b.SelectedRight = -1, -1
		return res
	}
	b.SelectedLeft, b.SelectedRight = l, r
	b.WrongRight = r
	return res
}

// ClearMiss drops the miss flag and both selections.
func (b *Board) ClearMiss() {
	b.WrongRight = -1
	b.SelectedLeft, b.SelectedRight = -1, -1
}

// Matching drives a Matching session batch by batch.
type Matching struct {
	session *Session
	rng     *rand.Rand
	board   *Board
	set     int
}

// MatchOutcome reports what one pairing did.
type MatchOutcome struct {
	Resolution

	// Verdict follows the matching policy; a miss asks for a pause.
	Verdict Verdict

	// NewBoard is set when the batch finished and the next one was dealt.
	NewBoard bool

	// Completion is set when the last batch finished.
	Completion *Completion
}

// NewMatching deals the first board of s.
func NewMatching(s *Session, rng *rand.Rand) *Matching {
	if rng == nil {
		rng = NewRand()
	}
	m := &Matching{session: s, rng: rng}
	m.deal()
	return m
}

func (m *Matching) deal() {
	m.board = NewBoard(m.session.Batch(PairsPerSet), m.rng)
}

// Session returns the underlying session.
func (m *Matching) Session() *Session { return m.session }

// Board returns the active board.
func (m *Matching) Board() *Board { return m.board }

// SetIndex returns the 0-based index of the active batch.
func (m *Matching) SetIndex() int { return m.set }

// TotalSets returns the number of batches in the session.
func (m *Matching) TotalSets() int {
	return (m.session.Len() + PairsPerSet - 1) / PairsPerSet
}

// Pair resolves left row l against right row r. A correct pair records a
// correct result for the card. A miss records an incorrect result for the
// left card. Finishing a board advances the session past the whole batch.
func (m *Matching) Pair(l, r int) MatchOutcome {
	res := m.board.Resolve(l, r)
	v := m.session.Policy().Judge(res.Correct)
	out := MatchOutcome{Resolution: res, Verdict: v}

	if !res.Correct {
		m.session.RecordCardOutcome(res.Left.ID, false)
		return out
	}
	m.session.RecordCardOutcome(res.Left.ID, true)

	if !m.board.Complete() {
		return out
	}
	out.Completion = m.session.AdvanceBy(m.board.Size())
	if out.Completion == nil {
		m.set++
		m.deal()
		out.NewBoard = true
	}
	return out
}

// Restart begins another pass from the first batch.
func (m *Matching) Restart() {
	m.session.Restart()
	m.set = 0
	m.deal()
}
