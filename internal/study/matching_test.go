package study

import (
	"slices"
	"testing"
)

func rowOf(order []int, idx int) int {
	return slices.Index(order, idx)
}

func TestNewBoard_Permutations(t *testing.T) {
	b := NewBoard(testCards(7), seeded(4))
	for _, order := range [][]int{b.Left, b.Right} {
		sorted := slices.Clone(order)
		slices.Sort(sorted)
		if !slices.Equal(sorted, []int{0, 1, 2, 3, 4, 5, 6}) {
			t.Fatalf("not a permutation: %v", order)
		}
	}
}

func TestNewBoard_ShuffleIndependence(t *testing.T) {
	rng := seeded(2024)
	cards := testCards(7)

	identical := 0
	fixedPoints := 0
	for i := 0; i < 1000; i++ {
		b := NewBoard(cards, rng)
		if slices.Equal(b.Left, b.Right) {
			identical++
		}
		for row := range b.Left {
			if b.Left[row] == b.Right[row] {
				fixedPoints++
			}
		}
	}

	// Independent permutations of 7 agree with probability 1/5040 and share
	// one row on average.
	if identical > 5 {
		t.Errorf("left == right in %d/1000 boards", identical)
	}
	if fixedPoints < 800 || fixedPoints > 1200 {
		t.Errorf("rows aligned %d times in 1000 boards, want about 1000", fixedPoints)
	}
}

func TestBoard_ResolveCorrectAndWrong(t *testing.T) {
	b := NewBoard(testCards(3), seeded(9))

	l := rowOf(b.Left, 0)
	wrong := rowOf(b.Right, 1)
	res := b.Resolve(l, wrong)
	if res.Correct {
		t.Fatal("mismatched pair resolved as correct")
	}
	if b.WrongRight != wrong || b.MatchedCount() != 0 {
		t.Errorf("miss state: wrong=%d matched=%d", b.WrongRight, b.MatchedCount())
	}
	b.ClearMiss()
	if b.WrongRight != -1 || b.SelectedLeft != -1 || b.SelectedRight != -1 {
		t.Error("ClearMiss left selection state behind")
	}

	res = b.Resolve(l, rowOf(b.Right, 0))
	if !res.Correct || !b.IsMatched(0) || b.MatchedCount() != 1 {
		t.Fatalf("correct pair not recorded: %+v", res)
	}
	if !b.LeftMatched(l) || !b.RightMatched(rowOf(b.Right, 0)) {
		t.Error("matched rows not reported")
	}
}

func matchAll(t *testing.T, m *Matching) *Completion {
	t.Helper()
	b := m.Board()
	var done *Completion
	for idx := 0; idx < b.Size(); idx++ {
		out := m.Pair(rowOf(b.Left, idx), rowOf(b.Right, idx))
		if !out.Correct {
			t.Fatalf("pair %d not correct", idx)
		}
		done = out.Completion
	}
	return done
}

func TestMatching_ScenarioC(t *testing.T) {
	t.Run("batch advances to the next board", func(t *testing.T) {
		s, _ := Start(testCards(10), All(), EnglishFirst, ModeMatching)
		m := NewMatching(s, seeded(1))

		if m.TotalSets() != 2 || m.Board().Size() != 7 {
			t.Fatalf("sets=%d size=%d", m.TotalSets(), m.Board().Size())
		}
		if done := matchAll(t, m); done != nil {
			t.Fatal("first batch must not complete the session")
		}
		if s.Position() != 7 || m.SetIndex() != 1 || m.Board().Size() != 3 {
			t.Fatalf("position=%d set=%d size=%d", s.Position(), m.SetIndex(), m.Board().Size())
		}
		if done := matchAll(t, m); done == nil {
			t.Fatal("last batch must complete the session")
		}
	})

	t.Run("single batch completes", func(t *testing.T) {
		s, _ := Start(testCards(7), All(), EnglishFirst, ModeMatching)
		m := NewMatching(s, seeded(1))
		done := matchAll(t, m)
		if done == nil {
			t.Fatal("expected completion")
		}
		if len(done.Result.CardResults) != 7 {
			t.Errorf("results = %d, want 7", len(done.Result.CardResults))
		}
		for _, r := range done.Result.CardResults {
			if !r.IsCorrect {
				t.Errorf("unexpected miss for %s", r.CardID)
			}
		}
	})
}

func TestMatching_MissRecordsLeftCard(t *testing.T) {
	s, _ := Start(testCards(4), All(), EnglishFirst, ModeMatching)
	m := NewMatching(s, seeded(5))
	b := m.Board()

	out := m.Pair(rowOf(b.Left, 2), rowOf(b.Right, 3))
	if out.Correct || !out.Verdict.Retry || out.Verdict.Pause != FeedbackPause {
		t.Fatalf("unexpected outcome %+v", out)
	}
	results := s.Results()
	if len(results) != 1 || results[0].CardID != "c2" || results[0].IsCorrect {
		t.Fatalf("results = %+v", results)
	}
	if s.Position() != 0 {
		t.Error("a miss must not move the session")
	}
}

func TestMatching_Restart(t *testing.T) {
	s, _ := Start(testCards(9), All(), EnglishFirst, ModeMatching)
	m := NewMatching(s, seeded(5))
	matchAll(t, m)
	m.Restart()

	if m.SetIndex() != 0 || s.Position() != 0 || m.Board().Size() != 7 {
		t.Fatalf("set=%d position=%d size=%d", m.SetIndex(), s.Position(), m.Board().Size())
	}
}
