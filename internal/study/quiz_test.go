package study

import "testing"

func wrongIndex(q Question) int {
	for i := range q.Options {
		if !q.Correct(i) {
			return i
		}
	}
	return -1
}

func rightIndex(q Question) int {
	for i := range q.Options {
		if q.Correct(i) {
			return i
		}
	}
	return -1
}

func TestQuiz_RetryMultiplicity(t *testing.T) {
	for _, mode := range []Mode{ModeQuiz, ModeListening} {
		t.Run(string(mode), func(t *testing.T) {
			s, err := Start(testCards(4), All(), EnglishFirst, mode)
			if err != nil {
				t.Fatal(err)
			}
			q := NewQuiz(s, seeded(11))
			card := q.Question().CardID

			for attempt := 0; attempt < 3; attempt++ {
				v, ok := q.Choose(wrongIndex(q.Question()))
				if !ok || !v.Retry || v.Correct {
					t.Fatalf("attempt %d: verdict %+v ok=%v", attempt, v, ok)
				}
				if done := q.Settle(); done != nil {
					t.Fatal("wrong answer must not complete")
				}
				if s.Position() != 0 {
					t.Fatalf("position advanced on a wrong answer: %d", s.Position())
				}
				if q.Question().CardID != card {
					t.Fatal("wrong answer must re-arm the same card")
				}
			}

			v, ok := q.Choose(rightIndex(q.Question()))
			if !ok || !v.Advance {
				t.Fatalf("correct verdict %+v", v)
			}
			if s.Position() != 0 {
				t.Fatal("position must not move before the feedback pause settles")
			}
			q.Settle()
			if s.Position() != 1 {
				t.Fatalf("position = %d, want 1", s.Position())
			}

			results := s.Results()
			if len(results) != 4 {
				t.Fatalf("results = %d, want 4", len(results))
			}
			for i, r := range results {
				if r.CardID != card {
					t.Errorf("result %d for card %s, want %s", i, r.CardID, card)
				}
				if want := i == 3; r.IsCorrect != want {
					t.Errorf("result %d correct=%v, want %v", i, r.IsCorrect, want)
				}
			}
		})
	}
}

func TestQuiz_LockedDuringFeedback(t *testing.T) {
	s, _ := Start(testCards(4), All(), EnglishFirst, ModeQuiz)
	q := NewQuiz(s, seeded(2))

	q.Choose(wrongIndex(q.Question()))
	if _, ok := q.Choose(rightIndex(q.Question())); ok {
		t.Fatal("input must be ignored while feedback shows")
	}
	if len(s.Results()) != 1 {
		t.Fatalf("results = %d, want 1", len(s.Results()))
	}
}

func TestQuiz_OutOfRangeChoice(t *testing.T) {
	s, _ := Start(testCards(2), All(), EnglishFirst, ModeQuiz)
	q := NewQuiz(s, seeded(2))
	if _, ok := q.Choose(9); ok {
		t.Fatal("out of range choice accepted")
	}
	if _, ok := q.Choose(-1); ok {
		t.Fatal("negative choice accepted")
	}
}

func TestQuiz_CompletesAfterLastCard(t *testing.T) {
	s, _ := Start(testCards(3), All(), EnglishFirst, ModeQuiz)
	q := NewQuiz(s, seeded(8))

	var done *Completion
	for i := 0; i < 3; i++ {
		q.Choose(rightIndex(q.Question()))
		done = q.Settle()
	}
	if done == nil {
		t.Fatal("expected completion after the last card")
	}
	if len(done.Result.CardResults) != 3 {
		t.Errorf("results = %d, want 3", len(done.Result.CardResults))
	}

	q.Restart()
	if s.Position() != 0 || len(s.Results()) != 0 {
		t.Error("restart did not reset the session")
	}
	if q.Question().CardID != "c0" {
		t.Errorf("first question after restart is %s", q.Question().CardID)
	}
}

func TestQuiz_SingleCardHasOneOption(t *testing.T) {
	s, _ := Start(testCards(1), All(), EnglishFirst, ModeQuiz)
	q := NewQuiz(s, seeded(8))
	if len(q.Question().Options) != 1 {
		t.Fatalf("options = %v", q.Question().Options)
	}
	q.Choose(0)
	if q.Settle() == nil {
		t.Fatal("expected completion")
	}
}
