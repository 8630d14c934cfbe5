package study

import (
	"errors"
	"testing"
)

func TestSetup_Flow(t *testing.T) {
	cards := testCards(3)
	cards[0].Tags = []string{"animals"}

	s := NewSetup(ModeQuiz)
	if s.Phase() != PhaseUninitialized {
		t.Fatalf("phase = %s", s.Phase())
	}
	if err := s.ChooseFilter(All()); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("filter before load: %v", err)
	}

	s.Load(cards, []Tag{{ID: "animals", Name: "Animals"}})
	if s.Phase() != PhaseFilterPending {
		t.Fatalf("phase = %s", s.Phase())
	}
	if _, err := s.ChooseDirection(EnglishFirst); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("direction before filter: %v", err)
	}

	if err := s.ChooseFilter(ByTags("animals")); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseModePending {
		t.Fatalf("phase = %s", s.Phase())
	}

	sess, err := s.ChooseDirection(RussianFirst)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseActive || sess.Len() != 1 || sess.Direction != RussianFirst {
		t.Fatalf("phase=%s len=%d dir=%s", s.Phase(), sess.Len(), sess.Direction)
	}

	sess.Advance()
	if s.Phase() != PhaseComplete {
		t.Fatalf("phase = %s, want complete", s.Phase())
	}

	s.Reset()
	if s.Phase() != PhaseFilterPending || s.Session() != nil {
		t.Fatal("reset must return to filter selection and drop the session")
	}
}

func TestSetup_NothingToStudyStaysOnFilter(t *testing.T) {
	s := NewSetup(ModeSpeed)
	s.Load(testCards(2), nil)

	if err := s.ChooseFilter(ByTags("missing")); !errors.Is(err, ErrNothingToStudy) {
		t.Fatalf("err = %v", err)
	}
	if s.Phase() != PhaseFilterPending {
		t.Fatalf("phase = %s", s.Phase())
	}
	if err := s.ChooseFilter(All()); err != nil {
		t.Fatal(err)
	}
}

func TestFlashcard_SpeedMode(t *testing.T) {
	sess, _ := Start(testCards(2), All(), EnglishFirst, ModeSpeed)
	f := NewFlashcard(sess)

	if f.Front() != "en0" || f.Back() != "ru0" {
		t.Fatalf("front=%q back=%q", f.Front(), f.Back())
	}
	f.Flip()
	if !f.Flipped {
		t.Fatal("expected flipped")
	}
	if done := f.Next(); done != nil {
		t.Fatal("unexpected completion")
	}
	if f.Flipped {
		t.Error("next card must start unflipped")
	}
	done := f.Next()
	if done == nil || len(done.Result.CardResults) != 2 {
		t.Fatalf("completion = %+v", done)
	}
}

func TestParseModeAndDirection(t *testing.T) {
	if m, err := ParseMode("quiz"); err != nil || m != ModeQuiz {
		t.Errorf("ParseMode(quiz) = %s, %v", m, err)
	}
	if _, err := ParseMode("stories"); err == nil {
		t.Error("stories is not playable")
	}
	if d, err := ParseDirection("ru-en"); err != nil || d != RussianFirst {
		t.Errorf("ParseDirection(ru-en) = %v, %v", d, err)
	}
	if _, err := ParseDirection("fr"); err == nil {
		t.Error("expected error for unknown direction")
	}
}
