package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/lexiz/internal/auth"
	"github.com/abhisek/lexiz/internal/study"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"preferences", "cards", "tags", "card_tags", "session_results", "card_progress", "llm_request_events"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	for i := 1; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != first+int64(i) {
			t.Errorf("seq = %d, want %d", seq, first+int64(i))
		}
	}
}

func TestPreferences_SetGetOverwrite(t *testing.T) {
	s := openTestStore(t)
	prefs := s.Preferences()
	ctx := context.Background()

	if _, ok, err := prefs.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := prefs.Set(ctx, "theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if err := prefs.Set(ctx, "theme", "light"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := prefs.Get(ctx, "theme")
	if err != nil || !ok || v != "light" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if err := prefs.Delete(ctx, "theme"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := prefs.Get(ctx, "theme"); ok {
		t.Error("expected key deleted")
	}
}

func TestPreferences_PacingDefaults(t *testing.T) {
	s := openTestStore(t)
	prefs := s.Preferences()
	ctx := context.Background()
	_ = prefs.Delete(ctx, KeyTimeToFlip, KeyTimeToNext)

	flip, next, err := prefs.Pacing(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if flip != 3*time.Second || next != 5*time.Second {
		t.Errorf("defaults = %v/%v, want 3s/5s", flip, next)
	}

	if err := prefs.SetPacing(ctx, 1500*time.Millisecond, 4*time.Second); err != nil {
		t.Fatal(err)
	}
	flip, next, _ = prefs.Pacing(ctx)
	if flip != 1500*time.Millisecond || next != 4*time.Second {
		t.Errorf("pacing = %v/%v, want 1.5s/4s", flip, next)
	}

	if err := prefs.SetPacing(ctx, 0, time.Second); err == nil {
		t.Error("expected error for zero delay")
	}

	_ = prefs.Set(ctx, KeyTimeToNext, "garbage")
	_, next, _ = prefs.Pacing(ctx)
	if next != 5*time.Second {
		t.Errorf("invalid value should fall back to 5s, got %v", next)
	}
	_ = prefs.Delete(ctx, KeyTimeToFlip, KeyTimeToNext)
}

func TestPreferences_AuthSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	prefs := s.Preferences()
	ctx := context.Background()

	ac := auth.NewContext(prefs)
	if err := ac.SignIn(ctx, "jwt", auth.User{ID: "u1", Email: "a@b.c", Username: "ann"}); err != nil {
		t.Fatal(err)
	}

	restored := auth.NewContext(prefs)
	if err := restored.Restore(ctx); err != nil {
		t.Fatal(err)
	}
	if restored.Current().Token() != "jwt" || restored.Current().User().Username != "ann" {
		t.Fatalf("restored session = %+v", restored.Current().User())
	}

	all, err := prefs.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, leaked := all[KeyAuthToken]; leaked {
		t.Error("All must not list the auth token")
	}

	if err := ac.SignOut(ctx); err != nil {
		t.Fatal(err)
	}
	token, _, err := prefs.LoadSession(ctx)
	if err != nil || token != "" {
		t.Errorf("after sign out token = %q, err = %v", token, err)
	}
}

func TestDeck_CardLifecycle(t *testing.T) {
	s := openTestStore(t)
	deck := s.Deck()
	ctx := context.Background()

	c, err := deck.CreateCard(ctx, CardInput{EnglishWord: "  cat ", RussianTranslation: "кошка"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.EnglishWord != "cat" {
		t.Errorf("word not trimmed: %q", c.EnglishWord)
	}
	t.Cleanup(func() { _ = deck.DeleteCard(ctx, c.ID) })

	found, err := deck.FindByWord(ctx, "CAT")
	if err != nil || found == nil || found.ID != c.ID {
		t.Fatalf("FindByWord = %+v, %v", found, err)
	}

	if err := deck.SetLearned(ctx, c.ID, true); err != nil {
		t.Fatal(err)
	}
	got, err := deck.GetCard(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsLearned {
		t.Error("expected learned")
	}

	if err := deck.SetLearned(ctx, "nope", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetLearned(missing) = %v, want ErrNotFound", err)
	}
}

func TestDeck_RejectsInvalidCard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tests := []CardInput{
		{EnglishWord: "", RussianTranslation: "x"},
		{EnglishWord: "x", RussianTranslation: "   "},
		{EnglishWord: "x", RussianTranslation: "y", DifficultyLevel: "Z9"},
	}
	for _, in := range tests {
		if _, err := s.Deck().CreateCard(ctx, in); err == nil {
			t.Errorf("CreateCard(%+v) succeeded, want validation error", in)
		}
	}
}

func TestDeck_TagsFeedStudyCards(t *testing.T) {
	s := openTestStore(t)
	deck := s.Deck()
	ctx := context.Background()

	animals, err := deck.EnsureTag(ctx, "animals-test")
	if err != nil {
		t.Fatal(err)
	}
	again, err := deck.EnsureTag(ctx, "animals-test")
	if err != nil || again.ID != animals.ID {
		t.Fatalf("EnsureTag must be idempotent: %v %v", again, err)
	}
	t.Cleanup(func() { _ = deck.DeleteTag(ctx, animals.ID) })

	cat, _ := deck.CreateCard(ctx, CardInput{EnglishWord: "cat-t", RussianTranslation: "кошка"})
	run, _ := deck.CreateCard(ctx, CardInput{EnglishWord: "run-t", RussianTranslation: "бежать"})
	t.Cleanup(func() {
		_ = deck.DeleteCard(ctx, cat.ID)
		_ = deck.DeleteCard(ctx, run.ID)
	})

	if err := deck.TagCard(ctx, cat.ID, animals.ID); err != nil {
		t.Fatal(err)
	}
	if err := deck.TagCard(ctx, cat.ID, animals.ID); err != nil {
		t.Fatalf("re-tagging should be a no-op: %v", err)
	}

	cards, err := deck.StudyCards(ctx)
	if err != nil {
		t.Fatal(err)
	}
	filtered := study.ByTags(animals.ID).Apply(cards)
	if len(filtered) != 1 || filtered[0].ID != cat.ID {
		t.Fatalf("tag filter = %+v, want only %s", filtered, cat.ID)
	}

	if err := deck.UntagCard(ctx, cat.ID, animals.ID); err != nil {
		t.Fatal(err)
	}
	cards, _ = deck.StudyCards(ctx)
	if got := study.ByTags(animals.ID).Apply(cards); len(got) != 0 {
		t.Errorf("after untag got %d cards", len(got))
	}
}

func TestDeck_DeleteCardCascadesTags(t *testing.T) {
	s := openTestStore(t)
	deck := s.Deck()
	ctx := context.Background()

	tag, _ := deck.EnsureTag(ctx, "cascade-test")
	t.Cleanup(func() { _ = deck.DeleteTag(ctx, tag.ID) })
	c, _ := deck.CreateCard(ctx, CardInput{EnglishWord: "gone", RussianTranslation: "ушёл"})
	_ = deck.TagCard(ctx, c.ID, tag.ID)

	if err := deck.DeleteCard(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM card_tags WHERE card_id = ?", c.ID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("card_tags rows left = %d", n)
	}
}

func TestResults_SubmitUpdatesProgress(t *testing.T) {
	s := openTestStore(t)
	results := s.Results()
	ctx := context.Background()

	submit := func(ok bool) {
		t.Helper()
		err := results.SubmitSessionResult(ctx, study.SessionResult{
			Mode:              study.ModeQuiz,
			CardResults:       []study.CardResult{{CardID: "progress-c1", IsCorrect: ok}},
			TotalTimeSpentSec: 4,
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	submit(true)
	submit(false)
	submit(true)

	progress, err := results.Progress(ctx, study.ModeQuiz)
	if err != nil {
		t.Fatal(err)
	}
	var found *CardProgress
	for i := range progress {
		if progress[i].CardID == "progress-c1" {
			found = &progress[i]
		}
	}
	if found == nil {
		t.Fatal("no progress row for progress-c1")
	}
	if found.CorrectAnswers != 2 || found.IncorrectAnswers != 1 {
		t.Errorf("tally = %d/%d, want 2/1", found.CorrectAnswers, found.IncorrectAnswers)
	}

	recent, err := results.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].CardsTotal != 1 || recent[0].CardsCorrect != 1 {
		t.Fatalf("recent = %+v", recent)
	}
	crs, err := recent[0].Results()
	if err != nil || len(crs) != 1 || crs[0].CardID != "progress-c1" {
		t.Errorf("decoded results = %+v, %v", crs, err)
	}
}

func TestEventRepo_AppendQueryAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	before, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m-a", Purpose: "tutor-reply", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true, RequestBody: "[user]\nhi"},
		{Provider: "anthropic", Model: "m-a", Purpose: "tutor-reply", InputTokens: 20, OutputTokens: 5, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "m-b", Purpose: "card-hint", Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Purpose != "card-hint" || got[0].Success {
		t.Errorf("newest event = %+v", got[0])
	}

	e, err := repo.GetLLMEvent(ctx, got[0].ID)
	if err != nil || e == nil || e.ErrorMessage != "rate limited" {
		t.Fatalf("GetLLMEvent = %+v, %v", e, err)
	}
	if missing, err := repo.GetLLMEvent(ctx, -1); err != nil || missing != nil {
		t.Errorf("missing event = %+v, %v", missing, err)
	}

	if len(before) == 0 {
		usage, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var tutor *PurposeUsage
		for i := range usage {
			if usage[i].Purpose == "tutor-reply" {
				tutor = &usage[i]
			}
		}
		if tutor == nil || tutor.Calls != 2 || tutor.InputTokens != 30 || tutor.AvgLatencyMs != 200 {
			t.Errorf("tutor usage = %+v", tutor)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEXIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := dir + "/lexiz/lexiz.db"; p != want {
		t.Errorf("path = %q, want %q", p, want)
	}

	t.Setenv("LEXIZ_DB", dir+"/custom/x.db")
	p, _ = DefaultDBPath()
	if p != dir+"/custom/x.db" {
		t.Errorf("env override ignored: %q", p)
	}
}
