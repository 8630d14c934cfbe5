package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/router"
	"github.com/abhisek/lexiz/internal/store"
)

type fakeHistory struct {
	records []store.SessionRecord
	err     error
	limit   int
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]store.SessionRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func loaded(t *testing.T, f *fakeHistory) *HistoryScreen {
	t.Helper()
	s := New(f)
	s.Update(s.Init()())
	return s
}

func TestHistory_ListsSessions(t *testing.T) {
	f := &fakeHistory{records: []store.SessionRecord{
		{Timestamp: time.Now(), Mode: "QUIZ", CardsTotal: 4, CardsCorrect: 3, TotalTimeSec: 75,
			CardResults: `[{"cardId":"a","isCorrect":true,"timeSpentMs":1000},{"cardId":"b","isCorrect":false,"timeSpentMs":3000}]`},
		{Timestamp: time.Now(), Mode: "SPEED", CardsTotal: 2, CardsCorrect: 2, TotalTimeSec: 9, CardResults: `[]`},
	}}
	s := loaded(t, f)

	if f.limit != pageSize {
		t.Errorf("limit = %d", f.limit)
	}
	view := s.View(100, 30)
	for _, want := range []string{"Quiz", "1:15", "75% first try", "Speed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistory_ExpandShowsDetails(t *testing.T) {
	f := &fakeHistory{records: []store.SessionRecord{
		{Mode: "QUIZ", CardsTotal: 4, CardsCorrect: 3,
			CardResults: `[{"cardId":"a","isCorrect":true,"timeSpentMs":1000},{"cardId":"b","isCorrect":false,"timeSpentMs":3000}]`},
	}}
	s := loaded(t, f)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	view := s.View(100, 30)
	if !strings.Contains(view, "1 needed another go") || !strings.Contains(view, "2.0s per card") {
		t.Errorf("details missing: %q", view)
	}
}

func TestHistory_EmptyAndError(t *testing.T) {
	s := loaded(t, &fakeHistory{})
	if !strings.Contains(s.View(80, 24), "No sessions yet") {
		t.Error("expected empty message")
	}

	s = loaded(t, &fakeHistory{err: errors.New("disk gone")})
	if !strings.Contains(s.View(80, 24), "disk gone") {
		t.Error("expected error message")
	}
}

func TestHistory_EscPops(t *testing.T) {
	s := loaded(t, &fakeHistory{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
