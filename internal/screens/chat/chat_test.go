package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiz/internal/backend"
)

type sent struct {
	id, text string
	correct  bool
}

type fakeChat struct {
	topic, level string
	sent         []sent
	reply        *backend.ChatReply
	err          error
}

func (f *fakeChat) Open(_ context.Context, topic, level string) (string, error) {
	f.topic, f.level = topic, level
	return "d1", nil
}

func (f *fakeChat) Send(_ context.Context, id, text string, correct bool) (*backend.ChatReply, error) {
	f.sent = append(f.sent, sent{id, text, correct})
	return f.reply, f.err
}

func opened(t *testing.T, f *fakeChat) *ChatScreen {
	t.Helper()
	s := New(f)
	s.topic.SetValue("travel")
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected open command")
	}
	s.Update(cmd())
	if !s.started() {
		t.Fatalf("chat did not start: %q", s.errMsg)
	}
	return s
}

func TestChat_SetupOpensDialog(t *testing.T) {
	f := &fakeChat{}
	s := opened(t, f)
	if f.topic != "travel" || f.level != "B2" {
		t.Errorf("opened with %q/%q", f.topic, f.level)
	}
	if s.Title() != "Chat · B2" {
		t.Errorf("title = %q", s.Title())
	}
}

func TestChat_TopicRequired(t *testing.T) {
	s := New(&fakeChat{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil || s.errMsg == "" {
		t.Error("blank topic should not open a chat")
	}
}

func TestChat_SendShowsCorrection(t *testing.T) {
	f := &fakeChat{reply: &backend.ChatReply{
		Text:        "Nice! Where did you go?",
		Correction:  "I went to Kazan.",
		Explanation: "Past tense of go is went.",
	}}
	s := opened(t, f)
	s.input.SetValue("I goed to Kazan.")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.busy || s.input.Value() != "" {
		t.Error("sending should clear the input and wait")
	}
	s.Update(cmd())

	if len(f.sent) != 1 || f.sent[0] != (sent{"d1", "I goed to Kazan.", true}) {
		t.Fatalf("sent = %+v", f.sent)
	}
	view := s.View(100, 30)
	for _, want := range []string{"I goed to Kazan.", "✎ I went to Kazan.", "Where did you go?"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestChat_ToggleCorrections(t *testing.T) {
	f := &fakeChat{reply: &backend.ChatReply{Text: "ok"}}
	s := opened(t, f)
	s.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	s.input.SetValue("hello")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if f.sent[0].correct {
		t.Error("corrections should be off after ctrl+t")
	}
}

func TestChat_SendErrorKeepsTranscript(t *testing.T) {
	f := &fakeChat{err: errors.New("timeout")}
	s := opened(t, f)
	s.input.SetValue("hello")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if s.busy || !strings.Contains(s.errMsg, "timeout") {
		t.Errorf("busy=%v errMsg=%q", s.busy, s.errMsg)
	}
	if len(s.entries) != 1 {
		t.Errorf("entries = %d", len(s.entries))
	}
}

func TestChat_BlankMessageIgnored(t *testing.T) {
	f := &fakeChat{}
	s := opened(t, f)
	s.input.SetValue("   ")
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil || len(s.entries) != 0 {
		t.Error("blank message should not be sent")
	}
}
