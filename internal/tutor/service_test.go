package tutor

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/lexiz/internal/llm"
)

func replyJSON(reply, correction, explanation string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{
		"reply":       reply,
		"correction":  correction,
		"explanation": explanation,
	})
	return b
}

func TestService_ReplyWithCorrection(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: replyJSON("Sounds relaxing! What did you do there?", "I went home yesterday.", "The past tense of go is went."),
	})
	svc := NewService(mock, DefaultConfig())

	conv := Conversation{Topic: "weekend", Level: "A2"}
	r, err := svc.Reply(t.Context(), conv, "I goed home yesterday.", true)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	if r.Correction != "I went home yesterday." {
		t.Errorf("correction = %q", r.Correction)
	}
	if r.Explanation == "" {
		t.Error("expected explanation")
	}

	req := mock.Calls[0]
	if req.Schema != ReplySchema {
		t.Error("expected reply schema")
	}
	if !strings.Contains(req.System, "A2") || !strings.Contains(req.System, "weekend") {
		t.Errorf("system prompt missing level/topic: %q", req.System)
	}
	if !strings.Contains(req.System, `"correction"`) {
		t.Error("system prompt should ask for corrections")
	}
	if mock.Purposes[0] != llm.PurposeTutorCorrect {
		t.Errorf("purpose = %q, want %q", mock.Purposes[0], llm.PurposeTutorCorrect)
	}
}

func TestService_ReplyWithoutCorrectionDropsIt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: replyJSON("Nice!", "I went home.", "went"),
	})
	svc := NewService(mock, DefaultConfig())

	r, err := svc.Reply(t.Context(), Conversation{}, "I goed home.", false)
	if err != nil {
		t.Fatal(err)
	}
	if r.Correction != "" || r.Explanation != "" {
		t.Errorf("correction leaked into plain reply: %+v", r)
	}
	if !strings.Contains(mock.Calls[0].System, "B1") {
		t.Error("missing level should default to B1")
	}
	if mock.Purposes[0] != llm.PurposeTutorReply {
		t.Errorf("purpose = %q, want %q", mock.Purposes[0], llm.PurposeTutorReply)
	}
}

func TestService_IdenticalCorrectionIsCleared(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: replyJSON("Great!", "I like tea.", "Nothing to fix."),
	})
	r, err := NewService(mock, DefaultConfig()).Reply(t.Context(), Conversation{}, "i like tea.", true)
	if err != nil {
		t.Fatal(err)
	}
	if r.Correction != "" {
		t.Errorf("correction = %q, want empty", r.Correction)
	}
}

func TestService_HistoryWindow(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: replyJSON("ok", "", "")})
	cfg := DefaultConfig()
	cfg.HistoryTurns = 2
	svc := NewService(mock, cfg)

	conv := Conversation{History: []Turn{
		{Learner, "one"}, {Tutor, "two"}, {Learner, "three"}, {Tutor, "four"},
	}}
	if _, err := svc.Reply(t.Context(), conv, "five", false); err != nil {
		t.Fatal(err)
	}

	msgs := mock.Calls[0].Messages
	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(msgs))
	}
	if msgs[0].Content != "three" || msgs[0].Role != llm.RoleUser {
		t.Errorf("first kept = %+v", msgs[0])
	}
	if msgs[1].Role != llm.RoleAssistant {
		t.Errorf("tutor turn role = %s", msgs[1].Role)
	}
	if msgs[2].Content != "five" {
		t.Errorf("last = %+v", msgs[2])
	}
}

func TestService_Errors(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	if _, err := svc.Reply(t.Context(), Conversation{}, "   ", true); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("blank message err = %v", err)
	}
	if _, err := svc.Reply(t.Context(), Conversation{}, "hi", true); err == nil {
		t.Error("expected provider error")
	}

	bad := NewService(llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`not json`)}), DefaultConfig())
	if _, err := bad.Reply(t.Context(), Conversation{}, "hi", true); err == nil {
		t.Error("expected parse error")
	}
}

func TestCompressor_Fold(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"summary":"They talked about a trip to Kazan."}`),
	})
	c := NewCompressor(mock, DefaultCompressorConfig())

	conv := Conversation{History: []Turn{
		{Learner, "I was in Kazan"}, {Tutor, "How was it?"}, {Learner, "Great"}, {Tutor, "What did you see?"},
	}}
	out, err := c.Fold(t.Context(), conv, 2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Summary != "They talked about a trip to Kazan." {
		t.Errorf("summary = %q", out.Summary)
	}
	if len(out.History) != 2 || out.History[0].Text != "Great" {
		t.Errorf("history = %+v", out.History)
	}
	if len(conv.History) != 4 {
		t.Error("input conversation must not change")
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "I was in Kazan") {
		t.Error("folded turns missing from prompt")
	}
	if mock.Purposes[0] != llm.PurposeChatCompress {
		t.Errorf("purpose = %q, want %q", mock.Purposes[0], llm.PurposeChatCompress)
	}

	same, err := c.Fold(t.Context(), out, 5)
	if err != nil || mock.CallCount() != 1 || len(same.History) != 2 {
		t.Errorf("short history should not be folded (calls=%d, err=%v)", mock.CallCount(), err)
	}
}
