// Package tutor is a local conversation partner for chat practice, used when
// the remote dialog service is unavailable.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lexiz/internal/llm"
)

// ErrEmptyMessage is returned when the learner sends only whitespace.
var ErrEmptyMessage = errors.New("message is empty")

// Service generates tutor replies.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type replyOutput struct {
	Reply       string `json:"reply"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation"`
}

// Reply answers text in the context of c. With correct set, the tutor also
// rewrites text when it contains mistakes.
func (s *Service) Reply(ctx context.Context, c Conversation, text string, correct bool) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	purpose := llm.PurposeTutorReply
	if correct {
		purpose = llm.PurposeTutorCorrect
	}
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.Request{
		System:      buildSystemPrompt(c, correct),
		Messages:    s.messages(c.History, text),
		Schema:      ReplySchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tutor reply: %w", err)
	}

	var out replyOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse tutor reply: %w", err)
	}

	r := &Reply{Text: strings.TrimSpace(out.Reply)}
	if correct {
		r.Correction = strings.TrimSpace(out.Correction)
		r.Explanation = strings.TrimSpace(out.Explanation)
		if strings.EqualFold(r.Correction, text) {
			r.Correction, r.Explanation = "", ""
		}
	}
	return r, nil
}

// messages keeps the most recent turns and appends the new learner text.
func (s *Service) messages(history []Turn, text string) []llm.Message {
	if n := s.cfg.HistoryTurns; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleUser
		if t.Speaker == Tutor {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: text})
}
