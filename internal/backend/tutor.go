package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/lexiz/internal/textclean"
	"github.com/abhisek/lexiz/internal/tutor"
)

// TutorChat keeps conversations in memory and answers them with the local
// tutor. Long conversations are folded into a summary once they exceed
// twice the tutor's history window.
type TutorChat struct {
	svc   *tutor.Service
	comp  *tutor.Compressor
	keep  int
	mu    sync.Mutex
	convs map[string]*tutor.Conversation
}

// NewTutorChat creates a local chat backend. comp may be nil to disable
// folding.
func NewTutorChat(svc *tutor.Service, comp *tutor.Compressor, keep int) *TutorChat {
	return &TutorChat{svc: svc, comp: comp, keep: keep, convs: make(map[string]*tutor.Conversation)}
}

func (c *TutorChat) Open(_ context.Context, topic, level string) (string, error) {
	id := uuid.NewString()
	c.mu.Lock()
	c.convs[id] = &tutor.Conversation{Topic: topic, Level: level}
	c.mu.Unlock()
	return id, nil
}

func (c *TutorChat) Send(ctx context.Context, id, text string, correct bool) (*ChatReply, error) {
	c.mu.Lock()
	conv, ok := c.convs[id]
	var snapshot tutor.Conversation
	if ok {
		snapshot = *conv
		snapshot.History = append([]tutor.Turn(nil), conv.History...)
	}
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrUnavailable)
	}

	reply, err := c.svc.Reply(ctx, snapshot, text, correct)
	if err != nil {
		return nil, err
	}

	snapshot.History = append(snapshot.History,
		tutor.Turn{Speaker: tutor.Learner, Text: text},
		tutor.Turn{Speaker: tutor.Tutor, Text: reply.Text},
	)
	if c.comp != nil && c.keep > 0 && len(snapshot.History) > 2*c.keep {
		folded, ferr := c.comp.Fold(ctx, snapshot, c.keep)
		if ferr != nil {
			slog.Warn("fold conversation failed", "conversation", id, "err", ferr)
		} else {
			snapshot = folded
		}
	}

	c.mu.Lock()
	c.convs[id] = &snapshot
	c.mu.Unlock()

	return &ChatReply{
		Text:        textclean.Plain(reply.Text),
		Correction:  textclean.Plain(reply.Correction),
		Explanation: textclean.Plain(reply.Explanation),
	}, nil
}
