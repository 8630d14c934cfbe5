package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lexiz/internal/llm"
)

// Compressor folds old conversation turns into a short summary.
type Compressor struct {
	provider llm.Provider
	cfg      CompressorConfig
}

// NewCompressor creates a conversation compressor.
func NewCompressor(provider llm.Provider, cfg CompressorConfig) *Compressor {
	return &Compressor{provider: provider, cfg: cfg}
}

type compressionOutput struct {
	Summary string `json:"summary"`
}

// Fold keeps the last keep turns of c and summarizes the rest, merged with
// any existing summary. c is returned unchanged when nothing needs folding.
func (c *Compressor) Fold(ctx context.Context, conv Conversation, keep int) (Conversation, error) {
	if keep < 0 || len(conv.History) <= keep {
		return conv, nil
	}
	cut := len(conv.History) - keep
	old := conv.History[:cut]
	if conv.Summary != "" {
		old = append([]Turn{{Speaker: Tutor, Text: "(summary) " + conv.Summary}}, old...)
	}

	summary, err := c.summarize(ctx, old)
	if err != nil {
		return conv, err
	}

	out := conv
	out.Summary = summary
	out.History = append([]Turn(nil), conv.History[cut:]...)
	return out, nil
}

func (c *Compressor) summarize(ctx context.Context, turns []Turn) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChatCompress)

	req := llm.Request{
		System: compressionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCompressionUserMessage(turns)},
		},
		Schema:      SummarySchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("conversation compression: %w", err)
	}

	var out compressionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse compression response: %w", err)
	}
	return strings.TrimSpace(out.Summary), nil
}
