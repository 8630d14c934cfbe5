package tutor

import "github.com/abhisek/lexiz/internal/llm"

// ReplySchema defines the JSON schema for a tutor reply.
var ReplySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "A conversational reply with an optional correction of the learner's last message",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "Natural reply continuing the conversation (1-3 sentences)",
			},
			"correction": map[string]any{
				"type":        "string",
				"description": "The learner's last message rewritten in correct English, or empty if it was already correct",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences explaining the correction, or empty",
			},
		},
		"required":             []any{"reply", "correction", "explanation"},
		"additionalProperties": false,
	},
}

// SummarySchema defines the JSON schema for conversation compression.
var SummarySchema = &llm.Schema{
	Name:        "conversation-summary",
	Description: "Compressed summary of earlier conversation turns",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-4 sentence summary of what has been discussed",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}
