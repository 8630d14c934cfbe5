package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
		if LookupCost(got) == nil {
			t.Errorf("no pricing for %q", got)
		}
	}
}

func TestBuildGeminiSchema_TutorReply(t *testing.T) {
	schema := buildGeminiSchema(tutorReplySchema.Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	for _, field := range []string{"reply", "correction", "explanation"} {
		prop, ok := schema.Properties[field]
		if !ok {
			t.Fatalf("missing property %q", field)
		}
		if prop.Type != genai.TypeString {
			t.Errorf("%s type = %s, want STRING", field, prop.Type)
		}
	}
	if len(schema.Required) != 3 {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestBuildGeminiSchema_Nested(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"level": map[string]any{"type": "string", "enum": []any{"A1", "A2", "B1"}},
			"words": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"count": map[string]any{"type": "integer"},
		},
	}

	schema := buildGeminiSchema(def)
	if len(schema.Properties["level"].Enum) != 3 {
		t.Errorf("expected 3 enum values, got %d", len(schema.Properties["level"].Enum))
	}
	if schema.Properties["words"].Type != genai.TypeArray || schema.Properties["words"].Items.Type != genai.TypeString {
		t.Errorf("words = %+v", schema.Properties["words"])
	}
	if schema.Properties["count"].Type != genai.TypeInteger {
		t.Errorf("count type = %s", schema.Properties["count"].Type)
	}
}

func TestBuildGeminiContents_ChatRoles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "I was in Kazan"},
		{Role: RoleAssistant, Content: "How was it?"},
		{Role: RoleUser, Content: "Great"},
	})
	want := []string{"user", "model", "user"}
	for i, c := range contents {
		if c.Role != want[i] {
			t.Errorf("turn %d role = %q, want %q", i, c.Role, want[i])
		}
	}
	if contents[1].Parts[0].Text != "How was it?" {
		t.Errorf("turn text = %q", contents[1].Parts[0].Text)
	}
}

func TestGeminiProvider_TutorReply(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `{"reply":"What did you see?","correction":"","explanation":""}`}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     80,
				"candidatesTokenCount": 12,
				"totalTokenCount":      92,
			},
		})
	}))
	defer srv.Close()

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	if err != nil {
		t.Fatal(err)
	}
	p := &GeminiProvider{client: client, model: "gemini-2.0-flash"}

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a friendly English conversation partner.",
		Messages:  []Message{{Role: RoleUser, Content: "I was in Kazan."}},
		Schema:    tutorReplySchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(gotPath, "gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if resp.StopReason != "end" || resp.Usage.InputTokens != 80 || resp.Usage.OutputTokens != 12 {
		t.Errorf("resp = %+v", resp)
	}
	if usd, ok := EstimateCost(resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens); !ok || usd <= 0 {
		t.Errorf("cost = %v, %v", usd, ok)
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReason("MAX_TOKENS")}},
	}
	if got := mapGeminiStopReason(res); got != "max_tokens" {
		t.Errorf("stop reason = %q", got)
	}
	if got := mapGeminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("empty stop reason = %q", got)
	}
}
