package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestCheckSchema(t *testing.T) {
	s := quizSchema()
	tests := []struct {
		name    string
		content string
		ok      bool
	}{
		{"valid", quizJSON, true},
		{"extra fields allowed", `{"question":"q","answer":"a","hint":"h"}`, true},
		{"missing required", `{"question":"q"}`, false},
		{"wrong type", `{"question":"q","answer":5}`, false},
		{"not json", `question: q`, false},
		{"empty", `  `, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSchema(s, json.RawMessage(tt.content))
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var re *ResponseError
			if !errors.As(err, &re) {
				t.Fatalf("expected ResponseError, got %v", err)
			}
			if string(re.Content) != tt.content {
				t.Errorf("content = %q", re.Content)
			}
		})
	}
}

func TestFinish(t *testing.T) {
	req := Request{Schema: quizSchema()}

	if _, err := finish(req, json.RawMessage(`{"q`), "m", StopLength, 1, 99); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	var re *ResponseError
	if _, err := finish(req, json.RawMessage(`{}`), "m", StopEnd, 1, 2); !errors.As(err, &re) {
		t.Fatalf("expected ResponseError, got %v", err)
	}

	resp, err := finish(Request{}, json.RawMessage(`"free text"`), "m", StopEnd, 3, 4)
	if err != nil {
		t.Fatalf("no schema: %v", err)
	}
	if resp.Model != "m" || resp.InputTokens != 3 || resp.OutputTokens != 4 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"level":   map[string]any{"type": "integer"},
			"mode":    map[string]any{"type": "string", "enum": []any{"math", "reading"}},
			"options": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"level", "mode"},
		"additionalProperties": false,
	})
	if s.Type != genai.TypeObject || len(s.Properties) != 3 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Properties["level"].Type != genai.TypeInteger {
		t.Errorf("level type = %s", s.Properties["level"].Type)
	}
	if len(s.Properties["mode"].Enum) != 2 {
		t.Errorf("mode enum = %v", s.Properties["mode"].Enum)
	}
	if s.Properties["options"].Items.Type != genai.TypeString {
		t.Errorf("items type = %s", s.Properties["options"].Items.Type)
	}
	if len(s.Required) != 2 {
		t.Errorf("required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("claude-haiku", anthropicAliases); got != "claude-haiku-4-5-20251001" {
		t.Errorf("alias = %q", got)
	}
	if got := resolveModel("gpt-4.1-mini", openaiAliases); got != "gpt-4.1-mini" {
		t.Errorf("pass-through = %q", got)
	}
}
