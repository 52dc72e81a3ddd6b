package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// quizSchema is a cut-down challenge batch schema.
func quizSchema() *Schema {
	return &Schema{
		Name: "quiz",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": "string"},
			},
			"required": []any{"question", "answer"},
		},
	}
}

const quizJSON = `{"question":"What is 2 + 3?","answer":"5"}`

func serve(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func quizRequest() Request {
	return Request{Purpose: "test", System: "You write quizzes.", Prompt: "One please.", Schema: quizSchema(), MaxTokens: 256}
}

func anthropicReply(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func TestAnthropic(t *testing.T) {
	newP := func(t *testing.T, status int, body any) *Anthropic {
		p, err := NewAnthropic(AnthropicConfig{APIKey: "k", Model: "claude-haiku", BaseURL: serve(t, status, body)})
		if err != nil {
			t.Fatalf("NewAnthropic: %v", err)
		}
		return p
	}

	t.Run("ok", func(t *testing.T) {
		p := newP(t, http.StatusOK, anthropicReply(quizJSON, "end_turn"))
		if p.ModelID() != "claude-haiku-4-5-20251001" {
			t.Errorf("ModelID = %q", p.ModelID())
		}
		resp, err := p.Generate(context.Background(), quizRequest())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if resp.InputTokens != 50 || resp.OutputTokens != 30 || resp.Stop != StopEnd {
			t.Errorf("resp = %+v", resp)
		}
		if string(resp.Content) != quizJSON {
			t.Errorf("content = %s", resp.Content)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		p := newP(t, http.StatusOK, anthropicReply(`{"question":"What`, "max_tokens"))
		if _, err := p.Generate(context.Background(), quizRequest()); !errors.Is(err, ErrTruncated) {
			t.Fatalf("expected ErrTruncated, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		p := newP(t, http.StatusTooManyRequests, anthropicError("rate_limit_error"))
		if _, err := p.Generate(context.Background(), quizRequest()); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		p := newP(t, http.StatusInternalServerError, anthropicError("api_error"))
		if _, err := p.Generate(context.Background(), quizRequest()); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

func openaiReply(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAI(t *testing.T) {
	newP := func(t *testing.T, status int, body any) *OpenAI {
		p, err := NewOpenAI(OpenAIConfig{APIKey: "k", Model: "gpt-mini", BaseURL: serve(t, status, body) + "/v1"})
		if err != nil {
			t.Fatalf("NewOpenAI: %v", err)
		}
		return p
	}

	t.Run("ok", func(t *testing.T) {
		p := newP(t, http.StatusOK, openaiReply(quizJSON, "stop"))
		if p.ModelID() != "gpt-4o-mini" {
			t.Errorf("ModelID = %q", p.ModelID())
		}
		resp, err := p.Generate(context.Background(), quizRequest())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if resp.InputTokens != 40 || resp.OutputTokens != 25 || resp.Model != "gpt-4o-mini" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("schema miss", func(t *testing.T) {
		p := newP(t, http.StatusOK, openaiReply(`{"question":"no answer"}`, "stop"))
		_, err := p.Generate(context.Background(), quizRequest())
		var re *ResponseError
		if !errors.As(err, &re) || re.Schema != "quiz" {
			t.Fatalf("expected ResponseError for quiz, got %v", err)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		body := openaiReply("", "stop")
		body["choices"] = []any{}
		p := newP(t, http.StatusOK, body)
		var re *ResponseError
		if _, err := p.Generate(context.Background(), quizRequest()); !errors.As(err, &re) {
			t.Fatalf("expected ResponseError, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		p := newP(t, http.StatusTooManyRequests, map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}})
		if _, err := p.Generate(context.Background(), quizRequest()); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})
}

func TestGemini(t *testing.T) {
	reply := map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": quizJSON}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 12, "candidatesTokenCount": 8, "totalTokenCount": 20},
	}
	p, err := NewGemini(context.Background(), GeminiConfig{APIKey: "k", Model: "gemini-flash", BaseURL: serve(t, http.StatusOK, reply)})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if p.ModelID() != "gemini-2.5-flash" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	resp, err := p.Generate(context.Background(), quizRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 8 || resp.Stop != StopEnd {
		t.Errorf("resp = %+v", resp)
	}

	failing, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:  "k",
		BaseURL: serve(t, http.StatusServiceUnavailable, map[string]any{"error": map[string]any{"code": 503, "message": "down"}}),
	})
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	_, err = failing.Generate(context.Background(), quizRequest())
	if !errors.Is(err, ErrUnavailable) || !strings.Contains(err.Error(), "gemini") {
		t.Fatalf("expected gemini ErrUnavailable, got %v", err)
	}
}

func TestVendorsRequireKeys(t *testing.T) {
	if _, err := NewAnthropic(AnthropicConfig{}); err == nil {
		t.Error("anthropic: expected key error")
	}
	if _, err := NewOpenAI(OpenAIConfig{}); err == nil {
		t.Error("openai: expected key error")
	}
	if _, err := NewGemini(context.Background(), GeminiConfig{}); err == nil {
		t.Error("gemini: expected key error")
	}
}
