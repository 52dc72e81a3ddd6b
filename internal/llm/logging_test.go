package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithLogging_Success(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := WithLogging(NewMock(Reply{Content: quizJSON, InputTokens: 1000, OutputTokens: 500}), zap.New(core), 0)

	if _, err := p.Generate(context.Background(), quizRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := logs.FilterMessage("llm call").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	f := entries[0].ContextMap()
	if f["purpose"] != "test" || f["schema"] != "quiz" || f["input_tokens"] != int64(1000) {
		t.Errorf("fields = %v", f)
	}
	if _, ok := f["cost_usd"]; ok {
		t.Error("mock model has no pricing")
	}
}

func TestWithLogging_Failure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := WithLogging(NewMock(Reply{Err: errors.New("boom")}), zap.New(core), 0)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	entries := logs.FilterMessage("llm call failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["purpose"] != "unlabeled" {
		t.Fatalf("entries = %v", entries)
	}
}

type deadlineSpy struct{ saw bool }

func (d *deadlineSpy) Generate(ctx context.Context, _ Request) (*Response, error) {
	_, d.saw = ctx.Deadline()
	return &Response{Content: json.RawMessage(`{}`)}, nil
}

func (d *deadlineSpy) ModelID() string { return "spy" }

func TestWithLogging_Timeout(t *testing.T) {
	spy := &deadlineSpy{}
	if _, err := WithLogging(spy, nil, time.Second).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spy.saw {
		t.Fatal("expected a deadline")
	}

	spy = &deadlineSpy{}
	_, _ = WithLogging(spy, nil, 0).Generate(context.Background(), Request{})
	if spy.saw {
		t.Fatal("zero timeout must not set a deadline")
	}
}
