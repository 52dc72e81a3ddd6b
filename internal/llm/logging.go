package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type logged struct {
	inner   Provider
	logger  *zap.Logger
	timeout time.Duration
}

// WithLogging wraps p so every call is logged with tokens, latency and
// estimated cost. A non-zero timeout bounds each call.
func WithLogging(p Provider, logger *zap.Logger, timeout time.Duration) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logged{inner: p, logger: logger, timeout: timeout}
}

func (l *logged) ModelID() string { return l.inner.ModelID() }

func (l *logged) Generate(ctx context.Context, req Request) (*Response, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	purpose := req.Purpose
	if purpose == "" {
		purpose = "unlabeled"
	}
	fields := []zap.Field{
		zap.String("purpose", purpose),
		zap.String("model", l.inner.ModelID()),
		zap.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}
	if err != nil {
		l.logger.Warn("llm call failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	fields = append(fields,
		zap.String("served_by", resp.Model),
		zap.String("stop", string(resp.Stop)),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
	)
	if c := LookupCost(resp.Model); c != nil {
		fields = append(fields, zap.Float64("cost_usd", c.Cost(resp.InputTokens, resp.OutputTokens)))
	}
	l.logger.Info("llm call", fields...)
	return resp, nil
}
