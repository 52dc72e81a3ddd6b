package challengegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/llm"
)

// Generator produces challenges with one LLM call per request.
type Generator struct {
	provider llm.Provider
	existing Existing
	config   Config
	logger   *zap.Logger
}

// New creates a Generator. existing may be nil to skip duplicate checks
// against stored challenges.
func New(provider llm.Provider, existing Existing, cfg Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, existing: existing, config: cfg, logger: logger}
}

// Generate asks the provider for req.Count challenges. Each one is
// validated and checked against stored and earlier questions; rejects
// are reported in the result, not as an error. An error means nothing
// usable came back.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	var prior []string
	seen := make(map[string]bool)
	if g.existing != nil {
		stored, err := g.existing.ByType(ctx, req.Type)
		if err != nil {
			return Result{}, fmt.Errorf("load existing challenges: %w", err)
		}
		for _, c := range stored {
			prior = append(prior, c.Question)
			seen[questionKey(c.Question)] = true
		}
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		Purpose:     "challenge-gen",
		System:      systemPrompt,
		Prompt:      buildUserMessage(req, prior, g.config),
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return Result{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	var res Result
	for _, out := range raw.Challenges {
		c := challenge.Challenge{
			Type:          req.Type,
			Skill:         req.Skill,
			Question:      strings.TrimSpace(out.Question),
			Options:       trimAll(out.Options),
			CorrectAnswer: strings.TrimSpace(out.CorrectAnswer),
			Difficulty:    req.Difficulty,
			Story:         strings.TrimSpace(out.Story),
			TargetWord:    strings.TrimSpace(out.TargetWord),
		}
		if rejectErr := g.check(&c, req, seen); rejectErr != nil {
			g.logger.Debug("challenge rejected", zap.String("question", c.Question), zap.Error(rejectErr))
			res.Rejected = append(res.Rejected, Rejection{Challenge: c, Reason: rejectErr})
			continue
		}
		seen[questionKey(c.Question)] = true
		res.Accepted = append(res.Accepted, c)
		if len(res.Accepted) == req.Count {
			break
		}
	}

	g.logger.Info("challenges generated",
		zap.String("type", string(req.Type)),
		zap.Int("accepted", len(res.Accepted)),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

func (g *Generator) check(c *challenge.Challenge, req Request, seen map[string]bool) error {
	for _, v := range g.config.Validators {
		if verr := v.Validate(c, req); verr != nil {
			return verr
		}
	}
	if seen[questionKey(c.Question)] {
		return &ValidationError{Validator: "dedup", Message: "question already exists"}
	}
	return nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
