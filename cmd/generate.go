package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/challengegen"
	"github.com/abhisek/learnquest/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new challenges with an LLM and store them",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		typ, _ := flags.GetString("type")
		skill, _ := flags.GetString("skill")
		difficulty, _ := flags.GetInt("difficulty")
		count, _ := flags.GetInt("count")
		dryRun, _ := flags.GetBool("dry-run")
		provider, _ := flags.GetString("provider")
		model, _ := flags.GetString("model")

		t, err := challenge.ParseType(typ)
		if err != nil {
			return err
		}
		req := challengegen.Request{Type: t, Skill: skill, Difficulty: difficulty, Count: count}
		if err := req.Validate(); err != nil {
			return err
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		lc := llm.ConfigFromEnv().
			WithOverrides(rt.cfg.LLM.Provider, rt.cfg.LLM.Model, rt.cfg.LLM.Timeout).
			WithOverrides(provider, model, 0)
		p, err := llm.NewProvider(ctx, lc, rt.logger.Named("llm"))
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		challenges := rt.challenges()
		gen := challengegen.New(p, challenges, challengegen.DefaultConfig(), rt.logger.Named("challengegen"))
		res, err := gen.Generate(ctx, req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printGenerated(out, res)
		if dryRun || len(res.Accepted) == 0 {
			return nil
		}
		added, err := challenges.Add(ctx, res.Accepted...)
		if err != nil {
			return fmt.Errorf("store challenges: %w", err)
		}
		rt.logger.Info("challenges stored", zap.Int("count", len(added)), zap.String("model", p.ModelID()))
		fmt.Fprintf(out, "Stored %d new challenges.\n", len(added))
		return nil
	},
}

func printGenerated(w io.Writer, res challengegen.Result) {
	for _, c := range res.Accepted {
		fmt.Fprintf(w, "✓ %s  [%s]\n", c.Question, c.CorrectAnswer)
	}
	for _, r := range res.Rejected {
		fmt.Fprintf(w, "✗ %s  (%v)\n", r.Challenge.Question, r.Reason)
	}
	fmt.Fprintf(w, "%d accepted, %d rejected\n", len(res.Accepted), len(res.Rejected))
}

func init() {
	f := generateCmd.Flags()
	f.StringP("type", "t", "math", "Challenge type or reading sub-mode")
	f.String("skill", "", "Skill the challenges practice (required)")
	f.IntP("difficulty", "d", 1, "Difficulty from 1 to 5")
	f.IntP("count", "n", 5, fmt.Sprintf("Number of challenges (max %d)", challengegen.MaxCount))
	f.Bool("dry-run", false, "Print the generated challenges without storing them")
	f.String("provider", "", "LLM provider: anthropic, openai, gemini or mock")
	f.String("model", "", "Model name for the selected provider")
	_ = generateCmd.MarkFlagRequired("skill")
}
