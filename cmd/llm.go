package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/config"
	"github.com/abhisek/learnquest/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect challenge generation settings",
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved LLM provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		envFile, _ := cmd.Flags().GetString("env-file")
		cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		lc := llm.ConfigFromEnv().WithOverrides(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.Timeout)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provider:  %s\n", lc.Provider)
		fmt.Fprintf(out, "Model:     %s\n", lc.ModelID())
		fmt.Fprintf(out, "Timeout:   %s\n", lc.Timeout)
		if cost := llm.LookupCost(lc.ModelID()); cost != nil {
			fmt.Fprintf(out, "Pricing:   %s in / %s out per 1M tokens\n",
				formatCost(cost.InputPerMTok), formatCost(cost.OutputPerMTok))
		} else {
			fmt.Fprintln(out, "Pricing:   unknown")
		}
		if err := lc.Validate(); err != nil {
			fmt.Fprintf(out, "Status:    not ready (%v)\n", err)
		} else {
			fmt.Fprintln(out, "Status:    ready")
		}
		return nil
	},
}

var llmModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models with known pricing",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-32s  %10s  %10s  %12s\n", "Model", "In/MTok", "Out/MTok", "Batch est.")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, m := range llm.PricedModels() {
			c := llm.LookupCost(m)
			// One generate call is roughly 600 tokens in and 1500 out.
			fmt.Fprintf(out, "%-32s  %10s  %10s  %12s\n",
				truncate(m, 32), formatCost(c.InputPerMTok), formatCost(c.OutputPerMTok),
				formatCost(c.Cost(600, 1500)))
		}
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmConfigCmd)
	llmCmd.AddCommand(llmModelsCmd)
}
