package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		subject, _ := cmd.Flags().GetString("subject")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		h := rt.history()
		var results []session.Result
		if subject != "" {
			t, perr := challenge.ParseType(subject)
			if perr != nil {
				return perr
			}
			results, err = h.BySubject(ctx, string(t))
			if err == nil && limit > 0 && len(results) > limit {
				results = results[:limit]
			}
		} else {
			results, err = h.Recent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		printHistory(cmd.OutOrStdout(), results)
		return nil
	},
}

func printHistory(w io.Writer, results []session.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No sessions played yet.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-16s  %-26s  %-5s  %5s  %4s  %5s  %7s\n",
		"ID", "Played", "Subject", "Timed", "Stars", "Acc", "Bonus", "Avg")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, r := range results {
		timed := "no"
		if r.IsTimed {
			timed = "yes"
		}
		avg := "-"
		if r.AverageTimeSeconds != nil {
			avg = fmt.Sprintf("%.1fs", *r.AverageTimeSeconds)
		}
		fmt.Fprintf(w, "%-5d  %-16s  %-26s  %-5s  %5d  %3d%%  %5d  %7s\n",
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			truncate(r.Subject.DisplayName(), 26),
			timed,
			r.StarsEarned,
			r.Accuracy,
			r.BonusStars,
			avg,
		)
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.Flags().StringP("subject", "s", "", "Only show sessions of this subject or mode")
}
