package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/session"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stars, levels and timed-play statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		p, err := rt.progress().Current(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		results, err := rt.history().All(ctx)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		printStats(cmd.OutOrStdout(), p, results)
		return nil
	},
}

func printStats(w io.Writer, p progress.Progress, results []session.Result) {
	sep := strings.Repeat("─", 40)

	fmt.Fprintln(w, "Progress")
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "%-22s %d\n", "Total stars", p.TotalStars)
	fmt.Fprintf(w, "%-22s %d\n", "Math level", p.MathLevel)
	fmt.Fprintf(w, "%-22s %d\n", "Reading level", p.ReadingLevel)
	fmt.Fprintf(w, "%-22s %d\n", "Streak (days)", p.Streak)
	if !p.LastActive.IsZero() {
		fmt.Fprintf(w, "%-22s %s\n", "Last active", p.LastActive.Local().Format("2006-01-02 15:04"))
	}
	if len(p.SkillsMastered) > 0 {
		fmt.Fprintf(w, "%-22s %s\n", "Skills mastered", strings.Join(p.SkillsMastered, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Timed Play")
	fmt.Fprintln(w, sep)
	s := p.Stats
	fmt.Fprintf(w, "%-22s %d\n", "Challenges completed", s.TimedChallengesCompleted)
	fastest := "-"
	if s.FastestTime != nil {
		fastest = fmt.Sprintf("%.1fs", *s.FastestTime)
	}
	fmt.Fprintf(w, "%-22s %s\n", "Fastest answer", fastest)
	fmt.Fprintf(w, "%-22s %d\n", "Bonus stars earned", s.TotalBonusStarsEarned)
	fmt.Fprintf(w, "%-22s %d\n", "Achievements unlocked", s.AchievementsUnlocked)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sessions")
	fmt.Fprintln(w, sep)
	var timed, accuracy int
	for _, r := range results {
		if r.IsTimed {
			timed++
		}
		accuracy += r.Accuracy
	}
	fmt.Fprintf(w, "%-22s %d (%d timed)\n", "Played", len(results), timed)
	if len(results) > 0 {
		fmt.Fprintf(w, "%-22s %d%%\n", "Average accuracy", accuracy/len(results))
	}
}
