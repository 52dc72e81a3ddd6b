package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/achievement"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		unlockedOnly, _ := cmd.Flags().GetBool("unlocked")

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if _, _, err := rt.seed(ctx); err != nil {
			return err
		}
		cat := rt.catalog()
		var list []achievement.Achievement
		if unlockedOnly {
			list, err = cat.Unlocked(ctx)
		} else {
			list, err = cat.All(ctx)
		}
		if err != nil {
			return fmt.Errorf("load achievements: %w", err)
		}
		printAchievements(cmd.OutOrStdout(), list)
		return nil
	},
}

func printAchievements(w io.Writer, list []achievement.Achievement) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No achievements yet.")
		return
	}
	fmt.Fprintf(w, "%-3s %-18s %-12s %-9s %6s  %s\n", "", "Name", "State", "Progress", "Bonus", "Condition")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, a := range list {
		prog := "-"
		if target := a.EffectiveTarget(); target > 1 {
			prog = fmt.Sprintf("%d/%d", min(a.Progress, target), target)
		}
		fmt.Fprintf(w, "%-3s %-18s %-12s %-9s %6s  %s\n",
			a.Icon, truncate(a.Name, 18), a.State(), prog,
			fmt.Sprintf("+%d", a.BonusStars), a.Condition)
	}
}

func init() {
	achievementsCmd.Flags().Bool("unlocked", false, "Only show unlocked achievements")
}
