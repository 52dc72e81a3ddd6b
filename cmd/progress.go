package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/challenge"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Adjust levels and mastered skills",
}

var progressLevelCmd = &cobra.Command{
	Use:   "level <subject> <level>",
	Short: "Set the level for math or reading",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, err := challenge.ParseType(args[0])
		if err != nil {
			return err
		}
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[1], err)
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		if _, err := rt.progress().UpdateLevel(cmd.Context(), subject, level); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s level set to %d\n", subject.Subject().DisplayName(), level)
		return nil
	},
}

var progressMasterCmd = &cobra.Command{
	Use:   "master <skill>",
	Short: "Mark a skill as mastered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.progress().AddMasteredSkill(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d skills mastered\n", len(p.SkillsMastered))
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressLevelCmd)
	progressCmd.AddCommand(progressMasterCmd)
}
