package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnquest/internal/app"
	"github.com/abhisek/learnquest/internal/challenge"
)

var playCmd = &cobra.Command{
	Use:   "play [subject]",
	Short: "Start a game, optionally jumping straight into a subject",
	Long: `Start a game. Without a subject the home menu opens.

Subjects: math, reading. Use --mode to pick a reading sub-mode
(phonics-matching, phonics-rhyming, word-building, story-mode).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timed, _ := cmd.Flags().GetBool("timed")
		mode, _ := cmd.Flags().GetString("mode")

		subject, err := resolveSubject(args, mode)
		if err != nil {
			return err
		}
		return runTUI(cmd, app.Options{Subject: subject, Timed: timed})
	},
}

// resolveSubject maps the subject argument and --mode to a challenge type.
// A mode alone implies reading.
func resolveSubject(args []string, mode string) (challenge.Type, error) {
	var subject challenge.Type
	if len(args) == 1 {
		t, err := challenge.ParseType(args[0])
		if err != nil {
			return "", err
		}
		subject = t
	}
	if mode == "" {
		return subject, nil
	}

	t, err := challenge.ParseType(mode)
	if err != nil {
		return "", err
	}
	if t.Subject() != challenge.TypeReading || t == challenge.TypeReading {
		return "", fmt.Errorf("--mode must be a reading sub-mode, got %q", mode)
	}
	if subject != "" && subject.Subject() != challenge.TypeReading {
		return "", fmt.Errorf("--mode %s does not apply to %s", mode, subject)
	}
	return t, nil
}

func init() {
	playCmd.Flags().Bool("timed", false, "Play with a timer and earn speed bonus stars")
	playCmd.Flags().String("mode", "", "Reading sub-mode")
}
