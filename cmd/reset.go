package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all progress, sessions and achievements",
	Long: `Delete all player data. Achievements are re-seeded locked; challenges
are kept unless --all is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		all, _ := cmd.Flags().GetBool("all")

		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "This deletes all progress. Continue? [y/N] ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		colls := []string{store.Sessions, store.Progress, store.Achievements}
		if all {
			colls = append(colls, store.Challenges)
		}
		ctx := cmd.Context()
		for _, coll := range colls {
			n, err := clearCollection(ctx, rt.backend, coll)
			if err != nil {
				return err
			}
			rt.logger.Info("collection cleared", zap.String("collection", coll), zap.Int("deleted", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d %s records.\n", n, coll)
		}

		if _, _, err := rt.seed(ctx); err != nil {
			return err
		}
		return nil
	},
}

// clearCollection deletes every record of coll and returns how many went.
func clearCollection(ctx context.Context, b store.Backend, coll string) (int, error) {
	raws, err := b.Fetch(ctx, coll, store.Query{})
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", coll, err)
	}
	if len(raws) == 0 {
		return 0, nil
	}
	ids := make([]int, 0, len(raws))
	for _, raw := range raws {
		var rec struct {
			ID int `json:"Id"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return 0, fmt.Errorf("decode %s record: %w", coll, err)
		}
		ids = append(ids, rec.ID)
	}
	results, err := b.Delete(ctx, coll, ids)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", coll, err)
	}
	var deleted int
	for _, r := range results {
		if r.Success {
			deleted++
		}
	}
	if deleted != len(ids) {
		return deleted, fmt.Errorf("delete %s: %d of %d records failed", coll, len(ids)-deleted, len(ids))
	}
	return deleted, nil
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	resetCmd.Flags().Bool("all", false, "Also delete challenges")
}
