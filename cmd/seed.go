package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in challenges and achievements into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		challenges, achievements, err := rt.seed(cmd.Context())
		if err != nil {
			return err
		}
		if challenges+achievements == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Store already seeded.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d challenges and %d achievements.\n", challenges, achievements)
		return nil
	},
}
