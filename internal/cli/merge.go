package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch name>",
		Short: "Merge a branch into the current branch",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			result, err := r.Merge(args[0])
			if err != nil {
				return err
			}
			if result.FastForwarded {
				fmt.Println("Current branch fast-forwarded.")
				return nil
			}
			if result.HadConflicts {
				fmt.Println("Encountered a merge conflict.")
			}
			return nil
		},
	}
}
