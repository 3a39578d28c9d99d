package cli

import (
	"github.com/spf13/cobra"
)

// author updates the repository's recorded author and succeeds silently.
func newAuthorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "author <name>",
		Short: "Set the author name recorded on future commits",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			return r.SetAuthor(args[0])
		},
	}
}
