package cli

import (
	"github.com/spf13/cobra"
)

// add-remote and rm-remote are local bookkeeping only: they record or forget a path under a name, and never dial out.
func newAddRemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-remote <name> <path>",
		Short: "Record a local path under a remote name",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			return r.AddRemote(args[0], args[1])
		},
	}
}

func newRemoveRemoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-remote <name>",
		Short: "Forget a recorded remote",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			return r.RemoveRemote(args[0])
		},
	}
}
