package cli

import (
	"github.com/spf13/cobra"

	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
)

// newCheckoutCmd implements all three checkout forms:
//
//	checkout -- <file>              (restore file from HEAD)
//	checkout <commit id> -- <file>   (restore file from a specific commit)
//	checkout <branch name>           (switch branches)
//
// cobra/pflag strip a literal "--" from args but record how many args
// preceded it in ArgsLenAtDash, which is exactly what's needed to tell form
// 1/2 (dash present) from form 3 (no dash) without reinventing flag
// parsing.
func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout [<commit id>] -- <file> | <branch name>",
		Short: "Restore a file, or switch branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()

			r, err := openRepo()
			if err != nil {
				return err
			}

			if dash == -1 {
				if len(args) != 1 {
					return gitleterr.ErrIncorrectOperands
				}
				return r.CheckoutBranch(args[0])
			}
			if dash == 0 {
				if len(args) != 1 {
					return gitleterr.ErrIncorrectOperands
				}
				return r.CheckoutFile(args[0])
			}
			if dash == 1 {
				if len(args) != 2 {
					return gitleterr.ErrIncorrectOperands
				}
				return r.CheckoutFileAtCommit(args[0], args[1])
			}
			return gitleterr.ErrIncorrectOperands
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <commit id>",
		Short: "Check out a commit and move the current branch's head to it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			return r.Reset(args[0])
		},
	}
}
