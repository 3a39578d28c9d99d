// Package cli builds the gitlet command tree on top of github.com/spf13/cobra
// and adapts its error handling to the project's exit-0, print-to-stdout
// contract for recognized failures.
package cli

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmccarthy-dev/gitlet/internal/clock"
	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repo"
)

var rootCmd = &cobra.Command{
	Use:           "gitlet",
	Short:         "A local, single-user version-control system",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newCommitCmd(),
		newRemoveCmd(),
		newLogCmd(),
		newGlobalLogCmd(),
		newFindCmd(),
		newStatusCmd(),
		newCheckoutCmd(),
		newBranchCmd(),
		newRemoveBranchCmd(),
		newResetCmd(),
		newMergeCmd(),
		newAuthorCmd(),
		newAddRemoteCmd(),
		newRemoveRemoteCmd(),
	)
}

// Execute runs the command tree rooted at rootCmd. A recognized
// (*gitleterr.UserError) failure prints its message to stdout and returns
// nil — the caller always exits 0 for those. Anything else is an
// unspecified internal failure and is returned for the caller to report
// and exit non-zero on.
func Execute() error {
	if len(os.Args) == 1 {
		fmt.Println(gitleterr.ErrNoCommand.Error())
		return nil
	}
	if !knownCommand(os.Args[1]) {
		fmt.Println(gitleterr.ErrUnknownCommand.Error())
		return nil
	}

	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var userErr *gitleterr.UserError
	if errors.As(err, &userErr) {
		fmt.Println(userErr.Error())
		return nil
	}
	return err
}

func knownCommand(name string) bool {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// digest is the content-addressing function the whole core is parameterized
// over. Gitlet uses SHA-1.
func digest(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// openRepo loads the repository rooted at the working directory, using the
// real system clock for any new commit timestamps.
func openRepo() (*repo.Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cli: openRepo: %w", err)
	}
	fs := gitletfs.New(cwd)
	return repo.Open(fs, objstore.Digest(digest), clock.System{})
}

// exactArgs returns a cobra.PositionalArgs that reports
// "Incorrect operands." instead of cobra's generic usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return gitleterr.ErrIncorrectOperands
		}
		return nil
	}
}
