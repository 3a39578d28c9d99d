package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmccarthy-dev/gitlet/internal/clock"
	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repo"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new, empty Gitlet repository",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("cli: init: %w", err)
			}
			fs := gitletfs.New(cwd)
			if _, err := repo.Init(fs, objstore.Digest(digest), clock.System{}); err != nil {
				return err
			}
			fmt.Printf("Initialized new Gitlet repository in %v\n", filepath.Join(cwd, repostate.GitletDir))
			return nil
		},
	}
}
