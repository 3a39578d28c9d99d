// Package worktree implements checkout (all three forms), reset, and the
// shared working-tree reconciliation steps they and fast-forward merge rely
// on.
package worktree

import (
	"errors"
	"fmt"

	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
)

// CheckoutFile restores filename from the head commit's tree into the
// working directory (checkout form 1). Does not touch staging or HEAD.
func CheckoutFile(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, filename string) error {
	head, err := repo.HeadCommit(store)
	if err != nil {
		return fmt.Errorf("worktree: CheckoutFile: %w", err)
	}
	return checkoutFileFromCommit(fs, store, head, filename)
}

// CheckoutFileAtCommit restores filename from the tree of the commit
// resolved from idPrefix (checkout form 2). Does not touch staging or HEAD.
func CheckoutFileAtCommit(fs *gitletfs.FS, store *objstore.Store, idPrefix, filename string) error {
	id, err := resolveOrUserErr(store, idPrefix)
	if err != nil {
		return err
	}
	c, err := store.LoadCommit(id)
	if err != nil {
		return gitleterr.ErrNoCommitWithID
	}
	return checkoutFileFromCommit(fs, store, c, filename)
}

func checkoutFileFromCommit(fs *gitletfs.FS, store *objstore.Store, c *model.Commit, filename string) error {
	blobID, ok := c.Tree[filename]
	if !ok {
		return gitleterr.ErrFileNotInCommit
	}
	contents, err := store.LoadBlob(blobID)
	if err != nil {
		return fmt.Errorf("worktree: checkoutFileFromCommit: %w", err)
	}
	if err := fs.WriteFile(filename, contents); err != nil {
		return fmt.Errorf("worktree: checkoutFileFromCommit: %w", err)
	}
	return nil
}

// CheckoutBranch switches to targetBranch, reconciling the working tree
// against its head commit (checkout form 3).
func CheckoutBranch(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, targetBranch string) error {
	if targetBranch == repo.OnBranch {
		return gitleterr.ErrAlreadyOnBranch
	}
	targetID, ok := repo.Heads[targetBranch]
	if !ok {
		return gitleterr.ErrNoSuchBranch
	}
	target, err := store.LoadCommit(targetID)
	if err != nil {
		return fmt.Errorf("worktree: CheckoutBranch: %w", err)
	}
	if err := Reconcile(fs, store, repo, targetID, target); err != nil {
		return err
	}
	repo.OnBranch = targetBranch
	return nil
}

// Reset checks out the commit resolved from idPrefix and moves the current
// branch's head to it.
func Reset(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, idPrefix string) error {
	id, err := resolveOrUserErr(store, idPrefix)
	if err != nil {
		return err
	}
	target, err := store.LoadCommit(id)
	if err != nil {
		return gitleterr.ErrNoCommitWithID
	}
	if err := Reconcile(fs, store, repo, id, target); err != nil {
		return err
	}
	repo.Heads[repo.OnBranch] = id
	return nil
}

// Reconcile is the shared working-tree reconciliation used by
// checkout-branch, reset, and fast-forward merge:
//
//  1. Untracked-safety gate: fail without making changes if a working-tree
//     file isn't tracked in the current head but would be overwritten by
//     the target tree.
//  2. Restricted-delete every file in head's tree but absent from target's.
//  3. Write every file in target's tree.
//  4. Point HEAD at targetID and clear staging.
func Reconcile(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, targetID string, target *model.Commit) error {
	head, err := repo.HeadCommit(store)
	if err != nil {
		return fmt.Errorf("worktree: Reconcile: %w", err)
	}

	if err := UntrackedSafetyGate(fs, store, head, target); err != nil {
		return err
	}

	for name := range head.Tree {
		if _, ok := target.Tree[name]; !ok {
			if err := fs.RestrictedDelete(name); err != nil {
				return fmt.Errorf("worktree: Reconcile: %w", err)
			}
		}
	}

	for name, blobID := range target.Tree {
		contents, err := store.LoadBlob(blobID)
		if err != nil {
			return fmt.Errorf("worktree: Reconcile: %w", err)
		}
		if err := fs.WriteFile(name, contents); err != nil {
			return fmt.Errorf("worktree: Reconcile: %w", err)
		}
	}

	repo.HeadPointer = targetID
	repo.ClearStaging()
	return nil
}

// UntrackedSafetyGate fails with gitleterr.ErrUntrackedFileInTheWay if any
// working-directory file would be silently clobbered: present on disk, not
// tracked in head (by on-disk-content-matches-tree semantics), and present
// in target's tree.
func UntrackedSafetyGate(fs *gitletfs.FS, store *objstore.Store, head, target *model.Commit) error {
	wdFiles, err := fs.ListFiles(".")
	if err != nil {
		return fmt.Errorf("worktree: UntrackedSafetyGate: %w", err)
	}
	for _, name := range wdFiles {
		contents, err := fs.ReadFile(name)
		if err != nil {
			return fmt.Errorf("worktree: UntrackedSafetyGate: %w", err)
		}
		tracked := model.FileTrackedInCommit(head, name, store.Digest, contents)
		_, wouldOverwrite := target.Tree[name]
		if !tracked && wouldOverwrite {
			return gitleterr.ErrUntrackedFileInTheWay
		}
	}
	return nil
}

// resolveOrUserErr resolves idPrefix and translates the internal
// "not found" sentinel into the exact user-facing message.
func resolveOrUserErr(store *objstore.Store, idPrefix string) (string, error) {
	id, err := store.ResolvePartial(idPrefix)
	if err != nil {
		if errors.Is(err, objstore.ErrNoSuchCommit) {
			return "", gitleterr.ErrNoCommitWithID
		}
		return "", fmt.Errorf("worktree: resolveOrUserErr: %w", err)
	}
	return id, nil
}
