// Package merge implements the three-way merge engine: eight-case whole-file
// resolution, conflict marker synthesis, fast-forward detection, and merge
// commit creation.
//
// Conflicts are produced at whole-file granularity; there is no line-level
// merge here.
package merge

import (
	"fmt"
	"sort"

	"github.com/cmccarthy-dev/gitlet/internal/clock"
	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
	"github.com/cmccarthy-dev/gitlet/internal/lca"
	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
	"github.com/cmccarthy-dev/gitlet/internal/stage"
	"github.com/cmccarthy-dev/gitlet/internal/worktree"
)

// Result reports how Merge resolved.
type Result struct {
	FastForwarded bool
	HadConflicts  bool
}

// Merge merges otherBranch into repo's current branch, mutating repo in
// place. Preconditions are checked in a fixed order, so "first failing
// condition wins" is deterministic.
func Merge(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, clk clock.Clock, otherBranch string) (Result, error) {
	if !repo.StagingEmpty() {
		return Result{}, gitleterr.ErrUncommittedChanges
	}
	otherID, ok := repo.Heads[otherBranch]
	if !ok {
		return Result{}, gitleterr.ErrNoSuchBranchToMerge
	}
	if otherBranch == repo.OnBranch {
		return Result{}, gitleterr.ErrCannotMergeSelf
	}

	currentID := repo.HeadPointer
	splitID, err := lca.Find(store, currentID, otherID)
	if err != nil {
		return Result{}, fmt.Errorf("merge: Merge: %w", err)
	}

	if splitID == otherID {
		return Result{}, gitleterr.ErrGivenBranchIsAncestor
	}

	other, err := store.LoadCommit(otherID)
	if err != nil {
		return Result{}, fmt.Errorf("merge: Merge: %w", err)
	}

	if splitID == currentID {
		if err := worktree.Reconcile(fs, store, repo, otherID, other); err != nil {
			return Result{}, err
		}
		repo.Heads[repo.OnBranch] = otherID
		return Result{FastForwarded: true}, nil
	}

	head, err := repo.HeadCommit(store)
	if err != nil {
		return Result{}, fmt.Errorf("merge: Merge: %w", err)
	}
	if err := worktree.UntrackedSafetyGate(fs, store, head, other); err != nil {
		return Result{}, err
	}

	split, err := store.LoadCommit(splitID)
	if err != nil {
		return Result{}, fmt.Errorf("merge: Merge: %w", err)
	}

	hadConflicts, err := resolveFiles(fs, store, repo, split, head, other)
	if err != nil {
		return Result{}, fmt.Errorf("merge: Merge: %w", err)
	}

	if err := commitMerge(store, repo, clk, head, currentID, otherID, otherBranch, repo.OnBranch); err != nil {
		return Result{}, fmt.Errorf("merge: Merge: %w", err)
	}

	return Result{HadConflicts: hadConflicts}, nil
}

// resolveFiles applies the eight-case decision table to every
// filename appearing in split, current (head), or other's tree, mutating
// the working directory and repo's staging area as it goes.
//
// Each of the eight documented cases maps onto one of five branches once
// "is filename present" is folded into an optional-equality comparison
// (absent == absent): cases 1/2 are "S equals C"; case 3 folds into "S
// equals O, S unequal C" (which also covers 8a); case 4 folds together with
// the redundant case 7 into "C equals O"; case 5 folds together with the
// redundant case 8c into the remaining conflict branch; case 8b folds into
// case 2 because "S absent, C absent" is S-equals-C.
func resolveFiles(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, split, head, other *model.Commit) (bool, error) {
	names := unionKeys(split.Tree, head.Tree, other.Tree)
	hadConflicts := false

	for _, name := range names {
		s, hasS := split.Tree[name]
		c, hasC := head.Tree[name]
		o, hasO := other.Tree[name]

		sEqC := optionalEqual(s, hasS, c, hasC)
		sEqO := optionalEqual(s, hasS, o, hasO)
		cEqO := optionalEqual(c, hasC, o, hasO)

		switch {
		case sEqC && !hasO:
			// Case 1: unchanged since split, removed on the other side.
			if err := fs.RestrictedDelete(name); err != nil {
				return false, err
			}
			repo.StagingRM[name] = true
			delete(repo.StagingAdd, name)

		case sEqC && hasO && !cEqO:
			// Case 2 (and the degenerate case 8b: added only on the other
			// side, where S absent == C absent satisfies sEqC).
			contents, err := store.LoadBlob(o)
			if err != nil {
				return false, err
			}
			if err := fs.WriteFile(name, contents); err != nil {
				return false, err
			}
			if _, err := store.PutBlob(contents); err != nil {
				return false, err
			}
			repo.StagingAdd[name] = o
			delete(repo.StagingRM, name)

		case !sEqC && sEqO:
			// Case 3 (and the degenerate case 8a): only current changed.
			// Leave the working tree and staging area as they are.

		case cEqO:
			// Case 4 (and the redundant case 7): both sides agree, or both
			// removed it. Leave as-is.

		default:
			// Case 5 (and the redundant case 8c): true conflict.
			var currentContent, otherContent []byte
			if hasC {
				b, err := store.LoadBlob(c)
				if err != nil {
					return false, err
				}
				currentContent = b
			}
			if hasO {
				b, err := store.LoadBlob(o)
				if err != nil {
					return false, err
				}
				otherContent = b
			}
			if len(currentContent) == 0 && len(otherContent) == 0 {
				continue
			}
			conflictBody := conflictMarkerBody(currentContent, otherContent)
			if err := fs.WriteFile(name, conflictBody); err != nil {
				return false, err
			}
			if err := stage.Add(fs, store, repo, name); err != nil {
				return false, err
			}
			hadConflicts = true
		}
	}

	return hadConflicts, nil
}

// conflictMarkerBody synthesizes the conflict marker bytes for a file.
func conflictMarkerBody(current, other []byte) []byte {
	var buf []byte
	buf = append(buf, "<<<<<<< HEAD\n"...)
	buf = append(buf, current...)
	buf = append(buf, "=======\n"...)
	buf = append(buf, other...)
	buf = append(buf, ">>>>>>>\n"...)
	return buf
}

// commitMerge builds and stores the merge commit, mirroring the regular
// commit algorithm: new tree = head's tree with staging_add applied
// and staging_rm removed.
func commitMerge(store *objstore.Store, repo *repostate.Repository, clk clock.Clock, head *model.Commit, currentID, otherID, otherBranch, currentBranch string) error {
	tree := make(map[string]string, len(head.Tree))
	for name, blob := range head.Tree {
		tree[name] = blob
	}
	for name, blob := range repo.StagingAdd {
		tree[name] = blob
	}
	for name := range repo.StagingRM {
		delete(tree, name)
	}

	c := &model.Commit{
		Author:    repo.Author,
		Message:   fmt.Sprintf("Merged %s into %s.", otherBranch, currentBranch),
		Timestamp: clk.Now(),
		Parents:   []string{currentID, otherID},
		Tree:      tree,
	}
	id, err := store.PutCommit(c)
	if err != nil {
		return err
	}
	repo.Heads[repo.OnBranch] = id
	repo.HeadPointer = id
	repo.AllCommits = append([]string{id}, repo.AllCommits...)
	repo.ClearStaging()
	return nil
}

func optionalEqual(a string, aok bool, b string, bok bool) bool {
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	return a == b
}

func unionKeys(trees ...map[string]string) []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range trees {
		for name := range t {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
