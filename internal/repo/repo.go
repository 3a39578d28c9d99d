// Package repo exposes one method per CLI command, gluing together the
// object store, repository state, staging, history, worktree, and merge
// packages. Each method takes the repository by exclusive reference; every
// method that changes repository state persists it before returning.
package repo

import (
	"fmt"

	"github.com/cmccarthy-dev/gitlet/internal/clock"
	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
	"github.com/cmccarthy-dev/gitlet/internal/history"
	"github.com/cmccarthy-dev/gitlet/internal/merge"
	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
	"github.com/cmccarthy-dev/gitlet/internal/stage"
	"github.com/cmccarthy-dev/gitlet/internal/worktree"
)

// Repo bundles a loaded repository's collaborators: the working directory,
// the object store, the persisted state, and the clock used for new commit
// timestamps.
type Repo struct {
	FS    *gitletfs.FS
	Store *objstore.Store
	State *repostate.Repository
	Clock clock.Clock
}

// Init creates a new repository rooted at fs and returns it opened.
func Init(fs *gitletfs.FS, digest objstore.Digest, clk clock.Clock) (*Repo, error) {
	store := objstore.New(fs, digest, repostate.ObjectsDir)
	state, err := repostate.Init(fs, store, clk)
	if err != nil {
		if err == repostate.ErrAlreadyInitialized {
			return nil, gitleterr.ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("repo: Init: %w", err)
	}
	return &Repo{FS: fs, Store: store, State: state, Clock: clk}, nil
}

// Open loads an existing repository rooted at fs.
func Open(fs *gitletfs.FS, digest objstore.Digest, clk clock.Clock) (*Repo, error) {
	store := objstore.New(fs, digest, repostate.ObjectsDir)
	state, err := repostate.Load(fs)
	if err != nil {
		if err == repostate.ErrNotInitialized {
			return nil, gitleterr.ErrNotInitialized
		}
		return nil, fmt.Errorf("repo: Open: %w", err)
	}
	return &Repo{FS: fs, Store: store, State: state, Clock: clk}, nil
}

func (r *Repo) save() error {
	if err := repostate.Save(r.FS, r.State); err != nil {
		return fmt.Errorf("repo: save: %w", err)
	}
	return nil
}

// Add stages filename.
func (r *Repo) Add(filename string) error {
	if err := stage.Add(r.FS, r.Store, r.State, filename); err != nil {
		return err
	}
	return r.save()
}

// Remove unstages or stages filename for removal.
func (r *Repo) Remove(filename string) error {
	if err := stage.Remove(r.FS, r.Store, r.State, filename); err != nil {
		return err
	}
	return r.save()
}

// Commit creates a new commit from the current staging area atop HEAD.
func (r *Repo) Commit(message string) error {
	if message == "" {
		return gitleterr.ErrEmptyCommitMessage
	}
	if r.State.StagingEmpty() {
		return gitleterr.ErrNoChangesToCommit
	}

	head, err := r.State.HeadCommit(r.Store)
	if err != nil {
		return fmt.Errorf("repo: Commit: %w", err)
	}

	tree := make(map[string]string, len(head.Tree))
	for name, blob := range head.Tree {
		tree[name] = blob
	}
	for name, blob := range r.State.StagingAdd {
		tree[name] = blob
	}
	for name := range r.State.StagingRM {
		delete(tree, name)
	}

	c := &model.Commit{
		Author:    r.State.Author,
		Message:   message,
		Timestamp: r.Clock.Now(),
		Parents:   []string{r.State.HeadPointer},
		Tree:      tree,
	}
	id, err := r.Store.PutCommit(c)
	if err != nil {
		return fmt.Errorf("repo: Commit: %w", err)
	}

	r.State.Heads[r.State.OnBranch] = id
	r.State.HeadPointer = id
	r.State.AllCommits = append([]string{id}, r.State.AllCommits...)
	r.State.ClearStaging()
	return r.save()
}

// Log returns the first-parent history of the current branch.
func (r *Repo) Log() (string, error) {
	return history.Log(r.Store, r.State)
}

// GlobalLog returns every commit ever made in this repository.
func (r *Repo) GlobalLog() (string, error) {
	return history.GlobalLog(r.Store, r.State)
}

// Find returns the ids of every commit whose message contains query.
func (r *Repo) Find(query string) (string, error) {
	return history.Find(r.Store, r.State, query)
}

// Status renders the five status sections.
func (r *Repo) Status() (string, error) {
	return history.Status(r.FS, r.Store, r.State)
}

// CheckoutFile restores filename from HEAD (checkout form 1).
func (r *Repo) CheckoutFile(filename string) error {
	if err := worktree.CheckoutFile(r.FS, r.Store, r.State, filename); err != nil {
		return err
	}
	return nil
}

// CheckoutFileAtCommit restores filename from the commit resolved from
// idPrefix (checkout form 2).
func (r *Repo) CheckoutFileAtCommit(idPrefix, filename string) error {
	if err := worktree.CheckoutFileAtCommit(r.FS, r.Store, idPrefix, filename); err != nil {
		return err
	}
	return nil
}

// CheckoutBranch switches to targetBranch (checkout form 3).
func (r *Repo) CheckoutBranch(targetBranch string) error {
	if err := worktree.CheckoutBranch(r.FS, r.Store, r.State, targetBranch); err != nil {
		return err
	}
	return r.save()
}

// Branch creates a new branch pointing at HEAD.
func (r *Repo) Branch(name string) error {
	if _, exists := r.State.Heads[name]; exists {
		return gitleterr.ErrBranchAlreadyExists
	}
	r.State.Heads[name] = r.State.HeadPointer
	r.State.SplitPoints[name] = r.State.HeadPointer
	return r.save()
}

// RemoveBranch deletes a branch pointer without touching its commits.
func (r *Repo) RemoveBranch(name string) error {
	if name == r.State.OnBranch {
		return gitleterr.ErrCannotRemoveCurrentBranch
	}
	if _, exists := r.State.Heads[name]; !exists {
		return gitleterr.ErrNoSuchBranch
	}
	delete(r.State.Heads, name)
	delete(r.State.SplitPoints, name)
	return r.save()
}

// Reset checks out the commit resolved from idPrefix and moves the current
// branch's head to it.
func (r *Repo) Reset(idPrefix string) error {
	if err := worktree.Reset(r.FS, r.Store, r.State, idPrefix); err != nil {
		return err
	}
	return r.save()
}

// Merge merges otherBranch into the current branch. The returned
// merge.Result reports whether the merge was a fast-forward and whether it
// produced conflicts; a fast-forward merge never conflicts.
func (r *Repo) Merge(otherBranch string) (merge.Result, error) {
	result, err := merge.Merge(r.FS, r.Store, r.State, r.Clock, otherBranch)
	if err != nil {
		return merge.Result{}, err
	}
	if err := r.save(); err != nil {
		return merge.Result{}, err
	}
	return result, nil
}

// SetAuthor updates the repository's recorded author and succeeds silently.
func (r *Repo) SetAuthor(name string) error {
	r.State.Author = name
	return r.save()
}

// AddRemote records a local path under a remote name; no network I/O ever
// occurs.
func (r *Repo) AddRemote(name, path string) error {
	if _, exists := r.State.Remotes[name]; exists {
		return gitleterr.ErrRemoteAlreadyExists
	}
	r.State.Remotes[name] = path
	return r.save()
}

// RemoveRemote forgets a recorded remote's path.
func (r *Repo) RemoveRemote(name string) error {
	if _, exists := r.State.Remotes[name]; !exists {
		return gitleterr.ErrNoSuchRemote
	}
	delete(r.State.Remotes, name)
	return r.save()
}
