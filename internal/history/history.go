// Package history implements log, global-log, find, and status:
// read-only views over the commit DAG and the current working/staging
// state. None of these mutate the Repository.
package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
)

func entry(c *model.Commit, id string) string {
	return "===\n" + c.String(id) + "\n\n"
}

// Log walks repo's current branch by first-parent only, from HEAD to the
// initial commit, rendering each commit with model.Commit.String.
func Log(store *objstore.Store, repo *repostate.Repository) (string, error) {
	var b strings.Builder
	id := repo.HeadPointer
	for id != "" && id != model.NoParent {
		c, err := store.LoadCommit(id)
		if err != nil {
			return "", fmt.Errorf("history: Log: %w", err)
		}
		b.WriteString(entry(c, id))
		id = c.FirstParent()
		if id == model.NoParent {
			break
		}
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// GlobalLog renders every commit ever created in this repository, in
// repo.AllCommits order (newest first).
func GlobalLog(store *objstore.Store, repo *repostate.Repository) (string, error) {
	var b strings.Builder
	for _, id := range repo.AllCommits {
		c, err := store.LoadCommit(id)
		if err != nil {
			return "", fmt.Errorf("history: GlobalLog: %w", err)
		}
		b.WriteString(entry(c, id))
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// Find returns the ids (one per line) of every commit whose message
// contains query as a substring (case-sensitive). It is an error for no
// commit to match.
func Find(store *objstore.Store, repo *repostate.Repository, query string) (string, error) {
	var ids []string
	for _, id := range repo.AllCommits {
		c, err := store.LoadCommit(id)
		if err != nil {
			return "", fmt.Errorf("history: Find: %w", err)
		}
		if strings.Contains(c.Message, query) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", gitleterr.ErrNoCommitFoundWithMessage
	}
	return strings.Join(ids, "\n"), nil
}

// Status renders the five fixed sections. The last two sections
// (modifications not staged, untracked files) are populated too.
func Status(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository) (string, error) {
	var b strings.Builder

	b.WriteString("=== Branches ===\n")
	branches := make([]string, 0, len(repo.Heads))
	for name := range repo.Heads {
		branches = append(branches, name)
	}
	sort.Strings(branches)
	for _, name := range branches {
		if name == repo.OnBranch {
			b.WriteString("*" + name + "\n")
		} else {
			b.WriteString(name + "\n")
		}
	}

	var staged, removed []string
	for name := range repo.StagingAdd {
		staged = append(staged, name)
	}
	for name := range repo.StagingRM {
		removed = append(removed, name)
	}
	sort.Strings(staged)
	sort.Strings(removed)

	b.WriteString("\n=== Staged Files ===\n")
	for _, name := range staged {
		b.WriteString(name + "\n")
	}

	b.WriteString("\n=== Removed Files ===\n")
	for _, name := range removed {
		b.WriteString(name + "\n")
	}

	head, err := repo.HeadCommit(store)
	if err != nil {
		return "", fmt.Errorf("history: Status: %w", err)
	}

	modified, err := modificationsNotStaged(fs, store, repo, head)
	if err != nil {
		return "", fmt.Errorf("history: Status: %w", err)
	}
	b.WriteString("\n=== Modifications Not Staged For Commit ===\n")
	for _, name := range modified {
		b.WriteString(name + "\n")
	}

	untracked, err := untrackedFiles(fs, repo, head)
	if err != nil {
		return "", fmt.Errorf("history: Status: %w", err)
	}
	b.WriteString("\n=== Untracked Files ===\n")
	for _, name := range untracked {
		b.WriteString(name + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// modificationsNotStaged finds tracked-but-unstaged changes: files tracked
// by head that were deleted or edited in the working directory without
// being re-staged, and staged files that were since deleted or edited
// again in the working directory.
func modificationsNotStaged(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, head *model.Commit) ([]string, error) {
	var out []string
	for name, headBlob := range head.Tree {
		if _, staged := repo.StagingAdd[name]; staged {
			continue
		}
		if repo.StagingRM[name] {
			continue
		}
		exists, err := fs.Exists(name)
		if err != nil {
			return nil, err
		}
		if !exists {
			out = append(out, name+" (deleted)")
			continue
		}
		contents, err := fs.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if store.Digest(contents) != headBlob {
			out = append(out, name+" (modified)")
		}
	}
	for name, stagedBlob := range repo.StagingAdd {
		exists, err := fs.Exists(name)
		if err != nil {
			return nil, err
		}
		if !exists {
			out = append(out, name+" (deleted)")
			continue
		}
		contents, err := fs.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if store.Digest(contents) != stagedBlob {
			out = append(out, name+" (modified)")
		}
	}
	sort.Strings(out)
	return out, nil
}

// untrackedFiles lists working-directory files that are neither staged nor
// tracked in the head commit.
func untrackedFiles(fs *gitletfs.FS, repo *repostate.Repository, head *model.Commit) ([]string, error) {
	wdFiles, err := fs.ListFiles(".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range wdFiles {
		_, staged := repo.StagingAdd[name]
		_, removed := repo.StagingRM[name]
		_, tracked := head.Tree[name]
		if !staged && !removed && !tracked {
			out = append(out, name)
		}
	}
	return out, nil
}
