// Package stage implements the staging-area operations add and remove.
// Both mutate a *repostate.Repository in place; the caller is
// responsible for persisting it afterward.
package stage

import (
	"fmt"

	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/gitleterr"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
)

// Add stages filename.
//
//   - If the file is missing from the working directory, it's an error.
//   - If the file was staged for removal, un-remove it (no other action).
//   - If the computed blob id matches the head commit's tree entry, any
//     staged-add entry is discarded and the command is a no-op.
//   - Otherwise, the blob is stored and staging_add[filename] is set.
func Add(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, filename string) error {
	exists, err := fs.Exists(filename)
	if err != nil {
		return fmt.Errorf("stage: Add: %w", err)
	}
	if !exists {
		return gitleterr.ErrFileDoesNotExist
	}

	if repo.StagingRM[filename] {
		delete(repo.StagingRM, filename)
		return nil
	}

	contents, err := fs.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("stage: Add: %w", err)
	}
	blobID := store.Digest(contents)

	head, err := repo.HeadCommit(store)
	if err != nil {
		return fmt.Errorf("stage: Add: %w", err)
	}
	if headBlobID, tracked := head.Tree[filename]; tracked && headBlobID == blobID {
		delete(repo.StagingAdd, filename)
		return nil
	}

	if _, err := store.PutBlob(contents); err != nil {
		return fmt.Errorf("stage: Add: %w", err)
	}
	repo.StagingAdd[filename] = blobID
	return nil
}

// Remove implements `rm`.
func Remove(fs *gitletfs.FS, store *objstore.Store, repo *repostate.Repository, filename string) error {
	head, err := repo.HeadCommit(store)
	if err != nil {
		return fmt.Errorf("stage: Remove: %w", err)
	}
	headID, isTracked := head.Tree[filename]
	stagedID, isStaged := repo.StagingAdd[filename]

	diskExists, err := fs.Exists(filename)
	if err != nil {
		return fmt.Errorf("stage: Remove: %w", err)
	}

	if !diskExists {
		if !isTracked {
			return gitleterr.ErrFileDoesNotExist
		}
		repo.StagingRM[filename] = true
		delete(repo.StagingAdd, filename)
		return nil
	}

	contents, err := fs.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("stage: Remove: %w", err)
	}
	diskID := store.Digest(contents)

	switch {
	case isStaged && diskID == stagedID:
		delete(repo.StagingAdd, filename)
		return nil
	case isTracked && diskID == headID:
		repo.StagingRM[filename] = true
		delete(repo.StagingAdd, filename)
		if err := fs.RestrictedDelete(filename); err != nil {
			return fmt.Errorf("stage: Remove: %w", err)
		}
		return nil
	default:
		return gitleterr.ErrNoReasonToRemove
	}
}
