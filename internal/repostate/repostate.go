// Package repostate owns the single mutable Repository aggregate — HEAD,
// branches, staging area, and the all-commits index — and its persistence
// as one whole-state blob.
//
// Every mutating command loads a Repository, mutates it in memory, and
// calls Save before returning; there is no partial-application path:
// if Save is never reached, nothing observable changed.
package repostate

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/cmccarthy-dev/gitlet/internal/clock"
	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
)

// Layout of the persistence root, relative to the working directory.
const (
	GitletDir     = ".gitlet"
	ObjectsDir    = GitletDir + "/objects"
	RepoFile      = GitletDir + "/repo"
	DefaultBranch = "master"
	defaultAuthor = "Default author"
)

// Repository is the single mutable aggregate persisted as the "repo" blob.
// Field names are exported because encoding/gob requires it; this type is
// the wire format as well as the in-memory representation, matching the
// teacher's choice to gob-encode its INDEX/commit structs directly.
type Repository struct {
	Heads       map[string]string // branch name -> commit id
	SplitPoints map[string]string // branch name -> commit id where it was created
	HeadPointer string
	OnBranch    string
	StagingAdd  map[string]string // filename -> blob id
	StagingRM   map[string]bool   // set of filenames staged for removal
	AllCommits  []string          // newest first
	Author      string
	Remotes     map[string]string // remote name -> recorded local path
}

// ErrAlreadyInitialized is returned by Init when GitletDir already exists.
var ErrAlreadyInitialized = errors.New("repostate: already initialized")

// ErrNotInitialized is returned by Load when GitletDir or RepoFile is
// missing.
var ErrNotInitialized = errors.New("repostate: not initialized")

// Init creates a brand-new repository: the .gitlet directory tree, the
// initial commit, and the master branch pointing at it.
func Init(fs *gitletfs.FS, store *objstore.Store, clk clock.Clock) (*Repository, error) {
	exists, err := fs.IsDir(GitletDir)
	if err != nil {
		return nil, fmt.Errorf("repostate: Init: %w", err)
	}
	if exists {
		return nil, ErrAlreadyInitialized
	}
	if err := fs.Mkdir(GitletDir); err != nil {
		return nil, fmt.Errorf("repostate: Init: %w", err)
	}
	if err := fs.Mkdir(ObjectsDir); err != nil {
		return nil, fmt.Errorf("repostate: Init: %w", err)
	}

	initial := &model.Commit{
		Author:    defaultAuthor,
		Message:   "initial commit",
		Timestamp: model.Epoch,
		Parents:   []string{model.NoParent},
		Tree:      map[string]string{},
	}
	initialID, err := store.PutCommit(initial)
	if err != nil {
		return nil, fmt.Errorf("repostate: Init: %w", err)
	}

	repo := &Repository{
		Heads:       map[string]string{DefaultBranch: initialID},
		SplitPoints: map[string]string{},
		HeadPointer: initialID,
		OnBranch:    DefaultBranch,
		StagingAdd:  map[string]string{},
		StagingRM:   map[string]bool{},
		AllCommits:  []string{initialID},
		Author:      defaultAuthor,
		Remotes:     map[string]string{},
	}
	if err := Save(fs, repo); err != nil {
		return nil, fmt.Errorf("repostate: Init: %w", err)
	}
	return repo, nil
}

// Load reads and deserializes the repo blob.
func Load(fs *gitletfs.FS) (*Repository, error) {
	exists, err := fs.Exists(RepoFile)
	if err != nil {
		return nil, fmt.Errorf("repostate: Load: %w", err)
	}
	if !exists {
		return nil, ErrNotInitialized
	}
	raw, err := fs.ReadFile(RepoFile)
	if err != nil {
		return nil, fmt.Errorf("repostate: Load: %w", err)
	}
	var repo Repository
	dec := gob.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&repo); err != nil {
		return nil, fmt.Errorf("repostate: Load: decode repo blob: %w", err)
	}
	if repo.SplitPoints == nil {
		repo.SplitPoints = map[string]string{}
	}
	if repo.StagingAdd == nil {
		repo.StagingAdd = map[string]string{}
	}
	if repo.StagingRM == nil {
		repo.StagingRM = map[string]bool{}
	}
	if repo.Remotes == nil {
		repo.Remotes = map[string]string{}
	}
	return &repo, nil
}

// Save rewrites the repo blob as a whole, atomically.
func Save(fs *gitletfs.FS, repo *Repository) error {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(repo); err != nil {
		return fmt.Errorf("repostate: Save: encode repo blob: %w", err)
	}
	if err := fs.WriteFileAtomic(RepoFile, buf.Bytes()); err != nil {
		return fmt.Errorf("repostate: Save: %w", err)
	}
	return nil
}

// HeadCommit loads the commit object pointed to by r.HeadPointer.
func (r *Repository) HeadCommit(store *objstore.Store) (*model.Commit, error) {
	c, err := store.LoadCommit(r.HeadPointer)
	if err != nil {
		return nil, fmt.Errorf("repostate: HeadCommit: %w", err)
	}
	return c, nil
}

// StagingEmpty reports whether there is nothing staged for addition or
// removal — the precondition `commit` and `merge` both check.
func (r *Repository) StagingEmpty() bool {
	return len(r.StagingAdd) == 0 && len(r.StagingRM) == 0
}

// ClearStaging empties both staging sets.
func (r *Repository) ClearStaging() {
	r.StagingAdd = map[string]string{}
	r.StagingRM = map[string]bool{}
}
