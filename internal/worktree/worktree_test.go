package worktree

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/cmccarthy-dev/gitlet/internal/clock"
	"github.com/cmccarthy-dev/gitlet/internal/gitletfs"
	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
	"github.com/cmccarthy-dev/gitlet/internal/repostate"
	"github.com/cmccarthy-dev/gitlet/internal/stage"
)

func sha1Digest(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

func newTestRepo(t *testing.T) (*gitletfs.FS, *objstore.Store, *repostate.Repository) {
	t.Helper()
	fs := gitletfs.New(t.TempDir())
	store := objstore.New(fs, sha1Digest, repostate.ObjectsDir)
	repo, err := repostate.Init(fs, store, clock.System{})
	if err != nil {
		t.Fatal(err)
	}
	return fs, store, repo
}

func commitStaged(t *testing.T, store *objstore.Store, repo *repostate.Repository, message string) string {
	t.Helper()
	head, err := repo.HeadCommit(store)
	if err != nil {
		t.Fatal(err)
	}
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
		Message:   message,
		Timestamp: clock.System{}.Now(),
		Parents:   []string{repo.HeadPointer},
		Tree:      tree,
	}
	id, err := store.PutCommit(c)
	if err != nil {
		t.Fatal(err)
	}
	repo.Heads[repo.OnBranch] = id
	repo.HeadPointer = id
	repo.AllCommits = append([]string{id}, repo.AllCommits...)
	repo.ClearStaging()
	return id
}

func TestCheckoutFileRestoresFromHead(t *testing.T) {
	fs, store, repo := newTestRepo(t)
	if err := fs.WriteFile("a.txt", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := stage.Add(fs, store, repo, "a.txt"); err != nil {
		t.Fatal(err)
	}
	commitStaged(t, store, repo, "add a")

	if err := fs.WriteFile("a.txt", []byte("dirty")); err != nil {
		t.Fatal(err)
	}
	if err := CheckoutFile(fs, store, repo, "a.txt"); err != nil {
		t.Fatal(err)
	}
	got, err := fs.ReadFile("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v1" {
		t.Fatalf("a.txt = %q, want %q", got, "v1")
	}
}

func TestCheckoutFileNotInCommitFails(t *testing.T) {
	fs, store, repo := newTestRepo(t)
	if err := CheckoutFile(fs, store, repo, "nope.txt"); err == nil {
		t.Fatal("CheckoutFile(not tracked) succeeded, want error")
	}
}

func TestCheckoutBranchSwitchesFiles(t *testing.T) {
	fs, store, repo := newTestRepo(t)
	if err := fs.WriteFile("a.txt", []byte("master")); err != nil {
		t.Fatal(err)
	}
	if err := stage.Add(fs, store, repo, "a.txt"); err != nil {
		t.Fatal(err)
	}
	commitStaged(t, store, repo, "on master")

	repo.Heads["feature"] = repo.HeadPointer
	repo.OnBranch = "feature"
	if err := fs.WriteFile("a.txt", []byte("feature")); err != nil {
		t.Fatal(err)
	}
	if err := stage.Add(fs, store, repo, "a.txt"); err != nil {
		t.Fatal(err)
	}
	commitStaged(t, store, repo, "on feature")
	repo.OnBranch = "master"
	repo.HeadPointer = repo.Heads["master"]
	if err := fs.WriteFile("a.txt", []byte("master")); err != nil {
		t.Fatal(err)
	}

	if err := CheckoutBranch(fs, store, repo, "feature"); err != nil {
		t.Fatal(err)
	}
	if repo.OnBranch != "feature" {
		t.Fatalf("OnBranch = %q, want %q", repo.OnBranch, "feature")
	}
	got, err := fs.ReadFile("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "feature" {
		t.Fatalf("a.txt = %q, want %q", got, "feature")
	}
}

func TestCheckoutBranchAlreadyOnFails(t *testing.T) {
	fs, store, repo := newTestRepo(t)
	if err := CheckoutBranch(fs, store, repo, repo.OnBranch); err == nil {
		t.Fatal("CheckoutBranch(current branch) succeeded, want error")
	}
}

func TestUntrackedSafetyGateBlocksOverwrite(t *testing.T) {
	fs, store, repo := newTestRepo(t)
	head, err := repo.HeadCommit(store)
	if err != nil {
		t.Fatal(err)
	}
	blobID, err := store.PutBlob([]byte("incoming"))
	if err != nil {
		t.Fatal(err)
	}
	target := &model.Commit{Tree: map[string]string{"a.txt": blobID}}

	if err := fs.WriteFile("a.txt", []byte("untracked local work")); err != nil {
		t.Fatal(err)
	}

	if err := UntrackedSafetyGate(fs, store, head, target); err == nil {
		t.Fatal("UntrackedSafetyGate did not block clobbering an untracked file")
	}
}

func TestUntrackedSafetyGateAllowsTrackedOverwrite(t *testing.T) {
	fs, store, repo := newTestRepo(t)
	if err := fs.WriteFile("a.txt", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := stage.Add(fs, store, repo, "a.txt"); err != nil {
		t.Fatal(err)
	}
	commitStaged(t, store, repo, "add a")
	head, err := repo.HeadCommit(store)
	if err != nil {
		t.Fatal(err)
	}

	blobID, err := store.PutBlob([]byte("v2"))
	if err != nil {
		t.Fatal(err)
	}
	target := &model.Commit{Tree: map[string]string{"a.txt": blobID}}

	if err := UntrackedSafetyGate(fs, store, head, target); err != nil {
		t.Fatalf("UntrackedSafetyGate blocked a tracked file: %v", err)
	}
}
