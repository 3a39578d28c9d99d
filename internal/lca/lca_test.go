package lca

import (
	"fmt"
	"testing"

	"github.com/cmccarthy-dev/gitlet/internal/model"
)

// fakeGraph is an in-memory commit graph keyed by id, for testing the
// split-point algorithm without touching the object store.
type fakeGraph map[string]*model.Commit

func (g fakeGraph) load(id string) (*model.Commit, error) {
	c, ok := g[id]
	if !ok {
		return nil, fmt.Errorf("fakeGraph: no commit %q", id)
	}
	return c, nil
}

func linear(g fakeGraph, n int) []string {
	ids := make([]string, n)
	ids[0] = "c0"
	g[ids[0]] = &model.Commit{Parents: []string{model.NoParent}}
	for i := 1; i < n; i++ {
		ids[i] = fmt.Sprintf("c%d", i)
		g[ids[i]] = &model.Commit{Parents: []string{ids[i-1]}}
	}
	return ids
}

func TestSplitPointLinearHistory(t *testing.T) {
	g := fakeGraph{}
	ids := linear(g, 5)
	// headB is an ancestor of headA: split point should be headB itself.
	got, err := SplitPoint(g.load, ids[4], ids[2])
	if err != nil {
		t.Fatal(err)
	}
	if got != ids[2] {
		t.Fatalf("SplitPoint = %q, want %q", got, ids[2])
	}
}

func TestSplitPointDivergentBranches(t *testing.T) {
	g := fakeGraph{}
	ids := linear(g, 3) // c0 <- c1 <- c2
	// Branch A: c2 <- a1 <- a2
	g["a1"] = &model.Commit{Parents: []string{ids[2]}}
	g["a2"] = &model.Commit{Parents: []string{"a1"}}
	// Branch B: c2 <- b1
	g["b1"] = &model.Commit{Parents: []string{ids[2]}}

	got, err := SplitPoint(g.load, "a2", "b1")
	if err != nil {
		t.Fatal(err)
	}
	if got != ids[2] {
		t.Fatalf("SplitPoint = %q, want %q", got, ids[2])
	}
}

func TestSplitPointThroughMergeCommit(t *testing.T) {
	g := fakeGraph{}
	ids := linear(g, 2) // c0 <- c1
	g["a1"] = &model.Commit{Parents: []string{ids[1]}}
	g["b1"] = &model.Commit{Parents: []string{ids[1]}}
	g["m"] = &model.Commit{Parents: []string{"a1", "b1"}}
	g["a2"] = &model.Commit{Parents: []string{"a1"}}

	// m's ancestry includes both branches; split with a2 should land on a1,
	// the most recent commit common to both.
	got, err := SplitPoint(g.load, "m", "a2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a1" {
		t.Fatalf("SplitPoint = %q, want %q", got, "a1")
	}
}

func TestSplitPointSameHead(t *testing.T) {
	g := fakeGraph{}
	ids := linear(g, 3)
	got, err := SplitPoint(g.load, ids[2], ids[2])
	if err != nil {
		t.Fatal(err)
	}
	if got != ids[2] {
		t.Fatalf("SplitPoint(x, x) = %q, want %q", got, ids[2])
	}
}
