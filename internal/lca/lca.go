// Package lca computes the split point — the lowest common ancestor of two
// branch heads — over the commit DAG, including merge commits with two
// parents.
//
// The algorithm is specified precisely because the resulting commit id must
// be reproducible across implementations: two independent min-heaps seeded
// at each head, expanded one hop at a time, intersected after every round.
// Ties on distance-from-A are broken by insertion order (the ancestor
// enqueued first wins), which is the only tie-break that keeps merge commit
// ids stable.
package lca

import (
	"container/heap"

	"github.com/cmccarthy-dev/gitlet/internal/model"
	"github.com/cmccarthy-dev/gitlet/internal/objstore"
)

// NoCommonAncestor is returned when the two heads share no ancestor, which
// cannot happen in a well-formed single-root repository but is reported
// rather than assumed away.
const NoCommonAncestor = "none"

// item is one entry in a distance-ordered priority queue: a commit id at a
// given distance from the seed head, annotated with the global sequence
// number it was enqueued at so that equal-distance ties resolve to
// insertion order instead of map/heap iteration order.
type item struct {
	id   string
	dist int
	seq  int
}

type queue []item

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	last := old[n-1]
	*q = old[:n-1]
	return last
}

// visited records, per side, the smallest distance seen for each commit id
// and the insertion sequence number at which that smallest distance was
// first recorded — the latter is what the final tie-break reads.
type visited struct {
	dist map[string]int
	seq  map[string]int
}

func newVisited() *visited {
	return &visited{dist: map[string]int{}, seq: map[string]int{}}
}

// record stores (id, dist, seq) if dist improves on (or is the first record
// for) id.
func (v *visited) record(id string, dist, seq int) {
	if cur, ok := v.dist[id]; !ok || dist < cur {
		v.dist[id] = dist
		v.seq[id] = seq
	}
}

// SplitPoint finds the split point of headA and headB by walking the commit
// graph via load, which returns the commit stored under an id; every parent
// in its Parents list (both parents for a merge commit) is followed.
func SplitPoint(load func(id string) (*model.Commit, error), headA, headB string) (string, error) {
	seq := 0
	qa := &queue{{id: headA, dist: 0, seq: seq}}
	seq++
	qb := &queue{{id: headB, dist: 0, seq: seq}}
	seq++
	heap.Init(qa)
	heap.Init(qb)

	va := newVisited()
	vb := newVisited()

	enqueueParents := func(q *queue, id string, dist int) error {
		c, err := load(id)
		if err != nil {
			return err
		}
		for _, p := range c.Parents {
			if p == "" || p == model.NoParent {
				continue
			}
			heap.Push(q, item{id: p, dist: dist + 1, seq: seq})
			seq++
		}
		return nil
	}

	for qa.Len() > 0 || qb.Len() > 0 {
		if qa.Len() > 0 {
			popped := heap.Pop(qa).(item)
			va.record(popped.id, popped.dist, popped.seq)
			if err := enqueueParents(qa, popped.id, popped.dist); err != nil {
				return "", err
			}
		}
		if qb.Len() > 0 {
			popped := heap.Pop(qb).(item)
			vb.record(popped.id, popped.dist, popped.seq)
			if err := enqueueParents(qb, popped.id, popped.dist); err != nil {
				return "", err
			}
		}

		if best, ok := intersectBest(va, vb); ok {
			return best, nil
		}
	}
	return NoCommonAncestor, nil
}

// intersectBest returns the id common to both visited sets with the
// smallest dist_a, breaking ties by the earliest seq_a.
func intersectBest(va, vb *visited) (string, bool) {
	best := ""
	bestDist := 0
	bestSeq := 0
	found := false
	for id, da := range va.dist {
		if _, ok := vb.dist[id]; !ok {
			continue
		}
		sa := va.seq[id]
		if !found || da < bestDist || (da == bestDist && sa < bestSeq) {
			best, bestDist, bestSeq, found = id, da, sa, true
		}
	}
	return best, found
}

// commitLoader adapts an objstore.Store to the load signature SplitPoint
// expects, so callers don't need to write the closure themselves.
func commitLoader(store *objstore.Store) func(string) (*model.Commit, error) {
	return func(id string) (*model.Commit, error) {
		return store.LoadCommit(id)
	}
}

// Find computes the split point of headA and headB using store to resolve
// commit ids to their parent lists.
func Find(store *objstore.Store, headA, headB string) (string, error) {
	return SplitPoint(commitLoader(store), headA, headB)
}
