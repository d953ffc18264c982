// Package knapsack - Branch-and-Bound (exact include/exclude search).
//
// branchAndBound enumerates subsets depth-first over the items sorted by
// descending weight, always trying "include item n" before "exclude item n".
//
// Rationale (succinct):
//  1. Heavy items first: an infeasible include is detected near the root, so
//     whole subtrees disappear early.
//  2. Feasibility prune: an include is only taken when the partial score stays
//     within the limit; every leaf reached is feasible.
//  3. Bound prune: any completion of a node scores at most
//     min(score + remaining weight, limit) with at most count + remaining items.
//     If that optimistic pair does not beat the incumbent under the Pack
//     ordering, the node is cut. The incumbent is replaced only on a strict
//     improvement, so among equal (score, count) leaves the first one met in
//     include-first order wins; the include branch wins every tie.
//  4. Soft budget: deadline and context checks every 4096 node events.
//
// Complexity:
//   - Worst case O(2^N) nodes; O(N) work per improving leaf.
//   - Memory: O(N) for the path, the incumbent and the suffix sums.
package knapsack

import (
	"context"
	"fmt"
	"math"
	"time"
)

// bbEngine holds all search data and policies for one exact solve.
type bbEngine[T comparable] struct {
	// Configuration / policy
	limit uint64
	n     int

	// Time budget and cancellation
	ctx         context.Context
	useDeadline bool
	deadline    time.Time
	steps       int   // sparse deadline checks counter
	stopErr     error // set once the search must unwind

	// Items in branching order (descending weight)
	keys   []T
	w      []uint64
	suffix []uint64 // suffix[i] = saturating sum of w[i:]

	// Current search state
	path  []int // indices of included items, in branching order
	score uint64

	// Current best incumbent
	best      []int
	bestScore uint64
}

// tick performs the rare deadline/context test (every 4096 node events).
func (e *bbEngine[T]) tick() bool {
	if e.stopErr != nil {
		return true
	}
	e.steps++
	if (e.steps & 4095) != 0 {
		return false
	}
	if err := e.ctx.Err(); err != nil {
		e.stopErr = fmt.Errorf("knapsack: branch-and-bound interrupted: %w", err)
		return true
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		e.stopErr = ErrTimeLimit
		return true
	}

	return false
}

// prepare sorts the items and precomputes the suffix sums.
func (e *bbEngine[T]) prepare(items []Item[T]) {
	sorted := sortedByWeight(items, true)
	e.n = len(sorted)
	e.keys = make([]T, e.n)
	e.w = make([]uint64, e.n)
	e.suffix = make([]uint64, e.n+1)

	var i int
	for i = 0; i < e.n; i++ {
		e.keys[i] = sorted[i].Key
		e.w[i] = sorted[i].Weight
	}
	for i = e.n - 1; i >= 0; i-- {
		e.suffix[i] = satAdd(e.suffix[i+1], e.w[i])
	}

	e.path = make([]int, 0, e.n)
	e.best = make([]int, 0, e.n)
}

// improves reports whether (score, count) strictly beats the incumbent.
func (e *bbEngine[T]) improves(score uint64, count int) bool {
	if score != e.bestScore {
		return score > e.bestScore
	}

	return count > len(e.best)
}

// record commits the current path as the new incumbent.
func (e *bbEngine[T]) record() {
	e.best = append(e.best[:0], e.path...)
	e.bestScore = e.score
}

// dfs explores item n with the current partial selection.
func (e *bbEngine[T]) dfs(n int) {
	if e.tick() {
		return
	}

	// Leaf: the selection is feasible by construction.
	if n == e.n {
		if e.improves(e.score, len(e.path)) {
			e.record()
		}

		return
	}

	// Optimistic completion; cut when it cannot strictly beat the incumbent.
	ubScore := satAdd(e.score, e.suffix[n])
	if ubScore > e.limit {
		ubScore = e.limit
	}
	if !e.improves(ubScore, len(e.path)+e.n-n) {
		return
	}

	// Include branch first (wins ties).
	if e.w[n] <= e.limit-e.score {
		e.path = append(e.path, n)
		e.score += e.w[n]
		e.dfs(n + 1)
		e.score -= e.w[n]
		e.path = e.path[:len(e.path)-1]
	}

	// Exclude branch.
	e.dfs(n + 1)
}

// pack converts the incumbent into a Pack.
func (e *bbEngine[T]) pack() Pack[T] {
	out := Pack[T]{Score: e.bestScore, Items: make([]T, len(e.best))}
	var i int
	for i = range e.best {
		out.Items[i] = e.keys[e.best[i]]
	}

	return out
}

// branchAndBound runs the exact search. The caller has already established
// that the items do not all fit.
//
// Errors: ErrTimeLimit when cfg.ExactTimeLimit expires, a wrapped context
// error on cancellation. In both cases the incumbent is returned as well.
func branchAndBound[T comparable](limit uint64, items []Item[T], cfg Options) (Pack[T], error) {
	var e bbEngine[T]
	e.limit = limit
	e.ctx = cfg.Ctx
	if cfg.ExactTimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(cfg.ExactTimeLimit)
	}
	e.prepare(items)

	e.dfs(0)

	return e.pack(), e.stopErr
}

// satAdd adds without wrapping past math.MaxUint64.
func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}

	return a + b
}
