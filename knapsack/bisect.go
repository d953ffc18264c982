// Package knapsack - experimental bisection over the subset ordinal space.
//
// Items are sorted by ascending weight and item i is bound to bit i of an
// ordinal x in [0, 2^N). The search bisects that range without enumerating it:
//
//	call(b, e):
//	    b == e-1              → b
//	    u = b + (e-b)/2, l = u-1
//	    eval(l) == limit      → l
//	    eval(u) == limit      → u
//	    limit < eval(l)       → candidate call(b, u)
//	    limit > eval(u)       → candidate call(u, e)
//	    no candidate          → l
//	    otherwise             → best candidate (feasible first, then score, then bit count)
//
// Subset weight is not monotone in x, so this is a heuristic walk, not a
// binary search: it can miss the optimum and its raw answer can be
// infeasible. Every probed ordinal is therefore scored, and the best feasible
// probe is returned. Use ExactSearch when the optimum matters.
//
// Ordinals are math/big integers; N is not limited to 63 items.
//
// Complexity: O(N²) per root-to-leaf walk; both halves can qualify, so the
// worst case is exponential. A probe weighing exactly the limit is optimal
// and ends the whole search. Cancellation is checked every 1024 calls.
package knapsack

import (
	"context"
	"fmt"
	"math/big"
)

// bisector holds the state of one bisecting solve.
type bisector[T comparable] struct {
	limit uint64
	n     int
	keys  []T
	w     []uint64

	ctx     context.Context
	calls   int
	stopErr error
	hit     bool // a probe weighed exactly limit; the search unwinds

	// best feasible ordinal probed so far
	best      *big.Int
	bestScore uint64
	bestCount int
}

// ordinalValue is an evaluated ordinal: total weight and selected-bit count.
type ordinalValue struct {
	score    uint64
	count    int
	feasible bool
}

// better orders values: feasible first, then score, then count.
func (v ordinalValue) better(o ordinalValue) bool {
	if v.feasible != o.feasible {
		return v.feasible
	}
	if v.score != o.score {
		return v.score > o.score
	}

	return v.count > o.count
}

// eval sums the weights of the set bits and records feasible improvements.
func (s *bisector[T]) eval(x *big.Int) ordinalValue {
	var (
		v ordinalValue
		i int
	)
	for i = 0; i < s.n; i++ {
		if x.Bit(i) == 1 {
			v.score = satAdd(v.score, s.w[i])
			v.count++
		}
	}
	v.feasible = v.score <= s.limit
	if v.score == s.limit {
		s.hit = true
	}
	if v.feasible && (v.score > s.bestScore || (v.score == s.bestScore && v.count > s.bestCount)) {
		s.best.Set(x)
		s.bestScore = v.score
		s.bestCount = v.count
	}

	return v
}

// tick reports whether the search must unwind: after an exact hit, or when
// the context ends (checked every 1024 calls).
func (s *bisector[T]) tick() bool {
	if s.hit || s.stopErr != nil {
		return true
	}
	s.calls++
	if (s.calls & 1023) != 0 {
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.stopErr = fmt.Errorf("knapsack: bisecting search interrupted: %w", err)
		return true
	}

	return false
}

// call bisects [b, e).
func (s *bisector[T]) call(b, e *big.Int) *big.Int {
	if s.tick() {
		return b
	}

	last := new(big.Int).Sub(e, bigOne)
	if b.Cmp(last) == 0 {
		return b
	}

	// u = b + (e-b)/2, l = u-1
	u := new(big.Int).Sub(e, b)
	u.Rsh(u, 1).Add(u, b)
	l := new(big.Int).Sub(u, bigOne)

	lv := s.eval(l)
	uv := s.eval(u)
	if lv.score == s.limit {
		return l
	}
	if uv.score == s.limit {
		return u
	}

	var (
		found  bool
		winner *big.Int
		wv     ordinalValue
	)
	if s.limit < lv.score {
		winner = s.call(b, u)
		if s.hit {
			return winner
		}
		wv = s.eval(winner)
		found = true
	}
	if s.limit > uv.score {
		hi := s.call(u, e)
		hv := s.eval(hi)
		if !found || hv.better(wv) {
			winner, wv = hi, hv
		}
		found = true
	}
	if !found {
		return l
	}

	return winner
}

var bigOne = big.NewInt(1)

// bisecting runs the experimental bisection. The caller has already
// established that the items do not all fit.
func bisecting[T comparable](limit uint64, items []Item[T], cfg Options) (Pack[T], error) {
	sorted := sortedByWeight(items, false)
	s := bisector[T]{
		limit: limit,
		n:     len(sorted),
		keys:  make([]T, len(sorted)),
		w:     make([]uint64, len(sorted)),
		ctx:   cfg.Ctx,
		best:  new(big.Int),
	}
	var i int
	for i = range sorted {
		s.keys[i] = sorted[i].Key
		s.w[i] = sorted[i].Weight
	}

	begin := new(big.Int)
	end := new(big.Int).Lsh(bigOne, uint(s.n))
	s.eval(s.call(begin, end))

	out := Pack[T]{Score: s.bestScore, Items: make([]T, 0, s.bestCount)}
	for i = 0; i < s.n; i++ {
		if s.best.Bit(i) == 1 {
			out.Items = append(out.Items, s.keys[i])
		}
	}

	return out, s.stopErr
}
