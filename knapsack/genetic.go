// Package knapsack - genetic heuristic for large item counts.
//
// The population holds N cells (N = item count). Every cell is a full
// include/exclude assignment with a cached score, and every cell is feasible:
// initialisation and both operators only toggle an item when the cell stays
// within the limit.
//
// One generation:
//  1. Crossover: each of the N cells is cloned together with a rank-biased
//     partner (selectParent); wherever the clones disagree and both may toggle,
//     a fair coin swaps the item between them. Both children join the population.
//  2. Mutation: every cell (parents and children) toggles each togglable item
//     with probability 1/N.
//  3. Selection: stable sort by descending score, truncate to N.
//
// The loop stops when the best and worst survivors score the same, when the
// generation bound is reached (logged at Warn), or when the context ends.
//
// Complexity: O(N²) per generation (3N cells × N items); generations unbounded
// in theory, bounded by Options.MaxGenerations in practice.
package knapsack

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
)

// cell is one candidate selection. Cells own their inclusion slices; clone
// before handing one to an operator that may mutate it.
type cell struct {
	in    []bool
	score uint64
}

// clone returns a deep copy.
func (c cell) clone() cell {
	in := make([]bool, len(c.in))
	copy(in, c.in)

	return cell{in: in, score: c.score}
}

// canToggle reports whether flipping item i keeps the cell feasible.
// Removing is always allowed; adding requires score + w <= limit.
func (c *cell) canToggle(i int, w, limit uint64) bool {
	return c.in[i] || w <= limit-c.score
}

// toggle flips item i and updates the cached score.
func (c *cell) toggle(i int, w uint64) {
	if c.in[i] {
		c.score -= w
	} else {
		c.score += w
	}
	c.in[i] = !c.in[i]
}

// gaEngine holds the population and parameters of one genetic solve.
type gaEngine[T comparable] struct {
	limit uint64
	n     int
	keys  []T
	w     []uint64
	rng   *rand.Rand
	pop   []cell
}

// newCell builds a random feasible cell: scan the items, and include each one
// that still fits on a fair coin flip.
func (g *gaEngine[T]) newCell() cell {
	c := cell{in: make([]bool, g.n)}
	var i int
	for i = 0; i < g.n; i++ {
		if g.w[i] > g.limit-c.score || !coin(g.rng) {
			continue
		}
		c.in[i] = true
		c.score += g.w[i]
	}

	return c
}

// sortPopulation orders cells by descending score; equal scores keep their order.
func (g *gaEngine[T]) sortPopulation() {
	sort.SliceStable(g.pop, func(i, j int) bool { return g.pop[i].score > g.pop[j].score })
}

// converged reports whether best and worst survivors have equal fitness.
func (g *gaEngine[T]) converged() bool {
	return g.pop[0].score == g.pop[len(g.pop)-1].score
}

// crossover appends two children for each of the current cells.
func (g *gaEngine[T]) crossover() {
	length := len(g.pop)
	var (
		i, j   int
		c1, c2 cell
	)
	for i = 0; i < length; i++ {
		c1 = g.pop[i].clone()
		c2 = g.pop[selectParent(g.n, g.rng)].clone()
		for j = 0; j < g.n; j++ {
			if c1.in[j] == c2.in[j] {
				continue
			}
			if !c1.canToggle(j, g.w[j], g.limit) || !c2.canToggle(j, g.w[j], g.limit) {
				continue
			}
			if g.rng.Float64() < 0.5 {
				c1.toggle(j, g.w[j])
				c2.toggle(j, g.w[j])
			}
		}
		g.pop = append(g.pop, c1, c2)
	}
}

// mutation flips each togglable item of every cell with probability 1/N.
func (g *gaEngine[T]) mutation() {
	nf := float64(g.n)
	var i, j int
	for i = range g.pop {
		c := &g.pop[i]
		for j = 0; j < g.n; j++ {
			if c.canToggle(j, g.w[j], g.limit) && g.rng.Float64()*nf < 1.0 {
				c.toggle(j, g.w[j])
			}
		}
	}
}

// pack converts the best surviving cell into a Pack.
func (g *gaEngine[T]) pack() Pack[T] {
	best := g.pop[0]
	out := Pack[T]{Score: best.score, Items: make([]T, 0, g.n)}
	var i int
	for i = 0; i < g.n; i++ {
		if best.in[i] {
			out.Items = append(out.Items, g.keys[i])
		}
	}

	return out
}

// genetic runs the heuristic. The caller has already established that the
// items do not all fit, so N >= 1.
//
// Errors: a wrapped context error on cancellation, returned with the best
// cell of the last completed generation.
func genetic[T comparable](limit uint64, items []Item[T], cfg Options) (Pack[T], error) {
	sorted := sortedByWeight(items, true)
	g := gaEngine[T]{
		limit: limit,
		n:     len(sorted),
		keys:  make([]T, len(sorted)),
		w:     make([]uint64, len(sorted)),
		rng:   rngFor(cfg),
	}
	var i int
	for i = range sorted {
		g.keys[i] = sorted[i].Key
		g.w[i] = sorted[i].Weight
	}

	// Initial population, capacity for parents plus two children each.
	g.pop = make([]cell, 0, 3*g.n)
	for i = 0; i < g.n; i++ {
		g.pop = append(g.pop, g.newCell())
	}
	g.sortPopulation()

	var gen int
	for gen = 0; !g.converged(); gen++ {
		if cfg.MaxGenerations > 0 && gen >= cfg.MaxGenerations {
			cfg.Logger.Warn("genetic search stopped before convergence",
				slog.Int("generations", gen),
				slog.Int("items", g.n),
				slog.Uint64("best", g.pop[0].score),
				slog.Uint64("worst", g.pop[len(g.pop)-1].score),
			)
			break
		}
		if err := cfg.Ctx.Err(); err != nil {
			return g.pack(), fmt.Errorf("knapsack: genetic search interrupted after %d generations: %w", gen, err)
		}

		g.crossover()
		g.mutation()
		g.sortPopulation()
		g.pop = g.pop[:g.n]
	}
	cfg.Logger.Debug("genetic search finished",
		slog.Int("generations", gen),
		slog.Int("items", g.n),
		slog.Uint64("score", g.pop[0].score),
	)

	return g.pack(), nil
}
