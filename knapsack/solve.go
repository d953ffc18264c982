// Package knapsack - unified dispatcher for the solvers.
//
// This file provides the canonical entry points:
//
//   - Pick / PickItems: size-based dispatch. Fewer than Options.Threshold items
//     go to the exact branch-and-bound search; larger inputs go to the genetic
//     heuristic. When an exact budget (WithExactTimeLimit) expires, Pick falls
//     back to the heuristic and keeps whichever answer is better.
//   - ExactSearch, ApproximateSearch, BisectingSearch, BreadthFirstSearch:
//     explicit algorithm selection over a weight table.
//   - Solve / SolveItems: route by Options.Algorithm.
//
// Every entry point runs the feasibility pre-check first: when all items fit,
// the full item set is returned and no algorithm runs.
//
// Map inputs are ordered by descending weight before solving; the order of
// equal weights then follows map iteration. The *Items variants take the order
// from the caller and are fully deterministic (given a seed for the heuristic).
package knapsack

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Pick returns the best combination of items whose total weight does not
// exceed limit, choosing the algorithm by item count.
//
// Errors: only on cancellation (wrapped ctx.Err()); the best answer found so
// far is returned alongside.
func Pick[T comparable](limit uint64, items map[T]uint64, opts ...Option) (Pack[T], error) {
	return pick(limit, itemsFromMap(items), buildOptions(opts))
}

// PickItems is Pick over an ordered slice. Duplicate keys yield ErrDuplicateItem.
func PickItems[T comparable](limit uint64, items []Item[T], opts ...Option) (Pack[T], error) {
	if err := validateItems(items); err != nil {
		return emptyPack[T](), err
	}

	return pick(limit, items, buildOptions(opts))
}

// ExactSearch always returns an optimal combination (branch-and-bound).
// Errors: ErrTimeLimit when WithExactTimeLimit expires, or a wrapped context
// error; the incumbent is returned in both cases.
func ExactSearch[T comparable](limit uint64, items map[T]uint64, opts ...Option) (Pack[T], error) {
	return run(limit, itemsFromMap(items), buildOptions(opts), BranchAndBound)
}

// ApproximateSearch runs the genetic heuristic. The answer is feasible but
// not guaranteed optimal.
func ApproximateSearch[T comparable](limit uint64, items map[T]uint64, opts ...Option) (Pack[T], error) {
	return run(limit, itemsFromMap(items), buildOptions(opts), Genetic)
}

// BisectingSearch runs the experimental bisection over the 2^N ordinal space.
// The answer is feasible but not guaranteed optimal.
func BisectingSearch[T comparable](limit uint64, items map[T]uint64, opts ...Option) (Pack[T], error) {
	return run(limit, itemsFromMap(items), buildOptions(opts), Bisecting)
}

// BreadthFirstSearch enumerates every feasible subset. Exact, but refuses
// more than MaxBreadthFirstItems items with ErrTooManyItems.
func BreadthFirstSearch[T comparable](limit uint64, items map[T]uint64, opts ...Option) (Pack[T], error) {
	return run(limit, itemsFromMap(items), buildOptions(opts), BreadthFirst)
}

// Solve routes to the algorithm chosen with WithAlgorithm (Auto by default).
func Solve[T comparable](limit uint64, items map[T]uint64, opts ...Option) (Pack[T], error) {
	return solve(limit, itemsFromMap(items), buildOptions(opts))
}

// SolveItems is Solve over an ordered slice. Duplicate keys yield ErrDuplicateItem.
func SolveItems[T comparable](limit uint64, items []Item[T], opts ...Option) (Pack[T], error) {
	if err := validateItems(items); err != nil {
		return emptyPack[T](), err
	}

	return solve(limit, items, buildOptions(opts))
}

// solve dispatches on cfg.Algorithm.
func solve[T comparable](limit uint64, items []Item[T], cfg Options) (Pack[T], error) {
	switch cfg.Algorithm {
	case Auto:
		return pick(limit, items, cfg)
	case BranchAndBound, Genetic, Bisecting, BreadthFirst:
		return run(limit, items, cfg, cfg.Algorithm)
	default:
		return emptyPack[T](), fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}
}

// pick is the size-based dispatcher.
func pick[T comparable](limit uint64, items []Item[T], cfg Options) (Pack[T], error) {
	if !needsSearch(limit, items) {
		return fullPack(items), nil
	}
	if len(items) >= cfg.Threshold {
		return run(limit, items, cfg, Genetic)
	}

	exact, err := run(limit, items, cfg, BranchAndBound)
	if !errors.Is(err, ErrTimeLimit) {
		return exact, err
	}

	cfg.Logger.Warn("exact search budget exhausted, falling back to genetic search",
		slog.Int("items", len(items)),
		slog.Duration("budget", cfg.ExactTimeLimit),
		slog.Uint64("incumbent", exact.Score),
	)
	approx, err := run(limit, items, cfg, Genetic)
	if exact.Compare(approx) > 0 {
		return exact, err
	}

	return approx, err
}

// run applies the pre-check and executes one algorithm.
func run[T comparable](limit uint64, items []Item[T], cfg Options, algo Algorithm) (Pack[T], error) {
	if !needsSearch(limit, items) {
		return fullPack(items), nil
	}
	if err := cfg.Ctx.Err(); err != nil {
		return emptyPack[T](), fmt.Errorf("knapsack: %v not started: %w", algo, err)
	}

	var (
		res   Pack[T]
		err   error
		start = time.Now()
	)
	switch algo {
	case BranchAndBound:
		res, err = branchAndBound(limit, items, cfg)
	case Genetic:
		res, err = genetic(limit, items, cfg)
	case Bisecting:
		res, err = bisecting(limit, items, cfg)
	case BreadthFirst:
		res, err = breadthFirst(limit, items, cfg)
	default:
		return emptyPack[T](), fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, algo)
	}

	cfg.Logger.Debug("knapsack solve",
		slog.String("algorithm", algo.String()),
		slog.Int("items", len(items)),
		slog.Uint64("limit", limit),
		slog.Uint64("score", res.Score),
		slog.Int("selected", res.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)

	return res, err
}
