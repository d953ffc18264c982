package knapsack

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the knapsack solvers.
var (
	// ErrDuplicateItem indicates that a slice of items carries the same key twice.
	ErrDuplicateItem = errors.New("knapsack: duplicate item key")

	// ErrTimeLimit is returned when a positive exact-search budget expires.
	// The accompanying Pack is the best incumbent found before the deadline.
	ErrTimeLimit = errors.New("knapsack: time limit exceeded")

	// ErrUnsupportedAlgorithm indicates an Algorithm value Solve does not know.
	ErrUnsupportedAlgorithm = errors.New("knapsack: unsupported algorithm")

	// ErrBadThreshold indicates a negative exact/heuristic cutover.
	ErrBadThreshold = errors.New("knapsack: threshold must be non-negative")

	// ErrBadGenerations indicates a negative generation bound.
	ErrBadGenerations = errors.New("knapsack: max generations must be non-negative")

	// ErrTooManyItems is returned by BreadthFirstSearch above MaxBreadthFirstItems.
	ErrTooManyItems = errors.New("knapsack: too many items for breadth-first enumeration")
)

// Algorithm selects the solver used by Solve.
type Algorithm int

const (
	// Auto lets the dispatcher choose by item count (see Pick).
	Auto Algorithm = iota

	// BranchAndBound is the exact depth-first include/exclude search.
	BranchAndBound

	// Genetic is the population-based heuristic; never guaranteed optimal.
	Genetic

	// Bisecting is the experimental bisection over the 2^N ordinal space.
	// It is neither exact nor monotone; kept for comparison only.
	Bisecting

	// BreadthFirst enumerates every feasible subset level by level.
	// Exact, but memory grows as O(2^N).
	BreadthFirst
)

// String returns the algorithm name used in logs and CLI output.
func (a Algorithm) String() string {
	switch a {
	case Auto:
		return "auto"
	case BranchAndBound:
		return "branch-and-bound"
	case Genetic:
		return "genetic"
	case Bisecting:
		return "bisecting"
	case BreadthFirst:
		return "breadth-first"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Item is one weighted handle. Slices of Item fix the canonical order that
// every solver uses to break ties between equal weights.
type Item[T comparable] struct {
	Key    T
	Weight uint64
}

// Pack is the result of a solve: the selected keys and their total weight.
//
// Invariants for every Pack produced by this package:
//   - Score == sum of the weights of Items.
//   - Items holds no duplicates.
//   - Score <= limit, unless every item fits, in which case Items is the whole
//     input and Score its total (still <= limit).
type Pack[T comparable] struct {
	// Score is the total weight of Items.
	Score uint64

	// Items lists the selected keys in the solver's canonical order.
	Items []T
}

// Len returns the number of selected items.
func (p Pack[T]) Len() int { return len(p.Items) }

// Compare orders packs by score, then by item count. It returns a positive
// number when p is better than q, negative when worse and zero on a tie.
func (p Pack[T]) Compare(q Pack[T]) int {
	switch {
	case p.Score > q.Score:
		return 1
	case p.Score < q.Score:
		return -1
	case len(p.Items) > len(q.Items):
		return 1
	case len(p.Items) < len(q.Items):
		return -1
	default:
		return 0
	}
}

// String renders the pack as (score:[a b c]).
func (p Pack[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	fmt.Fprintf(&sb, "%d:[", p.Score)
	for i, it := range p.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, it)
	}
	sb.WriteString("])")

	return sb.String()
}
