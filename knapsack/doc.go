// Package knapsack selects, from a table of weighted items, the subset whose
// total weight is as large as possible without exceeding a capacity limit
// (single-constraint subset-sum maximisation).
//
// It includes four solvers over map[T]uint64 (T is any comparable handle):
//
//   - ExactSearch: depth-first branch-and-bound, heaviest items first.
//     Always optimal; O(2^N) worst case, pruning makes typical inputs far cheaper.
//   - ApproximateSearch: genetic algorithm with rank-biased crossover.
//     Feasible and near-optimal, O(N²) per generation.
//   - BisectingSearch: experimental bisection over the 2^N subset ordinals.
//     Feasible but not exact, since subset weight is not monotone in the ordinal.
//   - BreadthFirstSearch: enumerates every feasible subset.
//     Exact; memory O(2^N), refused above MaxBreadthFirstItems.
//
// Pick is the front door: it returns every item at once when they all fit,
// runs ExactSearch below Options.Threshold items (DefaultThreshold = 26) and
// ApproximateSearch otherwise.
//
// Results are Pack values: Score is the total weight of Items, and packs
// order by score and then by item count (Pack.Compare).
//
// Calls share no state; any number of solves may run concurrently. Each
// genetic solve owns its generator: pass WithSeed for reproducible runs.
// WithContext and WithExactTimeLimit bound the running time; on interruption
// the best answer found so far is returned together with the error.
package knapsack
