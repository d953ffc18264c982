// Package picking groups weighted items into packs that each fit a capacity,
// as heavy as possible, one pack after another. The classic use is splitting
// a directory of files across discs.
//
// 🚀 What is picking?
//
//	A small, dependency-light toolkit that brings together:
//		• Subset-sum optimisation: exact branch-and-bound, genetic heuristic,
//		  bisection and breadth-first enumeration
//		• Repeated packing: solve, remove the chosen items, solve again
//		• Directory sizing: recursive byte counts with bounded parallelism
//		• IEC size parsing and formatting ("700MB", "4.4 GiB")
//
// ✨ Why choose picking?
//
//   - Exact below a threshold, near-optimal above it, always feasible
//   - Reproducible: seed the heuristic and every run repeats itself
//   - Generic keys: any comparable type can be an item handle
//   - Cancellable: context and time budgets return the best answer so far
//
// Under the hood, everything is organized under these subpackages:
//
//	knapsack/     solvers, Pack result type, options and dispatch (Pick)
//	picker/       round-by-round packing with overflow handling
//	sizing/       directory scan and recursive sizes
//	units/        size limits: parsing ("700MB") and formatting
//	cmd/picking/  command-line front end
//
// Quick example:
//
//	items := map[string]uint64{"A": 10, "B": 20, "C": 30, "D": 40}
//	p, _ := knapsack.Pick(60, items)
//	fmt.Println(p) // (60:[C B A])
//
// See the package docs for the complete API.
package picking
