package knapsack

import (
	"fmt"
)

// bfsEntry is one feasible subset in the breadth-first table, stored as a
// back-link to the subset it extends.
type bfsEntry struct {
	score uint64
	count int
	prev  int // index of the extended entry; -1 for the empty subset
	item  int // index of the added item; -1 for the empty subset
}

// breadthFirst grows a table of every feasible subset, one item at a time:
// for each item, every entry that can still take it spawns an extended entry.
// The answer is the greatest entry under the Pack ordering; among equals the
// one added last wins.
//
// Exact. Time and memory O(number of feasible subsets) ≤ O(2^N); refused
// above MaxBreadthFirstItems items with ErrTooManyItems.
func breadthFirst[T comparable](limit uint64, items []Item[T], cfg Options) (Pack[T], error) {
	if len(items) > MaxBreadthFirstItems {
		return emptyPack[T](), fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(items), MaxBreadthFirstItems)
	}

	table := []bfsEntry{{prev: -1, item: -1}}
	var (
		i, j int
		size int
		w    uint64
	)
	for i = range items {
		if err := cfg.Ctx.Err(); err != nil {
			return emptyPack[T](), fmt.Errorf("knapsack: breadth-first search interrupted: %w", err)
		}
		w = items[i].Weight
		size = len(table)
		for j = 0; j < size; j++ {
			if w <= limit-table[j].score {
				table = append(table, bfsEntry{
					score: table[j].score + w,
					count: table[j].count + 1,
					prev:  j,
					item:  i,
				})
			}
		}
	}

	best := 0
	for j = 1; j < len(table); j++ {
		if table[j].score > table[best].score ||
			(table[j].score == table[best].score && table[j].count >= table[best].count) {
			best = j
		}
	}

	// Walk the back-links; items come out last-added first.
	out := Pack[T]{Score: table[best].score, Items: make([]T, table[best].count)}
	pos := table[best].count - 1
	for j = best; table[j].prev >= 0; j = table[j].prev {
		out.Items[pos] = items[table[j].item].Key
		pos--
	}

	return out, nil
}
