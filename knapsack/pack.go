package knapsack

import (
	"fmt"
	"math/bits"
	"sort"
)

// NeedsSearch reports whether the items together exceed limit, i.e. whether
// any solver has work to do. When it returns false every item fits and all
// solvers answer with the full item set.
//
// The sum never wraps: a carry out of 64 bits means the total exceeds any limit.
//
// Complexity: O(N).
func NeedsSearch[T comparable](limit uint64, items map[T]uint64) bool {
	var (
		sum   uint64
		carry uint64
		w     uint64
	)
	for _, w = range items {
		sum, carry = bits.Add64(sum, w, 0)
		if carry != 0 {
			return true
		}
	}

	return sum > limit
}

// needsSearch is NeedsSearch over a canonical item slice.
func needsSearch[T comparable](limit uint64, items []Item[T]) bool {
	total, overflow := totalWeight(items)

	return overflow || total > limit
}

// totalWeight sums all weights, reporting a carry out of 64 bits.
func totalWeight[T comparable](items []Item[T]) (uint64, bool) {
	var (
		sum   uint64
		carry uint64
		i     int
	)
	for i = range items {
		sum, carry = bits.Add64(sum, items[i].Weight, 0)
		if carry != 0 {
			return 0, true
		}
	}

	return sum, false
}

// fullPack returns every item; only valid when needsSearch is false.
func fullPack[T comparable](items []Item[T]) Pack[T] {
	total, _ := totalWeight(items)
	keys := make([]T, len(items))
	var i int
	for i = range items {
		keys[i] = items[i].Key
	}

	return Pack[T]{Score: total, Items: keys}
}

// itemsFromMap converts a weight table into a slice ordered by descending
// weight. The relative order of equal weights follows map iteration and is
// therefore unspecified; use the slice entry points for full determinism.
func itemsFromMap[T comparable](items map[T]uint64) []Item[T] {
	out := make([]Item[T], 0, len(items))
	var (
		k T
		w uint64
	)
	for k, w = range items {
		out = append(out, Item[T]{Key: k, Weight: w})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })

	return out
}

// validateItems rejects duplicate keys in a caller-provided slice.
func validateItems[T comparable](items []Item[T]) error {
	seen := make(map[T]struct{}, len(items))
	var i int
	for i = range items {
		if _, dup := seen[items[i].Key]; dup {
			return fmt.Errorf("%w: %v", ErrDuplicateItem, items[i].Key)
		}
		seen[items[i].Key] = struct{}{}
	}

	return nil
}

// sortedByWeight returns a stable copy of items sorted by weight,
// descending when desc is true and ascending otherwise.
func sortedByWeight[T comparable](items []Item[T], desc bool) []Item[T] {
	out := make([]Item[T], len(items))
	copy(out, items)
	if desc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	}

	return out
}

// emptyPack is the degenerate answer: nothing selected.
func emptyPack[T comparable]() Pack[T] {
	return Pack[T]{Score: 0, Items: []T{}}
}
