// Package knapsack_test provides testing helpers shared across *_test.go
// files in this package: a brute-force oracle, seeded instance generators and
// a Pack invariant checker.
package knapsack_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/picking/knapsack"
)

const (
	// seedDet is the deterministic seed used by every randomised test.
	seedDet = int64(20090601)

	// bruteMax is the largest instance the exhaustive oracle is asked to solve.
	bruteMax = 20
)

// bruteForce returns the maximum subset sum not exceeding limit by
// enumerating all 2^N subsets. Only for N <= bruteMax.
func bruteForce(limit uint64, items map[string]uint64) uint64 {
	var (
		keys = make([]string, 0, len(items))
		k    string
	)
	for k = range items {
		keys = append(keys, k)
	}

	var best uint64
	var mask, i int
	for mask = 0; mask < 1<<len(keys); mask++ {
		var sum uint64
		for i = range keys {
			if mask&(1<<i) != 0 {
				sum += items[keys[i]]
			}
		}
		if sum <= limit && sum > best {
			best = sum
		}
	}

	return best
}

// randomInstance returns n items with weights around 1.25*scale and a limit
// of n*scale, so roughly 80% of the total fits.
func randomInstance(r *rand.Rand, n int, scale int64) (uint64, map[string]uint64) {
	items := make(map[string]uint64, n)
	var i int
	for i = 0; i < n; i++ {
		items[fmt.Sprintf("i%02d", i)] = uint64(0.5 + r.Float64()*2.5*float64(scale))
	}

	return uint64(int64(n) * scale), items
}

// instanceItems converts a weight table into a deterministic slice ordered by key.
func instanceItems(n int, items map[string]uint64) []knapsack.Item[string] {
	out := make([]knapsack.Item[string], 0, n)
	var i int
	for i = 0; i < n; i++ {
		k := fmt.Sprintf("i%02d", i)
		out = append(out, knapsack.Item[string]{Key: k, Weight: items[k]})
	}

	return out
}

// requireValidPack asserts the Pack invariants: the score is the sum of the
// selected weights, no key repeats, every key exists, and the score fits.
func requireValidPack(t *testing.T, limit uint64, items map[string]uint64, p knapsack.Pack[string]) {
	t.Helper()
	seen := make(map[string]bool, len(p.Items))
	var sum uint64
	for _, k := range p.Items {
		w, ok := items[k]
		require.Truef(t, ok, "unknown item %q in %v", k, p)
		require.Falsef(t, seen[k], "duplicate item %q in %v", k, p)
		seen[k] = true
		sum += w
	}
	require.Equal(t, sum, p.Score, "score must equal the sum of selected weights")
	require.LessOrEqual(t, p.Score, limit, "score must not exceed the limit")
}

// Repeat runs fn count times as numbered subtests.
func Repeat(t *testing.T, count int, fn func(t *testing.T)) {
	t.Helper()
	var i int
	for i = 0; i < count; i++ {
		t.Run(fmt.Sprintf("run%03d", i), fn)
	}
}
