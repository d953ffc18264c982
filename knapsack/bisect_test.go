package knapsack_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/picking/knapsack"
)

func TestBisectingSearch_FeasibleAndBoundedByOptimum(t *testing.T) {
	r := rand.New(rand.NewSource(seedDet))
	var n int
	for n = 1; n <= 16; n++ {
		limit, items := randomInstance(r, n, 1+r.Int63n(60))
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			p, err := knapsack.BisectingSearch(limit, items)
			require.NoError(t, err)
			requireValidPack(t, limit, items, p)
			require.LessOrEqual(t, p.Score, bruteForce(limit, items))
		})
	}
}

func TestBisectingSearch_ExactHit(t *testing.T) {
	// Ascending order A,B,C,D; the first probe u = 0b1000 selects D alone,
	// and D weighs exactly the limit.
	items := map[string]uint64{"A": 1, "B": 2, "C": 4, "D": 8}
	p, err := knapsack.BisectingSearch(8, items)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), p.Score)
	assert.Equal(t, []string{"D"}, p.Items)
}

func TestBisectingSearch_PowersOfTwoAreMonotone(t *testing.T) {
	// With weights 1,2,4,… the ordinal equals the subset weight, so the
	// bisection is a true binary search and finds the optimum.
	items := map[string]uint64{}
	var i int
	for i = 0; i < 10; i++ {
		items[fmt.Sprintf("p%d", i)] = 1 << i
	}
	var limit uint64
	for limit = 1; limit < 1023; limit += 37 {
		p, err := knapsack.BisectingSearch(limit, items)
		require.NoError(t, err)
		require.Equal(t, limit, p.Score)
	}
}

func TestBisectingSearch_BeyondSixtyFourItems(t *testing.T) {
	// 2^100 ordinals, only representable with arbitrary precision. Equal
	// weights against an unreachable limit keep the walk in the upper half
	// at every level, and each lower probe holds 99 items.
	items := map[string]uint64{}
	var i int
	for i = 0; i < 100; i++ {
		items[fmt.Sprintf("b%03d", i)] = 5
	}
	limit := uint64(497)

	p, err := knapsack.BisectingSearch(limit, items)
	require.NoError(t, err)
	requireValidPack(t, limit, items, p)
	assert.Equal(t, uint64(495), p.Score)
	assert.Len(t, p.Items, 99)
}

func TestBisectingSearch_ExactHitEndsSearch(t *testing.T) {
	// Every subset of 20 items weighs exactly the limit. The first descent
	// into the lower halves reaches one after about 20 calls; the upper
	// halves left open above it would otherwise be walked exhaustively.
	items := map[string]uint64{}
	var i int
	for i = 0; i < 40; i++ {
		items[fmt.Sprintf("e%02d", i)] = 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := knapsack.BisectingSearch(40, items, knapsack.WithContext(ctx))
	require.NoError(t, err)
	requireValidPack(t, 40, items, p)
	assert.Equal(t, uint64(40), p.Score)
	assert.Len(t, p.Items, 20)
}

func TestBisectingSearch_FortyRandomItems(t *testing.T) {
	r := rand.New(rand.NewSource(seedDet + 9))
	limit, items := randomInstance(r, 40, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	p, err := knapsack.BisectingSearch(limit, items, knapsack.WithContext(ctx))
	require.NoError(t, err, "bisection must finish well before the deadline")
	requireValidPack(t, limit, items, p)
}
