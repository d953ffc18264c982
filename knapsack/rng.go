// Package knapsack - RNG utilities for the genetic solver.
//
// Goals:
//   - Determinism: WithSeed(s) ⇒ identical populations for identical item order.
//   - Encapsulation: one factory decides between caller, seeded and global streams.
//   - Performance: O(1) helpers, no allocations in the generation loop.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Each solve owns its generator; a
//     generator passed via WithRand must not be shared across goroutines.
package knapsack

import (
	"math"
	"math/rand"
)

// rngFor returns the generator a solve should use.
// Policy: opts.Rand if set; otherwise a stream seeded with opts.Seed when
// Seeded; otherwise a fresh stream seeded from the auto-seeded global source.
//
// Complexity: O(1).
func rngFor(opts Options) *rand.Rand {
	if opts.Rand != nil {
		return opts.Rand
	}
	if opts.Seeded {
		return rand.New(rand.NewSource(opts.Seed))
	}

	return rand.New(rand.NewSource(rand.Int63()))
}

// DeriveSeed mixes a parent seed and a stream identifier into a new seed.
// Callers running repeated seeded solves (one per round, one per worker) use
// it to get independent but reproducible streams.
//
// SplitMix64 finalizer; small input changes give well-spread outputs.
// Constants are the canonical SplitMix64 increment and multipliers
// (Steele, Lea, Flood 2014; finalizer as published by Vigna).
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// coin is a fair coin flip.
func coin(r *rand.Rand) bool {
	return r.Float64()*2 < 1.0
}

// selectParent draws a rank in [0, n) skewed towards 0 (the fittest cell).
//
//	PDF: P(X = i)  = 2(n-1-i) / (n(n-1))
//	CDF: P(X <= i) = i(2n-1-i) / (n(n-1)) = c
//
// Inverting the CDF with b = 2n-1 and d = (b²-1)(1-c)+1 gives
// i = floor((b - sqrt(d)) / 2).
//
// Complexity: O(1).
func selectParent(n int, r *rand.Rand) int {
	if n <= 1 {
		return 0
	}
	b := float64(2*n - 1)
	c := r.Float64()
	d := (b*b-1)*(1-c) + 1
	k := int(math.Floor((b - math.Sqrt(d)) / 2))
	if k < 0 {
		return 0
	}
	if k >= n {
		return n - 1
	}

	return k
}
