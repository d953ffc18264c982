package knapsack

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

const (
	// DefaultThreshold is the item count at which Pick switches from the exact
	// branch-and-bound search to the genetic heuristic. With the
	// remaining-weight bound the exact search stays fast below it.
	DefaultThreshold = 26

	// DefaultMaxGenerations bounds the genetic loop. Reaching it means the
	// population never collapsed to a single fitness, which is logged.
	DefaultMaxGenerations = 10000

	// MaxBreadthFirstItems caps BreadthFirstSearch; its table holds every
	// feasible subset, i.e. up to 2^N packs.
	MaxBreadthFirstItems = 24
)

// Options configures the solvers.
//
// Ctx            – cancellation for every solver; defaults to context.Background().
// Algorithm      – solver used by Solve; Auto routes like Pick.
// Threshold      – item count at or above which Pick uses the genetic solver.
// Seed/Seeded    – deterministic genetic stream when Seeded is true.
// Rand           – caller-owned generator; overrides Seed when non-nil.
// MaxGenerations – genetic generation bound; 0 means unbounded.
// ExactTimeLimit – soft budget for branch-and-bound; 0 disables it.
// Logger         – structured logger; defaults to slog.Default().
type Options struct {
	Ctx            context.Context
	Algorithm      Algorithm
	Threshold      int
	Seed           int64
	Seeded         bool
	Rand           *rand.Rand
	MaxGenerations int
	ExactTimeLimit time.Duration
	Logger         *slog.Logger
}

// Option represents a functional option for configuring the solvers.
type Option func(*Options)

// DefaultOptions returns the configuration used when no options are passed.
//
// Defaults:
//   - Ctx:            context.Background()
//   - Algorithm:      Auto
//   - Threshold:      DefaultThreshold
//   - Seeded:         false (non-deterministic genetic stream)
//   - MaxGenerations: DefaultMaxGenerations
//   - ExactTimeLimit: 0 (no budget)
//   - Logger:         slog.Default()
func DefaultOptions() Options {
	return Options{
		Ctx:            context.Background(),
		Algorithm:      Auto,
		Threshold:      DefaultThreshold,
		MaxGenerations: DefaultMaxGenerations,
		Logger:         slog.Default(),
	}
}

// WithContext sets the cancellation context. A nil context is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithAlgorithm selects the solver used by Solve and SolveItems.
func WithAlgorithm(a Algorithm) Option {
	return func(o *Options) {
		o.Algorithm = a
	}
}

// WithThreshold sets the exact/heuristic cutover used by Pick.
// Negative values panic with ErrBadThreshold.
func WithThreshold(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadThreshold.Error())
		}
		o.Threshold = n
	}
}

// WithSeed makes the genetic solver deterministic for a given input order.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
		o.Seeded = true
	}
}

// WithRand hands the genetic solver a caller-owned generator.
// *rand.Rand is not goroutine-safe; do not share it between concurrent solves.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// WithMaxGenerations bounds the genetic loop; 0 removes the bound.
// Negative values panic with ErrBadGenerations.
func WithMaxGenerations(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadGenerations.Error())
		}
		o.MaxGenerations = n
	}
}

// WithExactTimeLimit sets a soft wall-clock budget for branch-and-bound.
// When it expires ExactSearch returns its incumbent with ErrTimeLimit and
// Pick falls back to the genetic solver. Non-positive values disable it.
func WithExactTimeLimit(d time.Duration) Option {
	return func(o *Options) {
		if d < 0 {
			d = 0
		}
		o.ExactTimeLimit = d
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// buildOptions applies opts over DefaultOptions.
func buildOptions(opts []Option) Options {
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	return cfg
}
