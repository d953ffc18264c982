// Package picker splits a set of weighted items into successive packs, each
// as heavy as possible without exceeding a capacity: solve, remove the
// selected items, solve again, until nothing is left.
//
// Items heavier than the capacity can never be packed; they are set aside at
// construction and reported by Overflow.
//
// A Picker is not safe for concurrent use. Stream hands it to a background
// goroutine; do not call other methods until the channel is closed.
package picker

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/katalvlaran/picking/knapsack"
)

// ErrDone is returned by Next once every candidate has been packed.
var ErrDone = errors.New("picker: no candidates left")

// Round is one pack produced by Stream. Index starts at 1.
// A Round carrying Err is the last one sent.
type Round[T comparable] struct {
	Index int
	Pack  knapsack.Pack[T]
	Err   error
}

// Picker holds the candidates still to be packed.
type Picker[T comparable] struct {
	limit     uint64
	remaining []knapsack.Item[T]
	overflow  []knapsack.Item[T]

	opts []knapsack.Option
	cfg  knapsack.Options
	log  *slog.Logger

	round int
}

// New partitions items: weights up to limit become candidates, heavier ones
// overflow. The slice order is kept and breaks ties between equal weights.
//
// opts are knapsack options applied to every round. With knapsack.WithSeed,
// round i runs with knapsack.DeriveSeed(seed, i), so a whole run is
// reproducible while rounds draw independent streams.
//
// Errors: knapsack.ErrDuplicateItem when a key repeats.
func New[T comparable](limit uint64, items []knapsack.Item[T], opts ...knapsack.Option) (*Picker[T], error) {
	seen := make(map[T]struct{}, len(items))
	p := &Picker[T]{
		limit: limit,
		opts:  opts,
		cfg:   knapsack.DefaultOptions(),
	}
	var opt knapsack.Option
	for _, opt = range opts {
		opt(&p.cfg)
	}
	p.log = p.cfg.Logger

	var it knapsack.Item[T]
	for _, it = range items {
		if _, dup := seen[it.Key]; dup {
			return nil, fmt.Errorf("%w: %v", knapsack.ErrDuplicateItem, it.Key)
		}
		seen[it.Key] = struct{}{}
		if it.Weight > limit {
			p.overflow = append(p.overflow, it)
		} else {
			p.remaining = append(p.remaining, it)
		}
	}

	return p, nil
}

// FromMap is New over a weight table; candidates are ordered by descending
// weight.
func FromMap[T comparable](limit uint64, items map[T]uint64, opts ...knapsack.Option) (*Picker[T], error) {
	list := make([]knapsack.Item[T], 0, len(items))
	for k, w := range items {
		list = append(list, knapsack.Item[T]{Key: k, Weight: w})
	}
	sortItems(list)

	return New(limit, list, opts...)
}

// Limit returns the capacity of every pack.
func (p *Picker[T]) Limit() uint64 { return p.limit }

// Done reports whether every candidate has been packed.
func (p *Picker[T]) Done() bool { return len(p.remaining) == 0 }

// Rounds returns how many packs Next has produced.
func (p *Picker[T]) Rounds() int { return p.round }

// Remaining returns a copy of the candidates not packed yet.
func (p *Picker[T]) Remaining() []knapsack.Item[T] {
	return append([]knapsack.Item[T](nil), p.remaining...)
}

// Overflow returns a copy of the items heavier than the limit.
func (p *Picker[T]) Overflow() []knapsack.Item[T] {
	return append([]knapsack.Item[T](nil), p.overflow...)
}

// Next packs one round and removes its items from the candidates.
//
// A round is never empty while candidates remain: if the solver returns
// nothing, the heaviest remaining candidate (which fits by construction)
// forms the round on its own.
//
// Errors: ErrDone when no candidates remain; a wrapped solver error (e.g.
// cancellation), in which case nothing is removed.
func (p *Picker[T]) Next() (knapsack.Pack[T], error) {
	if p.Done() {
		return knapsack.Pack[T]{}, ErrDone
	}

	opts := p.opts
	if p.cfg.Seeded {
		opts = append(append(make([]knapsack.Option, 0, len(p.opts)+1), p.opts...),
			knapsack.WithSeed(knapsack.DeriveSeed(p.cfg.Seed, uint64(p.round+1))))
	}

	pack, err := knapsack.PickItems(p.limit, p.remaining, opts...)
	if err != nil {
		return knapsack.Pack[T]{}, fmt.Errorf("picker: round %d: %w", p.round+1, err)
	}
	if pack.Len() == 0 {
		h := p.heaviest()
		pack = knapsack.Pack[T]{Score: h.Weight, Items: []T{h.Key}}
		p.log.Debug("empty round replaced by heaviest candidate", slog.Any("item", h.Key))
	}

	p.remove(pack.Items)
	p.round++
	p.log.Debug("picker round",
		slog.Int("round", p.round),
		slog.Uint64("score", pack.Score),
		slog.Int("selected", pack.Len()),
		slog.Int("remaining", len(p.remaining)),
	)

	return pack, nil
}

// Run calls fn with every round until the candidates are exhausted or fn
// returns an error.
func (p *Picker[T]) Run(fn func(knapsack.Pack[T]) error) error {
	for !p.Done() {
		pack, err := p.Next()
		if err != nil {
			return err
		}
		if err = fn(pack); err != nil {
			return err
		}
	}

	return nil
}

// Stream runs the rounds on a new goroutine and delivers them in order. The
// channel is closed after the last round or after a round carrying an error.
//
// When the context passed with knapsack.WithContext ends before the stream
// finishes, exactly one final round carries the wrapped context
// error; a round already solved at that point comes back with it. Consumers
// must drain the channel.
func (p *Picker[T]) Stream() <-chan Round[T] {
	out := make(chan Round[T])
	ctx := p.cfg.Ctx
	go func() {
		defer close(out)
		for !p.Done() {
			pack, err := p.Next()
			if err != nil {
				out <- Round[T]{Index: p.round + 1, Err: err}
				return
			}
			r := Round[T]{Index: p.round, Pack: pack}
			select {
			case out <- r:
			case <-ctx.Done():
				r.Err = fmt.Errorf("picker: round %d: %w", r.Index, ctx.Err())
				out <- r
				return
			}
		}
	}()

	return out
}

// heaviest returns the first candidate of maximum weight.
func (p *Picker[T]) heaviest() knapsack.Item[T] {
	best := p.remaining[0]
	var it knapsack.Item[T]
	for _, it = range p.remaining[1:] {
		if it.Weight > best.Weight {
			best = it
		}
	}

	return best
}

// remove drops keys from the candidates, keeping the order of the rest.
func (p *Picker[T]) remove(keys []T) {
	drop := make(map[T]struct{}, len(keys))
	var k T
	for _, k = range keys {
		drop[k] = struct{}{}
	}
	kept := p.remaining[:0]
	var it knapsack.Item[T]
	for _, it = range p.remaining {
		if _, gone := drop[it.Key]; !gone {
			kept = append(kept, it)
		}
	}
	p.remaining = kept
}

// sortItems orders items by descending weight; equal weights keep their order.
func sortItems[T comparable](items []knapsack.Item[T]) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Weight > items[b].Weight
	})
}
