// Package sizing lists the direct children of a directory together with their
// recursive on-disk byte sizes. Those sizes are the item weights fed to the
// picker.
//
// A directory weighs its own entry length plus everything below it. Symbolic
// links are measured as links and never followed. Children are measured in
// parallel on a bounded number of goroutines.
package sizing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrBadWorkers indicates a non-positive worker count.
var ErrBadWorkers = errors.New("sizing: workers must be positive")

// Entry is one direct child of the scanned directory.
type Entry struct {
	Name string // base name, unique within the directory
	Path string // Name joined to the scanned directory
	Size uint64 // recursive size in bytes
	Dir  bool
}

// String returns the base name.
func (e Entry) String() string { return e.Name }

// Options configures Scan.
//
// Workers – goroutines measuring children concurrently; defaults to GOMAXPROCS.
// Hidden  – include top-level names starting with a dot.
// Logger  – receives unreadable paths at Warn; defaults to slog.Default().
type Options struct {
	Workers int
	Hidden  bool
	Logger  *slog.Logger
}

// Option represents a functional option for configuring Scan.
type Option func(*Options)

// DefaultOptions returns the configuration used when no options are passed.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.Default(),
	}
}

// WithWorkers bounds the parallel measurements. Non-positive values panic
// with ErrBadWorkers.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic(ErrBadWorkers.Error())
		}
		o.Workers = n
	}
}

// WithHidden includes dot files and dot directories at the top level.
func WithHidden(on bool) Option {
	return func(o *Options) {
		o.Hidden = on
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

// Scan measures every direct child of dir. Entries come back directories
// first, then by name.
//
// Unreadable paths below a child are skipped and logged; an unreadable dir
// itself, or a canceled ctx, is an error.
func Scan(ctx context.Context, dir string, opts ...Option) ([]Entry, error) {
	cfg := DefaultOptions()
	var opt Option
	for _, opt = range opts {
		opt(&cfg)
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("sizing: read %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(children))
	var d fs.DirEntry
	for _, d = range children {
		if !cfg.Hidden && strings.HasPrefix(d.Name(), ".") {
			continue
		}
		entries = append(entries, Entry{
			Name: d.Name(),
			Path: filepath.Join(dir, d.Name()),
			Dir:  d.IsDir(),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	var i int
	for i = range entries {
		e := &entries[i]
		g.Go(func() error {
			size, err := totalSize(gctx, e.Path, cfg.Logger)
			if err != nil {
				return err
			}
			e.Size = size

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Dir != entries[b].Dir {
			return entries[a].Dir
		}

		return entries[a].Name < entries[b].Name
	})

	return entries, nil
}

// Size returns the recursive size of a single path.
func Size(ctx context.Context, path string) (uint64, error) {
	return totalSize(ctx, path, slog.Default())
}

// totalSize walks root without following links and sums the Lstat length of
// every node, root included.
func totalSize(ctx context.Context, root string, logger *slog.Logger) (uint64, error) {
	var sum uint64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return fmt.Errorf("sizing: scan of %s interrupted: %w", root, cerr)
		}
		if err != nil {
			if path == root && d == nil {
				return fmt.Errorf("sizing: stat %s: %w", root, err)
			}
			logger.Warn("skipping unreadable path", slog.String("path", path), slog.Any("err", err))

			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Warn("skipping vanished path", slog.String("path", path), slog.Any("err", err))

			return nil
		}
		if info.Size() > 0 {
			sum += uint64(info.Size())
		}

		return nil
	})

	return sum, err
}
