package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/picking/knapsack"
	"github.com/katalvlaran/picking/picker"
	"github.com/katalvlaran/picking/sizing"
	"github.com/katalvlaran/picking/units"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// flags mirrors Config for the command line.
type flags struct {
	config         string
	threshold      int
	seed           int64
	exactTimeout   time.Duration
	maxGenerations int
	workers        int
	hidden         bool
	format         string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "picking [LIMIT [DIR]]",
		Short: "Group directory entries into packs that fit a size limit",
		Long: `Picking measures every entry of DIR (default ".") and repeatedly picks
the heaviest combination that fits LIMIT, until every entry is packed.

LIMIT is a number with an optional K, M or G suffix and an optional B,
powers of 1024 (e.g. 700MB, 4g). Entries larger than LIMIT are reported
as overflow.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", defaultConfigPath(), "YAML configuration file")
	fl.IntVar(&f.threshold, "threshold", knapsack.DefaultThreshold, "item count from which the genetic solver is used")
	fl.Int64Var(&f.seed, "seed", 0, "seed for reproducible genetic runs")
	fl.DurationVar(&f.exactTimeout, "exact-timeout", 0, "budget for the exact solver before falling back (0 = none)")
	fl.IntVar(&f.maxGenerations, "max-generations", knapsack.DefaultMaxGenerations, "genetic generation bound (0 = none)")
	fl.IntVar(&f.workers, "workers", 0, "parallel size measurements (0 = GOMAXPROCS)")
	fl.BoolVar(&f.hidden, "hidden", false, "include dot files")
	fl.StringVar(&f.format, "format", formatText, "output format: text or yaml")
	fl.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	return cmd
}

// resolve loads the config file and applies the flags the user set.
func resolve(cmd *cobra.Command, f flags) (Config, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return cfg, err
	}

	fl := cmd.Flags()
	if fl.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if fl.Changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}
	if fl.Changed("exact-timeout") {
		cfg.ExactTimeout = f.exactTimeout
	}
	if fl.Changed("max-generations") {
		cfg.MaxGenerations = f.maxGenerations
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("hidden") {
		cfg.Hidden = f.hidden
	}
	if fl.Changed("format") {
		cfg.Format = f.format
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	return cfg, cfg.validate()
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// targetDir returns the directory to scan; anything that is not a directory
// falls back to the working directory.
func targetDir(args []string, logger *slog.Logger) string {
	if len(args) < 2 {
		return "."
	}
	if fi, err := os.Stat(args[1]); err != nil || !fi.IsDir() {
		logger.Warn("not a directory, using the working directory", slog.String("path", args[1]))
		return "."
	}

	return args[1]
}

func run(cmd *cobra.Command, args []string, f flags) error {
	cfg, err := resolve(cmd, f)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	limitArg := cfg.Limit
	if len(args) > 0 {
		limitArg = args[0]
	}
	limit, unit, err := units.ParseLimit(limitArg)
	if err != nil {
		return err
	}
	dir := targetDir(args, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	scanOpts := []sizing.Option{sizing.WithHidden(cfg.Hidden), sizing.WithLogger(logger)}
	if cfg.Workers > 0 {
		scanOpts = append(scanOpts, sizing.WithWorkers(cfg.Workers))
	}
	entries, err := sizing.Scan(ctx, dir, scanOpts...)
	if err != nil {
		return err
	}
	logger.Info("scan finished",
		slog.String("dir", dir),
		slog.Int("entries", len(entries)),
		slog.Duration("elapsed", time.Since(start)),
	)

	items := make([]knapsack.Item[string], len(entries))
	var i int
	for i = range entries {
		items[i] = knapsack.Item[string]{Key: entries[i].Name, Weight: entries[i].Size}
	}

	opts := []knapsack.Option{
		knapsack.WithContext(ctx),
		knapsack.WithLogger(logger),
		knapsack.WithThreshold(cfg.Threshold),
		knapsack.WithMaxGenerations(cfg.MaxGenerations),
		knapsack.WithExactTimeLimit(cfg.ExactTimeout),
	}
	if cfg.Seed != nil {
		opts = append(opts, knapsack.WithSeed(*cfg.Seed))
	}
	p, err := picker.New(limit, items, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Format == formatYAML {
		err = writeYAML(out, p, limit, unit)
	} else {
		err = writeText(ctx, out, p, unit)
	}
	if err != nil {
		return err
	}

	logger.Info("picking finished",
		slog.String("limit", units.Human(limit)),
		slog.Int("rounds", p.Rounds()),
		slog.Int("overflow", len(p.Overflow())),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// writeText prints each round as it is produced. An interrupted run stops
// before the overflow section.
func writeText(ctx context.Context, w io.Writer, p *picker.Picker[string], unit units.Unit) error {
	var failed error
	for r := range p.Stream() {
		if r.Err != nil {
			failed = r.Err
		}
		if r.Pack.Len() == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", unit.Format(r.Pack.Score))
		for _, name := range r.Pack.Items {
			fmt.Fprintf(w, "\t%s\n", name)
		}
	}
	if failed != nil {
		return failed
	}
	if !p.Done() {
		return fmt.Errorf("picking interrupted with %d entries left: %w", len(p.Remaining()), ctx.Err())
	}

	if over := p.Overflow(); len(over) > 0 {
		fmt.Fprintln(w, "Overflow:")
		for _, it := range over {
			fmt.Fprintf(w, "\t%s\n", it.Key)
		}
	}

	return nil
}

type report struct {
	Limit    string        `yaml:"limit"`
	Bytes    uint64        `yaml:"bytes"`
	Rounds   []roundReport `yaml:"rounds"`
	Overflow []itemReport  `yaml:"overflow,omitempty"`
}

type roundReport struct {
	Size  string   `yaml:"size"`
	Bytes uint64   `yaml:"bytes"`
	Items []string `yaml:"items"`
}

type itemReport struct {
	Name  string `yaml:"name"`
	Size  string `yaml:"size"`
	Bytes uint64 `yaml:"bytes"`
}

func writeYAML(w io.Writer, p *picker.Picker[string], limit uint64, unit units.Unit) error {
	rep := report{Limit: unit.Format(limit), Bytes: limit, Rounds: []roundReport{}}
	err := p.Run(func(pk knapsack.Pack[string]) error {
		rep.Rounds = append(rep.Rounds, roundReport{
			Size:  unit.Format(pk.Score),
			Bytes: pk.Score,
			Items: pk.Items,
		})
		return nil
	})
	if err != nil {
		return err
	}
	for _, it := range p.Overflow() {
		rep.Overflow = append(rep.Overflow, itemReport{Name: it.Key, Size: units.Human(it.Weight), Bytes: it.Weight})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(rep); err != nil {
		return err
	}

	return enc.Close()
}
