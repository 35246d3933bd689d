package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/calumari/rowmap/internal/config"
	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/generator"
)

// errStale is returned by check when any package needs regeneration.
var errStale = errors.New("generated row mappers are out of date; run rowmapgen gen")

// commonFlags are shared by gen and check.
type commonFlags struct {
	Dirs    []string `arg:"" optional:"" help:"Package directories (default: current directory)."`
	Config  string   `help:"Config file used for every directory instead of each directory's .rowmap.yaml." short:"c"`
	Output  string   `help:"Generated file name." short:"o"`
	Policy  string   `help:"Default error policy: propagate, skip or collect."`
	Naming  string   `help:"Column naming for fields without an explicit name: field or snake."`
	Format  string   `help:"Diagnostics format." enum:"text,json" default:"text"`
	Strict  bool     `help:"Treat warnings as errors."`
	Jobs    int      `help:"Directories processed in parallel." default:"4" short:"j"`
	Verbose bool     `help:"Enable debug logging." short:"v"`
}

// GenCmd writes generated files.
type GenCmd struct {
	commonFlags
	Watch bool `help:"Watch the directories and regenerate on change." short:"w"`
}

func (c *GenCmd) Run(ctx context.Context, e *env) error {
	logger := newLogger(e.stderr, c.Verbose)
	results, err := c.generate(ctx, e, logger, false)
	if !c.Watch {
		return err
	}
	if err != nil {
		logger.Error("generation failed", "err", err)
	}
	ignore := map[string]bool{}
	for _, r := range results {
		if r != nil {
			ignore[r.Path] = true
		}
	}
	return watch(ctx, c.dirs(), ignore, logger, func(ctx context.Context) error {
		_, err := c.generate(ctx, e, logger, false)
		return err
	})
}

// CheckCmd verifies generated files without writing them.
type CheckCmd struct {
	commonFlags
}

func (c *CheckCmd) Run(ctx context.Context, e *env) error {
	results, err := c.generate(ctx, e, newLogger(e.stderr, c.Verbose), true)
	if err != nil {
		return err
	}
	stale := 0
	for _, r := range results {
		if r != nil && r.Stale {
			stale++
			fmt.Fprintf(e.stdout, "stale: %s\n", r.Path)
		}
	}
	if stale > 0 {
		return errStale
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (f *commonFlags) dirs() []string {
	if len(f.Dirs) == 0 {
		return []string{"."}
	}
	return f.Dirs
}

// settings resolves the configuration of one directory.
func (f *commonFlags) settings(dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.Config != "" {
		cfg, err = config.LoadFile(f.Config)
	} else {
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, err
	}
	return cfg.Apply(config.Overrides{Output: f.Output, Policy: f.Policy, Naming: f.Naming})
}

// command is the canonical invocation recorded in generated headers. Paths
// are left out so the header is stable across machines.
func (f *commonFlags) command() string {
	parts := []string{"rowmapgen", "gen"}
	if f.Config != "" {
		parts = append(parts, "--config="+filepath.Base(f.Config))
	}
	if f.Output != "" {
		parts = append(parts, "--output="+f.Output)
	}
	if f.Policy != "" {
		parts = append(parts, "--policy="+f.Policy)
	}
	if f.Naming != "" {
		parts = append(parts, "--naming="+f.Naming)
	}
	return strings.Join(parts, " ")
}

// generate runs every directory, then reports diagnostics and outcomes.
// Diagnostics never cancel sibling directories; load and I/O failures do.
func (f *commonFlags) generate(ctx context.Context, e *env, logger *slog.Logger, check bool) ([]*generator.Result, error) {
	dirs := f.dirs()
	results := make([]*generator.Result, len(dirs))
	collectors := make([]*diagnostic.Collector, len(dirs))
	version := deriveVersion()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, f.Jobs))
	for i, dir := range dirs {
		collectors[i] = diagnostic.NewCollector(f.Strict, false)
		eg.Go(func() error {
			cfg, err := f.settings(dir)
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}
			res, err := generator.Run(ctx, generator.Config{
				Dir:       dir,
				Output:    cfg.Output,
				Policy:    cfg.Policy,
				Naming:    cfg.Naming,
				Accessors: cfg.Accessors,
				Stringer:  cfg.Stringer,
				Equal:     cfg.Equal,
				Check:     check,
				Command:   f.command(),
				Version:   version,
				Logger:    logger.With("dir", dir),
				Diags:     collectors[i],
			})
			results[i] = res
			if errors.Is(err, generator.ErrGenerationFailed) {
				return nil
			}
			return err
		})
	}
	err := eg.Wait()

	diags := diagnostic.NewCollector(f.Strict, false)
	for _, c := range collectors {
		diags.Merge(c)
	}
	if rerr := f.report(e, diags, results, check); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return results, err
	}
	if diags.HasErrors() {
		return results, fmt.Errorf("%w: %s", generator.ErrGenerationFailed, diags.Summary())
	}
	return results, nil
}

func (f *commonFlags) report(e *env, diags *diagnostic.Collector, results []*generator.Result, check bool) error {
	if f.Format == "json" {
		return diags.WriteJSON(e.stdout)
	}
	if diags.Len() > 0 {
		fmt.Fprint(e.stderr, diags.FormatAll())
		fmt.Fprintln(e.stderr, diags.Summary())
	}
	if check {
		return nil
	}
	for _, r := range results {
		switch {
		case r == nil:
		case r.Written:
			fmt.Fprintf(e.stdout, "wrote %s (%d members)\n", r.Path, r.Members)
		case r.Removed:
			fmt.Fprintf(e.stdout, "removed %s\n", r.Path)
		}
	}
	return nil
}
