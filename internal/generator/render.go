package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/zeebo/xxh3"
	"golang.org/x/tools/imports"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/engine"
	"github.com/calumari/rowmap/internal/host"
)

// run orchestrates loading, the engine pass, rendering, and file emission.
func (g *generator) run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Output == "" {
		return nil, errors.New("no output file name")
	}
	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if cfg.Diags == nil {
		cfg.Diags = diagnostic.NewCollector(false, false)
	}
	res := &Result{Dir: absDir, Path: filepath.Join(absDir, cfg.Output)}

	pkg, err := loadDir(ctx, absDir, g.logger)
	if err != nil {
		return nil, err
	}
	g.pkg = pkg
	res.Package = pkg.Name
	logger := g.logger.With("pkg", pkg.PkgPath)

	before := cfg.Diags.ErrorCount()
	classes := g.discover(pkg, cfg.Diags)
	res.Classes = len(classes)
	logger.Debug("discovered annotated types", "count", len(classes))

	registry := engine.DefaultRegistry(
		engine.Defaults{Policy: engine.ErrorPolicy(cfg.Policy), Naming: cfg.Naming},
		engine.DefaultPeers(cfg.Accessors, cfg.Stringer, cfg.Equal),
		logger,
	)
	res.Members = registry.Process(classes, cfg.Diags)
	if n := cfg.Diags.ErrorCount() - before; n > 0 {
		return res, &GenerationError{Dir: absDir, Errors: n}
	}

	existing, err := readOutput(res.Path)
	if err != nil {
		return nil, err
	}
	if res.Members == 0 {
		return res, g.removeStale(cfg, res, existing)
	}

	src, err := g.render(cfg, res.Path, classes)
	if err != nil {
		return nil, err
	}
	if existing != nil && xxh3.Hash(existing) == xxh3.Hash(src) {
		res.Unchanged = true
		logger.Debug("output unchanged", "path", res.Path)
		return res, nil
	}
	if cfg.Check {
		res.Stale = true
		return res, nil
	}
	if err := os.WriteFile(res.Path, src, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", res.Path, err)
	}
	res.Written = true
	logger.Info("wrote row mappers", "path", res.Path, "members", res.Members)
	return res, nil
}

// readOutput returns the current output file, nil if absent. A file that
// exists but was not generated is never touched.
func readOutput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !isGenerated(data) {
		return nil, fmt.Errorf("%w: %s", ErrForeignOutput, path)
	}
	return data, nil
}

// removeStale deletes an output file left by an earlier run once nothing
// is generated anymore.
func (g *generator) removeStale(cfg Config, res *Result, existing []byte) error {
	if existing == nil {
		res.Unchanged = true
		return nil
	}
	if cfg.Check {
		res.Stale = true
		return nil
	}
	if err := os.Remove(res.Path); err != nil {
		return fmt.Errorf("remove %s: %w", res.Path, err)
	}
	res.Removed = true
	g.logger.Info("removed stale output", "path", res.Path)
	return nil
}

// render emits the generated members of every class in discovery order,
// each class in injection order, then formats the file and fixes imports.
func (g *generator) render(cfg Config, path string, classes []*host.ClassDecl) ([]byte, error) {
	f := jen.NewFilePathName(g.pkg.PkgPath, g.pkg.Name)
	f.HeaderComment(GeneratedHeader)
	if cfg.Version != "" {
		f.HeaderComment("version: " + cfg.Version)
	}
	if cfg.Command != "" {
		f.HeaderComment("command: " + cfg.Command)
	}
	f.ImportName(engine.SourcePkg, "rowmap")
	for _, c := range classes {
		for _, d := range engine.Descriptors(c) {
			f.Add(g.member(d))
			f.Line()
		}
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", g.pkg.PkgPath, err)
	}
	out, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		// keep the unformatted source so the compiler error points at it
		g.logger.Warn("format generated source", "err", err)
		return buf.Bytes(), nil
	}
	return out, nil
}
