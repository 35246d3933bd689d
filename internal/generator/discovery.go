package generator

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/host"
)

const loadMode = packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
	packages.NeedDeps | packages.NeedFiles | packages.NeedCompiledGoFiles

// isGenerated reports whether src starts with the generated-file header,
// before its package clause.
func isGenerated(src []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == GeneratedHeader {
			return true
		}
		if strings.HasPrefix(line, "package ") {
			return false
		}
	}
	return false
}

// blankGenerated builds an overlay replacing every previously generated
// file in dir with an empty file of the same package. Members from an
// earlier run then neither hide user code from the conflict check nor
// break type checking once user code changes.
func blankGenerated(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	overlay := map[string][]byte{}
	fset := token.NewFileSet()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !isGenerated(src) {
			continue
		}
		f, err := parser.ParseFile(fset, path, src, parser.PackageClauseOnly)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		overlay[path] = []byte("package " + f.Name.Name + "\n")
	}
	return overlay, nil
}

// loadDir loads the Go package of a directory with generated files blanked.
// Type errors are tolerated: user code commonly refers to members that only
// exist once this run has written them.
func loadDir(ctx context.Context, dir string, logger *slog.Logger) (*packages.Package, error) {
	overlay, err := blankGenerated(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Overlay: overlay,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no packages found in %s", ErrLoad, dir)
	}
	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		if e.Kind == packages.TypeError {
			logger.Debug("tolerating type error", "pkg", pkg.PkgPath, "err", e.Msg, "pos", e.Pos)
			continue
		}
		return nil, fmt.Errorf("%w: %s", ErrLoad, e)
	}
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return nil, fmt.Errorf("%w: %s has no type information", ErrLoad, pkg.PkgPath)
	}
	return pkg, nil
}

// discover builds a host declaration for every type carrying at least one
// directive, in source order. Generated files contribute nothing.
func (g *generator) discover(pkg *packages.Package, diags *diagnostic.Collector) []*host.ClassDecl {
	var classes []*host.ClassDecl
	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				anns, bad := parseDirectives(pkg.Fset, doc)
				for _, b := range bad {
					diags.Error(diagnostic.CategoryDirective, b.Pos,
						fmt.Sprintf("malformed directive %s: %s", b.Text, b.Reason))
				}
				if len(anns) == 0 {
					continue
				}
				c := g.buildClass(ts, anns, diags)
				if c != nil {
					classes = append(classes, c)
				}
			}
		}
	}
	return classes
}
