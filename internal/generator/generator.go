package generator

import (
	"context"
	"go/types"
	"log/slog"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/go/packages"
)

// generator holds transient state while loading and rendering one package.
type generator struct {
	pkg    *packages.Package
	types  map[string]types.Type // type expressions seen on fields, for rendering
	logger *slog.Logger
}

// Run generates the row mappers of the package in cfg.Dir.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	return newGenerator(cfg.Logger).run(ctx, cfg)
}

func newGenerator(logger *slog.Logger) *generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &generator{
		types:  make(map[string]types.Type),
		logger: logger,
	}
}

func (g *generator) qualifier(p *types.Package) string {
	if p == nil || p == g.pkg.Types {
		return ""
	}
	return p.Name()
}

// typeCode renders a type expression recorded while resolving fields.
// Expressions the generator never saw are emitted verbatim.
func (g *generator) typeCode(expr string) *jen.Statement {
	if t, ok := g.types[expr]; ok {
		return g.jenType(t)
	}
	if len(expr) > 1 && expr[0] == '*' {
		return jen.Op("*").Add(g.typeCode(expr[1:]))
	}
	return jen.Id(expr)
}

// jenType converts a checked type into jennifer code so that every package
// it names is imported.
func (g *generator) jenType(t types.Type) *jen.Statement {
	switch tt := t.(type) {
	case *types.Basic:
		return jen.Id(tt.Name())
	case *types.Alias:
		if tt.Obj().Pkg() == nil {
			return jen.Id(tt.Obj().Name())
		}
		return g.qualified(tt.Obj(), tt.TypeArgs())
	case *types.Named:
		if tt.Obj().Pkg() == nil {
			return jen.Id(tt.Obj().Name())
		}
		return g.qualified(tt.Obj(), tt.TypeArgs())
	case *types.Pointer:
		return jen.Op("*").Add(g.jenType(tt.Elem()))
	case *types.Slice:
		return jen.Index().Add(g.jenType(tt.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(tt.Len()))).Add(g.jenType(tt.Elem()))
	case *types.Map:
		return jen.Map(g.jenType(tt.Key())).Add(g.jenType(tt.Elem()))
	case *types.TypeParam:
		return jen.Id(tt.Obj().Name())
	}
	// channels, funcs and literals: imports.Process resolves what is left
	return jen.Id(types.TypeString(t, g.qualifier))
}

func (g *generator) qualified(obj *types.TypeName, args *types.TypeList) *jen.Statement {
	s := jen.Qual(obj.Pkg().Path(), obj.Name())
	if args.Len() == 0 {
		return s
	}
	codes := make([]jen.Code, args.Len())
	for i := range args.Len() {
		codes[i] = g.jenType(args.At(i))
	}
	return s.Types(codes...)
}
