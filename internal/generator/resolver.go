package generator

import (
	"go/ast"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/host"
)

// columnTagKey is the struct tag key marking a mapped field.
const columnTagKey = "column"

// buildClass resolves a type spec into a host declaration: its kind, its
// fields in declaration order, the embedded superclass, and the members
// already declared on it.
func (g *generator) buildClass(ts *ast.TypeSpec, anns []host.Annotation, diags *diagnostic.Collector) *host.ClassDecl {
	c := &host.ClassDecl{
		Name:        ts.Name.Name,
		PkgPath:     g.pkg.PkgPath,
		Annotations: anns,
		Pos:         g.pkg.Fset.Position(ts.Name.Pos()),
	}
	if ts.TypeParams != nil && ts.TypeParams.NumFields() > 0 {
		diags.ErrorWithHint(diagnostic.CategoryUsage, c.Pos,
			"generic types cannot be mapped",
			"declare a concrete type that embeds or instantiates "+c.Name)
		return nil
	}
	switch st := ts.Type.(type) {
	case *ast.StructType:
		c.Kind = host.DeclStruct
		if ts.Assign.IsValid() {
			// an alias of a struct literal has no methods of its own
			c.Kind = host.DeclOther
			break
		}
		g.resolveFields(c, st)
	case *ast.InterfaceType:
		c.Kind = host.DeclInterface
	default:
		c.Kind = host.DeclOther
	}
	if obj, ok := g.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok {
		g.declaredMethods(c, obj)
	}
	g.declaredConstructor(c)
	return c
}

// resolveFields appends one member per declared field. The first embedded
// field becomes the superclass.
func (g *generator) resolveFields(c *host.ClassDecl, st *ast.StructType) {
	for _, f := range st.Fields.List {
		t := g.pkg.TypesInfo.TypeOf(f.Type)
		ref := g.typeRef(t, f.Type)
		column := columnTag(f.Tag)
		if len(f.Names) == 0 {
			name := embeddedName(f.Type)
			field := &host.Field{Name: name, Type: ref, Embedded: true, Column: column, Pos: g.pkg.Fset.Position(f.Type.Pos())}
			if c.Super == nil {
				c.Super = superclass(f.Type, t, name)
			}
			c.Append(host.Member{Kind: host.MemberField, Name: name, Field: field, Pos: field.Pos})
			continue
		}
		for _, n := range f.Names {
			field := &host.Field{Name: n.Name, Type: ref, Column: column, Pos: g.pkg.Fset.Position(n.Pos())}
			c.Append(host.Member{Kind: host.MemberField, Name: n.Name, Field: field, Pos: field.Pos})
		}
	}
}

// typeRef describes a field type. Types the checker could not resolve keep
// their source text only, which no read operation accepts.
func (g *generator) typeRef(t types.Type, expr ast.Expr) host.TypeRef {
	if t == nil || t == types.Typ[types.Invalid] {
		return host.TypeRef{Expr: types.ExprString(expr)}
	}
	ref := host.TypeRef{Expr: types.TypeString(t, g.qualifier), Comparable: types.Comparable(t)}
	if b, ok := t.Underlying().(*types.Basic); ok && b.Info()&types.IsUntyped == 0 {
		// byte and rune report their alias names; reads dispatch on the kind
		ref.Underlying = types.Typ[b.Kind()].Name()
	}
	if n, ok := types.Unalias(t).(*types.Named); ok {
		ref.Ident = n.Obj().Name()
		if p := n.Obj().Pkg(); p != nil {
			ref.PkgPath = p.Path()
		}
	}
	g.types[ref.Expr] = t
	return ref
}

// columnTag parses the column marker. `column:"-"` opts a field out, and
// anything after a comma is reserved.
func columnTag(lit *ast.BasicLit) *host.Column {
	if lit == nil {
		return nil
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil
	}
	v, ok := reflect.StructTag(raw).Lookup(columnTagKey)
	if !ok {
		return nil
	}
	name, _, _ := strings.Cut(v, ",")
	if name == "-" {
		return nil
	}
	return &host.Column{Override: strings.TrimSpace(name)}
}

// embeddedName is the implicit field name of an embedded type.
func embeddedName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.SelectorExpr:
			return e.Sel.Name
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return types.ExprString(expr)
		}
	}
}

// superclass describes an embedded field. Expr keeps the source text so
// the root type check sees "any" rather than an expanded interface.
func superclass(expr ast.Expr, t types.Type, name string) *host.Superclass {
	s := &host.Superclass{Expr: types.ExprString(expr), Ident: name}
	if _, ok := expr.(*ast.StarExpr); ok {
		s.Pointer = true
	}
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	if n, ok := types.Unalias(t).(*types.Named); ok && n.Obj().Pkg() != nil {
		s.PkgPath = n.Obj().Pkg().Path()
	}
	return s
}
