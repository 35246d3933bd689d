package generator

import (
	"go/types"

	"github.com/calumari/rowmap/internal/engine"
	"github.com/calumari/rowmap/internal/host"
)

// declaredMethods appends the methods declared directly on the named type.
// Promoted methods are ignored: an embedded type's MapRow must not stop
// the outer type from getting its own.
func (g *generator) declaredMethods(c *host.ClassDecl, obj *types.TypeName) {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return
	}
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		sig, ok := m.Type().(*types.Signature)
		if !ok {
			continue
		}
		c.Append(host.Member{
			Kind:  host.MemberMethod,
			Name:  m.Name(),
			Arity: sig.Params().Len(),
			Pos:   g.pkg.Fset.Position(m.Pos()),
		})
	}
}

// declaredConstructor records a package-level New<Type> as the type's
// constructor. Any other object of that name also claims it, with the
// arity the generated constructor would have.
func (g *generator) declaredConstructor(c *host.ClassDecl) {
	name := engine.ConstructorName(c.Name)
	obj := g.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return
	}
	arity := 1
	if sig, ok := obj.Type().Underlying().(*types.Signature); ok {
		arity = sig.Params().Len()
	}
	if _, ok := obj.(*types.Func); !ok {
		arity = 1
	}
	c.Append(host.Member{
		Kind:  host.MemberConstructor,
		Name:  name,
		Arity: arity,
		Pos:   g.pkg.Fset.Position(obj.Pos()),
	})
}
