package generator

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/calumari/rowmap/internal/engine"
	"github.com/calumari/rowmap/internal/host"
)

const (
	runtimePkg = engine.SourcePkg
	valueVar   = "v"
	errVar     = "err"
	errsVar    = "errs"
	selfVar    = "r"
	superVar   = "super"
)

// member renders one synthesized descriptor as a top-level declaration.
func (g *generator) member(d *engine.MethodDescriptor) jen.Code {
	switch {
	case d.Kind == host.MemberConstructor:
		return g.constructor(d)
	case d.Name == engine.MapRowName:
		return g.mapRow(d)
	}
	return g.accessor(d)
}

func receiver(d *engine.MethodDescriptor) *jen.Statement {
	return jen.Id(engine.ReceiverName(d.Receiver)).Op("*").Id(d.Receiver)
}

func (g *generator) params(d *engine.MethodDescriptor) []jen.Code {
	var out []jen.Code
	for _, p := range d.Params {
		if p.Type == "" {
			out = append(out, jen.Id(p.Name).Qual(runtimePkg, engine.SourceType))
			continue
		}
		out = append(out, jen.Id(p.Name).Add(g.typeCode(p.Type)))
	}
	return out
}

// mapRow renders MapRow. Each read is scoped to its own if statement so
// locals never collide with field or column names.
func (g *generator) mapRow(d *engine.MethodDescriptor) jen.Code {
	recv := engine.ReceiverName(d.Receiver)
	var body []jen.Code
	if d.Policy == engine.PolicyCollect {
		body = append(body, jen.Var().Id(errsVar).Index().Error())
	}
	for _, st := range d.Body {
		body = append(body, g.readAssign(recv, st, d.Policy))
	}
	switch d.Policy {
	case engine.PolicyCollect:
		body = append(body, jen.Return(jen.Qual("errors", "Join").Call(jen.Id(errsVar).Op("..."))))
	default:
		body = append(body, jen.Return(jen.Nil()))
	}
	return jen.Commentf("%s reads the mapped columns of %s from %s.", d.Name, d.Receiver, engine.SourceParam).Line().
		Func().Params(receiver(d)).Id(d.Name).Params(g.params(d)...).Error().Block(body...)
}

// readAssign renders one read/assign statement under policy.
func (g *generator) readAssign(recv string, st engine.Statement, policy engine.ErrorPolicy) jen.Code {
	read := jen.List(jen.Id(valueVar), jen.Id(errVar)).Op(":=").
		Id(engine.SourceParam).Dot(st.Read.Method()).Call(jen.Lit(st.Column))
	value := jen.Id(valueVar)
	if st.Convert != nil {
		value = g.typeCode(st.Convert.Expr).Call(jen.Id(valueVar))
	}
	assign := jen.Id(recv).Dot(st.Field).Op("=").Add(value)
	if st.Setter != "" {
		assign = jen.Id(recv).Dot(st.Setter).Call(value)
	}
	wrapped := jen.Qual(runtimePkg, "WrapColumn").Call(jen.Lit(st.Column), jen.Id(errVar))

	switch policy {
	case engine.PolicySkip:
		return jen.If(read, jen.Id(errVar).Op("==").Nil()).Block(assign)
	case engine.PolicyCollect:
		return jen.If(read, jen.Id(errVar).Op("!=").Nil()).Block(
			jen.Id(errsVar).Op("=").Append(jen.Id(errsVar), wrapped),
		).Else().Block(assign)
	default:
		return jen.If(read, jen.Id(errVar).Op("!=").Nil()).Block(
			jen.Return(wrapped),
		).Else().Block(assign)
	}
}

// constructor renders New<Type>: allocate, optionally chain to the
// superclass constructor, then map.
func (g *generator) constructor(d *engine.MethodDescriptor) jen.Code {
	body := []jen.Code{
		jen.Id(selfVar).Op(":=").Op("&").Id(d.Receiver).Values(),
	}
	for _, st := range d.Body {
		switch st.Kind {
		case engine.StmtSuperCall:
			callee := jen.Id(st.Callee)
			if st.Super.PkgPath != "" {
				callee = jen.Qual(st.Super.PkgPath, st.Callee)
			}
			var value jen.Code = jen.Op("*").Id(superVar)
			if st.Super.Pointer {
				value = jen.Id(superVar)
			}
			body = append(body,
				jen.List(jen.Id(superVar), jen.Id(errVar)).Op(":=").Add(callee).Call(jen.Id(engine.SourceParam)),
				jen.If(jen.Id(errVar).Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id(errVar))),
				jen.Id(selfVar).Dot(st.Field).Op("=").Add(value),
			)
		case engine.StmtInvokeMapping:
			body = append(body,
				jen.If(
					jen.Id(errVar).Op(":=").Id(selfVar).Dot(st.Callee).Call(jen.Id(engine.SourceParam)),
					jen.Id(errVar).Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Id(errVar))),
			)
		}
	}
	body = append(body, jen.Return(jen.Id(selfVar), jen.Nil()))
	return jen.Commentf("%s returns a new %s read from the current row of %s.", d.Name, d.Receiver, engine.SourceParam).Line().
		Func().Id(d.Name).Params(g.params(d)...).
		Params(jen.Op("*").Id(d.Receiver), jen.Error()).Block(body...)
}

// accessor renders the peer members: setters, getters, String and Equal.
func (g *generator) accessor(d *engine.MethodDescriptor) jen.Code {
	recv := engine.ReceiverName(d.Receiver)
	var body, compares []jen.Code
	for _, st := range d.Body {
		switch st.Kind {
		case engine.StmtAssignField:
			body = append(body, jen.Id(recv).Dot(st.Field).Op("=").Id(d.Params[0].Name))
		case engine.StmtReturnField:
			body = append(body, jen.Return(jen.Id(recv).Dot(st.Field)))
		case engine.StmtFormatFields:
			body = append(body, g.formatFields(recv, d.Receiver, st.Fields))
		case engine.StmtCompareField:
			compares = append(compares, compareField(recv, d.Params[0].Name, st))
		}
	}
	if len(compares) > 0 {
		body = append(body, equalBody(recv, d.Params[0].Name, compares)...)
	}
	fn := jen.Func().Params(receiver(d)).Id(d.Name).Params(g.params(d)...)
	if d.Result != "" {
		fn = fn.Add(g.typeCode(d.Result))
	}
	return fn.Block(body...)
}

func (g *generator) formatFields(recv, typeName string, fields []string) jen.Code {
	parts := make([]string, len(fields))
	args := []jen.Code{nil}
	for i, f := range fields {
		parts[i] = f + "=%v"
		args = append(args, jen.Id(recv).Dot(f))
	}
	args[0] = jen.Lit(fmt.Sprintf("%s(%s)", typeName, strings.Join(parts, ", ")))
	return jen.Return(jen.Qual("fmt", "Sprintf").Call(args...))
}

func compareField(recv, other string, st engine.Statement) *jen.Statement {
	a, b := jen.Id(recv).Dot(st.Field), jen.Id(other).Dot(st.Field)
	if st.Deep {
		return jen.Qual("reflect", "DeepEqual").Call(a, b)
	}
	return a.Op("==").Add(b)
}

// equalBody treats two nil pointers as equal and a nil pointer as unequal
// to anything else.
func equalBody(recv, other string, compares []jen.Code) []jen.Code {
	all := jen.Add(compares[0])
	for _, c := range compares[1:] {
		all = all.Op("&&").Add(c)
	}
	return []jen.Code{
		jen.If(jen.Id(recv).Op("==").Nil().Op("||").Id(other).Op("==").Nil()).Block(
			jen.Return(jen.Id(recv).Op("==").Id(other)),
		),
		jen.Return(all),
	}
}
