package engine

import "github.com/calumari/rowmap/internal/host"

// tag stamps d and every statement of its body with the position of the
// directive that triggered generation.
func tag(d *MethodDescriptor, ann host.Annotation) {
	d.Origin = &host.Provenance{
		Generator:  GeneratorTag,
		Annotation: ann.Name,
		Pos:        ann.Pos,
	}
	for i := range d.Body {
		d.Body[i].Pos = ann.Pos
	}
}

// inject appends descriptors to c in the order given.
func inject(c *host.ClassDecl, ds []*MethodDescriptor) {
	for _, d := range ds {
		c.Append(host.Member{
			Kind:      d.Kind,
			Name:      d.Name,
			Arity:     d.Arity(),
			Generated: d.Origin,
			Node:      d,
			Pos:       d.Origin.Pos,
		})
	}
}

// Descriptors returns the synthesized descriptors attached to c, in
// injection order.
func Descriptors(c *host.ClassDecl) []*MethodDescriptor {
	var out []*MethodDescriptor
	for _, m := range c.Generated() {
		if d, ok := m.Node.(*MethodDescriptor); ok {
			out = append(out, d)
		}
	}
	return out
}
