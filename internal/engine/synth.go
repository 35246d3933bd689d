package engine

import (
	"errors"

	"github.com/calumari/rowmap/internal/host"
)

// synthesizer builds member descriptors for one class. It performs no
// mutation; the descriptors are handed to the injector as-is.
type synthesizer struct {
	class  *host.ClassDecl
	policy ErrorPolicy
}

// mapRow builds MapRow(src) with one read/assign statement per binding.
// Every field whose type has no read operation is reported; a method with
// an unresolved read is never returned.
func (s *synthesizer) mapRow(bindings []Binding) (*MethodDescriptor, error) {
	var (
		body []Statement
		errs []error
	)
	for _, b := range bindings {
		op, convert := Dispatch(b.Type)
		if op == ReadUnsupported {
			errs = append(errs, &UnsupportedTypeError{Type: s.class.Name, Field: b.Field.Name, Decl: b.Type.Expr, Pos: b.Field.Pos})
			continue
		}
		st := Statement{
			Kind:   StmtReadAssign,
			Field:  b.Field.Name,
			Setter: SetterName(b.Field.Name),
			Column: b.Column,
			Read:   op,
		}
		if convert {
			t := b.Type
			st.Convert = &t
		}
		body = append(body, st)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &MethodDescriptor{
		Name:     MapRowName,
		Kind:     host.MemberMethod,
		Receiver: s.class.Name,
		Params:   []Param{{Name: SourceParam}},
		Fails:    true,
		Policy:   s.policy,
		Body:     body,
	}, nil
}

// constructor builds New<Type>(src). With callSuper the superclass
// constructor runs first; the mapping method is always invoked last.
func (s *synthesizer) constructor(callSuper bool) *MethodDescriptor {
	var body []Statement
	if callSuper {
		super := *s.class.Super
		body = append(body, Statement{
			Kind:   StmtSuperCall,
			Field:  super.Ident,
			Callee: ConstructorName(super.Ident),
			Super:  &super,
		})
	}
	body = append(body, Statement{Kind: StmtInvokeMapping, Callee: MapRowName})
	return &MethodDescriptor{
		Name:     ConstructorName(s.class.Name),
		Kind:     host.MemberConstructor,
		Receiver: s.class.Name,
		Params:   []Param{{Name: SourceParam}},
		Result:   "*" + s.class.Name,
		Fails:    true,
		Policy:   s.policy,
		Body:     body,
	}
}
