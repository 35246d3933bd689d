package engine

import (
	"go/token"

	"github.com/calumari/rowmap/internal/host"
)

var directivePos = token.Position{Filename: "row.go", Line: 3, Column: 1}

func dataAnn(args map[string][]string) host.Annotation {
	return host.Annotation{Name: DataDirective, Args: args, Pos: directivePos}
}

func basic(name string) host.TypeRef {
	return host.TypeRef{Expr: name, Underlying: name}
}

// column builds a marked field; override may be empty.
func column(name string, t host.TypeRef, override string) host.Member {
	return host.Member{
		Kind: host.MemberField,
		Name: name,
		Field: &host.Field{
			Name:   name,
			Type:   t,
			Column: &host.Column{Override: override},
			Pos:    token.Position{Filename: "row.go", Line: 10},
		},
	}
}

func plain(name string, t host.TypeRef) host.Member {
	return host.Member{Kind: host.MemberField, Name: name, Field: &host.Field{Name: name, Type: t}}
}

func embedded(expr string) host.Member {
	return host.Member{Kind: host.MemberField, Name: expr, Field: &host.Field{Name: expr, Type: host.TypeRef{Expr: expr}, Embedded: true}}
}

func class(name string, members ...host.Member) *host.ClassDecl {
	return &host.ClassDecl{Name: name, Kind: host.DeclStruct, Members: members}
}

func names(ds []*MethodDescriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

func find(ds []*MethodDescriptor, name string) *MethodDescriptor {
	for _, d := range ds {
		if d.Name == name {
			return d
		}
	}
	return nil
}
