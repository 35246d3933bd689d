package engine

import "github.com/calumari/rowmap/internal/host"

// Peer contributes companion members for an annotated type. Peers run
// before the row mapper and never replace a member that already exists.
type Peer interface {
	Name() string
	Members(c *host.ClassDecl) []*MethodDescriptor
}

// DefaultPeers returns the peers enabled by the given switches.
func DefaultPeers(accessors, stringer, equal bool) []Peer {
	var peers []Peer
	if accessors {
		peers = append(peers, SetterPeer{}, GetterPeer{})
	}
	if stringer {
		peers = append(peers, StringerPeer{})
	}
	if equal {
		peers = append(peers, EqualPeer{})
	}
	return peers
}

func ownFields(c *host.ClassDecl) []*host.Field {
	var out []*host.Field
	for _, f := range c.Fields() {
		if f.Embedded || f.Name == "_" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// SetterPeer generates Set<Field>(v) for every field.
type SetterPeer struct{}

func (SetterPeer) Name() string { return "setter" }

func (SetterPeer) Members(c *host.ClassDecl) []*MethodDescriptor {
	var out []*MethodDescriptor
	claimed := map[string]bool{}
	for _, f := range ownFields(c) {
		name := SetterName(f.Name)
		if claimed[name] || nameTaken(c, name) {
			continue
		}
		claimed[name] = true
		out = append(out, &MethodDescriptor{
			Name:     name,
			Kind:     host.MemberMethod,
			Receiver: c.Name,
			Params:   []Param{{Name: "v", Type: f.Type.Expr}},
			Body:     []Statement{{Kind: StmtAssignField, Field: f.Name}},
		})
	}
	return out
}

// GetterPeer generates <Field>() for unexported fields. Exported fields
// are their own accessors and a method cannot share their name.
type GetterPeer struct{}

func (GetterPeer) Name() string { return "getter" }

func (GetterPeer) Members(c *host.ClassDecl) []*MethodDescriptor {
	var out []*MethodDescriptor
	claimed := map[string]bool{}
	for _, f := range ownFields(c) {
		if f.Exported() {
			continue
		}
		name := GetterName(f.Name)
		if claimed[name] || nameTaken(c, name) {
			continue
		}
		claimed[name] = true
		out = append(out, &MethodDescriptor{
			Name:     name,
			Kind:     host.MemberMethod,
			Receiver: c.Name,
			Result:   f.Type.Expr,
			Body:     []Statement{{Kind: StmtReturnField, Field: f.Name}},
		})
	}
	return out
}

// StringerPeer generates String() listing every field.
type StringerPeer struct{}

func (StringerPeer) Name() string { return "stringer" }

func (StringerPeer) Members(c *host.ClassDecl) []*MethodDescriptor {
	if nameTaken(c, "String") {
		return nil
	}
	var fields []string
	for _, f := range ownFields(c) {
		fields = append(fields, f.Name)
	}
	return []*MethodDescriptor{{
		Name:     "String",
		Kind:     host.MemberMethod,
		Receiver: c.Name,
		Result:   "string",
		Body:     []Statement{{Kind: StmtFormatFields, Fields: fields}},
	}}
}

// EqualPeer generates Equal(other *T) bool over the type's own fields.
// Embedded types are not compared.
type EqualPeer struct{}

func (EqualPeer) Name() string { return "equal" }

func (EqualPeer) Members(c *host.ClassDecl) []*MethodDescriptor {
	if nameTaken(c, "Equal") {
		return nil
	}
	var body []Statement
	for _, f := range ownFields(c) {
		body = append(body, Statement{Kind: StmtCompareField, Field: f.Name, Deep: !f.Type.Comparable})
	}
	if len(body) == 0 {
		return nil
	}
	return []*MethodDescriptor{{
		Name:     "Equal",
		Kind:     host.MemberMethod,
		Receiver: c.Name,
		Params:   []Param{{Name: "other", Type: "*" + c.Name}},
		Result:   "bool",
		Body:     body,
	}}
}
