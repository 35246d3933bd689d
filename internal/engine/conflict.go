package engine

import "github.com/calumari/rowmap/internal/host"

// Resolve classifies a member name and arity on c. Hand-written members
// always win over generated ones: callers synthesize only when the result
// is StateAbsent.
func Resolve(c *host.ClassDecl, name string, arity int) State {
	m, ok := c.Lookup(name, arity)
	if !ok {
		return StateAbsent
	}
	if m.Generated != nil {
		return StatePresentEngine
	}
	return StatePresentUser
}

// nameTaken reports whether name is used by any member of c regardless of
// arity. Go forbids a method and field sharing a name, and methods cannot
// be overloaded, so peers check this instead of an exact signature.
func nameTaken(c *host.ClassDecl, name string) bool {
	for _, m := range c.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}
