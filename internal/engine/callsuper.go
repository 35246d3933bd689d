package engine

import "github.com/calumari/rowmap/internal/host"

// validCallSuper reports whether chaining to the superclass constructor is
// meaningful for c. A missing superclass, or one that is the root type,
// has no constructor taking a row source. Whether New<Super> actually
// exists is left to the type checker.
func validCallSuper(c *host.ClassDecl) bool {
	return c.Super != nil && !c.Super.IsRoot()
}
