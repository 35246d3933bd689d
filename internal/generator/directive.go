package generator

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/calumari/rowmap/internal/engine"
	"github.com/calumari/rowmap/internal/host"
)

// parseDirectives extracts //rowmap: directives from a doc comment.
// Directives are line comments in the form:
//
//	//rowmap:data [callSuper] [policy=propagate|skip|collect] [naming=field|snake]
//
// A bare argument is shorthand for arg=true. Malformed directives are
// returned separately with the reason they were rejected.
func parseDirectives(fset *token.FileSet, doc *ast.CommentGroup) (anns []host.Annotation, bad []badDirective) {
	if doc == nil {
		return nil, nil
	}
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, "//"+engine.Namespace)
		if !ok {
			continue
		}
		pos := fset.Position(c.Slash)
		ann, reason := parseDirective(text)
		if reason != "" {
			bad = append(bad, badDirective{Text: c.Text, Reason: reason, Pos: pos})
			continue
		}
		ann.Pos = pos
		anns = append(anns, ann)
	}
	return anns, bad
}

type badDirective struct {
	Text   string
	Reason string
	Pos    token.Position
}

func parseDirective(text string) (host.Annotation, string) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return host.Annotation{}, "missing directive name"
	}
	ann := host.Annotation{Name: parts[0]}
	for _, p := range parts[1:] {
		k, v, found := strings.Cut(p, "=")
		if k == "" {
			return host.Annotation{}, "empty option name in " + p
		}
		if !found {
			v = "true"
		}
		if ann.Args == nil {
			ann.Args = make(map[string][]string)
		}
		ann.Args[k] = append(ann.Args[k], v)
	}
	return ann, ""
}
