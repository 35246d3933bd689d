package engine

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/calumari/rowmap/internal/host"
)

var optionDecoder = schema.NewDecoder()

// Options are the per-declaration settings carried by a directive.
type Options struct {
	CallSuper bool   `schema:"callSuper"`
	Policy    string `schema:"policy"`
	Naming    string `schema:"naming"`
}

// Defaults are applied before directive arguments are decoded.
type Defaults struct {
	Policy ErrorPolicy
	Naming string
}

// decodeOptions reads ann's arguments over the defaults.
func decodeOptions(ann host.Annotation, def Defaults) (Options, error) {
	opts := Options{Policy: string(def.Policy), Naming: def.Naming}
	if opts.Policy == "" {
		opts.Policy = string(PolicyPropagate)
	}
	if opts.Naming == "" {
		opts.Naming = NamingField
	}
	if len(ann.Args) > 0 {
		if err := optionDecoder.Decode(&opts, ann.Args); err != nil {
			return Options{}, &DirectiveError{Directive: ann.Name, Cause: err}
		}
	}
	if !ErrorPolicy(opts.Policy).Valid() {
		return Options{}, &DirectiveError{Directive: ann.Name, Message: fmt.Sprintf("unknown policy %q", opts.Policy)}
	}
	if opts.Naming != NamingField && opts.Naming != NamingSnake {
		return Options{}, &DirectiveError{Directive: ann.Name, Message: fmt.Sprintf("unknown naming %q", opts.Naming)}
	}
	return opts, nil
}
