package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/host"
)

// Namespace prefixes every directive handled by a Registry.
const Namespace = "rowmap:"

// DataDirective is the directive that triggers row-mapper synthesis.
const DataDirective = "data"

// Registry maps directive names to the handlers that process them. It is
// built once at startup; there is no implicit discovery.
type Registry struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{handlers: make(map[string]Handler), logger: logger}
}

// DefaultRegistry registers the data handler with the given defaults and peers.
func DefaultRegistry(def Defaults, peers []Peer, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	// cannot fail on an empty registry
	_ = r.Register(DataDirective, &DataHandler{Defaults: def, Peers: peers})
	return r
}

// Register binds name to h. Registering a name twice is an error.
func (r *Registry) Register(name string, h Handler) error {
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("handler for //%s%s already registered", Namespace, name)
	}
	r.handlers[name] = h
	return nil
}

// Names returns the registered directive names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Process dispatches every annotation of every class to its handler and
// returns the total number of injected members. Classes are handled one
// at a time, in order.
func (r *Registry) Process(classes []*host.ClassDecl, diags *diagnostic.Collector) int {
	ctx := Context{Diags: diags, Logger: r.logger}
	total := 0
	for _, c := range classes {
		for _, ann := range c.Annotations {
			h, ok := r.handlers[ann.Name]
			if !ok {
				diags.Error(diagnostic.CategoryDirective, ann.Pos,
					fmt.Sprintf("unknown directive //%s%s", Namespace, ann.Name))
				continue
			}
			total += h.Handle(ctx, ann, c)
		}
	}
	return total
}
