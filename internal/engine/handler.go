package engine

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"strings"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/host"
)

// Context carries the collaborators a handler reports to.
type Context struct {
	Diags  *diagnostic.Collector
	Logger *slog.Logger
}

func (ctx Context) logger() *slog.Logger {
	if ctx.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ctx.Logger
}

// Handler synthesizes members for one annotated declaration and returns
// how many it injected.
type Handler interface {
	Handle(ctx Context, ann host.Annotation, c *host.ClassDecl) int
}

// DataHandler implements //rowmap:data: companion members from the peers,
// a MapRow method populating the type from one row, and a New<Type>
// constructor.
type DataHandler struct {
	Defaults Defaults
	Peers    []Peer
}

// Handle runs the whole pipeline for c. Members are injected only when
// every step succeeded, so a class either gets all of its members or none.
func (h *DataHandler) Handle(ctx Context, ann host.Annotation, c *host.ClassDecl) int {
	log := ctx.logger().With(slog.String("type", c.Name))

	if c.Kind != host.DeclStruct {
		ctx.Diags.ErrorWithHint(diagnostic.CategoryUsage, ann.Pos,
			"annotation only valid on a class declaration",
			"//rowmap:"+ann.Name+" must directly precede a struct type declaration")
		return 0
	}

	opts, err := decodeOptions(ann, h.Defaults)
	if err != nil {
		ctx.Diags.Error(diagnostic.CategoryDirective, ann.Pos, err.Error())
		return 0
	}

	if opts.CallSuper && !validCallSuper(c) {
		ctx.Diags.ErrorWithHint(diagnostic.CategoryCallSuper, ann.Pos,
			"super-chaining to the root type is pointless",
			"embed the type whose constructor should run first, or drop callSuper")
		return 0
	}

	bindings := Scan(c, ColumnNamer(opts.Naming))
	if len(bindings) == 0 {
		log.Debug("no column fields")
		return 0
	}
	reportDuplicates(ctx.Diags, bindings)

	if state := Resolve(c, MapRowName, 1); state != StateAbsent {
		log.Debug("mapping method exists", slog.String("state", state.String()))
		return 0
	}

	var pending []*MethodDescriptor
	for _, p := range h.Peers {
		ms := p.Members(c)
		log.Debug("peer", slog.String("peer", p.Name()), slog.Int("members", len(ms)))
		pending = append(pending, ms...)
	}

	s := &synthesizer{class: c, policy: ErrorPolicy(opts.Policy)}
	mapRow, err := s.mapRow(bindings)
	if err != nil {
		reportUnsupported(ctx.Diags, err)
		return 0
	}
	bindSetters(c, pending, mapRow)
	pending = append(pending, mapRow)

	ctor := ConstructorName(c.Name)
	if state := Resolve(c, ctor, 1); state == StateAbsent {
		pending = append(pending, s.constructor(opts.CallSuper))
	} else {
		log.Debug("constructor exists", slog.String("state", state.String()))
	}

	for _, d := range pending {
		tag(d, ann)
	}
	inject(c, pending)
	log.Debug("injected", slog.Int("members", len(pending)), slog.Int("columns", len(bindings)))
	return len(pending)
}

// bindSetters routes each read through Set<Field> only when that setter is
// declared on c or generated alongside MapRow. Otherwise the field is
// assigned directly.
func bindSetters(c *host.ClassDecl, pending []*MethodDescriptor, mapRow *MethodDescriptor) {
	generated := map[string]bool{}
	for _, d := range pending {
		if d.Kind == host.MemberMethod && d.Arity() == 1 {
			generated[d.Name] = true
		}
	}
	for i := range mapRow.Body {
		st := &mapRow.Body[i]
		if generated[st.Setter] || Resolve(c, st.Setter, 1) != StateAbsent {
			continue
		}
		st.Setter = ""
	}
}

func reportDuplicates(diags *diagnostic.Collector, bindings []Binding) {
	dups := duplicateColumns(bindings)
	if len(dups) == 0 {
		return
	}
	for _, b := range bindings {
		fields, ok := dups[b.Column]
		if !ok || fields[0] == b.Field.Name {
			continue
		}
		diags.Warn(diagnostic.CategoryDuplicateColumn, b.Field.Pos,
			fmt.Sprintf("column %q is read for fields %s", b.Column, strings.Join(fields, ", ")))
		delete(dups, b.Column)
	}
}

func reportUnsupported(diags *diagnostic.Collector, err error) {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		var ute *UnsupportedTypeError
		if errors.As(e, &ute) {
			diags.ErrorWithHint(diagnostic.CategoryTypeUnsupported, ute.Pos, ute.Error(),
				"supported: string, int, int32, int64, float32, float64, bool and named types over them")
			continue
		}
		diags.Error(diagnostic.CategoryTypeUnsupported, token.Position{}, e.Error())
	}
}
