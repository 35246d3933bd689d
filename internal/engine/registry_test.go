package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/host"
)

type countingHandler struct{ calls []string }

func (h *countingHandler) Handle(_ Context, ann host.Annotation, c *host.ClassDecl) int {
	h.calls = append(h.calls, c.Name+":"+ann.Name)
	return 1
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("data", &countingHandler{}))
	err := r.Register("data", &countingHandler{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "//rowmap:data already registered")
	assert.Equal(t, []string{"data"}, r.Names())
}

func TestRegistryProcess(t *testing.T) {
	h := &countingHandler{}
	r := NewRegistry(nil)
	require.NoError(t, r.Register("data", h))

	a := class("A")
	a.Annotations = []host.Annotation{{Name: "data"}}
	b := class("B")
	b.Annotations = []host.Annotation{{Name: "data"}, {Name: "mystery", Pos: directivePos}}

	diags := diagnostic.NewCollector(false, false)
	total := r.Process([]*host.ClassDecl{a, b}, diags)

	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"A:data", "B:data"}, h.calls)
	require.Equal(t, 1, diags.ErrorCount())
	assert.Equal(t, "unknown directive //rowmap:mystery", diags.Diagnostics()[0].Message)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(Defaults{}, DefaultPeers(false, false, false), nil)
	assert.Equal(t, []string{DataDirective}, r.Names())

	c := rowClass()
	c.Annotations = []host.Annotation{dataAnn(nil)}
	diags := diagnostic.NewCollector(false, false)
	assert.Equal(t, 2, r.Process([]*host.ClassDecl{c}, diags))
	assert.Equal(t, 2, len(Descriptors(c)))
}
