package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperclassIsRoot(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"any", true},
		{"interface{}", true},
		{"interface { }", true},
		{"*any", true},
		{"Base", false},
		{"models.Base", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Superclass{Expr: tt.expr}).IsRoot())
		})
	}
	var nilSuper *Superclass
	assert.False(t, nilSuper.IsRoot())
}

func TestClassDeclLookup(t *testing.T) {
	c := &ClassDecl{
		Name: "Row",
		Members: []Member{
			{Kind: MemberField, Name: "MapRow", Field: &Field{Name: "MapRow"}},
			{Kind: MemberMethod, Name: "MapRow", Arity: 2},
			{Kind: MemberConstructor, Name: "NewRow", Arity: 1},
		},
	}

	_, ok := c.Lookup("MapRow", 1)
	assert.False(t, ok, "fields and other arities never match")

	m, ok := c.Lookup("NewRow", 1)
	require.True(t, ok)
	assert.Equal(t, MemberConstructor, m.Kind)
}

func TestClassDeclAppendAndGenerated(t *testing.T) {
	c := &ClassDecl{Name: "Row"}
	c.Append(Member{Kind: MemberMethod, Name: "Own"})
	c.Append(Member{Kind: MemberMethod, Name: "MapRow", Arity: 1, Generated: &Provenance{Generator: "rowmap"}})

	gen := c.Generated()
	require.Len(t, gen, 1)
	assert.Equal(t, "MapRow", gen[0].Name)
	assert.Len(t, c.Members, 2)
}
