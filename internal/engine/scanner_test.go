package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/rowmap/internal/host"
)

func TestScan(t *testing.T) {
	c := class("Row",
		embedded("Base"),
		column("ID", basic("int32"), ""),
		plain("cache", basic("string")),
		host.Member{Kind: host.MemberMethod, Name: "Validate"},
		column("UserName", basic("string"), ""),
		column("email", basic("string"), "mail"),
	)

	t.Run("field naming", func(t *testing.T) {
		got := Scan(c, nil)
		require.Len(t, got, 3)
		assert.Equal(t, "ID", got[0].Column)
		assert.Equal(t, "UserName", got[1].Column)
		assert.Equal(t, "mail", got[2].Column, "override wins")
		assert.Equal(t, "email", got[2].Field.Name)
		assert.Equal(t, "string", got[2].Type.Expr)
	})

	t.Run("snake naming", func(t *testing.T) {
		got := Scan(c, ColumnNamer(NamingSnake))
		require.Len(t, got, 3)
		assert.Equal(t, "user_name", got[1].Column)
		assert.Equal(t, "mail", got[2].Column)
	})

	t.Run("no marked fields", func(t *testing.T) {
		assert.Empty(t, Scan(class("Empty", plain("a", basic("int"))), nil))
	})

	t.Run("does not mutate", func(t *testing.T) {
		before := len(c.Members)
		Scan(c, nil)
		assert.Len(t, c.Members, before)
	})
}

func TestDuplicateColumns(t *testing.T) {
	bindings := Scan(class("Row",
		column("a", basic("string"), "x"),
		column("b", basic("string"), ""),
		column("c", basic("int64"), "x"),
	), nil)

	dups := duplicateColumns(bindings)
	assert.Equal(t, map[string][]string{"x": {"a", "c"}}, dups)
}
