package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/rowmap/internal/diagnostic"
	"github.com/calumari/rowmap/internal/host"
)

func handle(t *testing.T, h Handler, c *host.ClassDecl, ann host.Annotation) (int, *diagnostic.Collector) {
	t.Helper()
	diags := diagnostic.NewCollector(false, false)
	n := h.Handle(Context{Diags: diags}, ann, c)
	return n, diags
}

func rowClass() *host.ClassDecl {
	return class("Row",
		column("id", basic("int32"), ""),
		column("name", basic("string"), ""),
	)
}

func TestDataHandlerRowScenario(t *testing.T) {
	c := rowClass()
	c.Append(host.Member{Kind: host.MemberMethod, Name: "SetID", Arity: 1})
	c.Append(host.Member{Kind: host.MemberMethod, Name: "SetName", Arity: 1})
	n, diags := handle(t, &DataHandler{}, c, dataAnn(nil))

	require.Equal(t, 0, diags.Len())
	require.Equal(t, 2, n)
	ds := Descriptors(c)
	require.Equal(t, []string{"MapRow", "NewRow"}, names(ds))

	mapRow := ds[0]
	assert.Equal(t, host.MemberMethod, mapRow.Kind)
	assert.True(t, mapRow.Fails)
	assert.Equal(t, PolicyPropagate, mapRow.Policy)
	require.Len(t, mapRow.Params, 1)
	require.Len(t, mapRow.Body, 2)
	assert.Equal(t, StmtReadAssign, mapRow.Body[0].Kind)
	assert.Equal(t, ReadInt, mapRow.Body[0].Read)
	assert.Equal(t, "SetID", mapRow.Body[0].Setter)
	assert.Equal(t, "id", mapRow.Body[0].Column)
	assert.Equal(t, ReadString, mapRow.Body[1].Read)
	assert.Equal(t, "SetName", mapRow.Body[1].Setter)

	ctor := ds[1]
	assert.Equal(t, host.MemberConstructor, ctor.Kind)
	assert.Equal(t, "*Row", ctor.Result)
	require.Len(t, ctor.Body, 1)
	assert.Equal(t, StmtInvokeMapping, ctor.Body[0].Kind)
}

func TestDataHandlerIdempotent(t *testing.T) {
	h := &DataHandler{Peers: DefaultPeers(true, true, false)}
	c := rowClass()

	first, _ := handle(t, h, c, dataAnn(nil))
	require.Positive(t, first)
	once := names(Descriptors(c))

	second, diags := handle(t, h, c, dataAnn(nil))
	assert.Equal(t, 0, second)
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, once, names(Descriptors(c)))
}

func TestDataHandlerUserPrecedence(t *testing.T) {
	t.Run("user MapRow suppresses everything", func(t *testing.T) {
		c := rowClass()
		c.Append(host.Member{Kind: host.MemberMethod, Name: MapRowName, Arity: 1})
		n, diags := handle(t, &DataHandler{Peers: DefaultPeers(true, true, false)}, c, dataAnn(nil))
		assert.Equal(t, 0, n)
		assert.Equal(t, 0, diags.Len())
		assert.Empty(t, c.Generated())
	})

	t.Run("different arity does not conflict", func(t *testing.T) {
		c := rowClass()
		c.Append(host.Member{Kind: host.MemberMethod, Name: MapRowName, Arity: 2})
		n, _ := handle(t, &DataHandler{}, c, dataAnn(nil))
		assert.Equal(t, 2, n)
	})

	t.Run("user constructor keeps MapRow", func(t *testing.T) {
		c := rowClass()
		c.Append(host.Member{Kind: host.MemberConstructor, Name: "NewRow", Arity: 1})
		n, _ := handle(t, &DataHandler{}, c, dataAnn(nil))
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"MapRow"}, names(Descriptors(c)))
	})

	t.Run("user setter is kept", func(t *testing.T) {
		c := rowClass()
		c.Append(host.Member{Kind: host.MemberMethod, Name: "SetName", Arity: 1})
		handle(t, &DataHandler{Peers: DefaultPeers(true, false, false)}, c, dataAnn(nil))
		ds := Descriptors(c)
		assert.NotNil(t, find(ds, "SetID"))
		assert.Nil(t, find(ds, "SetName"))
	})
}

func TestDataHandlerOrderPreservation(t *testing.T) {
	c := class("Row",
		column("a", basic("string"), ""),
		column("b", basic("int64"), ""),
		column("c", basic("float64"), ""),
	)
	handle(t, &DataHandler{}, c, dataAnn(nil))

	mapRow := find(Descriptors(c), MapRowName)
	require.NotNil(t, mapRow)
	var fields []string
	for _, st := range mapRow.Body {
		fields = append(fields, st.Field)
	}
	assert.Equal(t, []string{"a", "b", "c"}, fields)
	assert.Equal(t, ReadLong, mapRow.Body[1].Read)
	assert.Equal(t, ReadDouble, mapRow.Body[2].Read)
}

func TestDataHandlerUnsupportedType(t *testing.T) {
	c := class("Row",
		column("id", basic("int64"), ""),
		column("created", host.TypeRef{Expr: "time.Time", PkgPath: "time", Ident: "Time"}, ""),
		column("flags", basic("uint8"), ""),
	)
	n, diags := handle(t, &DataHandler{Peers: DefaultPeers(true, true, false)}, c, dataAnn(nil))

	assert.Equal(t, 0, n)
	assert.Empty(t, c.Generated(), "no partial members")
	require.Equal(t, 2, diags.ErrorCount())
	msgs := diags.Diagnostics()
	assert.Equal(t, "field created of unsupported type time.Time cannot be mapped", msgs[0].Message)
	assert.Equal(t, diagnostic.CategoryTypeUnsupported, msgs[0].Category)
	assert.Equal(t, 10, msgs[0].Line)
	assert.Contains(t, msgs[1].Message, "field flags of unsupported type uint8")
}

func TestDataHandlerCallSuper(t *testing.T) {
	callSuper := map[string][]string{"callSuper": {"true"}}

	t.Run("no superclass", func(t *testing.T) {
		c := rowClass()
		n, diags := handle(t, &DataHandler{}, c, dataAnn(callSuper))
		assert.Equal(t, 0, n)
		assert.Empty(t, c.Generated())
		require.Equal(t, 1, diags.ErrorCount())
		d := diags.Diagnostics()[0]
		assert.Equal(t, "super-chaining to the root type is pointless", d.Message)
		assert.Equal(t, directivePos.Line, d.Line)
	})

	t.Run("root superclass", func(t *testing.T) {
		c := rowClass()
		c.Super = &host.Superclass{Expr: "any", Ident: "any"}
		n, diags := handle(t, &DataHandler{}, c, dataAnn(callSuper))
		assert.Equal(t, 0, n)
		assert.True(t, diags.HasErrors())
	})

	t.Run("named superclass", func(t *testing.T) {
		c := rowClass()
		c.Super = &host.Superclass{Expr: "*Base", Ident: "Base", Pointer: true}
		n, diags := handle(t, &DataHandler{}, c, dataAnn(callSuper))
		require.Equal(t, 0, diags.Len())
		require.Equal(t, 2, n)

		ctor := find(Descriptors(c), "NewRow")
		require.NotNil(t, ctor)
		require.Len(t, ctor.Body, 2)
		assert.Equal(t, StmtSuperCall, ctor.Body[0].Kind)
		assert.Equal(t, "NewBase", ctor.Body[0].Callee)
		assert.True(t, ctor.Body[0].Super.Pointer)
		assert.Equal(t, StmtInvokeMapping, ctor.Body[1].Kind)
	})

	t.Run("superclass without callSuper", func(t *testing.T) {
		c := rowClass()
		c.Super = &host.Superclass{Expr: "Base", Ident: "Base"}
		handle(t, &DataHandler{}, c, dataAnn(nil))
		ctor := find(Descriptors(c), "NewRow")
		require.NotNil(t, ctor)
		assert.Len(t, ctor.Body, 1)
	})
}

func TestDataHandlerEmptyInput(t *testing.T) {
	c := class("Row", plain("id", basic("int64")))
	n, diags := handle(t, &DataHandler{Peers: DefaultPeers(true, true, false)}, c, dataAnn(nil))
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, diags.Len())
	assert.Empty(t, c.Generated())
}

func TestDataHandlerNotAStruct(t *testing.T) {
	c := rowClass()
	c.Kind = host.DeclInterface
	n, diags := handle(t, &DataHandler{}, c, dataAnn(nil))
	assert.Equal(t, 0, n)
	require.Equal(t, 1, diags.ErrorCount())
	assert.Equal(t, "annotation only valid on a class declaration", diags.Diagnostics()[0].Message)
}

func TestDataHandlerDuplicateColumns(t *testing.T) {
	c := class("Row",
		column("a", basic("string"), "x"),
		column("b", basic("string"), "x"),
	)
	n, diags := handle(t, &DataHandler{}, c, dataAnn(nil))

	assert.Equal(t, 2, n, "duplicates do not abort")
	assert.Equal(t, 1, diags.WarningCount())
	assert.Contains(t, diags.Diagnostics()[0].Message, `column "x" is read for fields a, b`)
	mapRow := find(Descriptors(c), MapRowName)
	require.Len(t, mapRow.Body, 2, "statements are not deduplicated")
}

func TestDataHandlerOptions(t *testing.T) {
	t.Run("policy from directive", func(t *testing.T) {
		c := rowClass()
		handle(t, &DataHandler{}, c, dataAnn(map[string][]string{"policy": {"collect"}}))
		assert.Equal(t, PolicyCollect, find(Descriptors(c), MapRowName).Policy)
	})

	t.Run("policy from defaults", func(t *testing.T) {
		c := rowClass()
		handle(t, &DataHandler{Defaults: Defaults{Policy: PolicySkip}}, c, dataAnn(nil))
		assert.Equal(t, PolicySkip, find(Descriptors(c), MapRowName).Policy)
	})

	t.Run("naming from directive", func(t *testing.T) {
		c := class("Row", column("UserName", basic("string"), ""))
		handle(t, &DataHandler{}, c, dataAnn(map[string][]string{"naming": {"snake"}}))
		assert.Equal(t, "user_name", find(Descriptors(c), MapRowName).Body[0].Column)
	})

	t.Run("invalid option", func(t *testing.T) {
		c := rowClass()
		n, diags := handle(t, &DataHandler{}, c, dataAnn(map[string][]string{"policy": {"ignore"}}))
		assert.Equal(t, 0, n)
		require.Equal(t, 1, diags.ErrorCount())
		assert.Equal(t, diagnostic.CategoryDirective, diags.Diagnostics()[0].Category)
		assert.Contains(t, diags.Diagnostics()[0].Message, `unknown policy "ignore"`)
	})

	t.Run("unknown key", func(t *testing.T) {
		c := rowClass()
		n, diags := handle(t, &DataHandler{}, c, dataAnn(map[string][]string{"super": {"true"}}))
		assert.Equal(t, 0, n)
		assert.True(t, diags.HasErrors())
	})
}

func TestDataHandlerProvenance(t *testing.T) {
	c := rowClass()
	handle(t, &DataHandler{Peers: DefaultPeers(true, true, false)}, c, dataAnn(nil))

	for _, m := range c.Generated() {
		require.NotNil(t, m.Generated, m.Name)
		assert.Equal(t, GeneratorTag, m.Generated.Generator)
		assert.Equal(t, DataDirective, m.Generated.Annotation)
		assert.Equal(t, directivePos, m.Pos)
		d := m.Node.(*MethodDescriptor)
		for _, st := range d.Body {
			assert.Equal(t, directivePos, st.Pos)
		}
		assert.Equal(t, StatePresentEngine, Resolve(c, m.Name, m.Arity))
	}
}

func TestDataHandlerConversion(t *testing.T) {
	c := class("Row",
		column("Status", host.TypeRef{Expr: "Status", Underlying: "string", Ident: "Status"}, "status"),
		column("Count", basic("int"), "count"),
	)
	handle(t, &DataHandler{}, c, dataAnn(nil))
	body := find(Descriptors(c), MapRowName).Body
	require.NotNil(t, body[0].Convert)
	assert.Equal(t, "Status", body[0].Convert.Expr)
	require.NotNil(t, body[1].Convert)
	assert.Equal(t, "int", body[1].Convert.Expr)
}

func TestDataHandlerSetterBinding(t *testing.T) {
	t.Run("generated setters are called", func(t *testing.T) {
		c := rowClass()
		handle(t, &DataHandler{Peers: DefaultPeers(true, false, false)}, c, dataAnn(nil))
		body := find(Descriptors(c), MapRowName).Body
		assert.Equal(t, "SetID", body[0].Setter)
		assert.Equal(t, "SetName", body[1].Setter)
	})

	t.Run("fields assigned directly without setters", func(t *testing.T) {
		c := rowClass()
		c.Append(host.Member{Kind: host.MemberMethod, Name: "SetName", Arity: 1})
		n, diags := handle(t, &DataHandler{}, c, dataAnn(nil))
		assert.Equal(t, 2, n)
		assert.False(t, diags.HasErrors())

		body := find(Descriptors(c), MapRowName).Body
		assert.Empty(t, body[0].Setter)
		assert.Equal(t, "id", body[0].Field)
		assert.Equal(t, "SetName", body[1].Setter, "hand-written setter kept")
	})
}
