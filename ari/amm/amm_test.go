package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

func TestBuiltinNumericMatchAndConvert(t *testing.T) {
	intT, ok := Builtin(ari.TypeInt)
	require.True(t, ok)

	v := ari.UintValue(23)
	assert.True(t, intT.Match(&v), "untyped uint 23 should fit INT")

	out, err := intT.Convert(&v)
	require.NoError(t, err)
	got, ok := out.DeclaredType()
	require.True(t, ok)
	assert.Equal(t, ari.TypeInt, got)

	huge := ari.UintValue(1 << 40)
	_, err = intT.Convert(&huge)
	assert.Equal(t, ari.StatusOutOfRange, ari.AsStatus(err))
}

func TestBuiltinBoolTruthy(t *testing.T) {
	boolT, _ := Builtin(ari.TypeBool)
	zero := ari.UintValue(0)
	out, err := boolT.Convert(&zero)
	require.NoError(t, err)
	b, ok := out.AsBool()
	require.True(t, ok)
	assert.False(t, b)

	nonzero := ari.IntValue(-5)
	out, err = boolT.Convert(&nonzero)
	require.NoError(t, err)
	b, _ = out.AsBool()
	assert.True(t, b)
}

func TestUListMatchAndConvert(t *testing.T) {
	elemT, _ := Builtin(ari.TypeInt)
	list := &UList{TypeName: "list-of-int", Elem: elemT, MinSize: 1, MaxSize: 3}

	ac := ari.NewAC(ari.UintValue(1), ari.UintValue(2))
	v := ari.SetContainer(ac)
	assert.True(t, list.Match(&v))

	out, err := list.Convert(&v)
	require.NoError(t, err)
	c, ok := out.Container()
	require.True(t, ok)
	got := c.(*ari.AC)
	require.Len(t, got.Items, 2)
	dt, _ := got.Items[0].DeclaredType()
	assert.Equal(t, ari.TypeInt, dt)

	empty := ari.SetContainer(ari.NewAC())
	_, err = list.Convert(&empty)
	assert.Equal(t, ari.StatusConstraint, ari.AsStatus(err))

	tooLong := ari.SetContainer(ari.NewAC(ari.UintValue(1), ari.UintValue(2), ari.UintValue(3), ari.UintValue(4)))
	_, err = list.Convert(&tooLong)
	assert.Equal(t, ari.StatusConstraint, ari.AsStatus(err))
}

func TestDListMatch(t *testing.T) {
	intT, _ := Builtin(ari.TypeInt)
	textT, _ := Builtin(ari.TypeTextstr)
	pair := &DList{TypeName: "int-text-pair", Elems: []Type{intT, textT}}

	ac := ari.NewAC(ari.UintValue(1), ari.TextValue("hi"))
	v := ari.SetContainer(ac)
	require.True(t, pair.Match(&v))

	wrongArity := ari.SetContainer(ari.NewAC(ari.UintValue(1)))
	assert.False(t, pair.Match(&wrongArity))
}

func TestUMapConvert(t *testing.T) {
	keyT, _ := Builtin(ari.TypeTextstr)
	valT, _ := Builtin(ari.TypeInt)
	m := &UMap{TypeName: "str-to-int", KeyType: keyT, ValType: valT}

	am, err := ari.NewAM(ari.AMEntry{Key: ari.TextValue("a"), Val: ari.UintValue(1)})
	require.NoError(t, err)
	v := ari.SetContainer(am)

	require.True(t, m.Match(&v))
	_, err = m.Convert(&v)
	require.NoError(t, err)
}

func TestTableTypeMatch(t *testing.T) {
	intT, _ := Builtin(ari.TypeInt)
	textT, _ := Builtin(ari.TypeTextstr)
	tt := &TableType{TypeName: "id-name", Columns: []Column{{"id", intT}, {"name", textT}}}

	tbl, err := ari.NewTBL(2, []ari.Value{ari.UintValue(1), ari.TextValue("a"), ari.UintValue(2), ari.TextValue("b")})
	require.NoError(t, err)
	v := ari.SetContainer(tbl)
	assert.True(t, tt.Match(&v))

	out, err := tt.Convert(&v)
	require.NoError(t, err)
	c, _ := out.Container()
	assert.Equal(t, 2, c.(*ari.TBL).NCols)
}

func TestUnionPicksFirstMatch(t *testing.T) {
	intT, _ := Builtin(ari.TypeInt)
	textT, _ := Builtin(ari.TypeTextstr)
	u := &Union{TypeName: "int-or-text", Alternatives: []Type{intT, textT}}

	n := ari.UintValue(5)
	out, err := u.Convert(&n)
	require.NoError(t, err)
	_, has := out.DeclaredType()
	assert.False(t, has)
	assert.True(t, out.Equal(&n))

	s := ari.TextValue("hi")
	out, err = u.Convert(&s)
	require.NoError(t, err)
	_, has = out.DeclaredType()
	assert.False(t, has)
	assert.True(t, out.Equal(&s))

	boolV := ari.BoolValue(true)
	_, err = u.Convert(&boolV)
	assert.Equal(t, ari.StatusNoChoice, ari.AsStatus(err))
}

func TestUseWithConstraints(t *testing.T) {
	textT, _ := Builtin(ari.TypeTextstr)
	name := &Use{TypeName: "short-name", Base: textT, Constraints: []Constraint{StrLen{Min: 1, Max: 8}, IdentBase{}}}

	ok := ari.TextValue("abc")
	assert.True(t, name.Match(&ok))

	tooLong := ari.TextValue("waytoolongname")
	assert.False(t, name.Match(&tooLong))

	badStart := ari.TextValue("3abc")
	assert.False(t, name.Match(&badStart))

	_, err := name.Convert(&tooLong)
	assert.Equal(t, ari.StatusConstraint, ari.AsStatus(err))
}

func TestRangeInt64Constraint(t *testing.T) {
	c := RangeInt64{Min: 0, Max: 100}
	in := ari.UintValue(50)
	assert.True(t, c.Check(&in))
	out := ari.IntValue(-1)
	assert.False(t, c.Check(&out))
}

func TestSeqMatch(t *testing.T) {
	intT, _ := Builtin(ari.TypeInt)
	seq := &Seq{TypeName: "int-seq", Elem: intT}
	v := ari.SetContainer(ari.NewAC())
	assert.True(t, seq.Match(&v), "empty sequence matches trivially")
}
