package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhuapl-dtnma/ari-go/ari"
	"github.com/jhuapl-dtnma/ari-go/ari/amm"
)

func intFormal(name string) Formal {
	t, _ := amm.Builtin(ari.TypeInt)
	return Formal{Name: name, Type: t}
}

func TestPopulateNoneRequiresDefaults(t *testing.T) {
	dflt := ari.IntValue(7)
	formals := []Formal{{Name: "n", Type: intFormal("n").Type, Default: &dflt}}
	b, err := Populate(formals, ari.NoParams())
	require.NoError(t, err)
	v, ok := b.Get("n")
	require.True(t, ok)
	n, ok := v.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 7, n)
}

func TestPopulateNoneMissingRequired(t *testing.T) {
	formals := []Formal{intFormal("n")}
	_, err := Populate(formals, ari.NoParams())
	assert.Equal(t, ari.StatusArgument, ari.AsStatus(err))
}

func TestPopulatePositional(t *testing.T) {
	formals := []Formal{intFormal("x"), intFormal("y")}
	ac := ari.NewAC(ari.UintValue(1), ari.UintValue(2))
	b, err := Populate(formals, ari.PositionalParams(ac))
	require.NoError(t, err)
	xv, _ := b.Get("x")
	yv, _ := b.Get("y")
	x, _ := xv.AsInt()
	y, _ := yv.AsInt()
	assert.EqualValues(t, 1, x)
	assert.EqualValues(t, 2, y)
	xo, _ := b.GetOrdinal(0)
	yo, _ := b.GetOrdinal(1)
	assert.True(t, xo.Equal(&xv))
	assert.True(t, yo.Equal(&yv))
}

func TestPopulatePositionalTooMany(t *testing.T) {
	formals := []Formal{intFormal("x")}
	ac := ari.NewAC(ari.UintValue(1), ari.UintValue(2))
	_, err := Populate(formals, ari.PositionalParams(ac))
	assert.Equal(t, ari.StatusArgument, ari.AsStatus(err))
}

func TestPopulateNamed(t *testing.T) {
	formals := []Formal{intFormal("x"), intFormal("y")}
	am, err := ari.NewAM(ari.AMEntry{Key: ari.TextValue("x"), Val: ari.UintValue(5)})
	require.NoError(t, err)
	pb, err := ari.NamedParams(am)
	require.NoError(t, err)
	formals[1].Optional = true
	b, err := Populate(formals, pb)
	require.NoError(t, err)
	xv, _ := b.Get("x")
	x, _ := xv.AsInt()
	assert.EqualValues(t, 5, x)
	yv, _ := b.Get("y")
	assert.True(t, yv.IsUndefined())
}

func TestPopulateNamedByOrdinal(t *testing.T) {
	formals := []Formal{intFormal("x"), intFormal("y")}
	am, err := ari.NewAM(ari.AMEntry{Key: ari.UintValue(1), Val: ari.UintValue(9)})
	require.NoError(t, err)
	pb, err := ari.NamedParams(am)
	require.NoError(t, err)
	formals[0].Optional = true
	b, err := Populate(formals, pb)
	require.NoError(t, err)
	yv, ok := b.Get("y")
	require.True(t, ok)
	y, _ := yv.AsInt()
	assert.EqualValues(t, 9, y)
}

func TestPopulateNamedBothFormsConflict(t *testing.T) {
	formals := []Formal{intFormal("x")}
	am, err := ari.NewAM(
		ari.AMEntry{Key: ari.UintValue(0), Val: ari.UintValue(1)},
		ari.AMEntry{Key: ari.TextValue("x"), Val: ari.UintValue(2)},
	)
	require.NoError(t, err)
	pb, err := ari.NamedParams(am)
	require.NoError(t, err)
	_, err = Populate(formals, pb)
	assert.Equal(t, ari.StatusArgument, ari.AsStatus(err))
}

func TestPopulateNamedUnknownKey(t *testing.T) {
	formals := []Formal{intFormal("x")}
	am, err := ari.NewAM(ari.AMEntry{Key: ari.TextValue("z"), Val: ari.UintValue(5)})
	require.NoError(t, err)
	pb, err := ari.NamedParams(am)
	require.NoError(t, err)
	_, err = Populate(formals, pb)
	assert.Equal(t, ari.StatusArgument, ari.AsStatus(err))
}

func TestSubstituteLabels(t *testing.T) {
	label := ari.LabelValue("x")
	ac := ari.NewAC(label, ari.UintValue(99))
	template := ari.SetContainer(ac)

	formals := []Formal{intFormal("x")}
	binding, err := Populate(formals, ari.PositionalParams(ari.NewAC(ari.UintValue(42))))
	require.NoError(t, err)

	out, err := SubstituteLabels(&template, binding)
	require.NoError(t, err)

	c, ok := out.Container()
	require.True(t, ok)
	got := c.(*ari.AC)
	n, ok := got.Items[0].AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 42, n)
}

func TestSubstituteLabelsByOrdinal(t *testing.T) {
	label := ari.LabelOrdinal(0)
	ac := ari.NewAC(label, ari.UintValue(99))
	template := ari.SetContainer(ac)

	formals := []Formal{intFormal("x")}
	binding, err := Populate(formals, ari.PositionalParams(ari.NewAC(ari.UintValue(7))))
	require.NoError(t, err)

	out, err := SubstituteLabels(&template, binding)
	require.NoError(t, err)

	c, ok := out.Container()
	require.True(t, ok)
	got := c.(*ari.AC)
	n, ok := got.Items[0].AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 7, n)
}

func TestProduceEndToEnd(t *testing.T) {
	formals := []Formal{intFormal("n")}
	label := ari.LabelValue("n")
	template := label
	ac := ari.NewAC(ari.UintValue(3))

	out, err := Produce(formals, ari.PositionalParams(ac), &template)
	require.NoError(t, err)
	n, ok := out.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 3, n)
}

func TestValueProducerRegisterAndInvoke(t *testing.T) {
	p := NewValueProducer()
	p.Register("uptime", func(b *Binding) (ari.Value, error) {
		return ari.UintValue(123), nil
	})
	out, err := p.Produce("uptime", nil)
	require.NoError(t, err)
	u, ok := out.AsUint()
	require.True(t, ok)
	assert.EqualValues(t, 123, u)

	_, err = p.Produce("missing", nil)
	assert.Equal(t, ari.StatusUnimplemented, ari.AsStatus(err))
}

type denyAll struct{}

func (denyAll) Allowed(string, ari.ObjectPath) bool { return false }

func TestInvokeDeniesPermission(t *testing.T) {
	p := NewValueProducer()
	p.Register("secret", func(b *Binding) (ari.Value, error) { return ari.NullValue(), nil })
	_, err := Invoke(denyAll{}, "alice", ari.ObjectPath{}, "secret", nil, ari.NoParams(), p)
	assert.Equal(t, ari.StatusPermissionDenied, ari.AsStatus(err))
}
