package aritext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []string{
		`null`,
		`true`,
		`34`,
		`-1234`,
		`"hello"`,
		`/INT/-1234`,
		`/AC/(null,/INT/23)`,
		`//example/test/CTRL/hi`,
		`//example/test/CTRL/hi(34)`,
		`//example/test@20230615/CONST/k`,
		`/CTRL/hi(34)`,
	}
	for _, src := range cases {
		src := src
		t.Run(src, func(t *testing.T) {
			v, err := Parse(src)
			require.NoError(t, err, "parse %q", src)
			out, err := Format(&v)
			require.NoError(t, err, "format %q", src)
			v2, err := Parse(out)
			require.NoError(t, err, "re-parse %q", out)
			assert.True(t, v.Equal(&v2), "round trip %q -> %q changed the value", src, out)
		})
	}
}

func TestParseNamedParams(t *testing.T) {
	v, err := Parse(`//example/test/CTRL/hi(x=1,y="two")`)
	require.NoError(t, err)
	ref := v.Ref()
	require.NotNil(t, ref)
	am, ok := ref.Params.AM()
	require.True(t, ok)
	key := ari.TextValue("x")
	val, ok := am.Get(&key)
	require.True(t, ok)
	n, ok := val.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 1, n)
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse(`/NOTATYPE/5`)
	require.Error(t, err)
	assert.Equal(t, ari.StatusDecoding, ari.AsStatus(err))
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse(`34 garbage`)
	require.Error(t, err)
}

func TestFormatRejectsUndefined(t *testing.T) {
	_, err := Format(&ari.Value{})
	require.Error(t, err)
}
