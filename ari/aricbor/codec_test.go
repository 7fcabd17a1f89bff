package aricbor

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

func roundTrip(t *testing.T, v ari.Value) []byte {
	t.Helper()
	b, err := Encode(&v)
	require.NoError(t, err)
	got, err := DecodeComplete(b)
	require.NoError(t, err)
	assert.True(t, v.Equal(&got), "round trip changed the value")
	return b
}

func TestRoundTripScalars(t *testing.T) {
	cases := map[string]ari.Value{
		"null":   ari.NullValue(),
		"bool":   ari.BoolValue(true),
		"uint":   ari.UintValue(34),
		"int":    ari.IntValue(-1234),
		"text":   ari.TextValue("hello"),
		"bytes":  ari.ByteValue([]byte{0x01, 0x02, 0x03}),
		"float":  ari.FloatValue(1.5),
		"label":  ari.LabelValue("mylabel"),
	}
	for name, v := range cases {
		v := v
		t.Run(name, func(t *testing.T) {
			roundTrip(t, v)
		})
	}
}

func TestRoundTripTypedNumeric(t *testing.T) {
	v := ari.IntValue(-1234)
	require.NoError(t, v.SetDeclaredType(ari.TypeInt, true))
	b := roundTrip(t, v)
	assert.Equal(t, "82043904d1", hex.EncodeToString(b))
}

func TestRoundTripAC(t *testing.T) {
	ac := ari.NewAC(ari.NullValue(), func() ari.Value {
		v := ari.IntValue(23)
		_ = v.SetDeclaredType(ari.TypeInt, true)
		return v
	}())
	v := ari.SetContainer(ac)
	b := roundTrip(t, v)
	assert.Equal(t, "821182f6820417", hex.EncodeToString(b))
}

func TestRoundTripAM(t *testing.T) {
	m, err := ari.NewAM(
		ari.AMEntry{Key: ari.TextValue("a"), Val: ari.IntValue(1)},
		ari.AMEntry{Key: ari.TextValue("b"), Val: ari.IntValue(2)},
	)
	require.NoError(t, err)
	v := ari.SetContainer(m)
	roundTrip(t, v)
}

func TestRoundTripReferenceWithPositionalParams(t *testing.T) {
	path := ari.ObjectPath{
		Org:     ari.TextSeg("example"),
		Model:   ari.TextSeg("test"),
		TypeSeg: ari.IntSeg(int64(ari.TypeCtrl)),
		Object:  ari.TextSeg("hi"),
	}
	params := ari.PositionalParams(ari.NewAC(ari.IntValue(34)))
	v := ari.RefValueWithParams(path, params)
	b := roundTrip(t, v)
	assert.Equal(t, "85676578616d706c65647465737422626869811822", hex.EncodeToString(b))
}

func TestRoundTripReferenceWithRevision(t *testing.T) {
	path := ari.ObjectPath{
		Org:     ari.TextSeg("example"),
		Model:   ari.TextSeg("test"),
		Rev:     ari.RevisionDate{Year: 2023, Month: 6, Day: 15, Present: true},
		TypeSeg: ari.IntSeg(int64(ari.TypeConst)),
		Object:  ari.TextSeg("k"),
	}
	v := ari.RefValue(path)
	roundTrip(t, v)
}

func TestRoundTripEXECSet(t *testing.T) {
	set := &ari.EXECSet{
		Nonce: ari.UintValue(7),
		Targets: []ari.Value{
			ari.RefValue(ari.ObjectPath{
				Org: ari.TextSeg("example"), Model: ari.TextSeg("test"),
				TypeSeg: ari.IntSeg(int64(ari.TypeCtrl)), Object: ari.TextSeg("hi"),
			}),
		},
	}
	v := ari.SetContainer(set)
	roundTrip(t, v)
}

func TestRoundTripRPTSet(t *testing.T) {
	refTime := ari.TimeValue(ari.Timespec{Sec: 1000})
	require.NoError(t, refTime.SetDeclaredType(ari.TypeTP, true))
	relTime := ari.TimeValue(ari.Timespec{Sec: 5})
	require.NoError(t, relTime.SetDeclaredType(ari.TypeTD, true))
	set := &ari.RPTSet{
		Nonce:   ari.UintValue(1),
		RefTime: refTime,
		Reports: []ari.Report{
			{
				RelTime: relTime,
				Source: ari.RefValue(ari.ObjectPath{
					Org: ari.TextSeg("example"), Model: ari.TextSeg("test"),
					TypeSeg: ari.IntSeg(int64(ari.TypeEDD)), Object: ari.TextSeg("e"),
				}),
				Items: []ari.Value{ari.IntValue(42)},
			},
		},
	}
	v := ari.SetContainer(set)
	roundTrip(t, v)
}

func TestRoundTripTimespecFractional(t *testing.T) {
	v := ari.TimeValue(ari.Timespec{Sec: 3, Nsec: 500_000_000})
	require.NoError(t, v.SetDeclaredType(ari.TypeTD, true))
	roundTrip(t, v)
}

func TestEncodeRejectsUndefined(t *testing.T) {
	_, err := Encode(&ari.Value{})
	require.Error(t, err)
	assert.Equal(t, ari.StatusArgument, ari.AsStatus(err))
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	v := ari.NullValue()
	b, err := Encode(&v)
	require.NoError(t, err)
	_, err = DecodeComplete(append(b, 0xFF))
	require.Error(t, err)
}

func TestDecodeRejectsMalformedCBOR(t *testing.T) {
	_, _, err := Decode([]byte{0xFF, 0xFF})
	require.Error(t, err)
	assert.Equal(t, ari.StatusDecoding, ari.AsStatus(err))
}

func TestDecodeReportsConsumedLength(t *testing.T) {
	v := ari.NullValue()
	b, err := Encode(&v)
	require.NoError(t, err)
	b = append(b, 0x01, 0x02)
	_, n, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, len(b)-2, n)
}
