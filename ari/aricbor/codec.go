// Package aricbor implements the binary (CBOR) wire codec for ARI
// values: §4.2 and §6.1 of this module's specification. Leaf-level
// integer, float, text, and byte-string framing is delegated to
// github.com/fxamacker/cbor/v2; this package supplies the ARI-specific
// array/map shapes (typed-literal pairs, object-reference tuples,
// tagged day-dates, and the five container encodings).
package aricbor

import (
	"bytes"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// dayDateTag is the CBOR tag for "days since 1970-01-01" used to encode
// an object path's optional model-revision date (RFC 8943).
const dayDateTag = 100

var log = logrus.WithField("component", "aricbor")

// Encode renders v as its canonical binary form. Encoding an undefined
// value is an argument error: the wire format has no representation
// for "no value at all".
func Encode(v *ari.Value) ([]byte, error) {
	log.Debug("encoding ARI")
	if v.IsUndefined() {
		return nil, ari.NewErr(ari.StatusArgument, "cannot encode the undefined ARI")
	}
	buf := new(bytes.Buffer)
	if err := encodeValue(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses one ARI from the front of data and returns it along
// with the number of bytes consumed. Trailing bytes are the caller's
// concern, per §4.2. On failure the returned Value is Undefined.
func Decode(data []byte) (ari.Value, int, error) {
	dec := cbor.NewDecoder(bytes.NewReader(data))
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return ari.Undefined(), 0, ari.Wrap(ari.StatusDecoding, err, "malformed CBOR")
	}
	v, err := fromRaw(raw)
	if err != nil {
		return ari.Undefined(), 0, err
	}
	return v, dec.NumBytesRead(), nil
}

// DecodeComplete is like Decode but treats any trailing byte as a
// decoding error, per §4.2 ("excess input ... is a decoding error
// unless the caller requests the consumed-length output").
func DecodeComplete(data []byte) (ari.Value, error) {
	v, n, err := Decode(data)
	if err != nil {
		return ari.Undefined(), err
	}
	if n != len(data) {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "%d trailing byte(s) after ARI", len(data)-n)
	}
	return v, nil
}

// --- encode ----------------------------------------------------------------

func encodeValue(buf *bytes.Buffer, v *ari.Value) error {
	if v.IsRef() {
		return encodeReference(buf, v.Ref())
	}

	declType, hasType := v.DeclaredType()
	if !hasType {
		return encodePrimitive(buf, v)
	}
	buf.Write(arrayHeader(2))
	if err := encodeScalar(buf, int64(declType)); err != nil {
		return err
	}
	return encodePrimitive(buf, v)
}

func encodePrimitive(buf *bytes.Buffer, v *ari.Value) error {
	switch v.Tag() {
	case ari.PrimNull:
		return encodeScalar(buf, nil)
	case ari.PrimBool:
		b, _ := v.AsBool()
		return encodeScalar(buf, b)
	case ari.PrimUint64:
		u, _ := v.AsUint()
		return encodeScalar(buf, u)
	case ari.PrimInt64:
		i, _ := v.AsInt()
		return encodeScalar(buf, i)
	case ari.PrimFloat64:
		f, _ := v.AsFloat()
		declType, _ := v.DeclaredType()
		if declType == ari.TypeReal32 {
			return encodeFloat32(buf, float32(f))
		}
		return encodeFloat64(buf, f)
	case ari.PrimText:
		s, _ := v.AsText()
		return encodeScalar(buf, s)
	case ari.PrimByte:
		b, _ := v.AsBytes()
		return encodeScalar(buf, b.Bytes())
	case ari.PrimTimespec:
		ts, _ := v.AsTime()
		return encodeTimespec(buf, ts)
	case ari.PrimOther:
		return encodeContainer(buf, v)
	default:
		return ari.NewErr(ari.StatusArgument, "cannot encode primitive tag %d", v.Tag())
	}
}

func encodeScalar(buf *bytes.Buffer, x interface{}) error {
	b, err := cbor.Marshal(x)
	if err != nil {
		return ari.Wrap(ari.StatusArgument, err, "cbor leaf encode")
	}
	buf.Write(b)
	return nil
}

func encodeFloat32(buf *bytes.Buffer, f float32) error {
	buf.WriteByte(0xFA)
	var b [4]byte
	bits := math.Float32bits(f)
	b[0] = byte(bits >> 24)
	b[1] = byte(bits >> 16)
	b[2] = byte(bits >> 8)
	b[3] = byte(bits)
	buf.Write(b[:])
	return nil
}

func encodeFloat64(buf *bytes.Buffer, f float64) error {
	buf.WriteByte(0xFB)
	var b [8]byte
	bits := math.Float64bits(f)
	for i := 0; i < 8; i++ {
		b[i] = byte(bits >> uint(56-8*i))
	}
	buf.Write(b[:])
	return nil
}

func encodeTimespec(buf *bytes.Buffer, ts ari.Timespec) error {
	if ts.Nsec == 0 {
		sec := int64(ts.Sec)
		if ts.Neg {
			sec = -sec
		}
		return encodeScalar(buf, sec)
	}

	// Normalize to [exponent, mantissa] with the mantissa in
	// nanoseconds, stripping trailing factors of ten.
	mantissa := int64(ts.Sec)*1_000_000_000 + int64(ts.Nsec)
	exponent := -9
	for mantissa != 0 && mantissa%10 == 0 && exponent < 0 {
		mantissa /= 10
		exponent++
	}
	if ts.Neg {
		mantissa = -mantissa
	}
	buf.Write(arrayHeader(2))
	if err := encodeScalar(buf, int64(exponent)); err != nil {
		return err
	}
	return encodeScalar(buf, mantissa)
}

func encodeContainer(buf *bytes.Buffer, v *ari.Value) error {
	if t, ok := v.AsARIType(); ok {
		return encodeScalar(buf, int64(t))
	}
	c, ok := v.Container()
	if !ok {
		return ari.NewErr(ari.StatusArgument, "literal tagged Other without a container")
	}
	switch c := c.(type) {
	case *ari.AC:
		buf.Write(arrayHeader(uint64(len(c.Items))))
		for i := range c.Items {
			if err := encodeValue(buf, &c.Items[i]); err != nil {
				return err
			}
		}
		return nil
	case *ari.AM:
		buf.Write(mapHeader(uint64(c.Len())))
		for _, e := range c.Entries() {
			if err := encodeValue(buf, &e.Key); err != nil {
				return err
			}
			if err := encodeValue(buf, &e.Val); err != nil {
				return err
			}
		}
		return nil
	case *ari.TBL:
		buf.Write(arrayHeader(uint64(1 + len(c.Items))))
		if err := encodeScalar(buf, uint64(c.NCols)); err != nil {
			return err
		}
		for i := range c.Items {
			if err := encodeValue(buf, &c.Items[i]); err != nil {
				return err
			}
		}
		return nil
	case *ari.EXECSet:
		buf.Write(arrayHeader(uint64(1 + len(c.Targets))))
		if err := encodeValue(buf, &c.Nonce); err != nil {
			return err
		}
		for i := range c.Targets {
			if err := encodeValue(buf, &c.Targets[i]); err != nil {
				return err
			}
		}
		return nil
	case *ari.RPTSet:
		buf.Write(arrayHeader(uint64(2 + len(c.Reports))))
		if err := encodeValue(buf, &c.Nonce); err != nil {
			return err
		}
		if err := encodeValue(buf, &c.RefTime); err != nil {
			return err
		}
		for _, rep := range c.Reports {
			if err := encodeReport(buf, rep); err != nil {
				return err
			}
		}
		return nil
	default:
		return ari.NewErr(ari.StatusArgument, "unknown container type")
	}
}

func encodeReport(buf *bytes.Buffer, r ari.Report) error {
	buf.Write(arrayHeader(uint64(2 + len(r.Items))))
	if err := encodeValue(buf, &r.RelTime); err != nil {
		return err
	}
	if err := encodeValue(buf, &r.Source); err != nil {
		return err
	}
	for i := range r.Items {
		if err := encodeValue(buf, &r.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func encodeReference(buf *bytes.Buffer, ref *ari.Reference) error {
	n := 4
	if ref.Path.Rev.Present {
		n++
	}
	params := ref.Params
	if params.Kind() != ari.ParamNone {
		n++
	}
	buf.Write(arrayHeader(uint64(n)))

	if err := encodeIDSeg(buf, ref.Path.Org); err != nil {
		return err
	}
	if err := encodeIDSeg(buf, ref.Path.Model); err != nil {
		return err
	}
	if ref.Path.Rev.Present {
		if err := encodeRevision(buf, ref.Path.Rev); err != nil {
			return err
		}
	}
	if err := encodeIDSeg(buf, ref.Path.TypeSeg); err != nil {
		return err
	}
	if err := encodeIDSeg(buf, ref.Path.Object); err != nil {
		return err
	}
	switch params.Kind() {
	case ari.ParamAC:
		ac, _ := params.AC()
		buf.Write(arrayHeader(uint64(len(ac.Items))))
		for i := range ac.Items {
			if err := encodeValue(buf, &ac.Items[i]); err != nil {
				return err
			}
		}
	case ari.ParamAM:
		am, _ := params.AM()
		buf.Write(mapHeader(uint64(am.Len())))
		for _, e := range am.Entries() {
			if err := encodeValue(buf, &e.Key); err != nil {
				return err
			}
			if err := encodeValue(buf, &e.Val); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeIDSeg(buf *bytes.Buffer, seg ari.IDSegment) error {
	switch seg.Kind() {
	case ari.IDSegNull:
		return encodeScalar(buf, nil)
	case ari.IDSegInt:
		n, _ := seg.Int()
		return encodeScalar(buf, n)
	default:
		s, _ := seg.Text()
		return encodeScalar(buf, s)
	}
}

func encodeRevision(buf *bytes.Buffer, rev ari.RevisionDate) error {
	days := daysSinceEpoch(int(rev.Year), int(rev.Month), int(rev.Day))
	b, err := cbor.Marshal(cbor.Tag{Number: dayDateTag, Content: int64(days)})
	if err != nil {
		return ari.Wrap(ari.StatusArgument, err, "encode revision date tag")
	}
	buf.Write(b)
	return nil
}

func arrayHeader(n uint64) []byte { return header(0x80, n) }
func mapHeader(n uint64) []byte   { return header(0xA0, n) }

// header builds a CBOR major-type-plus-length prefix by hand, matching
// §6.1's bit-exact wire examples.
func header(major byte, n uint64) []byte {
	switch {
	case n < 24:
		return []byte{major | byte(n)}
	case n <= 0xFF:
		return []byte{major | 24, byte(n)}
	case n <= 0xFFFF:
		return []byte{major | 25, byte(n >> 8), byte(n)}
	case n <= 0xFFFFFFFF:
		return []byte{major | 26, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	default:
		b := make([]byte, 9)
		b[0] = major | 27
		for i := 0; i < 8; i++ {
			b[1+i] = byte(n >> uint(56-8*i))
		}
		return b
	}
}
