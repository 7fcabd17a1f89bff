// Package ari implements the AMM Resource Identifier data model: the
// recursive, discriminated value type used throughout a DTN network
// management protocol to address managed objects and carry literal data.
//
// A Value is either a literal (a primitive or a container) or an object
// reference (a path into a namespaced object store, optionally carrying
// parameters). The zero Value is the canonical "undefined" ARI.
package ari

// PrimTag selects the active union arm of a Literal.
type PrimTag uint8

const (
	PrimUndefined PrimTag = iota
	PrimNull
	PrimBool
	PrimUint64
	PrimInt64
	PrimFloat64
	PrimText
	PrimByte
	PrimTimespec
	PrimOther // container pointer: AC, AM, TBL, EXECSet, or RPTSet
)

// Timespec is the payload of a TP (absolute time-point) or TD (relative
// time-delta) literal: a count of seconds plus a non-negative
// sub-second remainder, signed as a whole via Neg. TP values use Neg
// only for instants before the DTN epoch; TD values use it for negative
// durations.
type Timespec struct {
	Neg  bool
	Sec  uint64
	Nsec uint32 // 0..999999999
}

// IsZero reports whether the timespec is the zero duration/instant.
func (t Timespec) IsZero() bool { return t.Sec == 0 && t.Nsec == 0 }

func (t Timespec) compare(o Timespec) int {
	sign := func(neg bool) int {
		if neg {
			return -1
		}
		return 1
	}
	ts, os := sign(t.Neg) , sign(o.Neg)
	if t.IsZero() && o.IsZero() {
		return 0
	}
	if ts != os {
		return cmpInt(ts, os)
	}
	switch {
	case t.Sec != o.Sec:
		c := cmpUint64(t.Sec, o.Sec)
		return c * ts
	case t.Nsec != o.Nsec:
		c := cmpInt(int(t.Nsec), int(o.Nsec))
		return c * ts
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Literal is the payload of a non-reference Value: an optional declared
// ARI-type plus a tagged primitive value. See §3.1.
type Literal struct {
	hasType  bool
	declType Type
	tag      PrimTag

	b    bool
	u    uint64
	i    int64
	f    float64
	text DataBuf // trailing nul counted in Len, per §3.1
	byts DataBuf
	ts   Timespec
	ctr  Container
}

// Reference is the payload of an object-reference Value: a path plus an
// optional parameter block. See §3.4.
type Reference struct {
	Path   ObjectPath
	Params ParamBlock
}

// Value is the top-level discriminated ARI value: exactly one of Lit or
// Ref is meaningful, selected by IsRef.
type Value struct {
	isRef bool
	lit   Literal
	ref   Reference
}

// Undefined returns the zero ARI: no declared type, tag Undefined. It is
// the canonical "empty" value described in §3.1.
func Undefined() Value { return Value{} }

// IsUndefined reports whether v is the undefined value.
func (v *Value) IsUndefined() bool {
	return !v.isRef && v.lit.tag == PrimUndefined
}

// IsRef reports whether v holds an object reference rather than a
// literal.
func (v *Value) IsRef() bool { return v.isRef }

// Tag returns the active primitive tag. It is only meaningful when
// IsRef is false.
func (v *Value) Tag() PrimTag { return v.lit.tag }

// DeclaredType returns the literal's declared ARI-type and whether one
// is present. A declared type is orthogonal to the primitive tag and is
// protocol-observable (§3.1, §9).
func (v *Value) DeclaredType() (Type, bool) {
	if v.isRef {
		return 0, false
	}
	return v.lit.declType, v.lit.hasType
}

// SetDeclaredType forces the declared ARI-type on a literal, or clears
// it when ok is false. Per the open question in §9, this module enforces
// consistency eagerly: it is an error to declare a type inconsistent
// with the active primitive tag.
func (v *Value) SetDeclaredType(t Type, ok bool) error {
	if v.isRef {
		return NewErr(StatusArgument, "cannot declare a type on an object reference")
	}
	if !ok {
		v.lit.hasType = false
		v.lit.declType = 0
		return nil
	}
	if !typeConsistentWithTag(t, v.lit.tag) {
		return NewErr(StatusInvalidARI, "declared type %v inconsistent with primitive tag %v", t, v.lit.tag)
	}
	v.lit.hasType = true
	v.lit.declType = t
	return nil
}

func typeConsistentWithTag(t Type, tag PrimTag) bool {
	switch tag {
	case PrimUndefined:
		return false
	case PrimNull:
		return t == TypeNull
	case PrimBool:
		return t == TypeBool
	case PrimUint64, PrimInt64, PrimFloat64:
		return t.IsNumeric()
	case PrimText:
		return t == TypeTextstr || t == TypeLabel
	case PrimByte:
		return t == TypeBytestr || t == TypeCBOR
	case PrimTimespec:
		return t == TypeTP || t == TypeTD
	case PrimOther:
		switch t {
		case TypeARIType, TypeAC, TypeAM, TypeTBL, TypeEXECSet, TypeRPTSet:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// --- literal constructors -------------------------------------------------

// NullValue returns an untyped null literal.
func NullValue() Value { return Value{lit: Literal{tag: PrimNull}} }

// BoolValue returns an untyped boolean literal.
func BoolValue(b bool) Value { return Value{lit: Literal{tag: PrimBool, b: b}} }

// UintValue returns an untyped unsigned-integer literal.
func UintValue(u uint64) Value { return Value{lit: Literal{tag: PrimUint64, u: u}} }

// IntValue returns an untyped signed-integer literal.
func IntValue(i int64) Value { return Value{lit: Literal{tag: PrimInt64, i: i}} }

// FloatValue returns an untyped floating-point literal.
func FloatValue(f float64) Value { return Value{lit: Literal{tag: PrimFloat64, f: f}} }

// TextValue returns an untyped text-string literal. The stored length
// includes the trailing nul, per §3.1.
func TextValue(s string) Value {
	buf := NewDataBuf(append([]byte(s), 0))
	return Value{lit: Literal{tag: PrimText, text: buf}}
}

// ByteValue returns an untyped byte-string literal.
func ByteValue(b []byte) Value {
	return Value{lit: Literal{tag: PrimByte, byts: NewDataBuf(b)}}
}

// TimeValue returns an untyped timespec literal (use with a declared
// type of TP or TD to disambiguate).
func TimeValue(ts Timespec) Value { return Value{lit: Literal{tag: PrimTimespec, ts: ts}} }

// LabelValue returns a LABEL literal by text name.
func LabelValue(name string) Value {
	v := TextValue(name)
	v.lit.tag = PrimText
	_ = v.SetDeclaredType(TypeLabel, true)
	return v
}

// LabelOrdinal returns a LABEL literal by ordinal position, encoded as
// the decimal text of n (labels share the text primitive regardless of
// which form they name, per §4.5).
func LabelOrdinal(n int64) Value {
	return LabelValue(itoa(n))
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ARITypeValue returns a literal whose value names an ARI-type
// enumeration, declared as ARITYPE. Both codecs use it when decoding
// an ARITYPE literal.
func ARITypeValue(t Type) Value {
	v := Value{lit: Literal{tag: PrimOther, ctr: ariTypeBox(t)}}
	_ = v.SetDeclaredType(TypeARIType, true)
	return v
}

// ariTypeBox wraps an ARI-type as a Container so it can sit in the
// PrimOther union arm like the other container kinds.
type ariTypeBox Type

func (b ariTypeBox) containerType() Type { return TypeARIType }
func (b ariTypeBox) deepCopy() Container { return b }
func (b ariTypeBox) clear()              {}
func (b ariTypeBox) equalC(o Container) bool {
	ob, ok := o.(ariTypeBox)
	return ok && b == ob
}
func (b ariTypeBox) compareC(o Container) int {
	ob := o.(ariTypeBox)
	return cmpInt(int(b), int(ob))
}
func (b ariTypeBox) hashC(h uint64) uint64 { return uint64(int32(b)) ^ h*1099511628211 }
func (b ariTypeBox) visit(fn func(*Value) error) error { return nil }

// AsARIType returns the boxed type and true if v is an ARITYPE literal.
func (v *Value) AsARIType() (Type, bool) {
	if v.isRef || v.lit.tag != PrimOther {
		return 0, false
	}
	b, ok := v.lit.ctr.(ariTypeBox)
	return Type(b), ok
}

// --- reference constructor -------------------------------------------------

// RefValue returns an object-reference Value over path with no
// parameters.
func RefValue(path ObjectPath) Value {
	return Value{isRef: true, ref: Reference{Path: path, Params: ParamBlock{kind: ParamNone}}}
}

// RefValueWithParams returns an object-reference Value carrying params.
func RefValueWithParams(path ObjectPath, params ParamBlock) Value {
	return Value{isRef: true, ref: Reference{Path: path, Params: params}}
}

// Ref returns a pointer to the reference payload, or nil when v is a
// literal.
func (v *Value) Ref() *Reference {
	if !v.isRef {
		return nil
	}
	return &v.ref
}

// --- scalar accessors -------------------------------------------------

func (v *Value) AsBool() (bool, bool)       { return v.lit.b, !v.isRef && v.lit.tag == PrimBool }
func (v *Value) AsUint() (uint64, bool)     { return v.lit.u, !v.isRef && v.lit.tag == PrimUint64 }
func (v *Value) AsInt() (int64, bool)       { return v.lit.i, !v.isRef && v.lit.tag == PrimInt64 }
func (v *Value) AsFloat() (float64, bool)   { return v.lit.f, !v.isRef && v.lit.tag == PrimFloat64 }
func (v *Value) AsTime() (Timespec, bool)   { return v.lit.ts, !v.isRef && v.lit.tag == PrimTimespec }
func (v *Value) AsBytes() (DataBuf, bool)   { return v.lit.byts, !v.isRef && v.lit.tag == PrimByte }

// AsText returns the text without its trailing nul.
func (v *Value) AsText() (string, bool) {
	if v.isRef || v.lit.tag != PrimText {
		return "", false
	}
	b := v.lit.text.Bytes()
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b), true
}

// Container returns the boxed container and true when the literal's tag
// is PrimOther and it holds one of AC/AM/TBL/EXECSet/RPTSet (i.e. not
// the ARITYPE box).
func (v *Value) Container() (Container, bool) {
	if v.isRef || v.lit.tag != PrimOther {
		return nil, false
	}
	switch v.lit.ctr.(type) {
	case ariTypeBox:
		return nil, false
	default:
		return v.lit.ctr, true
	}
}

// SetContainer installs a container as the literal's PrimOther value
// and forces the matching declared type.
func SetContainer(c Container) Value {
	v := Value{lit: Literal{tag: PrimOther, ctr: c}}
	_ = v.SetDeclaredType(c.containerType(), true)
	return v
}
