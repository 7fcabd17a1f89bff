package ari

// DeepCopy returns an independent copy of v. Owned buffers and
// containers are cloned recursively; mutating the copy never affects
// the source (§3.6, testable property "copy independence").
func (v *Value) DeepCopy() Value {
	if v.isRef {
		return Value{isRef: true, ref: Reference{
			Path:   v.ref.Path.Copy(),
			Params: v.ref.Params.deepCopy(),
		}}
	}
	out := Value{lit: Literal{hasType: v.lit.hasType, declType: v.lit.declType, tag: v.lit.tag}}
	switch v.lit.tag {
	case PrimBool:
		out.lit.b = v.lit.b
	case PrimUint64:
		out.lit.u = v.lit.u
	case PrimInt64:
		out.lit.i = v.lit.i
	case PrimFloat64:
		out.lit.f = v.lit.f
	case PrimText:
		out.lit.text = v.lit.text.Own()
	case PrimByte:
		out.lit.byts = v.lit.byts.Own()
	case PrimTimespec:
		out.lit.ts = v.lit.ts
	case PrimOther:
		if v.lit.ctr != nil {
			out.lit.ctr = v.lit.ctr.deepCopy()
		}
	}
	return out
}

// Move transfers ownership of src into dst and resets src to undefined,
// matching the move-idempotence property: afterwards src.IsUndefined()
// is true and dst equals the prior src.
func Move(dst, src *Value) {
	*dst = *src
	*src = Value{}
}

// Clear recursively releases v's owned containers and buffers and
// resets it to undefined.
func (v *Value) Clear() {
	if !v.isRef && v.lit.tag == PrimOther && v.lit.ctr != nil {
		v.lit.ctr.clear()
	}
	*v = Value{}
}
