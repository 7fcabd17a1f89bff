package ari

// Equal reports structural equality, except that when both operands are
// numeric primitive literals they are first promoted and compared
// numerically (§4.6), so that e.g. an untyped 1 equals /REAL32/1.0.
// Equality of references requires identical paths and identical
// parameter blocks, including presence or absence of parameters.
func (v *Value) Equal(o *Value) bool {
	if v.isRef != o.isRef {
		return false
	}
	if v.isRef {
		return v.ref.Path.Equal(&o.ref.Path) && v.ref.Params.equal(o.ref.Params)
	}

	if v.lit.tag != o.lit.tag {
		// Numeric promotion crosses primitive tags (int/uint/float).
		if isNumericTag(v.lit.tag) && isNumericTag(o.lit.tag) {
			return promotedEqual(v, o)
		}
		return false
	}
	// Outside numeric leaves the declared type is part of the value.
	if !isNumericTag(v.lit.tag) && (v.lit.hasType != o.lit.hasType || (v.lit.hasType && v.lit.declType != o.lit.declType)) {
		return false
	}

	switch v.lit.tag {
	case PrimUndefined, PrimNull:
		return true
	case PrimBool:
		return v.lit.b == o.lit.b
	case PrimUint64, PrimInt64, PrimFloat64:
		return promotedEqual(v, o)
	case PrimText:
		return v.lit.text.Equal(o.lit.text)
	case PrimByte:
		return v.lit.byts.Equal(o.lit.byts)
	case PrimTimespec:
		return v.lit.ts.compare(o.lit.ts) == 0
	case PrimOther:
		if v.lit.ctr == nil || o.lit.ctr == nil {
			return v.lit.ctr == o.lit.ctr
		}
		if v.lit.ctr.containerType() != o.lit.ctr.containerType() {
			return false
		}
		return v.lit.ctr.equalC(o.lit.ctr)
	default:
		return false
	}
}

func isNumericTag(t PrimTag) bool {
	switch t {
	case PrimUint64, PrimInt64, PrimFloat64:
		return true
	default:
		return false
	}
}
