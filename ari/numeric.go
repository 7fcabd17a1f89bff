package ari

// EquivType returns the ARI-type a numeric literal behaves as for
// promotion purposes: its declared type if present, otherwise the
// narrowest numeric type its raw primitive value fits, following the
// same rule the reference implementation applies at its numeric
// equality/promotion boundary (§4.1.4).
func EquivType(v *Value) Type {
	if v.isRef {
		return TypeNull
	}
	if v.lit.hasType {
		return v.lit.declType
	}
	switch v.lit.tag {
	case PrimUint64:
		switch {
		case v.lit.u <= 0xFF:
			return TypeByte
		case v.lit.u <= 0xFFFFFFFF:
			return TypeUint
		default:
			return TypeUvast
		}
	case PrimInt64:
		if v.lit.i >= -(1<<31) && v.lit.i <= (1<<31)-1 {
			return TypeInt
		}
		return TypeVast
	case PrimFloat64:
		return TypeReal64
	default:
		return TypeNull
	}
}

// numericRank implements the promotion lattice of §4.1.4:
// BYTE < UINT < INT < UVAST < VAST < REAL32 < REAL64.
func numericRank(t Type) int {
	switch t {
	case TypeByte:
		return 0
	case TypeUint:
		return 1
	case TypeInt:
		return 2
	case TypeUvast:
		return 3
	case TypeVast:
		return 4
	case TypeReal32:
		return 5
	case TypeReal64:
		return 6
	default:
		return -1
	}
}

// PromoteType determines the promotion target for two numeric ARI
// values, applying the lattice plus the one documented exception:
// (INT, UVAST) -> VAST (signed wins over same-width unsigned). The
// result is symmetric in left/right, matching testable property 6.
func PromoteType(left, right *Value) (Type, error) {
	lt := EquivType(left)
	rt := EquivType(right)
	if !lt.IsNumeric() || !rt.IsNumeric() {
		return 0, NewErr(StatusTypeMismatch, "promotion requires two numeric values")
	}
	if numericRank(lt) > numericRank(rt) {
		lt, rt = rt, lt
	}
	if lt == TypeInt && rt == TypeUvast {
		return TypeVast, nil
	}
	return rt, nil
}

// numericRaw is a common representation a numeric literal can be
// widened to for leaf comparison: exactly one of the three forms is
// meaningful, selected by the promoted target type.
type numericRaw struct {
	asInt   int64
	asUint  uint64
	asFloat float64
}

func rawOf(v *Value) numericRaw {
	switch v.lit.tag {
	case PrimUint64:
		return numericRaw{asInt: int64(v.lit.u), asUint: v.lit.u, asFloat: float64(v.lit.u)}
	case PrimInt64:
		return numericRaw{asInt: v.lit.i, asUint: uint64(v.lit.i), asFloat: float64(v.lit.i)}
	case PrimFloat64:
		return numericRaw{asInt: int64(v.lit.f), asUint: uint64(v.lit.f), asFloat: v.lit.f}
	default:
		return numericRaw{}
	}
}

// promotedEqual reports whether two numeric values are equal after
// promoting both to the lattice target, per §4.6 ("numeric promotion at
// equality leaves").
func promotedEqual(a, b *Value) bool {
	target, err := PromoteType(a, b)
	if err != nil {
		return false
	}
	ra, rb := rawOf(a), rawOf(b)
	switch target {
	case TypeReal32, TypeReal64:
		return ra.asFloat == rb.asFloat
	case TypeVast:
		// A uint64 above the int64 range has no int64 form; it equals
		// only an unsigned value with the same bits.
		if (a.lit.tag == PrimUint64 && a.lit.u > 1<<63-1) || (b.lit.tag == PrimUint64 && b.lit.u > 1<<63-1) {
			return a.lit.tag == b.lit.tag && a.lit.u == b.lit.u
		}
		return ra.asInt == rb.asInt
	case TypeUvast:
		return ra.asUint == rb.asUint
	default:
		return ra.asInt == rb.asInt
	}
}

// promotedCompare orders two numeric values after promotion, treating
// NaN as equal to NaN for ordering purposes (§4.6).
func promotedCompare(a, b *Value) int {
	target, err := PromoteType(a, b)
	if err != nil {
		return 0
	}
	ra, rb := rawOf(a), rawOf(b)
	switch target {
	case TypeReal32, TypeReal64:
		fa, fb := ra.asFloat, rb.asFloat
		an, bn := isNaN(fa), isNaN(fb)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case TypeUvast:
		return cmpUint64(ra.asUint, rb.asUint)
	default:
		return cmpInt64(ra.asInt, rb.asInt)
	}
}

func isNaN(f float64) bool { return f != f }

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
