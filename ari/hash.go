package ari

import "math"

// fnvOffset is the FNV-1a 64-bit offset basis, used as the seed for
// every hash walk in this package.
const fnvOffset uint64 = 14695981039346656037

// Hash returns a structural hash of v. It is insensitive to AM
// iteration order (forward or backward produces the same hash) but
// sensitive to structure, satisfying the hash-equality contract:
// Equal(a,b) implies Hash(a) == Hash(b).
func (v *Value) Hash() uint64 { return v.hash(fnvOffset) }

func (v *Value) hash(h uint64) uint64 {
	h = mix(h, boolToInt(v.isRef))
	if v.isRef {
		h = v.ref.Path.hash(h)
		return v.ref.Params.hash(h)
	}

	if isNumericTag(v.lit.tag) {
		// Numeric leaves hash by their mathematical value alone, not
		// by hasType/declType/tag, so that values Equal considers
		// equal via promotion (e.g. untyped 1, /UINT/1, /REAL32/1.0)
		// always collide: hash must not vary with representation.
		f := numericAsFloat(v)
		if f == 0 {
			f = 0 // collapse -0.0 to +0.0
		}
		h ^= floatBits(f)
		h *= 1099511628211
		return h
	}

	h = mix(h, boolToInt(v.lit.hasType))
	if v.lit.hasType {
		h = mix(h, int(v.lit.declType))
	}
	h = mix(h, int(v.lit.tag))

	switch v.lit.tag {
	case PrimBool:
		h = mix(h, boolToInt(v.lit.b))
	case PrimText:
		h = v.lit.text.hash(h)
	case PrimByte:
		h = v.lit.byts.hash(h)
	case PrimTimespec:
		h = mix(h, boolToInt(v.lit.ts.Neg && !v.lit.ts.IsZero()))
		h ^= v.lit.ts.Sec
		h *= 1099511628211
		h = mix(h, int(v.lit.ts.Nsec))
	case PrimOther:
		if v.lit.ctr != nil {
			h = mix(h, int(v.lit.ctr.containerType()))
			h = v.lit.ctr.hashC(h)
		}
	}
	return h
}

func mix(h uint64, v int) uint64 {
	h ^= uint64(int64(v))
	h *= 1099511628211
	return h
}

func floatBits(f float64) uint64 { return math.Float64bits(f) }

// numericAsFloat widens a numeric literal's raw value to float64 so
// every representation of the same mathematical value (untyped,
// UINT-tagged, INT-tagged, or REAL-tagged) hashes identically.
func numericAsFloat(v *Value) float64 {
	switch v.lit.tag {
	case PrimUint64:
		return float64(v.lit.u)
	case PrimInt64:
		return float64(v.lit.i)
	case PrimFloat64:
		return v.lit.f
	default:
		return 0
	}
}
