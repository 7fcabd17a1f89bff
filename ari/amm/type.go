// Package amm implements the AMM typing engine: builtin types, the
// seven composable semantic types, and the constraint types that
// refine them, per §4.1. A Type's Match reports whether a value
// already conforms; Convert coerces a conforming-or-coercible value
// into the type's canonical representation. Numeric Match reads a
// declared literal's type through ari.EquivType, the same view value
// comparison uses; numeric Convert range-checks against the target
// type's own bounds.
package amm

import (
	"math"
	"sync"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// Type is implemented by every builtin and semantic type in the
// engine.
type Type interface {
	// Name is the type's display name: the ARI-type keyword for a
	// builtin, or a synthesized description for a semantic type.
	Name() string
	// Match reports whether v already conforms to this type without
	// any coercion.
	Match(v *ari.Value) bool
	// Convert coerces v into this type's canonical form, or fails with
	// StatusTypeMismatch / StatusOutOfRange / StatusConstraint, or
	// StatusNoChoice for a union.
	Convert(v *ari.Value) (ari.Value, error)
}

// builtinType wraps one of the scalar and container ARI-type
// enumerations as a Type. Numeric builtins convert by range-checking
// against the target type's bounds; BOOL coerces by truthiness; everything else
// requires an exact tag/type match.
type builtinType struct {
	id ari.Type
}

func (b *builtinType) Name() string {
	name, _ := ari.TypeName(b.id)
	return name
}

func (b *builtinType) Match(v *ari.Value) bool {
	if b.id.IsNumeric() {
		if v.IsRef() || !isNumericValue(v) {
			return false
		}
		// A declared type must equal the builtin's type exactly: a
		// value explicitly typed /REAL32/ never matches INT even
		// though its magnitude would fit. Only an untyped literal
		// falls back to a raw-range fit check.
		if _, has := v.DeclaredType(); has {
			return ari.EquivType(v) == b.id
		}
		return numericFits(v, b.id)
	}
	switch b.id {
	case ari.TypeNull:
		return !v.IsRef() && v.Tag() == ari.PrimNull
	case ari.TypeBool:
		return !v.IsRef() && v.Tag() == ari.PrimBool
	case ari.TypeTextstr, ari.TypeLabel:
		if v.IsRef() || v.Tag() != ari.PrimText {
			return false
		}
		t, has := v.DeclaredType()
		return !has || t == b.id
	case ari.TypeBytestr, ari.TypeCBOR:
		if v.IsRef() || v.Tag() != ari.PrimByte {
			return false
		}
		t, has := v.DeclaredType()
		return !has || t == b.id
	case ari.TypeTP, ari.TypeTD:
		if v.IsRef() || v.Tag() != ari.PrimTimespec {
			return false
		}
		t, has := v.DeclaredType()
		return !has || t == b.id
	case ari.TypeARIType:
		_, ok := v.AsARIType()
		return ok
	case ari.TypeAC, ari.TypeAM, ari.TypeTBL, ari.TypeEXECSet, ari.TypeRPTSet:
		if v.IsRef() {
			return false
		}
		c, ok := v.Container()
		if !ok {
			return false
		}
		t, _ := v.DeclaredType()
		return t == b.id && containerTypeOf(c) == b.id
	default:
		return false
	}
}

func containerTypeOf(c ari.Container) ari.Type {
	switch c.(type) {
	case *ari.AC:
		return ari.TypeAC
	case *ari.AM:
		return ari.TypeAM
	case *ari.TBL:
		return ari.TypeTBL
	case *ari.EXECSet:
		return ari.TypeEXECSet
	case *ari.RPTSet:
		return ari.TypeRPTSet
	default:
		return 0
	}
}

// numericFits reports whether an untyped numeric literal's raw
// magnitude fits within target's range, for the common case of a
// bare-CBOR-decoded number being matched against a declared field
// type it was never explicitly tagged with.
func numericFits(v *ari.Value, target ari.Type) bool {
	if !target.IsNumeric() {
		return false
	}
	_, err := convertNumeric(v, target)
	return err == nil
}

func (b *builtinType) Convert(v *ari.Value) (ari.Value, error) {
	if v.IsRef() {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%s cannot convert an object reference", b.Name())
	}
	if b.id.IsNumeric() {
		return convertNumeric(v, b.id)
	}
	switch b.id {
	case ari.TypeBool:
		return ari.BoolValue(truthy(v)), nil
	case ari.TypeNull:
		if v.Tag() != ari.PrimNull {
			return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "value is not NULL")
		}
		return ari.NullValue(), nil
	default:
		if b.Match(v) {
			return v.DeepCopy(), nil
		}
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "value does not match %s and has no coercion", b.Name())
	}
}

// truthy implements BOOL's coercion rule: NULL and zero-valued
// numerics/empty text are false, everything else is true.
func truthy(v *ari.Value) bool {
	switch v.Tag() {
	case ari.PrimNull, ari.PrimUndefined:
		return false
	case ari.PrimBool:
		b, _ := v.AsBool()
		return b
	case ari.PrimUint64:
		u, _ := v.AsUint()
		return u != 0
	case ari.PrimInt64:
		i, _ := v.AsInt()
		return i != 0
	case ari.PrimFloat64:
		f, _ := v.AsFloat()
		return f != 0
	case ari.PrimText:
		s, _ := v.AsText()
		return s != ""
	default:
		return true
	}
}

// convertNumeric promotes v's raw numeric value into target,
// range-checking against target's representable width. Conversion to
// an integer target rounds half away from zero per §4.1.1 (mirroring
// the original's llround/llroundf) and rejects NaN, infinities, and
// any magnitude that does not fit target's width -- it never truncates
// and never relies on Go's unspecified float-to-int overflow behavior.
func convertNumeric(v *ari.Value, target ari.Type) (ari.Value, error) {
	if v.IsRef() || !isNumericValue(v) {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "value is not numeric")
	}

	if target == ari.TypeReal32 || target == ari.TypeReal64 {
		f, err := asFloat(v)
		if err != nil {
			return ari.Undefined(), err
		}
		out := ari.FloatValue(f)
		_ = out.SetDeclaredType(target, true)
		return out, nil
	}

	minF, maxF, unsigned := integerBounds(target)
	if minF == 0 && maxF == 0 && !unsigned {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%v is not a numeric type", target)
	}

	// Integer sources convert exactly, without ever widening through
	// float64, so magnitudes beyond 2^53 are not corrupted by rounding.
	switch v.Tag() {
	case ari.PrimUint64:
		u, _ := v.AsUint()
		if unsigned {
			if float64(u) > maxF {
				return ari.Undefined(), ari.NewErr(ari.StatusOutOfRange, "%v overflow", target)
			}
			return declared(ari.UintValue(u), target)
		}
		if u > math.MaxInt64 || float64(u) > maxF {
			return ari.Undefined(), ari.NewErr(ari.StatusOutOfRange, "%v overflow", target)
		}
		return declared(ari.IntValue(int64(u)), target)
	case ari.PrimInt64:
		i, _ := v.AsInt()
		if float64(i) < minF || float64(i) > maxF {
			return ari.Undefined(), ari.NewErr(ari.StatusOutOfRange, "%v overflow", target)
		}
		if unsigned {
			return declared(ari.UintValue(uint64(i)), target)
		}
		return declared(ari.IntValue(i), target)
	case ari.PrimFloat64:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ari.Undefined(), ari.NewErr(ari.StatusOutOfRange, "%v: cannot convert NaN or infinity", target)
		}
		r := roundHalfAwayFromZero(f)
		if r < minF || r >= maxF+1 {
			return ari.Undefined(), ari.NewErr(ari.StatusOutOfRange, "%v overflow", target)
		}
		if unsigned {
			return declared(ari.UintValue(uint64(r)), target)
		}
		return declared(ari.IntValue(int64(r)), target)
	default:
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "value is not numeric")
	}
}

// integerBounds returns the closed [min,max] representable range of an
// integer builtin type as float64 values, plus whether the type is
// unsigned. The BYTE, UINT and INT bounds are exact in float64; the
// VAST and UVAST maxima are not and round up to 2^63 and 2^64.
func integerBounds(target ari.Type) (minF, maxF float64, unsigned bool) {
	switch target {
	case ari.TypeByte:
		return 0, (1 << 8) - 1, true
	case ari.TypeUint:
		return 0, (1 << 32) - 1, true
	case ari.TypeUvast:
		return 0, maxUvastF, true
	case ari.TypeInt:
		return -(1 << 31), (1 << 31) - 1, false
	case ari.TypeVast:
		return -(1 << 63), (1 << 63) - 1, false
	default:
		return 0, 0, false
	}
}

// maxUvastF is 2^64-1 represented the only way a float64 can: rounded
// up to 2^64. Comparisons against it use float64(u) <= maxUvastF, which
// holds for every uint64 since 2^64-1 rounds to 2^64 in float64 too.
const maxUvastF = 18446744073709551615.0

func declared(v ari.Value, target ari.Type) (ari.Value, error) {
	if err := v.SetDeclaredType(target, true); err != nil {
		return ari.Undefined(), err
	}
	return v, nil
}

func isNumericValue(v *ari.Value) bool {
	switch v.Tag() {
	case ari.PrimUint64, ari.PrimInt64, ari.PrimFloat64:
		return true
	default:
		return false
	}
}

func asFloat(v *ari.Value) (float64, error) {
	switch v.Tag() {
	case ari.PrimUint64:
		u, _ := v.AsUint()
		return float64(u), nil
	case ari.PrimInt64:
		i, _ := v.AsInt()
		return float64(i), nil
	case ari.PrimFloat64:
		f, _ := v.AsFloat()
		return f, nil
	default:
		return 0, ari.NewErr(ari.StatusTypeMismatch, "value is not numeric")
	}
}

// roundHalfAwayFromZero rounds f to the nearest integral float64,
// breaking ties away from zero, the rule §4.1.1 mandates for
// real-to-integer conversion (the original uses llround/llroundf).
func roundHalfAwayFromZero(f float64) float64 {
	if f >= 0 {
		return math.Floor(f + 0.5)
	}
	return math.Ceil(f - 0.5)
}

var (
	builtinOnce  sync.Once
	builtinTable map[ari.Type]*builtinType
)

func initBuiltins() {
	ids := []ari.Type{
		ari.TypeNull, ari.TypeBool, ari.TypeByte, ari.TypeInt, ari.TypeUint,
		ari.TypeVast, ari.TypeUvast, ari.TypeReal32, ari.TypeReal64,
		ari.TypeTextstr, ari.TypeBytestr, ari.TypeTP, ari.TypeTD, ari.TypeLabel,
		ari.TypeCBOR, ari.TypeARIType, ari.TypeAC, ari.TypeAM, ari.TypeTBL,
		ari.TypeEXECSet, ari.TypeRPTSet,
	}
	builtinTable = make(map[ari.Type]*builtinType, len(ids))
	for _, id := range ids {
		builtinTable[id] = &builtinType{id: id}
	}
}

// Builtin returns the singleton Type for one of the builtin ARI-type
// enumerations.
func Builtin(id ari.Type) (Type, bool) {
	builtinOnce.Do(initBuiltins)
	t, ok := builtinTable[id]
	return t, ok
}
