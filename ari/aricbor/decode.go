package aricbor

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// fromRaw reconstructs an ari.Value from the generic tree produced by
// unmarshaling into interface{}: nil, bool, uint64, int64, float64,
// string, []byte, []interface{}, map[interface{}]interface{}, or
// cbor.Tag.
func fromRaw(raw interface{}) (ari.Value, error) {
	switch x := raw.(type) {
	case nil:
		return ari.NullValue(), nil
	case bool:
		return ari.BoolValue(x), nil
	case uint64:
		return ari.UintValue(x), nil
	case int64:
		return ari.IntValue(x), nil
	case float64:
		return ari.FloatValue(x), nil
	case string:
		return ari.TextValue(x), nil
	case []byte:
		return ari.ByteValue(x), nil
	case []interface{}:
		return fromArray(x)
	case map[interface{}]interface{}:
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "a bare CBOR map is not a valid top-level ARI")
	case cbor.Tag:
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unexpected CBOR tag %d at this position", x.Number)
	default:
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unsupported CBOR shape %T", raw)
	}
}

func fromArray(x []interface{}) (ari.Value, error) {
	if len(x) == 2 {
		if t, ok := literalTypeTag(x[0]); ok {
			return literalFromTyped(t, x[1])
		}
	}
	if len(x) < 4 {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "array of length %d is not a valid ARI shape", len(x))
	}
	return referenceFromArray(x)
}

// literalTypeTag reports whether raw is a plausible literal-type tag:
// an integer matching a known, non-reference ARI-type.
func literalTypeTag(raw interface{}) (ari.Type, bool) {
	n, ok := toInt64(raw)
	if !ok {
		return 0, false
	}
	t := ari.Type(n)
	if t.IsReference() {
		return 0, false
	}
	if _, known := ari.TypeName(t); !known {
		return 0, false
	}
	return t, true
}

func toInt64(raw interface{}) (int64, bool) {
	switch n := raw.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toFloat64(raw interface{}) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func literalFromTyped(t ari.Type, raw interface{}) (ari.Value, error) {
	var v ari.Value
	var err error

	switch t {
	case ari.TypeNull:
		if raw != nil {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "NULL literal must carry a CBOR null")
		}
		v = ari.NullValue()
	case ari.TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "BOOL literal must carry a CBOR boolean")
		}
		v = ari.BoolValue(b)
	case ari.TypeByte, ari.TypeUint, ari.TypeUvast:
		n, ok := toInt64(raw)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "%v literal must carry a CBOR integer", t)
		}
		if n < 0 {
			return ari.Undefined(), ari.NewErr(ari.StatusOutOfRange, "%v literal must not be negative", t)
		}
		v = ari.UintValue(uint64(n))
	case ari.TypeInt, ari.TypeVast:
		n, ok := toInt64(raw)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "%v literal must carry a CBOR integer", t)
		}
		v = ari.IntValue(n)
	case ari.TypeReal32, ari.TypeReal64:
		f, ok := toFloat64(raw)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "%v literal must carry a CBOR number", t)
		}
		v = ari.FloatValue(f)
	case ari.TypeTextstr:
		s, ok := raw.(string)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "TEXTSTR literal must carry a CBOR text string")
		}
		v = ari.TextValue(s)
	case ari.TypeLabel:
		s, ok := raw.(string)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "LABEL literal must carry a CBOR text string")
		}
		v = ari.LabelValue(s)
		return v, nil
	case ari.TypeBytestr, ari.TypeCBOR:
		b, ok := raw.([]byte)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "%v literal must carry a CBOR byte string", t)
		}
		v = ari.ByteValue(b)
	case ari.TypeTP, ari.TypeTD:
		ts, terr := timespecFromRaw(raw)
		if terr != nil {
			return ari.Undefined(), terr
		}
		v = ari.TimeValue(ts)
	case ari.TypeARIType:
		rt, rerr := ariTypeFromRaw(raw)
		if rerr != nil {
			return ari.Undefined(), rerr
		}
		return ari.ARITypeValue(rt), nil
	case ari.TypeAC:
		c, cerr := acFromRaw(raw)
		if cerr != nil {
			return ari.Undefined(), cerr
		}
		return ari.SetContainer(c), nil
	case ari.TypeAM:
		c, cerr := amFromRaw(raw)
		if cerr != nil {
			return ari.Undefined(), cerr
		}
		return ari.SetContainer(c), nil
	case ari.TypeTBL:
		c, cerr := tblFromRaw(raw)
		if cerr != nil {
			return ari.Undefined(), cerr
		}
		return ari.SetContainer(c), nil
	case ari.TypeEXECSet:
		c, cerr := execSetFromRaw(raw)
		if cerr != nil {
			return ari.Undefined(), cerr
		}
		return ari.SetContainer(c), nil
	case ari.TypeRPTSet:
		c, cerr := rptSetFromRaw(raw)
		if cerr != nil {
			return ari.Undefined(), cerr
		}
		return ari.SetContainer(c), nil
	default:
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unsupported literal type %v", t)
	}

	if err = v.SetDeclaredType(t, true); err != nil {
		return ari.Undefined(), err
	}
	return v, nil
}

func ariTypeFromRaw(raw interface{}) (ari.Type, error) {
	if n, ok := toInt64(raw); ok {
		t := ari.Type(n)
		if _, known := ari.TypeName(t); known {
			return t, nil
		}
		return 0, ari.NewErr(ari.StatusDecoding, "unknown ARI-type enumeration %d", n)
	}
	if s, ok := raw.(string); ok {
		if t, known := ari.TypeByName(s); known {
			return t, nil
		}
		return 0, ari.NewErr(ari.StatusDecoding, "unknown ARI-type name %q", s)
	}
	return 0, ari.NewErr(ari.StatusDecoding, "ARITYPE literal must carry an integer or text name")
}

func timespecFromRaw(raw interface{}) (ari.Timespec, error) {
	if n, ok := toInt64(raw); ok {
		neg := n < 0
		if neg {
			n = -n
		}
		return ari.Timespec{Neg: neg, Sec: uint64(n)}, nil
	}
	pair, ok := raw.([]interface{})
	if !ok || len(pair) != 2 {
		return ari.Timespec{}, ari.NewErr(ari.StatusDecoding, "TP/TD literal must carry an integer or a 2-element array")
	}
	exp, ok := toInt64(pair[0])
	if !ok {
		return ari.Timespec{}, ari.NewErr(ari.StatusDecoding, "TP/TD exponent must be an integer")
	}
	mantissa, ok := toInt64(pair[1])
	if !ok {
		return ari.Timespec{}, ari.NewErr(ari.StatusDecoding, "TP/TD mantissa must be an integer")
	}
	neg := mantissa < 0
	if neg {
		mantissa = -mantissa
	}
	// Scale mantissa*10^exp to whole nanoseconds.
	nanos := mantissa
	for e := exp; e < -9; e++ {
		nanos /= 10
	}
	for e := exp; e > -9; e-- {
		nanos *= 10
	}
	return ari.Timespec{Neg: neg, Sec: uint64(nanos / 1_000_000_000), Nsec: uint32(nanos % 1_000_000_000)}, nil
}

func acFromRaw(raw interface{}) (*ari.AC, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, ari.NewErr(ari.StatusDecoding, "AC payload must be a CBOR array")
	}
	out := make([]ari.Value, len(items))
	for i, el := range items {
		v, err := fromRaw(el)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return ari.NewAC(out...), nil
}

func amFromRaw(raw interface{}) (*ari.AM, error) {
	pairs, ok := raw.(map[interface{}]interface{})
	if !ok {
		return nil, ari.NewErr(ari.StatusDecoding, "AM payload must be a CBOR map")
	}
	m := &ari.AM{}
	for k, val := range pairs {
		key, err := fromRaw(k)
		if err != nil {
			return nil, err
		}
		v, err := fromRaw(val)
		if err != nil {
			return nil, err
		}
		if err := m.Set(key, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func tblFromRaw(raw interface{}) (*ari.TBL, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) == 0 {
		return nil, ari.NewErr(ari.StatusDecoding, "TBL payload must be a non-empty CBOR array")
	}
	ncols, ok := toInt64(items[0])
	if !ok {
		return nil, ari.NewErr(ari.StatusDecoding, "TBL column count must be an integer")
	}
	out := make([]ari.Value, len(items)-1)
	for i, el := range items[1:] {
		v, err := fromRaw(el)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return ari.NewTBL(int(ncols), out)
}

func execSetFromRaw(raw interface{}) (*ari.EXECSet, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) == 0 {
		return nil, ari.NewErr(ari.StatusDecoding, "EXECSET payload must be a non-empty CBOR array")
	}
	nonce, err := fromRaw(items[0])
	if err != nil {
		return nil, err
	}
	targets := make([]ari.Value, len(items)-1)
	for i, el := range items[1:] {
		v, err := fromRaw(el)
		if err != nil {
			return nil, err
		}
		targets[i] = v
	}
	return &ari.EXECSet{Nonce: nonce, Targets: targets}, nil
}

func rptSetFromRaw(raw interface{}) (*ari.RPTSet, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) < 2 {
		return nil, ari.NewErr(ari.StatusDecoding, "RPTSET payload must be a CBOR array of at least 2 elements")
	}
	nonce, err := fromRaw(items[0])
	if err != nil {
		return nil, err
	}
	reftime, err := fromRaw(items[1])
	if err != nil {
		return nil, err
	}
	reports := make([]ari.Report, len(items)-2)
	for i, el := range items[2:] {
		rep, err := reportFromRaw(el)
		if err != nil {
			return nil, err
		}
		reports[i] = rep
	}
	return &ari.RPTSet{Nonce: nonce, RefTime: reftime, Reports: reports}, nil
}

func reportFromRaw(raw interface{}) (ari.Report, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) < 2 {
		return ari.Report{}, ari.NewErr(ari.StatusDecoding, "report must be a CBOR array of at least 2 elements")
	}
	relTime, err := fromRaw(items[0])
	if err != nil {
		return ari.Report{}, err
	}
	source, err := fromRaw(items[1])
	if err != nil {
		return ari.Report{}, err
	}
	values := make([]ari.Value, len(items)-2)
	for i, el := range items[2:] {
		v, err := fromRaw(el)
		if err != nil {
			return ari.Report{}, err
		}
		values[i] = v
	}
	return ari.Report{RelTime: relTime, Source: source, Items: values}, nil
}

func referenceFromArray(x []interface{}) (ari.Value, error) {
	org, err := idSegFromRaw(x[0])
	if err != nil {
		return ari.Undefined(), err
	}
	model, err := idSegFromRaw(x[1])
	if err != nil {
		return ari.Undefined(), err
	}
	idx := 2
	var rev ari.RevisionDate
	if tag, ok := x[idx].(cbor.Tag); ok {
		if tag.Number != dayDateTag {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unexpected CBOR tag %d in object path", tag.Number)
		}
		days, ok := toInt64(tag.Content)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "revision date tag content must be an integer")
		}
		rev = revisionFromDays(days)
		idx++
	}
	if idx+1 >= len(x) {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "object reference array too short")
	}
	typeSeg, err := idSegFromRaw(x[idx])
	if err != nil {
		return ari.Undefined(), err
	}
	idx++
	objSeg, err := idSegFromRaw(x[idx])
	if err != nil {
		return ari.Undefined(), err
	}
	idx++

	params := ari.NoParams()
	if idx < len(x) {
		params, err = paramsFromRaw(x[idx])
		if err != nil {
			return ari.Undefined(), err
		}
		idx++
	}
	if idx != len(x) {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unexpected trailing elements in object reference")
	}

	path := ari.ObjectPath{Org: org, Model: model, Rev: rev, TypeSeg: typeSeg, Object: objSeg}
	return ari.RefValueWithParams(path, params), nil
}

func idSegFromRaw(raw interface{}) (ari.IDSegment, error) {
	switch x := raw.(type) {
	case nil:
		return ari.NullSeg(), nil
	case int64:
		return ari.IntSeg(x), nil
	case uint64:
		return ari.IntSeg(int64(x)), nil
	case string:
		return ari.TextSeg(x), nil
	default:
		return ari.IDSegment{}, ari.NewErr(ari.StatusDecoding, "id segment must be null, integer, or text, got %T", raw)
	}
}

func paramsFromRaw(raw interface{}) (ari.ParamBlock, error) {
	switch x := raw.(type) {
	case []interface{}:
		items := make([]ari.Value, len(x))
		for i, el := range x {
			v, err := fromRaw(el)
			if err != nil {
				return ari.ParamBlock{}, err
			}
			items[i] = v
		}
		return ari.PositionalParams(ari.NewAC(items...)), nil
	case map[interface{}]interface{}:
		m := &ari.AM{}
		for k, val := range x {
			key, err := fromRaw(k)
			if err != nil {
				return ari.ParamBlock{}, err
			}
			v, err := fromRaw(val)
			if err != nil {
				return ari.ParamBlock{}, err
			}
			if err := m.Set(key, v); err != nil {
				return ari.ParamBlock{}, err
			}
		}
		return ari.NamedParams(m)
	default:
		return ari.ParamBlock{}, ari.NewErr(ari.StatusDecoding, "parameters must be a CBOR array or map")
	}
}
