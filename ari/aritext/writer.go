package aritext

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// Format renders v in the text grammar Parse accepts. AM keys are
// written bare (text as-is, integers in decimal); Parse reads a key back
// only when it lexes as an identifier, so integer keys and text keys
// that are not identifiers do not round-trip.
func Format(v *ari.Value) (string, error) {
	var b strings.Builder
	if err := writeValue(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, v *ari.Value) error {
	if v.IsUndefined() {
		return ari.NewErr(ari.StatusArgument, "cannot format the undefined ARI")
	}
	if v.IsRef() {
		return writeReference(b, v.Ref())
	}

	declType, hasType := v.DeclaredType()
	if !hasType {
		return writePrimitive(b, v, 0, false)
	}
	name, _ := ari.TypeName(declType)
	b.WriteByte('/')
	b.WriteString(name)
	b.WriteByte('/')
	return writePrimitive(b, v, declType, true)
}

func writePrimitive(b *strings.Builder, v *ari.Value, t ari.Type, hasType bool) error {
	switch v.Tag() {
	case ari.PrimNull:
		b.WriteString("null")
	case ari.PrimBool:
		bv, _ := v.AsBool()
		b.WriteString(strconv.FormatBool(bv))
	case ari.PrimUint64:
		u, _ := v.AsUint()
		b.WriteString(strconv.FormatUint(u, 10))
	case ari.PrimInt64:
		i, _ := v.AsInt()
		b.WriteString(strconv.FormatInt(i, 10))
	case ari.PrimFloat64:
		f, _ := v.AsFloat()
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case ari.PrimText:
		s, _ := v.AsText()
		if hasType && t == ari.TypeLabel {
			b.WriteString(s)
			return nil
		}
		b.WriteByte('"')
		for i := 0; i < len(s); i++ {
			if s[i] == '"' || s[i] == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(s[i])
		}
		b.WriteByte('"')
	case ari.PrimByte:
		bytes, _ := v.AsBytes()
		b.WriteString("h'")
		b.WriteString(hex.EncodeToString(bytes.Bytes()))
		b.WriteByte('\'')
	case ari.PrimTimespec:
		ts, _ := v.AsTime()
		writeTimespec(b, ts)
	case ari.PrimOther:
		return writeContainer(b, v)
	default:
		return ari.NewErr(ari.StatusArgument, "cannot format primitive tag %d", v.Tag())
	}
	return nil
}

func writeTimespec(b *strings.Builder, ts ari.Timespec) {
	if ts.Neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatUint(ts.Sec, 10))
	if ts.Nsec != 0 {
		frac := strconv.FormatUint(uint64(ts.Nsec), 10)
		for len(frac) < 9 {
			frac = "0" + frac
		}
		frac = strings.TrimRight(frac, "0")
		b.WriteByte('.')
		b.WriteString(frac)
	}
}

func writeContainer(b *strings.Builder, v *ari.Value) error {
	if t, ok := v.AsARIType(); ok {
		name, _ := ari.TypeName(t)
		b.WriteString(name)
		return nil
	}
	c, ok := v.Container()
	if !ok {
		return ari.NewErr(ari.StatusArgument, "literal tagged Other without a container")
	}
	switch c := c.(type) {
	case *ari.AC:
		b.WriteByte('(')
		for i := range c.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeValue(b, &c.Items[i]); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil
	case *ari.AM:
		b.WriteByte('(')
		for i, e := range c.Entries() {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeMapKey(b, &e.Key); err != nil {
				return err
			}
			b.WriteByte('=')
			if err := writeValue(b, &e.Val); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil
	case *ari.TBL:
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(c.NCols))
		for i := range c.Items {
			b.WriteByte(';')
			if err := writeValue(b, &c.Items[i]); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil
	case *ari.EXECSet:
		b.WriteByte('(')
		if err := writeValue(b, &c.Nonce); err != nil {
			return err
		}
		for i := range c.Targets {
			b.WriteByte(';')
			if err := writeValue(b, &c.Targets[i]); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil
	case *ari.RPTSet:
		b.WriteByte('(')
		if err := writeValue(b, &c.Nonce); err != nil {
			return err
		}
		b.WriteByte(';')
		if err := writeValue(b, &c.RefTime); err != nil {
			return err
		}
		for _, rep := range c.Reports {
			b.WriteByte(';')
			b.WriteByte('(')
			if err := writeValue(b, &rep.RelTime); err != nil {
				return err
			}
			b.WriteByte(';')
			if err := writeValue(b, &rep.Source); err != nil {
				return err
			}
			for i := range rep.Items {
				b.WriteByte(';')
				if err := writeValue(b, &rep.Items[i]); err != nil {
					return err
				}
			}
			b.WriteByte(')')
		}
		b.WriteByte(')')
		return nil
	default:
		return ari.NewErr(ari.StatusArgument, "unknown container type")
	}
}

// writeMapKey renders an AM key bareword-style when it is text or an
// integer. The parser's key=value syntax reads identifier keys only, so
// integer keys written here are not read back by Parse.
func writeMapKey(b *strings.Builder, k *ari.Value) error {
	if s, ok := k.AsText(); ok {
		b.WriteString(s)
		return nil
	}
	if u, ok := k.AsUint(); ok {
		b.WriteString(strconv.FormatUint(u, 10))
		return nil
	}
	if i, ok := k.AsInt(); ok {
		b.WriteString(strconv.FormatInt(i, 10))
		return nil
	}
	return ari.NewErr(ari.StatusArgument, "map key is not representable as a bareword")
}

func writeReference(b *strings.Builder, ref *ari.Reference) error {
	if ref.Path.IsRelative() {
		t, ok := ref.Path.DerivedType()
		if !ok {
			return ari.NewErr(ari.StatusArgument, "relative reference has an unresolvable type segment")
		}
		name, _ := ari.TypeName(t)
		b.WriteByte('/')
		b.WriteString(name)
		b.WriteByte('/')
		writeIDSeg(b, ref.Path.Object)
		return writeParams(b, ref.Params)
	}

	b.WriteString("//")
	writeIDSeg(b, ref.Path.Org)
	b.WriteByte('/')
	writeIDSeg(b, ref.Path.Model)
	if ref.Path.Rev.Present {
		b.WriteByte('@')
		b.WriteString(ref.Path.Rev.String())
	}
	if ref.Path.IsNamespace() {
		return writeParams(b, ref.Params)
	}
	b.WriteByte('/')
	t, ok := ref.Path.DerivedType()
	if !ok {
		return ari.NewErr(ari.StatusArgument, "reference has an unresolvable type segment")
	}
	name, _ := ari.TypeName(t)
	b.WriteString(name)
	b.WriteByte('/')
	writeIDSeg(b, ref.Path.Object)
	return writeParams(b, ref.Params)
}

func writeIDSeg(b *strings.Builder, seg ari.IDSegment) {
	switch seg.Kind() {
	case ari.IDSegNull:
		b.WriteString("null")
	case ari.IDSegInt:
		n, _ := seg.Int()
		b.WriteString(strconv.FormatInt(n, 10))
	default:
		s, _ := seg.Text()
		b.WriteString(s)
	}
}

func writeParams(b *strings.Builder, params ari.ParamBlock) error {
	switch params.Kind() {
	case ari.ParamAC:
		ac, _ := params.AC()
		b.WriteByte('(')
		for i := range ac.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeValue(b, &ac.Items[i]); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	case ari.ParamAM:
		am, _ := params.AM()
		b.WriteByte('(')
		for i, e := range am.Entries() {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeMapKey(b, &e.Key); err != nil {
				return err
			}
			b.WriteByte('=')
			if err := writeValue(b, &e.Val); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	}
	return nil
}
