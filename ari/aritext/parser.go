// Package aritext implements the text (URI-style) wire codec for ARI
// values, per §4.3: a recursive-descent parser over the token stream
// from aritext/lex, and a writer that renders the same grammar back
// out. The grammar separates object references (leading "//" or a
// leading reference-type segment) from typed and untyped literals by
// looking up the first path segment against the Type enumeration, the
// same table the binary codec uses for its type-tag elements.
package aritext

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jhuapl-dtnma/ari-go/ari"
	"github.com/jhuapl-dtnma/ari-go/ari/aritext/lex"
	"github.com/jhuapl-dtnma/ari-go/ari/aritext/token"
)

type parser struct {
	lx   *lex.Lexer
	tok  token.Token
	peek *token.Token
}

// Parse reads one ARI from s. Trailing non-whitespace after the value
// is a decoding error.
func Parse(s string) (ari.Value, error) {
	p := &parser{lx: lex.New(s)}
	p.advance()
	v, err := p.parseValue()
	if err != nil {
		return ari.Undefined(), err
	}
	if p.tok.Kind != token.EOF {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unexpected trailing text %q at offset %d", p.tok.Text, p.tok.Pos)
	}
	return v, nil
}

func (p *parser) advance() {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return
	}
	p.tok = p.lx.Next()
}

func (p *parser) lookahead() token.Token {
	if p.peek == nil {
		t := p.lx.Next()
		p.peek = &t
	}
	return *p.peek
}

func (p *parser) expect(k token.Kind, what string) (token.Token, error) {
	if p.tok.Kind != k {
		return token.Token{}, ari.NewErr(ari.StatusDecoding, "expected %s at offset %d, got %q", what, p.tok.Pos, p.tok.Text)
	}
	t := p.tok
	p.advance()
	return t, nil
}

func (p *parser) parseValue() (ari.Value, error) {
	switch p.tok.Kind {
	case token.DblSlash:
		return p.parseFullReference()
	case token.Slash:
		return p.parseSlashLed()
	case token.Ident:
		switch strings.ToLower(p.tok.Text) {
		case "null":
			p.advance()
			return ari.NullValue(), nil
		case "true":
			p.advance()
			return ari.BoolValue(true), nil
		case "false":
			p.advance()
			return ari.BoolValue(false), nil
		default:
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unexpected identifier %q at offset %d", p.tok.Text, p.tok.Pos)
		}
	case token.Number:
		return p.parseUntypedNumber()
	case token.String:
		v := ari.TextValue(p.tok.Text)
		p.advance()
		return v, nil
	case token.Hex:
		b, err := hex.DecodeString(p.tok.Text)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed byte string")
		}
		p.advance()
		return ari.ByteValue(b), nil
	default:
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unexpected token %q at offset %d", p.tok.Text, p.tok.Pos)
	}
}

// parseSlashLed handles everything that begins with a single "/": a
// typed literal ("/INT/23") or a relative reference ("/CTRL/hi(34)"),
// disambiguated by whether the first segment names a literal or a
// reference ARI-type.
func (p *parser) parseSlashLed() (ari.Value, error) {
	p.advance() // consume "/"
	nameTok, err := p.expect(token.Ident, "an ARI-type name")
	if err != nil {
		return ari.Undefined(), err
	}
	t, ok := ari.TypeByName(nameTok.Text)
	if !ok {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unknown ARI-type %q", nameTok.Text)
	}
	if _, err := p.expect(token.Slash, "'/'"); err != nil {
		return ari.Undefined(), err
	}
	if t.IsReference() {
		return p.parseRelativeReference(t)
	}
	return p.parseTypedLiteral(t)
}

func (p *parser) parseRelativeReference(t ari.Type) (ari.Value, error) {
	obj, err := p.parseIDSeg()
	if err != nil {
		return ari.Undefined(), err
	}
	path := ari.ObjectPath{Org: ari.NullSeg(), Model: ari.NullSeg(), TypeSeg: ari.IntSeg(int64(t)), Object: obj}
	params, err := p.parseOptionalParams()
	if err != nil {
		return ari.Undefined(), err
	}
	return ari.RefValueWithParams(path, params), nil
}

func (p *parser) parseFullReference() (ari.Value, error) {
	p.advance() // consume "//"
	org, err := p.parseIDSeg()
	if err != nil {
		return ari.Undefined(), err
	}
	if _, err := p.expect(token.Slash, "'/'"); err != nil {
		return ari.Undefined(), err
	}
	model, err := p.parseIDSeg()
	if err != nil {
		return ari.Undefined(), err
	}

	var rev ari.RevisionDate
	if p.tok.Kind == token.At {
		p.advance()
		rev, err = p.parseRevision()
		if err != nil {
			return ari.Undefined(), err
		}
	}

	path := ari.ObjectPath{Org: org, Model: model, Rev: rev, TypeSeg: ari.NullSeg(), Object: ari.NullSeg()}
	if p.tok.Kind != token.Slash {
		// Namespace reference: no type/object parts.
		return ari.RefValue(path), nil
	}
	p.advance()
	typeTok, err := p.expect(token.Ident, "an object-reference type name")
	if err != nil {
		return ari.Undefined(), err
	}
	t, ok := ari.TypeByName(typeTok.Text)
	if !ok || !t.IsReference() {
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "%q is not an object-reference type", typeTok.Text)
	}
	if _, err := p.expect(token.Slash, "'/'"); err != nil {
		return ari.Undefined(), err
	}
	obj, err := p.parseIDSeg()
	if err != nil {
		return ari.Undefined(), err
	}
	path.TypeSeg = ari.IntSeg(int64(t))
	path.Object = obj

	params, err := p.parseOptionalParams()
	if err != nil {
		return ari.Undefined(), err
	}
	return ari.RefValueWithParams(path, params), nil
}

func (p *parser) parseRevision() (ari.RevisionDate, error) {
	tok, err := p.expect(token.Number, "an 8-digit revision date")
	if err != nil {
		return ari.RevisionDate{}, err
	}
	if len(tok.Text) != 8 {
		return ari.RevisionDate{}, ari.NewErr(ari.StatusDecoding, "revision date %q must be 8 digits (YYYYMMDD)", tok.Text)
	}
	y, err1 := strconv.Atoi(tok.Text[0:4])
	m, err2 := strconv.Atoi(tok.Text[4:6])
	d, err3 := strconv.Atoi(tok.Text[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return ari.RevisionDate{}, ari.NewErr(ari.StatusDecoding, "malformed revision date %q", tok.Text)
	}
	return ari.RevisionDate{Year: int16(y), Month: uint8(m), Day: uint8(d), Present: true}, nil
}

func (p *parser) parseIDSeg() (ari.IDSegment, error) {
	switch p.tok.Kind {
	case token.Ident:
		if strings.EqualFold(p.tok.Text, "null") {
			p.advance()
			return ari.NullSeg(), nil
		}
		s := p.tok.Text
		p.advance()
		return ari.TextSeg(s), nil
	case token.Number:
		n, err := strconv.ParseInt(p.tok.Text, 0, 64)
		if err != nil {
			return ari.IDSegment{}, ari.Wrap(ari.StatusDecoding, err, "malformed id segment")
		}
		p.advance()
		return ari.IntSeg(n), nil
	default:
		return ari.IDSegment{}, ari.NewErr(ari.StatusDecoding, "expected an id segment at offset %d, got %q", p.tok.Pos, p.tok.Text)
	}
}

func (p *parser) parseOptionalParams() (ari.ParamBlock, error) {
	if p.tok.Kind != token.LParen {
		return ari.NoParams(), nil
	}
	p.advance()
	if p.tok.Kind == token.RParen {
		p.advance()
		return ari.NoParams(), nil
	}
	if p.tok.Kind == token.Ident && p.lookahead().Kind == token.Equals {
		am, err := p.parseNamedParamBody()
		if err != nil {
			return ari.ParamBlock{}, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return ari.ParamBlock{}, err
		}
		return ari.NamedParams(am)
	}
	ac, err := p.parsePositionalBody()
	if err != nil {
		return ari.ParamBlock{}, err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ari.ParamBlock{}, err
	}
	return ari.PositionalParams(ac), nil
}

func (p *parser) parsePositionalBody() (*ari.AC, error) {
	var items []ari.Value
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if p.tok.Kind != token.Comma {
			break
		}
		p.advance()
	}
	return ari.NewAC(items...), nil
}

func (p *parser) parseNamedParamBody() (*ari.AM, error) {
	m := &ari.AM{}
	for {
		keyTok, err := p.expect(token.Ident, "a parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Equals, "'='"); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := m.Set(ari.TextValue(keyTok.Text), v); err != nil {
			return nil, err
		}
		if p.tok.Kind != token.Comma {
			break
		}
		p.advance()
	}
	return m, nil
}

func (p *parser) parseUntypedNumber() (ari.Value, error) {
	text := p.tok.Text
	p.advance()
	return numberLiteral(text, 0, false)
}

// numberLiteral interprets text as a bare numeric literal. With a
// declared REAL type it is a float; with any other declared type it is
// an integer, signed when the text has a leading '-' and unsigned
// otherwise. Untyped text containing '.' or an exponent is a float;
// other untyped integers are signed when they fit int64 and unsigned
// only beyond that range.
func numberLiteral(text string, declType ari.Type, hasType bool) (ari.Value, error) {
	isFloat := strings.ContainsAny(text, ".") || (strings.ContainsAny(text, "eE") && !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X"))
	if hasType {
		switch declType {
		case ari.TypeReal32, ari.TypeReal64:
			isFloat = true
		default:
			isFloat = false
		}
	}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed floating-point literal")
		}
		v := ari.FloatValue(f)
		if hasType {
			if err := v.SetDeclaredType(declType, true); err != nil {
				return ari.Undefined(), err
			}
		}
		return v, nil
	}

	if strings.HasPrefix(text, "-") {
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed integer literal")
		}
		v := ari.IntValue(n)
		if hasType {
			if err := v.SetDeclaredType(declType, true); err != nil {
				return ari.Undefined(), err
			}
		}
		return v, nil
	}

	if !hasType {
		if n, err := strconv.ParseInt(text, 0, 64); err == nil {
			return ari.IntValue(n), nil
		}
	}

	u, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed integer literal")
	}
	v := ari.UintValue(u)
	if hasType {
		if err := v.SetDeclaredType(declType, true); err != nil {
			return ari.Undefined(), err
		}
	}
	return v, nil
}

func (p *parser) parseTypedLiteral(t ari.Type) (ari.Value, error) {
	switch t {
	case ari.TypeNull:
		if _, err := p.expect(token.Ident, "null"); err != nil {
			return ari.Undefined(), err
		}
		v := ari.NullValue()
		_ = v.SetDeclaredType(t, true)
		return v, nil
	case ari.TypeBool:
		tok, err := p.expect(token.Ident, "a boolean")
		if err != nil {
			return ari.Undefined(), err
		}
		var b bool
		switch strings.ToLower(tok.Text) {
		case "true":
			b = true
		case "false":
			b = false
		default:
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "expected true/false, got %q", tok.Text)
		}
		v := ari.BoolValue(b)
		_ = v.SetDeclaredType(t, true)
		return v, nil
	case ari.TypeByte, ari.TypeUint, ari.TypeVast, ari.TypeUvast, ari.TypeInt, ari.TypeReal32, ari.TypeReal64:
		tok, err := p.expect(token.Number, "a numeric literal")
		if err != nil {
			return ari.Undefined(), err
		}
		return numberLiteral(tok.Text, t, true)
	case ari.TypeTextstr, ari.TypeLabel:
		if t == ari.TypeLabel && p.tok.Kind == token.Ident {
			name := p.tok.Text
			p.advance()
			return ari.LabelValue(name), nil
		}
		tok, err := p.expect(token.String, "a quoted string")
		if err != nil {
			return ari.Undefined(), err
		}
		var v ari.Value
		if t == ari.TypeLabel {
			v = ari.LabelValue(tok.Text)
			return v, nil
		}
		v = ari.TextValue(tok.Text)
		_ = v.SetDeclaredType(t, true)
		return v, nil
	case ari.TypeBytestr, ari.TypeCBOR:
		tok, err := p.expect(token.Hex, "a byte string (h'...')")
		if err != nil {
			return ari.Undefined(), err
		}
		b, err := hex.DecodeString(tok.Text)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed byte string")
		}
		v := ari.ByteValue(b)
		_ = v.SetDeclaredType(t, true)
		return v, nil
	case ari.TypeTP, ari.TypeTD:
		return p.parseTimespec(t)
	case ari.TypeARIType:
		tok, err := p.expect(token.Ident, "an ARI-type name")
		if err != nil {
			return ari.Undefined(), err
		}
		inner, ok := ari.TypeByName(tok.Text)
		if !ok {
			return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unknown ARI-type %q", tok.Text)
		}
		return ari.ARITypeValue(inner), nil
	case ari.TypeAC:
		return p.parseAC()
	case ari.TypeAM:
		return p.parseAM()
	case ari.TypeTBL:
		return p.parseTBL()
	case ari.TypeEXECSet:
		return p.parseEXECSet()
	case ari.TypeRPTSet:
		return p.parseRPTSet()
	default:
		return ari.Undefined(), ari.NewErr(ari.StatusDecoding, "unsupported literal type %v", t)
	}
}

func (p *parser) parseTimespec(t ari.Type) (ari.Value, error) {
	neg := false
	if p.tok.Kind == token.Number && strings.HasPrefix(p.tok.Text, "-") {
		neg = true
	}
	tok, err := p.expect(token.Number, "a time value")
	if err != nil {
		return ari.Undefined(), err
	}
	text := strings.TrimPrefix(tok.Text, "-")
	whole := text
	var frac string
	if i := strings.IndexByte(text, '.'); i >= 0 {
		whole = text[:i]
		frac = text[i+1:]
	}
	sec, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed time value")
	}
	var nsec uint32
	if frac != "" {
		for len(frac) < 9 {
			frac += "0"
		}
		frac = frac[:9]
		n, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed time fraction")
		}
		nsec = uint32(n)
	}
	v := ari.TimeValue(ari.Timespec{Neg: neg, Sec: sec, Nsec: nsec})
	if err := v.SetDeclaredType(t, true); err != nil {
		return ari.Undefined(), err
	}
	return v, nil
}

func (p *parser) parseAC() (ari.Value, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return ari.Undefined(), err
	}
	if p.tok.Kind == token.RParen {
		p.advance()
		return ari.SetContainer(ari.NewAC()), nil
	}
	ac, err := p.parsePositionalBody()
	if err != nil {
		return ari.Undefined(), err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ari.Undefined(), err
	}
	return ari.SetContainer(ac), nil
}

func (p *parser) parseAM() (ari.Value, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return ari.Undefined(), err
	}
	if p.tok.Kind == token.RParen {
		p.advance()
		return ari.SetContainer(&ari.AM{}), nil
	}
	m, err := p.parseNamedParamBody()
	if err != nil {
		return ari.Undefined(), err
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ari.Undefined(), err
	}
	return ari.SetContainer(m), nil
}

func (p *parser) parseTBL() (ari.Value, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return ari.Undefined(), err
	}
	nTok, err := p.expect(token.Number, "a column count")
	if err != nil {
		return ari.Undefined(), err
	}
	ncols, err := strconv.Atoi(nTok.Text)
	if err != nil {
		return ari.Undefined(), ari.Wrap(ari.StatusDecoding, err, "malformed column count")
	}
	var items []ari.Value
	for p.tok.Kind == token.Semicolon || p.tok.Kind == token.Comma {
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return ari.Undefined(), err
		}
		items = append(items, v)
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ari.Undefined(), err
	}
	tbl, err := ari.NewTBL(ncols, items)
	if err != nil {
		return ari.Undefined(), err
	}
	return ari.SetContainer(tbl), nil
}

func (p *parser) parseEXECSet() (ari.Value, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return ari.Undefined(), err
	}
	nonce, err := p.parseValue()
	if err != nil {
		return ari.Undefined(), err
	}
	var targets []ari.Value
	for p.tok.Kind == token.Semicolon || p.tok.Kind == token.Comma {
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return ari.Undefined(), err
		}
		targets = append(targets, v)
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ari.Undefined(), err
	}
	return ari.SetContainer(&ari.EXECSet{Nonce: nonce, Targets: targets}), nil
}

func (p *parser) parseRPTSet() (ari.Value, error) {
	if _, err := p.expect(token.LParen, "'('"); err != nil {
		return ari.Undefined(), err
	}
	nonce, err := p.parseValue()
	if err != nil {
		return ari.Undefined(), err
	}
	if _, err := p.expect(token.Semicolon, "';'"); err != nil {
		return ari.Undefined(), err
	}
	reftime, err := p.parseValue()
	if err != nil {
		return ari.Undefined(), err
	}
	var reports []ari.Report
	for p.tok.Kind == token.Semicolon {
		p.advance()
		if _, err := p.expect(token.LParen, "'('"); err != nil {
			return ari.Undefined(), err
		}
		relTime, err := p.parseValue()
		if err != nil {
			return ari.Undefined(), err
		}
		if _, err := p.expect(token.Semicolon, "';'"); err != nil {
			return ari.Undefined(), err
		}
		source, err := p.parseValue()
		if err != nil {
			return ari.Undefined(), err
		}
		var items []ari.Value
		for p.tok.Kind == token.Semicolon || p.tok.Kind == token.Comma {
			p.advance()
			v, err := p.parseValue()
			if err != nil {
				return ari.Undefined(), err
			}
			items = append(items, v)
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return ari.Undefined(), err
		}
		reports = append(reports, ari.Report{RelTime: relTime, Source: source, Items: items})
	}
	if _, err := p.expect(token.RParen, "')'"); err != nil {
		return ari.Undefined(), err
	}
	return ari.SetContainer(&ari.RPTSet{Nonce: nonce, RefTime: reftime, Reports: reports}), nil
}
