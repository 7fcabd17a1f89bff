package ari

// ParamKind discriminates the three states of a reference's parameter
// block, per §3.4.
type ParamKind uint8

const (
	ParamNone ParamKind = iota
	ParamAC
	ParamAM
)

// ParamBlock is the parameter payload carried by an object reference:
// none, a positional list (AC), or a named/index-keyed map (AM). See
// §3.4.
type ParamBlock struct {
	kind ParamKind
	ac   *AC
	am   *AM
}

// NoParams returns the NONE parameter block.
func NoParams() ParamBlock { return ParamBlock{kind: ParamNone} }

// PositionalParams wraps an AC as the parameter block.
func PositionalParams(ac *AC) ParamBlock { return ParamBlock{kind: ParamAC, ac: ac} }

// NamedParams wraps an AM as the parameter block, normalizing its keys
// per §3.4: text keys lowercased, integer keys canonicalized to
// unsigned. Mixing both forms for what would resolve to the same formal
// is caught later, during binding (§4.4), not here.
func NamedParams(am *AM) (ParamBlock, error) {
	norm, err := NewAM()
	if err != nil {
		return ParamBlock{}, err
	}
	for _, e := range am.Entries() {
		k, err := normalizeParamKey(e.Key)
		if err != nil {
			return ParamBlock{}, err
		}
		if err := norm.Set(k, e.Val); err != nil {
			return ParamBlock{}, err
		}
	}
	return ParamBlock{kind: ParamAM, am: norm}, nil
}

func normalizeParamKey(k Value) (Value, error) {
	if s, ok := k.AsText(); ok {
		return TextValue(lowerASCII(s)), nil
	}
	if n, ok := k.AsInt(); ok {
		return UintValue(uint64(n)), nil
	}
	if u, ok := k.AsUint(); ok {
		return UintValue(u), nil
	}
	return Value{}, NewErr(StatusInvalidARI, "parameter key must be text or integer")
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Kind reports which form is active.
func (p ParamBlock) Kind() ParamKind { return p.kind }

// AC returns the positional list and true when Kind is ParamAC.
func (p ParamBlock) AC() (*AC, bool) { return p.ac, p.kind == ParamAC }

// AM returns the named map and true when Kind is ParamAM.
func (p ParamBlock) AM() (*AM, bool) { return p.am, p.kind == ParamAM }

func (p ParamBlock) deepCopy() ParamBlock {
	switch p.kind {
	case ParamAC:
		return ParamBlock{kind: ParamAC, ac: p.ac.deepCopy().(*AC)}
	case ParamAM:
		return ParamBlock{kind: ParamAM, am: p.am.deepCopy().(*AM)}
	default:
		return ParamBlock{kind: ParamNone}
	}
}

func (p ParamBlock) equal(o ParamBlock) bool {
	if p.kind != o.kind {
		return false
	}
	switch p.kind {
	case ParamAC:
		return p.ac.equalC(o.ac)
	case ParamAM:
		return p.am.equalC(o.am)
	default:
		return true
	}
}

func (p ParamBlock) compare(o ParamBlock) int {
	if p.kind != o.kind {
		return cmpInt(int(p.kind), int(o.kind))
	}
	switch p.kind {
	case ParamAC:
		return p.ac.compareC(o.ac)
	case ParamAM:
		return p.am.compareC(o.am)
	default:
		return 0
	}
}

func (p ParamBlock) hash(h uint64) uint64 {
	h ^= uint64(p.kind)
	h *= 1099511628211
	switch p.kind {
	case ParamAC:
		return p.ac.hashC(h)
	case ParamAM:
		return p.am.hashC(h)
	default:
		return h
	}
}
