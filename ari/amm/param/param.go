// Package param implements formal-parameter binding for AMM object
// templates: matching an actual parameter block (NONE/AC/AM) against a
// formal parameter list, applying declared types and defaults, and
// substituting bound values for label placeholders inside a produced
// ARI. It builds on ari.Translate the same way the core package's own
// internal machinery does, so label substitution is just another
// translation callback.
package param

import (
	"fmt"

	"github.com/jhuapl-dtnma/ari-go/ari"
	"github.com/jhuapl-dtnma/ari-go/ari/amm"
)

// Formal describes one formal parameter of an object template: its
// name, its semantic type, and an optional default used when the
// actual parameters leave it unbound (NONE, a short AC, or an AM that
// omits it).
type Formal struct {
	Name     string
	Type     amm.Type
	Default  *ari.Value
	Optional bool
}

// Binding is an itemized parameter set: an ordered array indexed by
// ordinal and a name-keyed dictionary, both views over the same
// underlying value storage (§4.4), so a LABEL naming either a formal's
// name or its ordinal position resolves to the identical bound value.
type Binding struct {
	names  []string
	values []ari.Value
	byName map[string]int
}

func newBinding(formals []Formal) *Binding {
	byName := make(map[string]int, len(formals))
	names := make([]string, len(formals))
	for i, f := range formals {
		byName[f.Name] = i
		names[i] = f.Name
	}
	return &Binding{
		names:  names,
		values: make([]ari.Value, len(formals)),
		byName: byName,
	}
}

// Get returns the value bound to the formal named name.
func (b *Binding) Get(name string) (ari.Value, bool) {
	i, ok := b.byName[name]
	if !ok {
		return ari.Value{}, false
	}
	return b.values[i], true
}

// GetOrdinal returns the value bound to the formal at zero-based
// ordinal position i.
func (b *Binding) GetOrdinal(i int) (ari.Value, bool) {
	if i < 0 || i >= len(b.values) {
		return ari.Value{}, false
	}
	return b.values[i], true
}

// Len reports the number of formals in the binding.
func (b *Binding) Len() int { return len(b.values) }

// Populate binds an actual ParamBlock against formals, following the
// NONE/AC/AM binding rules: NONE binds every formal to its default,
// or to undefined for an Optional formal without one, and fails for any
// other formal without a default; AC binds positionally and requires len(actual) <= len(formals);
// AM binds each formal by its ordinal (as an integer key) or by its
// name (as a text key, already lowercased per ari.NamedParams) —
// supplying both forms for the same formal is an error, as is an
// unknown name or an out-of-range ordinal.
func Populate(formals []Formal, actual ari.ParamBlock) (*Binding, error) {
	switch actual.Kind() {
	case ari.ParamNone:
		return populateNone(formals)
	case ari.ParamAC:
		ac, _ := actual.AC()
		return populatePositional(formals, ac)
	case ari.ParamAM:
		am, _ := actual.AM()
		return populateNamed(formals, am)
	default:
		return nil, ari.NewErr(ari.StatusArgument, "unknown parameter block kind")
	}
}

func populateNone(formals []Formal) (*Binding, error) {
	b := newBinding(formals)
	for i, f := range formals {
		v, err := defaultOf(f)
		if err != nil {
			return nil, err
		}
		b.values[i] = v
	}
	return b, nil
}

func populatePositional(formals []Formal, ac *ari.AC) (*Binding, error) {
	if len(ac.Items) > len(formals) {
		return nil, ari.NewErr(ari.StatusArgument, "too many positional parameters: got %d, want at most %d", len(ac.Items), len(formals))
	}
	b := newBinding(formals)
	for i, f := range formals {
		if i < len(ac.Items) {
			cv, err := f.Type.Convert(&ac.Items[i])
			if err != nil {
				return nil, ari.Wrap(ari.StatusTypeMismatch, err, fmt.Sprintf("parameter %q", f.Name))
			}
			b.values[i] = cv
			continue
		}
		v, err := defaultOf(f)
		if err != nil {
			return nil, err
		}
		b.values[i] = v
	}
	return b, nil
}

func populateNamed(formals []Formal, am *ari.AM) (*Binding, error) {
	b := newBinding(formals)
	bound := make([]bool, len(formals))
	for _, e := range am.Entries() {
		idx, label, err := resolveParamKey(formals, e.Key)
		if err != nil {
			return nil, err
		}
		if bound[idx] {
			return nil, ari.NewErr(ari.StatusArgument, "parameter %q supplied by both name and ordinal", label)
		}
		val := e.Val
		cv, err := formals[idx].Type.Convert(&val)
		if err != nil {
			return nil, ari.Wrap(ari.StatusTypeMismatch, err, fmt.Sprintf("parameter %q", label))
		}
		b.values[idx] = cv
		bound[idx] = true
	}
	for i, f := range formals {
		if bound[i] {
			continue
		}
		v, err := defaultOf(f)
		if err != nil {
			return nil, err
		}
		b.values[i] = v
	}
	return b, nil
}

// resolveParamKey maps a normalized AM key (text, already lowercased,
// or unsigned ordinal per ari.NamedParams) to a formal's index.
func resolveParamKey(formals []Formal, key ari.Value) (int, string, error) {
	if s, ok := key.AsText(); ok {
		for i, f := range formals {
			if f.Name == s {
				return i, s, nil
			}
		}
		return 0, s, ari.NewErr(ari.StatusArgument, "unknown parameter %q", s)
	}
	if u, ok := key.AsUint(); ok {
		if u >= uint64(len(formals)) {
			return 0, "", ari.NewErr(ari.StatusArgument, "ordinal parameter %d exceeds %d formals", u, len(formals))
		}
		return int(u), formals[u].Name, nil
	}
	return 0, "", ari.NewErr(ari.StatusArgument, "named parameter key must be text or integer")
}

func defaultOf(f Formal) (ari.Value, error) {
	if f.Default != nil {
		return f.Default.DeepCopy(), nil
	}
	if f.Optional {
		return ari.Undefined(), nil
	}
	return ari.Undefined(), ari.NewErr(ari.StatusArgument, "missing required parameter %q", f.Name)
}

// SubstituteLabels walks template, the body of an object definition,
// and replaces every LABEL literal whose text names a formal in
// binding, or whose text is the decimal form of a non-negative integer
// matching a formal's ordinal, with the bound value (§4.5). Everything
// else is structurally copied; unmatched LABELs are left intact.
func SubstituteLabels(template *ari.Value, binding *Binding) (ari.Value, error) {
	return ari.Translate(template, func(in *ari.Value) (ari.Value, ari.TranslateResult, error) {
		t, has := in.DeclaredType()
		if !has || t != ari.TypeLabel {
			return ari.Value{}, ari.TranslateDefault, nil
		}
		name, ok := in.AsText()
		if !ok {
			return ari.Value{}, ari.TranslateDefault, nil
		}
		if bound, ok := binding.Get(name); ok {
			return bound.DeepCopy(), ari.TranslateFinal, nil
		}
		if ord, ok := parseOrdinal(name); ok {
			if bound, ok := binding.GetOrdinal(ord); ok {
				return bound.DeepCopy(), ari.TranslateFinal, nil
			}
		}
		return ari.Value{}, ari.TranslateDefault, nil
	})
}

// parseOrdinal parses the decimal text LabelOrdinal encodes, rejecting
// anything that is not a plain non-negative integer.
func parseOrdinal(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Produce binds actual against formals and substitutes the resulting
// binding into template in one step, the operation an object
// evaluator runs each time a parameterized CONST/EDD/CTRL is
// instantiated.
func Produce(formals []Formal, actual ari.ParamBlock, template *ari.Value) (ari.Value, error) {
	binding, err := Populate(formals, actual)
	if err != nil {
		return ari.Undefined(), err
	}
	return SubstituteLabels(template, binding)
}
