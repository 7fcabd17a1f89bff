package ari

// Visit walks v and every value nested inside its containers,
// depth-first, calling fn on each node including v itself. Visit stops
// and returns the first error fn produces.
func (v *Value) Visit(fn func(*Value) error) error {
	if err := fn(v); err != nil {
		return err
	}
	if v.isRef {
		if v.ref.Params.kind == ParamAC {
			return v.ref.Params.ac.visit(func(item *Value) error { return item.Visit(fn) })
		}
		if v.ref.Params.kind == ParamAM {
			return v.ref.Params.am.visit(func(item *Value) error { return item.Visit(fn) })
		}
		return nil
	}
	if v.lit.tag == PrimOther && v.lit.ctr != nil {
		return v.lit.ctr.visit(func(item *Value) error { return item.Visit(fn) })
	}
	return nil
}

// TranslateResult is returned by a Translate callback to control
// recursion, per the visitor/translator design note in §9.
type TranslateResult int

const (
	// TranslateDefault means "recurse into contained values using the
	// default structural copy"; the callback did not replace this
	// node.
	TranslateDefault TranslateResult = iota
	// TranslateFinal means the callback fully produced *out itself;
	// do not recurse further under it.
	TranslateFinal
	// TranslateFailure aborts the whole translation with an error.
	TranslateFailure
)

// Translate produces a new value structurally derived from v, giving
// fn a chance to substitute any node (and its entire subtree) before
// the default recursive copy applies. This is the mechanism label
// substitution (§4.5) is built on.
func Translate(v *Value, fn func(in *Value) (out Value, result TranslateResult, err error)) (Value, error) {
	out, result, err := fn(v)
	switch result {
	case TranslateFailure:
		if err == nil {
			err = NewErr(StatusArgument, "translate callback reported failure")
		}
		return Value{}, err
	case TranslateFinal:
		return out, nil
	default:
		// fall through to default structural copy
	}

	if v.isRef {
		newParams := v.ref.Params
		switch v.ref.Params.kind {
		case ParamAC:
			items := make([]Value, len(v.ref.Params.ac.Items))
			for i := range v.ref.Params.ac.Items {
				tv, err := Translate(&v.ref.Params.ac.Items[i], fn)
				if err != nil {
					return Value{}, err
				}
				items[i] = tv
			}
			newParams = ParamBlock{kind: ParamAC, ac: &AC{Items: items}}
		case ParamAM:
			nm := &AM{}
			for _, e := range v.ref.Params.am.Entries() {
				tv, err := Translate(&e.Val, fn)
				if err != nil {
					return Value{}, err
				}
				if err := nm.Set(e.Key.DeepCopy(), tv); err != nil {
					return Value{}, err
				}
			}
			newParams = ParamBlock{kind: ParamAM, am: nm}
		}
		return Value{isRef: true, ref: Reference{Path: v.ref.Path.Copy(), Params: newParams}}, nil
	}

	if v.lit.tag != PrimOther || v.lit.ctr == nil {
		return v.DeepCopy(), nil
	}

	switch c := v.lit.ctr.(type) {
	case *AC:
		items := make([]Value, len(c.Items))
		for i := range c.Items {
			tv, err := Translate(&c.Items[i], fn)
			if err != nil {
				return Value{}, err
			}
			items[i] = tv
		}
		return SetContainer(&AC{Items: items}), nil
	case *AM:
		nm := &AM{}
		for _, e := range c.Entries() {
			tv, err := Translate(&e.Val, fn)
			if err != nil {
				return Value{}, err
			}
			if err := nm.Set(e.Key.DeepCopy(), tv); err != nil {
				return Value{}, err
			}
		}
		return SetContainer(nm), nil
	case *TBL:
		items := make([]Value, len(c.Items))
		for i := range c.Items {
			tv, err := Translate(&c.Items[i], fn)
			if err != nil {
				return Value{}, err
			}
			items[i] = tv
		}
		out, err := NewTBL(c.NCols, items)
		if err != nil {
			return Value{}, err
		}
		return SetContainer(out), nil
	case *EXECSet:
		nonce, err := Translate(&c.Nonce, fn)
		if err != nil {
			return Value{}, err
		}
		targets := make([]Value, len(c.Targets))
		for i := range c.Targets {
			tv, err := Translate(&c.Targets[i], fn)
			if err != nil {
				return Value{}, err
			}
			targets[i] = tv
		}
		return SetContainer(&EXECSet{Nonce: nonce, Targets: targets}), nil
	case *RPTSet:
		nonce, err := Translate(&c.Nonce, fn)
		if err != nil {
			return Value{}, err
		}
		reftime, err := Translate(&c.RefTime, fn)
		if err != nil {
			return Value{}, err
		}
		reports := make([]Report, len(c.Reports))
		for i, rep := range c.Reports {
			rt, err := Translate(&rep.RelTime, fn)
			if err != nil {
				return Value{}, err
			}
			src, err := Translate(&rep.Source, fn)
			if err != nil {
				return Value{}, err
			}
			items := make([]Value, len(rep.Items))
			for j := range rep.Items {
				tv, err := Translate(&rep.Items[j], fn)
				if err != nil {
					return Value{}, err
				}
				items[j] = tv
			}
			reports[i] = Report{RelTime: rt, Source: src, Items: items}
		}
		return SetContainer(&RPTSet{Nonce: nonce, RefTime: reftime, Reports: reports}), nil
	default:
		return v.DeepCopy(), nil
	}
}
