package amm

import (
	"fmt"
	"strings"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// Use is the USE semantic type: an alias for another type plus a chain
// of constraints that a converted value must additionally satisfy.
type Use struct {
	TypeName    string
	Base        Type
	Constraints []Constraint
}

func (u *Use) Name() string { return u.TypeName }

func (u *Use) Match(v *ari.Value) bool {
	if !u.Base.Match(v) {
		return false
	}
	for _, c := range u.Constraints {
		if !c.Check(v) {
			return false
		}
	}
	return true
}

func (u *Use) Convert(v *ari.Value) (ari.Value, error) {
	out, err := u.Base.Convert(v)
	if err != nil {
		return ari.Undefined(), err
	}
	for _, c := range u.Constraints {
		if !c.Check(&out) {
			return ari.Undefined(), ari.NewErr(ari.StatusConstraint, "%s: %s", u.TypeName, c.Name())
		}
	}
	return out, nil
}

// ULIST is a homogeneous AC whose items all match one element type,
// optionally size-bounded.
type UList struct {
	TypeName string
	Elem     Type
	MinSize  int
	MaxSize  int // 0 means unbounded
}

func (u *UList) Name() string { return u.TypeName }

func (u *UList) Match(v *ari.Value) bool {
	ac, ok := asAC(v)
	if !ok || !u.sizeOK(len(ac.Items)) {
		return false
	}
	for i := range ac.Items {
		if !u.Elem.Match(&ac.Items[i]) {
			return false
		}
	}
	return true
}

func (u *UList) sizeOK(n int) bool {
	if n < u.MinSize {
		return false
	}
	if u.MaxSize > 0 && n > u.MaxSize {
		return false
	}
	return true
}

func (u *UList) Convert(v *ari.Value) (ari.Value, error) {
	ac, ok := asAC(v)
	if !ok {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%s requires an AC", u.TypeName)
	}
	if !u.sizeOK(len(ac.Items)) {
		return ari.Undefined(), ari.NewErr(ari.StatusConstraint, "%s: size %d out of [%d,%d]", u.TypeName, len(ac.Items), u.MinSize, u.MaxSize)
	}
	items := make([]ari.Value, 0, len(ac.Items))
	for i := range ac.Items {
		item, err := u.Elem.Convert(&ac.Items[i])
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusTypeMismatch, err, fmt.Sprintf("%s[%d]", u.TypeName, i))
		}
		items = append(items, item)
	}
	return ari.SetContainer(ari.NewAC(items...)), nil
}

// DLIST is a heterogeneous, fixed-arity AC: item i must match Elems[i].
type DList struct {
	TypeName string
	Elems    []Type
}

func (d *DList) Name() string { return d.TypeName }

func (d *DList) Match(v *ari.Value) bool {
	ac, ok := asAC(v)
	if !ok || len(ac.Items) != len(d.Elems) {
		return false
	}
	for i := range ac.Items {
		if !d.Elems[i].Match(&ac.Items[i]) {
			return false
		}
	}
	return true
}

func (d *DList) Convert(v *ari.Value) (ari.Value, error) {
	ac, ok := asAC(v)
	if !ok || len(ac.Items) != len(d.Elems) {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%s requires an AC of %d items", d.TypeName, len(d.Elems))
	}
	items := make([]ari.Value, len(d.Elems))
	for i, elemT := range d.Elems {
		item, err := elemT.Convert(&ac.Items[i])
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusTypeMismatch, err, fmt.Sprintf("%s[%d]", d.TypeName, i))
		}
		items[i] = item
	}
	return ari.SetContainer(ari.NewAC(items...)), nil
}

// UMAP is a homogeneous AM: every key matches KeyType and every value
// matches ValType.
type UMap struct {
	TypeName string
	KeyType  Type
	ValType  Type
}

func (u *UMap) Name() string { return u.TypeName }

func (u *UMap) Match(v *ari.Value) bool {
	am, ok := asAM(v)
	if !ok {
		return false
	}
	for _, e := range am.Entries() {
		k, val := e.Key, e.Val
		if !u.KeyType.Match(&k) || !u.ValType.Match(&val) {
			return false
		}
	}
	return true
}

func (u *UMap) Convert(v *ari.Value) (ari.Value, error) {
	am, ok := asAM(v)
	if !ok {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%s requires an AM", u.TypeName)
	}
	out, err := ari.NewAM()
	if err != nil {
		return ari.Undefined(), ari.Wrap(ari.StatusArgument, err, u.TypeName)
	}
	for _, e := range am.Entries() {
		k, val := e.Key, e.Val
		ck, err := u.KeyType.Convert(&k)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusTypeMismatch, err, u.TypeName+" key")
		}
		cv, err := u.ValType.Convert(&val)
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusTypeMismatch, err, u.TypeName+" value")
		}
		if err := out.Set(ck, cv); err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusInvalidARI, err, u.TypeName+" key")
		}
	}
	return ari.SetContainer(out), nil
}

// TBLT is a table type: a fixed ordered list of named, typed columns.
type Column struct {
	Name string
	Elem Type
}

type TableType struct {
	TypeName string
	Columns  []Column
}

func (t *TableType) Name() string { return t.TypeName }

func (t *TableType) Match(v *ari.Value) bool {
	tbl, ok := asTBL(v)
	if !ok || tbl.NCols != len(t.Columns) || len(tbl.Items)%len(t.Columns) != 0 {
		return false
	}
	for i := range tbl.Items {
		if !t.Columns[i%len(t.Columns)].Elem.Match(&tbl.Items[i]) {
			return false
		}
	}
	return true
}

func (t *TableType) Convert(v *ari.Value) (ari.Value, error) {
	tbl, ok := asTBL(v)
	if !ok || tbl.NCols != len(t.Columns) {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%s requires a table with %d columns", t.TypeName, len(t.Columns))
	}
	if len(tbl.Items)%len(t.Columns) != 0 {
		return ari.Undefined(), ari.NewErr(ari.StatusConstraint, "%s: row count not a multiple of column count", t.TypeName)
	}
	items := make([]ari.Value, len(tbl.Items))
	for i := range tbl.Items {
		col := t.Columns[i%len(t.Columns)]
		item, err := col.Elem.Convert(&tbl.Items[i])
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusTypeMismatch, err, fmt.Sprintf("%s.%s", t.TypeName, col.Name))
		}
		items[i] = item
	}
	out, err := ari.NewTBL(len(t.Columns), items)
	if err != nil {
		return ari.Undefined(), ari.Wrap(ari.StatusInvalidARI, err, t.TypeName)
	}
	return ari.SetContainer(out), nil
}

// UNION matches the first alternative that accepts the value,
// trying Match in order and falling back to the first alternative
// whose Convert succeeds when none match outright.
type Union struct {
	TypeName     string
	Alternatives []Type
}

func (u *Union) Name() string { return u.TypeName }

func (u *Union) Match(v *ari.Value) bool {
	for _, alt := range u.Alternatives {
		if alt.Match(v) {
			return true
		}
	}
	return false
}

func (u *Union) Convert(v *ari.Value) (ari.Value, error) {
	// A value already matching one alternative passes through
	// unchanged: a union does not re-declare a type that already
	// conforms (e.g. {VAST,INT} over /INT/5 stays /INT/5).
	for _, alt := range u.Alternatives {
		if alt.Match(v) {
			return v.DeepCopy(), nil
		}
	}
	for _, alt := range u.Alternatives {
		if out, err := alt.Convert(v); err == nil {
			return out, nil
		}
	}
	names := make([]string, len(u.Alternatives))
	for i, alt := range u.Alternatives {
		names[i] = alt.Name()
	}
	return ari.Undefined(), ari.NewErr(ari.StatusNoChoice, "%s: no alternative of [%s] matched", u.TypeName, strings.Join(names, ","))
}

// SEQ is an ordered sequence of zero-or-more elements of one type,
// represented the same way ULIST is (as an AC) but without a size
// constraint — distinguished from ULIST by intent, matching the
// typing engine's source vocabulary for repeated-parameter lists.
type Seq struct {
	TypeName string
	Elem     Type
}

func (s *Seq) Name() string { return s.TypeName }

func (s *Seq) Match(v *ari.Value) bool {
	ac, ok := asAC(v)
	if !ok {
		return false
	}
	for i := range ac.Items {
		if !s.Elem.Match(&ac.Items[i]) {
			return false
		}
	}
	return true
}

func (s *Seq) Convert(v *ari.Value) (ari.Value, error) {
	ac, ok := asAC(v)
	if !ok {
		return ari.Undefined(), ari.NewErr(ari.StatusTypeMismatch, "%s requires an AC", s.TypeName)
	}
	items := make([]ari.Value, len(ac.Items))
	for i := range ac.Items {
		item, err := s.Elem.Convert(&ac.Items[i])
		if err != nil {
			return ari.Undefined(), ari.Wrap(ari.StatusTypeMismatch, err, fmt.Sprintf("%s[%d]", s.TypeName, i))
		}
		items[i] = item
	}
	return ari.SetContainer(ari.NewAC(items...)), nil
}

func asAC(v *ari.Value) (*ari.AC, bool) {
	if v.IsRef() {
		return nil, false
	}
	c, ok := v.Container()
	if !ok {
		return nil, false
	}
	ac, ok := c.(*ari.AC)
	return ac, ok
}

func asAM(v *ari.Value) (*ari.AM, bool) {
	if v.IsRef() {
		return nil, false
	}
	c, ok := v.Container()
	if !ok {
		return nil, false
	}
	am, ok := c.(*ari.AM)
	return am, ok
}

func asTBL(v *ari.Value) (*ari.TBL, bool) {
	if v.IsRef() {
		return nil, false
	}
	c, ok := v.Container()
	if !ok {
		return nil, false
	}
	tbl, ok := c.(*ari.TBL)
	return tbl, ok
}
