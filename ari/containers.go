package ari

import "sort"

// Container is implemented by every non-primitive payload an ARI
// literal can own: AC, AM, TBL, EXECSet, RPTSet, and the internal
// ARITYPE box. Every method is a structural, recursive operation; see
// §3.5 and the "Algorithms" row of this module's specification.
type Container interface {
	containerType() Type
	deepCopy() Container
	clear()
	equalC(Container) bool
	compareC(Container) int
	hashC(h uint64) uint64
	visit(fn func(*Value) error) error
}

// AC is the ordered-list container: insertion order is significant and
// duplicates are allowed. See §3.5.
type AC struct {
	Items []Value
}

func NewAC(items ...Value) *AC { return &AC{Items: items} }

func (c *AC) containerType() Type { return TypeAC }

func (c *AC) deepCopy() Container {
	out := &AC{Items: make([]Value, len(c.Items))}
	for i := range c.Items {
		out.Items[i] = c.Items[i].DeepCopy()
	}
	return out
}

func (c *AC) clear() { c.Items = nil }

func (c *AC) equalC(o Container) bool {
	oc, ok := o.(*AC)
	if !ok || len(c.Items) != len(oc.Items) {
		return false
	}
	for i := range c.Items {
		if !c.Items[i].Equal(&oc.Items[i]) {
			return false
		}
	}
	return true
}

func (c *AC) compareC(o Container) int {
	oc := o.(*AC)
	n := len(c.Items)
	if len(oc.Items) < n {
		n = len(oc.Items)
	}
	for i := 0; i < n; i++ {
		if cv := c.Items[i].Compare(&oc.Items[i]); cv != 0 {
			return cv
		}
	}
	return cmpInt(len(c.Items), len(oc.Items))
}

func (c *AC) hashC(h uint64) uint64 {
	for i := range c.Items {
		h = c.Items[i].hash(h)
	}
	return h
}

func (c *AC) visit(fn func(*Value) error) error {
	for i := range c.Items {
		if err := fn(&c.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// AMEntry is one key/value pair of an AM.
type AMEntry struct {
	Key Value
	Val Value
}

// AM is the ordered-map container, sorted by key for deterministic
// iteration. Keys must be primitive-tagged literals without a declared
// ARI-type, and must not be undefined; see §3.1 and §3.4.
type AM struct {
	entries []AMEntry
}

// NewAM builds an AM from entries, sorting by key and rejecting
// duplicate or invalid keys.
func NewAM(entries ...AMEntry) (*AM, error) {
	m := &AM{}
	for _, e := range entries {
		n := len(m.entries)
		if err := m.Set(e.Key, e.Val); err != nil {
			return nil, err
		}
		if len(m.entries) == n {
			return nil, NewErr(StatusInvalidARI, "duplicate map key")
		}
	}
	return m, nil
}

// validMapKey enforces the "primitive keys only" rule of §3.4: no
// declared type, not undefined, not a container, not a reference.
func validMapKey(k *Value) error {
	if k.IsRef() {
		return NewErr(StatusInvalidARI, "map key must be a literal")
	}
	if k.IsUndefined() {
		return NewErr(StatusInvalidARI, "map key must not be undefined")
	}
	if _, has := k.DeclaredType(); has {
		return NewErr(StatusInvalidARI, "map key must not carry a declared ARI-type")
	}
	if k.Tag() == PrimOther {
		return NewErr(StatusInvalidARI, "map key must be a primitive value")
	}
	return nil
}

// Set inserts or replaces the entry for key, keeping entries sorted.
func (m *AM) Set(key, val Value) error {
	if err := validMapKey(&key); err != nil {
		return err
	}
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Key.Compare(&key) >= 0 })
	if i < len(m.entries) && m.entries[i].Key.Compare(&key) == 0 {
		m.entries[i].Val = val
		return nil
	}
	m.entries = append(m.entries, AMEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = AMEntry{Key: key, Val: val}
	return nil
}

// Get looks up a value by key.
func (m *AM) Get(key *Value) (Value, bool) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Key.Compare(key) >= 0 })
	if i < len(m.entries) && m.entries[i].Key.Compare(key) == 0 {
		return m.entries[i].Val, true
	}
	return Value{}, false
}

// Entries returns the sorted entries. The slice must not be mutated by
// the caller.
func (m *AM) Entries() []AMEntry { return m.entries }

// Len returns the number of entries.
func (m *AM) Len() int { return len(m.entries) }

func (m *AM) containerType() Type { return TypeAM }

func (m *AM) deepCopy() Container {
	out := &AM{entries: make([]AMEntry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = AMEntry{Key: e.Key.DeepCopy(), Val: e.Val.DeepCopy()}
	}
	return out
}

func (m *AM) clear() { m.entries = nil }

func (m *AM) equalC(o Container) bool {
	om, ok := o.(*AM)
	if !ok || len(m.entries) != len(om.entries) {
		return false
	}
	for i := range m.entries {
		if !m.entries[i].Key.Equal(&om.entries[i].Key) || !m.entries[i].Val.Equal(&om.entries[i].Val) {
			return false
		}
	}
	return true
}

func (m *AM) compareC(o Container) int {
	om := o.(*AM)
	n := len(m.entries)
	if len(om.entries) < n {
		n = len(om.entries)
	}
	for i := 0; i < n; i++ {
		if c := m.entries[i].Key.Compare(&om.entries[i].Key); c != 0 {
			return c
		}
		if c := m.entries[i].Val.Compare(&om.entries[i].Val); c != 0 {
			return c
		}
	}
	return cmpInt(len(m.entries), len(om.entries))
}

func (m *AM) hashC(h uint64) uint64 {
	// Sum per-entry hashes instead of chaining, so forward and
	// backward iteration of an equal map produce the same hash.
	var sum uint64
	for _, e := range m.entries {
		eh := e.Key.hash(1469598103934665603)
		eh = e.Val.hash(eh)
		sum += eh
	}
	return h ^ sum
}

func (m *AM) visit(fn func(*Value) error) error {
	for i := range m.entries {
		if err := fn(&m.entries[i].Key); err != nil {
			return err
		}
		if err := fn(&m.entries[i].Val); err != nil {
			return err
		}
	}
	return nil
}

// TBL is the fixed-column-count, row-major container. len(Items) %
// NCols must be 0; RowCount is len(Items)/NCols. See §3.5.
type TBL struct {
	NCols int
	Items []Value
}

// NewTBL builds a TBL, rejecting an item count not divisible by ncols.
func NewTBL(ncols int, items []Value) (*TBL, error) {
	if ncols <= 0 {
		return nil, NewErr(StatusInvalidARI, "table column count must be positive")
	}
	if len(items)%ncols != 0 {
		return nil, NewErr(StatusInvalidARI, "table item count %d not divisible by %d columns", len(items), ncols)
	}
	return &TBL{NCols: ncols, Items: items}, nil
}

// RowCount returns len(Items)/NCols.
func (t *TBL) RowCount() int {
	if t.NCols == 0 {
		return 0
	}
	return len(t.Items) / t.NCols
}

func (t *TBL) containerType() Type { return TypeTBL }

func (t *TBL) deepCopy() Container {
	out := &TBL{NCols: t.NCols, Items: make([]Value, len(t.Items))}
	for i := range t.Items {
		out.Items[i] = t.Items[i].DeepCopy()
	}
	return out
}

func (t *TBL) clear() { t.NCols = 0; t.Items = nil }

func (t *TBL) equalC(o Container) bool {
	ot, ok := o.(*TBL)
	if !ok || t.NCols != ot.NCols || len(t.Items) != len(ot.Items) {
		return false
	}
	for i := range t.Items {
		if !t.Items[i].Equal(&ot.Items[i]) {
			return false
		}
	}
	return true
}

func (t *TBL) compareC(o Container) int {
	ot := o.(*TBL)
	if c := cmpInt(t.NCols, ot.NCols); c != 0 {
		return c
	}
	n := len(t.Items)
	if len(ot.Items) < n {
		n = len(ot.Items)
	}
	for i := 0; i < n; i++ {
		if c := t.Items[i].Compare(&ot.Items[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(t.Items), len(ot.Items))
}

func (t *TBL) hashC(h uint64) uint64 {
	h ^= uint64(t.NCols)
	h *= 1099511628211
	for i := range t.Items {
		h = t.Items[i].hash(h)
	}
	return h
}

func (t *TBL) visit(fn func(*Value) error) error {
	for i := range t.Items {
		if err := fn(&t.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// EXECSet is a nonce plus an ordered list of execution targets (literal
// macros or references to executable objects). See §3.5.
type EXECSet struct {
	Nonce   Value
	Targets []Value
}

func (e *EXECSet) containerType() Type { return TypeEXECSet }

func (e *EXECSet) deepCopy() Container {
	out := &EXECSet{Nonce: e.Nonce.DeepCopy(), Targets: make([]Value, len(e.Targets))}
	for i := range e.Targets {
		out.Targets[i] = e.Targets[i].DeepCopy()
	}
	return out
}

func (e *EXECSet) clear() { e.Nonce = Value{}; e.Targets = nil }

func (e *EXECSet) equalC(o Container) bool {
	oe, ok := o.(*EXECSet)
	if !ok || len(e.Targets) != len(oe.Targets) || !e.Nonce.Equal(&oe.Nonce) {
		return false
	}
	for i := range e.Targets {
		if !e.Targets[i].Equal(&oe.Targets[i]) {
			return false
		}
	}
	return true
}

func (e *EXECSet) compareC(o Container) int {
	oe := o.(*EXECSet)
	if c := e.Nonce.Compare(&oe.Nonce); c != 0 {
		return c
	}
	n := len(e.Targets)
	if len(oe.Targets) < n {
		n = len(oe.Targets)
	}
	for i := 0; i < n; i++ {
		if c := e.Targets[i].Compare(&oe.Targets[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(e.Targets), len(oe.Targets))
}

func (e *EXECSet) hashC(h uint64) uint64 {
	h = e.Nonce.hash(h)
	for i := range e.Targets {
		h = e.Targets[i].hash(h)
	}
	return h
}

func (e *EXECSet) visit(fn func(*Value) error) error {
	if err := fn(&e.Nonce); err != nil {
		return err
	}
	for i := range e.Targets {
		if err := fn(&e.Targets[i]); err != nil {
			return err
		}
	}
	return nil
}

// Report is one entry of an RPTSet: a relative time (delta from the
// set's reftime), the producing object reference, and the reported
// items. See §3.5.
type Report struct {
	RelTime Value
	Source  Value
	Items   []Value
}

func (r Report) deepCopy() Report {
	out := Report{RelTime: r.RelTime.DeepCopy(), Source: r.Source.DeepCopy(), Items: make([]Value, len(r.Items))}
	for i := range r.Items {
		out.Items[i] = r.Items[i].DeepCopy()
	}
	return out
}

func (r Report) equal(o Report) bool {
	if !r.RelTime.Equal(&o.RelTime) || !r.Source.Equal(&o.Source) || len(r.Items) != len(o.Items) {
		return false
	}
	for i := range r.Items {
		if !r.Items[i].Equal(&o.Items[i]) {
			return false
		}
	}
	return true
}

func (r Report) compare(o Report) int {
	if c := r.RelTime.Compare(&o.RelTime); c != 0 {
		return c
	}
	if c := r.Source.Compare(&o.Source); c != 0 {
		return c
	}
	n := len(r.Items)
	if len(o.Items) < n {
		n = len(o.Items)
	}
	for i := 0; i < n; i++ {
		if c := r.Items[i].Compare(&o.Items[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(r.Items), len(o.Items))
}

func (r Report) hash(h uint64) uint64 {
	h = r.RelTime.hash(h)
	h = r.Source.hash(h)
	for i := range r.Items {
		h = r.Items[i].hash(h)
	}
	return h
}

// RPTSet is a nonce, a reference time, and an ordered list of reports.
// See §3.5.
type RPTSet struct {
	Nonce   Value
	RefTime Value
	Reports []Report
}

func (r *RPTSet) containerType() Type { return TypeRPTSet }

func (r *RPTSet) deepCopy() Container {
	out := &RPTSet{Nonce: r.Nonce.DeepCopy(), RefTime: r.RefTime.DeepCopy(), Reports: make([]Report, len(r.Reports))}
	for i, rep := range r.Reports {
		out.Reports[i] = rep.deepCopy()
	}
	return out
}

func (r *RPTSet) clear() { r.Nonce = Value{}; r.RefTime = Value{}; r.Reports = nil }

func (r *RPTSet) equalC(o Container) bool {
	or, ok := o.(*RPTSet)
	if !ok || len(r.Reports) != len(or.Reports) ||
		!r.Nonce.Equal(&or.Nonce) || !r.RefTime.Equal(&or.RefTime) {
		return false
	}
	for i := range r.Reports {
		if !r.Reports[i].equal(or.Reports[i]) {
			return false
		}
	}
	return true
}

func (r *RPTSet) compareC(o Container) int {
	or := o.(*RPTSet)
	if c := r.Nonce.Compare(&or.Nonce); c != 0 {
		return c
	}
	if c := r.RefTime.Compare(&or.RefTime); c != 0 {
		return c
	}
	n := len(r.Reports)
	if len(or.Reports) < n {
		n = len(or.Reports)
	}
	for i := 0; i < n; i++ {
		if c := r.Reports[i].compare(or.Reports[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(r.Reports), len(or.Reports))
}

func (r *RPTSet) hashC(h uint64) uint64 {
	h = r.Nonce.hash(h)
	h = r.RefTime.hash(h)
	for _, rep := range r.Reports {
		h = rep.hash(h)
	}
	return h
}

func (r *RPTSet) visit(fn func(*Value) error) error {
	if err := fn(&r.Nonce); err != nil {
		return err
	}
	if err := fn(&r.RefTime); err != nil {
		return err
	}
	for i := range r.Reports {
		if err := fn(&r.Reports[i].RelTime); err != nil {
			return err
		}
		if err := fn(&r.Reports[i].Source); err != nil {
			return err
		}
		for j := range r.Reports[i].Items {
			if err := fn(&r.Reports[i].Items[j]); err != nil {
				return err
			}
		}
	}
	return nil
}
