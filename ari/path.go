package ari

import "fmt"

// RevisionDate is the optional year/month/day model-revision carried by
// an object path (§3.3). Zero value means "no revision given"; callers
// distinguish that from a genuine date with Present.
type RevisionDate struct {
	Year    int16 // full year, e.g. 2023
	Month   uint8 // 1-12
	Day     uint8 // 1-31
	Present bool
}

// Equal reports structural equality.
func (r RevisionDate) Equal(o RevisionDate) bool {
	if r.Present != o.Present {
		return false
	}
	if !r.Present {
		return true
	}
	return r.Year == o.Year && r.Month == o.Month && r.Day == o.Day
}

// Compare imposes absent < present, then chronological order.
func (r RevisionDate) Compare(o RevisionDate) int {
	if r.Present != o.Present {
		if !r.Present {
			return -1
		}
		return 1
	}
	if !r.Present {
		return 0
	}
	switch {
	case r.Year != o.Year:
		return cmpInt(int(r.Year), int(o.Year))
	case r.Month != o.Month:
		return cmpInt(int(r.Month), int(o.Month))
	default:
		return cmpInt(int(r.Day), int(o.Day))
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (r RevisionDate) String() string {
	if !r.Present {
		return ""
	}
	return fmt.Sprintf("%04d%02d%02d", r.Year, r.Month, r.Day)
}

// ObjectPath is the five-part addressing tuple of §3.3: organization,
// model, optional revision date, type, and object. Org and Model are
// absent (IDSegNull) for a relative ARI reference; Type and Object are
// absent for a bare namespace reference.
type ObjectPath struct {
	Org     IDSegment
	Model   IDSegment
	Rev     RevisionDate
	TypeSeg IDSegment
	Object  IDSegment

	// derivedType caches the ARI-type resolved from TypeSeg, per §3.3
	// ("when present and recognized, a derived ARI-type is cached
	// alongside"). Populated lazily by DerivedType.
	derivedType    Type
	derivedTypeSet bool
}

// IsNamespace reports whether the path carries only org+model (no
// type/object parts) -- a namespace reference.
func (p *ObjectPath) IsNamespace() bool {
	return p.TypeSeg.IsNull() && p.Object.IsNull()
}

// IsRelative reports whether the path omits org and model -- a relative
// ARI reference consisting only of type+object.
func (p *ObjectPath) IsRelative() bool {
	return p.Org.IsNull() && p.Model.IsNull()
}

// IsFullyQualified reports whether every part but the optional revision
// is present.
func (p *ObjectPath) IsFullyQualified() bool {
	return !p.Org.IsNull() && !p.Model.IsNull() && !p.TypeSeg.IsNull() && !p.Object.IsNull()
}

// DerivedType resolves TypeSeg to an ARI-type, caching the result. The
// second return is false when TypeSeg is null or unrecognized.
func (p *ObjectPath) DerivedType() (Type, bool) {
	if p.derivedTypeSet {
		return p.derivedType, p.derivedType != 0
	}
	t, ok := p.resolveType()
	if ok {
		p.derivedType = t
	}
	p.derivedTypeSet = true
	return t, ok
}

func (p *ObjectPath) resolveType() (Type, bool) {
	switch p.TypeSeg.Kind() {
	case IDSegInt:
		n, _ := p.TypeSeg.Int()
		t := Type(n)
		if _, ok := TypeName(t); ok && t.IsReference() {
			return t, true
		}
		return 0, false
	case IDSegText:
		text, _ := p.TypeSeg.Text()
		t, ok := TypeByName(text)
		if ok && t.IsReference() {
			return t, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Copy returns a deep copy. ObjectPath holds no pointers so this is a
// plain value copy, but the cached derived type is dropped so a mutated
// TypeSeg cannot leak a stale cache into the copy's future life.
func (p ObjectPath) Copy() ObjectPath {
	p.derivedTypeSet = false
	return p
}

// Equal reports structural equality over every part.
func (p *ObjectPath) Equal(o *ObjectPath) bool {
	return p.Org.Equal(o.Org) &&
		p.Model.Equal(o.Model) &&
		p.Rev.Equal(o.Rev) &&
		p.TypeSeg.Equal(o.TypeSeg) &&
		p.Object.Equal(o.Object)
}

// Compare imposes a total order across all five parts in field order.
func (p *ObjectPath) Compare(o *ObjectPath) int {
	if c := p.Org.Compare(o.Org); c != 0 {
		return c
	}
	if c := p.Model.Compare(o.Model); c != 0 {
		return c
	}
	if c := p.Rev.Compare(o.Rev); c != 0 {
		return c
	}
	if c := p.TypeSeg.Compare(o.TypeSeg); c != 0 {
		return c
	}
	return p.Object.Compare(o.Object)
}

func (p *ObjectPath) hash(h uint64) uint64 {
	h = p.Org.hash(h)
	h = p.Model.hash(h)
	for _, b := range []byte(p.Rev.String()) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	h = p.TypeSeg.hash(h)
	h = p.Object.hash(h)
	return h
}

func (p *ObjectPath) String() string {
	rev := ""
	if p.Rev.Present {
		rev = "@" + p.Rev.String()
	}
	return fmt.Sprintf("//%s/%s%s/%s/%s", p.Org, p.Model, rev, p.TypeSeg, p.Object)
}
