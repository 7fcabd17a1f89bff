package ari

import "strconv"

// IDSegKind discriminates the active form of an IDSegment.
type IDSegKind uint8

const (
	IDSegNull IDSegKind = iota
	IDSegInt
	IDSegText
)

// IDSegment is one segment of an object path: absent (null form), a
// signed 64-bit enumeration, or a text name. See §3.2.
type IDSegment struct {
	kind IDSegKind
	num  int64
	text string
}

// NullSeg returns the absent/null-form segment.
func NullSeg() IDSegment { return IDSegment{kind: IDSegNull} }

// IntSeg returns an integer-enumeration segment.
func IntSeg(n int64) IDSegment { return IDSegment{kind: IDSegInt, num: n} }

// TextSeg returns a text-name segment.
func TextSeg(s string) IDSegment { return IDSegment{kind: IDSegText, text: s} }

// Kind reports which form is active.
func (s IDSegment) Kind() IDSegKind { return s.kind }

// IsNull reports whether the segment is the absent/null form.
func (s IDSegment) IsNull() bool { return s.kind == IDSegNull }

// Int returns the integer value and true when Kind is IDSegInt.
func (s IDSegment) Int() (int64, bool) {
	if s.kind != IDSegInt {
		return 0, false
	}
	return s.num, true
}

// Text returns the text value and true when Kind is IDSegText.
func (s IDSegment) Text() (string, bool) {
	if s.kind != IDSegText {
		return "", false
	}
	return s.text, true
}

// DerivedInt returns the segment as an integer: the stored number if
// Kind is IDSegInt, or the parsed value if the text form happens to
// parse as a base-10 signed integer. The text form itself is never
// mutated; this only affects lookup.
func (s IDSegment) DerivedInt() (int64, bool) {
	switch s.kind {
	case IDSegInt:
		return s.num, true
	case IDSegText:
		n, err := strconv.ParseInt(s.text, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Equal reports structural equality: same kind and same value.
func (s IDSegment) Equal(o IDSegment) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case IDSegInt:
		return s.num == o.num
	case IDSegText:
		return s.text == o.text
	default:
		return true
	}
}

// Compare imposes a total order: null < int < text, then by value.
func (s IDSegment) Compare(o IDSegment) int {
	if s.kind != o.kind {
		if s.kind < o.kind {
			return -1
		}
		return 1
	}
	switch s.kind {
	case IDSegInt:
		switch {
		case s.num < o.num:
			return -1
		case s.num > o.num:
			return 1
		default:
			return 0
		}
	case IDSegText:
		switch {
		case s.text < o.text:
			return -1
		case s.text > o.text:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func (s IDSegment) String() string {
	switch s.kind {
	case IDSegInt:
		return strconv.FormatInt(s.num, 10)
	case IDSegText:
		return s.text
	default:
		return "null"
	}
}

func (s IDSegment) hash(h uint64) uint64 {
	h ^= uint64(s.kind)
	h *= 1099511628211
	switch s.kind {
	case IDSegInt:
		h ^= uint64(s.num)
		h *= 1099511628211
	case IDSegText:
		for i := 0; i < len(s.text); i++ {
			h ^= uint64(s.text[i])
			h *= 1099511628211
		}
	}
	return h
}
