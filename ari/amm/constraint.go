package amm

import (
	"regexp"

	"github.com/jhuapl-dtnma/ari-go/ari"
)

// Constraint refines a USE type beyond its base type's Match/Convert.
type Constraint interface {
	Name() string
	Check(v *ari.Value) bool
}

// StrLen bounds a TEXTSTR/LABEL/BYTESTR value's length in code units.
type StrLen struct {
	Min, Max int // Max <= 0 means unbounded
}

func (StrLen) Name() string { return "STRLEN" }

func (c StrLen) Check(v *ari.Value) bool {
	n := -1
	if s, ok := v.AsText(); ok {
		n = len(s)
	} else if b, ok := v.AsBytes(); ok {
		n = len(b.Bytes())
	}
	if n < 0 {
		return false
	}
	if n < c.Min {
		return false
	}
	if c.Max > 0 && n > c.Max {
		return false
	}
	return true
}

// RangeInt64 bounds a signed integral value to a closed interval.
type RangeInt64 struct {
	Min, Max int64
}

func (RangeInt64) Name() string { return "RANGE_INT64" }

func (c RangeInt64) Check(v *ari.Value) bool {
	i, ok := v.AsInt()
	if !ok {
		if u, ok := v.AsUint(); ok {
			i = int64(u)
		} else {
			return false
		}
	}
	return i >= c.Min && i <= c.Max
}

// IdentBase constrains a LABEL/TEXTSTR to identifier syntax: it must
// start with a letter or underscore and contain only letters, digits,
// and underscores thereafter.
type IdentBase struct{}

func (IdentBase) Name() string { return "IDENT_BASE" }

func (IdentBase) Check(v *ari.Value) bool {
	s, ok := v.AsText()
	if !ok || s == "" {
		return false
	}
	c := s[0]
	if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// TextPat constrains a TEXTSTR to match a regular expression.
type TextPat struct {
	Source string
	re     *regexp.Regexp
}

// NewTextPat compiles pattern once and returns a ready Constraint.
func NewTextPat(pattern string) (*TextPat, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ari.Wrap(ari.StatusArgument, err, "TEXTPAT")
	}
	return &TextPat{Source: pattern, re: re}, nil
}

func (TextPat) Name() string { return "TEXTPAT" }

func (c *TextPat) Check(v *ari.Value) bool {
	s, ok := v.AsText()
	if !ok {
		return false
	}
	return c.re.MatchString(s)
}
