// Package lex tokenizes ARI text source, grounded on the
// hand-rolled lexer/parser split used throughout the retrieval pack's
// parser examples: a Lexer produces one token.Token at a time and the
// caller (the aritext recursive-descent parser) drives it.
package lex

import (
	"strings"

	"github.com/jhuapl-dtnma/ari-go/ari/aritext/token"
)

// Lexer scans an ARI text string into tokens.
type Lexer struct {
	src string
	pos int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer { return &Lexer{src: src} }

// Next returns the next token, advancing the scan position.
func (l *Lexer) Next() token.Token {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: l.pos}
	}
	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '/':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			l.pos += 2
			return token.Token{Kind: token.DblSlash, Text: "//", Pos: start}
		}
		l.pos++
		return token.Token{Kind: token.Slash, Text: "/", Pos: start}
	case c == '@':
		l.pos++
		return token.Token{Kind: token.At, Text: "@", Pos: start}
	case c == '(':
		l.pos++
		return token.Token{Kind: token.LParen, Text: "(", Pos: start}
	case c == ')':
		l.pos++
		return token.Token{Kind: token.RParen, Text: ")", Pos: start}
	case c == ',':
		l.pos++
		return token.Token{Kind: token.Comma, Text: ",", Pos: start}
	case c == '=':
		l.pos++
		return token.Token{Kind: token.Equals, Text: "=", Pos: start}
	case c == ';':
		l.pos++
		return token.Token{Kind: token.Semicolon, Text: ";", Pos: start}
	case c == '"':
		return l.lexString()
	case c == 'h' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '\'':
		return l.lexHex()
	case isDigit(c) || ((c == '-' || c == '+') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	default:
		l.pos++
		return token.Token{Kind: token.Error, Text: string(c), Pos: start}
	}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

func (l *Lexer) lexString() token.Token {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			return token.Token{Kind: token.String, Text: b.String(), Pos: start}
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			b.WriteByte(unescape(l.src[l.pos]))
			l.pos++
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	return token.Token{Kind: token.Error, Text: "unterminated string", Pos: start}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (l *Lexer) lexHex() token.Token {
	start := l.pos
	l.pos += 2 // h'
	for l.pos < len(l.src) && l.src[l.pos] != '\'' {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.Error, Text: "unterminated byte string", Pos: start}
	}
	text := l.src[start+2 : l.pos]
	l.pos++ // closing '
	return token.Token{Kind: token.Hex, Text: text, Pos: start}
}

func (l *Lexer) lexNumber() token.Token {
	start := l.pos
	if l.src[l.pos] == '-' || l.src[l.pos] == '+' {
		l.pos++
	}
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || isHexLetter(l.src[l.pos]) ||
		l.src[l.pos] == '.' || l.src[l.pos] == 'x' || l.src[l.pos] == 'X' ||
		l.src[l.pos] == 'b' || l.src[l.pos] == 'B' ||
		l.src[l.pos] == 'e' || l.src[l.pos] == 'E' ||
		((l.src[l.pos] == '+' || l.src[l.pos] == '-') && l.pos > start && (l.src[l.pos-1] == 'e' || l.src[l.pos-1] == 'E'))) {
		l.pos++
	}
	return token.Token{Kind: token.Number, Text: l.src[start:l.pos], Pos: start}
}

func (l *Lexer) lexIdent() token.Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return token.Token{Kind: token.Ident, Text: l.src[start:l.pos], Pos: start}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexLetter(c byte) bool  { return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-' || c == '.' || c == ':'
}
