// Package lexer tokenizes basm source text (spec.md §4.1, component C1).
//
// It is a hand-rolled rune scanner rather than a wrapper around text/scanner:
// basm's literal rules are close to but not quite Go's (no escape sequences
// in char or string literals, literal newlines allowed inside strings, and
// the field headers [main]/[setup]/[@ need an adjacency check text/scanner
// has no hook for), so reusing it would fight it at every literal. The
// overall shape — a struct holding the whole source, an explicit line/column
// cursor, and a small set of scanning helpers — follows the teacher's own
// asm.parser scanning loop.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/token"
)

// Lexer turns source text into a stream of tokens, consumed one at a time
// via Next.
type Lexer struct {
	file string
	src  []rune

	pos  int // index into src of the next unread rune
	off  int // byte offset in the source text of the next unread rune
	line int
	col  int
}

// New creates a Lexer over src, attributing all produced spans to file.
func New(file string, src string) *Lexer {
	return &Lexer{
		file: file,
		src:  []rune(src),
		pos:  0,
		line: 1,
		col:  1,
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{File: l.file, Line: l.line, Column: l.col, Offset: l.off}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

// peekAt returns the rune n positions ahead of the cursor (0 is the next
// unread rune), or utf8.RuneError if that is past the end of input.
func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return utf8.RuneError
	}
	return l.src[l.pos+n]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	l.off += utf8.RuneLen(r)
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }

// skipSpaceAndComments consumes whitespace and "//" line comments. It
// returns once the cursor is at the start of a real token (or at EOF).
func (l *Lexer) skipSpaceAndComments() {
	for !l.eof() {
		r := l.peekAt(0)
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.peekAt(0) != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// matchLiteral reports whether the upcoming runs of runes spell s exactly,
// with no skipped whitespace, and if so consumes them.
func (l *Lexer) matchLiteral(s string) bool {
	rs := []rune(s)
	for i, r := range rs {
		if l.peekAt(i) != r {
			return false
		}
	}
	for range rs {
		l.advance()
	}
	return true
}

// Next scans and returns the next token, or a *basmerr.Error (Kind LexError)
// if the source text is malformed at the cursor.
func (l *Lexer) Next() (token.Token, error) {
	l.skipSpaceAndComments()
	start := l.position()

	if l.eof() {
		return token.Token{Kind: token.EOF, Span: token.Span{Start: start, End: start}}, nil
	}

	r := l.peekAt(0)

	switch {
	case r == '[':
		return l.lexBracket(start)
	case r == ']':
		l.advance()
		return l.finish(token.RBracket, "]", start)
	case r == '+':
		l.advance()
		return l.finish(token.Plus, "+", start)
	case r == '-':
		l.advance()
		return l.finish(token.Minus, "-", start)
	case r == '*':
		l.advance()
		return l.finish(token.Star, "*", start)
	case r == '/':
		l.advance()
		return l.finish(token.Slash, "/", start)
	case r == ';':
		l.advance()
		return l.finish(token.Semicolon, ";", start)
	case r == '\'':
		return l.lexChar(start)
	case r == '"':
		return l.lexString(start)
	case isDigit(r):
		return l.lexNumber(start)
	case isIdentStart(r):
		return l.lexIdent(start)
	default:
		l.advance()
		return token.Token{}, basmerr.New(basmerr.LexError, l.span(start), "unknown character %q", r)
	}
}

func (l *Lexer) span(start token.Position) token.Span {
	return token.Span{Start: start, End: l.position()}
}

func (l *Lexer) finish(kind token.Kind, text string, start token.Position) (token.Token, error) {
	return token.Token{Kind: kind, Text: text, Span: l.span(start)}, nil
}

// lexBracket implements the field-header adjacency rule: the '[' is only
// consumed as part of [main], [setup] or [@ when what directly follows it
// (no whitespace at all) spells one of those forms; otherwise it is a plain
// LBracket, and scopes/scope-references are disambiguated later by the
// parser.
func (l *Lexer) lexBracket(start token.Position) (token.Token, error) {
	l.advance() // consume '['

	switch {
	case l.matchLiteral("main]"):
		return l.finish(token.FieldMain, "[main]", start)
	case l.matchLiteral("setup]"):
		return l.finish(token.FieldSetup, "[setup]", start)
	case l.peekAt(0) == '@':
		l.advance()
		return l.finish(token.MetaOpen, "[@", start)
	default:
		return l.finish(token.LBracket, "[", start)
	}
}

func (l *Lexer) lexIdent(start token.Position) (token.Token, error) {
	var b strings.Builder
	for !l.eof() && isIdentCont(l.peekAt(0)) {
		b.WriteRune(l.advance())
	}
	return l.finish(token.Ident, b.String(), start)
}

func (l *Lexer) lexNumber(start token.Position) (token.Token, error) {
	var b strings.Builder
	for !l.eof() && isDigit(l.peekAt(0)) {
		b.WriteRune(l.advance())
	}
	text := b.String()
	var v int64
	for _, r := range text {
		v = v*10 + int64(r-'0')
	}
	return token.Token{Kind: token.Number, Text: text, Value: v, Span: l.span(start)}, nil
}

// lexChar scans 'x' where x is exactly one source character; no escape
// sequences are recognized.
func (l *Lexer) lexChar(start token.Position) (token.Token, error) {
	l.advance() // opening '
	if l.eof() {
		return token.Token{}, basmerr.New(basmerr.LexError, l.span(start), "unterminated character literal")
	}
	ch := l.advance()
	if l.eof() || l.peekAt(0) != '\'' {
		return token.Token{}, basmerr.New(basmerr.LexError, l.span(start), "malformed character literal: expected closing '\\''")
	}
	l.advance() // closing '
	return token.Token{Kind: token.Char, Text: string(ch), Value: int64(ch), Span: l.span(start)}, nil
}

// lexString scans "..." with no escape processing; a literal newline inside
// the quotes becomes a newline in the resulting string.
func (l *Lexer) lexString(start token.Position) (token.Token, error) {
	l.advance() // opening "
	var b strings.Builder
	for {
		if l.eof() {
			return token.Token{}, basmerr.New(basmerr.LexError, l.span(start), "unterminated string literal")
		}
		r := l.peekAt(0)
		if r == '"' {
			l.advance()
			break
		}
		b.WriteRune(l.advance())
	}
	return token.Token{Kind: token.String, Text: b.String(), Span: l.span(start)}, nil
}

// All tokenizes the entirety of src, stopping at the first error.
func All(file, src string) ([]token.Token, error) {
	l := New(file, src)
	var toks []token.Token
	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks, nil
		}
	}
}
