// Package token defines the lexical tokens produced by the lexer and the
// source positions carried through every later compilation stage.
package token

import "fmt"

// Position identifies a single point in a source file.
type Position struct {
	File   string
	Line   int // 1-based
	Column int // 1-based, counted in runes
	Offset int // 0-based byte offset
}

// String renders a position as "file:line:column".
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open range [Start, End) in a source file. Every token and
// every syntax tree node built from tokens carries one, so that errors raised
// at any later stage can still point back at the original source text.
type Span struct {
	Start Position
	End   Position
}

// String renders a span using its start position, which is all diagnostics
// printed by this module ever show.
func (s Span) String() string {
	return s.Start.String()
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Kind identifies the lexical class of a Token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Ident
	Number
	Char
	String

	Plus
	Minus
	Star
	Slash
	Semicolon
	LBracket
	RBracket

	// FieldMain, FieldSetup and MetaOpen are recognized whole by the lexer:
	// the opening '[' is only consumed as part of one of these when it is
	// immediately (no intervening whitespace) followed by "main]", "setup]"
	// or '@' respectively. Any other '[' lexes as a plain LBracket.
	FieldMain
	FieldSetup
	MetaOpen // "[@"
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case Char:
		return "character literal"
	case String:
		return "string literal"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Star:
		return "'*'"
	case Slash:
		return "'/'"
	case Semicolon:
		return "';'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case FieldMain:
		return "[main]"
	case FieldSetup:
		return "[setup]"
	case MetaOpen:
		return "[@"
	default:
		return "unknown token"
	}
}

// Token is a single lexeme together with the span of source text it came
// from. Text is the raw source text (for Ident/Number) or the decoded
// contents (for Char's rune value stashed in Value, and String's unescaped
// — there is no escaping in this language — body).
type Token struct {
	Kind  Kind
	Text  string
	Value int64 // decoded value for Number and Char tokens
	Span  Span
}

// String implements a debug-friendly representation, used by -debug tracing
// and tests.
func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, String:
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Span)
	case Char:
		return fmt.Sprintf("%s(%q=%d)@%s", t.Kind, t.Text, t.Value, t.Span)
	default:
		return fmt.Sprintf("%s@%s", t.Kind, t.Span)
	}
}
