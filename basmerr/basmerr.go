// Package basmerr implements the single error taxonomy shared by every
// compilation stage (spec.md §7). Every error carries a Kind and the source
// Span it was raised at; a compilation stops at the first one returned —
// there is no partial output and no batching of multiple errors.
package basmerr

import (
	"fmt"

	"github.com/AtmolanderMimi/basm/token"
)

// Kind tags the broad class of an Error, mirroring spec.md §7's taxonomy.
type Kind int

const (
	// LexError covers unterminated strings, bad characters and malformed
	// literals raised by the lexer.
	LexError Kind = iota
	// ParseError covers unexpected tokens, missing ';', unbalanced
	// brackets, and duplicate main/setup fields raised by the parser.
	ParseError
	// TypeError covers wrong arity and wrong argument kind.
	TypeError
	// ScopeError covers an alias (number or scope) not being defined in
	// the current lexical context.
	ScopeError
	// MetaError covers undefined meta-instructions, recursive expansion,
	// and name collisions with built-ins or other meta-instructions.
	MetaError
	// SetupError covers the setup field referencing a meta-instruction,
	// which is not yet registered when setup is normalized.
	SetupError
	// AddressError covers the emitter being asked to move to a negative
	// cell address.
	AddressError
	// OverflowError covers a number expression evaluating outside a
	// range the implementation chose to represent.
	OverflowError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case TypeError:
		return "TypeError"
	case ScopeError:
		return "ScopeError"
	case MetaError:
		return "MetaError"
	case SetupError:
		return "SetupError"
	case AddressError:
		return "AddressError"
	case OverflowError:
		return "OverflowError"
	default:
		return "Error"
	}
}

// Error is the single error type returned by every stage of the pipeline.
type Error struct {
	Kind Kind
	Span token.Span
	Msg  string
}

// New builds an Error of the given kind at the given span.
func New(kind Kind, span token.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Msg)
}
