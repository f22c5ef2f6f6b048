// Package ast defines the syntax tree produced by the parser (spec.md §3,
// §4.2): fields, scoped instruction sequences, instruction calls and their
// arguments.
package ast

import "github.com/AtmolanderMimi/basm/token"

// ParamKind distinguishes the two meta-instruction parameter namespaces.
type ParamKind int

// Parameter kinds.
const (
	NumberParam ParamKind = iota
	ScopeParam
)

// Param is one formal parameter of a meta-instruction: a bare name for a
// number parameter, or a name written in brackets for a scope parameter.
type Param struct {
	Name string
	Kind ParamKind
	Span token.Span
}

// Program is the root of a parsed source file: an optional setup field, any
// number of meta-instruction fields in source order, and exactly one main
// field.
type Program struct {
	Setup     *Scope // nil if the program has no [setup] field
	SetupSpan token.Span
	Metas     []*MetaDef
	Main      *Scope
	MainSpan  token.Span
}

// MetaDef is a "[@NAME params...] <body>" field: the definition of a
// user-callable meta-instruction.
type MetaDef struct {
	Name   string
	Params []Param
	Body   *Scope
	Span   token.Span
}

// Scope is an ordered sequence of statements (instruction calls or nested,
// inlined scopes), each with its own lexical environment at resolution time.
type Scope struct {
	Stmts []Stmt
	Span  token.Span
}

// Stmt is either a *Call or a *Scope (an inlined scope statement, no
// trailing ';').
type Stmt interface {
	stmtNode()
}

func (*Call) stmtNode()  {}
func (*Scope) stmtNode() {}

// Call is one instruction statement: a name plus an ordered argument list.
type Call struct {
	Name string
	Args []Arg
	Span token.Span
}

// Arg is one argument to an instruction call: a NumberExpr, a ScopeLit, a
// ScopeRef, a StringArg, or (only for ALIS's target name) an IdentArg.
// Meta-instruction signatures use Param, not IdentArg.
type Arg interface {
	argNode()
}

// NumberExpr wraps a number expression argument.
type NumberExpr struct {
	Expr Expr
}

// ScopeLit wraps a literal "[ ... ]" scope body argument.
type ScopeLit struct {
	Scope *Scope
}

// ScopeRef names a scope alias: "[ident]" with no intervening tokens.
type ScopeRef struct {
	Name string
	Span token.Span
}

// StringArg is a raw string literal argument, never alias-substituted.
type StringArg struct {
	Value string
	Span  token.Span
}

// IdentArg is a bare identifier argument, used only for ALIS's target name.
type IdentArg struct {
	Name string
	Span token.Span
}

func (NumberExpr) argNode() {}
func (ScopeLit) argNode()   {}
func (ScopeRef) argNode()   {}
func (StringArg) argNode()  {}
func (IdentArg) argNode()   {}

// Expr is a node of a number expression tree: a leaf (IntLit or IdentExpr) or
// an interior BinExpr node. Number expressions parse strictly left-to-right
// over + - * / with no precedence (spec.md §3).
type Expr interface {
	exprNode()
	Span() token.Span
}

// IntLit is an integer or character literal leaf. Character literals are
// already resolved to their Unicode scalar value by the lexer.
type IntLit struct {
	Value   int64
	SpanVal token.Span
}

// IdentExpr is a leaf referencing a number alias.
type IdentExpr struct {
	Name    string
	SpanVal token.Span
}

// BinExpr is an interior node: Op is one of token.Plus/Minus/Star/Slash.
type BinExpr struct {
	Op      token.Kind
	Left    Expr
	Right   Expr
	SpanVal token.Span
}

func (e IntLit) exprNode()    {}
func (e IdentExpr) exprNode() {}
func (e BinExpr) exprNode()   {}

func (e IntLit) Span() token.Span    { return e.SpanVal }
func (e IdentExpr) Span() token.Span { return e.SpanVal }
func (e BinExpr) Span() token.Span   { return e.SpanVal }
