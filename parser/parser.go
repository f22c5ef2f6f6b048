// Package parser implements the recursive-descent parser that builds an
// ast.Program from a token stream (spec.md §4.2, component C2).
package parser

import (
	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/lexer"
	"github.com/AtmolanderMimi/basm/token"
)

// parser holds the full token stream for the source file and a read cursor,
// following the teacher's style of a single mutable struct driving the whole
// pass (asm.parser), generalized here from "assemble straight to opcodes" to
// "build a tree".
type parser struct {
	toks []token.Token
	pos  int
}

// Parse tokenizes and parses src, returning the resulting program or the
// first error encountered (lexical or syntactic).
func Parse(file, src string) (*ast.Program, error) {
	toks, err := lexer.All(file, src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseProgram()
}

func (p *parser) cur() token.Token       { return p.toks[p.pos] }
func (p *parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind token.Kind) (token.Token, error) {
	if p.cur().Kind != kind {
		return token.Token{}, basmerr.New(basmerr.ParseError, p.cur().Span,
			"expected %s, got %s", kind, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	haveSetup := false

	for {
		switch p.cur().Kind {
		case token.FieldSetup:
			if haveSetup {
				return nil, basmerr.New(basmerr.ParseError, p.cur().Span, "more than one [setup] field")
			}
			haveSetup = true
			start := p.advance().Span
			scope, err := p.parseScope()
			if err != nil {
				return nil, err
			}
			prog.Setup = scope
			prog.SetupSpan = token.Join(start, scope.Span)
		case token.MetaOpen:
			meta, err := p.parseMetaDef()
			if err != nil {
				return nil, err
			}
			prog.Metas = append(prog.Metas, meta)
		case token.FieldMain:
			start := p.advance().Span
			scope, err := p.parseScope()
			if err != nil {
				return nil, err
			}
			prog.Main = scope
			prog.MainSpan = token.Join(start, scope.Span)
			if p.cur().Kind != token.EOF {
				return nil, basmerr.New(basmerr.ParseError, p.cur().Span,
					"unexpected %s after [main] field", p.cur().Kind)
			}
			return prog, nil
		case token.EOF:
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span, "expected [main] field, got end of file")
		default:
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span,
				"expected [setup], [@meta] or [main], got %s", p.cur().Kind)
		}
	}
}

func (p *parser) parseMetaDef() (*ast.MetaDef, error) {
	start := p.advance().Span // consume "[@"
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	var params []ast.Param
	for p.cur().Kind != token.RBracket {
		switch p.cur().Kind {
		case token.Ident:
			t := p.advance()
			params = append(params, ast.Param{Name: t.Text, Kind: ast.NumberParam, Span: t.Span})
		case token.LBracket:
			lb := p.advance()
			nt, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			rb, err := p.expect(token.RBracket)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{Name: nt.Text, Kind: ast.ScopeParam, Span: token.Join(lb.Span, rb.Span)})
		case token.EOF:
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span, "unterminated meta-instruction header")
		default:
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span,
				"expected a parameter or ']', got %s", p.cur().Kind)
		}
	}
	p.advance() // consume ']'

	body, err := p.parseScope()
	if err != nil {
		return nil, err
	}
	return &ast.MetaDef{
		Name:   nameTok.Text,
		Params: params,
		Body:   body,
		Span:   token.Join(start, body.Span),
	}, nil
}

// parseScope parses "[ stmt* ]". The opening '[' must be the current token.
func (p *parser) parseScope() (*ast.Scope, error) {
	lb, err := p.expect(token.LBracket)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur().Kind != token.RBracket {
		if p.cur().Kind == token.EOF {
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span, "unbalanced '[': missing ']'")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	rb := p.advance()
	return &ast.Scope{Stmts: stmts, Span: token.Join(lb.Span, rb.Span)}, nil
}

// parseStmt parses either an inlined scope statement (no trailing ';') or an
// instruction call statement (trailing ';').
func (p *parser) parseStmt() (ast.Stmt, error) {
	if p.cur().Kind == token.LBracket {
		return p.parseScope()
	}
	return p.parseCall()
}

func (p *parser) parseCall() (*ast.Call, error) {
	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	call := &ast.Call{Name: nameTok.Text}

	// ALIS is syntactically special: its first argument is always a bare
	// identifier, never evaluated as a number expression.
	if call.Name == "ALIS" {
		if p.cur().Kind != token.Ident {
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span,
				"ALIS expects an identifier as its first argument, got %s", p.cur().Kind)
		}
		t := p.advance()
		call.Args = append(call.Args, ast.IdentArg{Name: t.Text, Span: t.Span})
	}

	for p.cur().Kind != token.Semicolon {
		if p.cur().Kind == token.EOF {
			return nil, basmerr.New(basmerr.ParseError, p.cur().Span, "missing ';' to terminate instruction statement")
		}
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	semi := p.advance()
	call.Span = token.Join(nameTok.Span, semi.Span)
	return call, nil
}

// parseArg dispatches on the current token, per spec.md §4.2.
func (p *parser) parseArg() (ast.Arg, error) {
	switch p.cur().Kind {
	case token.LBracket:
		// "[ident]" with no intervening tokens is a ScopeRef; anything
		// else starting with '[' is a literal scope body.
		if p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.RBracket {
			lb := p.advance()
			name := p.advance()
			rb := p.advance()
			return ast.ScopeRef{Name: name.Text, Span: token.Join(lb.Span, rb.Span)}, nil
		}
		scope, err := p.parseScope()
		if err != nil {
			return nil, err
		}
		return ast.ScopeLit{Scope: scope}, nil
	case token.String:
		t := p.advance()
		return ast.StringArg{Value: t.Text, Span: t.Span}, nil
	case token.Number, token.Char, token.Ident:
		expr, err := p.parseNumberExpr()
		if err != nil {
			return nil, err
		}
		return ast.NumberExpr{Expr: expr}, nil
	default:
		return nil, basmerr.New(basmerr.ParseError, p.cur().Span, "unexpected %s in argument position", p.cur().Kind)
	}
}

// parseNumberExpr implements "term (('+'|'-'|'*'|'/') term)*": strictly
// left-to-right, no precedence.
func (p *parser) parseNumberExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for isAddOp(p.cur().Kind) {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.BinExpr{Op: op.Kind, Left: left, Right: right, SpanVal: token.Join(left.Span(), right.Span())}
	}
	return left, nil
}

func isAddOp(k token.Kind) bool {
	return k == token.Plus || k == token.Minus || k == token.Star || k == token.Slash
}

func (p *parser) parseTerm() (ast.Expr, error) {
	switch p.cur().Kind {
	case token.Number, token.Char:
		t := p.advance()
		return ast.IntLit{Value: t.Value, SpanVal: t.Span}, nil
	case token.Ident:
		t := p.advance()
		return ast.IdentExpr{Name: t.Text, SpanVal: t.Span}, nil
	default:
		return nil, basmerr.New(basmerr.ParseError, p.cur().Span,
			"expected a number, character literal or identifier, got %s", p.cur().Kind)
	}
}
