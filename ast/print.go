package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AtmolanderMimi/basm/token"
)

// String renders the parsed tree as an indented listing, mirroring
// normalizer.Stream's pretty-printer; used for debug tracing (--verbose) of a
// program before normalization.
func (p *Program) String() string {
	var b strings.Builder
	if p.Setup != nil {
		b.WriteString("[setup]\n")
		p.Setup.write(&b, 1)
	}
	for _, m := range p.Metas {
		m.write(&b)
	}
	b.WriteString("[main]\n")
	if p.Main != nil {
		p.Main.write(&b, 1)
	}
	return b.String()
}

func (m *MetaDef) write(b *strings.Builder) {
	b.WriteString("[@")
	b.WriteString(m.Name)
	for _, param := range m.Params {
		b.WriteString(" ")
		if param.Kind == ScopeParam {
			fmt.Fprintf(b, "[%s]", param.Name)
		} else {
			b.WriteString(param.Name)
		}
	}
	b.WriteString("]\n")
	m.Body.write(b, 1)
}

func (s *Scope) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, stmt := range s.Stmts {
		switch v := stmt.(type) {
		case *Scope:
			b.WriteString(indent)
			b.WriteString("[\n")
			v.write(b, depth+1)
			b.WriteString(indent)
			b.WriteString("]\n")
		case *Call:
			b.WriteString(indent)
			v.write(b)
		}
	}
}

func (c *Call) write(b *strings.Builder) {
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteString(" ")
		writeArg(b, arg)
	}
	b.WriteString(";\n")
}

func writeArg(b *strings.Builder, arg Arg) {
	switch a := arg.(type) {
	case NumberExpr:
		b.WriteString(writeExpr(a.Expr))
	case ScopeLit:
		b.WriteString("[...]")
	case ScopeRef:
		fmt.Fprintf(b, "[%s]", a.Name)
	case StringArg:
		b.WriteString(strconv.Quote(a.Value))
	case IdentArg:
		b.WriteString(a.Name)
	}
}

func writeExpr(e Expr) string {
	switch v := e.(type) {
	case IntLit:
		return strconv.FormatInt(v.Value, 10)
	case IdentExpr:
		return v.Name
	case BinExpr:
		return writeExpr(v.Left) + " " + opSymbol(v.Op) + " " + writeExpr(v.Right)
	default:
		return "?"
	}
}

func opSymbol(k token.Kind) string {
	switch k {
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	default:
		return "?"
	}
}
