package parser_test

import (
	"strings"
	"testing"

	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/parser"
)

func TestParseMinimalProgram(t *testing.T) {
	prog, err := parser.Parse("t", "[main] [ ZERO 0; ]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Setup != nil {
		t.Fatal("expected no setup field")
	}
	if len(prog.Main.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Main.Stmts))
	}
	call, ok := prog.Main.Stmts[0].(*ast.Call)
	if !ok || call.Name != "ZERO" {
		t.Fatalf("expected a ZERO call, got %#v", prog.Main.Stmts[0])
	}
}

func TestParseSetupAndMeta(t *testing.T) {
	src := `
		[setup] [ ALIS GVx 5; ]
		[@M a] [ INCR a GVx; ]
		[main] [ M 0; OUT 0; ]
	`
	prog, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Setup == nil {
		t.Fatal("expected a setup field")
	}
	if len(prog.Metas) != 1 || prog.Metas[0].Name != "M" {
		t.Fatalf("expected meta M, got %#v", prog.Metas)
	}
	if len(prog.Metas[0].Params) != 1 || prog.Metas[0].Params[0].Kind != ast.NumberParam {
		t.Fatalf("expected one number param, got %#v", prog.Metas[0].Params)
	}
}

func TestParseScopeRefVsScopeLiteral(t *testing.T) {
	src := `[main] [ INLN [inc]; ALIS s [ ZERO 0; ]; ]`
	prog, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inln := prog.Main.Stmts[0].(*ast.Call)
	if _, ok := inln.Args[0].(ast.ScopeRef); !ok {
		t.Fatalf("expected ScopeRef, got %#v", inln.Args[0])
	}
	alis := prog.Main.Stmts[1].(*ast.Call)
	if _, ok := alis.Args[0].(ast.IdentArg); !ok {
		t.Fatalf("expected IdentArg for ALIS target, got %#v", alis.Args[0])
	}
	if _, ok := alis.Args[1].(ast.ScopeLit); !ok {
		t.Fatalf("expected ScopeLit, got %#v", alis.Args[1])
	}
}

func TestNumberExprLeftToRightNoPrecedence(t *testing.T) {
	src := `[main] [ INCR 0 3+2*4; ]`
	prog, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := prog.Main.Stmts[0].(*ast.Call)
	numArg := call.Args[1].(ast.NumberExpr)
	top, ok := numArg.Expr.(ast.BinExpr)
	if !ok || top.Op.String() != "'*'" {
		t.Fatalf("expected the outermost node to be '*', got %#v", numArg.Expr)
	}
	inner, ok := top.Left.(ast.BinExpr)
	if !ok || inner.Op.String() != "'+'" {
		t.Fatalf("expected the left child to be '+', got %#v", top.Left)
	}
}

func TestMissingSemicolonIsAnError(t *testing.T) {
	_, err := parser.Parse("t", "[main] [ ZERO 0 ]")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestDuplicateMainIsAnError(t *testing.T) {
	_, err := parser.Parse("t", "[main] [ ZERO 0; ] [main] [ ZERO 1; ]")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestDuplicateSetupIsAnError(t *testing.T) {
	_, err := parser.Parse("t", "[setup] [] [setup] [] [main] []")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestUnbalancedBracketsIsAnError(t *testing.T) {
	_, err := parser.Parse("t", "[main] [ ZERO 0;")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestInlinedScopeStatementHasNoSemicolon(t *testing.T) {
	prog, err := parser.Parse("t", "[main] [ [ ZERO 0; ] OUT 0; ]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Main.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Main.Stmts))
	}
	if _, ok := prog.Main.Stmts[0].(*ast.Scope); !ok {
		t.Fatalf("expected first statement to be a nested scope, got %#v", prog.Main.Stmts[0])
	}
}

func TestProgramStringRendersSetupMetaAndMain(t *testing.T) {
	src := `
		[setup] [ ALIS GVx 5; ]
		[@M a] [ INCR a GVx; ]
		[main] [ M 0; OUT 0; ]
	`
	prog, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := prog.String()
	for _, want := range []string{"[setup]", "ALIS GVx 5;", "[@M a]", "INCR a GVx;", "[main]", "M 0;", "OUT 0;"} {
		if !strings.Contains(got, want) {
			t.Errorf("Program.String() = %q, missing %q", got, want)
		}
	}
}
