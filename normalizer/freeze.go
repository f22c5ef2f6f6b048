package normalizer

import (
	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/env"
)

// freezeScope implements the scope-alias pre-normalization rule (spec.md
// §4.4/§4.5): when "ALIS name [scopeBody]" binds a scope literal, every
// number expression nested anywhere inside scopeBody is evaluated right now,
// against fe, and baked into an IntLit. Scope references and INLN targets
// inside the body stay symbolic; they are resolved lazily, at the point the
// stored body is eventually spliced in by INLN.
//
// fe threads exactly the nesting a real normalization pass would use (a
// fresh child frame per nested scope body), so a number alias defined by a
// nested ALIS inside scopeBody shadows correctly and does not leak to
// statements outside scopeBody.
func freezeScope(scope *ast.Scope, fe *env.Env) (*ast.Scope, error) {
	newStmts := make([]ast.Stmt, len(scope.Stmts))
	for i, stmt := range scope.Stmts {
		switch s := stmt.(type) {
		case *ast.Scope:
			frozen, err := freezeScope(s, fe.Child())
			if err != nil {
				return nil, err
			}
			newStmts[i] = frozen
		case *ast.Call:
			frozen, err := freezeCall(s, fe)
			if err != nil {
				return nil, err
			}
			newStmts[i] = frozen
		}
	}
	return &ast.Scope{Stmts: newStmts, Span: scope.Span}, nil
}

func freezeCall(call *ast.Call, fe *env.Env) (*ast.Call, error) {
	newArgs := make([]ast.Arg, len(call.Args))
	for i, a := range call.Args {
		switch arg := a.(type) {
		case ast.NumberExpr:
			v, err := evalNumber(arg.Expr, fe)
			if err != nil {
				return nil, err
			}
			newArgs[i] = ast.NumberExpr{Expr: ast.IntLit{Value: v, SpanVal: arg.Expr.Span()}}
		case ast.ScopeLit:
			frozenBody, err := freezeScope(arg.Scope, fe.Child())
			if err != nil {
				return nil, err
			}
			newArgs[i] = ast.ScopeLit{Scope: frozenBody}
		default:
			newArgs[i] = a
		}
	}

	// A nested "ALIS name <num>" also freezes immediately; record its value
	// in fe so later statements in this same frozen body see it.
	if call.Name == "ALIS" && len(newArgs) == 2 {
		if ident, ok := call.Args[0].(ast.IdentArg); ok {
			if numArg, ok := newArgs[1].(ast.NumberExpr); ok {
				if lit, ok := numArg.Expr.(ast.IntLit); ok {
					fe.DefineNumber(ident.Name, lit.Value)
				}
			}
		}
	}

	return &ast.Call{Name: call.Name, Args: newArgs, Span: call.Span}, nil
}
