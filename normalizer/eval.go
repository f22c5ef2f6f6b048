package normalizer

import (
	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/env"
	"github.com/AtmolanderMimi/basm/token"
)

// evalNumber evaluates a number expression tree in e, strictly left-to-right
// (the tree is already shaped that way by the parser; eval just walks it).
// Division truncates toward zero, matching Go's native integer division.
func evalNumber(expr ast.Expr, e *env.Env) (int64, error) {
	switch ex := expr.(type) {
	case ast.IntLit:
		return ex.Value, nil
	case ast.IdentExpr:
		v, ok := e.LookupNumber(ex.Name)
		if !ok {
			return 0, basmerr.New(basmerr.ScopeError, ex.SpanVal, "number alias %q was not defined", ex.Name)
		}
		return v, nil
	case ast.BinExpr:
		left, err := evalNumber(ex.Left, e)
		if err != nil {
			return 0, err
		}
		right, err := evalNumber(ex.Right, e)
		if err != nil {
			return 0, err
		}
		switch ex.Op {
		case token.Plus:
			return left + right, nil
		case token.Minus:
			return left - right, nil
		case token.Star:
			return left * right, nil
		case token.Slash:
			if right == 0 {
				return 0, basmerr.New(basmerr.OverflowError, ex.SpanVal, "division by zero")
			}
			return left / right, nil
		}
	}
	return 0, basmerr.New(basmerr.TypeError, expr.Span(), "malformed number expression")
}
