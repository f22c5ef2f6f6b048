package normalizer

import (
	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/basmerr"
)

// argKind is the shape a generic built-in argument slot expects; it does not
// cover ALIS (whose first argument is a bare identifier, handled separately
// in the parser and in normalizeALIS) or INLN (checked against its own single
// scope slot below).
type argKind int

const (
	numKind argKind = iota
	scopeKind
	stringKind
)

// signatures is the arity/kind table for every built-in except ALIS, which
// the parser already constrains syntactically and normalizeALIS checks on
// its own terms.
var signatures = map[string][]argKind{
	"ZERO": {numKind},
	"INCR": {numKind, numKind},
	"DECR": {numKind, numKind},
	"ADDP": {numKind, numKind},
	"SUBP": {numKind, numKind},
	"COPY": {numKind, numKind, numKind},
	"WHNE": {numKind, numKind, scopeKind},
	"IN":   {numKind},
	"OUT":  {numKind},
	"LSTR": {numKind, stringKind},
	"PSTR": {numKind, stringKind},
	"INLN": {scopeKind},
	"RAW":  {stringKind},
	"BBOX": {numKind},
	"ASUM": {numKind},
}

func argMatchesKind(a ast.Arg, k argKind) bool {
	switch k {
	case numKind:
		_, ok := a.(ast.NumberExpr)
		return ok
	case scopeKind:
		switch a.(type) {
		case ast.ScopeLit, ast.ScopeRef:
			return true
		}
		return false
	case stringKind:
		_, ok := a.(ast.StringArg)
		return ok
	}
	return false
}

// checkArgs validates call's argument count and per-argument kind against
// sig, raising TypeError on the first mismatch.
func checkArgs(call *ast.Call, sig []argKind) error {
	if len(call.Args) != len(sig) {
		return basmerr.New(basmerr.TypeError, call.Span,
			"%s expects %d argument(s), got %d", call.Name, len(sig), len(call.Args))
	}
	for i, k := range sig {
		if !argMatchesKind(call.Args[i], k) {
			return basmerr.New(basmerr.TypeError, call.Span,
				"%s argument %d has the wrong kind", call.Name, i+1)
		}
	}
	return nil
}
