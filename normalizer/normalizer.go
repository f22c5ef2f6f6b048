// Package normalizer implements the type/argument checker and the
// normalizer/expander (spec.md §4.3-§4.5, components C3 and C5): it walks a
// parsed ast.Program, checks every instruction call's arity and argument
// kinds, resolves aliases and meta-instruction calls against a lexical
// env.Env, and produces a flat Stream made only of built-in instructions,
// ready for the emitter.
package normalizer

import (
	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/env"
	"github.com/AtmolanderMimi/basm/token"
)

// Normalize runs the full C3+C5 pass over prog and returns the resolved
// instruction stream: setup's stream (if any), immediately followed by
// main's, sharing one continuous address space the way the emitter expects.
func Normalize(prog *ast.Program) (*Stream, error) {
	metas, err := buildMetaTable(prog.Metas)
	if err != nil {
		return nil, err
	}

	globals := env.New(nil)

	out := &Stream{}
	if prog.Setup != nil {
		setupStream, err := normalizeScope(prog.Setup, globals, globals, metas, true, nil)
		if err != nil {
			return nil, err
		}
		out.Insns = append(out.Insns, setupStream.Insns...)
	}

	mainStream, err := normalizeScope(prog.Main, globals.Child(), globals, metas, false, nil)
	if err != nil {
		return nil, err
	}
	out.Insns = append(out.Insns, mainStream.Insns...)
	return out, nil
}

// normalizeScope resolves one ast.Scope's statements in order under
// environment e. globals is the setup-exported root frame, used as the
// parent of every fresh meta-expansion environment regardless of where the
// call site sits lexically (meta hygiene, spec.md §4.4). inSetup forbids
// meta-instruction calls. expansionStack holds the names of meta-instructions
// currently being expanded, to reject recursive expansion.
func normalizeScope(scope *ast.Scope, e, globals *env.Env, metas metaTable, inSetup bool, expansionStack []string) (*Stream, error) {
	out := &Stream{}
	for _, stmt := range scope.Stmts {
		switch s := stmt.(type) {
		case *ast.Scope:
			inner, err := normalizeScope(s, e.Child(), globals, metas, inSetup, expansionStack)
			if err != nil {
				return nil, err
			}
			out.Insns = append(out.Insns, inner.Insns...)
		case *ast.Call:
			insns, err := normalizeCall(s, e, globals, metas, inSetup, expansionStack)
			if err != nil {
				return nil, err
			}
			out.Insns = append(out.Insns, insns...)
		}
	}
	return out, nil
}

func normalizeCall(call *ast.Call, e, globals *env.Env, metas metaTable, inSetup bool, expansionStack []string) ([]Insn, error) {
	switch call.Name {
	case "ALIS":
		return nil, normalizeALIS(call, e)
	case "INLN":
		return normalizeINLN(call, e, globals, metas, inSetup, expansionStack)
	}

	if isBuiltinName(call.Name) {
		return normalizeBuiltin(call, e, globals, metas, inSetup, expansionStack)
	}

	meta, ok := metas[call.Name]
	if !ok {
		return nil, basmerr.New(basmerr.MetaError, call.Span,
			"meta-instruction %q not defined", call.Name)
	}
	if inSetup {
		return nil, basmerr.New(basmerr.SetupError, call.Span,
			"[setup] cannot call meta-instruction %q: meta-instructions are not yet registered", call.Name)
	}
	if inExpansionStack(expansionStack, call.Name) {
		return nil, basmerr.New(basmerr.MetaError, call.Span,
			"recursive expansion of meta-instruction %q", call.Name)
	}
	return expandMeta(call, meta, e, globals, metas, expansionStack)
}

// normalizeALIS binds call's target name in e's own frame: a number
// expression value evaluates immediately, a scope literal value is frozen
// immediately (see freeze.go), and a scope reference value copies whatever
// the referenced name currently resolves to.
func normalizeALIS(call *ast.Call, e *env.Env) error {
	if len(call.Args) != 2 {
		return basmerr.New(basmerr.TypeError, call.Span, "ALIS expects exactly 2 arguments, got %d", len(call.Args))
	}
	ident, ok := call.Args[0].(ast.IdentArg)
	if !ok {
		return basmerr.New(basmerr.TypeError, call.Span, "ALIS's first argument must be a bare identifier")
	}

	switch val := call.Args[1].(type) {
	case ast.NumberExpr:
		v, err := evalNumber(val.Expr, e)
		if err != nil {
			return err
		}
		e.DefineNumber(ident.Name, v)
		return nil
	case ast.ScopeLit:
		frozen, err := freezeScope(val.Scope, e.Child())
		if err != nil {
			return err
		}
		e.DefineScope(ident.Name, frozen)
		return nil
	case ast.ScopeRef:
		resolved, ok := e.LookupScope(val.Name)
		if !ok {
			return basmerr.New(basmerr.ScopeError, call.Span, "scope alias %q was not defined", val.Name)
		}
		e.DefineScope(ident.Name, resolved)
		return nil
	default:
		return basmerr.New(basmerr.TypeError, call.Span, "ALIS's second argument must be a number, scope literal or scope reference")
	}
}

// normalizeINLN splices the named (or literal) scope body at the call site,
// normalized within a fresh child environment of e — the same hygiene as any
// nested scope statement.
func normalizeINLN(call *ast.Call, e, globals *env.Env, metas metaTable, inSetup bool, expansionStack []string) ([]Insn, error) {
	if err := checkArgs(call, signatures["INLN"]); err != nil {
		return nil, err
	}
	body, err := resolveScopeArg(call.Args[0], e)
	if err != nil {
		return nil, err
	}
	stream, err := normalizeScope(body, e.Child(), globals, metas, inSetup, expansionStack)
	if err != nil {
		return nil, err
	}
	return stream.Insns, nil
}

// resolveScopeArg resolves a scope-kind argument to its body. Real call
// sites always reach here after checkArgs (or an equivalent argMatchesKind
// check) has already confirmed arg is a ScopeLit or ScopeRef, so the default
// branch below is a defensive fallback, not an expected path.
func resolveScopeArg(arg ast.Arg, e *env.Env) (*ast.Scope, error) {
	switch v := arg.(type) {
	case ast.ScopeLit:
		return v.Scope, nil
	case ast.ScopeRef:
		s, ok := e.LookupScope(v.Name)
		if !ok {
			return nil, basmerr.New(basmerr.ScopeError, v.Span, "scope alias %q was not defined", v.Name)
		}
		return s, nil
	default:
		return nil, basmerr.New(basmerr.TypeError, token.Span{}, "expected a scope argument")
	}
}

func normalizeBuiltin(call *ast.Call, e, globals *env.Env, metas metaTable, inSetup bool, expansionStack []string) ([]Insn, error) {
	sig, ok := signatures[call.Name]
	if !ok {
		return nil, basmerr.New(basmerr.MetaError, call.Span, "%q is not a built-in instruction", call.Name)
	}
	if err := checkArgs(call, sig); err != nil {
		return nil, err
	}

	num := func(i int) (int64, error) {
		return evalNumber(call.Args[i].(ast.NumberExpr).Expr, e)
	}
	str := func(i int) string {
		return call.Args[i].(ast.StringArg).Value
	}

	switch call.Name {
	case "ZERO", "IN", "OUT", "BBOX", "ASUM":
		a, err := num(0)
		if err != nil {
			return nil, err
		}
		return []Insn{{Op: opFor(call.Name), A: a, Span: call.Span}}, nil
	case "INCR", "DECR", "ADDP", "SUBP":
		a, err := num(0)
		if err != nil {
			return nil, err
		}
		b, err := num(1)
		if err != nil {
			return nil, err
		}
		return []Insn{{Op: opFor(call.Name), A: a, B: b, Span: call.Span}}, nil
	case "COPY":
		a, err := num(0)
		if err != nil {
			return nil, err
		}
		b, err := num(1)
		if err != nil {
			return nil, err
		}
		c, err := num(2)
		if err != nil {
			return nil, err
		}
		return []Insn{{Op: COPY, A: a, B: b, C: c, Span: call.Span}}, nil
	case "LSTR", "PSTR":
		a, err := num(0)
		if err != nil {
			return nil, err
		}
		return []Insn{{Op: opFor(call.Name), A: a, Str: str(1), Span: call.Span}}, nil
	case "RAW":
		return []Insn{{Op: RAW, Str: str(0), Span: call.Span}}, nil
	case "WHNE":
		a, err := num(0)
		if err != nil {
			return nil, err
		}
		v, err := num(1)
		if err != nil {
			return nil, err
		}
		body, err := resolveScopeArg(call.Args[2], e)
		if err != nil {
			return nil, err
		}
		bodyStream, err := normalizeScope(body, e.Child(), globals, metas, inSetup, expansionStack)
		if err != nil {
			return nil, err
		}
		return []Insn{{Op: WHNE, A: a, B: v, Body: bodyStream, Span: call.Span}}, nil
	}
	return nil, basmerr.New(basmerr.MetaError, call.Span, "%q is not a built-in instruction", call.Name)
}

func opFor(name string) Op {
	switch name {
	case "ZERO":
		return ZERO
	case "INCR":
		return INCR
	case "DECR":
		return DECR
	case "ADDP":
		return ADDP
	case "SUBP":
		return SUBP
	case "COPY":
		return COPY
	case "WHNE":
		return WHNE
	case "IN":
		return IN
	case "OUT":
		return OUT
	case "LSTR":
		return LSTR
	case "PSTR":
		return PSTR
	case "RAW":
		return RAW
	case "BBOX":
		return BBOX
	case "ASUM":
		return ASUM
	}
	panic("normalizer: opFor called with a non-built-in name: " + name)
}

// expandMeta binds call's arguments to meta's parameters in a fresh
// environment whose parent is globals (NOT e), so the expanded body only
// ever sees setup's exported globals plus its own parameters — never the
// caller's local aliases. This is the hygiene rule from spec.md §4.4.
func expandMeta(call *ast.Call, meta *ast.MetaDef, e, globals *env.Env, metas metaTable, expansionStack []string) ([]Insn, error) {
	if len(call.Args) != len(meta.Params) {
		return nil, basmerr.New(basmerr.TypeError, call.Span,
			"%s expects %d argument(s), got %d", call.Name, len(meta.Params), len(call.Args))
	}

	metaEnv := globals.Child()
	for i, param := range meta.Params {
		arg := call.Args[i]
		switch param.Kind {
		case ast.NumberParam:
			numArg, ok := arg.(ast.NumberExpr)
			if !ok {
				return nil, basmerr.New(basmerr.TypeError, call.Span,
					"%s argument %d must be a number", call.Name, i+1)
			}
			v, err := evalNumber(numArg.Expr, e)
			if err != nil {
				return nil, err
			}
			metaEnv.DefineNumber(param.Name, v)
		case ast.ScopeParam:
			if !argMatchesKind(arg, scopeKind) {
				return nil, basmerr.New(basmerr.TypeError, call.Span,
					"%s argument %d must be a scope", call.Name, i+1)
			}
			body, err := resolveScopeArg(arg, e)
			if err != nil {
				return nil, err
			}
			metaEnv.DefineScope(param.Name, body)
		}
	}

	stack := append(append([]string{}, expansionStack...), call.Name)
	stream, err := normalizeScope(meta.Body, metaEnv, globals, metas, false, stack)
	if err != nil {
		return nil, err
	}
	return stream.Insns, nil
}
