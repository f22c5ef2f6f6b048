// Package env implements the lexically scoped alias/macro environment
// (spec.md §4.4, component C4): a stack of scopes, each holding a number
// namespace and a scope namespace, with shadowing local to the owning scope
// and lookup walking outward.
package env

import "github.com/AtmolanderMimi/basm/ast"

// Env is one frame of the lexical environment stack. The zero value is not
// usable; use New.
type Env struct {
	parent  *Env
	numbers map[string]int64
	scopes  map[string]*ast.Scope
}

// New creates a fresh, empty environment frame whose lookups fall through to
// parent (nil for a root frame, e.g. the setup-globals frame).
func New(parent *Env) *Env {
	return &Env{parent: parent, numbers: map[string]int64{}, scopes: map[string]*ast.Scope{}}
}

// Child is shorthand for New(e), used at every INLN splice site and scope
// statement to get a fresh environment hygienically nested under e.
func (e *Env) Child() *Env {
	return New(e)
}

// DefineNumber binds name in the number namespace of this frame only. A
// pre-existing binding of name in this same frame is shadowed for the
// remainder of the frame's lifetime; bindings in outer frames are untouched.
func (e *Env) DefineNumber(name string, value int64) {
	e.numbers[name] = value
}

// DefineScope binds name in the scope namespace of this frame only.
func (e *Env) DefineScope(name string, scope *ast.Scope) {
	e.scopes[name] = scope
}

// LookupNumber walks outward from e looking for name in the number
// namespace.
func (e *Env) LookupNumber(name string) (int64, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.numbers[name]; ok {
			return v, true
		}
	}
	return 0, false
}

// LookupScope walks outward from e looking for name in the scope namespace.
func (e *Env) LookupScope(name string) (*ast.Scope, bool) {
	for f := e; f != nil; f = f.parent {
		if s, ok := f.scopes[name]; ok {
			return s, true
		}
	}
	return nil, false
}
