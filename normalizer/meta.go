package normalizer

import (
	"github.com/AtmolanderMimi/basm/ast"
	"github.com/AtmolanderMimi/basm/basmerr"
)

// builtinNames is the full set of reserved instruction names: the emitted
// built-ins plus ALIS and INLN, which are pure normalizer metadata.
var builtinNames = map[string]bool{
	"ZERO": true, "INCR": true, "DECR": true, "ADDP": true, "SUBP": true,
	"COPY": true, "WHNE": true, "IN": true, "OUT": true, "LSTR": true,
	"PSTR": true, "ALIS": true, "INLN": true, "RAW": true, "BBOX": true,
	"ASUM": true,
}

func isBuiltinName(name string) bool { return builtinNames[name] }

// metaTable indexes a program's meta-instruction definitions by name.
type metaTable map[string]*ast.MetaDef

// buildMetaTable collects every [@NAME ...] field of prog, rejecting name
// collisions with built-ins and duplicate meta-instruction names up front.
// It is built once, before setup or main is normalized, so that forward
// references between meta-instructions resolve regardless of source order;
// the only ordering restriction left is the setup exception (spec.md §4.4).
func buildMetaTable(metas []*ast.MetaDef) (metaTable, error) {
	table := make(metaTable, len(metas))
	for _, m := range metas {
		if isBuiltinName(m.Name) {
			return nil, basmerr.New(basmerr.MetaError, m.Span,
				"meta-instruction %q collides with a built-in instruction name", m.Name)
		}
		if _, ok := table[m.Name]; ok {
			return nil, basmerr.New(basmerr.MetaError, m.Span,
				"duplicate meta-instruction %q", m.Name)
		}
		table[m.Name] = m
	}
	return table, nil
}

// inExpansionStack reports whether name is already being expanded, i.e. this
// call would be direct or mutual recursion.
func inExpansionStack(stack []string, name string) bool {
	for _, s := range stack {
		if s == name {
			return true
		}
	}
	return false
}
