// Package basm is the single entry point external callers use: given source
// text and a Config, produce either an emitted bf string or a structured
// error (spec.md §1). It is grounded on asm.Assemble's shape
// (Assemble(name string, r io.Reader) ([]vm.Cell, error)), generalized from
// one assembly stage to the five-stage lex/parse/normalize/emit/optimize
// pipeline.
package basm

import (
	"github.com/AtmolanderMimi/basm/emitter"
	"github.com/AtmolanderMimi/basm/normalizer"
	"github.com/AtmolanderMimi/basm/optimizer"
	"github.com/AtmolanderMimi/basm/parser"
)

// Config is passed explicitly to Compile — never a package-level singleton
// (spec.md §9's "Config and lifetimes").
type Config struct {
	// Optimize enables the peephole optimizer (spec.md §4.7). Default: on.
	Optimize bool
	// CellWidth is the number of bits per bf cell used for INCR/DECR
	// saturation arithmetic (spec.md §6). Zero means the emitter's default
	// of 8.
	CellWidth uint
}

// DefaultConfig matches spec.md §6's stated defaults: optimizer on, 8-bit
// cells.
func DefaultConfig() Config {
	return Config{Optimize: true, CellWidth: 8}
}

// Compile lexes, parses, normalizes and emits src, returning the resulting
// bf program. file names src for error spans (e.g. a path, or "<stdin>").
func Compile(file, src string, cfg Config) (string, error) {
	prog, err := parser.Parse(file, src)
	if err != nil {
		return "", err
	}
	stream, err := normalizer.Normalize(prog)
	if err != nil {
		return "", err
	}
	out, err := emitter.Emit(stream, cfg.CellWidth)
	if err != nil {
		return "", err
	}
	if cfg.Optimize {
		out = optimizer.Optimize(out)
	}
	return out, nil
}

// Stream exposes the normalized instruction stream without emitting, for
// callers that want to pretty-print or inspect it (e.g. the CLI's debug
// tracing under --verbose; see SPEC_FULL.md §4).
func Stream(file, src string) (*normalizer.Stream, error) {
	prog, err := parser.Parse(file, src)
	if err != nil {
		return nil, err
	}
	return normalizer.Normalize(prog)
}
