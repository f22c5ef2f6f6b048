// Package emitter implements the pointer-tracking emitter (spec.md §4.6,
// component C6): it walks a normalizer.Stream and produces the bf operator
// sequence, maintaining the assumed tape pointer P and inserting the >/<
// deltas a move_to(addr) needs at every static emission site.
package emitter

import (
	"strings"

	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/normalizer"
	"github.com/AtmolanderMimi/basm/token"
)

// Emitter holds the running assumed pointer and the output accumulated so
// far. The zero value is not usable; use New.
type Emitter struct {
	p         int64
	cellWidth uint
	out       strings.Builder
}

// New creates an Emitter for the given cell width (bits per bf cell). A
// cellWidth of 0 defaults to 8, matching spec.md §6's default.
func New(cellWidth uint) *Emitter {
	if cellWidth == 0 {
		cellWidth = 8
	}
	return &Emitter{cellWidth: cellWidth}
}

// Emit runs a fresh Emitter over stream and returns the full bf output.
func Emit(stream *normalizer.Stream, cellWidth uint) (string, error) {
	e := New(cellWidth)
	if err := e.emitStream(stream); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

// moveTo emits the >/< run needed to bring the assumed pointer to addr and
// updates it. addr must be non-negative; negative static addresses are
// ill-formed per spec.md §3.
func (e *Emitter) moveTo(addr int64, span token.Span) error {
	if addr < 0 {
		return basmerr.New(basmerr.AddressError, span, "cannot move to negative cell address %d", addr)
	}
	delta := addr - e.p
	switch {
	case delta > 0:
		e.out.WriteString(strings.Repeat(">", int(delta)))
	case delta < 0:
		e.out.WriteString(strings.Repeat("<", int(-delta)))
	}
	e.p = addr
	return nil
}

// emitRun writes count copies of op (either "+" or "-"), erroring if count
// is negative.
func (e *Emitter) emitRun(op string, count int64, span token.Span) error {
	if count < 0 {
		return basmerr.New(basmerr.OverflowError, span, "negative repeat count for %q", op)
	}
	e.out.WriteString(strings.Repeat(op, int(count)))
	return nil
}

// satCount reduces v into [0, 2^cellWidth), the saturation rule spec.md §9
// reserves for INCR/DECR folding specifically — no other instruction's
// +/- run length goes through it. At widths of 63 bits and more 2^cellWidth
// exceeds every int64, so v is returned unchanged (a negative v is then
// rejected by emitRun).
func (e *Emitter) satCount(v int64) int64 {
	if e.cellWidth >= 63 {
		return v
	}
	mod := int64(1) << e.cellWidth
	c := v % mod
	if c < 0 {
		c += mod
	}
	return c
}

func (e *Emitter) emitStream(s *normalizer.Stream) error {
	for _, ins := range s.Insns {
		if err := e.emitInsn(ins); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitInsn(ins normalizer.Insn) error {
	switch ins.Op {
	case normalizer.ZERO:
		if err := e.moveTo(ins.A, ins.Span); err != nil {
			return err
		}
		e.out.WriteString("[-]")
		return nil

	case normalizer.INCR:
		if err := e.moveTo(ins.A, ins.Span); err != nil {
			return err
		}
		return e.emitRun("+", e.satCount(ins.B), ins.Span)

	case normalizer.DECR:
		if err := e.moveTo(ins.A, ins.Span); err != nil {
			return err
		}
		return e.emitRun("-", e.satCount(ins.B), ins.Span)

	case normalizer.ADDP:
		return e.emitAccumulate(ins.A, ins.B, "+", ins.Span)

	case normalizer.SUBP:
		return e.emitAccumulate(ins.A, ins.B, "-", ins.Span)

	case normalizer.COPY:
		return e.emitCopy(ins.A, ins.B, ins.C, ins.Span)

	case normalizer.WHNE:
		return e.emitWhne(ins)

	case normalizer.IN:
		if err := e.moveTo(ins.A, ins.Span); err != nil {
			return err
		}
		e.out.WriteString(",")
		return nil

	case normalizer.OUT:
		if err := e.moveTo(ins.A, ins.Span); err != nil {
			return err
		}
		e.out.WriteString(".")
		return nil

	case normalizer.LSTR:
		return e.emitLstr(ins.A, ins.Str, ins.Span)

	case normalizer.PSTR:
		return e.emitPstr(ins.A, ins.Str, ins.Span)

	case normalizer.RAW:
		e.out.WriteString(ins.Str)
		return nil

	case normalizer.BBOX:
		return e.emitBbox(ins.A, ins.Span)

	case normalizer.ASUM:
		e.p = ins.A
		return nil
	}
	return basmerr.New(basmerr.MetaError, ins.Span, "emitter: unhandled instruction op %v", ins.Op)
}

// emitAccumulate implements ADDP/SUBP: move to b; "[-" move to a (op) move
// to b "]"; P ends at b.
func (e *Emitter) emitAccumulate(a, b int64, op string, span token.Span) error {
	if err := e.moveTo(b, span); err != nil {
		return err
	}
	e.out.WriteString("[-")
	if err := e.moveTo(a, span); err != nil {
		return err
	}
	e.out.WriteString(op)
	if err := e.moveTo(b, span); err != nil {
		return err
	}
	e.out.WriteString("]")
	return nil
}

// emitCopy implements COPY src d1 d2: move to src; "[-" move to d1 "+" move
// to d2 "+" move to src "]"; P ends at src.
func (e *Emitter) emitCopy(src, d1, d2 int64, span token.Span) error {
	if err := e.moveTo(src, span); err != nil {
		return err
	}
	e.out.WriteString("[-")
	if err := e.moveTo(d1, span); err != nil {
		return err
	}
	e.out.WriteString("+")
	if err := e.moveTo(d2, span); err != nil {
		return err
	}
	e.out.WriteString("+")
	if err := e.moveTo(src, span); err != nil {
		return err
	}
	e.out.WriteString("]")
	return nil
}

// emitWhne implements WHNE a v [body] per spec.md §4.6's table, including
// the v≠0 shift-and-restore scheme: the body always observes the tested
// cell at its natural (unshifted) value on entry to each iteration.
func (e *Emitter) emitWhne(ins normalizer.Insn) error {
	if err := e.moveTo(ins.A, ins.Span); err != nil {
		return err
	}
	if ins.B == 0 {
		e.out.WriteString("[")
		if ins.Body != nil {
			if err := e.emitStream(ins.Body); err != nil {
				return err
			}
		}
		if err := e.moveTo(ins.A, ins.Span); err != nil {
			return err
		}
		e.out.WriteString("]")
		return nil
	}

	// Subtracting a negative v is adding its magnitude, and vice versa.
	shift := e.satCountRaw(ins.B)
	down, up := "-", "+"
	if ins.B < 0 {
		down, up = "+", "-"
	}
	if err := e.emitRun(down, shift, ins.Span); err != nil {
		return err
	}
	e.out.WriteString("[")
	if err := e.emitRun(up, shift, ins.Span); err != nil {
		return err
	}
	if ins.Body != nil {
		if err := e.emitStream(ins.Body); err != nil {
			return err
		}
	}
	if err := e.moveTo(ins.A, ins.Span); err != nil {
		return err
	}
	if err := e.emitRun(down, shift, ins.Span); err != nil {
		return err
	}
	e.out.WriteString("]")
	return e.emitRun(up, shift, ins.Span)
}

// satCountRaw takes the absolute value of v without cell-width saturation:
// WHNE's shift amount is a loop-comparison value, not an INCR/DECR run that
// §9 says to saturate.
func (e *Emitter) satCountRaw(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// emitLstr implements LSTR a0 "s": each byte of s is loaded into its own
// cell, starting from a0, by clearing then incrementing (raw byte value, no
// cell-width saturation — §9 scopes saturation to INCR/DECR folding only).
func (e *Emitter) emitLstr(a0 int64, s string, span token.Span) error {
	bytes := []byte(s)
	for i, b := range bytes {
		if err := e.moveTo(a0+int64(i), span); err != nil {
			return err
		}
		e.out.WriteString("[-]")
		if err := e.emitRun("+", int64(b), span); err != nil {
			return err
		}
	}
	return nil
}

// emitPstr implements PSTR a "s": a is a reused single-cell buffer, cleared
// up front; each byte is reached from the previous one by a +/- delta run,
// then printed; the buffer is cleared again at the end.
func (e *Emitter) emitPstr(a int64, s string, span token.Span) error {
	if err := e.moveTo(a, span); err != nil {
		return err
	}
	e.out.WriteString("[-]")
	var prev int64
	for _, b := range []byte(s) {
		delta := int64(b) - prev
		if delta > 0 {
			if err := e.emitRun("+", delta, span); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := e.emitRun("-", -delta, span); err != nil {
				return err
			}
		}
		e.out.WriteString(".")
		prev = int64(b)
	}
	e.out.WriteString("[-]")
	return nil
}

// emitBbox moves the real pointer to a without updating the assumed
// pointer: entry into the relative-state escape hatch (spec.md §4.6).
func (e *Emitter) emitBbox(a int64, span token.Span) error {
	if a < 0 {
		return basmerr.New(basmerr.AddressError, span, "cannot move to negative cell address %d", a)
	}
	delta := a - e.p
	switch {
	case delta > 0:
		e.out.WriteString(strings.Repeat(">", int(delta)))
	case delta < 0:
		e.out.WriteString(strings.Repeat("<", int(-delta)))
	}
	// P is deliberately left unchanged: BBOX only moves the real pointer.
	return nil
}
