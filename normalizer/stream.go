package normalizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AtmolanderMimi/basm/token"
)

// Op is the tag of a resolved, built-in-only instruction. Per spec.md §9's
// design note, instruction kinds are modeled as one tagged-variant struct
// (Insn) dispatched on Op, rather than one Go type per instruction.
type Op int

// Resolved built-in instructions. ALIS and INLN never appear here: both are
// normalized away before a Stream is produced.
const (
	ZERO Op = iota
	INCR
	DECR
	ADDP
	SUBP
	COPY
	WHNE
	IN
	OUT
	LSTR
	PSTR
	RAW
	BBOX
	ASUM
)

func (o Op) String() string {
	switch o {
	case ZERO:
		return "ZERO"
	case INCR:
		return "INCR"
	case DECR:
		return "DECR"
	case ADDP:
		return "ADDP"
	case SUBP:
		return "SUBP"
	case COPY:
		return "COPY"
	case WHNE:
		return "WHNE"
	case IN:
		return "IN"
	case OUT:
		return "OUT"
	case LSTR:
		return "LSTR"
	case PSTR:
		return "PSTR"
	case RAW:
		return "RAW"
	case BBOX:
		return "BBOX"
	case ASUM:
		return "ASUM"
	default:
		return "???"
	}
}

// Insn is one fully resolved built-in instruction. Which of A, B, C, Str and
// Body are meaningful depends on Op (see the built-in catalogue in
// spec.md §6).
type Insn struct {
	Op   Op
	A, B, C int64
	Str  string
	Body *Stream // WHNE only: the normalized loop body
	Span token.Span
}

// Stream is an ordered, fully resolved instruction sequence, ready for the
// emitter.
type Stream struct {
	Insns []Insn
}

// String renders the stream as an indented listing, mirroring the teacher's
// asm.Disassemble/DisassembleAll pretty-printers; used for debug tracing
// (--verbose).
func (s *Stream) String() string {
	var b strings.Builder
	s.write(&b, 0)
	return b.String()
}

func (s *Stream) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, ins := range s.Insns {
		b.WriteString(indent)
		switch ins.Op {
		case ZERO, IN, OUT, BBOX, ASUM:
			fmt.Fprintf(b, "%s %d\n", ins.Op, ins.A)
		case INCR, DECR, ADDP, SUBP:
			fmt.Fprintf(b, "%s %d %d\n", ins.Op, ins.A, ins.B)
		case COPY:
			fmt.Fprintf(b, "%s %d %d %d\n", ins.Op, ins.A, ins.B, ins.C)
		case LSTR, PSTR:
			fmt.Fprintf(b, "%s %d %s\n", ins.Op, ins.A, strconv.Quote(ins.Str))
		case RAW:
			fmt.Fprintf(b, "%s %s\n", ins.Op, strconv.Quote(ins.Str))
		case WHNE:
			fmt.Fprintf(b, "%s %d %d [\n", ins.Op, ins.A, ins.B)
			if ins.Body != nil {
				ins.Body.write(b, depth+1)
			}
			fmt.Fprintf(b, "%s]\n", indent)
		}
	}
}
