// Package bf implements a bf tape interpreter used by the "basm run"
// subcommand (spec.md §1's "out of scope" bf interpreter, supplemented here
// per SPEC_FULL.md). Its shape is grounded on vm.Instance/vm.Run: a
// functional-options constructor, a panic-recover-wrapped execution loop,
// and an ErrWriter-style output sink. Its cell width is grounded on the
// teacher's vm.Cell/vm.CellBits (a configurable integer width for the
// tape's storage unit), generalized from a compile-time type parameter to a
// runtime-selectable width since bf cells don't need to double as a Forth
// VM's native machine word.
package bf

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultTapeSize  = 30000
	defaultCellWidth = 8
)

// Option configures an Interpreter at construction time, mirroring
// vm.Option's functional-options shape.
type Option func(*Interpreter) error

// TapeSize sets the interpreter's initial tape length in cells. The tape
// grows automatically if execution moves past its current length.
func TapeSize(n int) Option {
	return func(interp *Interpreter) error {
		if n <= 0 {
			return errors.Errorf("bf: tape size must be positive, got %d", n)
		}
		interp.tape = make([]uint64, n)
		return nil
	}
}

// CellWidth sets the number of bits each tape cell wraps around on +/-.
// Only 8, 16, 32 and 64 are supported, matching the widths cmd/basm's
// -cell-bits flag accepts.
func CellWidth(bits uint) Option {
	return func(interp *Interpreter) error {
		switch bits {
		case 8, 16, 32, 64:
			interp.cellWidth = bits
			return nil
		default:
			return errors.Errorf("bf: %d-bit cells not supported", bits)
		}
	}
}

// Input sets the reader "," reads bytes from.
func Input(r io.Reader) Option {
	return func(interp *Interpreter) error { interp.input = bufio.NewReader(r); return nil }
}

// Output sets the writer "." writes bytes to.
func Output(w io.Writer) Option {
	return func(interp *Interpreter) error { interp.output = newErrWriter(w); return nil }
}

// Interpreter executes a bf program against a tape of fixed-width cells.
// Bytes in the program other than "+-><[].," are treated as comments and
// skipped, which lets RAW-injected bytes coexist with a program's real
// operators.
type Interpreter struct {
	program []byte
	jumps   map[int]int // '[' index -> matching ']' index, and back

	tape      []uint64
	cellWidth uint
	ptr       int

	input  *bufio.Reader
	output *errWriter
}

// New builds an Interpreter for program, pre-computing its bracket-matching
// table. It returns an error if program's brackets are unbalanced.
func New(program string, opts ...Option) (*Interpreter, error) {
	jumps, err := matchBrackets(program)
	if err != nil {
		return nil, err
	}
	interp := &Interpreter{program: []byte(program), jumps: jumps}
	for _, opt := range opts {
		if err := opt(interp); err != nil {
			return nil, err
		}
	}
	if interp.tape == nil {
		interp.tape = make([]uint64, defaultTapeSize)
	}
	if interp.cellWidth == 0 {
		interp.cellWidth = defaultCellWidth
	}
	if interp.input == nil {
		interp.input = bufio.NewReader(strings.NewReader(""))
	}
	if interp.output == nil {
		interp.output = newErrWriter(io.Discard)
	}
	return interp, nil
}

// mask returns the bitmask a cell value is wrapped against after +/-.
func (interp *Interpreter) mask() uint64 {
	if interp.cellWidth >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << interp.cellWidth) - 1
}

func matchBrackets(program string) (map[int]int, error) {
	jumps := map[int]int{}
	var stack []int
	for i := 0; i < len(program); i++ {
		switch program[i] {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				return nil, errors.Errorf("bf: unmatched ']' at byte offset %d", i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jumps[open] = i
			jumps[i] = open
		}
	}
	if len(stack) != 0 {
		return nil, errors.Errorf("bf: unmatched '[' at byte offset %d", stack[len(stack)-1])
	}
	return jumps, nil
}

// Run executes the program to completion, growing the tape rightward as
// needed. A panic inside the loop (e.g. a left-pointer underflow) is
// recovered and returned as an error, matching vm.Instance.Run's shape.
func (interp *Interpreter) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("bf: %v", e)
		}
	}()

	mask := interp.mask()
	ip := 0
	for ip < len(interp.program) {
		switch interp.program[ip] {
		case '+':
			interp.tape[interp.ptr] = (interp.tape[interp.ptr] + 1) & mask
		case '-':
			interp.tape[interp.ptr] = (interp.tape[interp.ptr] - 1) & mask
		case '>':
			interp.ptr++
			interp.growTo(interp.ptr)
		case '<':
			interp.ptr--
			if interp.ptr < 0 {
				panic("tape pointer underflow")
			}
		case '[':
			if interp.cellValue() == 0 {
				ip = interp.jumps[ip]
			}
		case ']':
			if interp.cellValue() != 0 {
				ip = interp.jumps[ip]
			}
		case '.':
			if _, err := interp.output.Write([]byte{byte(interp.cellValue())}); err != nil {
				return err
			}
		case ',':
			b, err := interp.input.ReadByte()
			if err != nil {
				if err == io.EOF {
					interp.tape[interp.ptr] = 0
					break
				}
				return errors.Wrap(err, "bf: input read failed")
			}
			interp.tape[interp.ptr] = uint64(b) & mask
		}
		ip++
	}
	return nil
}

func (interp *Interpreter) cellValue() uint64 {
	return interp.tape[interp.ptr]
}

func (interp *Interpreter) growTo(ptr int) {
	if ptr < len(interp.tape) {
		return
	}
	grown := make([]uint64, ptr*2+1)
	copy(grown, interp.tape)
	interp.tape = grown
}
