package bf_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AtmolanderMimi/basm/bf"
)

func run(t *testing.T, program, input string) string {
	t.Helper()
	var out bytes.Buffer
	interp, err := bf.New(program, bf.Input(strings.NewReader(input)), bf.Output(&out))
	if err != nil {
		t.Fatalf("bf.New: %v", err)
	}
	if err := interp.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestHelloWorldLikeLoop(t *testing.T) {
	// counts cell 0 down from 5, adding 13 to cell 1 each pass, so cell 1
	// ends at 65 ('A'), then prints it.
	got := run(t, "+++++[>+++++++++++++<-]>.", "")
	if got != "A" {
		t.Fatalf("got %q, want %q", got, "A")
	}
}

func TestEchoOneByte(t *testing.T) {
	got := run(t, ",.", "x")
	if got != "x" {
		t.Fatalf("got %q", got)
	}
}

func TestEOFReadsZero(t *testing.T) {
	got := run(t, ",.", "")
	if got != "\x00" {
		t.Fatalf("got %q", got)
	}
}

func TestUnmatchedBracketIsAnError(t *testing.T) {
	if _, err := bf.New("[+"); err == nil {
		t.Fatal("expected an unmatched bracket error")
	}
	if _, err := bf.New("+]"); err == nil {
		t.Fatal("expected an unmatched bracket error")
	}
}

func TestNonOperatorBytesAreComments(t *testing.T) {
	got := run(t, "hello+++++.", "")
	if got != "\x05" {
		t.Fatalf("got %q", got)
	}
}

func TestTapeGrowsRightward(t *testing.T) {
	program := strings.Repeat(">", 40000) + "+."
	got := run(t, program, "")
	if got != "\x01" {
		t.Fatalf("got %q", got)
	}
}

func TestLeftUnderflowIsAnError(t *testing.T) {
	interp, err := bf.New("<")
	if err != nil {
		t.Fatalf("bf.New: %v", err)
	}
	if err := interp.Run(); err == nil {
		t.Fatal("expected an underflow error")
	}
}

func TestCellWidthWrapsAtEightBitsByDefault(t *testing.T) {
	got := run(t, strings.Repeat("+", 257)+".", "")
	if got != "\x01" {
		t.Fatalf("got %q, want wraparound to 1", got)
	}
}

func TestCellWidthRejectsUnsupportedBits(t *testing.T) {
	if _, err := bf.New("+", bf.CellWidth(12)); err == nil {
		t.Fatal("expected an error for an unsupported cell width")
	}
}

func TestCellWidthSixteenBitsDelaysOutputWraparound(t *testing.T) {
	var out bytes.Buffer
	interp, err := bf.New(strings.Repeat("+", 257)+".", bf.Output(&out), bf.CellWidth(16))
	if err != nil {
		t.Fatalf("bf.New: %v", err)
	}
	if err := interp.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 257 stays 257 under a 16-bit cell; "." still only emits the low byte.
	if out.String() != "\x01" {
		t.Fatalf("got %q, want the low byte of 257", out.String())
	}
}
