package basm_test

import (
	"bytes"
	"testing"

	"github.com/AtmolanderMimi/basm"
	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/bf"
)

func runBf(t *testing.T, program string) string {
	t.Helper()
	var out bytes.Buffer
	interp, err := bf.New(program, bf.Output(&out))
	if err != nil {
		t.Fatalf("bf.New: %v", err)
	}
	if err := interp.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

// Scenario 1: PSTR prints its string byte-for-byte.
func TestScenarioPstrPrintsHelloWorld(t *testing.T) {
	src := `[main] [ PSTR 0 "Hello, world!"; ]`
	for _, cfg := range []basm.Config{{Optimize: false, CellWidth: 8}, {Optimize: true, CellWidth: 8}} {
		out, err := basm.Compile("t.basm", src, cfg)
		if err != nil {
			t.Fatalf("Compile (optimize=%v): %v", cfg.Optimize, err)
		}
		if got := runBf(t, out); got != "Hello, world!" {
			t.Fatalf("optimize=%v: got %q", cfg.Optimize, got)
		}
	}
}

// Scenario 2: exact unoptimized and optimized emission match spec.md §8.
func TestScenarioIncrThenWhneOutDecrMatchesExactBf(t *testing.T) {
	src := `[main] [ INCR 0 3; WHNE 0 0 [ OUT 0; DECR 0 1; ]; ]`
	unopt, err := basm.Compile("t.basm", src, basm.Config{Optimize: false, CellWidth: 8})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "+++[.-]"
	if unopt != want {
		t.Fatalf("unoptimized got %q, want %q", unopt, want)
	}
	opt, err := basm.Compile("t.basm", src, basm.Config{Optimize: true, CellWidth: 8})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if opt != want {
		t.Fatalf("optimized got %q, want %q (already minimal)", opt, want)
	}
	// Counting down from 3 prints bytes 3, 2, 1.
	if got := runBf(t, unopt); got != "\x03\x02\x01" {
		t.Fatalf("interpreted output got %q", got)
	}
}

// Scenario 4: scope-alias pre-normalization freeze — outputs 14 (7+7), not 19.
func TestScenarioScopeAliasFreezeOutputs14(t *testing.T) {
	src := `[main] [
		ALIS sp 1;
		ALIS Vscale 7;
		ALIS inc [ INCR 0 Vscale; ];
		INLN [inc];
		ALIS Vscale 12;
		INLN [inc];
		OUT 0;
	]`
	for _, optimize := range []bool{false, true} {
		out, err := basm.Compile("t.basm", src, basm.Config{Optimize: optimize, CellWidth: 8})
		if err != nil {
			t.Fatalf("Compile (optimize=%v): %v", optimize, err)
		}
		got := runBf(t, out)
		if len(got) != 1 || got[0] != 14 {
			t.Fatalf("optimize=%v: got byte %v, want 14", optimize, []byte(got))
		}
	}
}

// Scenario 5: setup-field globals reach meta-instruction bodies.
func TestScenarioSetupGlobalReachesMetaBody(t *testing.T) {
	src := `[setup] [ ALIS GVx 5; ]
	[@M a] [ INCR a GVx; ]
	[main] [ M 0; OUT 0; ]`
	for _, optimize := range []bool{false, true} {
		out, err := basm.Compile("t.basm", src, basm.Config{Optimize: optimize, CellWidth: 8})
		if err != nil {
			t.Fatalf("Compile (optimize=%v): %v", optimize, err)
		}
		got := runBf(t, out)
		if len(got) != 1 || got[0] != 5 {
			t.Fatalf("optimize=%v: got byte %v, want 5", optimize, []byte(got))
		}
	}
}

// Scenario 6: recursive meta expansion is a MetaError, not a compiler hang.
func TestScenarioRecursiveMetaIsAnError(t *testing.T) {
	src := `[@F] [ INCR 0 1; F; ] [main] [ F; ]`
	_, err := basm.Compile("t.basm", src, basm.DefaultConfig())
	berr, ok := err.(*basmerr.Error)
	if !ok {
		t.Fatalf("expected *basmerr.Error, got %T (%v)", err, err)
	}
	if berr.Kind != basmerr.MetaError {
		t.Fatalf("expected MetaError, got %s", berr.Kind)
	}
}

func TestStreamExposesNormalizedInstructions(t *testing.T) {
	src := `[main] [ INCR 0 3; ]`
	stream, err := basm.Stream("t.basm", src)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(stream.Insns) != 1 {
		t.Fatalf("got %d instructions, want 1", len(stream.Insns))
	}
}

func TestCompilePropagatesNormalizerErrors(t *testing.T) {
	_, err := basm.Compile("t.basm", `[main] [ NOPE 0; ]`, basm.DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for an unknown instruction")
	}
}
