package normalizer_test

import (
	"testing"

	"github.com/AtmolanderMimi/basm/basmerr"
	"github.com/AtmolanderMimi/basm/normalizer"
	"github.com/AtmolanderMimi/basm/parser"
)

func assertKind(t *testing.T, err error, want basmerr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a %s, got no error", want)
	}
	berr, ok := err.(*basmerr.Error)
	if !ok {
		t.Fatalf("expected *basmerr.Error, got %T (%v)", err, err)
	}
	if berr.Kind != want {
		t.Fatalf("expected Kind %s, got %s", want, berr.Kind)
	}
}

func normalize(t *testing.T, src string) *normalizer.Stream {
	t.Helper()
	prog, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stream, err := normalizer.Normalize(prog)
	if err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	return stream
}

func normalizeErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse("t", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = normalizer.Normalize(prog)
	return err
}

func TestBuiltinResolvesNumberExpr(t *testing.T) {
	stream := normalize(t, "[main] [ ZERO 1+2*3; ]")
	if len(stream.Insns) != 1 || stream.Insns[0].Op != normalizer.ZERO || stream.Insns[0].A != 9 {
		t.Fatalf("unexpected stream: %s", stream)
	}
}

func TestAliasNumberIsEvaluatedImmediately(t *testing.T) {
	stream := normalize(t, `[main] [
		ALIS x 5;
		INCR 0 x;
		ALIS x 9;
		INCR 0 x;
	]`)
	if len(stream.Insns) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(stream.Insns))
	}
	if stream.Insns[0].B != 5 || stream.Insns[1].B != 9 {
		t.Fatalf("expected rebinding to affect only later uses, got %v", stream.Insns)
	}
}

// TestScopeAliasFreezesNumbersAtBindTime is the canonical pre-normalization
// case: a scope alias stores a frozen snapshot of Vscale (7), so rebinding
// Vscale afterwards does not affect a later INLN of the same scope alias.
func TestScopeAliasFreezesNumbersAtBindTime(t *testing.T) {
	stream := normalize(t, `[main] [
		ALIS Vscale 7;
		ALIS inc [ INCR 0 Vscale; ];
		INLN [inc];
		ALIS Vscale 12;
		INLN [inc];
	]`)
	if len(stream.Insns) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(stream.Insns))
	}
	if stream.Insns[0].B != 7 || stream.Insns[1].B != 7 {
		t.Fatalf("expected both INCRs frozen at 7, got %v", stream.Insns)
	}
}

func TestInlnSplicesLiteralScopeDirectly(t *testing.T) {
	stream := normalize(t, "[main] [ INLN [ ZERO 0; OUT 0; ]; ]")
	if len(stream.Insns) != 2 || stream.Insns[0].Op != normalizer.ZERO || stream.Insns[1].Op != normalizer.OUT {
		t.Fatalf("unexpected stream: %s", stream)
	}
}

func TestWhneNormalizesNestedBody(t *testing.T) {
	stream := normalize(t, "[main] [ WHNE 0 1 [ DECR 0 1; ]; ]")
	if len(stream.Insns) != 1 || stream.Insns[0].Op != normalizer.WHNE {
		t.Fatalf("expected a single WHNE, got %s", stream)
	}
	body := stream.Insns[0].Body
	if body == nil || len(body.Insns) != 1 || body.Insns[0].Op != normalizer.DECR {
		t.Fatalf("expected a DECR inside the loop body, got %#v", body)
	}
}

func TestMetaSeesSetupGlobalsNotCallerLocals(t *testing.T) {
	stream := normalize(t, `
		[setup] [ ALIS GV 4; ]
		[@M a] [ INCR a GV; ]
		[main] [
			ALIS GV 999;
			M 0;
		]
	`)
	if len(stream.Insns) != 1 || stream.Insns[0].B != 4 {
		t.Fatalf("expected the meta to see setup's GV (4), not main's local rebinding, got %v", stream.Insns)
	}
}

func TestMetaScopeParameterSplicesBody(t *testing.T) {
	stream := normalize(t, `
		[@Twice [body]] [ INLN [body]; INLN [body]; ]
		[main] [ Twice [ INCR 0 1; ]; ]
	`)
	if len(stream.Insns) != 2 || stream.Insns[0].Op != normalizer.INCR || stream.Insns[1].Op != normalizer.INCR {
		t.Fatalf("expected the scope parameter spliced twice, got %v", stream.Insns)
	}
}

func TestSetupCannotCallMetaInstruction(t *testing.T) {
	err := normalizeErr(t, `
		[setup] [ M 0; ]
		[@M a] [ INCR a 1; ]
		[main] [ ZERO 0; ]
	`)
	if err == nil {
		t.Fatal("expected a SetupError")
	}
}

func TestRecursiveMetaExpansionIsAnError(t *testing.T) {
	err := normalizeErr(t, `
		[@M a] [ M a; ]
		[main] [ M 0; ]
	`)
	assertKind(t, err, basmerr.MetaError)
}

func TestDuplicateMetaNameIsAnError(t *testing.T) {
	err := normalizeErr(t, `
		[@M a] [ ZERO a; ]
		[@M a] [ ZERO a; ]
		[main] [ ZERO 0; ]
	`)
	if err == nil {
		t.Fatal("expected a MetaError for duplicate meta-instruction names")
	}
}

func TestMetaCollidingWithBuiltinIsAnError(t *testing.T) {
	err := normalizeErr(t, `
		[@ZERO a] [ ZERO a; ]
		[main] [ ZERO 0; ]
	`)
	if err == nil {
		t.Fatal("expected a MetaError for a built-in name collision")
	}
}

func TestUndefinedNumberAliasIsAScopeError(t *testing.T) {
	err := normalizeErr(t, "[main] [ ZERO x; ]")
	if err == nil {
		t.Fatal("expected a ScopeError")
	}
}

func TestUndefinedMetaCallIsAMetaError(t *testing.T) {
	err := normalizeErr(t, "[main] [ Frobnicate 0; ]")
	if err == nil {
		t.Fatal("expected a MetaError for an undefined call target")
	}
}

func TestWrongArityIsATypeError(t *testing.T) {
	err := normalizeErr(t, "[main] [ ZERO 0 1; ]")
	if err == nil {
		t.Fatal("expected a TypeError")
	}
}

func TestDivisionByZeroIsAnOverflowError(t *testing.T) {
	err := normalizeErr(t, "[main] [ ZERO 1/0; ]")
	assertKind(t, err, basmerr.OverflowError)
}
