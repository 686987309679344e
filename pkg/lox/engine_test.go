package lox_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/loxlang/golox/pkg/lox"
)

func TestMain(m *testing.M) {
	snaps.WithConfig(snaps.Dir(".snapshots")).RunTests(m)
}

func TestEngineFixtures(t *testing.T) {
	fixtures := []string{"closures", "classes"}
	for _, name := range fixtures {
		t.Run(name, func(t *testing.T) {
			engine := lox.New()
			result, err := engine.RunFile("testdata/" + name + ".lox")
			if err != nil {
				t.Fatalf("reading fixture: %v", err)
			}
			if !result.Success {
				t.Fatalf("fixture %s failed: %v", name, result.Errors)
			}
			snaps.MatchSnapshot(t, result.Output)
		})
	}
}

func TestEngineEvalSuccessAndOutput(t *testing.T) {
	engine := lox.New()
	result := engine.Eval(`print 1 + 1;`)
	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
	if result.Output != "2\n" {
		t.Errorf("got %q, want %q", result.Output, "2\n")
	}
}

func TestEngineEvalReportsErrors(t *testing.T) {
	engine := lox.New()
	result := engine.Eval(`print nope;`)
	if result.Success {
		t.Fatal("expected failure for an undefined variable")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestEngineWithOutputWritesDirectly(t *testing.T) {
	var buf bytes.Buffer
	engine := lox.New(lox.WithOutput(&buf))
	result := engine.Eval(`print "hello";`)
	if !result.Success {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if buf.String() != "hello\n" {
		t.Errorf("got %q, want %q", buf.String(), "hello\n")
	}
	// WithOutput disables Result.Output buffering; the host reads the
	// writer instead.
	if result.Output != "" {
		t.Errorf("expected empty Result.Output when WithOutput is set, got %q", result.Output)
	}
}

func TestEnginePersistsGlobalsAcrossEvalCalls(t *testing.T) {
	engine := lox.New()
	if result := engine.Eval(`var count = 0;`); !result.Success {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result := engine.Eval(`count = count + 1;`); !result.Success {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	result := engine.Eval(`print count;`)
	if !result.Success {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Output != "1\n" {
		t.Errorf("expected globals to persist across Eval calls, got %q", result.Output)
	}
}

func TestEnginePersistsTokenIDsAcrossEvalCalls(t *testing.T) {
	// Each Eval call lexes with a fresh lexer seeded from the engine's
	// running token-id counter; declaring and then later reading the same
	// name across two calls must still resolve correctly.
	engine := lox.New()
	engine.Eval(`fun greet() { return "hi"; }`)
	result := engine.Eval(`print greet();`)
	if !result.Success {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Output != "hi\n" {
		t.Errorf("got %q, want %q", result.Output, "hi\n")
	}
}

func TestEngineRunFileMissingPath(t *testing.T) {
	engine := lox.New()
	_, err := engine.RunFile("testdata/does-not-exist.lox")
	if err == nil {
		t.Fatal("expected an error reading a missing file")
	}
}

func TestDumpAST(t *testing.T) {
	out, errs := lox.DumpAST(`var x = 1 + 2;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out == "" {
		t.Fatal("expected non-empty AST dump")
	}
}

func TestDumpASTReportsParseErrors(t *testing.T) {
	_, errs := lox.DumpAST(`var x = ;`)
	if len(errs) == 0 {
		t.Fatal("expected parse errors for malformed source")
	}
}
