package interp_test

import (
	"strings"
	"testing"

	"github.com/loxlang/golox/internal/interp"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/resolver"
)

// run executes source through the full lexer→parser→resolver→evaluator
// pipeline and returns what the program printed, failing the test on any
// lex/parse/resolve error. It is the same wiring pkg/lox.Engine uses.
func run(t *testing.T, source string) string {
	t.Helper()
	sink := interp.NewBufferSink()
	if err := runInto(sink, source); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return sink.String()
}

func runInto(sink interp.Sink, source string) *errWrapper {
	toks, err := lexer.New(source).Scan()
	if err != nil {
		return &errWrapper{err}
	}
	stmts, perrs := parser.New(toks, source, "").Parse()
	if len(perrs) != 0 {
		return &errWrapper{perrs[0]}
	}
	depths := resolver.Depths{}
	rerrs := resolver.New(depths, source, "").Resolve(stmts)
	if len(rerrs) != 0 {
		return &errWrapper{rerrs[0]}
	}
	ev := interp.New(sink, depths, source, "")
	if rerr := ev.Interpret(stmts); rerr != nil {
		return &errWrapper{rerr}
	}
	return nil
}

type errWrapper struct{ err error }

func (e *errWrapper) Error() string { return e.err.Error() }

func runExpectError(t *testing.T, source string) error {
	t.Helper()
	sink := interp.NewBufferSink()
	err := runInto(sink, source)
	if err == nil {
		t.Fatalf("expected an error running: %s", source)
	}
	return err
}

func TestEvaluatorArithmeticPrecedence(t *testing.T) {
	out := run(t, `print 1 + 2 * 3;`)
	if out != "7\n" {
		t.Errorf("got %q, want %q", out, "7\n")
	}
}

func TestEvaluatorStringConcatenation(t *testing.T) {
	out := run(t, `print "foo" + "bar";`)
	if out != "foobar\n" {
		t.Errorf("got %q, want %q", out, "foobar\n")
	}
}

func TestEvaluatorClosureCapturesDeclarationEnvironment(t *testing.T) {
	// Lexical, not dynamic, scoping: showGlobal reads the global it was
	// declared next to, not the same-named local of its caller runIt.
	out := run(t, `
var global = "outer";
fun showGlobal() {
  print global;
}
fun runIt() {
  var global = "inner";
  showGlobal();
}
runIt();
`)
	if out != "outer\n" {
		t.Errorf("closure should see the outer global, got %q", out)
	}
}

func TestEvaluatorRecursion(t *testing.T) {
	out := run(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`)
	if out != "55\n" {
		t.Errorf("fib(10) = %q, want 55", out)
	}
}

func TestEvaluatorClassesFieldsAndInit(t *testing.T) {
	out := run(t, `
class Point {
  init(x, y) {
    this.x = x;
    this.y = y;
  }
  sum() {
    return this.x + this.y;
  }
}
var p = Point(3, 4);
print p.sum();
`)
	if out != "7\n" {
		t.Errorf("got %q, want 7", out)
	}
}

func TestEvaluatorInheritanceAndSuper(t *testing.T) {
	out := run(t, `
class A {
  hi() {
    return "A";
  }
}
class B < A {
  hi() {
    return super.hi() + "B";
  }
}
print B().hi();
`)
	if out != "AB\n" {
		t.Errorf("got %q, want %q", out, "AB\n")
	}
}

func TestEvaluatorWhileLoop(t *testing.T) {
	out := run(t, `
var i = 0;
var total = 0;
while (i < 5) {
  total = total + i;
  i = i + 1;
}
print total;
`)
	if out != "10\n" {
		t.Errorf("got %q, want 10", out)
	}
}

func TestEvaluatorCallingNonCallableIsTypeError(t *testing.T) {
	err := runExpectError(t, `
var x = 1;
x();
`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "TypeError") {
		t.Errorf("expected a TypeError, got %v", err)
	}
}

func TestEvaluatorUndefinedVariableIsNameError(t *testing.T) {
	err := runExpectError(t, `print nope;`)
	if !strings.Contains(err.Error(), "NameError") {
		t.Errorf("expected a NameError, got %v", err)
	}
}

func TestEvaluatorNumberPlusStringIsTypeError(t *testing.T) {
	err := runExpectError(t, `print 1 + "x";`)
	if !strings.Contains(err.Error(), "TypeError") {
		t.Errorf("expected a TypeError, got %v", err)
	}
}

func TestEvaluatorTruthiness(t *testing.T) {
	out := run(t, `
if (0) print "zero is truthy"; else print "zero is falsy";
if ("") print "empty string is truthy"; else print "empty string is falsy";
if (nil) print "nil is truthy"; else print "nil is falsy";
`)
	want := "zero is truthy\nempty string is truthy\nnil is falsy\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestEvaluatorLogicalShortCircuit(t *testing.T) {
	out := run(t, `
fun sideEffect() {
  print "called";
  return true;
}
print false and sideEffect();
print true or sideEffect();
`)
	want := "false\ntrue\n"
	if out != want {
		t.Errorf("side-effecting operand should never run, got %q, want %q", out, want)
	}
}
