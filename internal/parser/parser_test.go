package parser_test

import (
	"testing"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
)

func parse(t *testing.T, source string) ([]ast.Stmt, int) {
	t.Helper()
	toks, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, errs := parser.New(toks, source, "").Parse()
	return stmts, len(errs)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	stmts, n := parse(t, "1 + 2 * 3;")
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	exprStmt, ok := stmts[0].(*ast.Expression)
	if !ok {
		t.Fatalf("expected *ast.Expression, got %T", stmts[0])
	}
	bin, ok := exprStmt.Expression.(*ast.Binary)
	if !ok {
		t.Fatalf("expected top-level *ast.Binary (+), got %T", exprStmt.Expression)
	}
	if bin.Operator.Lexeme != "+" {
		t.Fatalf("top-level operator should be '+' (lower precedence binds looser), got %q", bin.Operator.Lexeme)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("right side of + should be the nested * expression, got %T", bin.Right)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, n := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	block, ok := stmts[0].(*ast.Block)
	if !ok {
		t.Fatalf("for with initializer should desugar to an outer block, got %T", stmts[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected [initializer, while], got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.VarDecl); !ok {
		t.Errorf("first statement should be the var decl initializer, got %T", block.Statements[0])
	}
	whileStmt, ok := block.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("second statement should be the desugared while, got %T", block.Statements[1])
	}
	body, ok := whileStmt.Body.(*ast.Block)
	if !ok {
		t.Fatalf("while body with an update clause should be a block, got %T", whileStmt.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("expected [original body, update], got %d", len(body.Statements))
	}
}

func TestParseForWithoutClausesDefaultsConditionTrue(t *testing.T) {
	stmts, n := parse(t, "for (;;) print 1;")
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	whileStmt, ok := stmts[0].(*ast.While)
	if !ok {
		t.Fatalf("expected bare *ast.While with no outer block, got %T", stmts[0])
	}
	lit, ok := whileStmt.Condition.(*ast.Literal)
	if !ok || lit.Value != true {
		t.Fatalf("expected literal true condition, got %#v", whileStmt.Condition)
	}
}

func TestParseInvalidAssignmentTargetIsNonSynchronizing(t *testing.T) {
	stmts, n := parse(t, "1 + 2 = 3; print \"still parsed\";")
	if n != 1 {
		t.Fatalf("expected exactly 1 error, got %d", n)
	}
	if len(stmts) != 2 {
		t.Fatalf("parser should keep going past the bad assignment target, got %d statements", len(stmts))
	}
	if _, ok := stmts[1].(*ast.Print); !ok {
		t.Fatalf("expected the following print statement to still parse, got %T", stmts[1])
	}
}

func TestParseTooManyArgumentsIsNonSynchronizing(t *testing.T) {
	src := "foo("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += "); print \"after\";"

	stmts, n := parse(t, src)
	if n == 0 {
		t.Fatal("expected an error for more than 255 arguments")
	}
	if len(stmts) != 2 {
		t.Fatalf("parser should not synchronize past the limit error, got %d statements", len(stmts))
	}
}

func TestParseMissingSemicolonSynchronizesAtNextStatement(t *testing.T) {
	stmts, n := parse(t, "print 1 print 2; print 3;")
	if n == 0 {
		t.Fatal("expected a syntax error for the missing semicolon")
	}
	// The error is reported at the second `print`; synchronize() discards
	// that token and everything through the next ';', so `print 3;` is
	// still recovered.
	found := false
	for _, s := range stmts {
		if _, ok := s.(*ast.Print); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("expected to recover the second print statement after synchronizing")
	}
}

func TestParseMultipleErrorsAccumulate(t *testing.T) {
	_, n := parse(t, "var ; var ; var ;")
	if n < 3 {
		t.Fatalf("expected at least 3 accumulated errors, got %d", n)
	}
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	stmts, n := parse(t, "class B < A { greet() { return 1; } }")
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	class, ok := stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", stmts[0])
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Fatalf("expected superclass A, got %+v", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "greet" {
		t.Fatalf("expected a single 'greet' method, got %+v", class.Methods)
	}
}

func TestParseGetSetChain(t *testing.T) {
	stmts, n := parse(t, "a.b.c = 1;")
	if n != 0 {
		t.Fatalf("unexpected parse errors: %d", n)
	}
	exprStmt := stmts[0].(*ast.Expression)
	set, ok := exprStmt.Expression.(*ast.Set)
	if !ok {
		t.Fatalf("expected *ast.Set at the top, got %T", exprStmt.Expression)
	}
	if _, ok := set.Object.(*ast.Get); !ok {
		t.Fatalf("expected nested *ast.Get for a.b, got %T", set.Object)
	}
}
