package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loxlang/golox/internal/token"
)

// Print renders a program back into valid, reparseable Lox source text,
// the way go-dws's Node.String() renders an AST for --dump-ast output
// and for debugging. It is also the mechanism behind the parse→print→
// reparse testable property from spec.md §8: printing and reparsing a
// program should produce an equal AST modulo `for`-loop desugaring
// (which Print cannot undo, since the desugared `while` is all the
// parser ever handed it). Every compound expression is rendered as real
// Lox syntax (infix operators, `callee(args)`, `obj.name`), not a
// Lisp-style prefix dump, specifically so the output reparses.
func Print(statements []Stmt) string {
	var sb strings.Builder
	for _, s := range statements {
		printStmt(&sb, s, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printStmt(sb *strings.Builder, s Stmt, depth int) {
	indent(sb, depth)
	switch n := s.(type) {
	case *Expression:
		fmt.Fprintf(sb, "%s;\n", printExpr(n.Expression))
	case *Print:
		fmt.Fprintf(sb, "print %s;\n", printExpr(n.Expression))
	case *VarDecl:
		if n.Initializer != nil {
			fmt.Fprintf(sb, "var %s = %s;\n", n.Name.Lexeme, printExpr(n.Initializer))
		} else {
			fmt.Fprintf(sb, "var %s;\n", n.Name.Lexeme)
		}
	case *Block:
		sb.WriteString("{\n")
		for _, inner := range n.Statements {
			printStmt(sb, inner, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case *If:
		fmt.Fprintf(sb, "if (%s) ", printExpr(n.Condition))
		printInline(sb, n.Then, depth)
		if n.Else != nil {
			indent(sb, depth)
			sb.WriteString("else ")
			printInline(sb, n.Else, depth)
		}
	case *While:
		fmt.Fprintf(sb, "while (%s) ", printExpr(n.Condition))
		printInline(sb, n.Body, depth)
	case *FunDecl:
		sb.WriteString("fun ")
		printFunBody(sb, n, depth)
	case *Return:
		if n.Value != nil {
			fmt.Fprintf(sb, "return %s;\n", printExpr(n.Value))
		} else {
			sb.WriteString("return;\n")
		}
	case *ClassDecl:
		if n.Superclass != nil {
			fmt.Fprintf(sb, "class %s < %s {\n", n.Name.Lexeme, n.Superclass.Name.Lexeme)
		} else {
			fmt.Fprintf(sb, "class %s {\n", n.Name.Lexeme)
		}
		for _, m := range n.Methods {
			indent(sb, depth+1)
			// Methods in a class body have no leading `fun` keyword per
			// spec.md §4.2's grammar (`method → IDENT "(" params? ")"
			// block`, distinct from `funDecl`).
			printFunBody(sb, m, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	default:
		fmt.Fprintf(sb, "<unknown statement %T>\n", n)
	}
}

// printInline prints a statement that follows `if (...)`/`while (...)` on
// the same logical line; blocks get their opening brace right there, and
// non-block statements get a newline-delimited single line.
func printInline(sb *strings.Builder, s Stmt, depth int) {
	if b, ok := s.(*Block); ok {
		sb.WriteString("{\n")
		for _, inner := range b.Statements {
			printStmt(sb, inner, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
		return
	}
	printStmt(sb, s, 0)
}

// printFunBody renders `NAME(params) { body }`, shared by both a
// top-level function declaration (prefixed by the caller with "fun ")
// and a class method (no prefix).
func printFunBody(sb *strings.Builder, n *FunDecl, depth int) {
	fmt.Fprintf(sb, "%s(%s) {\n", n.Name.Lexeme, joinParams(n.Params))
	for _, inner := range n.Body {
		printStmt(sb, inner, depth+1)
	}
	indent(sb, depth)
	sb.WriteString("}\n")
}

func joinParams(params []token.Token) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return strings.Join(names, ", ")
}

// printExpr renders e as real infix Lox syntax: "a + b", not a
// Lisp-style prefix dump. No extra parentheses are introduced beyond
// whatever a *Grouping node already carries — none are needed, because
// the parser can only ever produce a lower-precedence subtree in a
// higher-precedence position (e.g. a `+` expression nested inside a `*`
// expression's operand) by having gone through primary()'s "(" expression
// ")" production, which already left a *Grouping node at exactly that
// spot. Reprinting every *Grouping node's own parens is therefore
// sufficient to reproduce the same parse on the way back in, operator
// precedence and left/right associativity included.
func printExpr(e Expr) string {
	switch n := e.(type) {
	case *Binary:
		return fmt.Sprintf("%s %s %s", printExpr(n.Left), n.Operator.Lexeme, printExpr(n.Right))
	case *Logical:
		return fmt.Sprintf("%s %s %s", printExpr(n.Left), n.Operator.Lexeme, printExpr(n.Right))
	case *Unary:
		return fmt.Sprintf("%s%s", n.Operator.Lexeme, printExpr(n.Right))
	case *Literal:
		return printLiteral(n.Value)
	case *Grouping:
		return fmt.Sprintf("(%s)", printExpr(n.Expression))
	case *Variable:
		return n.Name.Lexeme
	case *Assignment:
		return fmt.Sprintf("%s = %s", n.Name.Lexeme, printExpr(n.Value))
	case *Call:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = printExpr(a)
		}
		return fmt.Sprintf("%s(%s)", printExpr(n.Callee), strings.Join(args, ", "))
	case *Get:
		return fmt.Sprintf("%s.%s", printExpr(n.Object), n.Name.Lexeme)
	case *Set:
		return fmt.Sprintf("%s.%s = %s", printExpr(n.Object), n.Name.Lexeme, printExpr(n.Value))
	case *This:
		return "this"
	case *Super:
		return fmt.Sprintf("super.%s", n.Method.Lexeme)
	default:
		return fmt.Sprintf("<unknown expr %T>", n)
	}
}

// printLiteral renders a constant value as it would appear in Lox source.
// Strings are wrapped in quotes but not escaped: the lexer's string
// scanning (see internal/lexer) does not interpret backslash escapes
// either, so an un-escaped round-trip is what actually reparses back to
// the same value (a literal containing a '"' cannot be reprinted as a
// single string token, but the scanner itself has no way to produce such
// a value in the first place).
func printLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return `"` + val + `"`
	default:
		return fmt.Sprintf("%v", val)
	}
}
