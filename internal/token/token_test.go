package token_test

import (
	"strings"
	"testing"

	"github.com/loxlang/golox/internal/token"
)

func TestTokenString(t *testing.T) {
	tok := token.New(token.Identifier, "foo", nil, 3, 7)
	s := tok.String()
	if !strings.Contains(s, "foo") {
		t.Fatalf("String() = %q, want it to contain the lexeme", s)
	}
}

func TestTypeStringKnownAndUnknown(t *testing.T) {
	if got := token.Plus.String(); got != "+" {
		t.Errorf("Plus.String() = %q, want %q", got, "+")
	}
	unknown := token.Type(9999)
	if got := unknown.String(); got != "UNKNOWN" {
		t.Errorf("unknown type String() = %q, want UNKNOWN", got)
	}
}

func TestKeywordsTable(t *testing.T) {
	for _, word := range []string{"and", "class", "else", "false", "for", "fun", "if", "nil", "or", "print", "return", "super", "this", "true", "var", "while"} {
		if _, ok := token.Keywords[word]; !ok {
			t.Errorf("Keywords missing %q", word)
		}
	}
	if _, ok := token.Keywords["notakeyword"]; ok {
		t.Errorf("Keywords should not contain identifiers")
	}
}
