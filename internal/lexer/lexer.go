// Package lexer turns Lox source text into a token stream.
//
// The scanner assigns every token a process-unique, monotonically
// increasing ID. That counter is never reset by Reset, even though the
// REPL resets everything else (start, current, line, and the accumulated
// token buffer) between input lines — the resolver's scope-depth table is
// keyed by token ID across the whole interpreter lifetime, and resetting
// the counter would let a later line collide with an earlier one.
package lexer

import (
	"strconv"

	"github.com/loxlang/golox/internal/loxerr"
	"github.com/loxlang/golox/internal/token"
)

// Lexer scans a source string into a token slice.
type Lexer struct {
	source  string
	tokens  []token.Token
	start   int
	current int
	line    int
	nextID  int
	err     *loxerr.Error
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithIDSeed starts the token-ID counter at seed instead of 0. The REPL
// driver in pkg/lox uses this to hand each line's Lexer a counter that
// continues from the previous line's highest ID, so the resolver's
// depth table (keyed by ID across the whole session) never collides.
func WithIDSeed(seed int) Option {
	return func(l *Lexer) { l.nextID = seed }
}

// New creates a Lexer over source, ready to Scan.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{source: source, line: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NextID reports the ID the next scanned token will receive. A caller that
// wants REPL lines to share one ID space reads this after each Scan and
// feeds it back via WithIDSeed for the next Lexer.
func (l *Lexer) NextID() int { return l.nextID }

// Reset rewinds the scanner over a new source string, for REPL reuse.
// start, current, line, and the token buffer are all cleared; the token-ID
// counter is NOT reset (see package doc).
func (l *Lexer) Reset(source string) {
	l.source = source
	l.tokens = nil
	l.start = 0
	l.current = 0
	l.line = 1
	l.err = nil
}

// Scan scans the whole source and returns its tokens, always terminated by
// exactly one EOF token. It stops and returns the first error encountered,
// per spec.md §4.1 ("lexing fails fast on the first error").
func (l *Lexer) Scan() ([]token.Token, *loxerr.Error) {
	for !l.atEnd() {
		l.start = l.current
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, l.newToken(token.EOF, ""))
	return l.tokens, nil
}

func (l *Lexer) scanToken() *loxerr.Error {
	c := l.advance()
	switch c {
	case '(':
		l.addToken(token.LeftParen)
	case ')':
		l.addToken(token.RightParen)
	case '{':
		l.addToken(token.LeftBrace)
	case '}':
		l.addToken(token.RightBrace)
	case ',':
		l.addToken(token.Comma)
	case '.':
		l.addToken(token.Dot)
	case '-':
		l.addToken(token.Minus)
	case '+':
		l.addToken(token.Plus)
	case ';':
		l.addToken(token.Semicolon)
	case '*':
		l.addToken(token.Star)
	case '!':
		l.addToken(l.choose('=', token.BangEqual, token.Bang))
	case '=':
		l.addToken(l.choose('=', token.EqualEqual, token.Equal))
	case '<':
		l.addToken(l.choose('=', token.LessEqual, token.Less))
	case '>':
		l.addToken(l.choose('=', token.GreaterEqual, token.Greater))
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.atEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.Slash)
		}
	case ' ', '\r', '\t':
		// whitespace, ignored
	case '\n':
		l.line++
	case '"':
		return l.scanString()
	default:
		switch {
		case isDigit(c):
			return l.scanNumber()
		case isAlpha(c):
			l.scanIdentifier()
		default:
			return l.error("unexpected character '%c'", c)
		}
	}
	return nil
}

func (l *Lexer) scanString() *loxerr.Error {
	for l.peek() != '"' && !l.atEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.atEnd() {
		return l.error("unterminated string")
	}
	l.advance() // closing quote
	value := l.source[l.start+1 : l.current-1]
	l.addTokenLiteral(token.String, value)
	return nil
}

func (l *Lexer) scanNumber() *loxerr.Error {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := l.source[l.start:l.current]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return l.error("invalid number literal %q", text)
	}
	l.addTokenLiteral(token.Number, value)
	return nil
}

func (l *Lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	typ, ok := token.Keywords[text]
	if !ok {
		typ = token.Identifier
	}
	switch typ {
	case token.True:
		l.addTokenLiteral(typ, true)
	case token.False:
		l.addTokenLiteral(typ, false)
	case token.Nil:
		l.addTokenLiteral(typ, nil)
	default:
		l.addToken(typ)
	}
}

func (l *Lexer) atEnd() bool { return l.current >= len(l.source) }

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.atEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) choose(expected byte, ifMatch, otherwise token.Type) token.Type {
	if l.match(expected) {
		return ifMatch
	}
	return otherwise
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) addToken(typ token.Type) {
	l.addTokenLiteral(typ, nil)
}

func (l *Lexer) addTokenLiteral(typ token.Type, literal any) {
	text := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.New(typ, text, literal, l.line, l.nextID))
	l.nextID++
}

func (l *Lexer) newToken(typ token.Type, lexeme string) token.Token {
	t := token.New(typ, lexeme, nil, l.line, l.nextID)
	l.nextID++
	return t
}

func (l *Lexer) error(format string, args ...any) *loxerr.Error {
	return loxerr.New(loxerr.Scanner, l.line, format, args...)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
