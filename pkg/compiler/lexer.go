package compiler

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// keywords maps lower-cased source text to its keyword TokenType.
// Matching is case-insensitive: "BEGIN", "Begin" and "begin" are the same word.
var keywords = map[string]TokenType{
	"begin":   BEGIN,
	"const":   CONST,
	"type":    TYPE,
	"var":     VAR,
	"def":     DEF,
	"end":     END,
	"if":      IF,
	"then":    THEN,
	"else":    ELSE,
	"while":   WHILE,
	"do":      DO,
	"return":  RETURN,
	"write":   WRITE,
	"read":    READ,
	"integer": INTEGER,
	"real":    REAL,
	"string":  STRING,
	"array":   ARRAY,
	"of":      OF,
	"record":  RECORD,
}

// twoCharOps are tried before any single-character operator.
var twoCharOps = map[string]TokenType{
	":=": ASSIGN,
	"==": EQUALS,
	"!=": NOT_EQ,
	">=": GREATER_EQ,
	"<=": LESS_EQ,
}

var oneCharOps = map[byte]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	';': SEMICOLON,
	':': COLON,
	'.': DOT,
	',': COMMA,
	'>': GREATER,
	'<': LESS,
	'=': EQUAL,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  string
	pos  int // byte offset of the next character to consume
	line int // current 1-based source line

	tokens []Token
	errs   []error
	done   bool
}

// NewLexer returns a lexer over src. Scanning happens lazily on the first
// call to Tokens or Errors.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) emit(tt TokenType, lexeme string, line int) {
	l.tokens = append(l.tokens, Token{Type: tt, Lexeme: lexeme, Line: line})
}

func (l *Lexer) scanIdent() {
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.pos++
	}
	lexeme := l.src[start:l.pos]
	tt := IDENTIFIER
	if kw, ok := keywords[strings.ToLower(lexeme)]; ok {
		tt = kw
	}
	l.emit(tt, lexeme, l.line)
}

// scanNumber collects digit+ ('.' digit+)?. A dot that is not followed by a
// digit is left for the next token.
func (l *Lexer) scanNumber() {
	start := l.pos
	for isDigit(l.peek()) {
		l.pos++
	}
	tt := INT_LIT
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		tt = REAL_LIT
		l.pos++ // .
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	l.emit(tt, l.src[start:l.pos], l.line)
}

// scanString collects "..." starting at the opening quote. Escapes are kept
// verbatim. It reports false without consuming anything when no closing
// quote exists.
func (l *Lexer) scanString() bool {
	i := l.pos + 1
	newlines := 0
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			if i+1 >= len(l.src) {
				return false
			}
			if l.src[i+1] == '\n' {
				newlines++
			}
			i += 2
			continue
		case '"':
			l.emit(STRING_LIT, l.src[l.pos+1:i], l.line)
			l.pos = i + 1
			l.line += newlines
			return true
		case '\n':
			newlines++
		}
		i++
	}
	return false
}

// invalid reports the character at pos and skips it.
func (l *Lexer) invalid() {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.errs = append(l.errs, newError(LexicalError, l.line, "invalid character %q", r))
	l.pos += size
}

func (l *Lexer) run() {
	if l.done {
		return
	}
	l.done = true

	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == '\n':
			l.line++
			l.pos++
			continue
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
			continue
		case c == '#':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.pos++
			}
			continue
		case isLetter(c):
			l.scanIdent()
			continue
		case isDigit(c):
			l.scanNumber()
			continue
		case c == '"':
			if !l.scanString() {
				l.errs = append(l.errs, newError(LexicalError, l.line, "unterminated string literal"))
				l.pos++
			}
			continue
		}

		if l.pos+1 < len(l.src) {
			if tt, ok := twoCharOps[l.src[l.pos:l.pos+2]]; ok {
				l.emit(tt, l.src[l.pos:l.pos+2], l.line)
				l.pos += 2
				continue
			}
		}
		if tt, ok := oneCharOps[c]; ok {
			l.emit(tt, string(c), l.line)
			l.pos++
			continue
		}
		l.invalid()
	}
	l.emit(EOF, "", l.line)
}

// Tokens returns every token recovered from the source, ending with EOF.
func (l *Lexer) Tokens() []Token {
	l.run()
	return l.tokens
}

// Errors returns one LexicalError per character the lexer had to skip.
func (l *Lexer) Errors() []error {
	l.run()
	return l.errs
}

// Lex tokenises src. The token slice is always complete: invalid characters
// are skipped and reported through the joined error.
func Lex(src string) ([]Token, error) {
	l := NewLexer(src)
	return l.Tokens(), errors.Join(l.Errors()...)
}
