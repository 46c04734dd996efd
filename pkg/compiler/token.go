package compiler

import (
	"fmt"
	"strconv"
)

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable / type / function name
	INT_LIT    // 42
	REAL_LIT   // 4.2
	STRING_LIT // "..." (payload only, escapes left as written)

	// Keywords
	BEGIN
	CONST
	TYPE
	VAR
	DEF
	END
	IF
	THEN
	ELSE
	WHILE
	DO
	RETURN
	WRITE
	READ
	INTEGER
	REAL
	STRING
	ARRAY
	OF
	RECORD

	// Paired delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	SEMICOLON // ;
	COLON     // :
	DOT       // .
	COMMA     // ,

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	// Assignment / comparison (two-character forms are matched first)
	ASSIGN     // :=
	EQUALS     // ==
	NOT_EQ     // !=
	GREATER_EQ // >=
	LESS_EQ    // <=
	GREATER    // >
	LESS       // <
	EQUAL      // =
)

var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INT_LIT:    "INT_LIT",
	REAL_LIT:   "REAL_LIT",
	STRING_LIT: "STRING_LIT",
	BEGIN:      "BEGIN",
	CONST:      "CONST",
	TYPE:       "TYPE",
	VAR:        "VAR",
	DEF:        "DEF",
	END:        "END",
	IF:         "IF",
	THEN:       "THEN",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	DO:         "DO",
	RETURN:     "RETURN",
	WRITE:      "WRITE",
	READ:       "READ",
	INTEGER:    "INTEGER",
	REAL:       "REAL",
	STRING:     "STRING",
	ARRAY:      "ARRAY",
	OF:         "OF",
	RECORD:     "RECORD",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	SEMICOLON:  "SEMICOLON",
	COLON:      "COLON",
	DOT:        "DOT",
	COMMA:      "COMMA",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	GREATER_EQ: "GREATER_EQ",
	LESS_EQ:    "LESS_EQ",
	GREATER:    "GREATER",
	LESS:       "LESS",
	EQUAL:      "EQUAL",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// TokenKind is the coarse classification of a TokenType.
type TokenKind int

const (
	KindEOF TokenKind = iota
	KindKeyword
	KindIdentifier
	KindLiteral
	KindOperator
	KindPunctuation
)

func (k TokenKind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindIdentifier:
		return "identifier"
	case KindLiteral:
		return "literal"
	case KindOperator:
		return "operator"
	case KindPunctuation:
		return "punctuation"
	}
	return "eof"
}

// Kind classifies tt.
func (tt TokenType) Kind() TokenKind {
	switch {
	case tt == EOF:
		return KindEOF
	case tt == IDENTIFIER:
		return KindIdentifier
	case tt >= INT_LIT && tt <= STRING_LIT:
		return KindLiteral
	case tt >= BEGIN && tt <= RECORD:
		return KindKeyword
	case tt >= LPAREN && tt <= COMMA:
		return KindPunctuation
	}
	return KindOperator
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // matched source text; for STRING_LIT the payload without quotes
	Line   int    // 1-based source line
}

// IntValue decodes an INT_LIT lexeme.
func (t Token) IntValue() (int64, error) {
	return strconv.ParseInt(t.Lexeme, 10, 64)
}

// RealValue decodes an INT_LIT or REAL_LIT lexeme as a float.
func (t Token) RealValue() (float64, error) {
	return strconv.ParseFloat(t.Lexeme, 64)
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
