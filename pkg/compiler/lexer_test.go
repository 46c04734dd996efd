package compiler

import (
	"errors"
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Operators Longest Match First",
			input: ":= == != >= <= + - * / ( ) [ ] ; : . , > < =",
			expected: []Token{
				{Type: ASSIGN, Lexeme: ":=", Line: 1},
				{Type: EQUALS, Lexeme: "==", Line: 1},
				{Type: NOT_EQ, Lexeme: "!=", Line: 1},
				{Type: GREATER_EQ, Lexeme: ">=", Line: 1},
				{Type: LESS_EQ, Lexeme: "<=", Line: 1},
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: MINUS, Lexeme: "-", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: LPAREN, Lexeme: "(", Line: 1},
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: LBRACKET, Lexeme: "[", Line: 1},
				{Type: RBRACKET, Lexeme: "]", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: COMMA, Lexeme: ",", Line: 1},
				{Type: GREATER, Lexeme: ">", Line: 1},
				{Type: LESS, Lexeme: "<", Line: 1},
				{Type: EQUAL, Lexeme: "=", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Double Colon Is Two Tokens",
			input: ")::integer",
			expected: []Token{
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: COLON, Lexeme: ":", Line: 1},
				{Type: INTEGER, Lexeme: "integer", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keywords Case Insensitive",
			input: "BEGIN End Var def RECORD Array of _x x1",
			expected: []Token{
				{Type: BEGIN, Lexeme: "BEGIN", Line: 1},
				{Type: END, Lexeme: "End", Line: 1},
				{Type: VAR, Lexeme: "Var", Line: 1},
				{Type: DEF, Lexeme: "def", Line: 1},
				{Type: RECORD, Lexeme: "RECORD", Line: 1},
				{Type: ARRAY, Lexeme: "Array", Line: 1},
				{Type: OF, Lexeme: "of", Line: 1},
				{Type: IDENTIFIER, Lexeme: "_x", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x1", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Numbers",
			input: "42 3.14 7. 0",
			expected: []Token{
				{Type: INT_LIT, Lexeme: "42", Line: 1},
				{Type: REAL_LIT, Lexeme: "3.14", Line: 1},
				{Type: INT_LIT, Lexeme: "7", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: INT_LIT, Lexeme: "0", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Strings Keep Escapes",
			input: `"hello" "a\"b" "tab\t"`,
			expected: []Token{
				{Type: STRING_LIT, Lexeme: "hello", Line: 1},
				{Type: STRING_LIT, Lexeme: `a\"b`, Line: 1},
				{Type: STRING_LIT, Lexeme: `tab\t`, Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Comments And Lines",
			input: "x # ignored := 1\n\ny := 2 # also ignored\n",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 3},
				{Type: ASSIGN, Lexeme: ":=", Line: 3},
				{Type: INT_LIT, Lexeme: "2", Line: 3},
				{Type: EOF, Lexeme: "", Line: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tokens, tt.expected) {
				t.Errorf("Lex() mismatch\ngot:  %v\nwant: %v", tokens, tt.expected)
			}
		})
	}
}

func TestLex_InvalidCharacterRecovery(t *testing.T) {
	l := NewLexer("x := 1 $ 2;\ny @ := 3;")
	tokens := l.Tokens()
	errs := l.Errors()

	if len(errs) != 2 {
		t.Fatalf("expected 2 lexical errors, got %d: %v", len(errs), errs)
	}

	var first *Error
	if !errors.As(errs[0], &first) {
		t.Fatalf("expected *Error, got %T", errs[0])
	}
	if first.Kind != LexicalError || first.Line != 1 {
		t.Errorf("first error: got kind %v line %d, want LexicalError line 1", first.Kind, first.Line)
	}
	if want := `line 1: invalid character '$'`; first.Error() != want {
		t.Errorf("first error message: got %q, want %q", first.Error(), want)
	}

	var second *Error
	errors.As(errs[1], &second)
	if second.Line != 2 {
		t.Errorf("second error line: got %d, want 2", second.Line)
	}

	// Lexing continued past both bad characters.
	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	want := []TokenType{
		IDENTIFIER, ASSIGN, INT_LIT, INT_LIT, SEMICOLON,
		IDENTIFIER, ASSIGN, INT_LIT, SEMICOLON, EOF,
	}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("token types after recovery\ngot:  %v\nwant: %v", types, want)
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	tokens, err := Lex(`x := "abc`)
	if kind, ok := KindOf(err); !ok || kind != LexicalError {
		t.Fatalf("expected LexicalError, got %v", err)
	}
	// The quote is skipped, the rest is lexed as ordinary tokens.
	if tokens[2].Type != IDENTIFIER || tokens[2].Lexeme != "abc" {
		t.Errorf("expected identifier abc after skipped quote, got %v", tokens[2])
	}
}

func TestTokenKind(t *testing.T) {
	tests := []struct {
		tt   TokenType
		want TokenKind
	}{
		{BEGIN, KindKeyword},
		{RECORD, KindKeyword},
		{IDENTIFIER, KindIdentifier},
		{INT_LIT, KindLiteral},
		{STRING_LIT, KindLiteral},
		{SEMICOLON, KindPunctuation},
		{LBRACKET, KindPunctuation},
		{ASSIGN, KindOperator},
		{PLUS, KindOperator},
		{EQUAL, KindOperator},
		{EOF, KindEOF},
	}
	for _, tt := range tests {
		if got := tt.tt.Kind(); got != tt.want {
			t.Errorf("%s.Kind() = %s, want %s", tt.tt, got, tt.want)
		}
	}
}
