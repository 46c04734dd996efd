package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a diagnostic by the phase and rule that produced it.
type ErrorKind int

const (
	LexicalError ErrorKind = iota // invalid character; the lexer skips it and continues
	SyntaxError                   // unexpected token or premature end of input

	// Semantic errors. All of them abort analysis.
	DuplicateDeclaration
	UndefinedSymbol
	UndefinedType
	TypeMismatch
	ArityMismatch
	IndexOutOfBounds
	ReturnOutsideFunction
	NotAnArray
	NotARecord
	UnknownField
)

var errorKindNames = [...]string{
	LexicalError:          "LexicalError",
	SyntaxError:           "SyntaxError",
	DuplicateDeclaration:  "DuplicateDeclaration",
	UndefinedSymbol:       "UndefinedSymbol",
	UndefinedType:         "UndefinedType",
	TypeMismatch:          "TypeMismatch",
	ArityMismatch:         "ArityMismatch",
	IndexOutOfBounds:      "IndexOutOfBounds",
	ReturnOutsideFunction: "ReturnOutsideFunction",
	NotAnArray:            "NotAnArray",
	NotARecord:            "NotARecord",
	UnknownField:          "UnknownField",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a single diagnostic. Line is 0 when no source position is known.
type Error struct {
	Kind    ErrorKind
	Line    int
	Msg     string
	Snippet string // trimmed source line, if the phase had the source at hand
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Msg)
	if e.Snippet != "" {
		sb.WriteString("\n  |> ")
		sb.WriteString(e.Snippet)
	}
	return sb.String()
}

// IsSemantic reports whether e was raised by the checker.
func (e *Error) IsSemantic() bool {
	return e.Kind >= DuplicateDeclaration
}

func newError(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
