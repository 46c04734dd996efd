package compiler

import (
	"fmt"
)

// Result carries the output of every phase of a successful compilation.
type Result struct {
	Tokens    []Token
	LexErrors []error // characters the lexer skipped; compilation still proceeds
	Program   *Program
	Checked   *Checked
	Code      []Instr
}

// Compile runs the whole pipeline on src. Lexical errors are recoverable and
// come back in Result.LexErrors; the first syntax or semantic error stops the
// run and is returned wrapped, so errors.As still finds the *Error.
func Compile(src string) (*Result, error) {
	lex := NewLexer(src)
	res := &Result{Tokens: lex.Tokens(), LexErrors: lex.Errors()}

	prog, err := Parse(res.Tokens, src)
	if err != nil {
		return res, fmt.Errorf("parse: %w", err)
	}
	res.Program = prog

	checked, err := Check(prog)
	if err != nil {
		return res, fmt.Errorf("check: %w", err)
	}
	res.Checked = checked

	code, err := Generate(checked)
	if err != nil {
		return res, fmt.Errorf("generate: %w", err)
	}
	res.Code = code

	return res, nil
}
