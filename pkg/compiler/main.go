// Package compiler is the front end for Paston, a small Pascal-like language
// with integer, real and string scalars, arrays, records and functions.
//
// Pipeline: source → Lex → Parse → Check → Generate → three-address code
//
// Each phase is an independent value (Lexer, Parser, Checker, Generator) with
// no package-level mutable state, so separate compilations may run
// concurrently.
package compiler
