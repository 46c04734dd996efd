package compiler

import (
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = item* EOF
//	item       = varBlock | typeBlock | funcDecl | assignment | returnStmt
//	varBlock   = "var" varDecl+
//	varDecl    = IDENTIFIER ("," IDENTIFIER)* ":" (typeDef | typeName) ";"
//	typeBlock  = "type" typeDecl+
//	typeDecl   = IDENTIFIER "==" typeDef ";" [";"]
//	typeDef    = "array" "[" INT_LIT "]" "of" typeName
//	           | "record" (IDENTIFIER ":" typeName ";")* "end"
//	typeName   = "integer" | "real" | "string" | IDENTIFIER
//	funcDecl   = "def" IDENTIFIER "(" params? ")" (":" ":" typeName)?
//	             ("var" varDecl+)? "begin" item* "end" ";"
//	params     = IDENTIFIER ":" typeName ("," IDENTIFIER ":" typeName)*
//	assignment = variable ":=" expression ";"
//	returnStmt = "return" expression ";"
//	expression = term (("+" | "-") term)*
//	term       = factor (("*" | "/") factor)*
//	factor     = INT_LIT | REAL_LIT | STRING_LIT | "(" expression ")"
//	           | IDENTIFIER "(" args? ")" | variable
//	variable   = IDENTIFIER ("[" expression "]")? ("." IDENTIFIER)*
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// fmtError builds a SyntaxError carrying the source line where tok appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	e := newError(SyntaxError, tok.Line, format, args...)
	lineIdx := tok.Line - 1 // Lines are 1-based
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		e.Snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return e
}

// unexpected reports tok, or a premature end of input when tok is EOF.
func (p *Parser) unexpected(tok Token) error {
	if tok.Type == EOF {
		return newError(SyntaxError, tok.Line, "unexpected end of input")
	}
	return p.fmtError(tok, "unexpected token %q (%s)", tok.Lexeme, tok.Type)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		line := 0
		if n := len(p.tokens); n > 0 {
			line = p.tokens[n-1].Line
		}
		return Token{Type: EOF, Line: line}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.unexpected(tok)
	}
	return p.advance(), nil
}

// parseTypeName accepts a primitive keyword (normalised to lower case) or a
// user type name.
func (p *Parser) parseTypeName() (string, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER, REAL, STRING:
		p.advance()
		return strings.ToLower(tok.Lexeme), nil
	case IDENTIFIER:
		p.advance()
		return tok.Lexeme, nil
	}
	return "", p.unexpected(tok)
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAdditive()
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tt := p.peek().Type
		if tt != PLUS && tt != MINUS {
			break
		}
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryOp{Left: expr, Op: op.Type, Right: right, Line: op.Line}
	}

	return expr, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		tt := p.peek().Type
		if tt != STAR && tt != SLASH {
			break
		}
		op := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryOp{Left: expr, Op: op.Type, Right: right, Line: op.Line}
	}

	return expr, nil
}

func (p *Parser) parseFactor() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INT_LIT:
		p.advance()
		v, err := tok.IntValue()
		if err != nil {
			return nil, p.fmtError(tok, "integer %q out of range", tok.Lexeme)
		}
		return &NumberLit{Int: v, Line: tok.Line}, nil
	case REAL_LIT:
		p.advance()
		v, err := tok.RealValue()
		if err != nil {
			return nil, p.fmtError(tok, "real %q out of range", tok.Lexeme)
		}
		return &NumberLit{Real: v, IsReal: true, Line: tok.Line}, nil
	case STRING_LIT:
		p.advance()
		return &StringLit{Value: tok.Lexeme, Line: tok.Line}, nil
	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case IDENTIFIER:
		if p.peekAt(1).Type == LPAREN {
			return p.parseCall()
		}
		return p.parseVariable()
	}
	return nil, p.unexpected(tok)
}

func (p *Parser) parseCall() (Expr, error) {
	nameTok := p.advance()
	p.advance() // (

	var args []Expr
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &FunctionCall{Name: nameTok.Lexeme, Args: args, Line: nameTok.Line}, nil
}

// parseVariable handles a plain name, name[index] and any number of
// trailing .field qualifiers.
func (p *Parser) parseVariable() (Expr, error) {
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	base := &VarRef{Name: nameTok.Lexeme, Line: nameTok.Line}
	var expr Expr = base

	if p.peek().Type == LBRACKET {
		p.advance() // [
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
		expr = &ArrayAccess{Base: base, Index: index, Line: nameTok.Line}
	}

	for p.peek().Type == DOT {
		dot := p.advance()
		fieldTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		expr = &RecordAccess{Base: expr, Field: fieldTok.Lexeme, Line: dot.Line}
	}
	return expr, nil
}

// parseVarDecl parses  a, b : type;
func (p *Parser) parseVarDecl() (*VarDecl, error) {
	first, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	names := []string{first.Lexeme}
	for p.peek().Type == COMMA {
		p.advance()
		tok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	decl := &VarDecl{Names: names, Line: first.Line}
	switch p.peek().Type {
	case ARRAY:
		decl.Def, err = p.parseArrayType()
	case RECORD:
		decl.Def, err = p.parseRecordType()
	default:
		decl.Type, err = p.parseTypeName()
	}
	if err != nil {
		return nil, err
	}
	if decl.Def != nil {
		decl.Type = decl.Def.String()
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// atVarDecl reports whether the upcoming tokens start "name :" or "name ,".
// An assignment target is followed by ":=", "[" or "." instead.
func (p *Parser) atVarDecl() bool {
	next := p.peekAt(1).Type
	return p.peek().Type == IDENTIFIER && (next == COLON || next == COMMA)
}

// parseVarBlock parses "var" followed by one or more declarations.
func (p *Parser) parseVarBlock() ([]*VarDecl, error) {
	if _, err := p.expect(VAR); err != nil {
		return nil, err
	}
	var decls []*VarDecl
	for {
		d, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
		if !p.atVarDecl() {
			return decls, nil
		}
	}
}

func (p *Parser) parseArrayType() (TypeDef, error) {
	p.advance() // array
	if _, err := p.expect(LBRACKET); err != nil {
		return nil, err
	}
	sizeTok, err := p.expect(INT_LIT)
	if err != nil {
		return nil, err
	}
	size, err := sizeTok.IntValue()
	if err != nil {
		return nil, p.fmtError(sizeTok, "array size %q out of range", sizeTok.Lexeme)
	}
	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	if _, err := p.expect(OF); err != nil {
		return nil, err
	}
	elem, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	return &ArrayTypeDef{Size: size, Elem: elem}, nil
}

func (p *Parser) parseRecordType() (TypeDef, error) {
	p.advance() // record
	def := &RecordTypeDef{}
	for p.peek().Type != END {
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		typeName, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, &Param{Name: nameTok.Lexeme, Type: typeName, Line: nameTok.Line})
	}
	p.advance() // end
	return def, nil
}

// parseTypeBlock parses "type" followed by one or more  Name == def;
func (p *Parser) parseTypeBlock() ([]Stmt, error) {
	p.advance() // type
	var stmts []Stmt
	for {
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(EQUALS); err != nil {
			return nil, err
		}

		var def TypeDef
		switch p.peek().Type {
		case ARRAY:
			def, err = p.parseArrayType()
		case RECORD:
			def, err = p.parseRecordType()
		default:
			err = p.unexpected(p.peek())
		}
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		// "end;;" after a record is tolerated.
		if _, ok := def.(*RecordTypeDef); ok && p.peek().Type == SEMICOLON {
			p.advance()
		}

		stmts = append(stmts, &TypeDecl{Name: nameTok.Lexeme, Def: def, Line: nameTok.Line})
		if !(p.peek().Type == IDENTIFIER && p.peekAt(1).Type == EQUALS) {
			return stmts, nil
		}
	}
}

func (p *Parser) parseFunctionDecl() (Stmt, error) {
	defTok := p.advance() // def
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var params []*Param
	if p.peek().Type != RPAREN {
		for {
			paramTok, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(COLON); err != nil {
				return nil, err
			}
			typeName, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			params = append(params, &Param{Name: paramTok.Lexeme, Type: typeName, Line: paramTok.Line})
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	retType := TypeVoid
	if p.peek().Type == COLON {
		p.advance()
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		if retType, err = p.parseTypeName(); err != nil {
			return nil, err
		}
	}

	body := &FunctionBody{}
	if p.peek().Type == VAR {
		if body.Locals, err = p.parseVarBlock(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(BEGIN); err != nil {
		return nil, err
	}
	for p.peek().Type != END {
		items, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		body.Stmts = append(body.Stmts, items...)
	}
	p.advance() // end
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	return &FunctionDecl{
		Name:       nameTok.Lexeme,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		Line:       defTok.Line,
	}, nil
}

func (p *Parser) parseAssignment() (Stmt, error) {
	target, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	assignTok, err := p.expect(ASSIGN)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Assign{Target: target, Value: value, Line: assignTok.Line}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	retTok := p.advance() // return
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Return{Value: value, Line: retTok.Line}, nil
}

// parseItem parses one top-level or body item. Blocks yield one node per
// declaration, so every caller receives a flat sequence.
func (p *Parser) parseItem() ([]Stmt, error) {
	switch tok := p.peek(); tok.Type {
	case VAR:
		decls, err := p.parseVarBlock()
		if err != nil {
			return nil, err
		}
		stmts := make([]Stmt, len(decls))
		for i, d := range decls {
			stmts[i] = d
		}
		return stmts, nil
	case TYPE:
		return p.parseTypeBlock()
	case DEF:
		s, err := p.parseFunctionDecl()
		if err != nil {
			return nil, err
		}
		return []Stmt{s}, nil
	case RETURN:
		s, err := p.parseReturn()
		if err != nil {
			return nil, err
		}
		return []Stmt{s}, nil
	case IDENTIFIER:
		s, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return []Stmt{s}, nil
	default:
		return nil, p.unexpected(tok)
	}
}

// ParseProgram parses items until EOF. The first syntax error aborts the
// parse and no tree is returned.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{}
	for p.peek().Type != EOF {
		items, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, items...)
	}
	return prog, nil
}

// Parse builds the AST for tokens. rawSource is only used to quote the
// offending line in diagnostics.
func Parse(tokens []Token, rawSource string) (*Program, error) {
	return NewParser(tokens, rawSource).ParseProgram()
}
