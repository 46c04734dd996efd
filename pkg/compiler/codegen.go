package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a three-address-code opcode.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpCopy
	OpParam
	OpCall
	OpReturn
)

var opNames = [...]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpCopy:   ":=",
	OpParam:  "param",
	OpCall:   "call",
	OpReturn: "return",
}

func (op Op) String() string {
	if int(op) >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

func arithOp(tt TokenType) (Op, bool) {
	switch tt {
	case PLUS:
		return OpAdd, true
	case MINUS:
		return OpSub, true
	case STAR:
		return OpMul, true
	case SLASH:
		return OpDiv, true
	}
	return 0, false
}

// Instr is one TAC instruction. Operands are location strings: a literal,
// a name, a temporary (t0, t1, ...) or a composite such as v[i] or p.f.
// For OpCall, Arg1 is the callee and Arg2 the argument count.
type Instr struct {
	Op   Op
	Arg1 string
	Arg2 string
	Dest string
}

func (in Instr) String() string {
	switch in.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return fmt.Sprintf("%s := %s %s %s", in.Dest, in.Arg1, in.Op, in.Arg2)
	case OpCopy:
		return fmt.Sprintf("%s := %s", in.Dest, in.Arg1)
	case OpReturn:
		return "return " + in.Arg1
	case OpParam:
		return "param " + in.Arg1
	case OpCall:
		return fmt.Sprintf("%s := call %s, %s", in.Dest, in.Arg1, in.Arg2)
	}
	return fmt.Sprintf("%s %s %s %s", in.Op, in.Arg1, in.Arg2, in.Dest)
}

// Listing renders code one instruction per line.
func Listing(code []Instr) string {
	var sb strings.Builder
	for _, in := range code {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Generator lowers a checked program to TAC. One temporary counter runs
// across the whole program, function bodies included.
type Generator struct {
	code     []Instr
	nextTemp int
}

var (
	_ ExprVisitor[string] = (*Generator)(nil)
	_ StmtVisitor         = (*Generator)(nil)
)

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) newTemp() string {
	t := "t" + strconv.Itoa(g.nextTemp)
	g.nextTemp++
	return t
}

func (g *Generator) emit(in Instr) {
	g.code = append(g.code, in)
}

// Generate appends the instructions for c to the generator's output and
// returns the full listing so far.
func (g *Generator) Generate(c *Checked) ([]Instr, error) {
	if err := VisitStmts(g, c.Program.Stmts); err != nil {
		return nil, err
	}
	return g.code, nil
}

// Generate lowers c with a fresh Generator.
func Generate(c *Checked) ([]Instr, error) {
	return NewGenerator().Generate(c)
}

func (g *Generator) loc(e Expr) (string, error) {
	return VisitExpr[string](g, e)
}

//  Statements

// Declarations produce no code.
func (g *Generator) VisitVarDecl(*VarDecl) error   { return nil }
func (g *Generator) VisitTypeDecl(*TypeDecl) error { return nil }

func (g *Generator) VisitFunctionDecl(f *FunctionDecl) error {
	return VisitStmts(g, f.Body.Stmts)
}

func (g *Generator) VisitAssign(a *Assign) error {
	src, err := g.loc(a.Value)
	if err != nil {
		return err
	}
	dest, err := g.loc(a.Target)
	if err != nil {
		return err
	}
	g.emit(Instr{Op: OpCopy, Arg1: src, Dest: dest})
	return nil
}

func (g *Generator) VisitReturn(r *Return) error {
	src, err := g.loc(r.Value)
	if err != nil {
		return err
	}
	g.emit(Instr{Op: OpReturn, Arg1: src})
	return nil
}

//  Expressions

func (g *Generator) VisitNumberLit(n *NumberLit) (string, error) { return n.String(), nil }
func (g *Generator) VisitStringLit(s *StringLit) (string, error) { return s.String(), nil }
func (g *Generator) VisitVarRef(v *VarRef) (string, error)       { return v.Name, nil }

func (g *Generator) VisitArrayAccess(a *ArrayAccess) (string, error) {
	index, err := g.loc(a.Index)
	if err != nil {
		return "", err
	}
	return a.Base.Name + "[" + index + "]", nil
}

func (g *Generator) VisitRecordAccess(r *RecordAccess) (string, error) {
	base, err := g.loc(r.Base)
	if err != nil {
		return "", err
	}
	return base + "." + r.Field, nil
}

func (g *Generator) VisitBinaryOp(b *BinaryOp) (string, error) {
	op, ok := arithOp(b.Op)
	if !ok {
		return "", fmt.Errorf("line %d: no TAC opcode for operator %s", b.Line, b.Op)
	}
	left, err := g.loc(b.Left)
	if err != nil {
		return "", err
	}
	right, err := g.loc(b.Right)
	if err != nil {
		return "", err
	}
	dest := g.newTemp()
	g.emit(Instr{Op: op, Arg1: left, Arg2: right, Dest: dest})
	return dest, nil
}

func (g *Generator) VisitFunctionCall(c *FunctionCall) (string, error) {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		loc, err := g.loc(a)
		if err != nil {
			return "", err
		}
		args[i] = loc
	}
	for i := len(args) - 1; i >= 0; i-- {
		g.emit(Instr{Op: OpParam, Arg1: args[i]})
	}
	dest := g.newTemp()
	g.emit(Instr{Op: OpCall, Arg1: c.Name, Arg2: strconv.Itoa(len(args)), Dest: dest})
	return dest, nil
}
