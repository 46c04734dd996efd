package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Primitive type names. User types are referred to by their declared name.
const (
	TypeInteger = "integer"
	TypeReal    = "real"
	TypeString  = "string"
	TypeVoid    = "void" // return type of a function without a "::" clause
)

func isPrimitive(name string) bool {
	return name == TypeInteger || name == TypeReal || name == TypeString
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	Pos() int
	String() string
}

// NumberLit is a numeric constant. IsReal is set when the source had a
// fractional part.
//
//	x := 3;    NumberLit{Int: 3}
//	x := 3.5;  NumberLit{Real: 3.5, IsReal: true}
type NumberLit struct {
	Int    int64
	Real   float64
	IsReal bool
	Line   int
}

func (*NumberLit) exprNode()  {}
func (n *NumberLit) Pos() int { return n.Line }
func (n *NumberLit) String() string {
	if !n.IsReal {
		return strconv.FormatInt(n.Int, 10)
	}
	s := strconv.FormatFloat(n.Real, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// StringLit is a string constant. Value is the payload as written in the
// source, escapes included.
type StringLit struct {
	Value string
	Line  int
}

func (*StringLit) exprNode()        {}
func (s *StringLit) Pos() int       { return s.Line }
func (s *StringLit) String() string { return `"` + s.Value + `"` }

// VarRef is a read of a named variable (or, in qualifier position, a type).
type VarRef struct {
	Name string
	Line int
}

func (*VarRef) exprNode()        {}
func (v *VarRef) Pos() int       { return v.Line }
func (v *VarRef) String() string { return v.Name }

// ArrayAccess is Base[Index]. Only a plain name can be indexed.
type ArrayAccess struct {
	Base  *VarRef
	Index Expr
	Line  int
}

func (*ArrayAccess) exprNode()        {}
func (a *ArrayAccess) Pos() int       { return a.Line }
func (a *ArrayAccess) String() string { return fmt.Sprintf("%s[%s]", a.Base, a.Index) }

// RecordAccess is Base.Field. Chains associate to the left:
//
//	a.b.c  ->  RecordAccess{Base: RecordAccess{Base: a, Field: b}, Field: c}
type RecordAccess struct {
	Base  Expr
	Field string
	Line  int
}

func (*RecordAccess) exprNode()        {}
func (r *RecordAccess) Pos() int       { return r.Line }
func (r *RecordAccess) String() string { return fmt.Sprintf("%s.%s", r.Base, r.Field) }

// BinaryOp is Left Op Right with Op one of PLUS, MINUS, STAR, SLASH.
type BinaryOp struct {
	Left  Expr
	Op    TokenType
	Right Expr
	Line  int
}

func (*BinaryOp) exprNode()  {}
func (b *BinaryOp) Pos() int { return b.Line }
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, opSymbol(b.Op), b.Right)
}

// FunctionCall is Name(Args...).
type FunctionCall struct {
	Name string
	Args []Expr
	Line int
}

func (*FunctionCall) exprNode()  {}
func (c *FunctionCall) Pos() int { return c.Line }
func (c *FunctionCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

func opSymbol(op TokenType) string {
	switch op {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	}
	return op.String()
}

//  Type definitions

// TypeDef is the right-hand side of a TypeDecl.
type TypeDef interface {
	typeDefNode()
	String() string
}

// ArrayTypeDef is array[Size] of Elem. Valid indices are 1..Size.
type ArrayTypeDef struct {
	Size int64
	Elem string
}

func (*ArrayTypeDef) typeDefNode()     {}
func (a *ArrayTypeDef) String() string { return fmt.Sprintf("array[%d] of %s", a.Size, a.Elem) }

// RecordTypeDef is record Fields... end. Field order is declaration order.
type RecordTypeDef struct {
	Fields []*Param
}

func (*RecordTypeDef) typeDefNode() {}
func (r *RecordTypeDef) String() string {
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = f.String() + ";"
	}
	return "record " + strings.Join(fields, " ") + " end"
}

// Field returns the first field called name.
func (r *RecordTypeDef) Field(name string) (*Param, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Param is a (name, type-name) pair: a function parameter or a record field.
type Param struct {
	Name string
	Type string
	Line int
}

func (p *Param) String() string { return p.Name + ": " + p.Type }

//  Statement nodes

// Stmt is implemented by every declaration and statement.
type Stmt interface {
	stmtNode()
	Pos() int
	String() string
}

// VarDecl is  a, b : type;
//
// For an inline definition such as  v: array[3] of integer;  Def holds the
// definition and Type is its rendered form, which names the anonymous type.
type VarDecl struct {
	Names []string
	Type  string
	Def   TypeDef
	Line  int
}

func (*VarDecl) stmtNode()  {}
func (d *VarDecl) Pos() int { return d.Line }
func (d *VarDecl) String() string {
	return fmt.Sprintf("VarDecl(%s: %s)", strings.Join(d.Names, ", "), d.Type)
}

// TypeDecl is  Name == Def;
type TypeDecl struct {
	Name string
	Def  TypeDef
	Line int
}

func (*TypeDecl) stmtNode()        {}
func (d *TypeDecl) Pos() int       { return d.Line }
func (d *TypeDecl) String() string { return fmt.Sprintf("TypeDecl(%s == %s)", d.Name, d.Def) }

// Assign is  Target := Value;
type Assign struct {
	Target Expr
	Value  Expr
	Line   int
}

func (*Assign) stmtNode()        {}
func (a *Assign) Pos() int       { return a.Line }
func (a *Assign) String() string { return fmt.Sprintf("Assign(%s := %s)", a.Target, a.Value) }

// Return is  return Value;
type Return struct {
	Value Expr
	Line  int
}

func (*Return) stmtNode()        {}
func (r *Return) Pos() int       { return r.Line }
func (r *Return) String() string { return fmt.Sprintf("Return(%s)", r.Value) }

// FunctionDecl is  def Name(Params) :: ReturnType var ... begin ... end;
// ReturnType is TypeVoid when the source has no "::" clause.
type FunctionDecl struct {
	Name       string
	Params     []*Param
	ReturnType string
	Body       *FunctionBody
	Line       int
}

func (*FunctionDecl) stmtNode()  {}
func (f *FunctionDecl) Pos() int { return f.Line }
func (f *FunctionDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("FunctionDecl(%s(%s) :: %s, locals=%d, stmts=%d)",
		f.Name, strings.Join(params, ", "), f.ReturnType, len(f.Body.Locals), len(f.Body.Stmts))
}

// FunctionBody holds the optional local var block and the statement list.
type FunctionBody struct {
	Locals []*VarDecl
	Stmts  []Stmt
}

// Program is the ordered top-level item list.
type Program struct {
	Stmts []Stmt
}

// Dump renders the tree one node per line, children indented.
func (p *Program) Dump() string {
	var sb strings.Builder
	dumpStmts(&sb, p.Stmts, 0)
	return sb.String()
}

func dumpStmts(sb *strings.Builder, stmts []Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range stmts {
		sb.WriteString(indent)
		sb.WriteString(s.String())
		sb.WriteByte('\n')
		if f, ok := s.(*FunctionDecl); ok {
			for _, d := range f.Body.Locals {
				sb.WriteString(indent + "  ")
				sb.WriteString(d.String())
				sb.WriteByte('\n')
			}
			dumpStmts(sb, f.Body.Stmts, depth+1)
		}
	}
}

//  Visitors

// ExprVisitor has one method per expression variant. Implementations are
// checked by the compiler, so adding a variant breaks every visitor that
// does not handle it.
type ExprVisitor[R any] interface {
	VisitNumberLit(*NumberLit) (R, error)
	VisitStringLit(*StringLit) (R, error)
	VisitVarRef(*VarRef) (R, error)
	VisitArrayAccess(*ArrayAccess) (R, error)
	VisitRecordAccess(*RecordAccess) (R, error)
	VisitBinaryOp(*BinaryOp) (R, error)
	VisitFunctionCall(*FunctionCall) (R, error)
}

// VisitExpr routes e to the matching method of v.
func VisitExpr[R any](v ExprVisitor[R], e Expr) (R, error) {
	switch n := e.(type) {
	case *NumberLit:
		return v.VisitNumberLit(n)
	case *StringLit:
		return v.VisitStringLit(n)
	case *VarRef:
		return v.VisitVarRef(n)
	case *ArrayAccess:
		return v.VisitArrayAccess(n)
	case *RecordAccess:
		return v.VisitRecordAccess(n)
	case *BinaryOp:
		return v.VisitBinaryOp(n)
	case *FunctionCall:
		return v.VisitFunctionCall(n)
	}
	var zero R
	return zero, fmt.Errorf("unknown expression node %T", e)
}

// StmtVisitor has one method per statement variant.
type StmtVisitor interface {
	VisitVarDecl(*VarDecl) error
	VisitTypeDecl(*TypeDecl) error
	VisitFunctionDecl(*FunctionDecl) error
	VisitAssign(*Assign) error
	VisitReturn(*Return) error
}

// VisitStmt routes s to the matching method of v.
func VisitStmt(v StmtVisitor, s Stmt) error {
	switch n := s.(type) {
	case *VarDecl:
		return v.VisitVarDecl(n)
	case *TypeDecl:
		return v.VisitTypeDecl(n)
	case *FunctionDecl:
		return v.VisitFunctionDecl(n)
	case *Assign:
		return v.VisitAssign(n)
	case *Return:
		return v.VisitReturn(n)
	}
	return fmt.Errorf("unknown statement node %T", s)
}

// VisitStmts visits stmts in order and stops at the first error.
func VisitStmts(v StmtVisitor, stmts []Stmt) error {
	for _, s := range stmts {
		if err := VisitStmt(v, s); err != nil {
			return err
		}
	}
	return nil
}
