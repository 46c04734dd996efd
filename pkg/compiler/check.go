package compiler

// Checked is a program that passed semantic analysis, together with the
// resolved type of every expression in it. It is the only input the TAC
// generator accepts.
type Checked struct {
	Program *Program
	Types   map[Expr]string
	Globals *SymbolTable
}

// TypeOf returns the resolved type name of e.
func (c *Checked) TypeOf(e Expr) (string, bool) {
	t, ok := c.Types[e]
	return t, ok
}

// Checker walks an AST with a scope stack and validates declarations,
// symbol references and types in a single forward pass. It stops at the
// first violation.
type Checker struct {
	syms  *SymbolTable
	types map[Expr]string
	anon  map[string]TypeDef // inline variable types, keyed by rendered form
	funcs []Symbol           // enclosing function declarations, innermost last
}

var (
	_ ExprVisitor[string] = (*Checker)(nil)
	_ StmtVisitor         = (*Checker)(nil)
)

func NewChecker() *Checker {
	return &Checker{}
}

// Check validates prog. Each call starts from an empty global scope.
func (c *Checker) Check(prog *Program) (*Checked, error) {
	c.syms = NewSymbolTable()
	c.types = make(map[Expr]string)
	c.anon = make(map[string]TypeDef)
	c.funcs = nil

	if err := VisitStmts(c, prog.Stmts); err != nil {
		return nil, err
	}
	return &Checked{Program: prog, Types: c.types, Globals: c.syms}, nil
}

// Check validates prog with a fresh Checker.
func Check(prog *Program) (*Checked, error) {
	return NewChecker().Check(prog)
}

// resolveType accepts a primitive or a type declared earlier in scope.
func (c *Checker) resolveType(name string, line int) error {
	if isPrimitive(name) {
		return nil
	}
	if sym, ok := c.syms.Lookup(name); ok && sym.Kind == SymType {
		return nil
	}
	return newError(UndefinedType, line, "type %q not defined", name)
}

// typeDef finds the definition behind a type name: a declared type in
// scope, or an inline one attached to a variable.
func (c *Checker) typeDef(typeName string) TypeDef {
	if sym, ok := c.syms.Lookup(typeName); ok && sym.Kind == SymType {
		return sym.Def
	}
	return c.anon[typeName]
}

func (c *Checker) arrayDef(typeName string) (*ArrayTypeDef, bool) {
	def, ok := c.typeDef(typeName).(*ArrayTypeDef)
	return def, ok
}

func (c *Checker) recordDef(typeName string) (*RecordTypeDef, bool) {
	def, ok := c.typeDef(typeName).(*RecordTypeDef)
	return def, ok
}

// checkTypeDef requires every component of def to name a known type.
func (c *Checker) checkTypeDef(def TypeDef, line int) error {
	switch def := def.(type) {
	case *ArrayTypeDef:
		return c.resolveType(def.Elem, line)
	case *RecordTypeDef:
		for _, f := range def.Fields {
			if err := c.resolveType(f.Type, f.Line); err != nil {
				return newError(UndefinedType, f.Line, "type %q used by field %q not defined", f.Type, f.Name)
			}
		}
	}
	return nil
}

// expr types e and records the result.
func (c *Checker) expr(e Expr) (string, error) {
	t, err := VisitExpr[string](c, e)
	if err != nil {
		return "", err
	}
	c.types[e] = t
	return t, nil
}

//  Declarations and statements

func (c *Checker) VisitTypeDecl(d *TypeDecl) error {
	if err := c.checkTypeDef(d.Def, d.Line); err != nil {
		return err
	}
	return c.syms.Define(Symbol{Kind: SymType, Name: d.Name, Line: d.Line, Def: d.Def})
}

func (c *Checker) VisitVarDecl(d *VarDecl) error {
	if d.Def != nil {
		if err := c.checkTypeDef(d.Def, d.Line); err != nil {
			return err
		}
		c.anon[d.Type] = d.Def
	} else if err := c.resolveType(d.Type, d.Line); err != nil {
		return err
	}
	for _, name := range d.Names {
		if err := c.syms.Define(Symbol{Kind: SymVariable, Name: name, Line: d.Line, Type: d.Type, Def: d.Def}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) VisitFunctionDecl(f *FunctionDecl) error {
	fn := Symbol{Kind: SymFunction, Name: f.Name, Line: f.Line, Return: f.ReturnType}
	for _, p := range f.Params {
		if err := c.resolveType(p.Type, p.Line); err != nil {
			return err
		}
		fn.Params = append(fn.Params, p.Type)
	}
	if f.ReturnType != TypeVoid {
		if err := c.resolveType(f.ReturnType, f.Line); err != nil {
			return err
		}
	}

	// Bound before the body so the function can call itself.
	if err := c.syms.Define(fn); err != nil {
		return err
	}

	c.funcs = append(c.funcs, fn)
	c.syms.EnterScope()

	for _, p := range f.Params {
		if err := c.syms.Define(Symbol{Kind: SymVariable, Name: p.Name, Line: p.Line, Type: p.Type}); err != nil {
			return err
		}
	}
	for _, d := range f.Body.Locals {
		if err := c.VisitVarDecl(d); err != nil {
			return err
		}
	}
	if err := VisitStmts(c, f.Body.Stmts); err != nil {
		return err
	}

	c.syms.ExitScope()
	c.funcs = c.funcs[:len(c.funcs)-1]
	return nil
}

// assignable requires the root of an assignment target to be a variable.
func (c *Checker) assignable(e Expr) error {
	switch n := e.(type) {
	case *VarRef:
		sym, ok := c.syms.Lookup(n.Name)
		if !ok {
			return newError(UndefinedSymbol, n.Line, "symbol %q not declared", n.Name)
		}
		if sym.Kind != SymVariable {
			return newError(UndefinedSymbol, n.Line, "cannot assign to %s %q", sym.Kind, n.Name)
		}
	case *RecordAccess:
		return c.assignable(n.Base)
	}
	return nil
}

func (c *Checker) VisitAssign(a *Assign) error {
	valueType, err := c.expr(a.Value)
	if err != nil {
		return err
	}
	if err := c.assignable(a.Target); err != nil {
		return err
	}
	targetType, err := c.expr(a.Target)
	if err != nil {
		return err
	}
	if valueType != targetType {
		return newError(TypeMismatch, a.Line, "cannot assign %q to a location of type %q", valueType, targetType)
	}
	return nil
}

func (c *Checker) VisitReturn(r *Return) error {
	if len(c.funcs) == 0 {
		return newError(ReturnOutsideFunction, r.Line, "return outside of a function")
	}
	fn := c.funcs[len(c.funcs)-1]
	got, err := c.expr(r.Value)
	if err != nil {
		return err
	}
	if got != fn.Return {
		return newError(TypeMismatch, r.Line, "function %q returns %q, got %q", fn.Name, fn.Return, got)
	}
	return nil
}

//  Expressions

func (c *Checker) VisitNumberLit(n *NumberLit) (string, error) {
	if n.IsReal {
		return TypeReal, nil
	}
	return TypeInteger, nil
}

func (c *Checker) VisitStringLit(*StringLit) (string, error) {
	return TypeString, nil
}

func (c *Checker) VisitVarRef(v *VarRef) (string, error) {
	sym, ok := c.syms.Lookup(v.Name)
	if !ok {
		return "", newError(UndefinedSymbol, v.Line, "symbol %q not declared", v.Name)
	}
	if sym.Kind != SymVariable {
		return "", newError(UndefinedSymbol, v.Line, "%s %q is not usable as a value", sym.Kind, v.Name)
	}
	return sym.Type, nil
}

func (c *Checker) VisitArrayAccess(a *ArrayAccess) (string, error) {
	sym, ok := c.syms.Lookup(a.Base.Name)
	if !ok || sym.Kind != SymVariable {
		return "", newError(UndefinedSymbol, a.Line, "%q is not a declared variable", a.Base.Name)
	}
	c.types[a.Base] = sym.Type

	def, ok := c.arrayDef(sym.Type)
	if !ok {
		return "", newError(NotAnArray, a.Line, "variable %q of type %q is not an array", a.Base.Name, sym.Type)
	}

	indexType, err := c.expr(a.Index)
	if err != nil {
		return "", err
	}
	if indexType != TypeInteger {
		return "", newError(TypeMismatch, a.Line, "array index must be %q, got %q", TypeInteger, indexType)
	}
	if lit, ok := a.Index.(*NumberLit); ok {
		if lit.Int < 1 || lit.Int > def.Size {
			return "", newError(IndexOutOfBounds, a.Line,
				"index %d out of bounds for array %q (1 to %d)", lit.Int, a.Base.Name, def.Size)
		}
	}
	return def.Elem, nil
}

// qualifier types the base of a field access. A bare type name stands for
// itself there, so P.a reads field a of record type P.
func (c *Checker) qualifier(base Expr) (string, error) {
	if v, ok := base.(*VarRef); ok {
		if sym, ok := c.syms.Lookup(v.Name); ok && sym.Kind == SymType {
			c.types[v] = v.Name
			return v.Name, nil
		}
	}
	return c.expr(base)
}

func (c *Checker) VisitRecordAccess(r *RecordAccess) (string, error) {
	baseType, err := c.qualifier(r.Base)
	if err != nil {
		return "", err
	}
	def, ok := c.recordDef(baseType)
	if !ok {
		return "", newError(NotARecord, r.Line, "field access on %q, which is not a record type", baseType)
	}
	field, ok := def.Field(r.Field)
	if !ok {
		return "", newError(UnknownField, r.Line, "field %q does not exist in type %q", r.Field, baseType)
	}
	return field.Type, nil
}

func (c *Checker) VisitBinaryOp(b *BinaryOp) (string, error) {
	left, err := c.expr(b.Left)
	if err != nil {
		return "", err
	}
	right, err := c.expr(b.Right)
	if err != nil {
		return "", err
	}
	numeric := func(t string) bool { return t == TypeInteger || t == TypeReal }
	if !numeric(left) || !numeric(right) {
		return "", newError(TypeMismatch, b.Line, "operator '%s' not supported between %q and %q", opSymbol(b.Op), left, right)
	}
	if left == TypeReal || right == TypeReal {
		return TypeReal, nil
	}
	return TypeInteger, nil
}

func (c *Checker) VisitFunctionCall(call *FunctionCall) (string, error) {
	sym, ok := c.syms.Lookup(call.Name)
	if !ok || sym.Kind != SymFunction {
		return "", newError(UndefinedSymbol, call.Line, "function %q not declared", call.Name)
	}
	if len(call.Args) != len(sym.Params) {
		return "", newError(ArityMismatch, call.Line,
			"function %q expects %d arguments, got %d", call.Name, len(sym.Params), len(call.Args))
	}
	for i, arg := range call.Args {
		got, err := c.expr(arg)
		if err != nil {
			return "", err
		}
		if got != sym.Params[i] {
			return "", newError(TypeMismatch, arg.Pos(),
				"argument %d of %q must be %q, got %q", i+1, call.Name, sym.Params[i], got)
		}
	}
	return sym.Return, nil
}
