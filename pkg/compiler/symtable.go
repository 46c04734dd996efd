package compiler

import (
	"fmt"
	"sort"
	"strings"
)

type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymType
	SymFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "var"
	case SymType:
		return "type"
	case SymFunction:
		return "function"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one binding in a scope. Which fields are meaningful depends on
// Kind: Type for variables, Def for types (and for variables declared with
// an inline array or record), Params and Return for functions.
type Symbol struct {
	Kind SymbolKind
	Name string
	Line int

	Type string

	Def TypeDef

	Params []string
	Return string
}

func (s Symbol) String() string {
	switch s.Kind {
	case SymVariable:
		return fmt.Sprintf("var %s: %s", s.Name, s.Type)
	case SymType:
		return fmt.Sprintf("type %s == %s", s.Name, s.Def)
	default:
		return fmt.Sprintf("def %s(%s) :: %s", s.Name, strings.Join(s.Params, ", "), s.Return)
	}
}

// SymbolTable is a stack of scopes, innermost last. The global scope is
// created by NewSymbolTable and is never popped.
type SymbolTable struct {
	scopes []map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []map[string]Symbol{make(map[string]Symbol)}}
}

func (s *SymbolTable) EnterScope() {
	s.scopes = append(s.scopes, make(map[string]Symbol))
}

// ExitScope pops the innermost scope. The global scope stays.
func (s *SymbolTable) ExitScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Depth is the number of open scopes, including the global one.
func (s *SymbolTable) Depth() int {
	return len(s.scopes)
}

// Define binds sym.Name in the innermost scope. Shadowing an outer binding
// is allowed; redefining a name in the same scope is not.
func (s *SymbolTable) Define(sym Symbol) error {
	current := s.scopes[len(s.scopes)-1]
	if prev, ok := current[sym.Name]; ok {
		return newError(DuplicateDeclaration, sym.Line,
			"symbol %q already declared in this scope (line %d)", sym.Name, prev.Line)
	}
	current[sym.Name] = sym
	return nil
}

// Lookup searches from the innermost scope outwards.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if sym, ok := s.scopes[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupCurrent checks only the innermost scope.
func (s *SymbolTable) LookupCurrent(name string) (Symbol, bool) {
	sym, ok := s.scopes[len(s.scopes)-1][name]
	return sym, ok
}

// String returns a deterministically ordered dump of the open scopes.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	for i, scope := range s.scopes {
		if i == 0 {
			sb.WriteString("Globals:")
		} else {
			fmt.Fprintf(&sb, "Scope %d:", i)
		}
		if len(scope) == 0 {
			sb.WriteString(" (empty)\n")
			continue
		}
		sb.WriteByte('\n')
		names := make([]string, 0, len(scope))
		for name := range scope {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s  %s\n", name, scope[name])
		}
	}
	return sb.String()
}
