package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func generate(t *testing.T, src string) []string {
	t.Helper()
	checked, err := checkSource(t, src)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	code, err := Generate(checked)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	var lines []string
	for _, in := range code {
		lines = append(lines, in.String())
	}
	return lines
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Declarations Only",
			input:    "type V == array[2] of integer; var v: V;",
			expected: nil,
		},
		{
			name:     "Binary Into Temp",
			input:    "var x: integer; x := 2 + 3;",
			expected: []string{"t0 := 2 + 3", "x := t0"},
		},
		{
			name:     "Plain Copy",
			input:    "var x, y: integer; x := y;",
			expected: []string{"x := y"},
		},
		{
			name:     "Precedence Order",
			input:    "var x, a, b, c: integer; x := a + b * c;",
			expected: []string{"t0 := b * c", "t1 := a + t0", "x := t1"},
		},
		{
			name:     "Left To Right",
			input:    "var x: integer; x := 8 - 4 - 2;",
			expected: []string{"t0 := 8 - 4", "t1 := t0 - 2", "x := t1"},
		},
		{
			name:     "Real Literals",
			input:    "var r: real; r := 2.0 / 4.5;",
			expected: []string{"t0 := 2.0 / 4.5", "r := t0"},
		},
		{
			name:     "String Literal",
			input:    `var s: string; s := "hi";`,
			expected: []string{`s := "hi"`},
		},
		{
			name:     "Record Field Target",
			input:    "type P == record a: integer; end; var p: P; p.a := 1;",
			expected: []string{"p.a := 1"},
		},
		{
			name:     "Array Element Target",
			input:    "type V == array[3] of integer; var v: V; i: integer; v[i] := v[1] * 2;",
			expected: []string{"t0 := v[1] * 2", "v[i] := t0"},
		},
		{
			name:     "Computed Index Lowered First",
			input:    "type V == array[3] of integer; var v: V; i: integer; v[i + 1] := 0;",
			expected: []string{"t0 := i + 1", "v[t0] := 0"},
		},
		{
			name:     "Inline Array",
			input:    "var v: array[3] of integer; v[3] := v[1] + v[2];",
			expected: []string{"t0 := v[1] + v[2]", "v[3] := t0"},
		},
		{
			name: "Array Of Records",
			input: `
type P == record a: integer; end;
type L == array[2] of P;
var l: L;
l[2].a := 7;`,
			expected: []string{"l[2].a := 7"},
		},
		{
			name: "Call Params Reversed",
			input: `
def f(a: integer, b: real, c: string) :: integer
begin
	return a;
end;
var x: integer;
x := f(1, 2.5, "s");`,
			expected: []string{
				"return a",
				`param "s"`,
				"param 2.5",
				"param 1",
				"t0 := call f, 3",
				"x := t0",
			},
		},
		{
			name: "Call Arguments Evaluated Before Params",
			input: `
def g(a: integer, b: integer) :: integer
begin
	return a;
end;
var x: integer;
x := g(x + 1, x * 2);`,
			expected: []string{
				"return a",
				"t0 := x + 1",
				"t1 := x * 2",
				"param t1",
				"param t0",
				"t2 := call g, 2",
				"x := t2",
			},
		},
		{
			name: "Zero Argument Call",
			input: `
def one() :: integer
begin
	return 1;
end;
var x: integer;
x := one() + 1;`,
			expected: []string{"return 1", "t0 := call one, 0", "t1 := t0 + 1", "x := t1"},
		},
		{
			name: "Temps Shared Across Functions",
			input: `
def f(n: integer) :: integer
begin
	return n * 2;
end;
def g(n: integer) :: integer
begin
	return n + 1;
end;
var x: integer;
x := 1 + 1;`,
			expected: []string{"t0 := n * 2", "return t0", "t1 := n + 1", "return t1", "t2 := 1 + 1", "x := t2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generate(t, tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Generate() mismatch\ngot:  %q\nwant: %q", got, tt.expected)
			}
		})
	}
}

func TestInstrString(t *testing.T) {
	tests := []struct {
		in   Instr
		want string
	}{
		{Instr{Op: OpAdd, Arg1: "a", Arg2: "b", Dest: "t0"}, "t0 := a + b"},
		{Instr{Op: OpDiv, Arg1: "t0", Arg2: "2", Dest: "t1"}, "t1 := t0 / 2"},
		{Instr{Op: OpCopy, Arg1: "t1", Dest: "v[i]"}, "v[i] := t1"},
		{Instr{Op: OpParam, Arg1: "x"}, "param x"},
		{Instr{Op: OpCall, Arg1: "f", Arg2: "2", Dest: "t2"}, "t2 := call f, 2"},
		{Instr{Op: OpReturn, Arg1: "t2"}, "return t2"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListing(t *testing.T) {
	code := []Instr{
		{Op: OpAdd, Arg1: "2", Arg2: "3", Dest: "t0"},
		{Op: OpCopy, Arg1: "t0", Dest: "x"},
	}
	want := "t0 := 2 + 3\nx := t0\n"
	if got := Listing(code); got != want {
		t.Errorf("Listing() = %q, want %q", got, want)
	}
	if got := Listing(nil); got != "" {
		t.Errorf("Listing(nil) = %q, want empty", got)
	}
}

func TestGenerator_TempsAreUnique(t *testing.T) {
	lines := generate(t, "var x: integer; x := 1 + 2 + 3 + 4 + 5;")
	seen := map[string]bool{}
	for _, l := range lines {
		dest := strings.SplitN(l, " := ", 2)[0]
		if strings.HasPrefix(dest, "t") {
			if seen[dest] {
				t.Errorf("temporary %s assigned twice", dest)
			}
			seen[dest] = true
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 temporaries, got %d: %v", len(seen), lines)
	}
}
