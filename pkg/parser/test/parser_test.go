package parser_test

import (
	"strings"
	"testing"

	"vesper/pkg/ast"
	"vesper/pkg/color"
	"vesper/pkg/lexer"
	"vesper/pkg/parser"
)

func parse(input string) ([]*ast.Function, []string) {
	p := parser.NewParser(lexer.NewLexer(input))
	return p.Parse(), p.Errors()
}

func TestFunctionSignatures(t *testing.T) {
	input := `
fn new_window() -> { return {title: "(no title)"} }
fn title(window: 'return) -> { return window.title }
fn title(mut window, val: 'window) { window.title = val }
`
	functions, errs := parse(input)
	if len(errs) > 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if len(functions) != 3 {
		t.Fatalf("Expected 3 functions, got %d", len(functions))
	}

	tests := []struct {
		key         string
		returns     bool
		constraints []ast.ArgConstraint
	}{
		{"new_window", true, []ast.ArgConstraint{}},
		{"title", true, []ast.ArgConstraint{ast.Returned}},
		{"title(mut,_)", false, []ast.ArgConstraint{ast.Default, ast.Arg(0)}},
	}

	for i, test := range tests {
		f := functions[i]
		if f.Key() != test.key {
			t.Errorf("Function %d: expected key %s, got %s", i, test.key, f.Key())
		}
		if f.Returns != test.returns {
			t.Errorf("Function %s: expected returns %v, got %v", test.key, test.returns, f.Returns)
		}
		got := f.ArgConstraints()
		if len(got) != len(test.constraints) {
			t.Errorf("Function %s: expected %d constraints, got %d", test.key, len(test.constraints), len(got))
			continue
		}
		for j := range got {
			if got[j] != test.constraints[j] {
				t.Errorf("Function %s arg %d: expected %s, got %s", test.key, j, test.constraints[j], got[j])
			}
		}
	}
}

func TestExpressionShapes(t *testing.T) {
	functions, errs := parse(`fn main() {
		x := 1 + 2 * 3
		o := {a: [1, 2], "b c": {}}
		o.a[0] = -x
		if x > 1 && !false { 1 } else if x == 0 { 2 } else { 3 }
		{ y := 1 }
		push(mut o, x)
		return
	}`)
	if len(errs) > 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	exprs := functions[0].Block.Expressions
	if len(exprs) != 7 {
		t.Fatalf("Expected 7 expressions, got %d", len(exprs))
	}

	decl, ok := exprs[0].(*ast.Declare)
	if !ok {
		t.Fatalf("Expected declaration, got %T", exprs[0])
	}
	sum, ok := decl.Value.(*ast.Binary)
	if !ok || sum.Op != lexer.PLUS {
		t.Fatalf("Expected + at the root, got %T", decl.Value)
	}
	if mul, ok := sum.Right.(*ast.Binary); !ok || mul.Op != lexer.MULT {
		t.Errorf("Expected * to bind tighter than +")
	}

	obj := exprs[1].(*ast.Declare).Value.(*ast.Object)
	if strings.Join(obj.Keys, ",") != "a,b c" {
		t.Errorf("Expected keys a,b c, got %v", obj.Keys)
	}

	assign, ok := exprs[2].(*ast.Assign)
	if !ok {
		t.Fatalf("Expected assignment, got %T", exprs[2])
	}
	if _, ok := assign.Target.(*ast.Index); !ok {
		t.Errorf("Expected index target, got %T", assign.Target)
	}
	if _, ok := assign.Value.(*ast.Unary); !ok {
		t.Errorf("Expected unary minus value, got %T", assign.Value)
	}

	cond, ok := exprs[3].(*ast.If)
	if !ok {
		t.Fatalf("Expected if, got %T", exprs[3])
	}
	if _, ok := cond.Else.(*ast.If); !ok {
		t.Errorf("Expected else-if chain, got %T", cond.Else)
	}

	if _, ok := exprs[4].(*ast.Block); !ok {
		t.Errorf("Expected block, got %T", exprs[4])
	}

	call, ok := exprs[5].(*ast.Call)
	if !ok {
		t.Fatalf("Expected call, got %T", exprs[5])
	}
	if call.Key() != "push(mut,_)" {
		t.Errorf("Expected key push(mut,_), got %s", call.Key())
	}

	if ret, ok := exprs[6].(*ast.Return); !ok || ret.Value != nil {
		t.Errorf("Expected bare return, got %#v", exprs[6])
	}
}

func TestSyntaxErrors(t *testing.T) {
	color.EnableColor(false)

	tests := []struct {
		input    string
		expected string
	}{
		{"fn main( {}", "Expected identifier"},
		{"fn main() { x := (1 + 2 }", "Missing closing parenthesis"},
		{"fn main() { a := [1, 2 }", "Missing closing bracket"},
		{"fn main() { 1 = 2 }", "Invalid assignment target"},
		{"fn f(x: y) {}", "Missing quote before lifetime"},
		{"fn main() { x := 1", "Unexpected end of input"},
		{"fn fn() {}", "Cannot use reserved keyword as identifier"},
		{"x := 1", "Expected function definition"},
		{"fn main() {}\nfn main() {}", "Duplicate function `main`, first defined on line 1"},
		{"fn main() { @ }", "Illegal character '@'"},
	}

	for _, test := range tests {
		_, errs := parse(test.input)
		if len(errs) == 0 {
			t.Errorf("Input %q: expected error %q, got none", test.input, test.expected)
			continue
		}
		if !strings.Contains(errs[0], test.expected) {
			t.Errorf("Input %q: expected error %q, got %q", test.input, test.expected, errs[0])
		}
	}
}

func TestRecoversAtNextFunction(t *testing.T) {
	color.EnableColor(false)

	functions, errs := parse(`
fn broken() { x := }
fn ok() { 1 }
`)
	if len(errs) != 1 {
		t.Errorf("Expected 1 error, got %v", errs)
	}
	if len(functions) != 1 || functions[0].Name != "ok" {
		t.Errorf("Expected only `ok` to be parsed, got %d functions", len(functions))
	}
}
