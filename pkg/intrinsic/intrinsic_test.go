package intrinsic_test

import (
	"slices"
	"testing"

	"vesper/pkg/ast"
	"vesper/pkg/intrinsic"
)

func TestStandardCatalog(t *testing.T) {
	catalog := intrinsic.Standard()

	tests := []struct {
		name    string
		arity   int
		returns bool
	}{
		{"random", 0, true},
		{"debug", 0, false},
		{"backtrace", 0, false},
		{"println", 1, false},
		{"print", 1, false},
		{"read_line", 0, true},
		{"read_number", 1, true},
		{"len", 1, true},
		{"push", 2, false},
		{"typeof", 1, true},
		{"to_string", 1, true},
		{"trim_right", 1, true},
		{"clone", 1, true},
		{"sleep", 1, false},
		{"load", 1, true},
		{"load_source_imports", 2, true},
		{"call", 3, false},
		{"call_ret", 3, true},
	}

	for _, test := range tests {
		d, ok := catalog[test.name]
		if !ok {
			t.Errorf("%s: missing from catalog", test.name)
			continue
		}
		if d.Name != test.name {
			t.Errorf("%s: descriptor name %q", test.name, d.Name)
		}
		if d.Arity() != test.arity {
			t.Errorf("%s: expected arity %d, got %d", test.name, test.arity, d.Arity())
		}
		if d.Returns != test.returns {
			t.Errorf("%s: expected returns %v, got %v", test.name, test.returns, d.Returns)
		}
	}

	for _, name := range intrinsic.UnaryNumeric {
		d := catalog[name]
		if d.Arity() != 1 || !d.Returns {
			t.Errorf("%s: expected unary value-producing descriptor, got %+v", name, d)
		}
	}
}

func TestPushConstraints(t *testing.T) {
	push := intrinsic.Standard()["push"]

	want := []ast.ArgConstraint{ast.Default, ast.Arg(0)}
	if !slices.Equal(push.Args, want) {
		t.Fatalf("expected %v, got %v", want, push.Args)
	}

	if got := push.MutableArgs(); !slices.Equal(got, []int{0}) {
		t.Errorf("expected container argument 0 to be mutable, got %v", got)
	}
}

func TestStandardReturnsCopy(t *testing.T) {
	a := intrinsic.Standard()
	delete(a, "len")

	if _, ok := intrinsic.Standard()["len"]; !ok {
		t.Error("catalog mutation leaked between calls")
	}
}
