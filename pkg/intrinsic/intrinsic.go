// Package intrinsic holds the catalog of built-in operations: for each name, the
// passing mode of every argument and whether a value is produced. The checker
// consults it to validate call sites and the runtime to dispatch them.
package intrinsic

import "vesper/pkg/ast"

// Descriptor declares one intrinsic. Args is in source-argument order.
type Descriptor struct {
	Name    string
	Args    []ast.ArgConstraint
	Returns bool
}

// Arity is the number of arguments the intrinsic takes.
func (d Descriptor) Arity() int {
	return len(d.Args)
}

// MutableArgs returns the argument positions other arguments are bound to with Arg(i).
// A call site must pass those as `mut` so the callee can write through the alias.
func (d Descriptor) MutableArgs() []int {
	var out []int
	for _, c := range d.Args {
		if c.Kind == ast.ConstraintArg {
			out = append(out, c.Index)
		}
	}

	return out
}

var (
	none   = []ast.ArgConstraint{}
	unary  = []ast.ArgConstraint{ast.Default}
	binary = []ast.ArgConstraint{ast.Default, ast.Default}
	triple = []ast.ArgConstraint{ast.Default, ast.Default, ast.Default}
)

// UnaryNumeric lists the Number -> Number intrinsics.
var UnaryNumeric = []string{
	"sqrt", "sin", "asin", "cos", "acos", "tan", "atan",
	"exp", "ln", "log2", "log10", "round",
}

// Standard returns a fresh copy of the standard catalog.
func Standard() map[string]Descriptor {
	c := make(map[string]Descriptor)
	add := func(name string, args []ast.ArgConstraint, returns bool) {
		c[name] = Descriptor{Name: name, Args: args, Returns: returns}
	}

	add("random", none, true)
	add("debug", none, false)
	add("backtrace", none, false)

	for _, name := range UnaryNumeric {
		add(name, unary, true)
	}

	add("println", unary, false)
	add("print", unary, false)
	add("read_line", none, true)
	add("read_number", unary, true)

	add("len", unary, true)
	add("push", []ast.ArgConstraint{ast.Default, ast.Arg(0)}, false)

	add("typeof", unary, true)
	add("to_string", unary, true)
	add("trim_right", unary, true)
	add("clone", unary, true)

	add("sleep", unary, false)

	add("load", unary, true)
	add("load_source_imports", binary, true)
	add("call", triple, false)
	add("call_ret", triple, true)

	return c
}
