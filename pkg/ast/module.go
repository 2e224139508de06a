package ast

import (
	"maps"
	"slices"

	"vesper/pkg/lexer"
)

// ReturnLifetime is the lifetime name tying a parameter to the return value.
const ReturnLifetime = "return"

// Param is a declared function parameter.
type Param struct {
	Name     string
	Lifetime string // empty, ReturnLifetime, or another parameter's name
	Mutable  bool
	Position lexer.Position
}

// Function is a user-defined function.
type Function struct {
	Name     string
	Args     []Param
	Returns  bool
	Block    *Block
	Position lexer.Position
}

// Key is the function's name in a module's table, mangled by parameter mutability.
func (f *Function) Key() string {
	mut := make([]bool, len(f.Args))
	for i, a := range f.Args {
		mut[i] = a.Mutable
	}

	return mangle(f.Name, mut)
}

// ArgConstraints derives the passing mode of each parameter from its lifetime annotation.
// Unknown lifetime names yield Default; the checker reports them.
func (f *Function) ArgConstraints() []ArgConstraint {
	out := make([]ArgConstraint, len(f.Args))
	for i, a := range f.Args {
		switch a.Lifetime {
		case "":
			out[i] = Default
		case ReturnLifetime:
			out[i] = Returned
		default:
			out[i] = Default
			for j, other := range f.Args {
				if j != i && other.Name == a.Lifetime {
					out[i] = Arg(j)
					break
				}
			}
		}
	}

	return out
}

// ByReference reports whether parameter i receives the caller's alias rather than a copy.
func (f *Function) ByReference(i int) bool {
	return f.Args[i].Mutable || f.ArgConstraints()[i] != Default
}

// Module is a name-keyed table of functions.
type Module struct {
	Functions map[string]*Function
}

// NewModule creates an empty module
func NewModule() *Module {
	return &Module{Functions: make(map[string]*Function)}
}

// Register adds or replaces a function under its key.
func (m *Module) Register(f *Function) {
	m.Functions[f.Key()] = f
}

// Find looks a function up by key.
func (m *Module) Find(key string) (*Function, bool) {
	f, ok := m.Functions[key]
	return f, ok
}

// Keys returns the function keys in sorted order.
func (m *Module) Keys() []string {
	return slices.Sorted(maps.Keys(m.Functions))
}
