package ast

import (
	"fmt"
	"strings"

	"vesper/pkg/lexer"
)

// Expression is any node of the expression tree.
type Expression interface {
	Pos() lexer.Position
	expression()
}

type (
	// Number is a numeric literal.
	Number struct {
		Value    float64
		Position lexer.Position
	}

	// Text is a string literal, already unescaped.
	Text struct {
		Value    string
		Position lexer.Position
	}

	// Bool is a boolean literal.
	Bool struct {
		Value    bool
		Position lexer.Position
	}

	// Value splices an already evaluated runtime value into the tree.
	// The runtime owns the concrete type stored in V.
	Value struct {
		V        any
		Position lexer.Position
	}

	// Item names a local binding.
	Item struct {
		Name     string
		Position lexer.Position
	}

	// Object is an object literal; Keys and Values are parallel.
	Object struct {
		Keys     []string
		Values   []Expression
		Position lexer.Position
	}

	// Array is an array literal.
	Array struct {
		Items    []Expression
		Position lexer.Position
	}

	// Field is `target.name`.
	Field struct {
		Target   Expression
		Name     string
		Position lexer.Position
	}

	// Index is `target[index]`.
	Index struct {
		Target   Expression
		Index    Expression
		Position lexer.Position
	}

	// Call invokes a user function or an intrinsic.
	Call struct {
		Name     string
		Args     []Expression
		Mut      []bool // parallel to Args; true when passed as `mut x`
		Position lexer.Position
	}

	// Declare binds a new local: `name := value`.
	Declare struct {
		Name     string
		Value    Expression
		Position lexer.Position
	}

	// Assign overwrites existing storage: `target = value`.
	// Target is an *Item, *Field or *Index.
	Assign struct {
		Target   Expression
		Value    Expression
		Position lexer.Position
	}

	// Return leaves the current function; Value may be nil.
	Return struct {
		Value    Expression
		Position lexer.Position
	}

	// Block is a braced sequence; its value is the last expression's value.
	Block struct {
		Expressions []Expression
		Position    lexer.Position
	}

	// If is a conditional; Else may be nil, a *Block or a nested *If.
	If struct {
		Cond     Expression
		Then     *Block
		Else     Expression
		Position lexer.Position
	}

	// Binary applies an infix operator.
	Binary struct {
		Op       lexer.TokenType
		Left     Expression
		Right    Expression
		Position lexer.Position
	}

	// Unary applies a prefix operator (`-` or `!`).
	Unary struct {
		Op       lexer.TokenType
		Operand  Expression
		Position lexer.Position
	}
)

func (e *Number) Pos() lexer.Position  { return e.Position }
func (e *Text) Pos() lexer.Position    { return e.Position }
func (e *Bool) Pos() lexer.Position    { return e.Position }
func (e *Value) Pos() lexer.Position   { return e.Position }
func (e *Item) Pos() lexer.Position    { return e.Position }
func (e *Object) Pos() lexer.Position  { return e.Position }
func (e *Array) Pos() lexer.Position   { return e.Position }
func (e *Field) Pos() lexer.Position   { return e.Position }
func (e *Index) Pos() lexer.Position   { return e.Position }
func (e *Call) Pos() lexer.Position    { return e.Position }
func (e *Declare) Pos() lexer.Position { return e.Position }
func (e *Assign) Pos() lexer.Position  { return e.Position }
func (e *Return) Pos() lexer.Position  { return e.Position }
func (e *Block) Pos() lexer.Position   { return e.Position }
func (e *If) Pos() lexer.Position      { return e.Position }
func (e *Binary) Pos() lexer.Position  { return e.Position }
func (e *Unary) Pos() lexer.Position   { return e.Position }

func (*Number) expression()  {}
func (*Text) expression()    {}
func (*Bool) expression()    {}
func (*Value) expression()   {}
func (*Item) expression()    {}
func (*Object) expression()  {}
func (*Array) expression()   {}
func (*Field) expression()   {}
func (*Index) expression()   {}
func (*Call) expression()    {}
func (*Declare) expression() {}
func (*Assign) expression()  {}
func (*Return) expression()  {}
func (*Block) expression()   {}
func (*If) expression()      {}
func (*Binary) expression()  {}
func (*Unary) expression()   {}

// Key returns the name the call resolves to in a module's function table.
func (c *Call) Key() string {
	return mangle(c.Name, c.Mut)
}

// IsMut reports whether argument i was passed as `mut`.
func (c *Call) IsMut(i int) bool {
	return i < len(c.Mut) && c.Mut[i]
}

// mangle appends the mutability pattern to a name when any slot is mutable,
// e.g. title(mut,_). Overloads differing only by mutability get distinct keys.
func mangle(name string, mut []bool) string {
	hasMut := false
	for _, m := range mut {
		hasMut = hasMut || m
	}
	if !hasMut {
		return name
	}

	parts := make([]string, len(mut))
	for i, m := range mut {
		if m {
			parts[i] = "mut"
		} else {
			parts[i] = "_"
		}
	}

	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ","))
}
