// Package checker validates a loaded module before it runs: every call site must
// resolve to a function or intrinsic with matching arity and mutability, locals
// must be declared before use, and only `mut` parameters may be written through.
package checker

import (
	"errors"
	"fmt"

	"vesper/pkg/ast"
	"vesper/pkg/color"
	"vesper/pkg/intrinsic"
	"vesper/pkg/lexer"
)

type checker struct {
	module  *ast.Module
	catalog map[string]intrinsic.Descriptor
	fn      *ast.Function
	scopes  []map[string]bool
	params  map[string]ast.Param
	errs    []error
}

// Check validates every function of m against m itself and the intrinsic catalog.
// Functions are visited in key order so diagnostics are stable.
func Check(m *ast.Module, catalog map[string]intrinsic.Descriptor) error {
	c := &checker{module: m, catalog: catalog}

	for _, key := range m.Keys() {
		c.function(m.Functions[key])
	}

	return errors.Join(c.errs...)
}

func (c *checker) errorf(pos lexer.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.fn != nil {
		msg += " in `" + c.fn.Name + "`"
	}
	c.errs = append(c.errs, errors.New(color.RedText(msg)+" at "+
		color.YellowText(fmt.Sprintf("Line: %d, Column %d", pos.Line, pos.Column))))
}

func (c *checker) function(f *ast.Function) {
	c.fn = f
	c.params = make(map[string]ast.Param, len(f.Args))
	c.scopes = []map[string]bool{{}}

	for _, p := range f.Args {
		if _, dup := c.params[p.Name]; dup {
			c.errorf(p.Position, "Duplicate argument `%s`", p.Name)
		}
		c.params[p.Name] = p
		c.scopes[0][p.Name] = true
	}

	for _, p := range f.Args {
		switch p.Lifetime {
		case "", ast.ReturnLifetime:
		default:
			other, ok := c.params[p.Lifetime]
			if !ok || other.Name == p.Name {
				c.errorf(p.Position, "Could not find argument `%s` named by lifetime of `%s`", p.Lifetime, p.Name)
			}
		}
	}

	c.block(f.Block)
	c.fn = nil
}

func (c *checker) push() { c.scopes = append(c.scopes, map[string]bool{}) }
func (c *checker) pop()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *checker) declared(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i][name] {
			return true
		}
	}

	return false
}

// immutableParam reports whether name refers to a parameter not declared `mut`
// and not shadowed by a later declaration.
func (c *checker) immutableParam(name string) bool {
	for i := len(c.scopes) - 1; i > 0; i-- {
		if c.scopes[i][name] {
			return false
		}
	}

	p, ok := c.params[name]
	return ok && !p.Mutable
}

func (c *checker) block(b *ast.Block) {
	c.push()
	for _, e := range b.Expressions {
		c.expression(e)
	}
	c.pop()
}

func (c *checker) expression(e ast.Expression) {
	switch e := e.(type) {
	case *ast.Number, *ast.Text, *ast.Bool, *ast.Value:

	case *ast.Item:
		if !c.declared(e.Name) {
			c.errorf(e.Position, "Could not find local variable `%s`", e.Name)
		}

	case *ast.Object:
		for _, v := range e.Values {
			c.expression(v)
		}

	case *ast.Array:
		for _, v := range e.Items {
			c.expression(v)
		}

	case *ast.Field:
		c.expression(e.Target)

	case *ast.Index:
		c.expression(e.Target)
		c.expression(e.Index)

	case *ast.Call:
		c.call(e)

	case *ast.Declare:
		c.expression(e.Value)
		c.scopes[len(c.scopes)-1][e.Name] = true

	case *ast.Assign:
		c.expression(e.Value)
		c.expression(e.Target)
		if root := rootItem(e.Target); root != nil && c.immutableParam(root.Name) {
			c.errorf(e.Position, "Requires `mut %s` to assign", root.Name)
		}

	case *ast.Return:
		if e.Value != nil {
			if c.fn != nil && !c.fn.Returns {
				c.errorf(e.Position, "Returns a value but is declared without `->`")
			}
			c.expression(e.Value)
		}

	case *ast.Block:
		c.block(e)

	case *ast.If:
		c.expression(e.Cond)
		c.block(e.Then)
		if e.Else != nil {
			c.expression(e.Else)
		}

	case *ast.Binary:
		c.expression(e.Left)
		c.expression(e.Right)

	case *ast.Unary:
		c.expression(e.Operand)

	default:
		c.errorf(e.Pos(), "Unsupported expression %T", e)
	}
}

func (c *checker) call(call *ast.Call) {
	for i, arg := range call.Args {
		c.expression(arg)
		if item, ok := arg.(*ast.Item); ok && call.IsMut(i) && c.immutableParam(item.Name) {
			c.errorf(item.Position, "Requires `mut %s` to pass it as mutable", item.Name)
		}
	}

	if f, ok := c.module.Find(call.Key()); ok {
		if len(f.Args) != len(call.Args) {
			c.errorf(call.Position, "Expected %d arguments to `%s`, found %d", len(f.Args), call.Key(), len(call.Args))
		}
		return
	}

	d, ok := c.catalog[call.Name]
	if !ok {
		c.errorf(call.Position, "Could not find function `%s`", call.Key())
		return
	}

	if d.Arity() != len(call.Args) {
		c.errorf(call.Position, "Expected %d arguments to `%s`, found %d", d.Arity(), d.Name, len(call.Args))
		return
	}

	for _, i := range d.MutableArgs() {
		if !call.IsMut(i) {
			c.errorf(call.Position, "Requires `mut` on argument %d of `%s`", i+1, d.Name)
		}
	}
}

// rootItem returns the local an assignment target writes through
func rootItem(e ast.Expression) *ast.Item {
	for {
		switch t := e.(type) {
		case *ast.Item:
			return t
		case *ast.Field:
			e = t.Target
		case *ast.Index:
			e = t.Target
		default:
			return nil
		}
	}
}
