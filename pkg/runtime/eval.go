package runtime

import (
	"math"

	"vesper/pkg/ast"
	"vesper/pkg/lexer"
)

// Expect tells whether an evaluation left a value on the stack.
type Expect int

const (
	ExpectNothing Expect = iota
	ExpectSomething
)

// Flow tells whether evaluation continues normally or a return is unwinding.
type Flow int

const (
	FlowContinue Flow = iota
	FlowReturn
)

// Expression evaluates e against module m, the table used to resolve calls.
func (rt *Runtime) Expression(e ast.Expression, m *ast.Module) (Expect, Flow, error) {
	return rt.expression(e, m)
}

func (rt *Runtime) expression(e ast.Expression, m *ast.Module) (Expect, Flow, error) {
	switch e := e.(type) {
	case *ast.Number:
		rt.push(NewNumber(e.Value))
		return ExpectSomething, FlowContinue, nil

	case *ast.Text:
		rt.push(NewText(e.Value))
		return ExpectSomething, FlowContinue, nil

	case *ast.Bool:
		rt.push(NewBool(e.Value))
		return ExpectSomething, FlowContinue, nil

	case *ast.Value:
		v, ok := e.V.(Variable)
		if !ok {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "spliced value of type %T is not a variable", e.V)
		}
		rt.push(v)
		return ExpectSomething, FlowContinue, nil

	case *ast.Item:
		idx, ok := rt.lookup(e.Name)
		if !ok {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrLocal, "could not find local variable `%s`", e.Name)
		}
		rt.push(NewReference(idx))
		return ExpectSomething, FlowContinue, nil

	case *ast.Object:
		obj := NewObject()
		for i, key := range e.Keys {
			v, ok, err := rt.owned(e.Values[i], m)
			if err != nil || !ok {
				return ExpectNothing, returnFlow(ok), err
			}
			obj.Set(key, v)
		}
		rt.push(NewObjectVariable(obj))
		return ExpectSomething, FlowContinue, nil

	case *ast.Array:
		arr := make([]Variable, 0, len(e.Items))
		for _, item := range e.Items {
			v, ok, err := rt.owned(item, m)
			if err != nil || !ok {
				return ExpectNothing, returnFlow(ok), err
			}
			arr = append(arr, v)
		}
		rt.push(Variable{Kind: KindArray, Arr: arr})
		return ExpectSomething, FlowContinue, nil

	case *ast.Field:
		target, ok, err := rt.value(e.Target, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		v, err := rt.field(target, e.Name)
		if err != nil {
			return ExpectNothing, FlowContinue, err
		}
		rt.push(v)
		return ExpectSomething, FlowContinue, nil

	case *ast.Index:
		target, ok, err := rt.value(e.Target, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		index, ok, err := rt.value(e.Index, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		v, err := rt.element(target, index)
		if err != nil {
			return ExpectNothing, FlowContinue, err
		}
		rt.push(v)
		return ExpectSomething, FlowContinue, nil

	case *ast.Call:
		return rt.call(e, m)

	case *ast.Declare:
		v, ok, err := rt.owned(e.Value, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		rt.push(v)
		rt.Locals = append(rt.Locals, Local{Name: e.Name, Index: len(rt.Stack) - 1})
		return ExpectNothing, FlowContinue, nil

	case *ast.Assign:
		return rt.assign(e, m)

	case *ast.Return:
		return rt.ret(e, m)

	case *ast.Block:
		return rt.block(e, m)

	case *ast.If:
		cond, ok, err := rt.value(e.Cond, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		if cond.Kind != KindBool {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "expected boolean condition, found %s", cond.Kind)
		}
		if cond.Bool {
			return rt.block(e.Then, m)
		}
		if e.Else != nil {
			return rt.expression(e.Else, m)
		}
		return ExpectNothing, FlowContinue, nil

	case *ast.Binary:
		return rt.binary(e, m)

	case *ast.Unary:
		v, ok, err := rt.value(e.Operand, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		switch {
		case e.Op == lexer.MINUS && v.Kind == KindNumber:
			rt.push(NewNumber(-v.Num))
		case e.Op == lexer.NOT && v.Kind == KindBool:
			rt.push(NewBool(!v.Bool))
		default:
			return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "can not apply `%s` to %s", e.Op, v.Kind)
		}
		return ExpectSomething, FlowContinue, nil

	default:
		return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "unsupported expression %T", e)
	}
}

func returnFlow(ok bool) Flow {
	if ok {
		return FlowContinue
	}

	return FlowReturn
}

// value evaluates e to one concrete value and pops it.
// ok is false when e started a return, which the caller must propagate.
func (rt *Runtime) value(e ast.Expression, m *ast.Module) (Variable, bool, error) {
	expect, flow, err := rt.expression(e, m)
	if err != nil {
		return Variable{}, false, err
	}
	if flow == FlowReturn {
		return Variable{}, false, nil
	}
	if expect != ExpectSomething {
		return Variable{}, false, rt.fatalf(ErrNoValue, "expected something from expression at %d:%d", e.Pos().Line, e.Pos().Column)
	}

	v, err := rt.pop()
	if err != nil {
		return Variable{}, false, err
	}

	return rt.Resolve(v), true, nil
}

// owned is like value but returns a clone that shares no storage with the stack.
func (rt *Runtime) owned(e ast.Expression, m *ast.Module) (Variable, bool, error) {
	v, ok, err := rt.value(e, m)
	if err != nil || !ok {
		return v, ok, err
	}

	v, err = rt.Clone(v)
	return v, err == nil, err
}

func (rt *Runtime) field(target Variable, name string) (Variable, error) {
	if target.Kind != KindObject {
		return Variable{}, rt.fatalf(ErrType, "expected object to read `%s`, found %s", name, target.Kind)
	}

	v, ok := target.Obj.Get(name)
	if !ok {
		return Variable{}, rt.fatalf(ErrIndex, "object has no field `%s`", name)
	}

	return v, nil
}

func (rt *Runtime) element(target, index Variable) (Variable, error) {
	switch {
	case target.Kind == KindArray && index.Kind == KindNumber:
		i, err := rt.arrayIndex(target, index.Num)
		if err != nil {
			return Variable{}, err
		}
		return target.Arr[i], nil

	case target.Kind == KindObject && index.Kind == KindText:
		return rt.field(target, index.Text)

	default:
		return Variable{}, rt.fatalf(ErrType, "can not index %s with %s", target.Kind, index.Kind)
	}
}

func (rt *Runtime) arrayIndex(target Variable, f float64) (int, error) {
	if f != math.Trunc(f) || f < 0 || int(f) >= len(target.Arr) {
		return 0, rt.fatalf(ErrIndex, "index %s out of bounds for array of length %d", FormatNumber(f), len(target.Arr))
	}

	return int(f), nil
}

func (rt *Runtime) assign(e *ast.Assign, m *ast.Module) (Expect, Flow, error) {
	v, ok, err := rt.owned(e.Value, m)
	if err != nil || !ok {
		return ExpectNothing, returnFlow(ok), err
	}

	switch target := e.Target.(type) {
	case *ast.Item:
		idx, found := rt.lookup(target.Name)
		if !found {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrLocal, "could not find local variable `%s`", target.Name)
		}
		rt.Stack[rt.ResolveIndex(idx)] = v

	case *ast.Field:
		c, ok, err := rt.container(target.Target, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		if c.Kind != KindObject {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "expected object to assign `%s`, found %s", target.Name, c.Kind)
		}
		if _, exists := c.Obj.Get(target.Name); !exists {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrIndex, "object has no field `%s`", target.Name)
		}
		c.Obj.Set(target.Name, v)

	case *ast.Index:
		c, ok, err := rt.container(target.Target, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		index, ok, err := rt.value(target.Index, m)
		if err != nil || !ok {
			return ExpectNothing, returnFlow(ok), err
		}
		if err := rt.setElement(c, index, v); err != nil {
			return ExpectNothing, FlowContinue, err
		}

	default:
		return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "can not assign to %T", e.Target)
	}

	return ExpectNothing, FlowContinue, nil
}

// container walks an assignment target down to the object or array to write into.
// Objects and array backing storage are shared with the slot they came from,
// so writes through the result land in the original storage.
func (rt *Runtime) container(e ast.Expression, m *ast.Module) (Variable, bool, error) {
	switch e := e.(type) {
	case *ast.Item:
		idx, found := rt.lookup(e.Name)
		if !found {
			return Variable{}, false, rt.fatalf(ErrLocal, "could not find local variable `%s`", e.Name)
		}
		return rt.Stack[rt.ResolveIndex(idx)], true, nil

	case *ast.Field:
		c, ok, err := rt.container(e.Target, m)
		if err != nil || !ok {
			return c, ok, err
		}
		v, err := rt.field(c, e.Name)
		return v, err == nil, err

	case *ast.Index:
		c, ok, err := rt.container(e.Target, m)
		if err != nil || !ok {
			return c, ok, err
		}
		index, ok, err := rt.value(e.Index, m)
		if err != nil || !ok {
			return Variable{}, ok, err
		}
		v, err := rt.element(c, index)
		return v, err == nil, err

	default:
		return Variable{}, false, rt.fatalf(ErrType, "can not assign through %T", e)
	}
}

func (rt *Runtime) setElement(c, index, v Variable) error {
	switch {
	case c.Kind == KindArray && index.Kind == KindNumber:
		i, err := rt.arrayIndex(c, index.Num)
		if err != nil {
			return err
		}
		c.Arr[i] = v
		return nil

	case c.Kind == KindObject && index.Kind == KindText:
		if _, exists := c.Obj.Get(index.Text); !exists {
			return rt.fatalf(ErrIndex, "object has no field `%s`", index.Text)
		}
		c.Obj.Set(index.Text, v)
		return nil

	default:
		return rt.fatalf(ErrType, "can not index %s with %s", c.Kind, index.Kind)
	}
}

func (rt *Runtime) ret(e *ast.Return, m *ast.Module) (Expect, Flow, error) {
	rt.returned, rt.hasReturned = Variable{}, false
	if e.Value == nil {
		return ExpectNothing, FlowReturn, nil
	}

	expect, flow, err := rt.expression(e.Value, m)
	if err != nil || flow == FlowReturn {
		return expect, flow, err
	}
	if expect != ExpectSomething {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrNoValue, "expected something to return")
	}

	v, err := rt.pop()
	if err != nil {
		return ExpectNothing, FlowContinue, err
	}

	v, err = rt.escape(v, rt.frame().StackFloor)
	if err != nil {
		return ExpectNothing, FlowContinue, err
	}

	rt.returned, rt.hasReturned = v, true
	return ExpectNothing, FlowReturn, nil
}

// block runs a braced sequence in its own scope. Only the last expression's value
// survives; every slot and binding created inside is dropped on exit.
func (rt *Runtime) block(b *ast.Block, m *ast.Module) (Expect, Flow, error) {
	st, lc := len(rt.Stack), len(rt.Locals)

	expect := ExpectNothing
	for i, e := range b.Expressions {
		ex, flow, err := rt.expression(e, m)
		if err != nil || flow == FlowReturn {
			return ex, flow, err
		}

		expect = ex
		if ex == ExpectSomething && i < len(b.Expressions)-1 {
			if _, err := rt.pop(); err != nil {
				return ExpectNothing, FlowContinue, err
			}
		}
	}

	if expect == ExpectSomething {
		v, err := rt.pop()
		if err != nil {
			return ExpectNothing, FlowContinue, err
		}
		v, err = rt.escape(v, st)
		if err != nil {
			return ExpectNothing, FlowContinue, err
		}
		rt.truncate(st)
		rt.push(v)
	} else {
		rt.truncate(st)
	}
	rt.Locals = rt.Locals[:lc]

	return expect, FlowContinue, nil
}

func (rt *Runtime) binary(e *ast.Binary, m *ast.Module) (Expect, Flow, error) {
	left, ok, err := rt.value(e.Left, m)
	if err != nil || !ok {
		return ExpectNothing, returnFlow(ok), err
	}

	// short-circuit
	if e.Op == lexer.AND || e.Op == lexer.OR {
		if left.Kind != KindBool {
			return ExpectNothing, FlowContinue, rt.fatalf(ErrType, "expected boolean for `%s`, found %s", e.Op, left.Kind)
		}
		if left.Bool == (e.Op == lexer.OR) {
			rt.push(left)
			return ExpectSomething, FlowContinue, nil
		}
	}

	right, ok, err := rt.value(e.Right, m)
	if err != nil || !ok {
		return ExpectNothing, returnFlow(ok), err
	}

	v, err := rt.operate(e.Op, left, right)
	if err != nil {
		return ExpectNothing, FlowContinue, err
	}

	rt.push(v)
	return ExpectSomething, FlowContinue, nil
}

func (rt *Runtime) operate(op lexer.TokenType, a, b Variable) (Variable, error) {
	switch op {
	case lexer.EQ:
		return NewBool(equalScalars(a, b)), nil
	case lexer.NE:
		return NewBool(!equalScalars(a, b)), nil
	case lexer.AND, lexer.OR:
		if b.Kind != KindBool {
			return Variable{}, rt.fatalf(ErrType, "expected boolean for `%s`, found %s", op, b.Kind)
		}
		return b, nil
	case lexer.PLUS:
		if a.Kind == KindText && b.Kind == KindText {
			return NewText(a.Text + b.Text), nil
		}
	}

	if a.Kind != KindNumber || b.Kind != KindNumber {
		return Variable{}, rt.fatalf(ErrType, "can not apply `%s` to %s and %s", op, a.Kind, b.Kind)
	}

	x, y := a.Num, b.Num
	switch op {
	case lexer.PLUS:
		return NewNumber(x + y), nil
	case lexer.MINUS:
		return NewNumber(x - y), nil
	case lexer.MULT:
		return NewNumber(x * y), nil
	case lexer.DIV:
		return NewNumber(x / y), nil
	case lexer.MOD:
		return NewNumber(math.Mod(x, y)), nil
	case lexer.LT:
		return NewBool(x < y), nil
	case lexer.LE:
		return NewBool(x <= y), nil
	case lexer.GT:
		return NewBool(x > y), nil
	case lexer.GE:
		return NewBool(x >= y), nil
	default:
		return Variable{}, rt.fatalf(ErrType, "unknown operator `%s`", op)
	}
}

// equalScalars compares numbers, booleans and text; values of different kinds are unequal
func equalScalars(a, b Variable) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindNumber:
		return a.Num == b.Num
	case KindBool:
		return a.Bool == b.Bool
	case KindText:
		return a.Text == b.Text
	default:
		return false
	}
}
