package runtime

import (
	"slices"

	"vesper/pkg/ast"
)

// call dispatches to a user function of m when its key is defined there,
// otherwise to the intrinsic of the same name.
func (rt *Runtime) call(call *ast.Call, m *ast.Module) (Expect, Flow, error) {
	if f, ok := m.Find(call.Key()); ok {
		return rt.callFunction(f, call, m)
	}

	return rt.callIntrinsic(call, m)
}

// arguments evaluates call's arguments onto the stack, one slot each.
// ok is false when an argument started a return.
func (rt *Runtime) arguments(call *ast.Call, m *ast.Module) (bool, error) {
	for _, arg := range call.Args {
		expect, flow, err := rt.expression(arg, m)
		if err != nil {
			return false, err
		}
		if flow == FlowReturn {
			return false, nil
		}
		if expect != ExpectSomething {
			return false, rt.fatalf(ErrNoValue, "expected something from argument of `%s` at %d:%d",
				call.Name, arg.Pos().Line, arg.Pos().Column)
		}
	}

	return true, nil
}

func (rt *Runtime) callFunction(f *ast.Function, call *ast.Call, m *ast.Module) (Expect, Flow, error) {
	if len(call.Args) != len(f.Args) {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrArity,
			"`%s` takes %d arguments, found %d", f.Name, len(f.Args), len(call.Args))
	}

	if rt.maxDepth > 0 && rt.CallStack.Size() >= rt.maxDepth {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrMaxDepth, "calling `%s` at depth %d", f.Name, rt.CallStack.Size())
	}

	st, lc := len(rt.Stack), len(rt.Locals)

	ok, err := rt.arguments(call, m)
	if err != nil || !ok {
		return ExpectNothing, returnFlow(ok), err
	}

	// pass by value unless the parameter is mutable or outlives the call
	for i := range f.Args {
		if f.ByReference(i) {
			continue
		}
		v, err := rt.Clone(rt.Stack[st+i])
		if err != nil {
			return ExpectNothing, FlowContinue, err
		}
		rt.Stack[st+i] = v
	}

	rt.PushFrame(f.Name, st, lc)
	for i, p := range f.Args {
		rt.Locals = append(rt.Locals, Local{Name: p.Name, Index: st + i})
	}

	expect, flow, err := rt.block(f.Block, m)
	if err != nil {
		return ExpectNothing, FlowContinue, err
	}

	var (
		result Variable
		has    bool
	)
	switch {
	case flow == FlowReturn:
		result, has = rt.returned, rt.hasReturned
		rt.returned, rt.hasReturned = Variable{}, false
	case expect == ExpectSomething:
		v, err := rt.pop()
		if err != nil {
			return ExpectNothing, FlowContinue, err
		}
		if result, err = rt.escape(v, st); err != nil {
			return ExpectNothing, FlowContinue, err
		}
		has = true
	}

	rt.truncate(st)
	if err := rt.PopFrame(f.Name); err != nil {
		return ExpectNothing, FlowContinue, err
	}

	if !f.Returns {
		return ExpectNothing, FlowContinue, nil
	}

	if !has {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrNoValue, "`%s` did not return a value", f.Name)
	}

	rt.push(result)
	return ExpectSomething, FlowContinue, nil
}

// callIntrinsic evaluates the arguments, then runs the intrinsic in its own frame.
// The body must consume every argument and leave exactly its declared result.
func (rt *Runtime) callIntrinsic(call *ast.Call, m *ast.Module) (Expect, Flow, error) {
	desc, ok := rt.catalog[call.Name]
	body, hasBody := rt.intrinsics[call.Name]
	if !ok || !hasBody {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrUnknownFunction, "unknown function `%s`", call.Name)
	}

	if len(call.Args) != desc.Arity() {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrArity,
			"`%s` takes %d arguments, found %d", call.Name, desc.Arity(), len(call.Args))
	}

	st, lc := len(rt.Stack), len(rt.Locals)

	ok, err := rt.arguments(call, m)
	if err != nil || !ok {
		return ExpectNothing, returnFlow(ok), err
	}

	rt.PushFrame(call.Name, st, lc)
	if err := rt.bindIntrinsicArgs(desc.Args, st); err != nil {
		return ExpectNothing, FlowContinue, err
	}
	if err := body(rt, call, m); err != nil {
		return ExpectNothing, FlowContinue, err
	}

	want := st
	if desc.Returns {
		want++
	}
	if len(rt.Stack) != want {
		return ExpectNothing, FlowContinue, rt.fatalf(ErrFrame,
			"`%s` left %d values on the stack, expected %d", call.Name, len(rt.Stack)-st, want-st)
	}

	if err := rt.PopFrame(call.Name); err != nil {
		return ExpectNothing, FlowContinue, err
	}

	if desc.Returns {
		return ExpectSomething, FlowContinue, nil
	}

	return ExpectNothing, FlowContinue, nil
}

// bindIntrinsicArgs applies the descriptor's passing modes to the evaluated arguments
// starting at slot st. An argument another one is bound to with Arg(i) must arrive
// as a Reference so the body can write through it; every other Default argument is
// replaced by the value it resolves to.
func (rt *Runtime) bindIntrinsicArgs(constraints []ast.ArgConstraint, st int) error {
	targets := make([]int, 0, 1)
	for _, c := range constraints {
		if c.Kind == ast.ConstraintArg {
			targets = append(targets, c.Index)
		}
	}

	for i, c := range constraints {
		slot := st + i
		switch {
		case slices.Contains(targets, i):
			if rt.Stack[slot].Kind != KindReference {
				return rt.fatalf(ErrConstraint, "argument %d must be a reference, found %s", i+1, rt.Stack[slot].Kind)
			}
		case c.Kind == ast.ConstraintDefault:
			rt.Stack[slot] = rt.Resolve(rt.Stack[slot])
		}
	}

	return nil
}
