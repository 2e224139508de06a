package runtime

import (
	"github.com/charmbracelet/log"

	"vesper/pkg/ast"
)

// load reads one source text into a fresh module and pushes a handle to it.
func load(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	source, err := rt.popText()
	if err != nil {
		return err
	}

	return rt.loadInto(source, ast.NewModule())
}

// loadSourceImports loads source into a module that already holds every function
// of the imported modules, so the new code can call them.
func loadSourceImports(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	imports, err := rt.popArray()
	if err != nil {
		return err
	}

	source, err := rt.popText()
	if err != nil {
		return err
	}

	scratch := ast.NewModule()
	for _, item := range imports {
		v := rt.Resolve(item)
		if v.Kind != KindForeign {
			return rt.fatalf(ErrType, "expected module in imports, found %s", v.Kind)
		}

		err := v.Foreign.With(func(m *ast.Module) error {
			for _, key := range m.Keys() {
				scratch.Register(m.Functions[key])
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return rt.loadInto(source, scratch)
}

func (rt *Runtime) loadInto(source string, m *ast.Module) error {
	if err := rt.load(source, m); err != nil {
		return rt.fatalCause(ErrLoad, err, "could not load module")
	}

	v := NewForeignModule(m)
	log.Debug("Loaded module", "id", v.Foreign.ID, "functions", len(m.Functions))

	rt.push(v)
	return nil
}

// callModule returns the body of call (discarding any result) or call_ret
// (requiring one). Arguments are copies of the array elements.
func callModule(ret bool) intrinsicFunc {
	return func(rt *Runtime, call *ast.Call, _ *ast.Module) error {
		args, err := rt.popArray()
		if err != nil {
			return err
		}

		name, err := rt.popText()
		if err != nil {
			return err
		}

		handle, err := rt.popForeign()
		if err != nil {
			return err
		}

		var (
			f   *ast.Function
			mod *ast.Module
		)
		err = handle.With(func(m *ast.Module) error {
			found, ok := m.Find(name)
			if !ok {
				return rt.fatalf(ErrFunctionNotFound, "could not find function `%s`", name)
			}
			if len(found.Args) != len(args) {
				return rt.fatalf(ErrArity, "expected `%d` arguments, found `%d`", len(found.Args), len(args))
			}
			f, mod = found, m
			return nil
		})
		if err != nil {
			return err
		}

		if ret && !f.Returns {
			return rt.fatalf(ErrNoValue, "`%s` does not return a value", name)
		}

		synth := &ast.Call{
			Name:     f.Name,
			Args:     make([]ast.Expression, len(args)),
			Mut:      make([]bool, len(args)),
			Position: call.Position,
		}
		for i, a := range args {
			c, err := rt.Clone(a)
			if err != nil {
				return err
			}
			synth.Args[i] = &ast.Value{V: c, Position: call.Position}
			synth.Mut[i] = f.Args[i].Mutable
		}

		log.Debug("Calling into module", "id", handle.ID, "function", name)

		expect, _, err := rt.call(synth, mod)
		if err != nil {
			return err
		}

		if expect == ExpectSomething && !ret {
			_, err = rt.pop()
		}

		return err
	}
}
