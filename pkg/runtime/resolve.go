package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resolve follows a chain of references to the concrete value it ends at.
// Chains are finite: a slot can only alias a slot pushed before it.
func (rt *Runtime) Resolve(v Variable) Variable {
	for v.Kind == KindReference {
		v = rt.Stack[v.Ref]
	}

	return v
}

// ResolveIndex follows reference slots starting at index and returns the slot
// holding the concrete value, which is where in-place mutation must happen.
func (rt *Runtime) ResolveIndex(index int) int {
	for rt.Stack[index].Kind == KindReference {
		index = rt.Stack[index].Ref
	}

	return index
}

// Clone copies v into storage independent of the stack: references are followed,
// objects and arrays are copied element by element. Foreign handles stay shared.
func (rt *Runtime) Clone(v Variable) (Variable, error) {
	switch v.Kind {
	case KindReference:
		return rt.Clone(rt.Stack[v.Ref])

	case KindUnsafeReference:
		return Variable{}, rt.fatalf(ErrUnclonable, "unsafe reference can not be cloned")

	case KindObject:
		obj := NewObject()
		err := v.Obj.Each(func(key string, item Variable) error {
			c, err := rt.Clone(item)
			if err != nil {
				return err
			}
			obj.Set(key, c)
			return nil
		})
		if err != nil {
			return Variable{}, err
		}
		return NewObjectVariable(obj), nil

	case KindArray:
		arr := make([]Variable, len(v.Arr))
		for i, item := range v.Arr {
			c, err := rt.Clone(item)
			if err != nil {
				return Variable{}, err
			}
			arr[i] = c
		}
		return Variable{Kind: KindArray, Arr: arr}, nil

	default:
		return v, nil
	}
}

// escape prepares v to outlive the stack region starting at floor. Aliases of slots
// below the floor are kept; anything living inside the region is cloned out of it.
func (rt *Runtime) escape(v Variable, floor int) (Variable, error) {
	for v.Kind == KindReference {
		if v.Ref < floor {
			return v, nil
		}
		v = rt.Stack[v.Ref]
	}

	return rt.Clone(v)
}

// Render formats v for println and print.
func (rt *Runtime) Render(v Variable) (string, error) {
	var b strings.Builder
	if err := rt.render(&b, v); err != nil {
		return "", err
	}

	return b.String(), nil
}

func (rt *Runtime) render(b *strings.Builder, v Variable) error {
	v = rt.Resolve(v)

	switch v.Kind {
	case KindText:
		b.WriteString(v.Text)

	case KindNumber:
		b.WriteString(FormatNumber(v.Num))

	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))

	case KindObject:
		b.WriteByte('{')
		n := 0
		err := v.Obj.Each(func(key string, item Variable) error {
			if n > 0 {
				b.WriteString(", ")
			}
			n++
			b.WriteString(key)
			b.WriteString(": ")
			return rt.render(b, item)
		})
		if err != nil {
			return err
		}
		b.WriteByte('}')

	case KindArray:
		b.WriteByte('[')
		for i, item := range v.Arr {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := rt.render(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')

	default:
		return rt.fatalf(ErrRender, "could not print out `%s`", rt.debugString(v))
	}

	return nil
}

// FormatNumber writes a number in its shortest decimal form, never in exponent notation.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// debugString formats any variable, including the ones Render rejects.
func (rt *Runtime) debugString(v Variable) string {
	switch v.Kind {
	case KindText:
		return strconv.Quote(v.Text)
	case KindNumber:
		return FormatNumber(v.Num)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindReference:
		return fmt.Sprintf("ref(%d)", v.Ref)
	case KindUnsafeReference:
		return fmt.Sprintf("unsafe_ref(%p)", v.Unsafe)
	case KindForeign:
		return fmt.Sprintf("module(%s)", v.Foreign.ID)
	case KindReturn:
		return "return"
	case KindObject:
		parts := make([]string, 0, v.Obj.Len())
		_ = v.Obj.Each(func(key string, item Variable) error {
			parts = append(parts, key+": "+rt.debugString(item))
			return nil
		})
		return "{" + strings.Join(parts, ", ") + "}"
	case KindArray:
		parts := make([]string, len(v.Arr))
		for i, item := range v.Arr {
			parts[i] = rt.debugString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<unknown>"
	}
}
