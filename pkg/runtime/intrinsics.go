package runtime

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"vesper/pkg/ast"
)

// intrinsicFunc runs inside the intrinsic's frame with the evaluated arguments on the stack.
// It pops the arguments, last first, and pushes the result when the intrinsic returns one.
type intrinsicFunc func(rt *Runtime, call *ast.Call, m *ast.Module) error

var unaryNumeric = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"asin":  math.Asin,
	"cos":   math.Cos,
	"acos":  math.Acos,
	"tan":   math.Tan,
	"atan":  math.Atan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"round": math.Round,
}

func standardIntrinsics() map[string]intrinsicFunc {
	fns := map[string]intrinsicFunc{
		"random":      random,
		"debug":       debug,
		"backtrace":   backtrace,
		"println":     printer("\n"),
		"print":       printer(""),
		"read_line":   readLine,
		"read_number": readNumber,
		"len":         length,
		"push":        push,
		"typeof":      typeOf,
		"to_string":   toString,
		"trim_right":  trimRight,
		"clone":       cloneValue,
		"sleep":       sleep,

		"load":                load,
		"load_source_imports": loadSourceImports,
		"call":                callModule(false),
		"call_ret":            callModule(true),
	}

	for name, fn := range unaryNumeric {
		fns[name] = unaryNumber(fn)
	}

	return fns
}

// popResolved pops one argument and follows it to its concrete value
func (rt *Runtime) popResolved() (Variable, error) {
	v, err := rt.pop()
	if err != nil {
		return Variable{}, err
	}

	return rt.Resolve(v), nil
}

func (rt *Runtime) popNumber() (float64, error) {
	v, err := rt.popResolved()
	if err != nil {
		return 0, err
	}
	if v.Kind != KindNumber {
		return 0, rt.fatalf(ErrType, "expected number, found %s", v.Kind)
	}

	return v.Num, nil
}

func (rt *Runtime) popText() (string, error) {
	v, err := rt.popResolved()
	if err != nil {
		return "", err
	}
	if v.Kind != KindText {
		return "", rt.fatalf(ErrType, "expected string, found %s", v.Kind)
	}

	return v.Text, nil
}

func (rt *Runtime) popArray() ([]Variable, error) {
	v, err := rt.popResolved()
	if err != nil {
		return nil, err
	}
	if v.Kind != KindArray {
		return nil, rt.fatalf(ErrType, "expected array, found %s", v.Kind)
	}

	return v.Arr, nil
}

func (rt *Runtime) popForeign() (*Foreign, error) {
	v, err := rt.popResolved()
	if err != nil {
		return nil, err
	}
	if v.Kind != KindForeign {
		return nil, rt.fatalf(ErrType, "expected module, found %s", v.Kind)
	}

	return v.Foreign, nil
}

func (rt *Runtime) write(s string) error {
	if _, err := io.WriteString(rt.out, s); err != nil {
		return rt.fatalCause(ErrIO, err, "could not write output")
	}

	return nil
}

// flush pushes buffered output before blocking on input
func (rt *Runtime) flush() error {
	f, ok := rt.out.(interface{ Flush() error })
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return rt.fatalCause(ErrIO, err, "could not flush output")
	}

	return nil
}

func unaryNumber(fn func(float64) float64) intrinsicFunc {
	return func(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
		x, err := rt.popNumber()
		if err != nil {
			return err
		}

		rt.push(NewNumber(fn(x)))
		return nil
	}
}

func random(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	rt.push(NewNumber(rt.rng.Float64()))
	return nil
}

func debug(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	if err := rt.Debug(rt.out); err != nil {
		return rt.fatalCause(ErrIO, err, "could not write debug output")
	}

	return nil
}

func backtrace(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	if err := rt.Backtrace(rt.out); err != nil {
		return rt.fatalCause(ErrIO, err, "could not write backtrace")
	}

	return nil
}

func printer(suffix string) intrinsicFunc {
	return func(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
		v, err := rt.pop()
		if err != nil {
			return err
		}

		s, err := rt.Render(v)
		if err != nil {
			return err
		}

		return rt.write(s + suffix)
	}
}

// readLine keeps the trailing newline; a final line without one is returned as is
func readLine(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	if err := rt.flush(); err != nil {
		return err
	}

	line, err := rt.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return rt.fatalCause(ErrIO, err, "could not read line")
	}

	rt.push(NewText(line))
	return nil
}

// readNumber prompts with msg after every line that does not parse as a number
func readNumber(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	msg, err := rt.popText()
	if err != nil {
		return err
	}

	for {
		if err := rt.flush(); err != nil {
			return err
		}

		line, err := rt.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return rt.fatalCause(ErrIO, err, "could not read number")
		}

		if f, perr := strconv.ParseFloat(strings.TrimSpace(line), 64); perr == nil {
			rt.push(NewNumber(f))
			return nil
		}

		if err != nil {
			return rt.fatalCause(ErrIO, err, "input ended before a number was read")
		}

		if err := rt.write(msg + "\n"); err != nil {
			return err
		}
	}
}

func length(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	arr, err := rt.popArray()
	if err != nil {
		return err
	}

	rt.push(NewNumber(float64(len(arr))))
	return nil
}

// push appends a copy of the item to the array the container references, in place
func push(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	item, err := rt.pop()
	if err != nil {
		return err
	}

	container, err := rt.pop()
	if err != nil {
		return err
	}

	if container.Kind != KindReference {
		return rt.fatalf(ErrConstraint, "expected reference to array, found %s", container.Kind)
	}

	slot := rt.ResolveIndex(container.Ref)
	if rt.Stack[slot].Kind != KindArray {
		return rt.fatalf(ErrConstraint, "expected reference to array, found reference to %s", rt.Stack[slot].Kind)
	}

	v, err := rt.Clone(item)
	if err != nil {
		return err
	}

	rt.Stack[slot].Arr = append(rt.Stack[slot].Arr, v)
	return nil
}

func typeOf(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	v, err := rt.popResolved()
	if err != nil {
		return err
	}

	rt.push(rt.types[v.Kind])
	return nil
}

func toString(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	v, err := rt.popResolved()
	if err != nil {
		return err
	}

	switch v.Kind {
	case KindText:
		rt.push(v)
	case KindNumber:
		rt.push(NewText(FormatNumber(v.Num)))
	default:
		return rt.fatalf(ErrType, "can not convert %s to string", v.Kind)
	}

	return nil
}

func trimRight(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	s, err := rt.popText()
	if err != nil {
		return err
	}

	rt.push(NewText(strings.TrimRightFunc(s, unicode.IsSpace)))
	return nil
}

func cloneValue(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	v, err := rt.pop()
	if err != nil {
		return err
	}

	c, err := rt.Clone(v)
	if err != nil {
		return err
	}

	rt.push(c)
	return nil
}

func sleep(rt *Runtime, _ *ast.Call, _ *ast.Module) error {
	secs, err := rt.popNumber()
	if err != nil {
		return err
	}

	if err := rt.flush(); err != nil {
		return err
	}

	d := sleepDuration(secs)
	if d <= 0 {
		return nil
	}

	log.Debug("Sleeping", "duration", d)
	time.Sleep(d)

	return nil
}

// sleepDuration converts seconds to a duration, saturating instead of overflowing.
// Non-positive and NaN inputs give zero.
func sleepDuration(secs float64) time.Duration {
	if secs <= 0 || math.IsNaN(secs) {
		return 0
	}

	ns := secs * float64(time.Second)
	if ns >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(ns)
}
