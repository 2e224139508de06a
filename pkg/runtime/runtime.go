package runtime

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"vesper/pkg/ast"
	"vesper/pkg/intrinsic"
	"vesper/pkg/loader"
	"vesper/pkg/stack"
)

// Frame records one active call: the stack and bindings lengths when it was entered.
type Frame struct {
	Name        string
	StackFloor  int
	LocalsFloor int
}

// Local binds a name to an evaluation-stack slot.
type Local struct {
	Name  string
	Index int
}

// Runtime executes one program at a time. Its stack, bindings and frames are owned
// exclusively by the goroutine calling Run.
type Runtime struct {
	Stack     []Variable          // evaluation stack
	Locals    []Local             // named bindings, most recent last
	CallStack *stack.Stack[Frame] // active calls

	catalog    map[string]intrinsic.Descriptor
	intrinsics map[string]intrinsicFunc
	types      [kindCount]Variable // interned typeof results

	rng      *rand.Rand
	in       *bufio.Reader
	out      io.Writer
	load     loader.Func
	maxDepth int // maximum nested user calls (0 = unlimited)

	returned    Variable // value carried by a pending FlowReturn
	hasReturned bool
}

type Option func(*Runtime)

// WithWriter sets the output writer for print, debug and prompts
func WithWriter(w io.Writer) Option {
	return func(rt *Runtime) { rt.out = w }
}

// WithReader sets the input read by read_line and read_number
func WithReader(r io.Reader) Option {
	return func(rt *Runtime) { rt.in = bufio.NewReader(r) }
}

// WithSeed makes random deterministic
func WithSeed(seed uint64) Option {
	return func(rt *Runtime) { rt.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLoader replaces the loader used by load and load_source_imports
func WithLoader(fn loader.Func) Option {
	return func(rt *Runtime) { rt.load = fn }
}

// WithMaxDepth limits nested user function calls; exceeding it is ErrMaxDepth
func WithMaxDepth(n int) Option {
	return func(rt *Runtime) { rt.maxDepth = n }
}

// New creates a runtime with the standard intrinsic catalog
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		Stack:      make([]Variable, 0, 64),
		Locals:     make([]Local, 0, 16),
		CallStack:  stack.NewStack[Frame](),
		catalog:    intrinsic.Standard(),
		intrinsics: standardIntrinsics(),
		load:       loader.Load,
	}

	for k := range kindCount {
		rt.types[k] = NewText(k.String())
	}

	for _, o := range opts {
		o(rt)
	}

	if rt.out == nil {
		rt.out = os.Stdout
	}

	if rt.in == nil {
		rt.in = bufio.NewReader(os.Stdin)
	}

	if rt.rng == nil {
		seed := uint64(time.Now().UnixNano())
		rt.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	return rt
}

// Catalog returns the intrinsic descriptors this runtime dispatches.
func (rt *Runtime) Catalog() map[string]intrinsic.Descriptor {
	return rt.catalog
}

// Output returns the writer used by print
func (rt *Runtime) Output() io.Writer {
	return rt.out
}

// Reset clears the stack, bindings and frames
func (rt *Runtime) Reset() {
	clear(rt.Stack)
	rt.Stack = rt.Stack[:0]
	rt.Locals = rt.Locals[:0]
	rt.CallStack.Truncate(0)
	rt.returned, rt.hasReturned = Variable{}, false
}

// Run calls the parameterless function entry of m. The stack must be empty again
// afterwards; any value the entry function returns is discarded.
func (rt *Runtime) Run(m *ast.Module, entry string) error {
	rt.Reset()

	f, ok := m.Find(entry)
	if !ok {
		return rt.fatalf(ErrFunctionNotFound, "could not find function `%s`", entry)
	}

	if len(f.Args) != 0 {
		return rt.fatalf(ErrArity, "entry function `%s` must not take arguments, found %d", entry, len(f.Args))
	}

	expect, _, err := rt.callFunction(f, &ast.Call{Name: f.Name, Position: f.Position}, m)
	if err != nil {
		return err
	}

	if expect == ExpectSomething {
		if _, err := rt.pop(); err != nil {
			return err
		}
	}

	if len(rt.Stack) != 0 || len(rt.Locals) != 0 || rt.CallStack.Size() != 0 {
		return rt.fatalf(ErrFrame, "%d values, %d locals and %d frames left after `%s`",
			len(rt.Stack), len(rt.Locals), rt.CallStack.Size(), entry)
	}

	return nil
}

// PushFrame records entry into the named operation
func (rt *Runtime) PushFrame(name string, stackFloor, localsFloor int) {
	rt.CallStack.Push(Frame{Name: name, StackFloor: stackFloor, LocalsFloor: localsFloor})
}

// PopFrame leaves the named operation and discards the bindings created inside it
func (rt *Runtime) PopFrame(name string) error {
	top, ok := rt.CallStack.Peek()
	if !ok || top.Name != name {
		return rt.fatalf(ErrFrame, "leaving `%s` but the innermost call is `%s`", name, top.Name)
	}

	rt.CallStack.Pop()
	if top.LocalsFloor < len(rt.Locals) {
		rt.Locals = rt.Locals[:top.LocalsFloor]
	}

	return nil
}

// frame returns the innermost call frame; the zero Frame outside of any call
func (rt *Runtime) frame() Frame {
	f, _ := rt.CallStack.Peek()
	return f
}

// op names the innermost operation for diagnostics
func (rt *Runtime) op() string {
	if f, ok := rt.CallStack.Peek(); ok {
		return f.Name
	}

	return "<top>"
}

// lookup finds the slot bound to name in the innermost frame, latest binding first
func (rt *Runtime) lookup(name string) (int, bool) {
	floor := rt.frame().LocalsFloor
	for i := len(rt.Locals) - 1; i >= floor; i-- {
		if rt.Locals[i].Name == name {
			return rt.Locals[i].Index, true
		}
	}

	return 0, false
}

func (rt *Runtime) push(v Variable) {
	rt.Stack = append(rt.Stack, v)
}

// pop removes the top value, refusing to reach below the innermost frame's floor
func (rt *Runtime) pop() (Variable, error) {
	if len(rt.Stack) == 0 || len(rt.Stack) <= rt.frame().StackFloor {
		return Variable{}, rt.fatalf(ErrEmptyStack, "there is no value on the stack")
	}

	v := rt.Stack[len(rt.Stack)-1]
	rt.Stack[len(rt.Stack)-1] = Variable{}
	rt.Stack = rt.Stack[:len(rt.Stack)-1]

	return v, nil
}

// truncate drops stack slots down to length n
func (rt *Runtime) truncate(n int) {
	if n < len(rt.Stack) {
		clear(rt.Stack[n:])
		rt.Stack = rt.Stack[:n]
	}
}

// Debug writes the stack and bindings without modifying them
func (rt *Runtime) Debug(w io.Writer) error {
	var b strings.Builder

	b.WriteString("Stack [\n")
	for i, v := range rt.Stack {
		fmt.Fprintf(&b, "    %d: %s\n", i, rt.debugString(v))
	}
	b.WriteString("]\nLocals [\n")
	for _, l := range rt.Locals {
		fmt.Fprintf(&b, "    %s: %d\n", l.Name, l.Index)
	}
	b.WriteString("]\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Backtrace writes the active call frames, outermost first
func (rt *Runtime) Backtrace(w io.Writer) error {
	_, err := io.WriteString(w, FormatBacktrace(rt.CallStack.Array()))
	return err
}

// FormatBacktrace renders frames, outermost first
func FormatBacktrace(frames []Frame) string {
	var b strings.Builder

	b.WriteString("Backtrace [\n")
	for _, f := range frames {
		fmt.Fprintf(&b, "    %s (stack %d, locals %d)\n", f.Name, f.StackFloor, f.LocalsFloor)
	}
	b.WriteString("]\n")

	return b.String()
}
