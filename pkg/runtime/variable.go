package runtime

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/google/uuid"

	"vesper/pkg/ast"
)

type Kind int

const (
	KindReturn Kind = iota
	KindNumber
	KindBool
	KindText
	KindObject
	KindArray
	KindReference
	KindUnsafeReference
	KindForeign

	kindCount
)

var kindNames = [kindCount]string{
	KindReturn:          "return",
	KindNumber:          "number",
	KindBool:            "boolean",
	KindText:            "string",
	KindObject:          "object",
	KindArray:           "array",
	KindReference:       "ref",
	KindUnsafeReference: "unsafe_ref",
	KindForeign:         "foreign",
}

// String returns the stable type name reported by typeof.
func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}

	return "unknown"
}

// Variable is a dynamically-typed script value. Only the field matching Kind is meaningful.
// The zero Variable is the Return sentinel.
type Variable struct {
	Kind    Kind
	Num     float64
	Bool    bool
	Text    string
	Obj     *Object
	Arr     []Variable
	Ref     int       // stack slot aliased by KindReference
	Unsafe  *Variable // host storage aliased by KindUnsafeReference
	Foreign *Foreign
}

// NewNumber creates a new number Variable.
func NewNumber(f float64) Variable {
	return Variable{Kind: KindNumber, Num: f}
}

// NewBool creates a new boolean Variable.
func NewBool(b bool) Variable {
	return Variable{Kind: KindBool, Bool: b}
}

// NewText creates a new text Variable.
func NewText(s string) Variable {
	return Variable{Kind: KindText, Text: s}
}

// NewArray creates a new array Variable holding items.
func NewArray(items ...Variable) Variable {
	return Variable{Kind: KindArray, Arr: append([]Variable{}, items...)}
}

// NewObjectVariable wraps obj in a Variable.
func NewObjectVariable(obj *Object) Variable {
	return Variable{Kind: KindObject, Obj: obj}
}

// NewReference creates an alias to stack slot index.
func NewReference(index int) Variable {
	return Variable{Kind: KindReference, Ref: index}
}

// NewUnsafeReference creates an alias to host-owned storage. It can not be cloned.
func NewUnsafeReference(target *Variable) Variable {
	return Variable{Kind: KindUnsafeReference, Unsafe: target}
}

// NewForeignModule wraps a loaded module in a shared handle.
func NewForeignModule(m *ast.Module) Variable {
	return Variable{Kind: KindForeign, Foreign: &Foreign{
		ID:     uuid.New(),
		Kind:   ForeignModule,
		module: m,
	}}
}

// Object is an insertion-ordered map from key to Variable.
// Overwriting a key keeps its original position.
type Object struct {
	m *linkedhashmap.Map
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{m: linkedhashmap.New()}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Variable, bool) {
	v, ok := o.m.Get(key)
	if !ok {
		return Variable{}, false
	}

	return v.(Variable), true
}

// Set stores v under key.
func (o *Object) Set(key string, v Variable) {
	o.m.Put(key, v)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return o.m.Size()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.m.Size())
	for _, k := range o.m.Keys() {
		keys = append(keys, k.(string))
	}

	return keys
}

// Each calls fn for every entry in insertion order, stopping at the first error.
func (o *Object) Each(fn func(key string, v Variable) error) error {
	it := o.m.Iterator()
	for it.Next() {
		if err := fn(it.Key().(string), it.Value().(Variable)); err != nil {
			return err
		}
	}

	return nil
}

type ForeignKind int

const (
	// ForeignModule is a loaded, checked program.
	ForeignModule ForeignKind = iota
)

// Foreign is a shared handle to a host value. Copies of a Variable share the handle,
// so every inspection goes through With, which holds the lock for one access.
type Foreign struct {
	ID   uuid.UUID
	Kind ForeignKind

	mu     sync.Mutex
	module *ast.Module
}

// With runs fn with exclusive access to the module held by the handle.
func (f *Foreign) With(fn func(m *ast.Module) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return fn(f.module)
}
