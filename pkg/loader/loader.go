// Package loader turns source text into a checked module.
package loader

import (
	"errors"
	"strings"

	"vesper/pkg/ast"
	"vesper/pkg/checker"
	"vesper/pkg/intrinsic"
	"vesper/pkg/lexer"
	"vesper/pkg/parser"
)

// Func loads source into m, registering its functions. Functions already in m
// (for example merged imports) are visible to the new source's call sites.
type Func func(source string, m *ast.Module) error

// ErrSyntax and ErrCheck classify load failures.
var (
	ErrSyntax = errors.New("syntax errors")
	ErrCheck  = errors.New("check errors")
)

// Error carries every positioned diagnostic of a failed load.
type Error struct {
	Kind        error // ErrSyntax or ErrCheck
	Diagnostics []string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ":\n" + strings.Join(e.Diagnostics, "\n")
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Load parses source into m and checks the resulting module against the standard catalog.
func Load(source string, m *ast.Module) error {
	return LoadWith(intrinsic.Standard())(source, m)
}

// LoadWith returns a loader checking against the given catalog.
func LoadWith(catalog map[string]intrinsic.Descriptor) Func {
	return func(source string, m *ast.Module) error {
		p := parser.NewParser(lexer.NewLexer(source))
		if !p.ParseInto(m) {
			return &Error{Kind: ErrSyntax, Diagnostics: p.Errors()}
		}

		if err := checker.Check(m, catalog); err != nil {
			return &Error{Kind: ErrCheck, Diagnostics: diagnostics(err)}
		}

		return nil
	}
}

func diagnostics(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}

	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}

	return out
}
