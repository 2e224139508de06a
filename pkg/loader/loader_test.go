package loader_test

import (
	"errors"
	"testing"

	"vesper/pkg/ast"
	"vesper/pkg/intrinsic"
	"vesper/pkg/loader"
)

func TestLoad(t *testing.T) {
	m := ast.NewModule()
	if err := loader.Load(`fn main() { println("hi") }`, m); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := m.Find("main"); !ok {
		t.Errorf("Expected `main` to be registered")
	}
}

func TestLoadClassifiesFailures(t *testing.T) {
	tests := []struct {
		source string
		kind   error
	}{
		{`fn main( {}`, loader.ErrSyntax},
		{`fn main() { nope() }`, loader.ErrCheck},
	}

	for _, test := range tests {
		err := loader.Load(test.source, ast.NewModule())
		if !errors.Is(err, test.kind) {
			t.Errorf("Source %q: expected %v, got %v", test.source, test.kind, err)
		}
	}
}

func TestLoadSeesExistingFunctions(t *testing.T) {
	m := ast.NewModule()
	if err := loader.Load(`fn helper() -> { 1 }`, m); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := loader.Load(`fn main() { println(helper()) }`, m); err != nil {
		t.Errorf("Expected calls into earlier functions to check, got %v", err)
	}
}

func TestLoadWithCustomCatalog(t *testing.T) {
	catalog := map[string]intrinsic.Descriptor{}

	err := loader.LoadWith(catalog)(`fn main() { println(1) }`, ast.NewModule())
	if !errors.Is(err, loader.ErrCheck) {
		t.Errorf("Expected println to be unknown with an empty catalog, got %v", err)
	}
}

func TestLoadErrorDiagnostics(t *testing.T) {
	err := loader.Load("fn a() { x() }\nfn b() { y() }", ast.NewModule())

	var loadErr *loader.Error
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *loader.Error, got %T", err)
	}
	if len(loadErr.Diagnostics) != 2 {
		t.Errorf("Expected 2 diagnostics, got %v", loadErr.Diagnostics)
	}
}
