package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"vesper/internal/config"
	"vesper/pkg/color"
	"vesper/pkg/loader"
	"vesper/pkg/runtime"
)

func script(t *testing.T, source string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.vsp")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	r := Runner{
		SourceFile: script(t, `fn main() { name := read_line(); print("hi " + name) }`),
		Stdout:     &out,
		Stdin:      strings.NewReader("ana\n"),
	}

	if err := r.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.String() != "hi ana\n" {
		t.Errorf("Expected %q, got %q", "hi ana\n", out.String())
	}
}

func TestRunEntryFromConfig(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.Entry = "start"

	r := Runner{
		SourceFile: script(t, `fn start() { println("started") }`),
		Config:     cfg,
		Stdout:     &out,
	}

	if err := r.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.String() != "started\n" {
		t.Errorf("Expected %q, got %q", "started\n", out.String())
	}
}

func TestRunReportsErrors(t *testing.T) {
	color.EnableColor(false)

	tests := []struct {
		description string
		source      string
		kind        error
		header      string
	}{
		{"syntax", `fn main( {}`, loader.ErrSyntax, "=== Syntax Errors ==="},
		{"check", `fn main() { nope() }`, loader.ErrCheck, "=== Check Errors ==="},
		{"runtime", `fn main() { println([1][3]) }`, runtime.ErrIndex, "=== Runtime Error ==="},
	}

	for _, test := range tests {
		var out bytes.Buffer
		r := Runner{SourceFile: script(t, test.source), Stdout: &out}

		err := r.Run()
		if !errors.Is(err, test.kind) {
			t.Errorf("%s: expected %v, got %v", test.description, test.kind, err)
		}
		if !strings.Contains(out.String(), test.header) {
			t.Errorf("%s: expected output to contain %q, got %q", test.description, test.header, out.String())
		}
	}
}

func TestRunMissingFile(t *testing.T) {
	r := Runner{SourceFile: filepath.Join(t.TempDir(), "missing.vsp"), Stdout: &bytes.Buffer{}}

	if err := r.Run(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

// lockedBuffer lets the test read output while the script is still running.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunShowsOutputBeforeSleep(t *testing.T) {
	var out lockedBuffer
	r := Runner{
		SourceFile: script(t, `fn main() { println("tick"); sleep(0.5); println("tock") }`),
		Stdout:     &out,
	}

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	time.Sleep(150 * time.Millisecond)
	if got := out.String(); got != "tick\n" {
		t.Errorf("Expected %q while sleeping, got %q", "tick\n", got)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not finish")
	}
	if got := out.String(); got != "tick\ntock\n" {
		t.Errorf("Expected %q, got %q", "tick\ntock\n", got)
	}
}
