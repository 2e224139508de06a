package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"vesper/internal/config"
	"vesper/pkg/ast"
	"vesper/pkg/color"
	"vesper/pkg/loader"
	"vesper/pkg/runtime"
)

type Runner struct {
	SourceFile string         // Path to the script
	Config     *config.Config // Entry function, seed, depth limit
	Stdout     io.Writer      // Program output and diagnostics
	Stdin      io.Reader      // Input for read_line and read_number
}

// Run loads the script, reports syntax or check errors, then runs its entry function.
func (r *Runner) Run() error {
	log.Info("Processing file", "file", r.SourceFile)

	cfg := r.Config
	if cfg == nil {
		cfg = config.Default()
	}

	input, err := os.ReadFile(r.SourceFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", r.SourceFile, err)
	}

	out := bufio.NewWriter(r.stdout())
	defer out.Flush()

	m := ast.NewModule()
	if err := loader.Load(string(input), m); err != nil {
		r.reportLoad(out, err)
		return fmt.Errorf("loading %s: %w", r.SourceFile, err)
	}

	if cfg.Verbose {
		fmt.Fprintln(out, color.GreenText("=== Functions ==="))
		for _, key := range m.Keys() {
			fmt.Fprintln(out, color.CyanText(key))
		}
		fmt.Fprintln(out, color.GreenText("\n=== Program Output ==="))
	}

	opts := []runtime.Option{
		runtime.WithWriter(out),
		runtime.WithReader(r.stdin()),
		runtime.WithMaxDepth(cfg.MaxDepth),
	}
	if cfg.Seed != nil {
		opts = append(opts, runtime.WithSeed(*cfg.Seed))
	}

	rt := runtime.New(opts...)
	if err := rt.Run(m, cfg.Entry); err != nil {
		r.reportFatal(out, err)
		return fmt.Errorf("running `%s`: %w", cfg.Entry, err)
	}

	return nil
}

func (r *Runner) reportLoad(w io.Writer, err error) {
	var loadErr *loader.Error
	if !errors.As(err, &loadErr) {
		fmt.Fprintln(w, color.Error(err.Error()))
		return
	}

	header := "=== Syntax Errors ==="
	if errors.Is(err, loader.ErrCheck) {
		header = "=== Check Errors ==="
	}

	fmt.Fprintln(w, color.BrightRedText(header))
	for _, d := range loadErr.Diagnostics {
		fmt.Fprintln(w, d)
	}
}

func (r *Runner) reportFatal(w io.Writer, err error) {
	fmt.Fprintln(w, color.BrightRedText("\n=== Runtime Error ==="))
	fmt.Fprintln(w, color.Error(err.Error()))

	var fatal *runtime.FatalError
	if errors.As(err, &fatal) {
		fmt.Fprint(w, color.GrayText(strings.TrimRight(runtime.FormatBacktrace(fatal.Backtrace), "\n")))
		fmt.Fprintln(w)
	}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}

	return r.Stdout
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin == nil {
		return os.Stdin
	}

	return r.Stdin
}
