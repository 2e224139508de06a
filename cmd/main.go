package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"vesper/internal/config"
	"vesper/internal/logger"
	"vesper/internal/runner"
	"vesper/pkg/color"
)

// Main entry point for the Vesper runtime.
func main() {
	var (
		help       bool
		verbose    bool
		noColor    bool
		configFile string
		entry      string
		seed       uint64
		maxDepth   int
	)

	flag.BoolVar(&help, "h", false, "Show help")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&noColor, "n", false, "No color")
	flag.StringVar(&configFile, "c", "", "Config file (default: "+config.FileName+" next to the script)")
	flag.StringVar(&entry, "e", "main", "Entry function")
	flag.Uint64Var(&seed, "s", 0, "Seed for random")
	flag.IntVar(&maxDepth, "d", 0, "Maximum call depth (0 = unlimited)")

	flag.Parse()
	args := flag.Args()

	if help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if len(args) == 0 {
		logger.Init(verbose, noColor)
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	if configFile == "" {
		configFile = filepath.Join(filepath.Dir(args[0]), config.FileName)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.Init(verbose, noColor)
		log.Fatal("Invalid configuration", "file", configFile, "error", err)
	}

	// flags given explicitly win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Verbose = verbose
		case "n":
			cfg.NoColor = noColor
		case "e":
			cfg.Entry = entry
		case "s":
			cfg.Seed = &seed
		case "d":
			cfg.MaxDepth = maxDepth
		}
	})

	logger.Init(cfg.Verbose, cfg.NoColor)
	if cfg.NoColor {
		color.EnableColor(false)
	}

	r := runner.Runner{SourceFile: args[0], Config: cfg}
	if err := r.Run(); err != nil {
		log.Fatal("Run failed", "error", err)
	}
}
