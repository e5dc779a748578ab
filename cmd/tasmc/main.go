// Command tasmc compiles a tasm source file into a "gmd" level export
// (the spatial trigger-object layout) and, alongside it, the wire
// format the simulator consumes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arrowslasharrow/tasm/compiler"
	"github.com/arrowslasharrow/tasm/config"
	"github.com/arrowslasharrow/tasm/lexer"
	"github.com/arrowslasharrow/tasm/namespace"
	"github.com/arrowslasharrow/tasm/object"
	"github.com/arrowslasharrow/tasm/tools"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion   = flag.Bool("version", false, "Show version information")
		outPath       = flag.String("gmd", "", "Level export output path (default: <input>.gmd.json)")
		wirePath      = flag.String("wire", "", "Simulator wire-format output path (default: <input>.tasmns)")
		release       = flag.Bool("release", false, "Reserved; currently has no effect on the output")
		memEndCounter = flag.Int("mem-end-counter", 0, "Override PTRPOS counter id (0 = use config/default)")
		groupLimit    = flag.Int("group-limit", 0, "Override the compiler's group limit (0 = use config/default)")
		levelName     = flag.String("level-name", "", "Name recorded in the gmd export")
		fmtOnly       = flag.Bool("fmt", false, "Print the reformatted source to stdout and exit, without compiling")
		lintOnly      = flag.Bool("lint", false, "Lint the source and print findings, without compiling")
		verbose       = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tasmc %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}
	srcPath := flag.Arg(0)

	source, err := os.ReadFile(srcPath) // #nosec G304 -- user-specified source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", srcPath, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if *fmtOnly {
		fmt.Print(tools.Format(string(source), nil))
		return
	}
	if *lintOnly {
		issues := tools.LintSource(string(source), *cfg)
		for _, issue := range issues {
			fmt.Println(issue.String())
		}
		if len(issues) == 0 {
			fmt.Println("no issues found")
		}
		return
	}

	cfg.Compiler.ReleaseMode = *release
	if *memEndCounter != 0 {
		cfg.Compiler.MemEndCounter = int16(*memEndCounter)
	}
	if *groupLimit != 0 {
		cfg.Compiler.GroupLimit = int16(*groupLimit)
	}
	if *levelName != "" {
		cfg.Compiler.LevelName = *levelName
	}

	if *verbose {
		fmt.Printf("lexing %s\n", srcPath)
	}
	ns, lexDiags := lexer.Lex(string(source), *cfg)
	if lexDiags.HasErrors() {
		fmt.Fprint(os.Stderr, lexDiags.Error())
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("compiling %d routines\n", len(ns.Routines))
	}
	gmdPath := *outPath
	if gmdPath == "" {
		gmdPath = withoutExt(srcPath) + ".gmd.json"
	}
	levelName2 := cfg.Compiler.LevelName
	if levelName2 == "" {
		levelName2 = withoutExt(filepath.Base(srcPath))
	}
	writer := object.NewLevelWriter(levelName2)
	compileDiags := compiler.NewDriver(*cfg).Compile(ns, writer)
	if compileDiags.HasErrors() {
		fmt.Fprint(os.Stderr, compileDiags.Error())
		os.Exit(1)
	}
	if err := writer.Flush(gmdPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", gmdPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d objects)\n", gmdPath, writer.Len())

	wireOut := *wirePath
	if wireOut == "" {
		wireOut = withoutExt(srcPath) + ".tasmns"
	}
	wire := namespace.FromCompiled(ns)
	data, err := wire.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling wire namespace: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(wireOut, data, 0644); err != nil { // #nosec G306 -- build artifact, not sensitive
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", wireOut, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", wireOut)
}

func withoutExt(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext)
}

func printHelp() {
	fmt.Println("tasmc - tasm compiler")
	fmt.Println()
	fmt.Println("Usage: tasmc [flags] <source.tasm>")
	fmt.Println()
	flag.PrintDefaults()
}
