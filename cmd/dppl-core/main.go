// Command dppl-core drives the compiler core (CPS transformation and 0-CFA
// analysis) against a named example program, the way cmd/funxy's main.go
// drives the teacher's lexer/parser/analyzer/evaluator pipeline against a
// source file. Since this module owns neither a surface-syntax parser nor
// an evaluator (spec.md's Non-goals), its CLI demonstrates the core against
// the fixtures package's canned programs instead of arbitrary source text.
package main

import (
	"fmt"
	"os"

	"github.com/aathn/dppl-core/internal/anacache"
	"github.com/aathn/dppl-core/internal/builtins"
	"github.com/aathn/dppl-core/internal/diagrender"
	"github.com/aathn/dppl-core/internal/fixtures"
	"github.com/aathn/dppl-core/internal/pipeline"
	"github.com/aathn/dppl-core/internal/pipelinecfg"
	"github.com/aathn/dppl-core/internal/runid"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	args := os.Args[1:]

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage()
		return
	}

	if args[0] == "list" {
		for _, p := range fixtures.All() {
			fmt.Printf("%-20s %s\n", p.Name, p.Summary)
		}
		return
	}

	if args[0] != "run" || len(args) < 2 {
		printUsage()
		os.Exit(2)
	}

	name := args[1]
	var cfgPath, cachePath string
	for _, a := range args[2:] {
		switch {
		case hasPrefix(a, "-config="):
			cfgPath = a[len("-config="):]
		case hasPrefix(a, "-cache="):
			cachePath = a[len("-cache="):]
		}
	}

	prog, ok := find(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown fixture %q; try %q\n", name, "dppl-core list")
		os.Exit(2)
	}

	cfg := pipelinecfg.Default()
	if cfgPath != "" {
		loaded, err := pipelinecfg.Load(cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if cachePath != "" {
		cfg.Cache = cachePath
	}

	table := builtins.Build(userEntries(prog.Free))
	ctx := pipeline.NewContext(prog.Term, table).WithConfig(cfg)
	ctx.RunID = runid.New()

	renderer := diagrender.New(os.Stdout)

	var cache *anacache.Cache
	if cfg.CacheEnabled() {
		c, err := anacache.Open(cfg.Cache)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer c.Close()
		cache = c
	}

	ctx = pipeline.RunFull(ctx)
	if ctx.Err != nil {
		renderer.Failure(ctx.RunID, ctx.Err)
		os.Exit(1)
	}

	if cache != nil && ctx.Data != nil {
		fp := anacache.Fingerprint(ctx.BMap, ctx.Program)
		if err := cache.Put(fp, ctx.Data, ctx.Mark, ctx.Interner); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	renderer.Summary(ctx.RunID, ctx.NLabels, len(ctx.Constraints), diagrender.CountDynamic(ctx.Mark))
}

func find(name string) (fixtures.Program, bool) {
	for _, p := range fixtures.All() {
		if p.Name == name {
			return p, true
		}
	}
	return fixtures.Program{}, false
}

func userEntries(names []string) []builtins.Entry {
	entries := make([]builtins.Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, builtins.Entry{Name: n})
	}
	return entries
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func printUsage() {
	fmt.Println(`dppl-core — CPS transformation and 0-CFA analysis over example programs

Usage:
  dppl-core list
  dppl-core run <fixture> [-config=path] [-cache=path]

Run "dppl-core list" to see available fixtures.`)
}
