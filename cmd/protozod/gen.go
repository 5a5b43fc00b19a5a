package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/protozod/protozod/cmd/internal/cliutil"
	"github.com/protozod/protozod/tsgen"
)

const genUsage = `protozod gen - Generate TypeScript zod schemas

Usage:
  protozod gen [options] FILE...

Options:
  -d DIR        Write one .ts file per input into DIR
  -no-header    Omit the generated-code header comment
  -no-bigint    Map 64-bit integers to z.number() instead of bigint
  -h, --help    Show help

Examples:
  protozod gen api.proto
  protozod gen -o api.ts api.proto
  protozod gen -d schemas/ proto/*.proto
  protozod gen -c protozod.yaml api.proto
`

func (c *cli) cmdGen(args []string) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, genUsage) }

	outDir := fs.String("d", "", "write one .ts file per input into DIR")
	noHeader := fs.Bool("no-header", false, "omit the header comment")
	noBigInt := fs.Bool("no-bigint", false, "map 64-bit integers to z.number()")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.helpFlag {
		_, _ = fmt.Fprint(os.Stdout, genUsage)
		return exitOK
	}

	files := fs.Args()
	if len(files) == 0 {
		printError("no files specified")
		fmt.Fprint(os.Stderr, genUsage)
		return exitError
	}

	header := !*noHeader
	bigint := !*noBigInt
	dir := *outDir

	if c.configPath != "" {
		cfg, err := loadConfig(c.configPath)
		if err != nil {
			printError("%v", err)
			return exitError
		}
		if cfg.Gen.Header != nil && !*noHeader {
			header = *cfg.Gen.Header
		}
		if cfg.Gen.BigInt != nil && !*noBigInt {
			bigint = *cfg.Gen.BigInt
		}
		if dir == "" {
			dir = cfg.Gen.OutDir
		}
	}

	opts := []tsgen.Option{
		tsgen.WithHeader(header),
		tsgen.WithBigInt(bigint),
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, tsgen.WithLogger(logger))
	}

	if dir != "" {
		return c.genToDir(files, dir, opts)
	}

	out, closeOut, err := cliutil.GetOutput(c.outputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	for _, path := range files {
		file, perr := c.parseProto(path)
		if perr != nil {
			printError("%v", perr)
			return exitError
		}
		code, gerr := tsgen.Generate(file, opts...)
		if gerr != nil {
			printError("generate %s: %v", path, gerr)
			return exitError
		}
		if _, werr := out.Write(code); werr != nil {
			printError("write: %v", werr)
			return exitError
		}
	}
	return exitOK
}

func (c *cli) genToDir(files []string, dir string, opts []tsgen.Option) int {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		printError("create %s: %v", dir, err)
		return exitError
	}
	for _, path := range files {
		file, perr := c.parseProto(path)
		if perr != nil {
			printError("%v", perr)
			return exitError
		}
		code, gerr := tsgen.Generate(file, opts...)
		if gerr != nil {
			printError("generate %s: %v", path, gerr)
			return exitError
		}
		target := filepath.Join(dir, tsFileName(path))
		if werr := os.WriteFile(target, code, 0o644); werr != nil {
			printError("write %s: %v", target, werr)
			return exitError
		}
	}
	return exitOK
}

// tsFileName maps an input path to its output file name: api.proto
// becomes api.ts.
func tsFileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".ts"
}
