package main

import (
	"flag"
	"fmt"
	"os"
)

const parseUsage = `protozod parse - Check proto files for syntax errors

Usage:
  protozod parse [options] FILE...

Options:
  -q, --quiet   Report errors only, no per-file output
  -h, --help    Show help

Examples:
  protozod parse api.proto
  protozod parse -q proto/*.proto
  protozod parse -v api.proto          # Debug logging
`

func (c *cli) cmdParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, parseUsage) }

	quiet := fs.Bool("q", false, "report errors only")
	fs.BoolVar(quiet, "quiet", false, "report errors only")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.helpFlag {
		_, _ = fmt.Fprint(os.Stdout, parseUsage)
		return exitOK
	}

	files := fs.Args()
	if len(files) == 0 {
		printError("no files specified")
		fmt.Fprint(os.Stderr, parseUsage)
		return exitError
	}

	code := exitOK
	for _, path := range files {
		file, err := c.parseProto(path)
		if err != nil {
			printError("%v", err)
			code = exitError
			continue
		}
		if !*quiet {
			fmt.Printf("%s: ok (%d declarations)\n", path, len(file.Decls))
		}
	}
	return code
}
